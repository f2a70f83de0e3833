package application

import "github.com/wms-platform/putaway-service/internal/domain"

// ToTaskDTO converts a domain PutAwayTask to TaskDTO
func ToTaskDTO(task *domain.PutAwayTask) TaskDTO {
	return TaskDTO{
		ID:                  task.ID,
		TaskNumber:          task.TaskNumber,
		PalletID:            task.PalletID,
		ProductID:           task.ProductID,
		OperatorID:          task.OperatorID,
		SuggestedLocationID: task.SuggestedLocationID,
		ActualLocationID:    task.ActualLocationID,
		Status:              string(task.Status),
		Priority:            task.Priority,
		Quantity:            task.Quantity,
		StartedAt:           task.StartedAt,
		CompletedAt:         task.CompletedAt,
		DurationMinutes:     task.DurationMinutes,
		Notes:               task.Notes,
		CancellationReason:  task.CancellationReason,
	}
}

// ToPalletDTO converts a domain Pallet to PalletDTO
func ToPalletDTO(p *domain.Pallet) PalletDTO {
	return PalletDTO{
		ID:                 p.ID,
		ProductID:          p.ProductID,
		Quantity:           p.Quantity,
		Weight:             p.Weight,
		Status:             string(p.Status),
		AssignedOperatorID: p.AssignedOperatorID,
		AssignedAt:         p.AssignedAt,
		LocationID:         p.LocationID,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

// ToLocationDTO converts a domain Location to LocationDTO
func ToLocationDTO(l *domain.Location) LocationDTO {
	return LocationDTO{
		ID:               l.ID,
		Code:             l.Code,
		Type:             string(l.Type),
		Capacity:         l.Capacity,
		CurrentOccupancy: l.CurrentOccupancy,
		OccupancyStatus:  string(l.OccupancyStatus),
		Active:           l.Active,
		MaxWeight:        l.Restrictions.MaxWeight,
		UpdatedAt:        l.UpdatedAt,
	}
}

// ToRuleDTO converts a domain PutAwayRule to RuleDTO
func ToRuleDTO(r *domain.PutAwayRule) RuleDTO {
	conditions := make([]RuleConditionDTO, 0, len(r.Conditions))
	for _, c := range r.Conditions {
		conditions = append(conditions, RuleConditionDTO{
			Field:    string(c.Field),
			Operator: string(c.Operator),
			Value:    c.Value,
		})
	}
	types := make([]string, 0, len(r.LocationTypes))
	for _, t := range r.LocationTypes {
		types = append(types, string(t))
	}
	return RuleDTO{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		Conditions:    conditions,
		LocationTypes: types,
		Priority:      r.Priority,
		Active:        r.Active,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// ToMovementDTO converts a domain StockMovement to MovementDTO
func ToMovementDTO(m *domain.StockMovement) MovementDTO {
	return MovementDTO{
		ID:           m.ID,
		ProductID:    m.ProductID,
		LocationID:   m.LocationID,
		Quantity:     m.Quantity,
		MovementType: m.MovementType,
		TaskID:       m.TaskID,
		OperatorID:   m.OperatorID,
		Status:       m.Status,
		CreatedAt:    m.CreatedAt,
	}
}

func toConditions(in []RuleConditionInput) []domain.RuleCondition {
	out := make([]domain.RuleCondition, 0, len(in))
	for _, c := range in {
		out = append(out, domain.RuleCondition{
			Field:    domain.ConditionField(c.Field),
			Operator: domain.ConditionOperator(c.Operator),
			Value:    c.Value,
		})
	}
	return out
}

func toLocationTypes(in []string) []domain.LocationType {
	out := make([]domain.LocationType, 0, len(in))
	for _, t := range in {
		out = append(out, domain.LocationType(t))
	}
	return out
}

func mapSlice[T any, D any](items []T, fn func(T) D) []D {
	out := make([]D, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}
