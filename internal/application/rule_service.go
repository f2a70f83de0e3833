package application

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/wms-platform/putaway-service/internal/domain"
	"github.com/wms-platform/putaway-service/pkg/cloudevents"
	"github.com/wms-platform/putaway-service/pkg/errors"
	"github.com/wms-platform/putaway-service/pkg/logging"
)

// RuleService manages put-away rules
type RuleService struct {
	repos  Repositories
	events *eventRecorder
	logger *logging.Logger
	now    func() time.Time
}

// NewRuleService creates a new RuleService
func NewRuleService(repos Repositories, eventFactory *cloudevents.EventFactory, logger *logging.Logger) *RuleService {
	return &RuleService{
		repos:  repos,
		events: newEventRecorder(eventFactory, repos.Outbox),
		logger: logger,
		now:    defaultClock,
	}
}

// CreateRule adds a rule. Rules are active unless the command says otherwise.
func (s *RuleService) CreateRule(ctx context.Context, cmd CreateRuleCommand) (*RuleDTO, error) {
	active := true
	if cmd.Active != nil {
		active = *cmd.Active
	}

	rule, err := domain.NewPutAwayRule(
		uuid.New().String(),
		cmd.Name,
		cmd.Description,
		toConditions(cmd.Conditions),
		toLocationTypes(cmd.LocationTypes),
		cmd.Priority,
		active,
	)
	if err != nil {
		return nil, toAppError(err, refs{}, "create rule")
	}
	now := s.now()
	rule.CreatedAt, rule.UpdatedAt = now, now

	err = s.repos.Transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repos.Rules.Create(txCtx, rule); err != nil {
			return err
		}
		return s.events.record(txCtx, aggregateRule, rule.ID, ruleChanged(rule, domain.RuleCreated, now))
	})
	if err != nil {
		return nil, toAppError(err, refs{ruleID: rule.ID}, "create rule")
	}

	s.logger.WithContext(ctx).Info("Created put-away rule", "ruleId", rule.ID, "name", rule.Name, "priority", rule.Priority)

	dto := ToRuleDTO(rule)
	return &dto, nil
}

// UpdateRule replaces every mutable field of a rule
func (s *RuleService) UpdateRule(ctx context.Context, cmd UpdateRuleCommand) (*RuleDTO, error) {
	var rule *domain.PutAwayRule
	err := s.repos.Transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.repos.Rules.FindByID(txCtx, cmd.RuleID)
		if err != nil {
			return err
		}

		updated := *existing
		updated.Name = strings.TrimSpace(cmd.Name)
		updated.Description = cmd.Description
		updated.Conditions = toConditions(cmd.Conditions)
		updated.LocationTypes = toLocationTypes(cmd.LocationTypes)
		updated.Priority = cmd.Priority
		updated.Active = cmd.Active
		if err := updated.Validate(); err != nil {
			return err
		}

		now := s.now()
		updated.UpdatedAt = now
		if err := s.repos.Rules.Update(txCtx, &updated); err != nil {
			return err
		}
		rule = &updated
		return s.events.record(txCtx, aggregateRule, rule.ID, ruleChanged(rule, domain.RuleUpdated, now))
	})
	if err != nil {
		return nil, toAppError(err, refs{ruleID: cmd.RuleID}, "update rule")
	}

	s.logger.WithContext(ctx).Info("Updated put-away rule", "ruleId", rule.ID, "name", rule.Name, "active", rule.Active)

	dto := ToRuleDTO(rule)
	return &dto, nil
}

// DeleteRule removes a rule
func (s *RuleService) DeleteRule(ctx context.Context, ruleID string) error {
	err := s.repos.Transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		rule, err := s.repos.Rules.FindByID(txCtx, ruleID)
		if err != nil {
			return err
		}
		if err := s.repos.Rules.Delete(txCtx, ruleID); err != nil {
			return err
		}
		return s.events.record(txCtx, aggregateRule, rule.ID, ruleChanged(rule, domain.RuleDeleted, s.now()))
	})
	if err != nil {
		return toAppError(err, refs{ruleID: ruleID}, "delete rule")
	}

	s.logger.WithContext(ctx).Info("Deleted put-away rule", "ruleId", ruleID)
	return nil
}

// GetRule retrieves a rule by ID
func (s *RuleService) GetRule(ctx context.Context, ruleID string) (*RuleDTO, error) {
	rule, err := s.repos.Rules.FindByID(ctx, ruleID)
	if err != nil {
		return nil, toAppError(err, refs{ruleID: ruleID}, "get rule")
	}
	dto := ToRuleDTO(rule)
	return &dto, nil
}

// ListRules lists rules in evaluation order
func (s *RuleService) ListRules(ctx context.Context, activeOnly bool) ([]RuleDTO, error) {
	rules, err := s.repos.Rules.List(ctx, activeOnly)
	if err != nil {
		return nil, toAppError(err, refs{}, "list rules")
	}
	return mapSlice(rules, ToRuleDTO), nil
}

// SeedRules creates rules from a YAML list when the rule store is empty.
// The file is applied all or nothing. It returns the number of rules created.
func (s *RuleService) SeedRules(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read rules file: %w", err)
	}

	var seeds []CreateRuleCommand
	if err := yaml.Unmarshal(data, &seeds); err != nil {
		return 0, errors.ErrValidation("invalid rules file").WithDetail("path", path).Wrap(err)
	}

	var existing int64
	err = s.repos.Transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		count, err := s.repos.Rules.Count(txCtx)
		if err != nil {
			return toAppError(err, refs{}, "count rules")
		}
		if existing = count; existing > 0 {
			return nil
		}

		for _, seed := range seeds {
			if _, err := s.CreateRule(txCtx, seed); err != nil {
				return fmt.Errorf("seed rule %q: %w", seed.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		s.logger.Info("Rule store not empty, skipping seed", "existing", existing, "path", path)
		return 0, nil
	}

	s.logger.Info("Seeded put-away rules", "count", len(seeds), "path", path)
	return len(seeds), nil
}

func ruleChanged(rule *domain.PutAwayRule, change string, at time.Time) *domain.RuleChangedEvent {
	return &domain.RuleChangedEvent{
		RuleID:    rule.ID,
		Name:      rule.Name,
		Change:    change,
		Priority:  rule.Priority,
		Active:    rule.Active,
		ChangedAt: at,
	}
}
