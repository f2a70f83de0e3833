package application

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wms-platform/putaway-service/internal/domain"
	"github.com/wms-platform/putaway-service/pkg/cloudevents"
	"github.com/wms-platform/putaway-service/pkg/errors"
	"github.com/wms-platform/putaway-service/pkg/logging"
	"github.com/wms-platform/putaway-service/pkg/metrics"
	"github.com/wms-platform/putaway-service/pkg/tracing"
)

// PutawayService is the task lifecycle: claim, complete and cancel
type PutawayService struct {
	repos    Repositories
	selector *domain.LocationSelector
	codes    *domain.CodeGenerator
	events   *eventRecorder
	metrics  *metrics.Metrics
	logger   *logging.Logger
	now      func() time.Time
}

// NewPutawayService creates a new PutawayService
func NewPutawayService(
	repos Repositories,
	ranker domain.Ranker,
	eventFactory *cloudevents.EventFactory,
	m *metrics.Metrics,
	logger *logging.Logger,
) *PutawayService {
	return &PutawayService{
		repos:    repos,
		selector: domain.NewLocationSelector(repos.Locations, repos.Rules, ranker),
		codes:    domain.NewCodeGenerator(),
		events:   newEventRecorder(eventFactory, repos.Outbox),
		metrics:  m,
		logger:   logger,
		now:      defaultClock,
	}
}

// ClaimTask claims a waiting pallet and attaches a location suggestion.
// When no location is available the claim still succeeds with no suggestion.
func (s *PutawayService) ClaimTask(ctx context.Context, cmd ClaimTaskCommand) (*ClaimResultDTO, error) {
	cmd.PalletID = strings.TrimSpace(cmd.PalletID)
	cmd.OperatorID = strings.TrimSpace(cmd.OperatorID)
	if cmd.PalletID == "" || cmd.OperatorID == "" {
		return nil, errors.ErrValidation("palletId and operatorId are required")
	}

	ctx, span := tracing.StartSpan(ctx, "putaway.claim",
		attribute.String("wms.pallet_id", cmd.PalletID),
		attribute.String("wms.operator_id", cmd.OperatorID),
	)
	var err error
	defer func() { tracing.EndSpan(span, err) }()

	var (
		task       *domain.PutAwayTask
		suggestion *domain.Location
	)

	err = s.repos.Transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		now := s.now()

		pallet, err := s.repos.Pallets.ClaimForPutaway(txCtx, cmd.PalletID, cmd.OperatorID, now)
		if err != nil {
			return err
		}

		suggestion, err = s.suggest(txCtx, pallet)
		if err != nil {
			return err
		}
		suggestedID := ""
		if suggestion != nil {
			suggestedID = suggestion.ID
		}

		number, err := s.codes.TaskNumber(txCtx, now, s.repos.Tasks.TaskNumberExists)
		if err != nil {
			return err
		}

		task = domain.NewPutAwayTask(uuid.New().String(), number, pallet, cmd.OperatorID, suggestedID, cmd.Priority, cmd.Notes, now)
		if err := s.repos.Tasks.Create(txCtx, task); err != nil {
			return err
		}

		return s.events.record(txCtx, aggregateTask, task.ID, task.GetDomainEvents()...)
	})
	if err != nil {
		appErr := toAppError(err, refs{palletID: cmd.PalletID}, "claim pallet")
		if appErr.HTTPStatus >= 500 {
			s.logger.WithError(err).Error("Failed to claim pallet", "palletId", cmd.PalletID, "operatorId", cmd.OperatorID)
		}
		return nil, appErr
	}
	task.ClearDomainEvents()

	s.metrics.RecordTaskClaimed(suggestion != nil)

	log := s.logger.WithContext(ctx)
	if suggestion == nil {
		log.Warn("Claimed pallet without a location suggestion",
			"taskId", task.ID,
			"taskNumber", task.TaskNumber,
			"palletId", task.PalletID,
			"operatorId", task.OperatorID,
		)
	} else {
		log.Info("Claimed pallet",
			"taskId", task.ID,
			"taskNumber", task.TaskNumber,
			"palletId", task.PalletID,
			"operatorId", task.OperatorID,
			"suggestedLocationId", suggestion.ID,
		)
	}

	result := &ClaimResultDTO{Task: ToTaskDTO(task)}
	if suggestion != nil {
		dto := ToLocationDTO(suggestion)
		result.SuggestedLocation = &dto
	}
	return result, nil
}

// suggest runs the selector, turning NoLocationAvailable into a nil suggestion
func (s *PutawayService) suggest(ctx context.Context, pallet *domain.Pallet) (*domain.Location, error) {
	start := time.Now()
	loc, err := s.selector.Select(ctx, pallet)
	s.metrics.RecordSelection(s.selector.Ranker().Name(), time.Since(start))

	if stderrors.Is(err, domain.ErrNoLocationAvailable) {
		return nil, nil
	}
	return loc, err
}

// SuggestLocation runs the selector for a pallet without claiming it
func (s *PutawayService) SuggestLocation(ctx context.Context, query SuggestLocationQuery) (*LocationDTO, error) {
	pallet, err := s.repos.Pallets.FindByID(ctx, query.PalletID)
	if err != nil {
		return nil, toAppError(err, refs{palletID: query.PalletID}, "find pallet")
	}

	start := time.Now()
	loc, err := s.selector.Select(ctx, pallet)
	s.metrics.RecordSelection(s.selector.Ranker().Name(), time.Since(start))
	if err != nil {
		return nil, toAppError(err, refs{palletID: query.PalletID}, "select location")
	}

	dto := ToLocationDTO(loc)
	return &dto, nil
}

// CompleteTask confirms the pallet at a location. The code is checked before
// anything is written; task, pallet, location and ledger change together or
// not at all.
func (s *PutawayService) CompleteTask(ctx context.Context, cmd CompleteTaskCommand) (*CompletionResultDTO, error) {
	if cmd.TaskID == "" || cmd.LocationID == "" {
		return nil, errors.ErrValidation("taskId and locationId are required")
	}

	ctx, span := tracing.StartSpan(ctx, "putaway.complete",
		attribute.String("wms.task_id", cmd.TaskID),
		attribute.String("wms.location_id", cmd.LocationID),
	)
	var err error
	defer func() { tracing.EndSpan(span, err) }()

	var (
		task     *domain.PutAwayTask
		location *domain.Location
		movement *domain.StockMovement
	)

	err = s.repos.Transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		task, err = s.repos.Tasks.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}
		if task.Status != domain.TaskStatusInProgress {
			return domain.ErrTaskNotInProgress
		}

		location, err = s.repos.Locations.FindByID(txCtx, cmd.LocationID)
		if err != nil {
			return err
		}
		if !location.MatchesCode(cmd.ConfirmationCode) {
			return domain.ErrConfirmationCodeMismatch
		}
		if !location.HasRoom() {
			return domain.ErrLocationCapacityExceeded
		}

		now := s.now()
		if err := task.Complete(location.ID, now); err != nil {
			return err
		}
		if err := s.repos.Tasks.Finalize(txCtx, task); err != nil {
			return err
		}
		if err := s.repos.Pallets.MarkStored(txCtx, task.PalletID, location.ID, now); err != nil {
			return err
		}
		if location, err = s.repos.Locations.IncrementOccupancy(txCtx, location.ID, now); err != nil {
			return err
		}

		movement = domain.NewPutawayMovement(uuid.New().String(), task)
		if err := s.repos.Movements.Append(txCtx, movement); err != nil {
			return err
		}

		if err := s.events.record(txCtx, aggregateTask, task.ID, task.GetDomainEvents()...); err != nil {
			return err
		}
		return s.events.record(txCtx, aggregateStock, movement.ID, movement.Event())
	})
	if err != nil {
		r := refs{taskID: cmd.TaskID, locationID: cmd.LocationID}
		if stderrors.Is(err, domain.ErrConfirmationCodeMismatch) {
			s.metrics.RecordConfirmationMismatch()
			s.logger.WithContext(ctx).Warn("Confirmation code mismatch", "taskId", cmd.TaskID, "locationId", cmd.LocationID)
		}
		appErr := toAppError(err, r, "complete task")
		if appErr.HTTPStatus >= 500 {
			s.logger.WithError(err).Error("Failed to complete task", "taskId", cmd.TaskID, "locationId", cmd.LocationID)
		}
		return nil, appErr
	}
	task.ClearDomainEvents()

	s.metrics.RecordTaskCompleted(string(location.Type), *task.DurationMinutes)
	s.logger.WithContext(ctx).Info("Completed put-away task",
		"taskId", task.ID,
		"taskNumber", task.TaskNumber,
		"palletId", task.PalletID,
		"operatorId", task.OperatorID,
		"locationId", location.ID,
		"followedSuggestion", task.FollowedSuggestion(),
		"durationMinutes", *task.DurationMinutes,
	)
	s.logger.Audit(ctx, "putaway.complete", "task", task.ID, map[string]any{
		"movementId": movement.ID,
		"locationId": location.ID,
		"quantity":   movement.Quantity,
	})

	return &CompletionResultDTO{Task: ToTaskDTO(task), Movement: ToMovementDTO(movement)}, nil
}

// CancelTask terminates an in-progress task and returns its pallet to the pool
func (s *PutawayService) CancelTask(ctx context.Context, cmd CancelTaskCommand) (*TaskDTO, error) {
	if cmd.TaskID == "" {
		return nil, errors.ErrValidation("taskId is required")
	}

	var task *domain.PutAwayTask
	err := s.repos.Transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		task, err = s.repos.Tasks.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}

		now := s.now()
		if err := task.Cancel(cmd.Reason, now); err != nil {
			return err
		}
		if err := s.repos.Tasks.Finalize(txCtx, task); err != nil {
			return err
		}
		if err := s.repos.Pallets.Release(txCtx, task.PalletID, now); err != nil {
			return err
		}

		return s.events.record(txCtx, aggregateTask, task.ID, task.GetDomainEvents()...)
	})
	if err != nil {
		appErr := toAppError(err, refs{taskID: cmd.TaskID}, "cancel task")
		if appErr.HTTPStatus >= 500 {
			s.logger.WithError(err).Error("Failed to cancel task", "taskId", cmd.TaskID)
		}
		return nil, appErr
	}
	task.ClearDomainEvents()

	s.metrics.RecordTaskCancelled()
	s.logger.WithContext(ctx).Info("Cancelled put-away task",
		"taskId", task.ID,
		"palletId", task.PalletID,
		"operatorId", task.OperatorID,
		"reason", cmd.Reason,
	)

	dto := ToTaskDTO(task)
	return &dto, nil
}

// GetTask retrieves a task by ID
func (s *PutawayService) GetTask(ctx context.Context, query GetTaskQuery) (*TaskDTO, error) {
	task, err := s.repos.Tasks.FindByID(ctx, query.TaskID)
	if err != nil {
		return nil, toAppError(err, refs{taskID: query.TaskID}, "get task")
	}
	dto := ToTaskDTO(task)
	return &dto, nil
}

// ListTasks lists tasks, newest first
func (s *PutawayService) ListTasks(ctx context.Context, query ListTasksQuery) ([]TaskDTO, int64, error) {
	filter := domain.TaskFilter{}
	if query.Status != "" {
		status := domain.TaskStatus(query.Status)
		if !status.IsValid() {
			return nil, 0, errors.ErrValidation("invalid task status").WithDetail("status", query.Status)
		}
		filter.Status = &status
	}
	if query.OperatorID != "" {
		filter.OperatorID = &query.OperatorID
	}
	if query.PalletID != "" {
		filter.PalletID = &query.PalletID
	}

	tasks, total, err := s.repos.Tasks.List(ctx, filter, query.Page)
	if err != nil {
		return nil, 0, toAppError(err, refs{}, "list tasks")
	}
	return mapSlice(tasks, ToTaskDTO), total, nil
}
