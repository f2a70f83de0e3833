package application

import (
	"context"
	"time"

	"github.com/wms-platform/putaway-service/internal/domain"
	"github.com/wms-platform/putaway-service/pkg/logging"
)

// MetricsService is the Metrics Aggregator. It only reads.
type MetricsService struct {
	repos    Repositories
	location *time.Location
	logger   *logging.Logger
	now      func() time.Time
}

// NewMetricsService creates a MetricsService whose day boundary follows tz.
// A nil tz means UTC.
func NewMetricsService(repos Repositories, tz *time.Location, logger *logging.Logger) *MetricsService {
	if tz == nil {
		tz = time.UTC
	}
	return &MetricsService{repos: repos, location: tz, logger: logger, now: defaultClock}
}

// GetMetrics summarizes the current local day
func (s *MetricsService) GetMetrics(ctx context.Context) (*MetricsDTO, error) {
	from, to := domain.DayBounds(s.now(), s.location)

	completed, err := s.repos.Tasks.FindCompletedBetween(ctx, from, to)
	if err != nil {
		return nil, toAppError(err, refs{}, "load completed tasks")
	}
	pending, err := s.repos.Pallets.CountByStatus(ctx, domain.PalletStatusWaitingPutaway)
	if err != nil {
		return nil, toAppError(err, refs{}, "count pending pallets")
	}
	operators, err := s.repos.Tasks.ActiveOperatorIDs(ctx)
	if err != nil {
		return nil, toAppError(err, refs{}, "load active operators")
	}

	count, avg := domain.SummarizeCompletions(completed)
	m := domain.PutawayMetrics{
		TasksCompletedToday:      count,
		PendingPalletCount:       pending,
		ActiveOperatorCount:      len(operators),
		AverageCompletionMinutes: avg,
	}

	s.logger.WithContext(ctx).Debug("Computed put-away metrics", "from", from, "to", to, "completed", count)

	return &MetricsDTO{
		TasksCompletedToday:      m.TasksCompletedToday,
		PendingPalletCount:       m.PendingPalletCount,
		ActiveOperatorCount:      m.ActiveOperatorCount,
		AverageCompletionMinutes: m.AverageCompletionMinutes,
	}, nil
}
