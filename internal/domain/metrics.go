package domain

import "time"

// PutawayMetrics is the operational summary of the put-away floor
type PutawayMetrics struct {
	TasksCompletedToday      int     `json:"tasksCompletedToday"`
	PendingPalletCount       int64   `json:"pendingPalletCount"`
	ActiveOperatorCount      int     `json:"activeOperatorCount"`
	AverageCompletionMinutes float64 `json:"averageCompletionMinutes"`
}

// DayBounds returns the start of now's local day in loc and the start of the next
func DayBounds(now time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// SummarizeCompletions computes today's count and mean duration from the
// completed tasks of one day. Tasks without a recorded duration count but do
// not affect the mean.
func SummarizeCompletions(completed []*PutAwayTask) (int, float64) {
	var total, timed int
	for _, t := range completed {
		if t.DurationMinutes != nil {
			total += *t.DurationMinutes
			timed++
		}
	}
	if timed == 0 {
		return len(completed), 0
	}
	return len(completed), float64(total) / float64(timed)
}
