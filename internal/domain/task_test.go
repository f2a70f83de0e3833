package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float64Ptr(v float64) *float64 { return &v }
func intPtr(v int) *int             { return &v }

func newTestPallet(t *testing.T, weight *float64) *Pallet {
	t.Helper()
	p, err := NewPallet("P1", "SKU-1", 40, weight)
	require.NoError(t, err)
	return p
}

func TestTaskStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to TaskStatus
		allowed  bool
	}{
		{TaskStatusInProgress, TaskStatusCompleted, true},
		{TaskStatusInProgress, TaskStatusCancelled, true},
		{TaskStatusCompleted, TaskStatusCancelled, false},
		{TaskStatusCancelled, TaskStatusCompleted, false},
		{TaskStatusCompleted, TaskStatusInProgress, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestPallet_Lifecycle(t *testing.T) {
	p := newTestPallet(t, nil)
	now := time.Now().UTC()

	require.NoError(t, p.Claim("op1", now))
	assert.Equal(t, PalletStatusInProcess, p.Status)
	assert.Equal(t, "op1", p.AssignedOperatorID)
	assert.ErrorIs(t, p.Claim("op2", now), ErrPalletUnavailable)

	require.NoError(t, p.Release(now))
	assert.Equal(t, PalletStatusWaitingPutaway, p.Status)
	assert.Empty(t, p.AssignedOperatorID)
	assert.Nil(t, p.AssignedAt)

	require.NoError(t, p.Claim("op2", now))
	require.NoError(t, p.Store("L2", now))
	assert.Equal(t, PalletStatusStored, p.Status)
	assert.Equal(t, "L2", p.LocationID)
	assert.Empty(t, p.AssignedOperatorID)
	assert.ErrorIs(t, p.Release(now), ErrInvalidStatusTransition)
}

func TestNewPallet_Validation(t *testing.T) {
	_, err := NewPallet("", "SKU-1", 1, nil)
	assert.ErrorIs(t, err, ErrInvalidPallet)
	_, err = NewPallet("P1", "SKU-1", 0, nil)
	assert.ErrorIs(t, err, ErrInvalidPallet)
	_, err = NewPallet("P1", "SKU-1", 1, float64Ptr(-1))
	assert.ErrorIs(t, err, ErrInvalidPallet)
}

func TestPutAwayTask_CompleteFloorsDuration(t *testing.T) {
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	task := NewPutAwayTask("t1", "PA-20260301-ABCDEF", newTestPallet(t, nil), "op1", "L1", 0, "", started)

	assert.Equal(t, DefaultTaskPriority, task.Priority)
	assert.Equal(t, 40, task.Quantity)
	require.Len(t, task.GetDomainEvents(), 1)

	require.NoError(t, task.Complete("L2", started.Add(7*time.Minute+59*time.Second)))
	assert.Equal(t, TaskStatusCompleted, task.Status)
	assert.Equal(t, "L2", task.ActualLocationID)
	require.NotNil(t, task.DurationMinutes)
	assert.Equal(t, 7, *task.DurationMinutes)
	assert.False(t, task.FollowedSuggestion())

	events := task.GetDomainEvents()
	require.Len(t, events, 2)
	completed, ok := events[1].(*TaskCompletedEvent)
	require.True(t, ok)
	assert.Equal(t, "L2", completed.ActualLocationID)
	assert.Equal(t, "wms.putaway.task-completed", completed.EventType())
}

func TestPutAwayTask_TerminatesOnce(t *testing.T) {
	now := time.Now().UTC()
	task := NewPutAwayTask("t1", "PA-1", newTestPallet(t, nil), "op1", "", 1, "", now)

	require.NoError(t, task.Cancel("damaged", now))
	assert.Equal(t, "damaged", task.CancellationReason)
	assert.NotNil(t, task.CompletedAt)

	assert.ErrorIs(t, task.Cancel("again", now), ErrTaskNotInProgress)
	assert.ErrorIs(t, task.Complete("L1", now), ErrTaskNotInProgress)
	assert.Equal(t, TaskStatusCancelled, task.Status)
}

func TestLocation_Occupy(t *testing.T) {
	loc, err := NewLocation("L1", "A-01", LocationTypeRack, intPtr(2), nil, "ABC234")
	require.NoError(t, err)

	require.NoError(t, loc.Occupy(time.Now()))
	assert.Equal(t, 1, loc.CurrentOccupancy)
	assert.Equal(t, OccupancyOccupied, loc.OccupancyStatus)
	assert.False(t, loc.IsCandidate())

	require.NoError(t, loc.Occupy(time.Now()))
	assert.ErrorIs(t, loc.Occupy(time.Now()), ErrLocationCapacityExceeded)
	assert.Equal(t, 2, loc.CurrentOccupancy)
}

func TestLocation_MatchesCodeExactly(t *testing.T) {
	loc, err := NewLocation("L1", "A-01", LocationTypeBin, nil, nil, "ABC234")
	require.NoError(t, err)

	assert.True(t, loc.MatchesCode("ABC234"))
	assert.False(t, loc.MatchesCode("abc234"))
	assert.False(t, loc.MatchesCode(" ABC234"))
	assert.False(t, loc.MatchesCode(""))
}

func TestNewPutawayMovement(t *testing.T) {
	now := time.Now().UTC()
	task := NewPutAwayTask("t1", "PA-1", newTestPallet(t, nil), "op1", "L1", 1, "", now)
	require.NoError(t, task.Complete("L1", now.Add(time.Minute)))

	m := NewPutawayMovement("m1", task)
	assert.Equal(t, "SKU-1", m.ProductID)
	assert.Equal(t, "L1", m.LocationID)
	assert.Equal(t, 40, m.Quantity)
	assert.Equal(t, MovementTypePutaway, m.MovementType)
	assert.Equal(t, "t1", m.TaskID)
	assert.Equal(t, "op1", m.OperatorID)
	assert.Equal(t, *task.CompletedAt, m.CreatedAt)
	assert.Equal(t, "m1", m.Event().MovementID)
}
