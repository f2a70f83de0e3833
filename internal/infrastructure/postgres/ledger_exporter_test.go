package postgres

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/putaway-service/internal/domain"
)

type execCall struct {
	sql  string
	args []any
}

type fakeExecer struct {
	calls []execCall
	err   error
}

func (f *fakeExecer) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, execCall{sql: sql, args: args})
	if f.err != nil {
		return pgconn.CommandTag{}, f.err
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func TestEnsureSchema(t *testing.T) {
	db := &fakeExecer{}
	exporter := &LedgerExporter{db: db}

	require.NoError(t, exporter.EnsureSchema(context.Background()))

	require.Len(t, db.calls, 2)
	assert.Contains(t, db.calls[0].sql, "CREATE TABLE IF NOT EXISTS stock_movements")
	assert.Contains(t, db.calls[1].sql, "CREATE INDEX IF NOT EXISTS")
}

func TestWriteMovement_IsIdempotentInsert(t *testing.T) {
	db := &fakeExecer{}
	exporter := &LedgerExporter{db: db}
	created := time.Date(2026, 3, 14, 9, 7, 40, 0, time.UTC)

	err := exporter.WriteMovement(context.Background(), &domain.StockMovement{
		ID:           "mv-1",
		ProductID:    "SKU-1",
		LocationID:   "loc-1",
		Quantity:     12,
		MovementType: domain.MovementTypePutaway,
		TaskID:       "t-1",
		OperatorID:   "op-1",
		Status:       "completed",
		CreatedAt:    created,
	})
	require.NoError(t, err)

	require.Len(t, db.calls, 1)
	call := db.calls[0]
	assert.True(t, strings.Contains(call.sql, "ON CONFLICT (id) DO NOTHING"))
	assert.Equal(t, []any{"mv-1", "SKU-1", "loc-1", 12, domain.MovementTypePutaway, "t-1", "op-1", "completed", created}, call.args)
}

func TestWriteMovement_WrapsError(t *testing.T) {
	boom := stderrors.New("connection reset")
	exporter := &LedgerExporter{db: &fakeExecer{err: boom}}

	err := exporter.WriteMovement(context.Background(), &domain.StockMovement{ID: "mv-1"})

	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "mv-1")
}
