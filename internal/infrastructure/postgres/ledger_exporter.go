package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wms-platform/putaway-service/internal/domain"
)

const createMovementsTable = `
CREATE TABLE IF NOT EXISTS stock_movements (
	id            TEXT PRIMARY KEY,
	product_id    TEXT        NOT NULL,
	location_id   TEXT        NOT NULL,
	quantity      INTEGER     NOT NULL,
	movement_type TEXT        NOT NULL,
	task_id       TEXT        NOT NULL,
	operator_id   TEXT        NOT NULL,
	status        TEXT        NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL,
	exported_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const createMovementsLocationIndex = `
CREATE INDEX IF NOT EXISTS idx_stock_movements_location ON stock_movements (location_id, created_at)`

const insertMovement = `
INSERT INTO stock_movements (id, product_id, location_id, quantity, movement_type, task_id, operator_id, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO NOTHING`

// execer is the subset of pgxpool.Pool the exporter needs
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// LedgerExporter copies stock movements into the reporting database
type LedgerExporter struct {
	db execer
}

// Connect opens a pool and pings it
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return pool, nil
}

// NewLedgerExporter creates an exporter over pool
func NewLedgerExporter(pool *pgxpool.Pool) *LedgerExporter {
	return &LedgerExporter{db: pool}
}

// EnsureSchema creates the movements table and its index if missing
func (e *LedgerExporter) EnsureSchema(ctx context.Context) error {
	for _, stmt := range []string{createMovementsTable, createMovementsLocationIndex} {
		if _, err := e.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure ledger schema: %w", err)
		}
	}
	return nil
}

// WriteMovement inserts the movement. A replayed movement id is a no-op.
func (e *LedgerExporter) WriteMovement(ctx context.Context, m *domain.StockMovement) error {
	_, err := e.db.Exec(ctx, insertMovement,
		m.ID,
		m.ProductID,
		m.LocationID,
		m.Quantity,
		m.MovementType,
		m.TaskID,
		m.OperatorID,
		m.Status,
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to export movement %s: %w", m.ID, err)
	}
	return nil
}
