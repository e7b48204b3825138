// internal/infra/database/sql_state_repository.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wake_sync_bot/internal/domain/cycle"
)

// The state table holds a single row; the CHECK keeps it that way.
const createStateTable = `CREATE TABLE IF NOT EXISTS cycle_state (
    id                INTEGER PRIMARY KEY CHECK (id = 1),
    sleep_interval_ms BIGINT NOT NULL,
    last_message_id   INTEGER NULL,
    updated_at        TIMESTAMP NOT NULL
)`

// SQLStateRepository keeps the cycle State in a one-row table.
// The SQL is shared by PostgreSQL and SQLite.
type SQLStateRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLStateRepository(db *sql.DB) *SQLStateRepository {
	return &SQLStateRepository{db: db, now: time.Now}
}

// Migrate creates the state table if it does not exist yet.
func (r *SQLStateRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createStateTable); err != nil {
		return fmt.Errorf("error creating cycle_state table: %w", err)
	}
	return nil
}

// Load returns the stored state, or the zero state when nothing was saved yet.
func (r *SQLStateRepository) Load(ctx context.Context) (*cycle.State, error) {
	query := `SELECT sleep_interval_ms, last_message_id FROM cycle_state WHERE id = 1`
	var intervalMs int64
	state := &cycle.State{}
	err := r.db.QueryRowContext(ctx, query).Scan(&intervalMs, &state.LastMessageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &cycle.State{}, nil
		}
		return nil, fmt.Errorf("error loading cycle state: %w", err)
	}
	if intervalMs < 0 || intervalMs > int64(^uint32(0)) {
		// Out of the range the device could ever have stored; the ladder snaps it to the maximum
		intervalMs = int64(^uint32(0))
	}
	state.SleepInterval = time.Duration(intervalMs) * time.Millisecond
	return state, nil
}

// Save overwrites the stored state.
func (r *SQLStateRepository) Save(ctx context.Context, state *cycle.State) error {
	query := `INSERT INTO cycle_state (id, sleep_interval_ms, last_message_id, updated_at)
               VALUES (1, $1, $2, $3)
               ON CONFLICT (id) DO UPDATE
               SET sleep_interval_ms = EXCLUDED.sleep_interval_ms,
                   last_message_id = EXCLUDED.last_message_id,
                   updated_at = EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, query, state.SleepInterval.Milliseconds(), state.LastMessageID, r.now().UTC())
	if err != nil {
		return fmt.Errorf("error saving cycle state: %w", err)
	}
	return nil
}

// Reset removes the stored state so the next Load starts from a cold boot.
func (r *SQLStateRepository) Reset(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cycle_state WHERE id = 1`); err != nil {
		return fmt.Errorf("error resetting cycle state: %w", err)
	}
	return nil
}
