package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"wake_sync_bot/internal/domain/cycle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteRepo(t *testing.T) (*SQLStateRepository, *sql.DB) {
	t.Helper()
	db, err := NewConnection(DriverSQLite, filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewSQLStateRepository(db)
	require.NoError(t, repo.Migrate(context.Background()))
	return repo, db
}

func TestSQLStateRepositoryEmpty(t *testing.T) {
	repo, _ := newSQLiteRepo(t)

	state, err := repo.Load(context.Background())

	require.NoError(t, err)
	assert.True(t, state.IsFirstCycle())
	assert.False(t, state.LastMessageID.Valid)
}

func TestSQLStateRepositoryRoundTrip(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()

	in := &cycle.State{SleepInterval: 10 * time.Minute}
	in.RememberMessage(-7)
	require.NoError(t, repo.Save(ctx, in))

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	// Overwrite in place, dropping the message id
	in.SleepInterval = maxInterval
	in.ForgetMessage()
	require.NoError(t, repo.Save(ctx, in))

	out, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, maxInterval, out.SleepInterval)
	assert.Equal(t, sql.NullInt32{}, out.LastMessageID)
}

func TestSQLStateRepositorySingleRow(t *testing.T) {
	repo, db := newSQLiteRepo(t)
	ctx := context.Background()

	for _, d := range []time.Duration{5 * time.Minute, 10 * time.Minute, 15 * time.Minute} {
		require.NoError(t, repo.Save(ctx, &cycle.State{SleepInterval: d}))
	}

	var rows int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM cycle_state`).Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestSQLStateRepositoryReset(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, &cycle.State{SleepInterval: time.Hour}))

	require.NoError(t, repo.Reset(ctx))

	state, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, state.IsFirstCycle())
}

func TestSQLStateRepositoryCorruptInterval(t *testing.T) {
	repo, db := newSQLiteRepo(t)
	_, err := db.Exec(`INSERT INTO cycle_state (id, sleep_interval_ms, last_message_id, updated_at) VALUES (1, -5, NULL, CURRENT_TIMESTAMP)`)
	require.NoError(t, err)

	state, err := repo.Load(context.Background())

	require.NoError(t, err)
	assert.False(t, state.IsFirstCycle(), "a corrupt value must not look like a cold boot")
}

func TestNewConnectionUnsupportedDriver(t *testing.T) {
	_, err := NewConnection("mysql", "whatever")
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

const maxInterval = 24 * time.Hour
