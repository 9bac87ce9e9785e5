package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnect_RejectsInvalidURL(t *testing.T) {
	t.Parallel()

	_, err := Connect(context.Background(), "not-a-connection-string")
	require.Error(t, err)
}

func TestRunMigrations(t *testing.T) {
	pool := TestDB(t)
	ctx := context.Background()

	require.NoError(t, RunMigrations(ctx, pool))
	// Schema creation is idempotent; a restart must not fail.
	require.NoError(t, RunMigrations(ctx, pool))

	CleanupTables(t, pool)

	for _, table := range []string{"users", "expenses", "budgets", "notifications"} {
		var count int
		require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count))
		require.Zero(t, count, table)
	}

	// The dedup guard must survive re-migration: same unread key conflicts.
	var userID int64
	require.NoError(t, pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash)
		VALUES ('Migration Test', 'migrations@example.com', 'hash')
		RETURNING id
	`).Scan(&userID))

	tag, err := pool.Exec(ctx, `
		INSERT INTO notifications (user_id, message, type, dedup_key)
		VALUES ($1, 'warning', 'budget', 'migration-key')
		ON CONFLICT (user_id, dedup_key) WHERE NOT is_read AND dedup_key <> ''
		DO NOTHING
	`, userID)
	require.NoError(t, err)
	require.EqualValues(t, 1, tag.RowsAffected())

	tag, err = pool.Exec(ctx, `
		INSERT INTO notifications (user_id, message, type, dedup_key)
		VALUES ($1, 'warning', 'budget', 'migration-key')
		ON CONFLICT (user_id, dedup_key) WHERE NOT is_read AND dedup_key <> ''
		DO NOTHING
	`, userID)
	require.NoError(t, err)
	require.Zero(t, tag.RowsAffected())

	CleanupTables(t, pool)
}
