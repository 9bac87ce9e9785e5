package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunMigrations creates the database schema.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS expenses (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			description TEXT NOT NULL,
			amount DECIMAL(12, 2) NOT NULL CHECK (amount > 0),
			category TEXT NOT NULL,
			expense_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			notes TEXT,
			vendor TEXT,
			payment_method TEXT,
			project TEXT,
			is_reimbursable BOOLEAN NOT NULL DEFAULT FALSE,
			receipt_url TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_expenses_user_id ON expenses(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_expense_date ON expenses(expense_date)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_user_category_date ON expenses(user_id, category, expense_date)`,

		`CREATE TABLE IF NOT EXISTS budgets (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			category TEXT NOT NULL,
			amount DECIMAL(12, 2) NOT NULL CHECK (amount > 0),
			period TEXT NOT NULL DEFAULT 'Monthly',
			start_date TIMESTAMPTZ NOT NULL,
			end_date TIMESTAMPTZ,
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// One budget per user, category, period type and anchor date.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_budgets_identity
			ON budgets(user_id, category, period, start_date)`,

		`CREATE TABLE IF NOT EXISTS notifications (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			message TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT 'info',
			is_read BOOLEAN NOT NULL DEFAULT FALSE,
			link TEXT,
			dedup_key TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON notifications(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_is_read ON notifications(is_read)`,

		// Dedup guard: at most one unread notification per dedup key per user.
		// Read notifications fall out of the index, so a re-crossed threshold
		// can notify again after the earlier alert is acknowledged.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_notifications_unread_dedup
			ON notifications(user_id, dedup_key) WHERE NOT is_read AND dedup_key <> ''`,
	}

	for i, migration := range migrations {
		if _, err := pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}
