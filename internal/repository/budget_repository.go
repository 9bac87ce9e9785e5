package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"gitlab.com/spendwatch/spendwatch/internal/database"
	"gitlab.com/spendwatch/spendwatch/internal/models"
)

// BudgetRepository handles budget database operations.
type BudgetRepository struct {
	db database.PGXDB
}

// NewBudgetRepository creates a new BudgetRepository.
func NewBudgetRepository(db database.PGXDB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

const budgetColumns = `id, user_id, category, amount, period, start_date, end_date,
	notes, created_at, updated_at`

// Create adds a new budget. The database enforces uniqueness of
// (user, category, period, start date) atomically; a violation maps to
// ErrDuplicateBudget so two concurrent creations resolve to exactly one
// success and one conflict.
func (r *BudgetRepository) Create(ctx context.Context, budget *models.Budget) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO budgets (user_id, category, amount, period, start_date, end_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, budget.UserID, budget.Category, budget.Amount, budget.Period,
		budget.StartDate, budget.EndDate, budget.Notes,
	).Scan(&budget.ID, &budget.CreatedAt, &budget.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateBudget
		}
		return fmt.Errorf("failed to create budget: %w", err)
	}
	return nil
}

// GetByID retrieves a budget by ID.
func (r *BudgetRepository) GetByID(ctx context.Context, id int64) (*models.Budget, error) {
	row := r.db.QueryRow(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE id = $1`, id)
	b, err := scanBudget(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return b, nil
}

// GetByUser retrieves all budgets for a user, ordered by category.
func (r *BudgetRepository) GetByUser(ctx context.Context, userID int64) ([]models.Budget, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+budgetColumns+` FROM budgets
		WHERE user_id = $1
		ORDER BY category
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer rows.Close()

	return scanBudgets(rows)
}

// GetByUserAndPeriod retrieves all budgets for a user with the given period
// type, regardless of anchor date. Stale budgets of the right period type are
// deliberately included; the report engine resolves the window from its own
// reference date.
func (r *BudgetRepository) GetByUserAndPeriod(ctx context.Context, userID int64, periodType string) ([]models.Budget, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+budgetColumns+` FROM budgets
		WHERE user_id = $1 AND period = $2
		ORDER BY category
	`, userID, periodType)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets by period: %w", err)
	}
	defer rows.Close()

	return scanBudgets(rows)
}

// FindActiveMonthly retrieves the most recent Monthly budget for a user and
// category whose start date is on or before the given date. Returns
// ErrNotFound when no such budget exists.
func (r *BudgetRepository) FindActiveMonthly(
	ctx context.Context,
	userID int64,
	category string,
	onOrBefore time.Time,
) (*models.Budget, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+budgetColumns+` FROM budgets
		WHERE user_id = $1 AND category = $2 AND period = $3 AND start_date <= $4
		ORDER BY start_date DESC
		LIMIT 1
	`, userID, category, models.PeriodMonthly, onOrBefore)
	b, err := scanBudget(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find monthly budget: %w", err)
	}
	return b, nil
}

// Update modifies an existing budget. Identity changes that collide with
// another budget map to ErrDuplicateBudget.
func (r *BudgetRepository) Update(ctx context.Context, budget *models.Budget) error {
	_, err := r.db.Exec(ctx, `
		UPDATE budgets SET
			category = $2,
			amount = $3,
			period = $4,
			start_date = $5,
			end_date = $6,
			notes = $7,
			updated_at = NOW()
		WHERE id = $1
	`, budget.ID, budget.Category, budget.Amount, budget.Period,
		budget.StartDate, budget.EndDate, budget.Notes)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateBudget
		}
		return fmt.Errorf("failed to update budget: %w", err)
	}
	return nil
}

// Delete removes a budget by ID. Past notifications referencing the budget's
// thresholds are untouched.
func (r *BudgetRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM budgets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	return nil
}

func scanBudget(row pgx.Row) (*models.Budget, error) {
	var b models.Budget
	var notes *string
	if err := row.Scan(
		&b.ID, &b.UserID, &b.Category, &b.Amount, &b.Period, &b.StartDate, &b.EndDate,
		&notes, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	setIfPresent(&b.Notes, notes)
	return &b, nil
}

func scanBudgets(rows pgx.Rows) ([]models.Budget, error) {
	var budgets []models.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}
	return budgets, nil
}
