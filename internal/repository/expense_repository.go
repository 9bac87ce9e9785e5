package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"gitlab.com/spendwatch/spendwatch/internal/database"
	"gitlab.com/spendwatch/spendwatch/internal/models"
)

// ExpenseRepository handles expense database operations.
type ExpenseRepository struct {
	db database.PGXDB
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(db database.PGXDB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

const expenseColumns = `id, user_id, description, amount, category, expense_date,
	notes, vendor, payment_method, project, is_reimbursable, receipt_url,
	created_at, updated_at`

// Create adds a new expense. A zero Date defaults to the current time.
func (r *ExpenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	if expense.Date.IsZero() {
		expense.Date = time.Now()
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO expenses (user_id, description, amount, category, expense_date,
			notes, vendor, payment_method, project, is_reimbursable, receipt_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`, expense.UserID, expense.Description, expense.Amount, expense.Category, expense.Date,
		expense.Notes, expense.Vendor, expense.PaymentMethod, expense.Project,
		expense.IsReimbursable, expense.ReceiptURL,
	).Scan(&expense.ID, &expense.CreatedAt, &expense.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// GetByID retrieves an expense by ID.
func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*models.Expense, error) {
	row := r.db.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id)
	exp, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return exp, nil
}

// GetByUserID retrieves all expenses for a user, most recent date first.
func (r *ExpenseRepository) GetByUserID(ctx context.Context, userID int64) ([]models.Expense, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+expenseColumns+` FROM expenses
		WHERE user_id = $1
		ORDER BY expense_date DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

// Update modifies an existing expense.
func (r *ExpenseRepository) Update(ctx context.Context, expense *models.Expense) error {
	_, err := r.db.Exec(ctx, `
		UPDATE expenses SET
			description = $2,
			amount = $3,
			category = $4,
			expense_date = $5,
			notes = $6,
			vendor = $7,
			payment_method = $8,
			project = $9,
			is_reimbursable = $10,
			receipt_url = $11,
			updated_at = NOW()
		WHERE id = $1
	`, expense.ID, expense.Description, expense.Amount, expense.Category, expense.Date,
		expense.Notes, expense.Vendor, expense.PaymentMethod, expense.Project,
		expense.IsReimbursable, expense.ReceiptURL)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	return nil
}

// Delete removes an expense by ID.
func (r *ExpenseRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}

// SumForCategory totals expense amounts for a user and category whose date
// falls within [start, end] inclusive. Returns zero when nothing matches.
func (r *ExpenseRepository) SumForCategory(
	ctx context.Context,
	userID int64,
	category string,
	start, end time.Time,
) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM expenses
		WHERE user_id = $1 AND category = $2 AND expense_date >= $3 AND expense_date <= $4
	`, userID, category, start, end).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum category spend: %w", err)
	}
	return total, nil
}

// SumByCategory totals expense amounts per category for a user within
// [start, end] inclusive, largest total first. Equivalent to calling
// SumForCategory for every category, done in one pass for the reporting path.
func (r *ExpenseRepository) SumByCategory(
	ctx context.Context,
	userID int64,
	start, end time.Time,
) ([]models.CategoryTotal, error) {
	rows, err := r.db.Query(ctx, `
		SELECT category, SUM(amount) AS total
		FROM expenses
		WHERE user_id = $1 AND expense_date >= $2 AND expense_date <= $3
		GROUP BY category
		ORDER BY total DESC
	`, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to sum spend by category: %w", err)
	}
	defer rows.Close()

	var totals []models.CategoryTotal
	for rows.Next() {
		var ct models.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.TotalAmount); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		totals = append(totals, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category totals: %w", err)
	}
	return totals, nil
}

// scanExpense scans a single expense row.
func scanExpense(row pgx.Row) (*models.Expense, error) {
	var exp models.Expense
	var notes, vendor, paymentMethod, project, receiptURL *string
	if err := row.Scan(
		&exp.ID, &exp.UserID, &exp.Description, &exp.Amount, &exp.Category, &exp.Date,
		&notes, &vendor, &paymentMethod, &project, &exp.IsReimbursable, &receiptURL,
		&exp.CreatedAt, &exp.UpdatedAt,
	); err != nil {
		return nil, err
	}
	setIfPresent(&exp.Notes, notes)
	setIfPresent(&exp.Vendor, vendor)
	setIfPresent(&exp.PaymentMethod, paymentMethod)
	setIfPresent(&exp.Project, project)
	setIfPresent(&exp.ReceiptURL, receiptURL)
	return &exp, nil
}

// scanExpenses scans all expense rows from a query result.
func scanExpenses(rows pgx.Rows) ([]models.Expense, error) {
	var expenses []models.Expense
	for rows.Next() {
		exp, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, *exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}
	return expenses, nil
}

func setIfPresent(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
