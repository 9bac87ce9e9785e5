package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gitlab.com/spendwatch/spendwatch/internal/database"
	"gitlab.com/spendwatch/spendwatch/internal/models"
)

func newExpense(userID int64, amount float64, category string, date time.Time) *models.Expense {
	return &models.Expense{
		UserID:      userID,
		Description: "test expense",
		Amount:      decimal.NewFromFloat(amount),
		Category:    category,
		Date:        date,
	}
}

func TestExpenseRepository_CRUD(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("create, get, update, delete", func(t *testing.T) {
		t.Parallel()
		db := database.TestTx(t)
		repo := NewExpenseRepository(db)
		user := createTestUser(t, db)

		exp := newExpense(user.ID, 42.50, "Groceries", time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC))
		exp.Vendor = "FairPrice"
		exp.PaymentMethod = "Credit Card"
		require.NoError(t, repo.Create(ctx, exp))
		require.NotZero(t, exp.ID)

		got, err := repo.GetByID(ctx, exp.ID)
		require.NoError(t, err)
		require.True(t, decimal.NewFromFloat(42.50).Equal(got.Amount))
		require.Equal(t, "FairPrice", got.Vendor)
		require.Equal(t, "Credit Card", got.PaymentMethod)
		require.False(t, got.IsReimbursable)

		got.Amount = decimal.NewFromInt(60)
		got.Category = "Dining Out"
		require.NoError(t, repo.Update(ctx, got))

		updated, err := repo.GetByID(ctx, exp.ID)
		require.NoError(t, err)
		require.True(t, decimal.NewFromInt(60).Equal(updated.Amount))
		require.Equal(t, "Dining Out", updated.Category)

		require.NoError(t, repo.Delete(ctx, exp.ID))
		_, err = repo.GetByID(ctx, exp.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("create defaults a zero date to now", func(t *testing.T) {
		t.Parallel()
		db := database.TestTx(t)
		repo := NewExpenseRepository(db)
		user := createTestUser(t, db)

		exp := &models.Expense{
			UserID:      user.ID,
			Description: "undated",
			Amount:      decimal.NewFromInt(5),
			Category:    "Other",
		}
		require.NoError(t, repo.Create(ctx, exp))
		require.WithinDuration(t, time.Now(), exp.Date, time.Minute)
	})

	t.Run("list is newest date first", func(t *testing.T) {
		t.Parallel()
		db := database.TestTx(t)
		repo := NewExpenseRepository(db)
		user := createTestUser(t, db)

		older := newExpense(user.ID, 10, "Groceries", time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC))
		newer := newExpense(user.ID, 20, "Groceries", time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC))
		require.NoError(t, repo.Create(ctx, older))
		require.NoError(t, repo.Create(ctx, newer))

		expenses, err := repo.GetByUserID(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, expenses, 2)
		require.Equal(t, newer.ID, expenses[0].ID)
		require.Equal(t, older.ID, expenses[1].ID)
	})
}

func TestExpenseRepository_Sums(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("sum for category with inclusive boundaries", func(t *testing.T) {
		t.Parallel()
		db := database.TestTx(t)
		repo := NewExpenseRepository(db)
		user := createTestUser(t, db)

		start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, time.March, 31, 23, 59, 59, 999*1e6, time.UTC)

		// On both boundaries, inside, outside, and wrong category.
		require.NoError(t, repo.Create(ctx, newExpense(user.ID, 100, "Groceries", start)))
		require.NoError(t, repo.Create(ctx, newExpense(user.ID, 50, "Groceries", end)))
		require.NoError(t, repo.Create(ctx, newExpense(user.ID, 25, "Groceries", time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC))))
		require.NoError(t, repo.Create(ctx, newExpense(user.ID, 999, "Groceries", time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC))))
		require.NoError(t, repo.Create(ctx, newExpense(user.ID, 999, "Utilities", time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC))))

		total, err := repo.SumForCategory(ctx, user.ID, "Groceries", start, end)
		require.NoError(t, err)
		require.True(t, decimal.NewFromInt(175).Equal(total), total.String())
	})

	t.Run("sum for category is zero when nothing matches", func(t *testing.T) {
		t.Parallel()
		db := database.TestTx(t)
		repo := NewExpenseRepository(db)
		user := createTestUser(t, db)

		total, err := repo.SumForCategory(ctx, user.ID, "Travel",
			time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.True(t, total.IsZero())
	})

	t.Run("sum by category groups and orders by total", func(t *testing.T) {
		t.Parallel()
		db := database.TestTx(t)
		repo := NewExpenseRepository(db)
		user := createTestUser(t, db)
		other := createTestUser(t, db)

		mid := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
		require.NoError(t, repo.Create(ctx, newExpense(user.ID, 100, "Groceries", mid)))
		require.NoError(t, repo.Create(ctx, newExpense(user.ID, 200, "Groceries", mid)))
		require.NoError(t, repo.Create(ctx, newExpense(user.ID, 120, "Utilities", mid)))
		require.NoError(t, repo.Create(ctx, newExpense(other.ID, 500, "Groceries", mid)))

		totals, err := repo.SumByCategory(ctx, user.ID,
			time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC))
		require.NoError(t, err)
		require.Len(t, totals, 2)
		require.Equal(t, "Groceries", totals[0].Category)
		require.True(t, decimal.NewFromInt(300).Equal(totals[0].TotalAmount))
		require.Equal(t, "Utilities", totals[1].Category)
		require.True(t, decimal.NewFromInt(120).Equal(totals[1].TotalAmount))
	})
}
