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

func newBudget(userID int64, category string, amount float64, period string, start time.Time) *models.Budget {
	return &models.Budget{
		UserID:    userID,
		Category:  category,
		Amount:    decimal.NewFromFloat(amount),
		Period:    period,
		StartDate: start,
	}
}

func TestBudgetRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	march := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	t.Run("create and get", func(t *testing.T) {
		t.Parallel()
		db := database.TestTx(t)
		repo := NewBudgetRepository(db)
		user := createTestUser(t, db)

		b := newBudget(user.ID, "Groceries", 1000, models.PeriodMonthly, march)
		require.NoError(t, repo.Create(ctx, b))
		require.NotZero(t, b.ID)

		got, err := repo.GetByID(ctx, b.ID)
		require.NoError(t, err)
		require.Equal(t, "Groceries", got.Category)
		require.True(t, decimal.NewFromInt(1000).Equal(got.Amount))
		require.Nil(t, got.EndDate)
	})

	t.Run("duplicate identity maps to ErrDuplicateBudget", func(t *testing.T) {
		t.Parallel()
		db := database.TestTx(t)
		repo := NewBudgetRepository(db)
		user := createTestUser(t, db)

		require.NoError(t, repo.Create(ctx, newBudget(user.ID, "Groceries", 1000, models.PeriodMonthly, march)))
		err := repo.Create(ctx, newBudget(user.ID, "Groceries", 2000, models.PeriodMonthly, march))
		require.ErrorIs(t, err, ErrDuplicateBudget)

		// Same category with a different period or start date is fine.
		require.NoError(t, repo.Create(ctx, newBudget(user.ID, "Groceries", 12000, models.PeriodYearly, march)))
		april := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, repo.Create(ctx, newBudget(user.ID, "Groceries", 1100, models.PeriodMonthly, april)))
	})

	t.Run("update collision maps to ErrDuplicateBudget", func(t *testing.T) {
		t.Parallel()
		db := database.TestTx(t)
		repo := NewBudgetRepository(db)
		user := createTestUser(t, db)

		require.NoError(t, repo.Create(ctx, newBudget(user.ID, "Groceries", 1000, models.PeriodMonthly, march)))
		other := newBudget(user.ID, "Utilities", 200, models.PeriodMonthly, march)
		require.NoError(t, repo.Create(ctx, other))

		other.Category = "Groceries"
		require.ErrorIs(t, repo.Update(ctx, other), ErrDuplicateBudget)
	})

	t.Run("get by user and period filters on period type", func(t *testing.T) {
		t.Parallel()
		db := database.TestTx(t)
		repo := NewBudgetRepository(db)
		user := createTestUser(t, db)

		require.NoError(t, repo.Create(ctx, newBudget(user.ID, "Groceries", 1000, models.PeriodMonthly, march)))
		require.NoError(t, repo.Create(ctx, newBudget(user.ID, "Travel", 5000, models.PeriodYearly, march)))

		monthly, err := repo.GetByUserAndPeriod(ctx, user.ID, models.PeriodMonthly)
		require.NoError(t, err)
		require.Len(t, monthly, 1)
		require.Equal(t, "Groceries", monthly[0].Category)
	})

	t.Run("find active monthly prefers the latest eligible start", func(t *testing.T) {
		t.Parallel()
		db := database.TestTx(t)
		repo := NewBudgetRepository(db)
		user := createTestUser(t, db)

		january := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, repo.Create(ctx, newBudget(user.ID, "Groceries", 800, models.PeriodMonthly, january)))
		require.NoError(t, repo.Create(ctx, newBudget(user.ID, "Groceries", 1000, models.PeriodMonthly, march)))
		may := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, repo.Create(ctx, newBudget(user.ID, "Groceries", 1200, models.PeriodMonthly, may)))

		found, err := repo.FindActiveMonthly(ctx, user.ID, "Groceries",
			time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.True(t, decimal.NewFromInt(1000).Equal(found.Amount))
	})

	t.Run("find active monthly ignores other periods and categories", func(t *testing.T) {
		t.Parallel()
		db := database.TestTx(t)
		repo := NewBudgetRepository(db)
		user := createTestUser(t, db)

		require.NoError(t, repo.Create(ctx, newBudget(user.ID, "Groceries", 12000, models.PeriodYearly, march)))
		require.NoError(t, repo.Create(ctx, newBudget(user.ID, "Utilities", 200, models.PeriodMonthly, march)))

		_, err := repo.FindActiveMonthly(ctx, user.ID, "Groceries",
			time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC))
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()
		db := database.TestTx(t)
		repo := NewBudgetRepository(db)
		user := createTestUser(t, db)

		b := newBudget(user.ID, "Groceries", 1000, models.PeriodMonthly, march)
		require.NoError(t, repo.Create(ctx, b))
		require.NoError(t, repo.Delete(ctx, b.ID))

		_, err := repo.GetByID(ctx, b.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("custom budget stores its end date", func(t *testing.T) {
		t.Parallel()
		db := database.TestTx(t)
		repo := NewBudgetRepository(db)
		user := createTestUser(t, db)

		end := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)
		b := newBudget(user.ID, "Travel", 3000, models.PeriodCustom, march)
		b.EndDate = &end
		require.NoError(t, repo.Create(ctx, b))

		got, err := repo.GetByID(ctx, b.ID)
		require.NoError(t, err)
		require.NotNil(t, got.EndDate)
		require.Equal(t, "2024-06-30", got.EndDate.Format("2006-01-02"))
	})
}
