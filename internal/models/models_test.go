package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestIsStandardCategory(t *testing.T) {
	t.Parallel()

	t.Run("accepts members of the fixed list", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"Groceries", "Utilities", "Rent/Mortgage", "Other"} {
			require.True(t, IsStandardCategory(name), name)
		}
	})

	t.Run("rejects unknown and differently-cased names", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"", "groceries", "Gambling", "OTHER"} {
			require.False(t, IsStandardCategory(name), name)
		}
	})

	t.Run("list has no duplicates", func(t *testing.T) {
		t.Parallel()
		seen := map[string]bool{}
		for _, name := range StandardCategories {
			require.False(t, seen[name], "duplicate category %q", name)
			seen[name] = true
		}
	})
}

func TestIsBudgetPeriod(t *testing.T) {
	t.Parallel()

	for _, period := range []string{PeriodMonthly, PeriodYearly, PeriodQuarterly, PeriodWeekly, PeriodCustom} {
		require.True(t, IsBudgetPeriod(period), period)
	}
	for _, period := range []string{"", "monthly", "Daily", "Biweekly"} {
		require.False(t, IsBudgetPeriod(period), period)
	}
}

func TestDefaultBudgetStart(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 17, 15, 30, 45, 123, time.UTC)
	start := DefaultBudgetStart(now)
	require.True(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC).Equal(start))
}

func TestBudget(t *testing.T) {
	t.Parallel()

	t.Run("creates budget with all fields", func(t *testing.T) {
		t.Parallel()
		end := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)
		budget := Budget{
			ID:        1,
			UserID:    42,
			Category:  "Groceries",
			Amount:    decimal.NewFromInt(1000),
			Period:    PeriodCustom,
			StartDate: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   &end,
		}

		require.Equal(t, "Groceries", budget.Category)
		require.True(t, decimal.NewFromInt(1000).Equal(budget.Amount))
		require.NotNil(t, budget.EndDate)
	})

	t.Run("standard period budget has no end date", func(t *testing.T) {
		t.Parallel()
		budget := Budget{Period: PeriodMonthly}
		require.Nil(t, budget.EndDate)
	})
}

func TestNotification(t *testing.T) {
	t.Parallel()

	n := Notification{
		ID:      7,
		UserID:  42,
		Message: "Budget Warning",
		Type:    NotificationTypeBudget,
	}
	require.False(t, n.IsRead)
	require.Equal(t, "budget", n.Type)
}
