// Package report combines budgets with aggregated spending into
// budget-vs-actual and category-summary reports.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gitlab.com/spendwatch/spendwatch/internal/models"
	"gitlab.com/spendwatch/spendwatch/internal/period"
)

// PercentageUnbudgeted is the sentinel percentageSpent for categories that
// have spending but no budget. A percentage of spend against a budget is
// never negative, so -1 is unambiguous, and unlike +Inf it serializes to
// JSON portably.
var PercentageUnbudgeted = decimal.NewFromInt(-1)

// BudgetSource supplies a user's budgets.
type BudgetSource interface {
	GetByUser(ctx context.Context, userID int64) ([]models.Budget, error)
	GetByUserAndPeriod(ctx context.Context, userID int64, periodType string) ([]models.Budget, error)
}

// SpendSource supplies aggregated expense amounts.
type SpendSource interface {
	SumForCategory(ctx context.Context, userID int64, category string, start, end time.Time) (decimal.Decimal, error)
	SumByCategory(ctx context.Context, userID int64, start, end time.Time) ([]models.CategoryTotal, error)
}

// Engine produces budget and spending reports.
type Engine struct {
	budgets BudgetSource
	spend   SpendSource
}

// NewEngine creates a report Engine.
func NewEngine(budgets BudgetSource, spend SpendSource) *Engine {
	return &Engine{budgets: budgets, spend: spend}
}

// CategoryStatus is one row of a budget-vs-actual report.
type CategoryStatus struct {
	Category        string          `json:"category"`
	BudgetedAmount  decimal.Decimal `json:"budgetedAmount"`
	SpentAmount     decimal.Decimal `json:"spentAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	PercentageSpent decimal.Decimal `json:"percentageSpent"`
}

// PeriodReport carries report rows together with the resolved boundaries.
type PeriodReport struct {
	Period    string
	StartDate time.Time
	EndDate   time.Time
	Statuses  []CategoryStatus
	Totals    []models.CategoryTotal
}

// BudgetStatus builds the budget-vs-actual report for a user, period type and
// reference date. Budgets are matched by period type only — a budget anchored
// in an earlier cycle still appears, measured against the window resolved
// from the reference date. Categories with spending but no budget are
// appended after the budgeted rows with a zero budget, negative remainder and
// PercentageUnbudgeted.
func (e *Engine) BudgetStatus(ctx context.Context, userID int64, periodType string, ref time.Time) (*PeriodReport, error) {
	start, end, err := period.Resolve(periodType, ref)
	if err != nil {
		return nil, err
	}

	budgets, err := e.budgets.GetByUserAndPeriod(ctx, userID, periodType)
	if err != nil {
		return nil, fmt.Errorf("failed to load budgets: %w", err)
	}

	totals, err := e.spend.SumByCategory(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate spending: %w", err)
	}

	return &PeriodReport{
		Period:    periodType,
		StartDate: start,
		EndDate:   end,
		Statuses:  CombineBudgetsAndSpend(budgets, totals),
	}, nil
}

// CategorySummary builds per-category spending totals for a user, period type
// and reference date, largest total first.
func (e *Engine) CategorySummary(ctx context.Context, userID int64, periodType string, ref time.Time) (*PeriodReport, error) {
	start, end, err := period.Resolve(periodType, ref)
	if err != nil {
		return nil, err
	}

	totals, err := e.spend.SumByCategory(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate spending: %w", err)
	}

	return &PeriodReport{
		Period:    periodType,
		StartDate: start,
		EndDate:   end,
		Totals:    totals,
	}, nil
}

// CombineBudgetsAndSpend reconciles budgets with per-category spend totals.
// Budgeted rows come first in budget order, then categories that have spend
// but no budget.
func CombineBudgetsAndSpend(budgets []models.Budget, totals []models.CategoryTotal) []CategoryStatus {
	spent := make(map[string]decimal.Decimal, len(totals))
	for _, t := range totals {
		spent[t.Category] = t.TotalAmount
	}

	budgeted := make(map[string]bool, len(budgets))
	statuses := make([]CategoryStatus, 0, len(budgets))
	for _, b := range budgets {
		budgeted[b.Category] = true
		spentAmount, ok := spent[b.Category]
		if !ok {
			spentAmount = decimal.Zero
		}
		statuses = append(statuses, CategoryStatus{
			Category:        b.Category,
			BudgetedAmount:  b.Amount,
			SpentAmount:     spentAmount,
			RemainingAmount: b.Amount.Sub(spentAmount),
			PercentageSpent: percentageSpent(spentAmount, b.Amount),
		})
	}

	for _, t := range totals {
		if budgeted[t.Category] {
			continue
		}
		statuses = append(statuses, CategoryStatus{
			Category:        t.Category,
			BudgetedAmount:  decimal.Zero,
			SpentAmount:     t.TotalAmount,
			RemainingAmount: t.TotalAmount.Neg(),
			PercentageSpent: PercentageUnbudgeted,
		})
	}

	return statuses
}

// percentageSpent computes spent/budgeted*100 rounded to two decimal places,
// zero when the budgeted amount is zero.
func percentageSpent(spent, budgeted decimal.Decimal) decimal.Decimal {
	if !budgeted.IsPositive() {
		return decimal.Zero
	}
	return spent.Div(budgeted).Mul(decimal.NewFromInt(100)).Round(2)
}

// BudgetWithSpending is a budget annotated with its current spending over its
// own effective window. The window fields are omitted when no window could be
// derived, rather than serializing zero timestamps.
type BudgetWithSpending struct {
	models.Budget
	CurrentSpending    decimal.Decimal `json:"currentSpending"`
	EffectiveStartDate *time.Time      `json:"effectiveStartDate,omitempty"`
	EffectiveEndDate   *time.Time      `json:"effectiveEndDate,omitempty"`
}

// BudgetsWithSpending lists a user's budgets with the spend accumulated in
// each budget's own effective window. Standard periods resolve the window
// from the budget's stored start date, not the wall clock; Custom budgets use
// their explicit start/end dates verbatim. See README for how this anchoring
// differs from the period report.
func (e *Engine) BudgetsWithSpending(ctx context.Context, userID int64) ([]BudgetWithSpending, error) {
	budgets, err := e.budgets.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load budgets: %w", err)
	}

	result := make([]BudgetWithSpending, 0, len(budgets))
	for _, b := range budgets {
		item := BudgetWithSpending{Budget: b, CurrentSpending: decimal.Zero}

		var start, end time.Time
		if b.Period == models.PeriodCustom {
			if b.EndDate == nil {
				// Custom budgets are validated to carry an end date;
				// a legacy row without one gets no spending window.
				result = append(result, item)
				continue
			}
			start, end = b.StartDate, *b.EndDate
		} else {
			start, end, err = period.Resolve(b.Period, b.StartDate)
			if err != nil {
				return nil, err
			}
		}

		spending, err := e.spend.SumForCategory(ctx, userID, b.Category, start, end)
		if err != nil {
			return nil, fmt.Errorf("failed to sum budget spending: %w", err)
		}
		item.CurrentSpending = spending
		item.EffectiveStartDate = &start
		item.EffectiveEndDate = &end
		result = append(result, item)
	}

	return result, nil
}
