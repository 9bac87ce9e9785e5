// Package notify evaluates budget thresholds after expense writes and emits
// deduplicated notifications.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gitlab.com/spendwatch/spendwatch/internal/logger"
	"gitlab.com/spendwatch/spendwatch/internal/models"
	"gitlab.com/spendwatch/spendwatch/internal/period"
	"gitlab.com/spendwatch/spendwatch/internal/repository"
)

// Threshold tiers, as percentages of the budget amount.
const (
	TierWarning  = 80
	TierExceeded = 100
)

// warningRatio is TierWarning expressed as a multiplier.
var warningRatio = decimal.New(8, -1)

// BudgetFinder locates the budget applicable to an expense.
type BudgetFinder interface {
	FindActiveMonthly(ctx context.Context, userID int64, category string, onOrBefore time.Time) (*models.Budget, error)
}

// SpendSummer aggregates spend for a user and category over a window.
type SpendSummer interface {
	SumForCategory(ctx context.Context, userID int64, category string, start, end time.Time) (decimal.Decimal, error)
}

// NotificationSink persists notifications idempotently.
type NotificationSink interface {
	CreateIfAbsent(ctx context.Context, n *models.Notification) (bool, error)
}

// Evaluator decides whether an expense write crossed a budget threshold and
// needs a notification.
type Evaluator struct {
	budgets        BudgetFinder
	spend          SpendSummer
	notifications  NotificationSink
	currencySymbol string
}

// NewEvaluator creates an Evaluator. The currency symbol is used in
// notification message text.
func NewEvaluator(budgets BudgetFinder, spend SpendSummer, notifications NotificationSink, currencySymbol string) *Evaluator {
	return &Evaluator{
		budgets:        budgets,
		spend:          spend,
		notifications:  notifications,
		currencySymbol: currencySymbol,
	}
}

// OnExpenseWritten evaluates budget thresholds after an expense create, or an
// update that changed amount, category or date. It persists at most one new
// notification. Every failure is logged and swallowed: notification
// evaluation must never fail or roll back the expense write that triggered
// it.
func (e *Evaluator) OnExpenseWritten(ctx context.Context, userID int64, expense *models.Expense) {
	start, end, err := period.Resolve(models.PeriodMonthly, expense.Date)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to resolve monthly period for notification check")
		return
	}

	budget, err := e.budgets.FindActiveMonthly(ctx, userID, expense.Category, expense.Date)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.Log.Error().Err(err).
				Str("user_hash", logger.HashUserID(userID)).
				Msg("Failed to look up budget for notification check")
		}
		return
	}

	currentSpending, err := e.spend.SumForCategory(ctx, userID, expense.Category, start, end)
	if err != nil {
		logger.Log.Error().Err(err).
			Str("user_hash", logger.HashUserID(userID)).
			Msg("Failed to aggregate spending for notification check")
		return
	}

	var tier int
	var message string
	switch {
	case currentSpending.GreaterThanOrEqual(budget.Amount):
		tier = TierExceeded
		message = fmt.Sprintf(
			"Budget Alert: You have exceeded your %s budget of %s%s for %s. Current spending: %s%s.",
			budget.Period, e.currencySymbol, budget.Amount.StringFixed(2), budget.Category,
			e.currencySymbol, currentSpending.StringFixed(2),
		)
	case currentSpending.GreaterThanOrEqual(budget.Amount.Mul(warningRatio)):
		tier = TierWarning
		message = fmt.Sprintf(
			"Budget Warning: You have spent %s%s (≥80%%) of your %s budget (%s%s) for %s.",
			e.currencySymbol, currentSpending.StringFixed(2), budget.Period,
			e.currencySymbol, budget.Amount.StringFixed(2), budget.Category,
		)
	default:
		return
	}

	notification := &models.Notification{
		UserID:   userID,
		Message:  message,
		Type:     models.NotificationTypeBudget,
		Link:     "/budgets",
		DedupKey: dedupKey(budget, start, tier),
	}

	created, err := e.notifications.CreateIfAbsent(ctx, notification)
	if err != nil {
		logger.Log.Error().Err(err).
			Str("user_hash", logger.HashUserID(userID)).
			Msg("Failed to save budget notification")
		return
	}
	if created {
		logger.Log.Info().
			Str("user_hash", logger.HashUserID(userID)).
			Str("category", budget.Category).
			Int("tier", tier).
			Msg("Budget notification created")
	} else {
		logger.Log.Debug().
			Str("user_hash", logger.HashUserID(userID)).
			Str("category", budget.Category).
			Int("tier", tier).
			Msg("Equivalent unread notification already exists")
	}
}

// dedupKey identifies a threshold crossing by budget, category, period cycle
// and tier, so reformatting the message text can never defeat deduplication.
func dedupKey(budget *models.Budget, cycleStart time.Time, tier int) string {
	return fmt.Sprintf("budget:%d:%s:%s:%d", budget.ID, budget.Category, cycleStart.Format("2006-01-02"), tier)
}
