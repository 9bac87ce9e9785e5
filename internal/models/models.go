// Package models defines the domain entities for the expense tracker.
package models

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// StandardCategories is the fixed closed category list shared by expenses
// and budgets. It is declared once here so the two validators cannot drift.
var StandardCategories = []string{
	// Personal
	"Groceries", "Utilities", "Rent/Mortgage", "Transportation", "Dining Out",
	"Entertainment", "Healthcare", "Clothing", "Personal Care", "Education",
	"Gifts/Donations", "Travel", "Insurance", "Subscriptions",
	// Family
	"Childcare", "Kids Activities", "Household Supplies", "Family Outings",
	// Business
	"Office Supplies", "Software", "Business Travel", "Client Meals", "Marketing",
	// Saving goals
	"Emergency Fund", "Vacation Fund", "Down Payment",
	"Other",
}

// IsStandardCategory reports whether name is a member of the fixed category set.
func IsStandardCategory(name string) bool {
	return slices.Contains(StandardCategories, name)
}

// Budget period types.
const (
	PeriodMonthly   = "Monthly"
	PeriodYearly    = "Yearly"
	PeriodQuarterly = "Quarterly"
	PeriodWeekly    = "Weekly"
	PeriodCustom    = "Custom"
)

// BudgetPeriods lists all period types a budget may carry.
var BudgetPeriods = []string{PeriodMonthly, PeriodYearly, PeriodQuarterly, PeriodWeekly, PeriodCustom}

// IsBudgetPeriod reports whether period is a valid budget period type.
func IsBudgetPeriod(period string) bool {
	return slices.Contains(BudgetPeriods, period)
}

// Notification types.
const (
	NotificationTypeBudget = "budget"
	NotificationTypeSystem = "system"
	NotificationTypeInfo   = "info"
)

// User represents a registered account.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Expense represents a single expense entry.
type Expense struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"userId"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	Category       string          `json:"category"`
	Date           time.Time       `json:"date"`
	Notes          string          `json:"notes,omitempty"`
	Vendor         string          `json:"vendor,omitempty"`
	PaymentMethod  string          `json:"paymentMethod,omitempty"`
	Project        string          `json:"project,omitempty"`
	IsReimbursable bool            `json:"isReimbursable"`
	ReceiptURL     string          `json:"receiptUrl,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// Budget represents a spending limit for a category over a period.
// At most one budget may exist per (user, category, period, start date);
// the database enforces this atomically.
type Budget struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"userId"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Period    string          `json:"period"`
	StartDate time.Time       `json:"startDate"`
	EndDate   *time.Time      `json:"endDate,omitempty"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Notification is a message shown to a user, typically a budget threshold
// alert. Once read it stays read; notifications are never deleted.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"isRead"`
	Link      string    `json:"link,omitempty"`
	DedupKey  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// CategoryTotal is an aggregated spend amount for one category.
type CategoryTotal struct {
	Category    string          `json:"category"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// DefaultBudgetStart returns the default budget anchor: the first day of the
// month containing now.
func DefaultBudgetStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}
