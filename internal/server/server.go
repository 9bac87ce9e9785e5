// Package server exposes the HTTP API over the expense, budget, report and
// notification core.
package server

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"gitlab.com/spendwatch/spendwatch/internal/auth"
	"gitlab.com/spendwatch/spendwatch/internal/config"
	"gitlab.com/spendwatch/spendwatch/internal/notify"
	"gitlab.com/spendwatch/spendwatch/internal/report"
	"gitlab.com/spendwatch/spendwatch/internal/repository"
)

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	cfg           *config.Config
	tokens        *auth.TokenManager
	users         *repository.UserRepository
	expenses      *repository.ExpenseRepository
	budgets       *repository.BudgetRepository
	notifications *repository.NotificationRepository
	reports       *report.Engine
	evaluator     *notify.Evaluator
}

// New wires the repositories, report engine and notification evaluator onto a
// database pool.
func New(cfg *config.Config, pool *pgxpool.Pool) *Server {
	expenses := repository.NewExpenseRepository(pool)
	budgets := repository.NewBudgetRepository(pool)
	notifications := repository.NewNotificationRepository(pool)

	return &Server{
		cfg:           cfg,
		tokens:        auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL),
		users:         repository.NewUserRepository(pool),
		expenses:      expenses,
		budgets:       budgets,
		notifications: notifications,
		reports:       report.NewEngine(budgets, expenses),
		evaluator:     notify.NewEvaluator(budgets, expenses, notifications, cfg.CurrencySymbol),
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/auth/me", s.requireAuth(s.handleMe))

	mux.HandleFunc("GET /api/expenses", s.requireAuth(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.requireAuth(s.handleCreateExpense))
	mux.HandleFunc("GET /api/expenses/export", s.requireAuth(s.handleExportExpenses))
	mux.HandleFunc("PUT /api/expenses/{id}", s.requireAuth(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.requireAuth(s.handleDeleteExpense))

	mux.HandleFunc("GET /api/budgets", s.requireAuth(s.handleListBudgets))
	mux.HandleFunc("POST /api/budgets", s.requireAuth(s.handleCreateBudget))
	mux.HandleFunc("PUT /api/budgets/{id}", s.requireAuth(s.handleUpdateBudget))
	mux.HandleFunc("DELETE /api/budgets/{id}", s.requireAuth(s.handleDeleteBudget))

	mux.HandleFunc("GET /api/reports/category-summary", s.requireAuth(s.handleCategorySummary))
	mux.HandleFunc("GET /api/reports/budget-status", s.requireAuth(s.handleBudgetStatus))
	mux.HandleFunc("GET /api/reports/category-chart", s.requireAuth(s.handleCategoryChart))

	mux.HandleFunc("GET /api/notifications/unread", s.requireAuth(s.handleUnreadNotifications))
	mux.HandleFunc("PUT /api/notifications/readall", s.requireAuth(s.handleMarkAllRead))
	mux.HandleFunc("PUT /api/notifications/{id}/read", s.requireAuth(s.handleMarkRead))

	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			respondError(w, http.StatusNotFound, codeNotFound, "route not found")
			return
		}
		_, _ = w.Write([]byte("SpendWatch API running"))
	})

	return mux
}
