package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gitlab.com/spendwatch/spendwatch/internal/logger"
	"gitlab.com/spendwatch/spendwatch/internal/models"
	"gitlab.com/spendwatch/spendwatch/internal/report"
	"gitlab.com/spendwatch/spendwatch/internal/repository"
)

type expenseRequest struct {
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	Category       string          `json:"category"`
	Date           string          `json:"date"`
	Notes          string          `json:"notes"`
	Vendor         string          `json:"vendor"`
	PaymentMethod  string          `json:"paymentMethod"`
	Project        string          `json:"project"`
	IsReimbursable bool            `json:"isReimbursable"`
	ReceiptURL     string          `json:"receiptUrl"`
}

// validate checks the request and returns the parsed expense date (zero when
// omitted, meaning "now").
func (req *expenseRequest) validate() (time.Time, map[string]string) {
	fields := map[string]string{}

	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		fields["description"] = "description is required"
	}
	if !req.Amount.IsPositive() {
		fields["amount"] = "amount must be positive"
	}
	if !models.IsStandardCategory(req.Category) {
		fields["category"] = "category is not in the standard list"
	}

	var date time.Time
	if req.Date != "" {
		var err error
		date, err = parseDate(req.Date)
		if err != nil {
			fields["date"] = "invalid date"
		}
	}

	return date, fields
}

func (req *expenseRequest) apply(exp *models.Expense, date time.Time) {
	exp.Description = req.Description
	exp.Amount = req.Amount
	exp.Category = req.Category
	if !date.IsZero() {
		exp.Date = date
	}
	exp.Notes = strings.TrimSpace(req.Notes)
	exp.Vendor = strings.TrimSpace(req.Vendor)
	exp.PaymentMethod = strings.TrimSpace(req.PaymentMethod)
	exp.Project = strings.TrimSpace(req.Project)
	exp.IsReimbursable = req.IsReimbursable
	exp.ReceiptURL = strings.TrimSpace(req.ReceiptURL)
}

// handleListExpenses returns the user's expenses, most recent first.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	expenses, err := s.expenses.GetByUserID(r.Context(), userID)
	if err != nil {
		respondInternal(w, err)
		return
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}

	respondList(w, http.StatusOK, len(expenses), expenses)
}

// handleCreateExpense records a new expense and triggers budget notification
// evaluation. Evaluation failures never fail the write.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "invalid JSON body")
		return
	}
	date, fields := req.validate()
	if len(fields) > 0 {
		respondValidation(w, fields)
		return
	}

	expense := &models.Expense{UserID: userID}
	req.apply(expense, date)

	if err := s.expenses.Create(r.Context(), expense); err != nil {
		respondInternal(w, err)
		return
	}

	logger.Log.Debug().
		Str("user_hash", logger.HashUserID(userID)).
		Str("category", expense.Category).
		Str("description", logger.SanitizeDescription(expense.Description)).
		Msg("Expense recorded")

	s.evaluator.OnExpenseWritten(r.Context(), userID, expense)

	respondData(w, http.StatusCreated, expense)
}

// handleUpdateExpense modifies an owned expense; notification evaluation
// re-runs only when amount, category or date changed.
func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusNotFound, codeNotFound, "expense not found")
		return
	}

	expense, err := s.expenses.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, codeNotFound, "expense not found")
			return
		}
		respondInternal(w, err)
		return
	}
	if expense.UserID != userID {
		respondError(w, http.StatusForbidden, codeNotAuthorized, "not authorized")
		return
	}

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "invalid JSON body")
		return
	}
	date, fields := req.validate()
	if len(fields) > 0 {
		respondValidation(w, fields)
		return
	}

	needsEvaluation := !expense.Amount.Equal(req.Amount) ||
		expense.Category != req.Category ||
		(!date.IsZero() && !expense.Date.Equal(date))

	req.apply(expense, date)

	if err := s.expenses.Update(r.Context(), expense); err != nil {
		respondInternal(w, err)
		return
	}

	logger.Log.Debug().
		Str("user_hash", logger.HashUserID(userID)).
		Str("category", expense.Category).
		Str("description", logger.SanitizeDescription(expense.Description)).
		Bool("reevaluated", needsEvaluation).
		Msg("Expense updated")

	if needsEvaluation {
		s.evaluator.OnExpenseWritten(r.Context(), userID, expense)
	}

	respondData(w, http.StatusOK, expense)
}

// handleDeleteExpense removes an owned expense.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusNotFound, codeNotFound, "expense not found")
		return
	}

	expense, err := s.expenses.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, codeNotFound, "expense not found")
			return
		}
		respondInternal(w, err)
		return
	}
	if expense.UserID != userID {
		respondError(w, http.StatusForbidden, codeNotAuthorized, "not authorized")
		return
	}

	if err := s.expenses.Delete(r.Context(), id); err != nil {
		respondInternal(w, err)
		return
	}

	respondData(w, http.StatusOK, map[string]string{"message": "expense removed"})
}

// handleExportExpenses streams the user's expenses as a CSV download.
func (s *Server) handleExportExpenses(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	expenses, err := s.expenses.GetByUserID(r.Context(), userID)
	if err != nil {
		respondInternal(w, err)
		return
	}

	data, err := report.ExpensesCSV(expenses)
	if err != nil {
		respondInternal(w, err)
		return
	}

	filename := fmt.Sprintf("expenses_%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(data)
}
