package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gitlab.com/spendwatch/spendwatch/internal/models"
	"gitlab.com/spendwatch/spendwatch/internal/repository"
)

type budgetRequest struct {
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Period    string          `json:"period"`
	StartDate string          `json:"startDate"`
	EndDate   string          `json:"endDate"`
	Notes     string          `json:"notes"`
}

// validate checks the request and returns the parsed anchor dates. An omitted
// period defaults to Monthly; an omitted start date defaults to the first day
// of the current month. Custom periods must carry an explicit end date after
// the start date — there is no silent fallback for them.
func (req *budgetRequest) validate() (start time.Time, end *time.Time, fields map[string]string) {
	fields = map[string]string{}

	if !models.IsStandardCategory(req.Category) {
		fields["category"] = "category is not in the standard list"
	}
	if !req.Amount.IsPositive() {
		fields["amount"] = "amount must be positive"
	}
	if req.Period == "" {
		req.Period = models.PeriodMonthly
	}
	if !models.IsBudgetPeriod(req.Period) {
		fields["period"] = "period must be one of Monthly, Yearly, Quarterly, Weekly or Custom"
	}

	start = models.DefaultBudgetStart(time.Now())
	if req.StartDate != "" {
		parsed, err := parseDate(req.StartDate)
		if err != nil {
			fields["startDate"] = "invalid start date"
		} else {
			start = parsed
		}
	}

	if req.EndDate != "" {
		parsed, err := parseDate(req.EndDate)
		if err != nil {
			fields["endDate"] = "invalid end date"
		} else {
			end = &parsed
		}
	}

	if req.Period == models.PeriodCustom {
		if end == nil {
			fields["endDate"] = "end date is required for Custom periods"
		} else if !end.After(start) {
			fields["endDate"] = "end date must be after start date"
		}
	}

	return start, end, fields
}

// handleListBudgets returns the user's budgets annotated with current
// spending over each budget's own effective window.
func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	budgets, err := s.reports.BudgetsWithSpending(r.Context(), userID)
	if err != nil {
		respondInternal(w, err)
		return
	}

	respondList(w, http.StatusOK, len(budgets), budgets)
}

// handleCreateBudget adds a budget. Duplicate (category, period, start date)
// combinations answer with a conflict, distinct from validation failures.
func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "invalid JSON body")
		return
	}
	start, end, fields := req.validate()
	if len(fields) > 0 {
		respondValidation(w, fields)
		return
	}

	budget := &models.Budget{
		UserID:    userID,
		Category:  req.Category,
		Amount:    req.Amount,
		Period:    req.Period,
		StartDate: start,
		EndDate:   end,
		Notes:     strings.TrimSpace(req.Notes),
	}

	if err := s.budgets.Create(r.Context(), budget); err != nil {
		if errors.Is(err, repository.ErrDuplicateBudget) {
			respondError(w, http.StatusConflict, codeConflict, err.Error())
			return
		}
		respondInternal(w, err)
		return
	}

	respondData(w, http.StatusCreated, budget)
}

// handleUpdateBudget modifies an owned budget.
func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusNotFound, codeNotFound, "budget not found")
		return
	}

	budget, err := s.budgets.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, codeNotFound, "budget not found")
			return
		}
		respondInternal(w, err)
		return
	}
	if budget.UserID != userID {
		respondError(w, http.StatusForbidden, codeNotAuthorized, "not authorized")
		return
	}

	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "invalid JSON body")
		return
	}
	start, end, fields := req.validate()
	if len(fields) > 0 {
		respondValidation(w, fields)
		return
	}

	budget.Category = req.Category
	budget.Amount = req.Amount
	budget.Period = req.Period
	budget.StartDate = start
	budget.EndDate = end
	budget.Notes = strings.TrimSpace(req.Notes)

	if err := s.budgets.Update(r.Context(), budget); err != nil {
		if errors.Is(err, repository.ErrDuplicateBudget) {
			respondError(w, http.StatusConflict, codeConflict, err.Error())
			return
		}
		respondInternal(w, err)
		return
	}

	respondData(w, http.StatusOK, budget)
}

// handleDeleteBudget removes an owned budget. Past notifications that
// referenced its thresholds stay as they are.
func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusNotFound, codeNotFound, "budget not found")
		return
	}

	budget, err := s.budgets.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, codeNotFound, "budget not found")
			return
		}
		respondInternal(w, err)
		return
	}
	if budget.UserID != userID {
		respondError(w, http.StatusForbidden, codeNotAuthorized, "not authorized")
		return
	}

	if err := s.budgets.Delete(r.Context(), id); err != nil {
		respondInternal(w, err)
		return
	}

	respondData(w, http.StatusOK, map[string]string{"message": "budget removed"})
}
