package server

import (
	"errors"
	"net/http"

	"gitlab.com/spendwatch/spendwatch/internal/models"
	"gitlab.com/spendwatch/spendwatch/internal/period"
	"gitlab.com/spendwatch/spendwatch/internal/report"
)

// reportResponse frames report rows with the resolved period boundaries.
type reportResponse struct {
	Success   bool   `json:"success"`
	Period    string `json:"period"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Data      any    `json:"data"`
}

func writeReport(w http.ResponseWriter, rep *report.PeriodReport, data any) {
	writeJSON(w, http.StatusOK, reportResponse{
		Success:   true,
		Period:    rep.Period,
		StartDate: rep.StartDate.Format("2006-01-02"),
		EndDate:   rep.EndDate.Format("2006-01-02"),
		Data:      data,
	})
}

// handleCategorySummary returns per-category spending totals for the period
// containing the requested date.
func (s *Server) handleCategorySummary(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	periodType, ref, err := reportQuery(r)
	if err != nil {
		respondValidation(w, map[string]string{"date": "invalid date parameter"})
		return
	}

	rep, err := s.reports.CategorySummary(r.Context(), userID, periodType, ref)
	if err != nil {
		if errors.Is(err, period.ErrUnsupportedPeriod) {
			respondValidation(w, map[string]string{"period": "invalid period specified"})
			return
		}
		respondInternal(w, err)
		return
	}

	totals := rep.Totals
	if totals == nil {
		totals = []models.CategoryTotal{}
	}
	writeReport(w, rep, totals)
}

// handleBudgetStatus returns the budget-vs-actual report for the period
// containing the requested date.
func (s *Server) handleBudgetStatus(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	periodType, ref, err := reportQuery(r)
	if err != nil {
		respondValidation(w, map[string]string{"date": "invalid date parameter"})
		return
	}

	rep, err := s.reports.BudgetStatus(r.Context(), userID, periodType, ref)
	if err != nil {
		if errors.Is(err, period.ErrUnsupportedPeriod) {
			respondValidation(w, map[string]string{"period": "invalid period specified"})
			return
		}
		respondInternal(w, err)
		return
	}

	statuses := rep.Statuses
	if statuses == nil {
		statuses = []report.CategoryStatus{}
	}
	writeReport(w, rep, statuses)
}

// handleCategoryChart renders the category summary as a PNG pie chart.
func (s *Server) handleCategoryChart(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	periodType, ref, err := reportQuery(r)
	if err != nil {
		respondValidation(w, map[string]string{"date": "invalid date parameter"})
		return
	}

	rep, err := s.reports.CategorySummary(r.Context(), userID, periodType, ref)
	if err != nil {
		if errors.Is(err, period.ErrUnsupportedPeriod) {
			respondValidation(w, map[string]string{"period": "invalid period specified"})
			return
		}
		respondInternal(w, err)
		return
	}

	if len(rep.Totals) == 0 {
		respondError(w, http.StatusNotFound, codeNotFound, "no spending in this period")
		return
	}

	png, err := report.RenderCategoryChart(rep.Totals, rep.Period)
	if err != nil {
		respondInternal(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}
