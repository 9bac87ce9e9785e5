package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"gitlab.com/spendwatch/spendwatch/internal/models"
)

// parseDate accepts RFC 3339 timestamps or plain YYYY-MM-DD dates.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// reportQuery extracts the period and reference date for report endpoints.
// The period defaults to Monthly and the date to now, matching how the
// reports screen is normally opened.
func reportQuery(r *http.Request) (periodType string, ref time.Time, err error) {
	periodType = r.URL.Query().Get("period")
	if periodType == "" {
		periodType = models.PeriodMonthly
	}

	ref = time.Now()
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		ref, err = parseDate(dateStr)
		if err != nil {
			return "", time.Time{}, err
		}
	}
	return periodType, ref, nil
}
