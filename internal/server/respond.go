package server

import (
	"encoding/json"
	"net/http"

	"gitlab.com/spendwatch/spendwatch/internal/logger"
)

// Error codes returned to clients. Conflicts are distinguishable from plain
// validation failures so clients can react to duplicate budgets specifically.
const (
	codeValidation    = "validation_error"
	codeNotFound      = "not_found"
	codeNotAuthorized = "not_authorized"
	codeConflict      = "conflict"
	codeInternal      = "internal_error"
)

// successEnvelope is the success variant of every API response.
type successEnvelope struct {
	Success bool `json:"success"`
	Count   *int `json:"count,omitempty"`
	Data    any  `json:"data"`
}

// errorEnvelope is the failure variant of every API response.
type errorEnvelope struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to encode response")
	}
}

// respondData writes a success envelope.
func respondData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, successEnvelope{Success: true, Data: data})
}

// respondList writes a success envelope with an item count.
func respondList(w http.ResponseWriter, status int, count int, data any) {
	writeJSON(w, status, successEnvelope{Success: true, Count: &count, Data: data})
}

// respondError writes a failure envelope.
func respondError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Success: false, Error: errorBody{Code: code, Message: message}})
}

// respondValidation writes a validation failure with field-level messages.
func respondValidation(w http.ResponseWriter, fields map[string]string) {
	writeJSON(w, http.StatusBadRequest, errorEnvelope{
		Success: false,
		Error:   errorBody{Code: codeValidation, Message: "validation failed", Fields: fields},
	})
}

// respondInternal logs the error and writes a generic failure; internal
// details never reach the client.
func respondInternal(w http.ResponseWriter, err error) {
	logger.Log.Error().Err(err).Msg("Internal server error")
	respondError(w, http.StatusInternalServerError, codeInternal, "server error")
}
