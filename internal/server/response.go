package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/desertthunder/gamelists/internal/shared"
)

const (
	codeNotFound          = "not_found"
	codeIndexOutOfRange   = "index_out_of_range"
	codeInvalidInput      = "invalid_input"
	codeTransactionFailed = "transaction_failed"
	codeInternal          = "internal_error"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail names the error kind and describes it.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorBody{Error: ErrorDetail{Code: code, Message: message}})
}

// classify maps a service error onto its HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, shared.ErrIndexOutOfRange):
		return http.StatusBadRequest, codeIndexOutOfRange
	case errors.Is(err, shared.ErrInvalidInput):
		return http.StatusBadRequest, codeInvalidInput
	case errors.Is(err, shared.ErrTransactionFailed):
		return http.StatusConflict, codeTransactionFailed
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

// writeServiceError writes err as an error response. Internal errors are not echoed to the client.
func writeServiceError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	writeError(w, status, code, message)
}
