package server

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/kamusis/coursematch/internal/logging"
)

// Error codes returned in APIError.Code.
const (
	CodeEmptyQuery       = "EMPTY_QUERY"
	CodeValidation       = "VALIDATION_ERROR"
	CodeConfiguration    = "CONFIGURATION_ERROR"
	CodeEmbeddingFailed  = "EMBEDDING_FAILED"
	CodeNotReady         = "NOT_READY"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeNotFound         = "NOT_FOUND"
)

// APIError is the body of every non-2xx response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type errorResponse struct {
	Error APIError `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message, field string) {
	respondJSON(w, status, errorResponse{Error: APIError{Code: code, Message: message, Field: field}})
}
