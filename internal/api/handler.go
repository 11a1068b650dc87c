// Package api provides HTTP handlers for the dashengine REST API.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"dashengine/internal/service/query"
)

// APIHandler serves the query execution and cache enumeration endpoints.
type APIHandler struct {
	query  *query.QueryService
	logger *slog.Logger
}

// NewHandler creates an APIHandler around the query service.
func NewHandler(querySvc *query.QueryService, logger *slog.Logger) *APIHandler {
	return &APIHandler{query: querySvc, logger: logger}
}

// Routes returns the versioned API router.
func (h *APIHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/queries/{id}/run", h.RunQuery)
	r.Get("/queries/{id}", h.GetDefinition)
	r.Get("/results", h.ListResults)
	r.Get("/history", h.ListHistory)
	return r
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("write response failed", "error", err)
	}
}

func (h *APIHandler) writeError(w http.ResponseWriter, err error) {
	code := httpStatusFromDomainError(err)
	if code == http.StatusInternalServerError {
		h.logger.Error("internal error", "error", err)
	}
	h.writeJSON(w, code, errorResponse{Code: code, Message: err.Error()})
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
