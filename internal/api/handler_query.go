package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"dashengine/internal/domain"
)

// queryResultResponse is the JSON shape of one execution result.
type queryResultResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Body           string          `json:"body"`
	Columns        []string        `json:"columns"`
	Rows           [][]interface{} `json:"rows"`
	RowCount       int             `json:"row_count"`
	CompletedAt    time.Time       `json:"completed_at"`
	DurationMs     int64           `json:"duration_ms"`
	BytesBilled    float64         `json:"bytes_billed"`
	BytesProcessed float64         `json:"bytes_processed"`
	Cached         bool            `json:"cached"`
}

// definitionResponse is the JSON shape of a loaded definition.
type definitionResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Body        string `json:"body"`
}

// historyEntryResponse is the JSON shape of one history entry.
type historyEntryResponse struct {
	ID             int64     `json:"id"`
	QueryID        string    `json:"query_id"`
	QueryName      string    `json:"query_name"`
	Status         string    `json:"status"`
	ErrorMessage   *string   `json:"error_message,omitempty"`
	DurationMs     int64     `json:"duration_ms"`
	BytesBilled    float64   `json:"bytes_billed"`
	BytesProcessed float64   `json:"bytes_processed"`
	RowsReturned   int64     `json:"rows_returned"`
	CreatedAt      time.Time `json:"created_at"`
}

// RunQuery executes (or reuses) the query for the path identifier.
func (h *APIHandler) RunQuery(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_, cached := h.query.Lookup(id)

	result, err := h.query.Execute(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resultToAPI(result, cached))
}

// GetDefinition loads the definition for the path identifier without
// executing it.
func (h *APIHandler) GetDefinition(w http.ResponseWriter, r *http.Request) {
	def, err := h.query.Definition(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, definitionResponse{
		Name:        def.Name,
		Description: def.Description,
		Body:        def.Body,
	})
}

// ListResults enumerates every cached result.
func (h *APIHandler) ListResults(w http.ResponseWriter, _ *http.Request) {
	results := h.query.Results()
	out := make([]queryResultResponse, len(results))
	for i, res := range results {
		out[i] = resultToAPI(res, true)
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"results": out})
}

// ListHistory lists recorded warehouse submissions, newest first.
func (h *APIHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	filter := domain.HistoryFilter{}
	if v := r.URL.Query().Get("status"); v != "" {
		filter.Status = &v
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			h.writeError(w, domain.ErrValidation("limit must be a positive integer"))
			return
		}
		filter.Limit = n
	}

	entries, err := h.query.History(r.Context(), filter)
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]historyEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = historyEntryResponse{
			ID:             e.ID,
			QueryID:        e.QueryID,
			QueryName:      e.QueryName,
			Status:         e.Status,
			ErrorMessage:   e.ErrorMessage,
			DurationMs:     e.DurationMs,
			BytesBilled:    e.BytesBilled,
			BytesProcessed: e.BytesProcessed,
			RowsReturned:   e.RowsReturned,
			CreatedAt:      e.CreatedAt,
		}
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"history": out})
}

func resultToAPI(res *domain.QueryResult, cached bool) queryResultResponse {
	return queryResultResponse{
		ID:             res.ID,
		Name:           res.Source.Name,
		Description:    res.Source.Description,
		Body:           res.Source.Body,
		Columns:        res.Data.Columns,
		Rows:           res.Data.Rows,
		RowCount:       res.Data.RowCount(),
		CompletedAt:    res.CompletedAt,
		DurationMs:     res.Duration.Milliseconds(),
		BytesBilled:    res.BytesBilled,
		BytesProcessed: res.BytesProcessed,
		Cached:         cached,
	}
}
