package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashengine/internal/cache"
	"dashengine/internal/domain"
	"dashengine/internal/service/query"
	"dashengine/internal/testutil"
)

// newTestServer wires a handler around mocks and mounts it the way the
// server binary does.
func newTestServer(t *testing.T, store *testutil.MockDefinitionStore, wh *testutil.MockWarehouse, history *testutil.MockHistoryRepo) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	svc := query.NewQueryService(store, cache.New(), wh, logger)
	if history != nil {
		svc.SetHistory(history)
	}

	r := chi.NewRouter()
	r.Mount("/v1", NewHandler(svc, logger).Routes())

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func sumStore() *testutil.MockDefinitionStore {
	return &testutil.MockDefinitionStore{
		LoadFn: func(identifier string) (domain.QueryDefinition, error) {
			switch identifier {
			case "sales_totals":
				return domain.QueryDefinition{
					Name:        "Sales Totals",
					Description: "Total sale amount.",
					Body:        "SELECT SUM(amount) FROM sales",
				}, nil
			case "broken":
				return domain.QueryDefinition{}, domain.ErrDefinitionParse(identifier, fmt.Errorf("missing required key %q", "body"))
			default:
				return domain.QueryDefinition{}, domain.ErrDefinitionNotFound(identifier, nil)
			}
		},
	}
}

func sumWarehouse() *testutil.MockWarehouse {
	return &testutil.MockWarehouse{
		SubmitFn: func(_ context.Context, _ string) (*domain.Job, error) {
			started := time.Now()
			return &domain.Job{
				Columns:        []string{"sum"},
				Rows:           [][]interface{}{{float64(1000)}},
				StartedAt:      started,
				EndedAt:        started.Add(100 * time.Millisecond),
				BytesBilled:    500,
				BytesProcessed: 2000,
			}, nil
		},
	}
}

func decodeJSON(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close() //nolint:errcheck
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func TestRunQuery(t *testing.T) {
	t.Parallel()

	wh := sumWarehouse()
	srv := newTestServer(t, sumStore(), wh, nil)

	resp, err := http.Post(srv.URL+"/v1/queries/sales_totals/run", "application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		ID             string          `json:"id"`
		Name           string          `json:"name"`
		Columns        []string        `json:"columns"`
		Rows           [][]interface{} `json:"rows"`
		RowCount       int             `json:"row_count"`
		DurationMs     int64           `json:"duration_ms"`
		BytesBilled    float64         `json:"bytes_billed"`
		BytesProcessed float64         `json:"bytes_processed"`
		Cached         bool            `json:"cached"`
	}
	decodeJSON(t, resp, &body)

	assert.NotEmpty(t, body.ID)
	assert.Equal(t, "Sales Totals", body.Name)
	assert.Equal(t, []string{"sum"}, body.Columns)
	require.Equal(t, 1, body.RowCount)
	assert.InDelta(t, 1000, body.Rows[0][0], 0)
	assert.Equal(t, int64(100), body.DurationMs)
	assert.InDelta(t, 500, body.BytesBilled, 0)
	assert.InDelta(t, 2000, body.BytesProcessed, 0)
	assert.False(t, body.Cached)

	// Second run reuses the cached result.
	resp2, err := http.Post(srv.URL+"/v1/queries/sales_totals/run", "application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	var body2 struct {
		ID     string `json:"id"`
		Cached bool   `json:"cached"`
	}
	decodeJSON(t, resp2, &body2)
	assert.True(t, body2.Cached)
	assert.Equal(t, body.ID, body2.ID, "the original result object is returned")
	assert.Equal(t, 1, wh.SubmitCount())
}

func TestRunQuery_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		identifier string
		warehouse  *testutil.MockWarehouse
		wantStatus int
	}{
		{
			name:       "unknown identifier maps to 404",
			identifier: "nope",
			warehouse:  sumWarehouse(),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "parse failure maps to 422",
			identifier: "broken",
			warehouse:  sumWarehouse(),
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "warehouse failure maps to 502",
			identifier: "sales_totals",
			warehouse: &testutil.MockWarehouse{
				SubmitFn: func(_ context.Context, _ string) (*domain.Job, error) {
					return nil, fmt.Errorf("quota exceeded")
				},
			},
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newTestServer(t, sumStore(), tt.warehouse, nil)
			resp, err := http.Post(srv.URL+"/v1/queries/"+tt.identifier+"/run", "application/json", nil)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
			}
			decodeJSON(t, resp, &body)
			assert.Equal(t, tt.wantStatus, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestGetDefinition(t *testing.T) {
	t.Parallel()

	wh := sumWarehouse()
	srv := newTestServer(t, sumStore(), wh, nil)

	resp, err := http.Get(srv.URL + "/v1/queries/sales_totals")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Name string `json:"name"`
		Body string `json:"body"`
	}
	decodeJSON(t, resp, &body)
	assert.Equal(t, "Sales Totals", body.Name)
	assert.Equal(t, "SELECT SUM(amount) FROM sales", body.Body)
	assert.Zero(t, wh.SubmitCount(), "peek never executes")
}

func TestListResults(t *testing.T) {
	t.Parallel()

	store := &testutil.MockDefinitionStore{
		LoadFn: func(identifier string) (domain.QueryDefinition, error) {
			return domain.QueryDefinition{Name: identifier, Description: "d", Body: "SELECT 1"}, nil
		},
	}
	srv := newTestServer(t, store, sumWarehouse(), nil)

	for _, id := range []string{"q1", "q2", "q3"} {
		resp, err := http.Post(srv.URL+"/v1/queries/"+id+"/run", "application/json", nil)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()
	}

	resp, err := http.Get(srv.URL + "/v1/results")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Results []struct {
			Name   string `json:"name"`
			Cached bool   `json:"cached"`
		} `json:"results"`
	}
	decodeJSON(t, resp, &body)
	require.Len(t, body.Results, 3)
	for i, want := range []string{"q1", "q2", "q3"} {
		assert.Equal(t, want, body.Results[i].Name)
		assert.True(t, body.Results[i].Cached)
	}
}

func TestListHistory(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	var gotFilter domain.HistoryFilter
	history := &testutil.MockHistoryRepo{
		ListFn: func(_ context.Context, filter domain.HistoryFilter) ([]domain.HistoryEntry, error) {
			gotFilter = filter
			msg := "syntax error"
			return []domain.HistoryEntry{{
				ID:           7,
				QueryID:      "sales_totals",
				QueryName:    "Sales Totals",
				Status:       domain.HistoryStatusFailed,
				ErrorMessage: &msg,
				CreatedAt:    now,
			}}, nil
		},
	}
	srv := newTestServer(t, sumStore(), sumWarehouse(), history)

	resp, err := http.Get(srv.URL + "/v1/history?status=FAILED&limit=5")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		History []struct {
			ID           int64   `json:"id"`
			QueryID      string  `json:"query_id"`
			Status       string  `json:"status"`
			ErrorMessage *string `json:"error_message"`
		} `json:"history"`
	}
	decodeJSON(t, resp, &body)
	require.NotNil(t, gotFilter.Status)
	assert.Equal(t, "FAILED", *gotFilter.Status)
	assert.Equal(t, 5, gotFilter.Limit)
	require.Len(t, body.History, 1)
	assert.Equal(t, int64(7), body.History[0].ID)
	assert.Equal(t, "FAILED", body.History[0].Status)
	require.NotNil(t, body.History[0].ErrorMessage)
}

func TestListHistory_InvalidLimit(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, sumStore(), sumWarehouse(), &testutil.MockHistoryRepo{})
	resp, err := http.Get(srv.URL + "/v1/history?limit=banana")
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
