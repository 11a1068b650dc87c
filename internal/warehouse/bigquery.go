package warehouse

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	bigqueryv2 "google.golang.org/api/bigquery/v2"
	"google.golang.org/api/option"

	"dashengine/internal/domain"
)

// jobPollInterval is how often an incomplete BigQuery job is re-checked.
const jobPollInterval = 500 * time.Millisecond

// Compile-time check.
var _ domain.Warehouse = (*BigQuery)(nil)

// BigQuery executes queries through the BigQuery REST API. Credentials are
// resolved once at construction via Application Default Credentials (or an
// explicit service-account file), outside the core's control.
type BigQuery struct {
	jobs     *bigqueryv2.JobsService
	project  string
	location string
	logger   *slog.Logger
}

// NewBigQuery constructs the BigQuery adapter. A missing project or a
// credential resolution failure is a ClientInitializationError.
func NewBigQuery(ctx context.Context, project, location, credentialsFile string, logger *slog.Logger) (*BigQuery, error) {
	if project == "" {
		return nil, domain.ErrClientInitialization(fmt.Errorf("BIGQUERY_PROJECT is not set"))
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	svc, err := bigqueryv2.NewService(ctx, opts...)
	if err != nil {
		return nil, domain.ErrClientInitialization(err)
	}

	return &BigQuery{
		jobs:     svc.Jobs,
		project:  project,
		location: location,
		logger:   logger,
	}, nil
}

// Submit runs queryText as a synchronous BigQuery job, pages through the full
// result set, and reads cost metadata from the finished job's statistics.
func (w *BigQuery) Submit(ctx context.Context, queryText string) (*domain.Job, error) {
	useLegacySQL := false
	req := &bigqueryv2.QueryRequest{
		Query:        queryText,
		UseLegacySql: &useLegacySQL,
		// UseLegacySql defaults to true server-side, so the false value must
		// be sent explicitly.
		ForceSendFields: []string{"UseLegacySql"},
	}
	if w.location != "" {
		req.Location = w.location
	}

	resp, err := w.jobs.Query(w.project, req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("bigquery jobs.query: %w", err)
	}
	if resp.JobReference == nil {
		return nil, fmt.Errorf("bigquery jobs.query: response carries no job reference")
	}
	jobID := resp.JobReference.JobId

	schema := resp.Schema
	tableRows := resp.Rows
	pageToken := resp.PageToken

	// Wait out an incomplete job, then drain remaining pages.
	for !resp.JobComplete || pageToken != "" {
		call := w.jobs.GetQueryResults(w.project, jobID).Context(ctx)
		if w.location != "" {
			call = call.Location(w.location)
		}
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		page, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("bigquery jobs.getQueryResults: %w", err)
		}
		if !page.JobComplete {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(jobPollInterval):
			}
			continue
		}
		resp.JobComplete = true
		if schema == nil {
			schema = page.Schema
		}
		tableRows = append(tableRows, page.Rows...)
		pageToken = page.PageToken
	}

	job, err := w.fetchJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != nil && job.Status.ErrorResult != nil {
		return nil, fmt.Errorf("bigquery job %s failed: %s", jobID, job.Status.ErrorResult.Message)
	}

	cols, rows := convertTable(schema, tableRows)
	out := &domain.Job{Columns: cols, Rows: rows}

	if st := job.Statistics; st != nil {
		out.StartedAt = time.UnixMilli(st.StartTime).UTC()
		out.EndedAt = time.UnixMilli(st.EndTime).UTC()
		if st.Query != nil {
			out.BytesBilled = float64(st.Query.TotalBytesBilled)
			out.BytesProcessed = float64(st.Query.TotalBytesProcessed)
		}
	}

	w.logger.Debug("bigquery job complete",
		"job_id", jobID,
		"rows", len(rows),
		"bytes_billed", out.BytesBilled,
		"bytes_processed", out.BytesProcessed,
	)
	return out, nil
}

// fetchJob reads the finished job for its statistics and final status.
func (w *BigQuery) fetchJob(ctx context.Context, jobID string) (*bigqueryv2.Job, error) {
	call := w.jobs.Get(w.project, jobID).Context(ctx)
	if w.location != "" {
		call = call.Location(w.location)
	}
	job, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("bigquery jobs.get: %w", err)
	}
	return job, nil
}

// convertTable turns the REST wire rows into named, typed cells following the
// schema's declared field types.
func convertTable(schema *bigqueryv2.TableSchema, tableRows []*bigqueryv2.TableRow) ([]string, [][]interface{}) {
	var fields []*bigqueryv2.TableFieldSchema
	if schema != nil {
		fields = schema.Fields
	}

	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name
	}

	rows := make([][]interface{}, 0, len(tableRows))
	for _, tr := range tableRows {
		row := make([]interface{}, len(tr.F))
		for i, cell := range tr.F {
			var fieldType string
			if i < len(fields) {
				fieldType = fields[i].Type
			}
			row[i] = convertCell(cell.V, fieldType)
		}
		rows = append(rows, row)
	}
	return cols, rows
}

// convertCell coerces a wire cell (string or nil) to a Go value per the
// schema field type. Unknown types pass through as delivered.
func convertCell(v interface{}, fieldType string) interface{} {
	s, ok := v.(string)
	if !ok {
		return v
	}
	switch fieldType {
	case "INTEGER", "INT64":
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
	case "FLOAT", "FLOAT64", "NUMERIC", "BIGNUMERIC":
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case "BOOLEAN", "BOOL":
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
	case "TIMESTAMP":
		// Timestamps arrive as epoch seconds with a fractional part.
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			sec := int64(f)
			nsec := int64((f - float64(sec)) * 1e9)
			return time.Unix(sec, nsec).UTC()
		}
	}
	return s
}
