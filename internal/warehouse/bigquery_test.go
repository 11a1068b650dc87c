package warehouse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bigqueryv2 "google.golang.org/api/bigquery/v2"

	"dashengine/internal/domain"
)

func TestNewBigQuery_MissingProject(t *testing.T) {
	t.Parallel()

	_, err := NewBigQuery(t.Context(), "", "", "", testLogger())
	var clientInit *domain.ClientInitializationError
	require.ErrorAs(t, err, &clientInit)
}

func TestConvertCell(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     interface{}
		fieldType string
		want      interface{}
	}{
		{"integer", "1000", "INTEGER", int64(1000)},
		{"int64 alias", "-3", "INT64", int64(-3)},
		{"float", "3.5", "FLOAT", 3.5},
		{"numeric", "99.99", "NUMERIC", 99.99},
		{"boolean", "true", "BOOLEAN", true},
		{"string passthrough", "hello", "STRING", "hello"},
		{"unknown type passthrough", "x", "GEOGRAPHY", "x"},
		{"nil stays nil", nil, "INTEGER", nil},
		{"unparseable integer stays string", "abc", "INTEGER", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, convertCell(tt.value, tt.fieldType))
		})
	}
}

func TestConvertCell_Timestamp(t *testing.T) {
	t.Parallel()

	got := convertCell("1.7e9", "TIMESTAMP")
	ts, ok := got.(time.Time)
	require.True(t, ok)
	assert.Equal(t, time.Unix(1_700_000_000, 0).UTC(), ts)
}

func TestConvertTable(t *testing.T) {
	t.Parallel()

	schema := &bigqueryv2.TableSchema{
		Fields: []*bigqueryv2.TableFieldSchema{
			{Name: "sum", Type: "INTEGER"},
			{Name: "region", Type: "STRING"},
		},
	}
	wireRows := []*bigqueryv2.TableRow{
		{F: []*bigqueryv2.TableCell{{V: "1000"}, {V: "emea"}}},
		{F: []*bigqueryv2.TableCell{{V: "250"}, {V: nil}}},
	}

	cols, rows := convertTable(schema, wireRows)
	assert.Equal(t, []string{"sum", "region"}, cols)
	require.Len(t, rows, 2)
	assert.Equal(t, []interface{}{int64(1000), "emea"}, rows[0])
	assert.Equal(t, []interface{}{int64(250), nil}, rows[1])
}

func TestConvertTable_NilSchema(t *testing.T) {
	t.Parallel()

	cols, rows := convertTable(nil, nil)
	assert.Empty(t, cols)
	assert.Empty(t, rows)
}
