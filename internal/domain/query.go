package domain

import "time"

// QueryDefinition is the declarative name/description/body triple loaded from
// a definition file. It is never mutated after loading.
type QueryDefinition struct {
	Name        string
	Description string
	Body        string
}

// Table is an ordered tabular result set. Column types are whatever the
// warehouse reports, so cell values are dynamically typed.
type Table struct {
	Columns []string
	Rows    [][]interface{}
}

// RowCount returns the number of rows in the table.
func (t Table) RowCount() int { return len(t.Rows) }

// QueryResult is the immutable record of one successful execution: the
// definition that produced it, the tabular data, and the execution metadata
// reported by the warehouse.
type QueryResult struct {
	ID             string // unique per execution, assigned by the coordinator
	Source         QueryDefinition
	Data           Table
	CompletedAt    time.Time
	Duration       time.Duration
	BytesBilled    float64
	BytesProcessed float64
}

// Job is the raw outcome of one warehouse submission, before it is wrapped
// into a QueryResult.
type Job struct {
	Columns        []string
	Rows           [][]interface{}
	StartedAt      time.Time
	EndedAt        time.Time
	BytesBilled    float64
	BytesProcessed float64
}
