package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// printTable renders columns and rows as an aligned text table.
func printTable(w io.Writer, columns []string, rows [][]interface{}) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(columns, "\t"))

	seps := make([]string, len(columns))
	for i, c := range columns {
		seps[i] = strings.Repeat("-", len(c))
	}
	fmt.Fprintln(tw, strings.Join(seps, "\t"))

	for _, row := range rows {
		parts := make([]string, len(row))
		for i, v := range row {
			parts[i] = formatCell(v)
		}
		fmt.Fprintln(tw, strings.Join(parts, "\t"))
	}
	_ = tw.Flush()
}

func formatCell(v interface{}) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}

// formatBytes renders a byte count in a human-readable unit.
func formatBytes(n float64) string {
	const unit = 1024.0
	switch {
	case n >= unit*unit*unit:
		return fmt.Sprintf("%.2f GiB", n/(unit*unit*unit))
	case n >= unit*unit:
		return fmt.Sprintf("%.2f MiB", n/(unit*unit))
	case n >= unit:
		return fmt.Sprintf("%.2f KiB", n/unit)
	default:
		return fmt.Sprintf("%.0f B", n)
	}
}
