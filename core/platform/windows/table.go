package windows

import (
	"fmt"
	"strings"

	"driver-manager/core/reconcile"
)

// table is the parsed form of `wmic ... /format:csv` output. Columns are
// looked up by header name since wmic orders them alphabetically regardless
// of the requested order.
type table struct {
	columns map[string]int
	rows    [][]string
	skipped int
}

// parseTable parses wmic CSV output. Blank output yields an empty table
// without header. Any other output must start with a Node header line.
//
// wmic does not quote values, so a comma inside free text splits it. Excess
// fields of a row are joined back into the free column when the header has
// it. Rows that still do not fit the header are skipped and counted.
func parseTable(out, free string) (table, error) {
	var t table
	for _, raw := range strings.Split(out, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")

		if t.columns == nil {
			if fields[0] != "Node" {
				return table{}, fmt.Errorf("wmic output has no Node header: %w", reconcile.ErrParse)
			}
			t.columns = make(map[string]int, len(fields))
			for i, f := range fields {
				t.columns[strings.TrimSpace(f)] = i
			}
			continue
		}
		if fields[0] == "Node" {
			continue
		}
		if len(fields) > len(t.columns) {
			fields = t.rejoin(fields, free)
		}
		if len(fields) != len(t.columns) {
			t.skipped++
			continue
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		t.rows = append(t.rows, fields)
	}
	return t, nil
}

// rejoin merges the excess fields of a row into the free column.
func (t table) rejoin(fields []string, free string) []string {
	i, ok := t.columns[free]
	if !ok {
		return fields
	}
	extra := len(fields) - len(t.columns)
	merged := make([]string, 0, len(t.columns))
	merged = append(merged, fields[:i]...)
	merged = append(merged, strings.Join(fields[i:i+extra+1], ","))
	return append(merged, fields[i+extra+1:]...)
}

func (t table) hasHeader() bool {
	return t.columns != nil
}

func (t table) has(column string) bool {
	_, ok := t.columns[column]
	return ok
}

func (t table) get(row []string, column string) string {
	i, ok := t.columns[column]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
