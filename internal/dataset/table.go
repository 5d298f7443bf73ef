package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// Table is an ordered sequence of records sharing a column schema. The
// schema is the union of all appended records; rows lacking a column hold
// null. Unseen columns are appended in sorted batches so the order is
// deterministic regardless of map iteration.
type Table struct {
	Columns []string
	Rows    []Record

	seen map[string]bool
}

func New() *Table {
	return &Table{seen: make(map[string]bool)}
}

func FromRows(rows []Record) *Table {
	t := New()
	for _, r := range rows {
		t.Append(r)
	}
	return t
}

func (t *Table) Append(r Record) {
	if t.seen == nil {
		t.seen = make(map[string]bool)
		for _, c := range t.Columns {
			t.seen[c] = true
		}
	}

	var unseen []string
	for k := range r {
		if !t.seen[k] {
			unseen = append(unseen, k)
			t.seen[k] = true
		}
	}
	sort.Strings(unseen)
	t.Columns = append(t.Columns, unseen...)
	t.Rows = append(t.Rows, r)
}

func (t *Table) Len() int {
	return len(t.Rows)
}

// Value returns the cell at row i, or nil when the row lacks the column.
func (t *Table) Value(i int, column string) interface{} {
	if i < 0 || i >= len(t.Rows) {
		return nil
	}
	return t.Rows[i][column]
}

// Column returns the full column, nil in positions where a row lacks it.
func (t *Table) Column(name string) []interface{} {
	values := make([]interface{}, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[name]
	}
	return values
}

func (t *Table) HasColumn(name string) bool {
	return t.seen != nil && t.seen[name]
}

func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	cells := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			cells[i] = formatCell(row[col])
		}
		if err := cw.Write(cells); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}
