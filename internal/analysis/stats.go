package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/dexflow/dexflow/internal/dataset"
)

// NullCounts reports, per column, how many rows hold null.
func NullCounts(t *dataset.Table) map[string]int {
	counts := make(map[string]int, len(t.Columns))
	for _, col := range t.Columns {
		n := 0
		for _, row := range t.Rows {
			if row[col] == nil {
				n++
			}
		}
		counts[col] = n
	}
	return counts
}

type NumericSummary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// NumericColumns returns the columns whose non-null values are all
// numeric (booleans count as 0/1), sorted by name.
func NumericColumns(t *dataset.Table) []string {
	var cols []string
	for _, col := range t.Columns {
		values := numericValues(t, col)
		if values == nil {
			continue
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

func Summaries(t *dataset.Table) []NumericSummary {
	var summaries []NumericSummary
	for _, col := range NumericColumns(t) {
		values := numericValues(t, col)
		if len(values) == 0 {
			continue
		}

		min, max := values[0], values[0]
		for _, v := range values {
			min = math.Min(min, v)
			max = math.Max(max, v)
		}

		summaries = append(summaries, NumericSummary{
			Column: col,
			Count:  len(values),
			Mean:   stat.Mean(values, nil),
			StdDev: stat.StdDev(values, nil),
			Min:    min,
			Max:    max,
		})
	}
	return summaries
}

// Correlation computes the Pearson correlation matrix over the given
// numeric columns, using pairwise complete rows.
func Correlation(t *dataset.Table, cols []string) [][]float64 {
	matrix := make([][]float64, len(cols))
	for i := range cols {
		matrix[i] = make([]float64, len(cols))
		matrix[i][i] = 1
	}

	for i := 0; i < len(cols); i++ {
		for j := i + 1; j < len(cols); j++ {
			var xs, ys []float64
			for _, row := range t.Rows {
				x, okX := asFloat(row[cols[i]])
				y, okY := asFloat(row[cols[j]])
				if okX && okY {
					xs = append(xs, x)
					ys = append(ys, y)
				}
			}

			r := math.NaN()
			if len(xs) > 1 {
				r = stat.Correlation(xs, ys, nil)
			}
			matrix[i][j] = r
			matrix[j][i] = r
		}
	}

	return matrix
}

// Contingency cross-tabulates two categorical columns; null cells are
// counted under the empty string.
func Contingency(t *dataset.Table, a, b string) map[string]map[string]int {
	table := make(map[string]map[string]int)
	for _, row := range t.Rows {
		av := categoryOf(row[a])
		bv := categoryOf(row[b])
		if table[av] == nil {
			table[av] = make(map[string]int)
		}
		table[av][bv]++
	}
	return table
}

func categoryOf(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

// numericValues collects the column's non-null values, or nil when any
// value is non-numeric or the column is entirely null.
func numericValues(t *dataset.Table, col string) []float64 {
	var values []float64
	for _, row := range t.Rows {
		v := row[col]
		if v == nil {
			continue
		}
		f, ok := asFloat(v)
		if !ok {
			return nil
		}
		values = append(values, f)
	}
	return values
}

func asFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
