package analysis

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/dexflow/dexflow/internal/dataset"
)

// Matrix is the model-ready view of a table: one row per record, numeric
// and dummy-encoded columns only.
type Matrix struct {
	Columns   []string
	RowLabels []string
	Data      *mat.Dense
}

// Encode builds the design matrix: every numeric column (nulls imputed
// with the column mean) plus one 0/1 column per vocabulary entry of each
// multi-valued column present in vocab. Vocabulary columns are processed
// in sorted order so the layout is deterministic.
func Encode(t *dataset.Table, labelColumn string, vocab map[string][]string) (*Matrix, error) {
	if t.Len() == 0 {
		return nil, fmt.Errorf("cannot encode an empty table")
	}

	numeric := NumericColumns(t)

	var vocabColumns []string
	for col := range vocab {
		if t.HasColumn(col) {
			vocabColumns = append(vocabColumns, col)
		}
	}
	sort.Strings(vocabColumns)

	columns := make([]string, 0, len(numeric))
	columns = append(columns, numeric...)
	for _, col := range vocabColumns {
		for _, value := range vocab[col] {
			columns = append(columns, col+"_"+value)
		}
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("no encodable columns in table")
	}

	means := make(map[string]float64, len(numeric))
	for _, col := range numeric {
		means[col] = stat.Mean(numericValues(t, col), nil)
	}

	data := mat.NewDense(t.Len(), len(columns), nil)
	labels := make([]string, t.Len())

	for i, row := range t.Rows {
		if name, ok := row[labelColumn].(string); ok {
			labels[i] = name
		} else {
			labels[i] = fmt.Sprintf("row-%d", i)
		}

		j := 0
		for _, col := range numeric {
			v, ok := asFloat(row[col])
			if !ok {
				v = means[col]
			}
			data.Set(i, j, v)
			j++
		}

		for _, col := range vocabColumns {
			members := cellMembers(row[col])
			for _, value := range vocab[col] {
				if members[value] {
					data.Set(i, j, 1)
				}
				j++
			}
		}
	}

	return &Matrix{
		Columns:   columns,
		RowLabels: labels,
		Data:      data,
	}, nil
}

// FilterNearZeroVariance drops columns whose variance is at or below min.
func (m *Matrix) FilterNearZeroVariance(min float64) *Matrix {
	rows, cols := m.Data.Dims()

	var keep []int
	for j := 0; j < cols; j++ {
		if stat.Variance(mat.Col(nil, j, m.Data), nil) > min {
			keep = append(keep, j)
		}
	}

	if len(keep) == cols {
		return m
	}

	filtered := mat.NewDense(rows, len(keep), nil)
	columns := make([]string, len(keep))
	for idx, j := range keep {
		columns[idx] = m.Columns[j]
		for i := 0; i < rows; i++ {
			filtered.Set(i, idx, m.Data.At(i, j))
		}
	}

	return &Matrix{
		Columns:   columns,
		RowLabels: m.RowLabels,
		Data:      filtered,
	}
}

// Scale centers every column and divides by its standard deviation.
// Columns with zero spread are only centered.
func (m *Matrix) Scale() {
	rows, cols := m.Data.Dims()
	for j := 0; j < cols; j++ {
		col := mat.Col(nil, j, m.Data)
		mean, std := stat.MeanStdDev(col, nil)
		for i := 0; i < rows; i++ {
			v := m.Data.At(i, j) - mean
			if std > 0 {
				v /= std
			}
			m.Data.Set(i, j, v)
		}
	}
}

// cellMembers splits a flattened multi-value cell back into its set of
// names. A single bare value is a set of one.
func cellMembers(v interface{}) map[string]bool {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}

	members := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		members[strings.TrimSpace(part)] = true
	}
	return members
}
