package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dexflow/dexflow/internal/analysis"
	"github.com/dexflow/dexflow/internal/dataset"
)

func sampleTable() *dataset.Table {
	return dataset.FromRows([]dataset.Record{
		{"name": "pichu", "base_hp": 20.0, "capture_rate": 190.0, "color": "yellow"},
		{"name": "pikachu", "base_hp": 35.0, "capture_rate": 190.0, "color": "yellow"},
		{"name": "raichu", "base_hp": 60.0, "color": "orange"},
	})
}

func TestNullCounts(t *testing.T) {
	counts := analysis.NullCounts(sampleTable())

	assert.Equal(t, 0, counts["name"])
	assert.Equal(t, 0, counts["base_hp"])
	assert.Equal(t, 1, counts["capture_rate"])
}

func TestNumericColumns(t *testing.T) {
	cols := analysis.NumericColumns(sampleTable())

	assert.Equal(t, []string{"base_hp", "capture_rate"}, cols)
}

func TestSummaries(t *testing.T) {
	summaries := analysis.Summaries(sampleTable())
	require.Len(t, summaries, 2)

	byCol := make(map[string]analysis.NumericSummary)
	for _, s := range summaries {
		byCol[s.Column] = s
	}

	hp := byCol["base_hp"]
	assert.Equal(t, 3, hp.Count)
	assert.InDelta(t, 38.333, hp.Mean, 0.001)
	assert.Equal(t, 20.0, hp.Min)
	assert.Equal(t, 60.0, hp.Max)

	// null rows are excluded, not zero-filled
	assert.Equal(t, 2, byCol["capture_rate"].Count)
}

func TestCorrelation(t *testing.T) {
	table := dataset.FromRows([]dataset.Record{
		{"a": 1.0, "b": 2.0},
		{"a": 2.0, "b": 4.0},
		{"a": 3.0, "b": 6.0},
	})

	matrix := analysis.Correlation(table, []string{"a", "b"})

	require.Len(t, matrix, 2)
	assert.Equal(t, 1.0, matrix[0][0])
	assert.InDelta(t, 1.0, matrix[0][1], 1e-9)
	assert.InDelta(t, 1.0, matrix[1][0], 1e-9)
}

func TestCorrelationPairwiseComplete(t *testing.T) {
	table := dataset.FromRows([]dataset.Record{
		{"a": 1.0, "b": 10.0},
		{"a": 2.0},
		{"a": 3.0, "b": 30.0},
	})

	matrix := analysis.Correlation(table, []string{"a", "b"})
	assert.InDelta(t, 1.0, matrix[0][1], 1e-9)
}

func TestContingency(t *testing.T) {
	table := dataset.FromRows([]dataset.Record{
		{"color": "yellow", "habitat": "forest"},
		{"color": "yellow", "habitat": "forest"},
		{"color": "orange", "habitat": "mountain"},
		{"color": "orange"},
	})

	ct := analysis.Contingency(table, "color", "habitat")

	assert.Equal(t, 2, ct["yellow"]["forest"])
	assert.Equal(t, 1, ct["orange"]["mountain"])
	assert.Equal(t, 1, ct["orange"][""])
}
