package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/dexflow/dexflow/internal/analysis"
	"github.com/dexflow/dexflow/internal/dataset"
)

func encodeFixture(t *testing.T) *analysis.Matrix {
	t.Helper()

	table := dataset.FromRows([]dataset.Record{
		{"name": "pikachu", "base_hp": 35.0, "types": "electric"},
		{"name": "charizard", "base_hp": 78.0, "types": "fire, flying"},
		{"name": "squirtle", "base_hp": 44.0, "types": "water"},
	})

	vocab := map[string][]string{
		"types": {"electric", "fire", "flying", "water", "dragon"},
	}

	matrix, err := analysis.Encode(table, "name", vocab)
	require.NoError(t, err)
	return matrix
}

func TestEncodeLayout(t *testing.T) {
	matrix := encodeFixture(t)

	assert.Equal(t, []string{
		"base_hp",
		"types_electric", "types_fire", "types_flying", "types_water", "types_dragon",
	}, matrix.Columns)
	assert.Equal(t, []string{"pikachu", "charizard", "squirtle"}, matrix.RowLabels)
}

func TestEncodeDummyMembership(t *testing.T) {
	matrix := encodeFixture(t)

	// charizard is fire and flying, nothing else
	assert.Equal(t, 78.0, matrix.Data.At(1, 0))
	assert.Equal(t, 0.0, matrix.Data.At(1, 1))
	assert.Equal(t, 1.0, matrix.Data.At(1, 2))
	assert.Equal(t, 1.0, matrix.Data.At(1, 3))
	assert.Equal(t, 0.0, matrix.Data.At(1, 4))

	// a single bare value still encodes
	assert.Equal(t, 1.0, matrix.Data.At(0, 1))
}

func TestEncodeImputesMissingNumeric(t *testing.T) {
	table := dataset.FromRows([]dataset.Record{
		{"name": "a", "x": 10.0},
		{"name": "b"},
		{"name": "c", "x": 30.0},
	})

	matrix, err := analysis.Encode(table, "name", nil)
	require.NoError(t, err)

	// null imputed with the column mean
	assert.Equal(t, 20.0, matrix.Data.At(1, 0))
}

func TestEncodeEmptyTable(t *testing.T) {
	_, err := analysis.Encode(dataset.New(), "name", nil)
	assert.Error(t, err)
}

func TestFilterNearZeroVariance(t *testing.T) {
	matrix := encodeFixture(t)

	filtered := matrix.FilterNearZeroVariance(1e-8)

	// no species is dragon-typed, so that column must go
	assert.NotContains(t, filtered.Columns, "types_dragon")
	assert.Contains(t, filtered.Columns, "base_hp")
	assert.Contains(t, filtered.Columns, "types_water")

	_, cols := filtered.Data.Dims()
	assert.Equal(t, len(filtered.Columns), cols)
}

func TestScale(t *testing.T) {
	matrix := encodeFixture(t).FilterNearZeroVariance(1e-8)
	matrix.Scale()

	rows, cols := matrix.Data.Dims()
	for j := 0; j < cols; j++ {
		col := mat.Col(nil, j, matrix.Data)
		mean, std := stat.MeanStdDev(col, nil)
		assert.InDelta(t, 0.0, mean, 1e-9)
		assert.InDelta(t, 1.0, std, 1e-9)
	}
	assert.Equal(t, 3, rows)
}
