package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/dexflow/dexflow/internal/analysis"
)

func matrixOf(labels []string, cols []string, data []float64) *analysis.Matrix {
	return &analysis.Matrix{
		Columns:   cols,
		RowLabels: labels,
		Data:      mat.NewDense(len(labels), len(cols), data),
	}
}

func TestPCAVarianceOrdering(t *testing.T) {
	// spread along x dwarfs the spread along y
	m := matrixOf(
		[]string{"a", "b", "c", "d"},
		[]string{"x", "y"},
		[]float64{
			-10, 0.1,
			-3, -0.2,
			4, 0.15,
			9, -0.05,
		},
	)

	proj, err := analysis.PCA(m, 2)
	require.NoError(t, err)

	require.Len(t, proj.VarianceExplained, 2)
	assert.Greater(t, proj.VarianceExplained[0], proj.VarianceExplained[1])
	assert.Greater(t, proj.VarianceExplained[0], 0.9)
	assert.InDelta(t, 1.0, proj.TotalVarianceExplained(), 1e-9)

	rows, cols := proj.Scores.Dims()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, []string{"a", "b", "c", "d"}, proj.RowLabels)
}

func TestPCACapsComponents(t *testing.T) {
	m := matrixOf(
		[]string{"a", "b", "c"},
		[]string{"x", "y"},
		[]float64{1, 2, 3, 4, 5, 6},
	)

	proj, err := analysis.PCA(m, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, proj.Components)
}

func TestPCATooFewRows(t *testing.T) {
	m := matrixOf([]string{"a"}, []string{"x"}, []float64{1})

	_, err := analysis.PCA(m, 1)
	assert.Error(t, err)
}

func TestPCAInvalidComponents(t *testing.T) {
	m := matrixOf([]string{"a", "b"}, []string{"x"}, []float64{1, 2})

	_, err := analysis.PCA(m, 0)
	assert.Error(t, err)
}
