package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/dexflow/dexflow/internal/analysis"
)

func projectionOf(labels []string, dims int, data []float64) *analysis.Projection {
	return &analysis.Projection{
		Components: dims,
		Scores:     mat.NewDense(len(labels), dims, data),
		RowLabels:  labels,
	}
}

func TestClusterSeparatesGroups(t *testing.T) {
	// two tight groups far apart
	proj := projectionOf(
		[]string{"a1", "a2", "a3", "b1", "b2", "b3"},
		2,
		[]float64{
			0.0, 0.1,
			0.2, -0.1,
			-0.1, 0.0,
			100.0, 100.1,
			100.2, 99.9,
			99.9, 100.0,
		},
	)

	assignments, err := analysis.Cluster(proj, 2, 42)
	require.NoError(t, err)
	require.Len(t, assignments, 6)

	byLabel := make(map[string]int)
	for _, a := range assignments {
		byLabel[a.Species] = a.Cluster
	}

	assert.Equal(t, byLabel["a1"], byLabel["a2"])
	assert.Equal(t, byLabel["a1"], byLabel["a3"])
	assert.Equal(t, byLabel["b1"], byLabel["b2"])
	assert.Equal(t, byLabel["b1"], byLabel["b3"])
	assert.NotEqual(t, byLabel["a1"], byLabel["b1"])
}

func TestClusterDeterministicForSeed(t *testing.T) {
	data := []float64{
		1, 2, 3, 4, 5, 6, 7, 8,
		2, 1, 4, 3, 6, 5, 8, 7,
	}
	labels := []string{"r1", "r2", "r3", "r4", "r5", "r6", "r7", "r8"}

	first, err := analysis.Cluster(projectionOf(labels, 2, data), 3, 7)
	require.NoError(t, err)

	second, err := analysis.Cluster(projectionOf(labels, 2, data), 3, 7)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestClusterKeepsCoordinates(t *testing.T) {
	proj := projectionOf([]string{"a", "b"}, 2, []float64{1, 2, 3, 4})

	assignments, err := analysis.Cluster(proj, 1, 1)
	require.NoError(t, err)
	require.Len(t, assignments, 2)

	assert.Equal(t, []float64{1, 2}, assignments[0].Coords)
	assert.Equal(t, []float64{3, 4}, assignments[1].Coords)
	assert.Equal(t, 0, assignments[0].Cluster)
}

func TestClusterTooManyClusters(t *testing.T) {
	proj := projectionOf([]string{"a", "b"}, 1, []float64{1, 2})

	_, err := analysis.Cluster(proj, 3, 1)
	assert.Error(t, err)
}
