package sqlite_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dexflow/dexflow/internal/dataset"
	"github.com/dexflow/dexflow/internal/storage/models"
	"github.com/dexflow/dexflow/internal/storage/sqlite"
)

func newTestClient(t *testing.T) *sqlite.Client {
	t.Helper()

	client, err := sqlite.NewClient(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	require.NoError(t, client.InitSchema())
	return client
}

func TestSaveAndGetDataset(t *testing.T) {
	client := newTestClient(t)

	rows := []dataset.Record{
		{"name": "pikachu", "types": "electric", "base_hp": 35.0},
		{"name": "raichu", "types": "electric", "base_hp": 60.0},
	}
	require.NoError(t, client.SaveDataset("1", rows))

	got, err := client.GetDataset("1")
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestSaveDatasetUpserts(t *testing.T) {
	client := newTestClient(t)

	require.NoError(t, client.SaveDataset("1", []dataset.Record{{"name": "old"}}))
	require.NoError(t, client.SaveDataset("1", []dataset.Record{{"name": "new"}, {"name": "newer"}}))

	datasets, err := client.ListDatasets()
	require.NoError(t, err)
	require.Len(t, datasets, 1)
	assert.Equal(t, 2, datasets[0].RowCount)
}

func TestLoadTableConcatenatesGenerations(t *testing.T) {
	client := newTestClient(t)

	require.NoError(t, client.SaveDataset("1", []dataset.Record{{"name": "bulbasaur", "types": "grass, poison"}}))
	require.NoError(t, client.SaveDataset("2", []dataset.Record{{"name": "chikorita", "habitat": "grassland"}}))

	table, err := client.LoadTable()
	require.NoError(t, err)

	assert.Equal(t, 2, table.Len())
	assert.ElementsMatch(t, []string{"name", "types", "habitat"}, table.Columns)
	assert.Nil(t, table.Value(1, "types"))
}

func TestRunsAndAssignments(t *testing.T) {
	client := newTestClient(t)

	run := &models.AnalysisRun{
		ID:                "run-1",
		Clusters:          6,
		Seed:              42,
		Components:        3,
		VarianceExplained: 0.81,
		RowCount:          151,
		CreatedAt:         time.Now(),
	}
	require.NoError(t, client.SaveRun(run))

	assignments := []models.ClusterAssignment{
		{RunID: run.ID, Species: "pikachu", Cluster: 2, Coords: []float64{0.5, -1.2, 0.1}},
		{RunID: run.ID, Species: "raichu", Cluster: 2, Coords: []float64{0.6, -1.1, 0.2}},
	}
	require.NoError(t, client.SaveAssignments(run.ID, assignments))

	runs, err := client.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].ID)
	assert.Equal(t, int64(42), runs[0].Seed)

	got, err := client.GetAssignments(run.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "pikachu", got[0].Species)
	assert.Equal(t, []float64{0.5, -1.2, 0.1}, got[0].Coords)
}
