package cache_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dexflow/dexflow/internal/cache"
	"github.com/dexflow/dexflow/internal/dataset"
)

func TestDiskRoundTrip(t *testing.T) {
	store, err := cache.NewDisk(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	rows := []dataset.Record{
		{"name": "pikachu", "types": "electric", "base_hp": 35.0},
		{"name": "raichu", "types": "electric", "base_hp": 60.0},
	}

	require.NoError(t, store.Set(ctx, "1", rows))

	got, ok, err := store.Get(ctx, "1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rows, got)
}

func TestDiskMiss(t *testing.T) {
	store, err := cache.NewDisk(t.TempDir())
	require.NoError(t, err)

	got, ok, err := store.Get(context.Background(), "9")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestDiskOneFilePerGeneration(t *testing.T) {
	dir := t.TempDir()
	store, err := cache.NewDisk(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "1", []dataset.Record{{"name": "bulbasaur"}}))
	require.NoError(t, store.Set(ctx, "2", []dataset.Record{{"name": "chikorita"}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, gen := range []string{"1", "2"} {
		_, err := os.Stat(filepath.Join(dir, "generation-"+gen+".json"))
		assert.NoError(t, err)
	}
}

func TestDiskCorruptFileErrors(t *testing.T) {
	dir := t.TempDir()
	store, err := cache.NewDisk(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "generation-1.json"), []byte("{not json"), 0644))

	_, ok, err := store.Get(context.Background(), "1")
	assert.False(t, ok)
	assert.Error(t, err)
}
