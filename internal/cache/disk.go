package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/dexflow/dexflow/internal/dataset"
	"github.com/dexflow/dexflow/internal/metrics"
	"github.com/dexflow/dexflow/pkg/logger"
)

// Disk stores one JSON file per generation under a configurable directory.
type Disk struct {
	dir string
}

func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Disk{dir: dir}, nil
}

func (d *Disk) Get(ctx context.Context, generation string) ([]dataset.Record, bool, error) {
	data, err := os.ReadFile(d.path(generation))
	if os.IsNotExist(err) {
		metrics.CacheMisses.WithLabelValues("disk").Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache file: %w", err)
	}

	var rows []dataset.Record
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached generation: %w", err)
	}

	metrics.CacheHits.WithLabelValues("disk").Inc()
	logger.Debug("Generation cache hit", zap.String("generation", generation), zap.Int("rows", len(rows)))

	return rows, true, nil
}

func (d *Disk) Set(ctx context.Context, generation string, rows []dataset.Record) error {
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal generation: %w", err)
	}

	if err := os.WriteFile(d.path(generation), data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	logger.Debug("Generation cached", zap.String("generation", generation), zap.Int("rows", len(rows)))
	return nil
}

func (d *Disk) path(generation string) string {
	return filepath.Join(d.dir, fmt.Sprintf("generation-%s.json", generation))
}
