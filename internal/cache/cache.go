package cache

import (
	"context"

	"github.com/dexflow/dexflow/internal/dataset"
)

// Store persists built generation datasets keyed by generation id. A hit
// gates re-fetching entirely; there is no invalidation, staleness is the
// caller's responsibility.
type Store interface {
	Get(ctx context.Context, generation string) ([]dataset.Record, bool, error)
	Set(ctx context.Context, generation string, rows []dataset.Record) error
}
