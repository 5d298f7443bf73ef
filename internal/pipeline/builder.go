package pipeline

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/dexflow/dexflow/internal/cache"
	"github.com/dexflow/dexflow/internal/dataset"
	"github.com/dexflow/dexflow/internal/flatten"
	"github.com/dexflow/dexflow/internal/metrics"
	"github.com/dexflow/dexflow/internal/pokeapi"
	"github.com/dexflow/dexflow/pkg/logger"
)

// Vocabulary category resources listed from the API, used for dummy
// encoding of the matching multi-valued columns.
var VocabularyResources = map[string]string{
	"types":      "type",
	"abilities":  "ability",
	"moves":      "move",
	"egg_groups": "egg-group",
}

// Builder fetches, flattens and merges species data, one combined record
// per species. Fetching is sequential; a failed single-resource fetch
// degrades to an absent record rather than an error.
type Builder struct {
	client *pokeapi.Client
	store  cache.Store
}

func NewBuilder(client *pokeapi.Client, store cache.Store) *Builder {
	return &Builder{
		client: client,
		store:  store,
	}
}

// BuildGeneration returns the combined records for one generation. A cache
// hit skips fetching entirely.
func (b *Builder) BuildGeneration(ctx context.Context, id string) ([]dataset.Record, error) {
	if b.store != nil {
		rows, ok, err := b.store.Get(ctx, id)
		if err != nil {
			logger.Warn("Cache read failed, refetching", zap.String("generation", id), zap.Error(err))
		}
		if ok {
			return rows, nil
		}
	}

	gen, err := b.client.GetGeneration(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve generation %s: %w", id, err)
	}

	logger.Info("Building generation dataset",
		zap.String("generation", gen.Name),
		zap.Int("species", len(gen.Species)),
	)

	rows := make([]dataset.Record, 0, len(gen.Species))
	for _, species := range gen.Species {
		row := b.buildSpecies(ctx, species.Name)
		if row == nil {
			metrics.SpeciesDropped.Inc()
			continue
		}
		rows = append(rows, row)
	}

	metrics.RowsBuilt.WithLabelValues(gen.Name).Add(float64(len(rows)))

	if b.store != nil {
		if err := b.store.Set(ctx, id, rows); err != nil {
			logger.Warn("Failed to cache generation", zap.String("generation", id), zap.Error(err))
		}
	}

	return rows, nil
}

// BuildAll concatenates the configured generations into one table with a
// shared column schema; generations that fail to resolve are skipped.
func (b *Builder) BuildAll(ctx context.Context, generations []int) (*dataset.Table, error) {
	table := dataset.New()
	for _, g := range generations {
		id := strconv.Itoa(g)
		rows, err := b.BuildGeneration(ctx, id)
		if err != nil {
			logger.Warn("Skipping generation", zap.String("generation", id), zap.Error(err))
			continue
		}
		for _, row := range rows {
			table.Append(row)
		}
	}

	if table.Len() == 0 {
		return nil, fmt.Errorf("no records built for generations %v", generations)
	}

	return table, nil
}

// Vocabulary lists the full value sets for every encodable column. A
// resource that fails to list is omitted rather than failing the run.
func (b *Builder) Vocabulary(ctx context.Context) map[string][]string {
	vocab := make(map[string][]string, len(VocabularyResources))
	for column, resource := range VocabularyResources {
		names, err := b.client.ListAll(ctx, resource)
		if err != nil {
			logger.Warn("Failed to list vocabulary", zap.String("resource", resource), zap.Error(err))
			continue
		}
		vocab[column] = names
	}
	return vocab
}

// buildSpecies fetches and merges one species. Any fetch failure returns
// nil and the species is excluded from the table.
func (b *Builder) buildSpecies(ctx context.Context, name string) dataset.Record {
	species, err := b.client.GetSpecies(ctx, name)
	if err != nil {
		logger.Warn("Failed to fetch species", zap.String("species", name), zap.Error(err))
		return nil
	}

	var chain *pokeapi.EvolutionChain
	if url := species.EvolutionChain.URL; url != "" {
		chain, err = b.client.GetEvolutionChain(ctx, pokeapi.ResourceIDFromURL(url))
		if err != nil {
			logger.Warn("Failed to fetch evolution chain", zap.String("species", name), zap.Error(err))
			chain = nil
		}
	}

	variety := species.DefaultVariety()
	if variety == "" {
		variety = name
	}

	pokemon, err := b.client.GetPokemon(ctx, variety)
	if err != nil {
		logger.Warn("Dropping species without pokemon record",
			zap.String("species", name),
			zap.String("variety", variety),
			zap.Error(err),
		)
		return nil
	}

	merged := dataset.Merge(flatten.Species(species, chain), flatten.Pokemon(pokemon))

	return merged.Flatten()
}
