package pokeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dexflow/dexflow/internal/metrics"
	"github.com/dexflow/dexflow/pkg/logger"
)

type Client struct {
	baseURL    string
	listLimit  int
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration, listLimit int) *Client {
	if listLimit <= 0 {
		listLimit = 1000
	}
	return &Client{
		baseURL:   baseURL,
		listLimit: listLimit,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) GetGeneration(ctx context.Context, id string) (*Generation, error) {
	var gen Generation
	if err := c.get(ctx, "generation", fmt.Sprintf("%s/generation/%s", c.baseURL, id), &gen); err != nil {
		return nil, err
	}
	return &gen, nil
}

func (c *Client) GetSpecies(ctx context.Context, name string) (*Species, error) {
	var species Species
	if err := c.get(ctx, "pokemon-species", fmt.Sprintf("%s/pokemon-species/%s", c.baseURL, name), &species); err != nil {
		return nil, err
	}
	return &species, nil
}

func (c *Client) GetPokemon(ctx context.Context, name string) (*Pokemon, error) {
	var pokemon Pokemon
	if err := c.get(ctx, "pokemon", fmt.Sprintf("%s/pokemon/%s", c.baseURL, name), &pokemon); err != nil {
		return nil, err
	}
	return &pokemon, nil
}

func (c *Client) GetEvolutionChain(ctx context.Context, id string) (*EvolutionChain, error) {
	var chain EvolutionChain
	if err := c.get(ctx, "evolution-chain", fmt.Sprintf("%s/evolution-chain/%s", c.baseURL, id), &chain); err != nil {
		return nil, err
	}
	return &chain, nil
}

// ListAll returns every name of a category resource (types, abilities,
// moves, egg groups) in one request; the limit is large enough that the
// listing is effectively unpaginated.
func (c *Client) ListAll(ctx context.Context, resource string) ([]string, error) {
	url := fmt.Sprintf("%s/%s?offset=0&limit=%d", c.baseURL, resource, c.listLimit)

	var list ResourceList
	if err := c.get(ctx, resource, url, &list); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(list.Results))
	for _, r := range list.Results {
		names = append(names, r.Name)
	}

	logger.Debug("Listed category resource", zap.String("resource", resource), zap.Int("count", len(names)))

	return names, nil
}

func (c *Client) get(ctx context.Context, resource, url string, out interface{}) error {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.FetchTotal.WithLabelValues(resource, "error").Inc()
		return fmt.Errorf("failed to fetch %s: %w", resource, err)
	}
	defer resp.Body.Close()

	metrics.FetchDuration.WithLabelValues(resource).Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		metrics.FetchTotal.WithLabelValues(resource, fmt.Sprintf("%d", resp.StatusCode)).Inc()
		return fmt.Errorf("%s returned status %d", resource, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.FetchTotal.WithLabelValues(resource, "decode_error").Inc()
		return fmt.Errorf("failed to decode %s response: %w", resource, err)
	}

	metrics.FetchTotal.WithLabelValues(resource, "ok").Inc()

	return nil
}
