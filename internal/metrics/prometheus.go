package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dexflow_fetch_duration_seconds",
			Help:    "PokeAPI fetch duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"resource"},
	)

	FetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dexflow_fetch_total",
			Help: "Total number of PokeAPI fetches",
		},
		[]string{"resource", "status"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dexflow_cache_hits_total",
			Help: "Generation cache hits",
		},
		[]string{"backend"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dexflow_cache_misses_total",
			Help: "Generation cache misses",
		},
		[]string{"backend"},
	)

	RowsBuilt = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dexflow_rows_built_total",
			Help: "Combined records assembled per generation",
		},
		[]string{"generation"},
	)

	SpeciesDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dexflow_species_dropped_total",
			Help: "Species dropped for missing pokemon data",
		},
	)
)

func init() {
	prometheus.MustRegister(
		FetchDuration,
		FetchTotal,
		CacheHits,
		CacheMisses,
		RowsBuilt,
		SpeciesDropped,
	)
}

func RegisterEndpoint(app *fiber.App) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
