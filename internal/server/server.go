package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/dexflow/dexflow/internal/metrics"
	"github.com/dexflow/dexflow/internal/storage/sqlite"
	"github.com/dexflow/dexflow/pkg/config"
)

// Server exposes the built dataset, analysis runs and plots over HTTP for
// browsing; it performs no fetching itself.
type Server struct {
	app     *fiber.App
	storage *sqlite.Client
}

func New(cfg *config.Config, storage *sqlite.Client) *Server {
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, OPTIONS",
	}))

	s := &Server{
		app:     app,
		storage: storage,
	}

	api := app.Group("/api/v1")

	api.Get("/datasets", s.handleListDatasets)
	api.Get("/datasets/:generation", s.handleGetDataset)
	api.Get("/table/summary", s.handleTableSummary)
	api.Get("/runs", s.handleListRuns)
	api.Get("/runs/:id/clusters", s.handleGetClusters)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	metrics.RegisterEndpoint(app)
	app.Static("/plots", cfg.Plots.Dir)

	return s
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
