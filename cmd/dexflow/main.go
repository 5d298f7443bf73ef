package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dexflow/dexflow/internal/analysis"
	"github.com/dexflow/dexflow/internal/cache"
	"github.com/dexflow/dexflow/internal/pipeline"
	"github.com/dexflow/dexflow/internal/plot"
	"github.com/dexflow/dexflow/internal/pokeapi"
	"github.com/dexflow/dexflow/internal/server"
	"github.com/dexflow/dexflow/internal/storage/models"
	"github.com/dexflow/dexflow/internal/storage/sqlite"
	"github.com/dexflow/dexflow/pkg/config"
	appLogger "github.com/dexflow/dexflow/pkg/logger"
)

var cfg *config.Config

func main() {
	root := &cobra.Command{
		Use:          "dexflow",
		Short:        "Fetch species data, flatten it into a table, and cluster it",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
	}

	root.AddCommand(fetchCmd(), analyzeCmd(), exportCmd(), serveCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func fetchCmd() *cobra.Command {
	var generations []int

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Build the per-generation datasets (cache-gated) and store them",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer appLogger.Sync()

			if len(generations) == 0 {
				generations = cfg.Dataset.Generations
			}

			storage, err := openStorage()
			if err != nil {
				return err
			}
			defer storage.Close()

			store, closeStore, err := newStore()
			if err != nil {
				return err
			}
			defer closeStore()

			builder := pipeline.NewBuilder(newClient(), store)

			ctx := cmd.Context()
			total := 0
			for _, g := range generations {
				id := strconv.Itoa(g)
				rows, err := builder.BuildGeneration(ctx, id)
				if err != nil {
					appLogger.Warn("Skipping generation", zap.String("generation", id), zap.Error(err))
					continue
				}
				if err := storage.SaveDataset(id, rows); err != nil {
					return err
				}
				total += len(rows)
			}

			appLogger.Info("Fetch complete",
				zap.Ints("generations", generations),
				zap.Int("rows", total),
			)
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&generations, "generations", nil, "generation ids to fetch (default from config)")

	return cmd
}

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Encode the stored table, run PCA and k-means, write plots",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer appLogger.Sync()

			storage, err := openStorage()
			if err != nil {
				return err
			}
			defer storage.Close()

			table, err := storage.LoadTable()
			if err != nil {
				return err
			}
			if table.Len() == 0 {
				return fmt.Errorf("no stored datasets; run fetch first")
			}

			ctx := cmd.Context()
			builder := pipeline.NewBuilder(newClient(), nil)
			vocab := builder.Vocabulary(ctx)

			matrix, err := analysis.Encode(table, "name", vocab)
			if err != nil {
				return err
			}
			matrix = matrix.FilterNearZeroVariance(cfg.Analysis.VarianceMin)
			matrix.Scale()

			projection, err := analysis.PCA(matrix, cfg.Analysis.Components)
			if err != nil {
				return err
			}

			assignments, err := analysis.Cluster(projection, cfg.Analysis.Clusters, cfg.Analysis.Seed)
			if err != nil {
				return err
			}

			if err := plot.WriteCluster2D(filepath.Join(cfg.Plots.Dir, "clusters_2d.html"), assignments); err != nil {
				return err
			}
			if projection.Components >= 3 {
				if err := plot.WriteCluster3D(filepath.Join(cfg.Plots.Dir, "clusters_3d.html"), assignments); err != nil {
					return err
				}
			}

			run := &models.AnalysisRun{
				ID:                uuid.NewString(),
				Clusters:          cfg.Analysis.Clusters,
				Seed:              cfg.Analysis.Seed,
				Components:        projection.Components,
				VarianceExplained: projection.TotalVarianceExplained(),
				RowCount:          table.Len(),
				CreatedAt:         time.Now(),
			}
			if err := storage.SaveRun(run); err != nil {
				return err
			}

			stored := make([]models.ClusterAssignment, len(assignments))
			for i, a := range assignments {
				stored[i] = models.ClusterAssignment{
					RunID:   run.ID,
					Species: a.Species,
					Cluster: a.Cluster,
					Coords:  a.Coords,
				}
			}
			if err := storage.SaveAssignments(run.ID, stored); err != nil {
				return err
			}

			appLogger.Info("Analysis complete",
				zap.String("run_id", run.ID),
				zap.Int("rows", table.Len()),
				zap.Int("matrix_columns", len(matrix.Columns)),
				zap.Float64("variance_explained", run.VarianceExplained),
			)
			return nil
		},
	}

	return cmd
}

func exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the combined table as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer appLogger.Sync()

			storage, err := openStorage()
			if err != nil {
				return err
			}
			defer storage.Close()

			table, err := storage.LoadTable()
			if err != nil {
				return err
			}
			if table.Len() == 0 {
				return fmt.Errorf("no stored datasets; run fetch first")
			}

			if out == "" {
				out = cfg.Dataset.ExportPath
			}
			if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
				return fmt.Errorf("failed to create export directory: %w", err)
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create export file: %w", err)
			}
			defer f.Close()

			if err := table.WriteCSV(f); err != nil {
				return err
			}

			appLogger.Info("Dataset exported",
				zap.String("path", out),
				zap.Int("rows", table.Len()),
				zap.Int("columns", len(table.Columns)),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output CSV path (default from config)")

	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dataset, analysis runs and plots over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer appLogger.Sync()

			storage, err := openStorage()
			if err != nil {
				return err
			}
			defer storage.Close()

			srv := server.New(cfg, storage)

			addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
			appLogger.Info("Server starting", zap.String("address", addr))

			go func() {
				if err := srv.Listen(addr); err != nil {
					appLogger.Fatal("Server failed to start", zap.Error(err))
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
			<-quit

			appLogger.Info("Server shutting down gracefully...")
			srv.Shutdown()
			appLogger.Info("Server stopped")
			return nil
		},
	}
}

func newClient() *pokeapi.Client {
	return pokeapi.NewClient(
		cfg.PokeAPI.BaseURL,
		time.Duration(cfg.PokeAPI.TimeoutSec)*time.Second,
		cfg.PokeAPI.ListLimit,
	)
}

func newStore() (cache.Store, func(), error) {
	switch cfg.Cache.Backend {
	case "redis":
		store, err := cache.NewRedis(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			time.Duration(cfg.Cache.TTLSec)*time.Second,
		)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	default:
		store, err := cache.NewDisk(cfg.Cache.Dir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}

func openStorage() (*sqlite.Client, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.SQLite.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	storage, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		return nil, err
	}
	if err := storage.InitSchema(); err != nil {
		storage.Close()
		return nil, err
	}
	return storage, nil
}
