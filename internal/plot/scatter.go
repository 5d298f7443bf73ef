package plot

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"go.uber.org/zap"

	"github.com/dexflow/dexflow/internal/analysis"
	"github.com/dexflow/dexflow/pkg/logger"
)

// WriteCluster2D renders the PC1/PC2 scatter, one series per cluster, as
// a standalone interactive HTML document.
func WriteCluster2D(path string, assignments []analysis.Assignment) error {
	if err := requireDims(assignments, 2); err != nil {
		return err
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Species clusters (PC1 / PC2)"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "PC1", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "PC2", Type: "value"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithInitializationOpts(opts.Initialization{Width: "960px", Height: "640px"}),
	)

	for _, cluster := range clusterIDs(assignments) {
		var points []opts.ScatterData
		for _, a := range assignments {
			if a.Cluster != cluster {
				continue
			}
			points = append(points, opts.ScatterData{
				Name:       a.Species,
				Value:      []interface{}{a.Coords[0], a.Coords[1]},
				SymbolSize: 8,
			})
		}
		scatter.AddSeries(fmt.Sprintf("cluster %d", cluster), points)
	}

	return render(path, scatter.Render)
}

// WriteCluster3D renders the PC1/PC2/PC3 scatter as a standalone
// interactive HTML document.
func WriteCluster3D(path string, assignments []analysis.Assignment) error {
	if err := requireDims(assignments, 3); err != nil {
		return err
	}

	scatter := charts.NewScatter3D()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Species clusters (PC1 / PC2 / PC3)"}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "PC1", Type: "value"}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "PC2", Type: "value"}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "PC3", Type: "value"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithInitializationOpts(opts.Initialization{Width: "960px", Height: "640px"}),
	)

	for _, cluster := range clusterIDs(assignments) {
		var points []opts.Chart3DData
		for _, a := range assignments {
			if a.Cluster != cluster {
				continue
			}
			points = append(points, opts.Chart3DData{
				Name:  a.Species,
				Value: []interface{}{a.Coords[0], a.Coords[1], a.Coords[2]},
			})
		}
		scatter.AddSeries(fmt.Sprintf("cluster %d", cluster), points)
	}

	return render(path, scatter.Render)
}

func render(path string, renderFn func(w io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create plots directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create plot file: %w", err)
	}
	defer f.Close()

	if err := renderFn(f); err != nil {
		return fmt.Errorf("failed to render plot: %w", err)
	}

	logger.Info("Plot written", zap.String("path", path))
	return nil
}

func clusterIDs(assignments []analysis.Assignment) []int {
	seen := make(map[int]bool)
	var ids []int
	for _, a := range assignments {
		if !seen[a.Cluster] {
			seen[a.Cluster] = true
			ids = append(ids, a.Cluster)
		}
	}
	sort.Ints(ids)
	return ids
}

func requireDims(assignments []analysis.Assignment, dims int) error {
	if len(assignments) == 0 {
		return fmt.Errorf("no cluster assignments to plot")
	}
	if len(assignments[0].Coords) < dims {
		return fmt.Errorf("need %d projected components, got %d", dims, len(assignments[0].Coords))
	}
	return nil
}
