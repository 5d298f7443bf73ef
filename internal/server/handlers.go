package server

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/dexflow/dexflow/internal/analysis"
	"github.com/dexflow/dexflow/pkg/logger"
)

func (s *Server) handleListDatasets(c *fiber.Ctx) error {
	datasets, err := s.storage.ListDatasets()
	if err != nil {
		logger.Error("Failed to list datasets", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list datasets",
		})
	}

	return c.JSON(fiber.Map{
		"datasets": datasets,
	})
}

func (s *Server) handleGetDataset(c *fiber.Ctx) error {
	generation := c.Params("generation")

	rows, err := s.storage.GetDataset(generation)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Dataset not found",
		})
	}

	return c.JSON(fiber.Map{
		"generation": generation,
		"row_count":  len(rows),
		"rows":       rows,
	})
}

func (s *Server) handleTableSummary(c *fiber.Ctx) error {
	table, err := s.storage.LoadTable()
	if err != nil {
		logger.Error("Failed to load table", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load table",
		})
	}

	if table.Len() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No datasets stored yet",
		})
	}

	return c.JSON(fiber.Map{
		"rows":        table.Len(),
		"columns":     table.Columns,
		"null_counts": analysis.NullCounts(table),
		"summaries":   analysis.Summaries(table),
	})
}

func (s *Server) handleListRuns(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)

	runs, err := s.storage.ListRuns(limit)
	if err != nil {
		logger.Error("Failed to list runs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list runs",
		})
	}

	return c.JSON(fiber.Map{
		"runs": runs,
	})
}

func (s *Server) handleGetClusters(c *fiber.Ctx) error {
	runID := c.Params("id")

	assignments, err := s.storage.GetAssignments(runID)
	if err != nil {
		logger.Error("Failed to get assignments", zap.String("run_id", runID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get cluster assignments",
		})
	}

	if len(assignments) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Run not found",
		})
	}

	return c.JSON(fiber.Map{
		"run_id":   runID,
		"clusters": assignments,
	})
}
