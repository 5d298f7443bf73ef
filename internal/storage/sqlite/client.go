package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/dexflow/dexflow/internal/dataset"
	"github.com/dexflow/dexflow/internal/storage/models"
	"github.com/dexflow/dexflow/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS generation_datasets (
		generation TEXT PRIMARY KEY,
		row_count INTEGER NOT NULL,
		payload TEXT NOT NULL,
		fetched_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS analysis_runs (
		id TEXT PRIMARY KEY,
		clusters INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		components INTEGER NOT NULL,
		variance_explained REAL,
		row_count INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON analysis_runs(created_at);

	CREATE TABLE IF NOT EXISTS cluster_assignments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		species TEXT NOT NULL,
		cluster INTEGER NOT NULL,
		coords TEXT,
		FOREIGN KEY (run_id) REFERENCES analysis_runs(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_assignments_run ON cluster_assignments(run_id);
	`

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

func (c *Client) SaveDataset(generation string, rows []dataset.Record) error {
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}

	query := `
		INSERT INTO generation_datasets (generation, row_count, payload, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(generation) DO UPDATE SET
			row_count = excluded.row_count,
			payload = excluded.payload,
			fetched_at = excluded.fetched_at
	`

	_, err = c.db.Exec(query, generation, len(rows), string(payload), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save dataset: %w", err)
	}

	logger.Debug("Dataset saved", zap.String("generation", generation), zap.Int("rows", len(rows)))
	return nil
}

func (c *Client) GetDataset(generation string) ([]dataset.Record, error) {
	query := `SELECT payload FROM generation_datasets WHERE generation = ?`

	var payload string
	err := c.db.QueryRow(query, generation).Scan(&payload)
	if err != nil {
		return nil, fmt.Errorf("failed to get dataset: %w", err)
	}

	var rows []dataset.Record
	if err := json.Unmarshal([]byte(payload), &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dataset: %w", err)
	}

	return rows, nil
}

func (c *Client) ListDatasets() ([]models.GenerationDataset, error) {
	query := `SELECT generation, row_count, fetched_at FROM generation_datasets ORDER BY generation`

	rows, err := c.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer rows.Close()

	var datasets []models.GenerationDataset
	for rows.Next() {
		var d models.GenerationDataset
		var fetchedAt int64

		err := rows.Scan(&d.Generation, &d.RowCount, &fetchedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		d.FetchedAt = time.Unix(fetchedAt, 0)
		datasets = append(datasets, d)
	}

	return datasets, nil
}

// LoadTable concatenates every stored generation into one table.
func (c *Client) LoadTable() (*dataset.Table, error) {
	query := `SELECT payload FROM generation_datasets ORDER BY generation`

	rows, err := c.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to load datasets: %w", err)
	}
	defer rows.Close()

	table := dataset.New()
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		var records []dataset.Record
		if err := json.Unmarshal([]byte(payload), &records); err != nil {
			return nil, fmt.Errorf("failed to unmarshal dataset: %w", err)
		}

		for _, r := range records {
			table.Append(r)
		}
	}

	return table, nil
}

func (c *Client) SaveRun(run *models.AnalysisRun) error {
	query := `
		INSERT INTO analysis_runs (id, clusters, seed, components, variance_explained, row_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := c.db.Exec(
		query,
		run.ID,
		run.Clusters,
		run.Seed,
		run.Components,
		run.VarianceExplained,
		run.RowCount,
		run.CreatedAt.Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to save analysis run: %w", err)
	}

	logger.Info("Analysis run recorded",
		zap.String("run_id", run.ID),
		zap.Int("clusters", run.Clusters),
		zap.Float64("variance_explained", run.VarianceExplained),
	)

	return nil
}

func (c *Client) SaveAssignments(runID string, assignments []models.ClusterAssignment) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO cluster_assignments (run_id, species, cluster, coords) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, a := range assignments {
		coordsJSON, _ := json.Marshal(a.Coords)
		if _, err := stmt.Exec(runID, a.Species, a.Cluster, string(coordsJSON)); err != nil {
			return fmt.Errorf("failed to insert assignment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit assignments: %w", err)
	}

	logger.Debug("Cluster assignments saved", zap.String("run_id", runID), zap.Int("count", len(assignments)))
	return nil
}

func (c *Client) GetAssignments(runID string) ([]models.ClusterAssignment, error) {
	query := `SELECT species, cluster, coords FROM cluster_assignments WHERE run_id = ? ORDER BY cluster, species`

	rows, err := c.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}
	defer rows.Close()

	var assignments []models.ClusterAssignment
	for rows.Next() {
		var a models.ClusterAssignment
		var coordsJSON string

		err := rows.Scan(&a.Species, &a.Cluster, &coordsJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		a.RunID = runID
		json.Unmarshal([]byte(coordsJSON), &a.Coords)
		assignments = append(assignments, a)
	}

	return assignments, nil
}

func (c *Client) ListRuns(limit int) ([]models.AnalysisRun, error) {
	query := `
		SELECT id, clusters, seed, components, variance_explained, row_count, created_at
		FROM analysis_runs
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := c.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []models.AnalysisRun
	for rows.Next() {
		var r models.AnalysisRun
		var createdAt int64

		err := rows.Scan(&r.ID, &r.Clusters, &r.Seed, &r.Components, &r.VarianceExplained, &r.RowCount, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		r.CreatedAt = time.Unix(createdAt, 0)
		runs = append(runs, r)
	}

	return runs, nil
}
