package models

import "time"

type GenerationDataset struct {
	Generation string
	RowCount   int
	Payload    string
	FetchedAt  time.Time
}

type AnalysisRun struct {
	ID                string
	Clusters          int
	Seed              int64
	Components        int
	VarianceExplained float64
	RowCount          int
	CreatedAt         time.Time
}

type ClusterAssignment struct {
	RunID   string
	Species string
	Cluster int
	Coords  []float64
}
