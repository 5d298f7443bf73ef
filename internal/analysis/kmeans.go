package analysis

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

type Assignment struct {
	Species string    `json:"species"`
	Cluster int       `json:"cluster"`
	Coords  []float64 `json:"coords"`
}

const maxIterations = 100

// Cluster partitions the projected rows into k groups with Lloyd's
// algorithm. Centroids are seeded k-means++ style from a dedicated rand
// source so a given seed always reproduces the same partition.
func Cluster(p *Projection, k int, seed int64) ([]Assignment, error) {
	rows, dims := p.Scores.Dims()
	if k < 1 {
		return nil, fmt.Errorf("need at least 1 cluster, got %d", k)
	}
	if rows < k {
		return nil, fmt.Errorf("cannot split %d rows into %d clusters", rows, k)
	}

	points := make([][]float64, rows)
	for i := range points {
		points[i] = make([]float64, dims)
		mat.Row(points[i], i, p.Scores)
	}

	rng := rand.New(rand.NewSource(seed))
	centroids := seedCentroids(points, k, rng)

	assign := make([]int, rows)
	for i := range assign {
		assign[i] = -1
	}

	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, pt := range points {
			best := nearest(centroids, pt)
			if best != assign[i] {
				assign[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}

		counts := make([]int, k)
		sums := make([][]float64, k)
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, pt := range points {
			c := assign[i]
			counts[c]++
			floats.Add(sums[c], pt)
		}
		for c := range centroids {
			if counts[c] == 0 {
				// empty cluster keeps its previous centroid
				continue
			}
			for d := range sums[c] {
				centroids[c][d] = sums[c][d] / float64(counts[c])
			}
		}
	}

	assignments := make([]Assignment, rows)
	for i, pt := range points {
		assignments[i] = Assignment{
			Species: p.RowLabels[i],
			Cluster: assign[i],
			Coords:  pt,
		}
	}

	return assignments, nil
}

func seedCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clonePoint(points[rng.Intn(len(points))]))

	for len(centroids) < k {
		weights := make([]float64, len(points))
		total := 0.0
		for i, pt := range points {
			d := distanceToNearest(centroids, pt)
			weights[i] = d * d
			total += weights[i]
		}

		if total == 0 {
			centroids = append(centroids, clonePoint(points[rng.Intn(len(points))]))
			continue
		}

		target := rng.Float64() * total
		for i, w := range weights {
			target -= w
			if target <= 0 || i == len(points)-1 {
				centroids = append(centroids, clonePoint(points[i]))
				break
			}
		}
	}

	return centroids
}

func nearest(centroids [][]float64, pt []float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := floats.Distance(pt, centroid, 2); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}

func distanceToNearest(centroids [][]float64, pt []float64) float64 {
	min := math.Inf(1)
	for _, centroid := range centroids {
		if d := floats.Distance(pt, centroid, 2); d < min {
			min = d
		}
	}
	return min
}

func clonePoint(pt []float64) []float64 {
	c := make([]float64, len(pt))
	copy(c, pt)
	return c
}
