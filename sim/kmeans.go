package sim

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

const (
	// kmeansMaxIterations caps Lloyd's algorithm when it does not converge.
	kmeansMaxIterations = 100

	// kmeansConvergenceEps stops iteration once no centroid moved further
	// than this distance (meters) in one update.
	kmeansConvergenceEps = 1e-4
)

// KMeans partitions 2D points into a fixed number of groups with Lloyd's
// algorithm. It holds no state between Fit calls beyond the last result;
// protocols re-fit from scratch every round.
type KMeans struct {
	nClusters int
	centroids []Position
	clusters  []int
}

// NewKMeans creates an unfitted KMeans for nClusters groups.
func NewKMeans(nClusters int) *KMeans {
	return &KMeans{nClusters: nClusters}
}

// Centroids returns the centroid positions of the last Fit.
func (k *KMeans) Centroids() []Position {
	return k.centroids
}

// Clusters returns the per-point cluster assignment of the last Fit, parallel
// to the input point slice.
func (k *KMeans) Clusters() []int {
	return k.clusters
}

// Fit clusters the given points. Precondition: 0 < nClusters <= len(points);
// the caller clamps before invoking.
//
// Initial centroids are nClusters distinct points sampled uniformly without
// replacement from the input. Each iteration assigns every point to its
// nearest centroid (ties keep the lowest centroid index) and recomputes each
// centroid as the mean of its assigned points; a centroid that owns no points
// is left where it is. Iteration stops at kmeansMaxIterations or as soon as
// the largest centroid displacement drops below kmeansConvergenceEps.
func (k *KMeans) Fit(points []Position, rng *rand.Rand) {
	k.centroids = make([]Position, k.nClusters)
	for i, idx := range rng.Perm(len(points))[:k.nClusters] {
		k.centroids[i] = points[idx]
	}
	k.clusters = make([]int, len(points))

	shifts := make([]float64, k.nClusters)
	for iter := 0; iter < kmeansMaxIterations; iter++ {
		// Assignment step: nearest centroid, first minimum wins.
		for i, p := range points {
			minDist := math.Inf(1)
			for c, centroid := range k.centroids {
				if d := p.DistanceTo(centroid); d < minDist {
					minDist = d
					k.clusters[i] = c
				}
			}
		}

		// Update step: mean position per cluster, empty clusters held.
		previous := k.updateCentroids(points)

		for c := range k.centroids {
			shifts[c] = previous[c].DistanceTo(k.centroids[c])
		}
		if floats.Max(shifts) < kmeansConvergenceEps {
			break
		}
	}
}

// updateCentroids recomputes each centroid as the mean of its assigned points
// and returns the previous centroid positions for the convergence check.
func (k *KMeans) updateCentroids(points []Position) []Position {
	previous := make([]Position, k.nClusters)
	copy(previous, k.centroids)

	sumX := make([]float64, k.nClusters)
	sumY := make([]float64, k.nClusters)
	counts := make([]float64, k.nClusters)
	for i, c := range k.clusters {
		sumX[c] += points[i].X
		sumY[c] += points[i].Y
		counts[c]++
	}

	for c := range k.centroids {
		if counts[c] > 0 {
			k.centroids[c] = Position{X: sumX[c] / counts[c], Y: sumY[c] / counts[c]}
		}
	}
	return previous
}
