// Package route builds fixed visiting orders: a nearest-neighbor seed tour
// refined with 2-opt.
package route

import (
	"math"
	"slices"

	"uav-aoi-sim/internal/geom"
	"uav-aoi-sim/internal/guard"
)

// DefaultPasses caps 2-opt when the caller passes zero.
const DefaultPasses = 100

const improvementEps = 1e-9

// Result is the outcome of a 2-opt run.
type Result struct {
	Order    []int
	Passes   int
	Improved bool
}

// Length returns the open-path length of order over points.
func Length(order []int, points []geom.Point) float64 {
	total := 0.0
	for i := 1; i < len(order); i++ {
		total += geom.Dist(points[order[i-1]], points[order[i]])
	}
	return total
}

// NearestNeighbor builds a tour starting at seed that always moves to the
// closest unvisited point.
func NearestNeighbor(points []geom.Point, seed int) ([]int, error) {
	n := len(points)
	if n == 0 {
		return nil, guard.Invalid("points", "must not be empty")
	}
	if seed < 0 || seed >= n {
		return nil, guard.Invalid("seed", "%d out of range [0, %d)", seed, n)
	}
	visited := make([]bool, n)
	order := make([]int, 0, n)
	cur := seed
	visited[cur] = true
	order = append(order, cur)
	for len(order) < n {
		next := -1
		best := math.Inf(1)
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			if d := geom.Dist(points[cur], points[j]); d < best {
				next, best = j, d
			}
		}
		visited[next] = true
		order = append(order, next)
		cur = next
	}
	return order, nil
}

// TwoOpt improves an open path by reversing segments while that shortens it.
// order is not modified.
func TwoOpt(order []int, points []geom.Point, maxPasses int) Result {
	if maxPasses <= 0 {
		maxPasses = DefaultPasses
	}
	tour := slices.Clone(order)
	res := Result{Order: tour}
	n := len(tour)
	if n < 4 {
		return res
	}
	dist := func(a, b int) float64 { return geom.Dist(points[tour[a]], points[tour[b]]) }

	for res.Passes < maxPasses {
		res.Passes++
		changed := false
		for i := 0; i < n-3; i++ {
			for j := i + 2; j < n-1; j++ {
				before := dist(i, i+1) + dist(j, j+1)
				after := dist(i, j) + dist(i+1, j+1)
				if before-after > improvementEps {
					slices.Reverse(tour[i+1 : j+1])
					changed = true
				}
			}
		}
		if !changed {
			break
		}
		res.Improved = true
	}
	return res
}

// Plan returns a nearest-neighbor tour from seed refined by 2-opt.
func Plan(points []geom.Point, seed, maxPasses int) (Result, error) {
	nn, err := NearestNeighbor(points, seed)
	if err != nil {
		return Result{}, err
	}
	return TwoOpt(nn, points, maxPasses), nil
}
