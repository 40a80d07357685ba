package route

import (
	"math/rand/v2"
	"slices"
	"testing"

	"uav-aoi-sim/internal/geom"
)

var square = []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}

func TestTwoOptUncrossesSquare(t *testing.T) {
	in := []int{0, 2, 1, 3}
	res := TwoOpt(in, square, 0)
	if !slices.Equal(res.Order, []int{0, 1, 2, 3}) {
		t.Fatalf("order = %v, want [0 1 2 3]", res.Order)
	}
	if !res.Improved {
		t.Fatalf("expected improvement")
	}
	if !slices.Equal(in, []int{0, 2, 1, 3}) {
		t.Fatalf("input mutated: %v", in)
	}
	if got := Length(res.Order, square); got != 3 {
		t.Fatalf("length = %v, want 3", got)
	}
}

func TestTwoOptStableTourUnchanged(t *testing.T) {
	in := []int{0, 1, 2, 3}
	res := TwoOpt(in, square, 10)
	if !slices.Equal(res.Order, in) || res.Improved {
		t.Fatalf("stable tour changed: %+v", res)
	}
	if res.Passes != 1 {
		t.Fatalf("passes = %d, want 1", res.Passes)
	}
}

func TestTwoOptNeverWorsens(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for trial := 0; trial < 20; trial++ {
		pts := make([]geom.Point, 12)
		for i := range pts {
			pts[i] = geom.Point{X: rng.Float64() * 500, Y: rng.Float64() * 500}
		}
		order := rng.Perm(len(pts))
		res := TwoOpt(order, pts, 0)
		if Length(res.Order, pts) > Length(order, pts)+1e-9 {
			t.Fatalf("trial %d: 2-opt made the tour longer", trial)
		}
		got := slices.Clone(res.Order)
		slices.Sort(got)
		for i, v := range got {
			if v != i {
				t.Fatalf("trial %d: result is not a permutation: %v", trial, res.Order)
			}
		}
	}
}

func TestTwoOptPassCap(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	pts := make([]geom.Point, 30)
	for i := range pts {
		pts[i] = geom.Point{X: rng.Float64() * 1000, Y: rng.Float64() * 1000}
	}
	res := TwoOpt(rng.Perm(len(pts)), pts, 1)
	if res.Passes != 1 {
		t.Fatalf("passes = %d, want 1", res.Passes)
	}
}

func TestNearestNeighbor(t *testing.T) {
	pts := []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 1, Y: 0}, {X: 5, Y: 0}}
	order, err := NearestNeighbor(pts, 0)
	if err != nil {
		t.Fatalf("NearestNeighbor: %v", err)
	}
	if !slices.Equal(order, []int{0, 2, 3, 1}) {
		t.Fatalf("order = %v", order)
	}
	if _, err := NearestNeighbor(nil, 0); err == nil {
		t.Fatalf("expected error for empty input")
	}
	if _, err := NearestNeighbor(pts, 4); err == nil {
		t.Fatalf("expected error for bad seed")
	}
}

func TestPlanSingleNode(t *testing.T) {
	res, err := Plan([]geom.Point{{X: 3, Y: 4}}, 0, 0)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if !slices.Equal(res.Order, []int{0}) {
		t.Fatalf("order = %v", res.Order)
	}
}
