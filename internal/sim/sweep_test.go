package sim

import (
	"context"
	"math"
	"slices"
	"testing"

	"uav-aoi-sim/internal/policy"
)

func TestComparePolicies(t *testing.T) {
	cfg := testConfig()
	cfg.GreedyMode = false
	cw := &collectWriter{}
	r := NewRunner(cw, cw, nil)

	rows, err := r.ComparePolicies(context.Background(), cfg, SweepOptions{Parallel: 2})
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	for i, name := range policy.Names() {
		if rows[i].Policy != name || !rows[i].Greedy || rows[i].Seed != cfg.Seed {
			t.Fatalf("row %d = %+v", i, rows[i])
		}
		if rows[i].Experiment != ExperimentPolicy {
			t.Fatalf("row %d experiment = %s", i, rows[i].Experiment)
		}
	}
	if cfg.GreedyMode || cfg.Policy != policy.MAF {
		t.Fatalf("input config modified: %+v", cfg)
	}
	if len(cw.runs) != 3 {
		t.Fatalf("run writer got %d rows", len(cw.runs))
	}
}

func TestComparePoliciesVarySeed(t *testing.T) {
	cfg := testConfig()
	r := NewRunner(nil, nil, nil)
	rows, err := r.ComparePolicies(context.Background(), cfg, SweepOptions{VarySeed: true})
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	for i, row := range rows {
		if row.Seed != cfg.Seed+int64(i) {
			t.Fatalf("row %d seed = %d", i, row.Seed)
		}
	}
}

func TestSweepAlpha(t *testing.T) {
	cfg := testConfig()
	r := NewRunner(nil, nil, nil)
	rows, err := r.SweepAlpha(context.Background(), cfg, nil, SweepOptions{})
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	w := policy.DefaultWeights()
	for i, row := range rows {
		want := float64(i) * 0.25
		if math.Abs(row.Alpha-want) > 1e-12 || row.Policy != policy.AWN || !row.Greedy {
			t.Fatalf("row %d = %+v", i, row)
		}
		beta, gamma, _ := w.FromAlpha(want)
		if math.Abs(row.Beta-beta) > 1e-12 || math.Abs(row.Gamma-gamma) > 1e-12 {
			t.Fatalf("row %d exponents = (%v, %v), want (%v, %v)", i, row.Beta, row.Gamma, beta, gamma)
		}
		if row.EnergyNorm() <= 0 {
			t.Fatalf("row %d energy norm = %v", i, row.EnergyNorm())
		}
	}
}

func TestSweepAlphaRejectsOutOfRange(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if _, err := r.SweepAlpha(context.Background(), testConfig(), []float64{0.5, 1.5}, SweepOptions{}); err == nil {
		t.Fatalf("expected alpha range error")
	}
}

func TestSweepNodes(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	rows, err := r.SweepNodes(context.Background(), testConfig(), NodeRange{Min: 2, Max: 6, Step: 2}, SweepOptions{})
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	var ns []int
	for _, row := range rows {
		ns = append(ns, row.N)
	}
	if !slices.Equal(ns, []int{2, 4, 6}) {
		t.Fatalf("N values = %v", ns)
	}

	again, err := r.SweepNodes(context.Background(), testConfig(), NodeRange{Min: 2, Max: 6, Step: 2}, SweepOptions{Parallel: 1})
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	for i := range rows {
		if rows[i].AvgAoI != again[i].AvgAoI || rows[i].TotalEnergyWh != again[i].TotalEnergyWh {
			t.Fatalf("sweep is not reproducible at N=%d", rows[i].N)
		}
	}
}

func TestNodeRange(t *testing.T) {
	got, err := DefaultNodeRange().Values()
	if err != nil {
		t.Fatalf("values: %v", err)
	}
	if !slices.Equal(got, []int{10, 20, 30, 40, 50}) {
		t.Fatalf("default range = %v", got)
	}
	for _, bad := range []NodeRange{{0, 10, 1}, {5, 4, 1}, {1, 5, 0}} {
		if _, err := bad.Values(); err == nil {
			t.Fatalf("expected error for %+v", bad)
		}
	}
}

func TestLinspace(t *testing.T) {
	if got := Linspace(0, 1, 5); !slices.Equal(got, []float64{0, 0.25, 0.5, 0.75, 1}) {
		t.Fatalf("linspace = %v", got)
	}
	if got := Linspace(2, 3, 1); !slices.Equal(got, []float64{2}) {
		t.Fatalf("single = %v", got)
	}
	if Linspace(0, 1, 0) != nil {
		t.Fatalf("empty linspace should be nil")
	}
}
