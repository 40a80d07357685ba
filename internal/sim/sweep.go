package sim

import (
	"context"
	"runtime"

	"github.com/brunoga/deep"
	"golang.org/x/sync/errgroup"

	"uav-aoi-sim/internal/config"
	"uav-aoi-sim/internal/guard"
	"uav-aoi-sim/internal/policy"
	"uav-aoi-sim/internal/scenario"
	"uav-aoi-sim/internal/telemetry"
)

// Experiment names used in run rows and reports.
const (
	ExperimentRun     = "run"
	ExperimentPolicy  = "compare_policies"
	ExperimentAlpha   = "sweep_alpha"
	ExperimentNodes   = "sweep_nodes"
	defaultAlphaSteps = 5
)

// SweepOptions controls how the runs of an experiment are scheduled.
type SweepOptions struct {
	// Parallel bounds concurrent runs; zero uses GOMAXPROCS.
	Parallel int
	// VarySeed gives every policy of ComparePolicies its own layout seed.
	VarySeed bool
}

func (o SweepOptions) limit() int {
	if o.Parallel > 0 {
		return o.Parallel
	}
	return runtime.GOMAXPROCS(0)
}

// NodeRange is the N grid of SweepNodes, inclusive of Max.
type NodeRange struct {
	Min, Max, Step int
}

// DefaultNodeRange is 10, 20, ..., 50.
func DefaultNodeRange() NodeRange { return NodeRange{Min: 10, Max: 50, Step: 10} }

// Values expands the range.
func (r NodeRange) Values() ([]int, error) {
	if r.Min < 1 || r.Step < 1 || r.Max < r.Min {
		return nil, guard.Invalid("nodes", "bad range min=%d max=%d step=%d", r.Min, r.Max, r.Step)
	}
	var out []int
	for n := r.Min; n <= r.Max; n += r.Step {
		out = append(out, n)
	}
	return out, nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

// ScenarioFor resolves the node layout a configuration asks for.
func ScenarioFor(cfg *config.Config) (*scenario.Scenario, error) {
	return scenario.Resolve(cfg.Scenario, cfg.N, cfg.FieldSize[0], cfg.FieldSize[1], cfg.Seed)
}

// ComparePolicies runs RR, MAF and AWN in greedy mode over the same layout,
// or over one layout per policy when VarySeed is set.
func (r *Runner) ComparePolicies(ctx context.Context, cfg *config.Config, opts SweepOptions) ([]telemetry.RunRow, error) {
	base, err := ScenarioFor(cfg)
	if err != nil {
		return nil, err
	}
	var specs []RunSpec
	for i, name := range policy.Names() {
		c := deep.MustCopy(cfg)
		c.Policy = name
		c.GreedyMode = true
		sc := base
		if opts.VarySeed && i > 0 {
			c.Seed = (cfg.Seed + int64(i)) % config.MaxSeed
			if sc, err = ScenarioFor(c); err != nil {
				return nil, err
			}
		}
		specs = append(specs, RunSpec{Experiment: ExperimentPolicy, Config: c, Scenario: sc})
	}
	return r.runAll(ctx, specs, opts)
}

// SweepAlpha runs AWN in greedy mode for every alpha, deriving the
// exponents from it. Nil alphas use five points over [0, 1].
func (r *Runner) SweepAlpha(ctx context.Context, cfg *config.Config, alphas []float64, opts SweepOptions) ([]telemetry.RunRow, error) {
	if alphas == nil {
		alphas = Linspace(0, 1, defaultAlphaSteps)
	}
	sc, err := ScenarioFor(cfg)
	if err != nil {
		return nil, err
	}
	specs := make([]RunSpec, 0, len(alphas))
	for _, a := range alphas {
		if err := guard.InRange("alpha", a, 0, 1); err != nil {
			return nil, err
		}
		c := deep.MustCopy(cfg)
		c.Policy = policy.AWN
		c.GreedyMode = true
		c.Alpha = a
		c.AWN.FromAlpha = true
		specs = append(specs, RunSpec{Experiment: ExperimentAlpha, Config: c, Scenario: sc})
	}
	return r.runAll(ctx, specs, opts)
}

// SweepNodes runs the configured policy for every N in rng. Layouts are
// drawn in order from one stream seeded by the config seed.
func (r *Runner) SweepNodes(ctx context.Context, cfg *config.Config, rng NodeRange, opts SweepOptions) ([]telemetry.RunRow, error) {
	ns, err := rng.Values()
	if err != nil {
		return nil, err
	}
	stream := scenario.NewRand(cfg.Seed)
	specs := make([]RunSpec, 0, len(ns))
	for _, n := range ns {
		c := deep.MustCopy(cfg)
		c.N = n
		c.Scenario = ""
		sc := scenario.Random(stream, n, cfg.FieldSize[0], cfg.FieldSize[1])
		specs = append(specs, RunSpec{Experiment: ExperimentNodes, Config: c, Scenario: sc})
	}
	return r.runAll(ctx, specs, opts)
}

// runAll executes specs concurrently and returns their rows in spec order.
func (r *Runner) runAll(ctx context.Context, specs []RunSpec, opts SweepOptions) ([]telemetry.RunRow, error) {
	rows := make([]telemetry.RunRow, len(specs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.limit())
	for i, spec := range specs {
		g.Go(func() error {
			out, err := r.Run(gctx, spec)
			if err != nil {
				return err
			}
			rows[i] = out.Row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}
