package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"uav-aoi-sim/internal/config"
	"uav-aoi-sim/internal/policy"
	"uav-aoi-sim/internal/report"
	"uav-aoi-sim/internal/sim"
	"uav-aoi-sim/internal/telemetry"
)

var (
	expOut      string
	expParallel int
	expArchive  bool

	varySeed bool

	alphaPoints int
	alphaValues []float64

	nodesMin  int
	nodesMax  int
	nodesStep int
)

var comparePoliciesCmd = &cobra.Command{
	Use:   "compare-policies",
	Short: "Compare RR, MAF and AWN in greedy mode",
	Long:  "compare-policies runs every selection policy greedily on the same layout and writes policy_summary.csv.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, true, false)
		if err != nil {
			return err
		}
		saved := *cfg
		saved.Policy = policy.AWN
		return experiment(cmd, &saved, report.PolicyTable, func(s *session) ([]telemetry.RunRow, error) {
			return s.runner.ComparePolicies(cmd.Context(), cfg, sweepOptions())
		})
	},
}

var sweepAlphaCmd = &cobra.Command{
	Use:   "sweep-alpha",
	Short: "Trade AoI against energy by sweeping alpha",
	Long: "sweep-alpha runs AWN greedily for alpha values in [0, 1], deriving beta and gamma " +
		"from each, and writes pareto_results.csv.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, true, true)
		if err != nil {
			return err
		}
		alphas := alphaValues
		if len(alphas) == 0 {
			if alphaPoints < 1 {
				return fmt.Errorf("--points must be positive, got %d", alphaPoints)
			}
			alphas = sim.Linspace(0, 1, alphaPoints)
		}
		saved := *cfg
		saved.Alpha = 0.5
		return experiment(cmd, &saved, report.ParetoTable, func(s *session) ([]telemetry.RunRow, error) {
			return s.runner.SweepAlpha(cmd.Context(), cfg, alphas, sweepOptions())
		})
	},
}

var sweepNodesCmd = &cobra.Command{
	Use:   "sweep-nodes",
	Short: "Sweep the number of sensor nodes",
	Long:  "sweep-nodes flies one mission per node count on a fresh random layout and writes sweep_N.csv.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, false, false)
		if err != nil {
			return err
		}
		nr := sim.NodeRange{Min: nodesMin, Max: nodesMax, Step: nodesStep}
		if _, err := nr.Values(); err != nil {
			return err
		}
		return experiment(cmd, cfg, report.NodesTable, func(s *session) ([]telemetry.RunRow, error) {
			return s.runner.SweepNodes(cmd.Context(), cfg, nr, sweepOptions())
		})
	},
}

// experiment runs fn inside a session writing to --out and saves its report.
func experiment(cmd *cobra.Command, saved *config.Config, table func([]telemetry.RunRow) report.Table, fn func(*session) ([]telemetry.RunRow, error)) (err error) {
	ctx := cmd.Context()
	s, err := newSession(ctx, saved, writerOptions{Dir: expOut, Archive: expArchive})
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, s.Close()) }()

	rows, err := fn(s)
	if err != nil {
		return err
	}
	return saveExperiment(ctx, expOut, saved, table(rows), rows)
}

func sweepOptions() sim.SweepOptions {
	return sim.SweepOptions{Parallel: expParallel, VarySeed: varySeed}
}

func init() {
	for _, c := range []*cobra.Command{comparePoliciesCmd, sweepAlphaCmd, sweepNodesCmd} {
		c.Flags().StringVar(&expOut, "out", "runs", "Output directory for the results")
		c.Flags().IntVar(&expParallel, "parallel", 0, "Runs in flight at once (0 uses every CPU)")
		c.Flags().BoolVar(&expArchive, "archive", false, "Also write a compressed msgpack step archive")
	}
	comparePoliciesCmd.Flags().BoolVar(&varySeed, "vary-seed-per-policy", false, "Give every policy its own layout seed")

	sweepAlphaCmd.Flags().IntVar(&alphaPoints, "points", 5, "Number of alpha values spread over [0, 1]")
	sweepAlphaCmd.Flags().Float64SliceVar(&alphaValues, "alphas", nil, "Explicit alpha values (overrides --points)")

	def := sim.DefaultNodeRange()
	sweepNodesCmd.Flags().IntVar(&nodesMin, "min-n", def.Min, "Smallest node count")
	sweepNodesCmd.Flags().IntVar(&nodesMax, "max-n", def.Max, "Largest node count")
	sweepNodesCmd.Flags().IntVar(&nodesStep, "step", def.Step, "Node count increment")
}
