package main

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"uav-aoi-sim/internal/config"
	"uav-aoi-sim/internal/logging"
	"uav-aoi-sim/internal/report"
	"uav-aoi-sim/internal/sim"
)

var (
	runOut     string
	runArchive bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fly a single mission",
	Long: "run flies one mission and writes log.csv, the JSONL step and run logs, the flown " +
		"route and resolved_config.yaml to a timestamped directory under --out.",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()
		cfg, err := loadConfig(cmd, false, false)
		if err != nil {
			return err
		}
		sc, err := sim.ScenarioFor(cfg)
		if err != nil {
			return err
		}
		dir := filepath.Join(runOut, stamp(time.Now()))
		s, err := newSession(ctx, cfg, writerOptions{Dir: dir, CSV: true, Archive: runArchive})
		if err != nil {
			return err
		}
		defer func() { err = errors.Join(err, s.Close()) }()

		out, err := s.runner.Run(ctx, sim.RunSpec{Experiment: sim.ExperimentRun, Config: cfg, Scenario: sc})
		if out == nil {
			return err
		}
		err = errors.Join(err,
			report.WriteCSV(filepath.Join(dir, "route.csv"), report.PathTable("route", out.Result.Path)),
			report.WriteCSV(filepath.Join(dir, "nodes.csv"), report.PathTable("nodes", sc.Nodes)),
			config.Save(filepath.Join(dir, "resolved_config.yaml"), cfg),
		)
		logging.FromContext(ctx).Info("results saved", "dir", dir,
			"avg_aoi", out.Row.AvgAoI, "total_energy_wh", out.Row.TotalEnergyWh, "reason", out.Row.Reason)
		return err
	},
}

func init() {
	runCmd.Flags().StringVar(&runOut, "out", "runs", "Parent directory of the run directory")
	runCmd.Flags().BoolVar(&runArchive, "archive", false, "Also write a compressed msgpack step archive")
}
