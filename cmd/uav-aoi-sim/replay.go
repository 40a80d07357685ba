package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"uav-aoi-sim/internal/sim"
)

var (
	replayInput string
	replaySpeed float64
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a step log",
	Long:  "replay feeds step rows from a JSONL or msgpack archive log back into GreptimeDB or STDOUT.",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		if replaySpeed < 0 {
			return fmt.Errorf("speed must not be negative, got %g", replaySpeed)
		}
		cfg, err := loadConfig(cmd, true, true)
		if err != nil {
			return err
		}
		writer, cleanup, err := newWriters(cfg, printOnly, useTUI, writerOptions{})
		if err != nil {
			return err
		}
		defer func() { err = errors.Join(err, cleanup()) }()
		return sim.ReplayLogFile(replayInput, writer, replaySpeed)
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to a steps.jsonl or steps.msgpack.zst log")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier (0 replays without delay)")
	replayCmd.MarkFlagRequired("input")
}
