package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"uav-aoi-sim/internal/metrics"
	"uav-aoi-sim/internal/sim"
	"uav-aoi-sim/internal/telemetry"
)

var summarizeInput string

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Print the metrics of a step log",
	Long:  "summarize reads log.csv, a JSONL step log or an archive and prints the metrics of every run in it.",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := loadSteps(summarizeInput)
		if err != nil {
			return err
		}
		return printSummaries(cmd.OutOrStdout(), rows)
	},
}

func init() {
	summarizeCmd.Flags().StringVar(&summarizeInput, "input", "", "Path to log.csv, steps.jsonl or steps.msgpack.zst")
	summarizeCmd.MarkFlagRequired("input")
}

func loadSteps(path string) ([]telemetry.StepRow, error) {
	if strings.HasSuffix(path, ".csv") {
		return metrics.ReadCSV(path)
	}
	return sim.LoadLogFile(path)
}

// run is the rows of one run, in log order.
type run struct {
	id, policy string
	rows       []telemetry.StepRow
}

// groupRuns splits rows by run ID, keeping the order runs first appear in.
func groupRuns(rows []telemetry.StepRow) []*run {
	var out []*run
	byID := map[string]*run{}
	for _, r := range rows {
		g, ok := byID[r.RunID]
		if !ok {
			g = &run{id: r.RunID, policy: r.Policy}
			byID[r.RunID] = g
			out = append(out, g)
		}
		g.rows = append(g.rows, r)
	}
	return out
}

func printSummaries(w io.Writer, rows []telemetry.StepRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "no steps")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tPOLICY\tSTEPS\tAVG_AOI\tMAX_AOI\tP99_AOI\tENERGY_WH\tWH/UPDATE\tCONTACTS")
	for _, g := range groupRuns(rows) {
		s := metrics.Summarize(g.rows)
		id := g.id
		if id == "" {
			id = "-"
		} else if len(id) > 8 {
			id = id[:8]
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\t%.2f\t%.2f\t%.3f\t%.4f\t%d\n",
			id, g.policy, s.Steps, s.AvgAoI, s.MaxAoI, s.P99AoI, s.TotalEnergyWh, s.EnergyPerUpdateWh, s.SuccessfulContacts)
	}
	return tw.Flush()
}
