// Package report writes experiment results as CSV files and spreadsheets.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"uav-aoi-sim/internal/geom"
	"uav-aoi-sim/internal/telemetry"
)

// Table is one experiment result: a named sheet or CSV file.
type Table struct {
	Name   string
	Header []string
	Rows   [][]any
}

// PolicyTable lists one row per policy (policy_summary.csv).
func PolicyTable(runs []telemetry.RunRow) Table {
	t := Table{
		Name:   "policy_summary",
		Header: []string{"policy", "avg_aoi", "total_energy_Wh", "p99_aoi", "successful_contacts", "seed"},
	}
	for _, r := range runs {
		t.Rows = append(t.Rows, []any{r.Policy, r.AvgAoI, r.TotalEnergyWh, r.P99AoI, r.SuccessfulContacts, r.Seed})
	}
	return t
}

// ParetoTable lists the alpha trade-off (pareto_results.csv).
func ParetoTable(runs []telemetry.RunRow) Table {
	t := Table{
		Name:   "pareto_results",
		Header: []string{"alpha", "avg_aoi", "energy_norm", "beta", "gamma"},
	}
	for _, r := range runs {
		t.Rows = append(t.Rows, []any{r.Alpha, r.AvgAoI, r.EnergyNorm(), r.Beta, r.Gamma})
	}
	return t
}

// NodesTable lists the node-count sweep (sweep_N.csv).
func NodesTable(runs []telemetry.RunRow) Table {
	t := Table{
		Name:   "sweep_N",
		Header: []string{"N", "avg_aoi", "total_energy_Wh", "max_aoi"},
	}
	for _, r := range runs {
		t.Rows = append(t.Rows, []any{r.N, r.AvgAoI, r.TotalEnergyWh, r.MaxAoI})
	}
	return t
}

// RunsTable lists every run with its full summary.
func RunsTable(runs []telemetry.RunRow) Table {
	t := Table{
		Name: "runs",
		Header: []string{
			"run_id", "experiment", "policy", "scenario", "N", "seed", "greedy_mode", "alpha", "beta", "gamma",
			"reason", "steps", "final_time_s", "total_energy_Wh", "E_fly_total", "E_hover_total", "E_tx_total",
			"avg_aoi", "max_aoi", "p99_aoi", "energy_per_update_Wh", "successful_contacts", "path_length_m",
		},
	}
	for _, r := range runs {
		t.Rows = append(t.Rows, []any{
			r.RunID, r.Experiment, r.Policy, r.Scenario, r.N, r.Seed, r.Greedy, r.Alpha, r.Beta, r.Gamma,
			r.Reason, r.Steps, r.FinalTimeS, r.TotalEnergyWh, r.EFlyTotal, r.EHoverTotal, r.ETxTotal,
			r.AvgAoI, r.MaxAoI, r.P99AoI, r.EnergyPerUpdateWh, r.SuccessfulContacts, r.PathLengthM,
		})
	}
	return t
}

// PathTable lists the UAV positions of one run in flight order.
func PathTable(name string, path []geom.Point) Table {
	t := Table{Name: name, Header: []string{"order", "x", "y"}}
	for i, p := range path {
		t.Rows = append(t.Rows, []any{i, p.X, p.Y})
	}
	return t
}

// WriteCSV writes t to path.
func WriteCSV(path string, t Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		return err
	}
	for _, row := range t.Rows {
		rec := make([]string, len(row))
		for i, v := range row {
			rec[i] = format(v)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func format(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
