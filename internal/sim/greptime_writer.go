package sim

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"uav-aoi-sim/internal/telemetry"
)

const defaultGreptimePort = 4001

type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes mission steps and run summaries to GreptimeDB via
// the ingester client.
type GreptimeDBWriter struct {
	client    greptimeClient
	stepTable string
	runTable  string
	timeout   time.Duration
}

// NewGreptimeDBWriter connects to endpoint ("host" or "host:port"). Empty
// table names fall back to the telemetry defaults.
func NewGreptimeDBWriter(endpoint, database, stepTable, runTable string) (*GreptimeDBWriter, error) {
	host, port, err := splitEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	cfg := greptime.NewConfig(host).WithPort(port).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("greptime client: %w", err)
	}
	if stepTable == "" {
		stepTable = telemetry.StepTableName
	}
	if runTable == "" {
		runTable = telemetry.RunTableName
	}
	return &GreptimeDBWriter{client: client, stepTable: stepTable, runTable: runTable, timeout: 10 * time.Second}, nil
}

func splitEndpoint(endpoint string) (string, int, error) {
	host, p, err := net.SplitHostPort(endpoint)
	if err != nil {
		// no port
		return endpoint, defaultGreptimePort, nil
	}
	port, err := strconv.Atoi(p)
	if err != nil {
		return "", 0, fmt.Errorf("greptime endpoint %q: bad port: %w", endpoint, err)
	}
	return host, port, nil
}

// Write inserts a single step row.
func (w *GreptimeDBWriter) Write(row telemetry.StepRow) error {
	return w.WriteBatch([]telemetry.StepRow{row})
}

// WriteBatch inserts multiple step rows.
func (w *GreptimeDBWriter) WriteBatch(rows []telemetry.StepRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.stepTable)
	if err != nil {
		return err
	}
	columns := []struct {
		name string
		tag  bool
		typ  types.ColumnType
	}{
		{"run_id", true, types.STRING},
		{"policy", true, types.STRING},
		{"step", false, types.INT64},
		{"time_s", false, types.FLOAT64},
		{"energy_wh", false, types.FLOAT64},
		{"e_fly_total", false, types.FLOAT64},
		{"e_hover_total", false, types.FLOAT64},
		{"e_tx_total", false, types.FLOAT64},
		{"uav_x", false, types.FLOAT64},
		{"uav_y", false, types.FLOAT64},
		{"served_node", false, types.INT64},
		{"success", false, types.BOOLEAN},
		{"aoi_avg", false, types.FLOAT64},
		{"aoi_max", false, types.FLOAT64},
	}
	for _, c := range columns {
		if c.tag {
			err = tbl.AddTagColumn(c.name, c.typ)
		} else {
			err = tbl.AddFieldColumn(c.name, c.typ)
		}
		if err != nil {
			return err
		}
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}

	for _, r := range rows {
		if err := tbl.AddRow(
			r.RunID, r.Policy, int64(r.Step), r.TimeS, r.EnergyWh,
			r.EFlyTotal, r.EHoverTotal, r.ETxTotal, r.UAVX, r.UAVY,
			int64(r.ServedNode), r.Success, r.AoIAvg, r.AoIMax, r.Timestamp,
		); err != nil {
			return err
		}
	}
	return w.write(w.stepTable, tbl)
}

// WriteRun inserts a run summary row.
func (w *GreptimeDBWriter) WriteRun(r telemetry.RunRow) error {
	tbl, err := table.New(w.runTable)
	if err != nil {
		return err
	}
	for _, tag := range []string{"run_id", "experiment", "policy"} {
		if err := tbl.AddTagColumn(tag, types.STRING); err != nil {
			return err
		}
	}
	fields := []struct {
		name string
		typ  types.ColumnType
	}{
		{"scenario", types.STRING},
		{"n", types.INT64},
		{"seed", types.INT64},
		{"greedy_mode", types.BOOLEAN},
		{"alpha", types.FLOAT64},
		{"beta", types.FLOAT64},
		{"gamma", types.FLOAT64},
		{"reason", types.STRING},
		{"steps", types.INT64},
		{"final_time_s", types.FLOAT64},
		{"total_energy_wh", types.FLOAT64},
		{"energy_norm", types.FLOAT64},
		{"avg_aoi", types.FLOAT64},
		{"max_aoi", types.FLOAT64},
		{"p99_aoi", types.FLOAT64},
		{"energy_per_update_wh", types.FLOAT64},
		{"successful_contacts", types.INT64},
		{"path_length_m", types.FLOAT64},
	}
	for _, f := range fields {
		if err := tbl.AddFieldColumn(f.name, f.typ); err != nil {
			return err
		}
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}
	if err := tbl.AddRow(
		r.RunID, r.Experiment, r.Policy,
		r.Scenario, int64(r.N), r.Seed, r.Greedy, r.Alpha, r.Beta, r.Gamma,
		r.Reason, int64(r.Steps), r.FinalTimeS, r.TotalEnergyWh, r.EnergyNorm(),
		r.AvgAoI, r.MaxAoI, r.P99AoI, r.EnergyPerUpdateWh, int64(r.SuccessfulContacts), r.PathLengthM,
		r.Timestamp,
	); err != nil {
		return err
	}
	return w.write(w.runTable, tbl)
}

func (w *GreptimeDBWriter) write(name string, tbl *table.Table) error {
	ctx := context.Background()
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	if _, err := w.client.Write(ctx, tbl); err != nil {
		return fmt.Errorf("greptime write %s: %w", name, err)
	}
	return nil
}
