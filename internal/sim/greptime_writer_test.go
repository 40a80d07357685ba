package sim

import (
	"context"
	"testing"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"

	"uav-aoi-sim/internal/telemetry"
)

type mockGreptimeClient struct {
	tables []*table.Table
}

func (m *mockGreptimeClient) Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error) {
	m.tables = append(m.tables, tables...)
	return &gpb.GreptimeResponse{}, nil
}

func TestGreptimeWriterSteps(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, stepTable: "steps", runTable: "runs"}

	rows := sampleRows()
	if err := w.WriteBatch(rows); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if len(m.tables) != 1 {
		t.Fatalf("expected one table write, got %d", len(m.tables))
	}
	got := m.tables[0].GetRows()
	if len(got.Rows) != len(rows) {
		t.Fatalf("rows = %d, want %d", len(got.Rows), len(rows))
	}
	if got.Schema[0].ColumnName != "run_id" || got.Schema[0].SemanticType != gpb.SemanticType_TAG {
		t.Fatalf("unexpected first column: %+v", got.Schema[0])
	}
	if got.Schema[11].Datatype != gpb.ColumnDataType_BOOLEAN {
		t.Fatalf("success column type = %v", got.Schema[11].Datatype)
	}
	if v := got.Rows[2].Values[3].GetF64Value(); v != 41 {
		t.Fatalf("time_s = %v, want 41", v)
	}
	if v := got.Rows[0].Values[1].GetStringValue(); v != "MAF" {
		t.Fatalf("policy = %q, want MAF", v)
	}
}

func TestGreptimeWriterEmptyBatch(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, stepTable: "steps"}
	if err := w.WriteBatch(nil); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if len(m.tables) != 0 {
		t.Fatalf("empty batch must not hit the client")
	}
}

func TestGreptimeWriterRun(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, stepTable: "steps", runTable: "runs"}
	row := telemetry.RunRow{RunID: "r1", Experiment: "run", Policy: "AWN", N: 20, AvgAoI: 12.5, TotalEnergyWh: 5, BatteryWh: 10}
	if err := w.WriteRun(row); err != nil {
		t.Fatalf("WriteRun: %v", err)
	}
	got := m.tables[0].GetRows()
	if got.Rows[0].Values[0].GetStringValue() != "r1" {
		t.Fatalf("run_id not written first")
	}
	// energy_norm follows the 3 tags and 11 fields before it.
	if v := got.Rows[0].Values[14].GetF64Value(); v != 0.5 {
		t.Fatalf("energy_norm = %v, want 0.5", v)
	}
}

func TestSplitEndpoint(t *testing.T) {
	cases := []struct {
		in   string
		host string
		port int
		err  bool
	}{
		{"localhost", "localhost", defaultGreptimePort, false},
		{"db:4002", "db", 4002, false},
		{"db:abc", "", 0, true},
	}
	for _, tc := range cases {
		host, port, err := splitEndpoint(tc.in)
		if (err != nil) != tc.err {
			t.Fatalf("%s: err = %v", tc.in, err)
		}
		if !tc.err && (host != tc.host || port != tc.port) {
			t.Fatalf("%s: got %s:%d", tc.in, host, port)
		}
	}
}
