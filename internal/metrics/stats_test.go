package metrics

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"uav-aoi-sim/internal/telemetry"
)

func TestSummarize_Basic(t *testing.T) {
	t.Parallel()

	rows := []telemetry.StepRow{
		{AoIAvg: 2, AoIMax: 10, EnergyWh: 1, Success: true},
		{AoIAvg: 4, AoIMax: 30, EnergyWh: 2, Success: false},
		{AoIAvg: 6, AoIMax: 20, EnergyWh: 3, Success: true},
	}
	s := Summarize(rows)
	if s.Steps != 3 || s.AvgAoI != 4 || s.MaxAoI != 30 {
		t.Fatalf("summary=%+v", s)
	}
	// int(0.99*2) = 1 -> second smallest maximum
	if s.P99AoI != 20 {
		t.Fatalf("p99=%v", s.P99AoI)
	}
	if s.TotalEnergyWh != 3 || s.EnergyPerUpdateWh != 1 {
		t.Fatalf("energy=%v per update=%v", s.TotalEnergyWh, s.EnergyPerUpdateWh)
	}
	if s.SuccessfulContacts != 2 {
		t.Fatalf("contacts=%d", s.SuccessfulContacts)
	}
}

func TestSummarize_Empty(t *testing.T) {
	t.Parallel()

	s := Summarize(nil)
	if s.AvgAoI != 0 || s.MaxAoI != 0 || s.P99AoI != 0 || s.TotalEnergyWh != 0 {
		t.Fatalf("summary=%+v", s)
	}
	if !math.IsInf(s.EnergyPerUpdateWh, 1) {
		t.Fatalf("energy per update=%v", s.EnergyPerUpdateWh)
	}
}

func TestPercentile_Edges(t *testing.T) {
	t.Parallel()

	values := []float64{1, 2, 3, 4}
	if got := percentile(values, 0); got != 1 {
		t.Fatalf("p0=%v", got)
	}
	if got := percentile(values, 1); got != 4 {
		t.Fatalf("p100=%v", got)
	}
	if got := percentile(nil, 0.5); got != 0 {
		t.Fatalf("empty=%v", got)
	}
}

func TestCSVRoundTrip(t *testing.T) {
	t.Parallel()

	rows := []telemetry.StepRow{
		{TimeS: 10.125, EnergyWh: 0.3, EFlyTotal: 0.2, EHoverTotal: 0.09, ETxTotal: 0.01,
			UAVX: 100, UAVY: 0, ServedNode: 1, Success: true, AoIAvg: 6.75, AoIMax: 10.125},
		{TimeS: 24.5, EnergyWh: 0.7, EFlyTotal: 0.5, EHoverTotal: 0.18, ETxTotal: 0.02,
			UAVX: 0, UAVY: 100, ServedNode: 2, AoIAvg: 9, AoIMax: 24.5},
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "time_s,energy_Wh,E_fly_total") {
		t.Fatalf("unexpected header: %q", buf.String())
	}
	path := filepath.Join(t.TempDir(), "log.csv")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("rows=%d", len(got))
	}
	for i := range rows {
		want := rows[i]
		want.Step = i + 1
		if got[i] != want {
			t.Fatalf("row %d:\n got %+v\nwant %+v", i, got[i], want)
		}
	}
}

func TestReadCSV_LegacyLog(t *testing.T) {
	t.Parallel()

	legacy := "time_s,energy_Wh,E_fly_total,E_hover_total,E_tx_total,uav_x,uav_y,served_node,aoi_avg,aoi_max\n" +
		"1,0.5,0.4,0.05,0.05,3,4,0,1.5,2\n"
	rows, err := readCSV(strings.NewReader(legacy))
	if err != nil {
		t.Fatalf("readCSV: %v", err)
	}
	if len(rows) != 1 || rows[0].AoIMax != 2 || rows[0].Success {
		t.Fatalf("rows=%+v", rows)
	}
	if _, err := readCSV(strings.NewReader("a,b\n1,2\n")); err == nil {
		t.Fatalf("expected header error")
	}
}
