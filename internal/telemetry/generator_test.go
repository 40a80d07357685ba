package telemetry

import (
	"testing"
	"time"

	"uav-aoi-sim/internal/mission"
)

func TestStepRow(t *testing.T) {
	epoch := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	gen := NewGenerator("run-1", "MAF", epoch)
	snap := mission.Snapshot{
		Step: 3, TimeS: 12.5, EnergyTotalWh: 6, EnergyFlyWh: 3, EnergyHoverWh: 2, EnergyTxWh: 1,
		UAVX: 10, UAVY: 20, ServedNode: 4, ContactSuccess: true, AoIAvg: 5, AoIMax: 9,
	}
	row := gen.StepRow(snap)
	if row.RunID != "run-1" || row.Policy != "MAF" {
		t.Errorf("unexpected tags %+v", row)
	}
	if row.EnergyWh != 6 || row.EFlyTotal != 3 || row.EHoverTotal != 2 || row.ETxTotal != 1 {
		t.Errorf("energy not copied: %+v", row)
	}
	if row.ServedNode != 4 || !row.Success || row.AoIMax != 9 {
		t.Errorf("contact fields not copied: %+v", row)
	}
	if want := epoch.Add(12500 * time.Millisecond); !row.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", row.Timestamp, want)
	}
}

func TestEnergyNorm(t *testing.T) {
	r := RunRow{TotalEnergyWh: 25, BatteryWh: 100}
	if got := r.EnergyNorm(); got != 0.25 {
		t.Fatalf("energy norm = %v", got)
	}
	if got := (RunRow{TotalEnergyWh: 1}).EnergyNorm(); got < 1e8 {
		t.Fatalf("zero battery norm = %v", got)
	}
}

func TestTableNames(t *testing.T) {
	if (StepRow{}).TableName() == "" || (RunRow{}).TableName() == "" {
		t.Fatalf("table names must not be empty")
	}
}
