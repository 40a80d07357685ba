package telemetry

import (
	"os"
	"time"
)

// RunRow summarizes one finished mission.
type RunRow struct {
	RunID              string    `json:"run_id"`
	Experiment         string    `json:"experiment"`
	Policy             string    `json:"policy"`
	Scenario           string    `json:"scenario"`
	N                  int       `json:"N"`
	Seed               int64     `json:"seed"`
	Greedy             bool      `json:"greedy_mode"`
	Alpha              float64   `json:"alpha"`
	Beta               float64   `json:"beta"`
	Gamma              float64   `json:"gamma"`
	Reason             string    `json:"reason"`
	Steps              int       `json:"steps"`
	FinalTimeS         float64   `json:"final_time_s"`
	TotalEnergyWh      float64   `json:"total_energy_Wh"`
	EFlyTotal          float64   `json:"E_fly_total"`
	EHoverTotal        float64   `json:"E_hover_total"`
	ETxTotal           float64   `json:"E_tx_total"`
	BatteryWh          float64   `json:"E_max_Wh"`
	AvgAoI             float64   `json:"avg_aoi"`
	MaxAoI             float64   `json:"max_aoi"`
	P99AoI             float64   `json:"p99_aoi"`
	EnergyPerUpdateWh  float64   `json:"energy_per_update_Wh"`
	SuccessfulContacts int       `json:"successful_contacts"`
	PathLengthM        float64   `json:"path_length_m"`
	StartedAt          time.Time `json:"started_at"`
	Timestamp          time.Time `json:"ts"`
}

// EnergyNorm is the share of the battery the run used.
func (r RunRow) EnergyNorm() float64 {
	return r.TotalEnergyWh / max(r.BatteryWh, 1e-9)
}

// RunTableName is the GreptimeDB table for run summaries, overridable via
// GREPTIMEDB_RUN_TABLE.
var RunTableName = func() string {
	if env := os.Getenv("GREPTIMEDB_RUN_TABLE"); env != "" {
		return env
	}
	return "uav_mission_runs"
}()

func (RunRow) TableName() string {
	return RunTableName
}
