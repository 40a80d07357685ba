// Telemetry structs with greptime tags
package telemetry

import (
	"os"
	"time"
)

// StepRow is one mission step as written to every sink. The JSON names match
// the log.csv columns.
type StepRow struct {
	RunID       string    `json:"run_id"`      // TAG
	Policy      string    `json:"policy"`      // TAG
	Step        int       `json:"step"`        // FIELD
	TimeS       float64   `json:"time_s"`      // FIELD
	EnergyWh    float64   `json:"energy_Wh"`   // FIELD
	EFlyTotal   float64   `json:"E_fly_total"` // FIELD
	EHoverTotal float64   `json:"E_hover_total"`
	ETxTotal    float64   `json:"E_tx_total"`
	UAVX        float64   `json:"uav_x"`
	UAVY        float64   `json:"uav_y"`
	ServedNode  int       `json:"served_node"`
	Success     bool      `json:"success"`
	AoIAvg      float64   `json:"aoi_avg"`
	AoIMax      float64   `json:"aoi_max"`
	Timestamp   time.Time `json:"ts"` // TIME INDEX
}

// StepTableName holds the table name used when writing steps to GreptimeDB.
// It defaults to "uav_mission_steps" but can be overridden via the
// GREPTIMEDB_TABLE environment variable.
var StepTableName = func() string {
	if env := os.Getenv("GREPTIMEDB_TABLE"); env != "" {
		return env
	}
	return "uav_mission_steps"
}()

func (StepRow) TableName() string {
	return StepTableName
}
