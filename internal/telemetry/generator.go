package telemetry

import (
	"time"

	"uav-aoi-sim/internal/mission"
)

// Generator turns mission snapshots into rows for one run.
type Generator struct {
	RunID  string
	Policy string
	// Epoch is the wall-clock instant of mission time zero. Row timestamps
	// are Epoch plus the simulated time, so replays stay deterministic.
	Epoch time.Time
}

// NewGenerator creates a row generator for a run.
func NewGenerator(runID, policy string, epoch time.Time) *Generator {
	return &Generator{RunID: runID, Policy: policy, Epoch: epoch.UTC()}
}

// StepRow converts a snapshot.
func (g *Generator) StepRow(s mission.Snapshot) StepRow {
	return StepRow{
		RunID:       g.RunID,
		Policy:      g.Policy,
		Step:        s.Step,
		TimeS:       s.TimeS,
		EnergyWh:    s.EnergyTotalWh,
		EFlyTotal:   s.EnergyFlyWh,
		EHoverTotal: s.EnergyHoverWh,
		ETxTotal:    s.EnergyTxWh,
		UAVX:        s.UAVX,
		UAVY:        s.UAVY,
		ServedNode:  s.ServedNode,
		Success:     s.ContactSuccess,
		AoIAvg:      s.AoIAvg,
		AoIMax:      s.AoIMax,
		Timestamp:   g.At(s.TimeS),
	}
}

// At maps a mission time in seconds to a timestamp.
func (g *Generator) At(timeS float64) time.Time {
	return g.Epoch.Add(time.Duration(timeS * float64(time.Second)))
}
