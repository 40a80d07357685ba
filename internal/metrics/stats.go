// Package metrics summarizes mission step logs.
package metrics

import (
	"math"
	"slices"

	"uav-aoi-sim/internal/telemetry"
)

// Summary is the outcome of one mission log.
type Summary struct {
	Steps              int
	AvgAoI             float64
	MaxAoI             float64
	P99AoI             float64
	TotalEnergyWh      float64
	EnergyPerUpdateWh  float64
	SuccessfulContacts int
}

// Summarize computes the run metrics. AvgAoI is the mean of the per-step
// average AoI, P99AoI is taken over the per-step maxima and the total energy
// is the cumulative value of the last row.
func Summarize(rows []telemetry.StepRow) Summary {
	if len(rows) == 0 {
		return Summary{EnergyPerUpdateWh: math.Inf(1)}
	}

	maxima := make([]float64, 0, len(rows))
	var sumAvg float64
	s := Summary{Steps: len(rows), MaxAoI: math.Inf(-1)}
	for _, r := range rows {
		sumAvg += r.AoIAvg
		maxima = append(maxima, r.AoIMax)
		s.MaxAoI = math.Max(s.MaxAoI, r.AoIMax)
		if r.Success {
			s.SuccessfulContacts++
		}
	}
	slices.Sort(maxima)

	s.AvgAoI = sumAvg / float64(len(rows))
	s.P99AoI = percentile(maxima, 0.99)
	s.TotalEnergyWh = rows[len(rows)-1].EnergyWh
	s.EnergyPerUpdateWh = s.TotalEnergyWh / float64(max(len(rows), 1))
	return s
}

// percentile indexes sorted values at int(p·(n−1)), without interpolation.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := max(0, int(p*float64(len(sorted)-1)))
	return sorted[min(idx, len(sorted)-1)]
}
