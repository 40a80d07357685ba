// Package mission runs the single-UAV data-collection loop: pick a node, fly
// there, upload, and account time, energy and AoI until the mission time or
// the battery runs out.
package mission

import (
	"errors"

	"uav-aoi-sim/internal/channel"
	"uav-aoi-sim/internal/energy"
	"uav-aoi-sim/internal/geom"
	"uav-aoi-sim/internal/guard"
	"uav-aoi-sim/internal/policy"
	"uav-aoi-sim/internal/route"
)

// Params is everything a run needs. New copies it.
type Params struct {
	Nodes []geom.Point
	Start geom.Point
	// StartNode launches the UAV from a node: it starts at that node's
	// position and round-robin continues after it. Nil uses Start.
	StartNode *int

	Speed       float64
	Airframe    energy.Rotorcraft
	Radio       channel.Radio
	Transmitter energy.Transmitter

	MissionTimeS float64
	BatteryWh    float64

	Policy string
	Beta   float64
	Gamma  float64
	// Alpha, when set, derives Beta and Gamma through Weights.
	Alpha   *float64
	Weights policy.Weights

	// Greedy asks the policy every step; otherwise the planned tour is
	// followed and wrapped.
	Greedy bool
	// HoverCapS bounds the hover time per contact. Zero means no cap.
	HoverCapS float64
	// ContactDistanceM is the standoff held while uploading.
	ContactDistanceM float64

	TourSeed     int
	TwoOptPasses int
}

// Validate reports every parameter the run cannot start with.
func (p Params) Validate() error {
	n := len(p.Nodes)
	errs := []error{
		guard.Positive("speed_mps", p.Speed),
		guard.Positive("mission_time_s", p.MissionTimeS),
		guard.Positive("battery_Wh", p.BatteryWh),
		guard.NonNegative("hover_cap_s", p.HoverCapS),
		guard.NonNegative("contact_distance_m", p.ContactDistanceM),
		p.Airframe.Validate(),
		p.Radio.Validate(),
		p.Transmitter.Validate(),
	}
	if n == 0 {
		errs = append(errs, guard.Invalid("N", "must be >= 1"))
	}
	if p.StartNode != nil && (*p.StartNode < 0 || *p.StartNode >= n) {
		errs = append(errs, guard.Invalid("start_node", "%d out of range [0, %d)", *p.StartNode, n))
	}
	if !p.Greedy && n > 0 && (p.TourSeed < 0 || p.TourSeed >= n) {
		errs = append(errs, guard.Invalid("tour_seed", "%d out of range [0, %d)", p.TourSeed, n))
	}
	if p.TwoOptPasses < 0 {
		errs = append(errs, guard.Invalid("two_opt_passes", "must be >= 0, got %d", p.TwoOptPasses))
	}
	if _, err := policy.Normalize(p.Policy); err != nil {
		errs = append(errs, err)
	}
	if p.Alpha != nil {
		errs = append(errs, guard.InRange("alpha", *p.Alpha, 0, 1))
	}
	return errors.Join(errs...)
}

// Exponents resolves the AWN weights.
func (p Params) Exponents() (beta, gamma float64, err error) {
	if p.Alpha == nil {
		return p.Beta, p.Gamma, nil
	}
	w := p.Weights
	if w == (policy.Weights{}) {
		w = policy.DefaultWeights()
	}
	return w.FromAlpha(*p.Alpha)
}

func (p Params) passes() int {
	if p.TwoOptPasses == 0 {
		return route.DefaultPasses
	}
	return p.TwoOptPasses
}
