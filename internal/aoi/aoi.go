// Package aoi tracks the Age of Information of each ground node.
//
// AoI ramps up with elapsed time and drops to zero when a node is served;
// Advance and Reset are the only transitions.
package aoi

import (
	"math"

	"uav-aoi-sim/internal/guard"
)

// Tracker holds one AoI value (seconds) per node.
type Tracker struct {
	values []float64
}

// New returns a tracker for n nodes, all fresh.
func New(n int) *Tracker {
	return &Tracker{values: make([]float64, n)}
}

// Advance ages every node by dt seconds.
func (t *Tracker) Advance(dt float64) error {
	if err := guard.NonNegative("aoi delta", dt); err != nil {
		return err
	}
	for i := range t.values {
		t.values[i] += dt
	}
	return nil
}

// Reset marks node i as freshly served.
func (t *Tracker) Reset(i int) error {
	if i < 0 || i >= len(t.values) {
		return guard.Invalid("node index", "%d out of range [0, %d)", i, len(t.values))
	}
	t.values[i] = 0
	return nil
}

// Len returns the number of tracked nodes.
func (t *Tracker) Len() int { return len(t.values) }

// At returns the AoI of node i.
func (t *Tracker) At(i int) float64 { return t.values[i] }

// Values returns a copy of the AoI vector.
func (t *Tracker) Values() []float64 {
	out := make([]float64, len(t.values))
	copy(out, t.values)
	return out
}

// Mean returns the average AoI, 0 for an empty tracker.
func (t *Tracker) Mean() float64 {
	if len(t.values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range t.values {
		sum += v
	}
	return sum / float64(len(t.values))
}

// Max returns the largest AoI, 0 for an empty tracker.
func (t *Tracker) Max() float64 {
	if len(t.values) == 0 {
		return 0
	}
	m := math.Inf(-1)
	for _, v := range t.values {
		if v > m {
			m = v
		}
	}
	return m
}
