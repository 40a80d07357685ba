// Package policy implements the next-node selection strategies used in greedy
// mode.
package policy

import (
	"math"
	"strings"

	"uav-aoi-sim/internal/geom"
	"uav-aoi-sim/internal/guard"
)

// Policy names.
const (
	RR  = "RR"
	MAF = "MAF"
	AWN = "AWN"
)

// Names lists the policies in comparison order.
func Names() []string { return []string{RR, MAF, AWN} }

// State is the read-only view a policy decides on.
type State struct {
	AoI   []float64
	UAV   geom.Point
	Nodes []geom.Point
}

// Policy picks the next node to visit.
type Policy interface {
	Name() string
	Select(State) int
}

// Options configures New.
type Options struct {
	Beta  float64
	Gamma float64
	// LastVisited seeds the round-robin cursor; -1 starts at node 0.
	LastVisited int
}

// New builds a policy by case-insensitive name.
func New(name string, opts Options) (Policy, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case RR:
		return NewRoundRobin(opts.LastVisited), nil
	case MAF:
		return MaxAgeFirst{}, nil
	case AWN:
		return AgeWeightedNearest{Beta: opts.Beta, Gamma: opts.Gamma}, nil
	}
	return nil, guard.Invalid("policy", "unknown %q (want RR, MAF or AWN)", name)
}

// Normalize returns the canonical policy name or an error.
func Normalize(name string) (string, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	switch n {
	case RR, MAF, AWN:
		return n, nil
	}
	return "", guard.Invalid("policy", "unknown %q (want RR, MAF or AWN)", name)
}

// RoundRobin cycles through the nodes by index, ignoring age and distance.
type RoundRobin struct {
	cursor int
}

// NewRoundRobin starts the cycle right after last.
func NewRoundRobin(last int) *RoundRobin {
	return &RoundRobin{cursor: last}
}

func (p *RoundRobin) Name() string { return RR }

// Select advances the cursor and returns it.
func (p *RoundRobin) Select(s State) int {
	n := len(s.AoI)
	if n == 0 {
		return -1
	}
	next := (p.cursor + 1) % n
	if next < 0 {
		next += n
	}
	p.cursor = next
	return next
}

// MaxAgeFirst serves the stalest node; ties go to the lowest index.
type MaxAgeFirst struct{}

func (MaxAgeFirst) Name() string { return MAF }

func (MaxAgeFirst) Select(s State) int {
	best := -1
	bestAge := math.Inf(-1)
	for i, a := range s.AoI {
		if a > bestAge {
			best, bestAge = i, a
		}
	}
	return best
}

// AgeWeightedNearest scores nodes by AoI^Beta / (d^Gamma + eps).
type AgeWeightedNearest struct {
	Beta  float64
	Gamma float64
}

func (AgeWeightedNearest) Name() string { return AWN }

func (p AgeWeightedNearest) Select(s State) int {
	maxAge := math.Inf(-1)
	for _, a := range s.AoI {
		maxAge = math.Max(maxAge, a)
	}
	if maxAge < guard.FreshAoI {
		return Nearest(s.UAV, s.Nodes)
	}
	best := -1
	bestScore := math.Inf(-1)
	for i, a := range s.AoI {
		d := geom.Dist(s.UAV, s.Nodes[i])
		score := math.Pow(a, p.Beta) / (math.Pow(guard.Floor(d, guard.SpeedFloor), p.Gamma) + guard.ScoreEpsilon)
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// Nearest returns the index of the node closest to from, lowest index on ties.
func Nearest(from geom.Point, nodes []geom.Point) int {
	best := -1
	bestDist := math.Inf(1)
	for i, n := range nodes {
		if d := geom.Dist(from, n); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Weights bounds the AWN exponents for the alpha trade-off.
type Weights struct {
	BetaMin  float64 `json:"beta_min"`
	BetaMax  float64 `json:"beta_max"`
	GammaMin float64 `json:"gamma_min"`
	GammaMax float64 `json:"gamma_max"`
}

// DefaultWeights returns the standard exponent ranges.
func DefaultWeights() Weights {
	return Weights{BetaMin: 0.8, BetaMax: 1.6, GammaMin: 0.6, GammaMax: 1.6}
}

// FromAlpha maps alpha in [0,1] to (beta, gamma). Low alpha favours near
// nodes, high alpha favours stale ones.
func (w Weights) FromAlpha(alpha float64) (beta, gamma float64, err error) {
	if err := guard.InRange("alpha", alpha, 0, 1); err != nil {
		return 0, 0, err
	}
	beta = w.BetaMin + alpha*(w.BetaMax-w.BetaMin)
	gamma = w.GammaMax - alpha*(w.GammaMax-w.GammaMin)
	return beta, gamma, nil
}
