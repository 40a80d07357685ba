package mission

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"uav-aoi-sim/internal/aoi"
	"uav-aoi-sim/internal/energy"
	"uav-aoi-sim/internal/geom"
	"uav-aoi-sim/internal/policy"
	"uav-aoi-sim/internal/route"
)

// ErrTerminated is returned when stepping a mission that already ended.
var ErrTerminated = errors.New("mission terminated")

// Phase is the lifecycle state of a simulator.
type Phase int

const (
	Running Phase = iota
	Terminated
	Aborted
)

func (p Phase) String() string {
	switch p {
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	case Aborted:
		return "aborted"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Reason says why a mission stopped.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonTimeExhausted    Reason = "time_exhausted"
	ReasonBatteryExhausted Reason = "battery_exhausted"
	ReasonAborted          Reason = "aborted"
)

// Snapshot is the state after one step. AoI is a private copy.
type Snapshot struct {
	Step           int
	TimeS          float64
	EnergyTotalWh  float64
	EnergyFlyWh    float64
	EnergyHoverWh  float64
	EnergyTxWh     float64
	UAVX           float64
	UAVY           float64
	ServedNode     int
	ContactSuccess bool
	AoIAvg         float64
	AoIMax         float64
	AoI            []float64
}

// State is a copy of the simulator's transient state.
type State struct {
	Phase     Phase
	Reason    Reason
	Step      int
	TimeS     float64
	UAV       geom.Point
	AoI       []float64
	Energy    energy.Breakdown
	TourIndex int
}

// Result is the ordered output of Run.
type Result struct {
	Snapshots []Snapshot
	Reason    Reason
	// Path lists the UAV positions, starting with the launch point.
	Path []geom.Point
	// Tour is the planned visiting order, nil in greedy mode.
	Tour []int
}

// Simulator owns one mission run. It is not safe for concurrent use.
type Simulator struct {
	p      Params
	nodes  []geom.Point
	policy policy.Policy
	tour   []int
	cursor int

	aoi    *aoi.Tracker
	pos    geom.Point
	time   float64
	energy energy.Breakdown
	step   int
	path   []geom.Point

	phase  Phase
	reason Reason
}

// New validates p and prepares a simulator at time zero.
func New(p Params) (*Simulator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.Nodes = slices.Clone(p.Nodes)
	if p.StartNode != nil {
		start := *p.StartNode
		p.StartNode = &start
	}
	s := &Simulator{
		p:      p,
		nodes:  p.Nodes,
		aoi:    aoi.New(len(p.Nodes)),
		pos:    p.Start,
		cursor: -1,
	}
	last := -1
	if p.StartNode != nil {
		last = *p.StartNode
		s.pos = p.Nodes[last]
	}
	s.path = []geom.Point{s.pos}

	if p.Greedy {
		beta, gamma, err := p.Exponents()
		if err != nil {
			return nil, err
		}
		pol, err := policy.New(p.Policy, policy.Options{Beta: beta, Gamma: gamma, LastVisited: last})
		if err != nil {
			return nil, err
		}
		s.policy = pol
	} else {
		plan, err := route.Plan(p.Nodes, p.TourSeed, p.passes())
		if err != nil {
			return nil, err
		}
		s.tour = plan.Order
		s.cursor = 0
	}
	return s, nil
}

// Tour returns the planned order, nil in greedy mode.
func (s *Simulator) Tour() []int { return slices.Clone(s.tour) }

func (s *Simulator) next() int {
	if s.policy != nil {
		return s.policy.Select(policy.State{AoI: s.aoi.Values(), UAV: s.pos, Nodes: s.nodes})
	}
	if s.cursor >= len(s.tour) {
		s.cursor = 0
	}
	j := s.tour[s.cursor]
	s.cursor++
	return j
}

// Step runs one fly, hover and upload cycle.
func (s *Simulator) Step() (Snapshot, error) {
	if s.phase != Running {
		return Snapshot{}, ErrTerminated
	}
	target := s.next()
	if target < 0 || target >= len(s.nodes) {
		return Snapshot{}, fmt.Errorf("policy %s selected node %d of %d", s.p.Policy, target, len(s.nodes))
	}

	dest := s.nodes[target]
	d := geom.Dist(s.pos, dest)
	tFly := energy.FlightTime(d, s.p.Speed)
	s.time += tFly
	if err := s.aoi.Advance(tFly); err != nil {
		return Snapshot{}, err
	}
	s.energy.FlyWh += s.p.Airframe.FlightEnergyWh(d, s.p.Speed)
	s.pos = dest
	s.path = append(s.path, dest)

	c := s.p.Radio.Contact(s.p.Transmitter.OutputW, s.p.ContactDistanceM)
	tHover := c.TxTimeS
	if s.p.HoverCapS > 0 {
		tHover = min(tHover, s.p.HoverCapS)
	}
	s.energy.HoverWh += s.p.Airframe.HoverEnergyWh(tHover)
	s.energy.TxWh += s.p.Transmitter.EnergyWh(min(c.TxTimeS, tHover))
	s.time += tHover
	if err := s.aoi.Advance(tHover); err != nil {
		return Snapshot{}, err
	}
	if c.Success {
		if err := s.aoi.Reset(target); err != nil {
			return Snapshot{}, err
		}
	}
	s.step++

	snap := Snapshot{
		Step:           s.step,
		TimeS:          s.time,
		EnergyTotalWh:  s.energy.Total(),
		EnergyFlyWh:    s.energy.FlyWh,
		EnergyHoverWh:  s.energy.HoverWh,
		EnergyTxWh:     s.energy.TxWh,
		UAVX:           s.pos.X,
		UAVY:           s.pos.Y,
		ServedNode:     target,
		ContactSuccess: c.Success,
		AoIAvg:         s.aoi.Mean(),
		AoIMax:         s.aoi.Max(),
		AoI:            s.aoi.Values(),
	}

	switch {
	case s.time >= s.p.MissionTimeS:
		s.phase, s.reason = Terminated, ReasonTimeExhausted
	case snap.EnergyTotalWh >= s.p.BatteryWh:
		s.phase, s.reason = Terminated, ReasonBatteryExhausted
	}
	return snap, nil
}

// Run steps until the mission terminates, handing each snapshot to emit.
// ctx is only checked between steps; a cancelled run is marked aborted and
// returns what it produced so far together with ctx.Err().
func (s *Simulator) Run(ctx context.Context, emit func(Snapshot) error) (*Result, error) {
	res := &Result{}
	for s.phase == Running {
		if err := ctx.Err(); err != nil {
			s.phase, s.reason = Aborted, ReasonAborted
			s.finish(res)
			return res, err
		}
		snap, err := s.Step()
		if err != nil {
			s.finish(res)
			return res, err
		}
		res.Snapshots = append(res.Snapshots, snap)
		if emit != nil {
			if err := emit(snap); err != nil {
				s.phase, s.reason = Aborted, ReasonAborted
				s.finish(res)
				return res, fmt.Errorf("emit step %d: %w", snap.Step, err)
			}
		}
	}
	s.finish(res)
	return res, nil
}

func (s *Simulator) finish(res *Result) {
	res.Reason = s.reason
	res.Path = slices.Clone(s.path)
	res.Tour = s.Tour()
}

// State returns a copy of the current transient state.
func (s *Simulator) State() State {
	idx := -1
	if s.policy == nil {
		idx = s.cursor
	}
	return State{
		Phase:     s.phase,
		Reason:    s.reason,
		Step:      s.step,
		TimeS:     s.time,
		UAV:       s.pos,
		AoI:       s.aoi.Values(),
		Energy:    s.energy,
		TourIndex: idx,
	}
}
