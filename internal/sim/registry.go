package sim

import (
	"cmp"
	"slices"
	"strings"
	"sync"
	"time"

	"uav-aoi-sim/internal/mission"
	"uav-aoi-sim/internal/telemetry"
)

const keepFinished = 100

// RunStatus is the live progress of one mission, as served by the admin API.
type RunStatus struct {
	RunID      string    `json:"run_id"`
	Experiment string    `json:"experiment,omitempty"`
	Policy     string    `json:"policy"`
	N          int       `json:"N"`
	Phase      string    `json:"phase"`
	Reason     string    `json:"reason,omitempty"`
	Step       int       `json:"step"`
	TimeS      float64   `json:"time_s"`
	EnergyWh   float64   `json:"energy_Wh"`
	AoIAvg     float64   `json:"aoi_avg"`
	AoIMax     float64   `json:"aoi_max"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
}

// Registry tracks running and recently finished missions.
type Registry struct {
	mu       sync.RWMutex
	runs     map[string]*RunStatus
	finished []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{runs: make(map[string]*RunStatus)}
}

func (r *Registry) start(st RunStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st.Phase = mission.Running.String()
	r.runs[st.RunID] = &st
}

func (r *Registry) step(row telemetry.StepRow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.runs[row.RunID]
	if !ok {
		return
	}
	st.Step = row.Step
	st.TimeS = row.TimeS
	st.EnergyWh = row.EnergyWh
	st.AoIAvg = row.AoIAvg
	st.AoIMax = row.AoIMax
}

func (r *Registry) finish(runID string, phase mission.Phase, reason mission.Reason, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.runs[runID]
	if !ok {
		return
	}
	st.Phase = phase.String()
	st.Reason = string(reason)
	st.FinishedAt = at
	r.finished = append(r.finished, runID)
	if len(r.finished) > keepFinished {
		delete(r.runs, r.finished[0])
		r.finished = r.finished[1:]
	}
}

// Runs returns a copy of every tracked run, oldest first.
func (r *Registry) Runs() []RunStatus {
	r.mu.RLock()
	out := make([]RunStatus, 0, len(r.runs))
	for _, st := range r.runs {
		out = append(out, *st)
	}
	r.mu.RUnlock()
	slices.SortFunc(out, func(a, b RunStatus) int {
		return cmp.Or(a.StartedAt.Compare(b.StartedAt), strings.Compare(a.RunID, b.RunID))
	})
	return out
}

// Active counts runs still in progress.
func (r *Registry) Active() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, st := range r.runs {
		if st.Phase == mission.Running.String() {
			n++
		}
	}
	return n
}
