package sim

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"uav-aoi-sim/internal/config"
	"uav-aoi-sim/internal/geom"
	"uav-aoi-sim/internal/logging"
	"uav-aoi-sim/internal/metrics"
	"uav-aoi-sim/internal/mission"
	"uav-aoi-sim/internal/observability"
	"uav-aoi-sim/internal/scenario"
	"uav-aoi-sim/internal/telemetry"
)

// DefaultBatchSize is the number of step rows buffered before a flush.
const DefaultBatchSize = 64

// TourLabel is the policy label of runs that follow the planned tour.
const TourLabel = "TOUR"

// RunSpec is one mission to simulate.
type RunSpec struct {
	Experiment string
	Config     *config.Config
	Scenario   *scenario.Scenario
}

// Outcome is everything a finished run produced.
type Outcome struct {
	Row    telemetry.RunRow
	Steps  []telemetry.StepRow
	Result *mission.Result
}

// Runner drives missions and hands their rows to the writers. Writer
// failures are logged and counted but never stop a mission.
type Runner struct {
	steps     StepWriter
	runs      RunWriter
	metrics   *observability.Collector
	registry  *Registry
	now       func() time.Time
	BatchSize int

	// writeMu serializes writers shared by concurrent runs.
	writeMu sync.Mutex
}

// NewRunner creates a Runner. Nil writers discard their rows and a nil
// collector records nothing.
func NewRunner(steps StepWriter, runs RunWriter, collector *observability.Collector) *Runner {
	if steps == nil {
		steps = NopWriter{}
	}
	if runs == nil {
		runs = NopWriter{}
	}
	return &Runner{
		steps:     steps,
		runs:      runs,
		metrics:   collector,
		registry:  NewRegistry(),
		now:       time.Now,
		BatchSize: DefaultBatchSize,
	}
}

// Registry exposes the live run table.
func (r *Runner) Registry() *Registry { return r.registry }

// PolicyLabel names what chose the targets of a run.
func PolicyLabel(cfg *config.Config) string {
	if !cfg.GreedyMode {
		return TourLabel
	}
	return strings.ToUpper(cfg.Policy)
}

// Run simulates one mission to its end. A cancelled context aborts the run
// between steps; the partial outcome is returned along with the error.
func (r *Runner) Run(ctx context.Context, spec RunSpec) (*Outcome, error) {
	cfg := spec.Config
	sc := spec.Scenario.Clone()
	params := cfg.MissionParams(sc.Nodes)
	if params.StartNode == nil {
		params.StartNode = sc.StartNode
	}
	sim, err := mission.New(params)
	if err != nil {
		return nil, fmt.Errorf("prepare mission: %w", err)
	}
	beta, gamma, err := params.Exponents()
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	label := PolicyLabel(cfg)
	started := r.now().UTC()
	gen := telemetry.NewGenerator(runID, label, started)
	log := logging.FromContext(ctx).With("run_id", runID, "policy", label)
	if spec.Experiment != "" {
		log = log.With("experiment", spec.Experiment)
	}
	log.Info("mission started", "nodes", len(sc.Nodes), "scenario", sc.Name, "seed", cfg.Seed)

	r.registry.start(RunStatus{
		RunID:      runID,
		Experiment: spec.Experiment,
		Policy:     label,
		N:          len(sc.Nodes),
		StartedAt:  started,
	})
	r.metrics.RunStarted()

	batchSize := max(r.BatchSize, 1)
	var rows, pending []telemetry.StepRow
	flush := func() {
		if len(pending) == 0 {
			return
		}
		r.writeMu.Lock()
		err := writeAll(r.steps, pending)
		r.writeMu.Unlock()
		if err != nil {
			r.metrics.WriterError()
			log.Error("step write failed", "rows", len(pending), "err", err)
		}
		pending = pending[:0]
	}

	res, runErr := sim.Run(ctx, func(s mission.Snapshot) error {
		row := gen.StepRow(s)
		rows = append(rows, row)
		pending = append(pending, row)
		if len(pending) >= batchSize {
			flush()
		}
		r.metrics.ObserveStep(row)
		r.registry.step(row)
		return nil
	})
	flush()

	st := sim.State()
	sum := metrics.Summarize(rows)
	row := telemetry.RunRow{
		RunID:              runID,
		Experiment:         spec.Experiment,
		Policy:             label,
		Scenario:           sc.Name,
		N:                  len(sc.Nodes),
		Seed:               cfg.Seed,
		Greedy:             cfg.GreedyMode,
		Alpha:              cfg.Alpha,
		Beta:               beta,
		Gamma:              gamma,
		Reason:             string(st.Reason),
		Steps:              sum.Steps,
		FinalTimeS:         st.TimeS,
		TotalEnergyWh:      st.Energy.Total(),
		EFlyTotal:          st.Energy.FlyWh,
		EHoverTotal:        st.Energy.HoverWh,
		ETxTotal:           st.Energy.TxWh,
		BatteryWh:          cfg.UAV.BatteryWh,
		AvgAoI:             sum.AvgAoI,
		MaxAoI:             sum.MaxAoI,
		P99AoI:             sum.P99AoI,
		EnergyPerUpdateWh:  sum.EnergyPerUpdateWh,
		SuccessfulContacts: sum.SuccessfulContacts,
		PathLengthM:        geom.PathLength(res.Path),
		StartedAt:          started,
		Timestamp:          gen.At(st.TimeS),
	}
	// JSON cannot carry +Inf; an empty run reports zero.
	if math.IsInf(row.EnergyPerUpdateWh, 0) {
		row.EnergyPerUpdateWh = 0
	}

	r.writeMu.Lock()
	err = r.runs.WriteRun(row)
	r.writeMu.Unlock()
	if err != nil {
		r.metrics.WriterError()
		log.Error("run write failed", "err", err)
	}
	elapsed := r.now().Sub(started)
	r.metrics.RunFinished(row, elapsed)
	r.registry.finish(runID, st.Phase, st.Reason, r.now().UTC())

	out := &Outcome{Row: row, Steps: rows, Result: res}
	if runErr != nil {
		log.Warn("mission aborted", "steps", row.Steps, "err", runErr)
		return out, runErr
	}
	log.Info("mission finished",
		"reason", row.Reason,
		"steps", row.Steps,
		"avg_aoi", row.AvgAoI,
		"p99_aoi", row.P99AoI,
		"energy_wh", row.TotalEnergyWh,
		"elapsed", elapsed)
	return out, nil
}
