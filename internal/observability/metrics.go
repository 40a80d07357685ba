// Package observability exposes mission progress as Prometheus metrics.
package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"uav-aoi-sim/internal/telemetry"
)

// Collector bundles the mission metrics. A nil *Collector is valid and
// records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	Steps        *prometheus.CounterVec
	Contacts     *prometheus.CounterVec
	Runs         *prometheus.CounterVec
	RunDurations *prometheus.HistogramVec
	AoIAvg       *prometheus.GaugeVec
	EnergyWh     *prometheus.GaugeVec
	ActiveRuns   prometheus.Gauge
	WriterErrors prometheus.Counter
}

// NewCollector registers the mission metrics against reg, defaulting to the
// global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	steps, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "uav_mission_steps_total",
		Help: "Mission steps executed, labeled by policy.",
	}, []string{"policy"}), "uav_mission_steps_total")
	if err != nil {
		return nil, err
	}
	contacts, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "uav_mission_contacts_total",
		Help: "Upload attempts, labeled by policy and outcome.",
	}, []string{"policy", "outcome"}), "uav_mission_contacts_total")
	if err != nil {
		return nil, err
	}
	runs, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "uav_mission_runs_total",
		Help: "Finished missions, labeled by policy and termination reason.",
	}, []string{"policy", "reason"}), "uav_mission_runs_total")
	if err != nil {
		return nil, err
	}
	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "uav_mission_run_duration_seconds",
		Help:    "Wall-clock time spent simulating one mission.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
	}, []string{"policy"}), "uav_mission_run_duration_seconds")
	if err != nil {
		return nil, err
	}
	aoiAvg, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "uav_mission_aoi_avg_seconds",
		Help: "Average AoI after the latest step, labeled by policy.",
	}, []string{"policy"}), "uav_mission_aoi_avg_seconds")
	if err != nil {
		return nil, err
	}
	energy, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "uav_mission_energy_wh",
		Help: "Cumulative energy after the latest step, labeled by policy.",
	}, []string{"policy"}), "uav_mission_energy_wh")
	if err != nil {
		return nil, err
	}
	active, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "uav_mission_active_runs",
		Help: "Missions currently being simulated.",
	}), "uav_mission_active_runs")
	if err != nil {
		return nil, err
	}
	writerErrors, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "uav_mission_writer_errors_total",
		Help: "Rows a sink failed to write.",
	}), "uav_mission_writer_errors_total")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:     gatherer,
		Steps:        steps,
		Contacts:     contacts,
		Runs:         runs,
		RunDurations: durations,
		AoIAvg:       aoiAvg,
		EnergyWh:     energy,
		ActiveRuns:   active,
		WriterErrors: writerErrors,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// RunStarted marks a mission as in flight.
func (c *Collector) RunStarted() {
	if c == nil {
		return
	}
	c.ActiveRuns.Inc()
}

// ObserveStep records one mission step.
func (c *Collector) ObserveStep(row telemetry.StepRow) {
	if c == nil {
		return
	}
	c.Steps.WithLabelValues(row.Policy).Inc()
	outcome := "failed"
	if row.Success {
		outcome = "success"
	}
	c.Contacts.WithLabelValues(row.Policy, outcome).Inc()
	c.AoIAvg.WithLabelValues(row.Policy).Set(row.AoIAvg)
	c.EnergyWh.WithLabelValues(row.Policy).Set(row.EnergyWh)
}

// RunFinished records a finished mission and how long it took to simulate.
func (c *Collector) RunFinished(row telemetry.RunRow, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.ActiveRuns.Dec()
	c.Runs.WithLabelValues(row.Policy, row.Reason).Inc()
	c.RunDurations.WithLabelValues(row.Policy).Observe(elapsed.Seconds())
}

// WriterError counts a failed sink write.
func (c *Collector) WriterError() {
	if c == nil {
		return
	}
	c.WriterErrors.Inc()
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}
