package main

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"time"

	"uav-aoi-sim/internal/admin"
	"uav-aoi-sim/internal/config"
	"uav-aoi-sim/internal/logging"
	"uav-aoi-sim/internal/observability"
	"uav-aoi-sim/internal/report"
	"uav-aoi-sim/internal/sim"
	"uav-aoi-sim/internal/telemetry"
)

// runDirLayout names the directory of a single run.
const runDirLayout = "20060102_150405"

// session holds what every simulating command needs: writers, metrics, the
// runner and the optional admin server.
type session struct {
	runner  *sim.Runner
	writer  rowWriter
	cleanup func() error

	stopAdmin context.CancelFunc
	adminDone chan struct{}
}

func newSession(ctx context.Context, cfg *config.Config, opts writerOptions) (*session, error) {
	w, cleanup, err := newWriters(cfg, printOnly, useTUI, opts)
	if err != nil {
		return nil, err
	}
	collector, err := observability.NewCollector(nil)
	if err != nil {
		_ = cleanup()
		return nil, err
	}
	s := &session{runner: sim.NewRunner(w, w, collector), writer: w, cleanup: cleanup}
	if adminAddr != "" {
		s.startAdmin(ctx, cfg, collector)
	}
	return s, nil
}

func (s *session) startAdmin(ctx context.Context, cfg *config.Config, collector *observability.Collector) {
	ctx, s.stopAdmin = context.WithCancel(ctx)
	s.adminDone = make(chan struct{})
	log := logging.FromContext(ctx)
	status, _ := s.writer.(sim.AdminStatusWriter)
	srv := admin.NewServer(s.runner.Registry(), cfg, collector.Handler())
	go func() {
		defer close(s.adminDone)
		err := srv.Start(ctx, adminAddr, func(addr net.Addr) {
			log.Info("admin server listening", "addr", addr.String())
			if status != nil {
				status.SetAdminStatus(true)
			}
		})
		if status != nil {
			status.SetAdminStatus(false)
		}
		if err != nil {
			log.Error("admin server stopped", "err", err)
		}
	}()
}

// Close stops the admin server and closes the writers.
func (s *session) Close() error {
	if s.stopAdmin != nil {
		s.stopAdmin()
		<-s.adminDone
	}
	return s.cleanup()
}

// saveExperiment writes the report of an experiment: its own CSV, runs.csv,
// a workbook with both sheets and the resolved config.
func saveExperiment(ctx context.Context, dir string, cfg *config.Config, tbl report.Table, rows []telemetry.RunRow) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	runs := report.RunsTable(rows)
	err := errors.Join(
		report.WriteCSV(filepath.Join(dir, tbl.Name+".csv"), tbl),
		report.WriteCSV(filepath.Join(dir, "runs.csv"), runs),
		report.WriteXLSX(filepath.Join(dir, tbl.Name+".xlsx"), tbl, runs),
		config.Save(filepath.Join(dir, "resolved_config.yaml"), cfg),
	)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Info("results saved", "dir", dir, "report", tbl.Name+".csv", "runs", len(rows))
	return nil
}

// stamp is the name of a run directory started at t.
func stamp(t time.Time) string { return t.Format(runDirLayout) }
