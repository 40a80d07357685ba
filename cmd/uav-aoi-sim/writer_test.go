package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"uav-aoi-sim/internal/config"
	"uav-aoi-sim/internal/sim"
	"uav-aoi-sim/internal/telemetry"
)

func TestNewWritersPrintOnly(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "localhost:4001")
	w, cleanup, err := newWriters(config.Default(), true, false, writerOptions{})
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	defer cleanup()
	if _, ok := w.(*sim.StdoutWriter); !ok {
		t.Fatalf("expected *sim.StdoutWriter, got %T", w)
	}
}

func TestNewWritersGreptimeFallback(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	w, cleanup, err := newWriters(config.Default(), false, false, writerOptions{})
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	defer cleanup()
	if _, ok := w.(*sim.StdoutWriter); !ok {
		t.Fatalf("expected *sim.StdoutWriter, got %T", w)
	}
}

func TestNewWritersRunDir(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	dir := filepath.Join(t.TempDir(), "run")
	w, cleanup, err := newWriters(config.Default(), true, false, writerOptions{Dir: dir, CSV: true, Archive: true})
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	if _, ok := w.(*sim.MultiWriter); !ok {
		t.Fatalf("expected *sim.MultiWriter, got %T", w)
	}
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	row := telemetry.StepRow{RunID: "r1", Policy: "AWN", Step: 1, TimeS: 2, EnergyWh: 0.5, Timestamp: ts}
	if err := w.Write(row); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := w.WriteRun(telemetry.RunRow{RunID: "r1", Policy: "AWN", Timestamp: ts}); err != nil {
		t.Fatalf("write run failed: %v", err)
	}
	if err := cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	for _, name := range []string{"steps.jsonl", "runs.jsonl", "log.csv", "steps" + sim.ArchiveExt} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("stat %s: %v", name, err)
		}
		if info.Size() == 0 {
			t.Fatalf("expected %s to be non-empty", name)
		}
	}
	rows, err := sim.LoadLogFile(filepath.Join(dir, "steps"+sim.ArchiveExt))
	if err != nil {
		t.Fatalf("load archive: %v", err)
	}
	if len(rows) != 1 || rows[0].RunID != "r1" {
		t.Fatalf("archive rows = %+v", rows)
	}
}

func TestNewWritersBadEndpoint(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "localhost:notaport")
	if _, _, err := newWriters(config.Default(), false, false, writerOptions{}); err == nil {
		t.Fatal("expected error for bad endpoint")
	}
}
