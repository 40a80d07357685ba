package main

import (
	"cmp"
	"errors"
	"io"
	"os"
	"path/filepath"

	"uav-aoi-sim/internal/config"
	"uav-aoi-sim/internal/sim"
)

// rowWriter receives both the steps and the summaries of runs.
type rowWriter interface {
	sim.StepWriter
	sim.RunWriter
}

// writerOptions selects the files written next to the live output.
type writerOptions struct {
	// Dir receives steps.jsonl and runs.jsonl. Empty disables file output.
	Dir string
	// CSV adds log.csv; only meaningful for a single run.
	CSV bool
	// Archive adds steps.msgpack.zst.
	Archive bool
}

// newWriters sets up the live writer chosen by flags and env vars plus the
// run directory files. The cleanup function closes everything it opened.
func newWriters(cfg *config.Config, printOnly, tui bool, opts writerOptions) (rowWriter, func() error, error) {
	var closers []io.Closer
	cleanup := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i].Close())
		}
		return errors.Join(errs...)
	}

	base, err := baseWriter(cfg, printOnly, tui)
	if err != nil {
		return nil, nil, err
	}
	if c, ok := base.(io.Closer); ok {
		closers = append(closers, c)
	}
	if opts.Dir == "" {
		return base, cleanup, nil
	}

	fail := func(err error) (rowWriter, func() error, error) {
		_ = cleanup()
		return nil, nil, err
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return fail(err)
	}
	fw, err := sim.NewFileWriter(filepath.Join(opts.Dir, "steps.jsonl"), filepath.Join(opts.Dir, "runs.jsonl"))
	if err != nil {
		return fail(err)
	}
	closers = append(closers, fw)
	steps := []sim.StepWriter{base, fw}
	if opts.CSV {
		cw, err := sim.NewCSVWriter(filepath.Join(opts.Dir, "log.csv"))
		if err != nil {
			return fail(err)
		}
		closers = append(closers, cw)
		steps = append(steps, cw)
	}
	if opts.Archive {
		aw, err := sim.NewArchiveWriter(filepath.Join(opts.Dir, "steps"+sim.ArchiveExt))
		if err != nil {
			return fail(err)
		}
		closers = append(closers, aw)
		steps = append(steps, aw)
	}
	return sim.NewMultiWriter(steps, []sim.RunWriter{base, fw}), cleanup, nil
}

// baseWriter chooses the live writer. GreptimeDB is used when
// GREPTIMEDB_ENDPOINT is set; GREPTIMEDB_TABLE and GREPTIMEDB_RUN_TABLE name
// its tables.
func baseWriter(cfg *config.Config, printOnly, tui bool) (rowWriter, error) {
	if tui {
		return sim.NewTUIWriter(cfg), nil
	}
	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	if printOnly || endpoint == "" {
		return sim.NewStdoutWriter(cfg), nil
	}
	database := cmp.Or(os.Getenv("GREPTIMEDB_DATABASE"), "public")
	w, err := sim.NewGreptimeDBWriter(endpoint, database, "", "")
	if err != nil {
		return nil, err
	}
	return w, nil
}
