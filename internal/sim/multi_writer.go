package sim

import (
	"errors"

	"uav-aoi-sim/internal/telemetry"
)

// MultiWriter fans out step and run rows to multiple writers. A failing
// writer does not starve the others; their errors are joined.
type MultiWriter struct {
	steps []StepWriter
	runs  []RunWriter
}

// NewMultiWriter creates a new MultiWriter. Writers that also implement
// RunWriter may be listed in both slices.
func NewMultiWriter(sws []StepWriter, rws []RunWriter) *MultiWriter {
	return &MultiWriter{steps: sws, runs: rws}
}

// Write sends a step row to all writers.
func (mw *MultiWriter) Write(row telemetry.StepRow) error {
	var errs []error
	for _, w := range mw.steps {
		if err := w.Write(row); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WriteBatch sends multiple step rows to all writers, using batch if supported.
func (mw *MultiWriter) WriteBatch(rows []telemetry.StepRow) error {
	var errs []error
	for _, w := range mw.steps {
		if err := writeAll(w, rows); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WriteRun sends a run summary to all run writers.
func (mw *MultiWriter) WriteRun(row telemetry.RunRow) error {
	var errs []error
	for _, w := range mw.runs {
		if err := w.WriteRun(row); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SetAdminStatus forwards the admin server state to writers that show it.
func (mw *MultiWriter) SetAdminStatus(listening bool) {
	for _, w := range mw.steps {
		if aw, ok := w.(AdminStatusWriter); ok {
			aw.SetAdminStatus(listening)
		}
	}
}
