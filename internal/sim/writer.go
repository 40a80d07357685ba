package sim

import "uav-aoi-sim/internal/telemetry"

// StepWriter receives one row per mission step.
type StepWriter interface {
	Write(telemetry.StepRow) error
}

// Optional: step writers may support batch mode.
type batchWriter interface {
	WriteBatch([]telemetry.StepRow) error
}

// RunWriter receives the summary row of every finished mission.
type RunWriter interface {
	WriteRun(telemetry.RunRow) error
}

// AdminStatusWriter allows writers to receive admin server status updates.
type AdminStatusWriter interface {
	SetAdminStatus(listening bool)
}

// writeAll sends rows to w, using batch mode when supported.
func writeAll(w StepWriter, rows []telemetry.StepRow) error {
	if bw, ok := w.(batchWriter); ok {
		return bw.WriteBatch(rows)
	}
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// NopWriter discards everything.
type NopWriter struct{}

func (NopWriter) Write(telemetry.StepRow) error   { return nil }
func (NopWriter) WriteRun(telemetry.RunRow) error { return nil }
