package sim

import (
	"encoding/csv"
	"os"

	"uav-aoi-sim/internal/metrics"
	"uav-aoi-sim/internal/telemetry"
)

// CSVWriter writes the step log in the log.csv layout read by summarize.
type CSVWriter struct {
	f *os.File
	w *csv.Writer
}

// NewCSVWriter creates path and writes the header row.
func NewCSVWriter(path string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(f)
	if err := w.Write(metrics.Header); err != nil {
		f.Close()
		return nil, err
	}
	return &CSVWriter{f: f, w: w}, nil
}

// Write appends one step.
func (c *CSVWriter) Write(row telemetry.StepRow) error {
	return c.w.Write(metrics.Record(row))
}

// WriteBatch appends rows and flushes.
func (c *CSVWriter) WriteBatch(rows []telemetry.StepRow) error {
	for _, r := range rows {
		if err := c.Write(r); err != nil {
			return err
		}
	}
	c.w.Flush()
	return c.w.Error()
}

// Close flushes buffered rows and closes the file.
func (c *CSVWriter) Close() error {
	c.w.Flush()
	err := c.w.Error()
	if e := c.f.Close(); e != nil && err == nil {
		err = e
	}
	return err
}
