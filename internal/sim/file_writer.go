package sim

import (
	"encoding/json"
	"os"

	"uav-aoi-sim/internal/telemetry"
)

// FileWriter writes step and run rows to JSONL files.
type FileWriter struct {
	stepFile *os.File
	runFile  *os.File
	stepEnc  *json.Encoder
	runEnc   *json.Encoder
}

// NewFileWriter creates a FileWriter. runPath may be empty to skip run summaries.
func NewFileWriter(stepPath, runPath string) (*FileWriter, error) {
	sf, err := os.Create(stepPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{stepFile: sf, stepEnc: json.NewEncoder(sf)}
	if runPath != "" {
		rf, err := os.Create(runPath)
		if err != nil {
			sf.Close()
			return nil, err
		}
		fw.runFile = rf
		fw.runEnc = json.NewEncoder(rf)
	}
	return fw, nil
}

// Write logs a single step row.
func (f *FileWriter) Write(row telemetry.StepRow) error {
	return f.stepEnc.Encode(row)
}

// WriteBatch logs multiple step rows.
func (f *FileWriter) WriteBatch(rows []telemetry.StepRow) error {
	for _, r := range rows {
		if err := f.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteRun logs a run summary, if enabled.
func (f *FileWriter) WriteRun(row telemetry.RunRow) error {
	if f.runEnc == nil {
		return nil
	}
	return f.runEnc.Encode(row)
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.stepFile != nil {
		if e := f.stepFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.runFile != nil {
		if e := f.runFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
