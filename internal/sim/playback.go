package sim

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"time"

	"uav-aoi-sim/internal/telemetry"
)

// ArchiveExt marks files written by ArchiveWriter.
const ArchiveExt = ".msgpack.zst"

// pacer sleeps between rows so that a replay follows the mission clock.
type pacer struct {
	speed float64
	prev  time.Time
}

func (p *pacer) wait(ts time.Time) {
	if !p.prev.IsZero() && p.speed > 0 {
		diff := ts.Sub(p.prev)
		if p.speed != 1 {
			diff = time.Duration(float64(diff) / p.speed)
		}
		if diff > 0 {
			time.Sleep(diff)
		}
	}
	p.prev = ts
}

// ReplayLog replays JSONL step rows from r to writer. A speed >0 paces the
// rows by their timestamps divided by speed. If speed <= 0, no artificial
// delay is inserted.
func ReplayLog(r io.Reader, writer StepWriter, speed float64) error {
	dec := json.NewDecoder(r)
	p := &pacer{speed: speed}
	for {
		var row telemetry.StepRow
		if err := dec.Decode(&row); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		p.wait(row.Timestamp)
		if err := writer.Write(row); err != nil {
			return err
		}
	}
}

// ReplayArchive is ReplayLog for archives written by ArchiveWriter.
func ReplayArchive(r io.Reader, writer StepWriter, speed float64) error {
	p := &pacer{speed: speed}
	return readArchive(r, func(row telemetry.StepRow) error {
		p.wait(row.Timestamp)
		return writer.Write(row)
	})
}

// ReplayLogFile opens a file and replays its step rows. Archives are
// recognized by their extension.
func ReplayLogFile(path string, writer StepWriter, speed float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if strings.HasSuffix(path, ArchiveExt) {
		return ReplayArchive(f, writer, speed)
	}
	return ReplayLog(f, writer, speed)
}

// collector buffers rows in memory.
type collector struct{ rows []telemetry.StepRow }

func (c *collector) Write(r telemetry.StepRow) error {
	c.rows = append(c.rows, r)
	return nil
}

// LoadLogFile reads every step row of a JSONL log or archive.
func LoadLogFile(path string) ([]telemetry.StepRow, error) {
	c := &collector{}
	if err := ReplayLogFile(path, c, 0); err != nil {
		return nil, err
	}
	return c.rows, nil
}
