package sim

import (
	"errors"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"uav-aoi-sim/internal/telemetry"
)

// ArchiveWriter stores step rows as a zstd-compressed msgpack stream. It is
// the compact counterpart of the JSONL log and is read back by ReplayArchive.
type ArchiveWriter struct {
	f   *os.File
	zw  *zstd.Encoder
	enc *msgpack.Encoder
}

// NewArchiveWriter creates the archive at path.
func NewArchiveWriter(path string) (*ArchiveWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		f.Close()
		return nil, err
	}
	enc := msgpack.NewEncoder(zw)
	enc.SetCustomStructTag("json")
	return &ArchiveWriter{f: f, zw: zw, enc: enc}, nil
}

// Write appends one step.
func (a *ArchiveWriter) Write(row telemetry.StepRow) error {
	return a.enc.Encode(&row)
}

// WriteBatch appends multiple steps.
func (a *ArchiveWriter) WriteBatch(rows []telemetry.StepRow) error {
	for i := range rows {
		if err := a.enc.Encode(&rows[i]); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes the compressor and closes the file.
func (a *ArchiveWriter) Close() error {
	err := a.zw.Close()
	if e := a.f.Close(); e != nil && err == nil {
		err = e
	}
	return err
}

// readArchive decodes every row of an archive stream, calling fn in order.
func readArchive(r io.Reader, fn func(telemetry.StepRow) error) error {
	zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return err
	}
	defer zr.Close()

	dec := msgpack.NewDecoder(zr)
	dec.SetCustomStructTag("json")
	for {
		var row telemetry.StepRow
		if err := dec.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if err := fn(row); err != nil {
			return err
		}
	}
}
