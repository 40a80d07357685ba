// Writer implementation printing mission steps to STDOUT
package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"

	"golang.org/x/term"

	"uav-aoi-sim/internal/config"
	"uav-aoi-sim/internal/telemetry"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

var policyPalette = []string{colorGreen, colorYellow, colorMagenta, colorCyan, colorBlue, colorRed}

// StdoutWriter prints step and run rows to STDOUT: colorized lines on a
// terminal, JSON otherwise. It is safe for concurrent use by parallel runs.
type StdoutWriter struct {
	cfg      *config.Config
	out      io.Writer
	colorize bool

	mu           sync.Mutex
	once         sync.Once
	policyColors map[string]string
	colorIdx     int
}

// NewStdoutWriter creates a StdoutWriter, colorizing only when STDOUT is a TTY.
func NewStdoutWriter(cfg *config.Config) *StdoutWriter {
	return &StdoutWriter{
		cfg:          cfg,
		out:          os.Stdout,
		colorize:     term.IsTerminal(int(os.Stdout.Fd())),
		policyColors: make(map[string]string),
	}
}

func (w *StdoutWriter) policyColor(name string) string {
	if c, ok := w.policyColors[name]; ok {
		return c
	}
	c := policyPalette[w.colorIdx%len(policyPalette)]
	w.policyColors[name] = c
	w.colorIdx++
	return c
}

func (w *StdoutWriter) printOverview() {
	if w.cfg == nil {
		return
	}
	c := w.cfg
	fmt.Fprintln(w.out, "Mission Configuration:")
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Nodes:\t%d\n", c.N)
	fmt.Fprintf(tw, "Field (m):\t%.0f x %.0f\n", c.FieldSize[0], c.FieldSize[1])
	fmt.Fprintf(tw, "Mission time (s):\t%.0f\n", c.MissionTimeS)
	fmt.Fprintf(tw, "Battery (Wh):\t%.1f\n", c.UAV.BatteryWh)
	fmt.Fprintf(tw, "Speed (m/s):\t%.1f\n", c.UAV.SpeedMps)
	fmt.Fprintf(tw, "Payload (bits):\t%.0f\n", c.PayloadBits)
	fmt.Fprintf(tw, "Comm radius (m):\t%.0f\n", c.Radio.CommRadiusM)
	fmt.Fprintf(tw, "Policy:\t%s (greedy=%t)\n", c.Policy, c.GreedyMode)
	fmt.Fprintf(tw, "Seed:\t%d\n", c.Seed)
	tw.Flush()
	fmt.Fprintln(w.out)
}

// Write outputs a single step row.
func (w *StdoutWriter) Write(row telemetry.StepRow) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.colorize {
		return w.writeJSON(row)
	}
	w.once.Do(w.printOverview)

	status := colorGreen + "ok" + colorReset
	if !row.Success {
		status = colorRed + "miss" + colorReset
	}
	pc := w.policyColor(row.Policy)
	_, err := fmt.Fprintf(w.out, "%s[t=%9.1fs]%s %s%s%s %sstep=%d%s node=%d %s %senergy=%.3fWh%s %spos=(%.1f,%.1f)%s %saoi_avg=%.1f aoi_max=%.1f%s\n",
		colorGray, row.TimeS, colorReset,
		pc, row.Policy, colorReset,
		colorBlue, row.Step, colorReset,
		row.ServedNode, status,
		colorYellow, row.EnergyWh, colorReset,
		colorCyan, row.UAVX, row.UAVY, colorReset,
		colorMagenta, row.AoIAvg, row.AoIMax, colorReset)
	return err
}

// WriteBatch outputs multiple step rows.
func (w *StdoutWriter) WriteBatch(rows []telemetry.StepRow) error {
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteRun prints a run summary.
func (w *StdoutWriter) WriteRun(row telemetry.RunRow) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.colorize {
		return w.writeJSON(row)
	}
	pc := w.policyColor(row.Policy)
	_, err := fmt.Fprintf(w.out, "%sRUN%s %s%s%s run=%s N=%d reason=%s steps=%d avg_aoi=%.2f p99_aoi=%.2f energy=%.3fWh contacts=%d\n",
		colorBlue, colorReset, pc, row.Policy, colorReset,
		row.RunID, row.N, row.Reason, row.Steps, row.AvgAoI, row.P99AoI, row.TotalEnergyWh, row.SuccessfulContacts)
	return err
}

func (w *StdoutWriter) writeJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w.out, string(data))
	return err
}
