package sim

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"uav-aoi-sim/internal/config"
	"uav-aoi-sim/internal/telemetry"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// logMsg carries a log line for the viewport.
type logMsg struct{ line string }

// stepMsg carries the latest step of any run.
type stepMsg struct{ telemetry.StepRow }

// runMsg carries a finished run.
type runMsg struct {
	line string
	row  telemetry.RunRow
}

// adminMsg reports admin server status.
type adminMsg struct{ active bool }

const maxLogLines = 1000

// TUIWriter renders mission steps using a bubbletea TUI.
type TUIWriter struct {
	program      teaProgram
	mu           sync.Mutex
	policyColors map[string]string
	colorIdx     int
	done         chan struct{}
	sendSignal   atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter. Quitting
// the TUI interrupts the process so that running missions are cancelled.
func NewTUIWriter(cfg *config.Config) *TUIWriter {
	pc := make(map[string]string)
	w := &TUIWriter{policyColors: pc, done: make(chan struct{})}
	w.sendSignal.Store(true)
	w.policyColor(cfg.Policy)
	m := newTUIModel(cfg)
	p := tea.NewProgram(m, tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

func (w *TUIWriter) policyColor(name string) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if c, ok := w.policyColors[name]; ok {
		return c
	}
	c := policyPalette[w.colorIdx%len(policyPalette)]
	w.policyColors[name] = c
	w.colorIdx++
	return c
}

// Write implements StepWriter.
func (w *TUIWriter) Write(row telemetry.StepRow) error {
	status := colorGreen + "ok" + colorReset
	if !row.Success {
		status = colorRed + "miss" + colorReset
	}
	line := fmt.Sprintf("%s[t=%9.1fs]%s %s%s%s %srun=%s%s %sstep=%d%s node=%d %s %senergy=%.3fWh%s %spos=(%.1f,%.1f)%s %saoi_avg=%.1f%s %saoi_max=%.1f%s",
		colorGray, row.TimeS, colorReset,
		w.policyColor(row.Policy), row.Policy, colorReset,
		colorGray, shortID(row.RunID), colorReset,
		colorBlue, row.Step, colorReset,
		row.ServedNode, status,
		colorYellow, row.EnergyWh, colorReset,
		colorCyan, row.UAVX, row.UAVY, colorReset,
		colorMagenta, row.AoIAvg, colorReset,
		colorRed, row.AoIMax, colorReset,
	)
	w.program.Send(logMsg{line: line})
	w.program.Send(stepMsg{row})
	return nil
}

// WriteBatch outputs multiple step rows.
func (w *TUIWriter) WriteBatch(rows []telemetry.StepRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteRun implements RunWriter.
func (w *TUIWriter) WriteRun(row telemetry.RunRow) error {
	line := fmt.Sprintf("%s%s%s run=%s N=%d reason=%s avg_aoi=%.2f energy=%.3fWh",
		w.policyColor(row.Policy), row.Policy, colorReset,
		shortID(row.RunID), row.N, row.Reason, row.AvgAoI, row.TotalEnergyWh)
	w.program.Send(runMsg{line: line, row: row})
	return nil
}

// SetAdminStatus updates the admin server indicator.
func (w *TUIWriter) SetAdminStatus(active bool) {
	w.program.Send(adminMsg{active: active})
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

type tuiModel struct {
	cfg          *config.Config
	table        table.Model
	vp           viewport.Model
	logs         []string
	runLines     []string
	runs         []telemetry.RunRow
	last         telemetry.StepRow
	haveStep     bool
	steps        int
	contacts     int
	admin        bool
	wrap         bool
	autoscroll   bool
	header       string
	headerHeight int
	height       int
	summary      bool
	help         bool
	showRuns     bool
}

func newTUIModel(cfg *config.Config) tuiModel {
	cols := []table.Column{
		{Title: "Config", Width: 18},
		{Title: "Value", Width: 12},
		{Title: "Config", Width: 18},
		{Title: "Value", Width: 12},
	}
	rows := []table.Row{
		{"Nodes", fmt.Sprintf("%d", cfg.N), "Field (m)", fmt.Sprintf("%.0fx%.0f", cfg.FieldSize[0], cfg.FieldSize[1])},
		{"Mission Time (s)", fmt.Sprintf("%.0f", cfg.MissionTimeS), "Battery (Wh)", fmt.Sprintf("%.1f", cfg.UAV.BatteryWh)},
		{"Speed (m/s)", fmt.Sprintf("%.1f", cfg.UAV.SpeedMps), "Payload (bits)", fmt.Sprintf("%.0f", cfg.PayloadBits)},
		{"Policy", cfg.Policy, "Greedy", fmt.Sprintf("%t", cfg.GreedyMode)},
		{"Comm Radius (m)", fmt.Sprintf("%.0f", cfg.Radio.CommRadiusM), "Seed", fmt.Sprintf("%d", cfg.Seed)},
	}
	t := table.New(table.WithColumns(cols), table.WithRows(rows), table.WithHeight(len(rows)+1))
	return tuiModel{
		cfg:        cfg,
		table:      t,
		vp:         viewport.New(0, 0),
		autoscroll: true,
		showRuns:   true,
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		tableWidth := msg.Width
		if m.showRuns {
			tableWidth = msg.Width / 2
		}
		m.table.SetWidth(tableWidth)
		m.vp.Width = msg.Width
		m.height = msg.Height
		m.refreshHeader()
		m.updateViewportHeight()
		m.refreshViewport()
	case tea.KeyMsg:
		if m.help {
			switch msg.String() {
			case "?", "h", "esc":
				m.help = false
				m.updateViewportHeight()
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
			m.refreshHeader()
			m.updateViewportHeight()
			return m, nil
		case "s":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.vp.GotoBottom()
			}
			return m, nil
		case "p":
			m.showRuns = !m.showRuns
			if m.showRuns {
				m.table.SetWidth(m.vp.Width / 2)
			} else {
				m.table.SetWidth(m.vp.Width)
			}
			m.refreshHeader()
			m.updateViewportHeight()
			return m, nil
		case "t":
			m.summary = !m.summary
			m.updateViewportHeight()
			return m, nil
		case "h", "?":
			m.help = !m.help
			m.updateViewportHeight()
			return m, nil
		}
		if !m.autoscroll {
			switch msg.String() {
			case "j", "down":
				m.vp.LineDown(1)
			case "k", "up":
				m.vp.LineUp(1)
			case "pgdown", "ctrl+n":
				m.vp.LineDown(10)
			case "pgup", "ctrl+p":
				m.vp.LineUp(10)
			default:
				var cmd tea.Cmd
				m.vp, cmd = m.vp.Update(msg)
				return m, cmd
			}
		}
		return m, nil
	case logMsg:
		m.logs = append(m.logs, msg.line)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		m.refreshViewport()
	case stepMsg:
		m.last = msg.StepRow
		m.haveStep = true
		m.steps++
		if msg.Success {
			m.contacts++
		}
	case runMsg:
		m.runs = append(m.runs, msg.row)
		m.runLines = append(m.runLines, msg.line)
		m.refreshHeader()
		m.updateViewportHeight()
	case adminMsg:
		m.admin = msg.active
	}
	return m, nil
}

func (m *tuiModel) refreshHeader() {
	m.header = m.renderHeader()
	m.headerHeight = lipgloss.Height(m.header)
}

func (m *tuiModel) updateViewportHeight() {
	bottomHeight := lipgloss.Height(m.renderBottom())
	h := m.height - m.headerHeight - bottomHeight - 2
	if h < 0 {
		h = 0
	}
	m.vp.Height = h
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) refreshViewport() {
	var lines []string
	for _, l := range m.logs {
		if m.wrap {
			lines = append(lines, wordwrap.String(l, m.vp.Width))
		} else {
			lines = append(lines, l)
		}
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m tuiModel) View() string {
	if m.help {
		return m.renderHelp()
	}
	divider := strings.Repeat("─", m.vp.Width)
	sections := []string{
		m.header,
		divider,
		m.vp.View(),
		divider,
		m.renderBottom(),
	}
	return strings.Join(sections, "\n")
}

func (m tuiModel) renderHeader() string {
	tableView := m.table.View()
	if !m.showRuns {
		return tableView
	}
	runs := renderRunTree(m.runLines, m.wrap, m.vp.Width/2-1)
	sep := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("│")
	return lipgloss.JoinHorizontal(lipgloss.Top, tableView, sep, runs)
}

// renderRunTree lists the most recent finished runs.
func renderRunTree(lines []string, wrap bool, width int) string {
	const keep = 6
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	var b strings.Builder
	b.WriteString("Runs\n")
	if len(lines) == 0 {
		b.WriteString("└─ none")
	}
	for i, l := range lines {
		prefix := "├─"
		if i == len(lines)-1 {
			prefix = "└─"
		}
		line := prefix + " " + l
		if wrap && width > 0 {
			line = wordwrap.String(line, width)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m tuiModel) renderSummary() string {
	ratio := 0.0
	if m.steps > 0 {
		ratio = float64(m.contacts) / float64(m.steps) * 100
	}
	var meanAoI float64
	for _, r := range m.runs {
		meanAoI += r.AvgAoI
	}
	if len(m.runs) > 0 {
		meanAoI /= float64(len(m.runs))
	}
	return fmt.Sprintf("%sSUMMARY%s %ssteps=%d%s %scontacts=%d(%.0f%%)%s %sruns=%d%s %smean_avg_aoi=%.2f%s",
		colorBlue, colorReset,
		colorGreen, m.steps, colorReset,
		colorCyan, m.contacts, ratio, colorReset,
		colorYellow, len(m.runs), colorReset,
		colorMagenta, meanAoI, colorReset)
}

func indicator(on bool) string {
	c := lipgloss.Color("9")
	if on {
		c = lipgloss.Color("10")
	}
	return lipgloss.NewStyle().Foreground(c).Render("●")
}

func (m tuiModel) renderBottom() string {
	state := fmt.Sprintf("%sSTATE%s waiting for first step", colorBlue, colorReset)
	if m.haveStep {
		batt := 0.0
		if m.cfg.UAV.BatteryWh > 0 {
			batt = 100 * (1 - m.last.EnergyWh/m.cfg.UAV.BatteryWh)
		}
		state = fmt.Sprintf("%sSTATE%s %st=%.1fs%s %senergy=%.3fWh%s %sbatt=%.1f%%%s %saoi_avg=%.1f%s %saoi_max=%.1f%s",
			colorBlue, colorReset,
			colorGray, m.last.TimeS, colorReset,
			colorYellow, m.last.EnergyWh, colorReset,
			colorCyan, batt, colorReset,
			colorMagenta, m.last.AoIAvg, colorReset,
			colorRed, m.last.AoIMax, colorReset)
	}
	line := fmt.Sprintf("%s | Admin %s | Wrap %s | Scroll %s | Summary %s | Help %s | Runs %s",
		state, indicator(m.admin), indicator(m.wrap), indicator(m.autoscroll),
		indicator(m.summary), indicator(m.help), indicator(m.showRuns))
	if m.summary {
		return fmt.Sprintf("%s\n%s", m.renderSummary(), line)
	}
	return line
}

func (m tuiModel) renderHelp() string {
	lines := []string{
		"Key Bindings:",
		" q  quit",
		" w  toggle wrap",
		" s  toggle auto-scroll",
		" t  toggle summary footer",
		" p  toggle finished runs panel",
		" h/? toggle this help view",
		"",
		"When auto-scroll is disabled:",
		" j/k or up/down    scroll one line",
		" pgdown/pgup       scroll a page",
	}
	return strings.Join(lines, "\n")
}
