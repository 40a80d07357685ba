package sim

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"uav-aoi-sim/internal/config"
	"uav-aoi-sim/internal/telemetry"
)

type fakeProgram struct{ msgs []tea.Msg }

func (f *fakeProgram) Send(msg tea.Msg) { f.msgs = append(f.msgs, msg) }

func TestTUIWriterMessages(t *testing.T) {
	p := &fakeProgram{}
	w := &TUIWriter{program: p, policyColors: map[string]string{}}
	if err := w.Write(sampleRows()[0]); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok := p.msgs[0].(logMsg); !ok {
		t.Fatalf("expected logMsg, got %T", p.msgs[0])
	}
	if _, ok := p.msgs[1].(stepMsg); !ok {
		t.Fatalf("expected stepMsg, got %T", p.msgs[1])
	}
	w.SetAdminStatus(true)
	if _, ok := p.msgs[2].(adminMsg); !ok {
		t.Fatalf("expected adminMsg, got %T", p.msgs[2])
	}
	if err := w.WriteRun(telemetry.RunRow{RunID: "0123456789", Policy: "RR"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	rm, ok := p.msgs[3].(runMsg)
	if !ok {
		t.Fatalf("expected runMsg, got %T", p.msgs[3])
	}
	if !strings.Contains(rm.line, "run=01234567 ") {
		t.Fatalf("run id not shortened: %q", rm.line)
	}
}

func TestModelTracksSteps(t *testing.T) {
	m := newTUIModel(config.Default())
	for _, r := range sampleRows() {
		mi, _ := m.Update(stepMsg{r})
		m = mi.(tuiModel)
	}
	if m.steps != 3 || m.contacts != 2 {
		t.Fatalf("steps=%d contacts=%d, want 3 and 2", m.steps, m.contacts)
	}
	if !strings.Contains(m.renderBottom(), "t=41.0s") {
		t.Fatalf("state line does not show the last step: %q", m.renderBottom())
	}
	mi, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	m = mi.(tuiModel)
	if !strings.Contains(m.renderBottom(), "SUMMARY") {
		t.Fatalf("summary footer missing")
	}
}

func TestWrapToggle(t *testing.T) {
	m := newTUIModel(config.Default())
	mi, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 60})
	m = mi.(tuiModel)
	long := "one two three four five six"
	mi, _ = m.Update(logMsg{line: long})
	m = mi.(tuiModel)
	lines := strings.Split(m.vp.View(), "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[1]) != "" {
		t.Fatalf("expected single line before wrap")
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'w'}})
	m = mi.(tuiModel)
	if !m.wrap {
		t.Fatalf("wrap not toggled")
	}
	lines = strings.Split(m.vp.View(), "\n")
	if strings.TrimSpace(lines[1]) == "" {
		t.Fatalf("expected wrapped content on second line")
	}
}

func TestRunTreeWrap(t *testing.T) {
	lines := []string{"alpha beta gamma delta epsilon"}
	flat := renderRunTree(lines, false, 10)
	wrapped := renderRunTree(lines, true, 10)
	if strings.Count(wrapped, "\n") <= strings.Count(flat, "\n") {
		t.Fatalf("expected run line to wrap: %q", wrapped)
	}
	if !strings.Contains(renderRunTree(nil, false, 10), "none") {
		t.Fatalf("empty tree should say none")
	}
}

func TestScrollToggle(t *testing.T) {
	m := newTUIModel(config.Default())
	m.vp.Height = 1
	m.vp.Width = 20
	mi, _ := m.Update(logMsg{line: "l1"})
	m = mi.(tuiModel)
	mi, _ = m.Update(logMsg{line: "l2"})
	m = mi.(tuiModel)
	if m.vp.YOffset != 1 {
		t.Fatalf("expected YOffset 1, got %d", m.vp.YOffset)
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = mi.(tuiModel)
	if m.autoscroll {
		t.Fatalf("autoscroll should be off")
	}
	mi, _ = m.Update(logMsg{line: "l3"})
	m = mi.(tuiModel)
	if m.vp.YOffset != 1 {
		t.Fatalf("expected YOffset unchanged, got %d", m.vp.YOffset)
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = mi.(tuiModel)
	if m.vp.YOffset != 0 {
		t.Fatalf("expected YOffset 0 after scrolling up, got %d", m.vp.YOffset)
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = mi.(tuiModel)
	if !m.autoscroll {
		t.Fatalf("autoscroll should be on")
	}
	expected := len(m.logs) - m.vp.Height
	if m.vp.YOffset != expected {
		t.Fatalf("expected YOffset %d, got %d", expected, m.vp.YOffset)
	}
}
