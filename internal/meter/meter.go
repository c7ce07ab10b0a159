// Package meter is a terminal view of the gate's visualizer tap with a few
// live parameter controls.
package meter

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cwbudde/algo-gate/dsp/core"
	"github.com/cwbudde/algo-gate/dsp/gate"
	"github.com/cwbudde/algo-gate/dsp/gate/param"
)

// RefreshRate is how often the view polls the tap.
const RefreshRate = 30

const (
	barWidth  = 32
	depthStep = 5
	meterDBs  = 48.0
)

// Source is read on every refresh. [gate.VisualizerTap] implements it.
type Source interface {
	Snapshot() gate.Snapshot
}

type tickMsg time.Time

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	onStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))
	offStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	currentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Width(8)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	bypassStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true)
)

// Model is the bubbletea model of the meter.
type Model struct {
	src    Source
	store  *param.Store
	title  string
	status func() string

	snap   gate.Snapshot
	values param.Values
}

// New returns a meter reading src. store, if non-nil, receives key-driven
// parameter changes; status, if non-nil, supplies an extra status line.
func New(src Source, store *param.Store, title string, status func() string) Model {
	m := Model{src: src, store: store, title: title, status: status, values: param.Defaults()}
	m.refresh()
	return m
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/RefreshRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) refresh() {
	if m.src != nil {
		m.snap = m.src.Snapshot()
	}
	if m.store != nil {
		m.values = m.store.Load()
	}
}

// Init starts the refresh timer.
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles refresh ticks and key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.refresh()
		return m, tick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	}
	if m.store == nil {
		return m, nil
	}

	v := m.store.Load()
	switch msg.String() {
	case "b":
		m.store.Set(param.Bypass, boolValue(!v.Bypass))
	case "p", "right":
		m.store.Set(param.Pattern, float64((v.Pattern+1)%(param.PatternCustom+1)))
	case "P", "left":
		m.store.Set(param.Pattern, float64((v.Pattern+param.PatternCustom)%(param.PatternCustom+1)))
	case "up":
		m.store.Set(param.Depth, v.Depth+depthStep)
	case "down":
		m.store.Set(param.Depth, v.Depth-depthStep)
	case "r":
		m.store.Set(param.Rate, float64((v.Rate+1)%len(param.RateChoices)))
	}
	m.refresh()
	return m, nil
}

// View renders the meter.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title) + "\n\n")
	b.WriteString(labelStyle.Render("Steps") + StepRow(m.snap, m.values.Steps) + "\n")
	b.WriteString(labelStyle.Render("Gate") + Bar(m.snap.GateLevel, barWidth) +
		fmt.Sprintf(" %3.0f%%\n", 100*m.snap.GateLevel))
	b.WriteString(labelStyle.Render("Output") + Bar(LevelToMeter(m.snap.OutputLevel), barWidth) +
		fmt.Sprintf(" %s\n", formatDB(m.snap.OutputLevel)))
	b.WriteString("\n")

	line := fmt.Sprintf("Pattern %s  Rate %s  Depth %.0f%%  Mix %.0f%%",
		gate.PresetName(m.values.Pattern), param.RateChoices[m.values.Rate], m.values.Depth, m.values.Mix)
	b.WriteString(line)
	if m.values.Bypass {
		b.WriteString("  " + bypassStyle.Render("BYPASS"))
	}
	b.WriteString("\n")
	if m.status != nil {
		b.WriteString(m.status() + "\n")
	}

	help := "q: quit"
	if m.store != nil {
		help = "p/P or ←→: pattern • ↑↓: depth • r: rate • b: bypass • q: quit"
	}
	b.WriteString("\n" + helpStyle.Render(help) + "\n")
	return b.String()
}

// StepRow renders the first steps cells of the snapshot's pattern with the
// current step highlighted.
func StepRow(s gate.Snapshot, steps int) string {
	steps = min(max(steps, 1), gate.MaxSteps)
	p := gate.Pattern(s.StepPattern)

	var b strings.Builder
	for i := 0; i < steps; i++ {
		cell, style := " · ", offStyle
		if p.StepOn(i) {
			cell, style = " ● ", onStyle
		}
		if i == s.CurrentStep {
			style = currentStyle
		}
		b.WriteString(style.Render(cell))
	}
	return b.String()
}

// Bar renders a horizontal bar filled to fraction of width.
func Bar(fraction float64, width int) string {
	fraction = core.ClampOr(fraction, 0, 1, 0)
	filled := int(math.Round(fraction * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// LevelToMeter maps a linear peak to a [0, 1] meter position over the top
// 48 dB.
func LevelToMeter(level float64) float64 {
	if !(level > 0) {
		return 0
	}
	return core.Clamp(1+core.LinearToDB(level)/meterDBs, 0, 1)
}

func formatDB(level float64) string {
	if !(level > 0) {
		return "-inf dB"
	}
	return fmt.Sprintf("%+.1f dB", core.LinearToDB(level))
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
