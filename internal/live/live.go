// Package live shows the float64 trajectory drifting away from the exact
// one, one iteration at a time, in the terminal.
package live

import (
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/glatard/fuzzy/internal/recurrence"
	"github.com/glatard/fuzzy/internal/stats"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model steps the recurrence in both arithmetics and charts the gap.
type Model struct {
	seed0, seed1 float64
	maxSteps     int
	interval     time.Duration

	k          int
	exactPrev  *big.Rat
	exactCur   *big.Rat
	floatPrev  float64
	floatCur   float64
	exactHist  []float64
	floatHist  []float64
	digitsHist []float64

	running bool
	done    bool
	err     error
}

// NewModel starts from the given seeds and iterates up to maxSteps at the
// given frame rate.
func NewModel(seed0, seed1 float64, maxSteps, fps int) Model {
	if fps <= 0 {
		fps = 4
	}
	m := Model{
		seed0:    seed0,
		seed1:    seed1,
		maxSteps: maxSteps,
		interval: time.Second / time.Duration(fps),
		running:  true,
	}
	m.resetState()
	return m
}

func (m *Model) resetState() {
	m.k = 1
	m.exactPrev = new(big.Rat).SetFloat64(m.seed0)
	m.exactCur = new(big.Rat).SetFloat64(m.seed1)
	m.floatPrev = m.seed0
	m.floatCur = m.seed1
	m.exactHist = []float64{m.seed0, m.seed1}
	m.floatHist = []float64{m.seed0, m.seed1}
	m.digitsHist = []float64{stats.MaxDigits, stats.MaxDigits}
	m.done = false
	m.err = nil
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.resetState()
		}
	case TickMsg:
		if m.running && !m.done {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

// step advances both trajectories by one index.
func (m *Model) step() {
	if m.k+1 >= m.maxSteps {
		m.done = true
		return
	}

	ref, err := recurrence.Reference(m.exactPrev, m.exactCur, 3)
	if err != nil {
		m.err = err
		m.done = true
		return
	}
	exactNext := ref[2]
	floatNext := recurrence.StepFloat(m.floatPrev, m.floatCur)

	m.exactPrev, m.exactCur = m.exactCur, exactNext
	m.floatPrev, m.floatCur = m.floatCur, floatNext
	m.k++

	e, _ := exactNext.Float64()
	m.exactHist = append(m.exactHist, e)
	m.floatHist = append(m.floatHist, floatNext)
	m.digitsHist = append(m.digitsHist, agreementDigits(floatNext, e))
}

// agreementDigits counts the decimal digits on which the two arithmetics
// still agree.
func agreementDigits(f, e float64) float64 {
	if f == e {
		return stats.MaxDigits
	}
	if e == 0 {
		return 0
	}
	d := -math.Log10(math.Abs((f - e) / e))
	return math.Min(math.Max(d, 0), stats.MaxDigits)
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("MULLER RECURRENCE — FLOAT64 VS EXACT") + "\n")

	status := "RUNNING"
	switch {
	case m.err != nil:
		status = fmt.Sprintf("FAILED: %v", m.err)
	case m.done:
		status = "DONE"
	case !m.running:
		status = "PAUSED"
	}
	s.WriteString(status + "\n")

	if len(m.floatHist) > 1 {
		chart := asciigraph.PlotMany(
			[][]float64{m.exactHist, m.floatHist},
			asciigraph.Height(12),
			asciigraph.Width(70),
			asciigraph.Caption("u(k): exact vs float64"),
			asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
		)
		s.WriteString(graphStyle.Render(chart) + "\n")

		digits := asciigraph.Plot(m.digitsHist,
			asciigraph.Height(6),
			asciigraph.Width(70),
			asciigraph.Caption("agreeing decimal digits"),
		)
		s.WriteString(graphStyle.Render(digits) + "\n")
	}

	e, _ := m.exactCur.Float64()
	s.WriteString(labelStyle.Render("Iteration") + valueStyle.Render(fmt.Sprintf("%d / %d", m.k, m.maxSteps-1)) + "\n")
	s.WriteString(labelStyle.Render("Exact u(k)") + valueStyle.Render(fmt.Sprintf("%.10f", e)) + "\n")
	s.WriteString(labelStyle.Render("Float64 u(k)") + valueStyle.Render(fmt.Sprintf("%.10f", m.floatCur)) + "\n")

	digits := m.digitsHist[len(m.digitsHist)-1]
	line := fmt.Sprintf("%.1f", digits)
	if digits < 1 {
		s.WriteString(labelStyle.Render("Digits left") + alertStyle.Render(line+"  (collapsed)") + "\n")
	} else {
		s.WriteString(labelStyle.Render("Digits left") + valueStyle.Render(line) + "\n")
	}

	s.WriteString(helpStyle.Render("SP:Pause  R:Reset  Q:Quit"))
	return s.String()
}
