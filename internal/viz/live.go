package viz

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/isottongloria/LivingSysPhys/internal/logistic"
)

const (
	liveWidth       = 80
	liveHeight      = 16
	historyCapacity = 600
	stepsPerFrame   = 10
)

var (
	liveHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	liveGraphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	liveStatStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	liveHelpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	extinctStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

type TickMsg time.Time

// Model steps a single stochastic trajectory at a fixed frame rate.
type Model struct {
	sim       *logistic.Simulator
	walker    *logistic.Walker
	history   []float64
	frameRate int
	running   bool
	resets    int
}

// NewModel initializes the live view for the given simulator.
func NewModel(sim *logistic.Simulator, frameRate int) Model {
	if frameRate < 1 {
		frameRate = 30
	}
	w := sim.Walker(0)
	return Model{
		sim:       sim,
		walker:    w,
		history:   []float64{w.Population()},
		frameRate: frameRate,
		running:   true,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.frameRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
			if m.running {
				return m, m.tick()
			}
			return m, nil
		case "r":
			// restart on a fresh stream so runs differ
			m.resets++
			m.walker = m.sim.Walker(m.resets)
			m.history = []float64{m.walker.Population()}
			if !m.running {
				m.running = true
				return m, m.tick()
			}
			return m, nil
		}
	case TickMsg:
		if !m.running {
			return m, nil
		}
		for i := 0; i < stepsPerFrame; i++ {
			m.history = append(m.history, m.walker.Next())
		}
		if len(m.history) > historyCapacity {
			m.history = m.history[len(m.history)-historyCapacity:]
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) View() string {
	cfg := m.sim.Config()
	header := liveHeaderStyle.Render(fmt.Sprintf(
		"stochastic logistic, %s noise  r=%.2f K=%.0f sigma=%.2f dt=%.3f",
		cfg.Regime, cfg.R, cfg.K, cfg.Sigma, cfg.Dt,
	))

	graph := liveGraphStyle.Render(asciigraph.Plot(m.history,
		asciigraph.Height(liveHeight),
		asciigraph.Width(liveWidth),
		asciigraph.Caption("population n(t)"),
	))

	status := liveStatStyle.Render(fmt.Sprintf(
		"t=%.2f  n=%.3f  steps=%d", m.walker.Time(), m.walker.Population(), m.walker.Step(),
	))
	if m.walker.Extinct() {
		status += "  " + extinctStyle.Render("EXTINCT")
	}
	if !m.running {
		status += "  (paused)"
	}

	help := liveHelpStyle.Render("space: pause/resume   r: restart   q: quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, graph, status, help)
}
