package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/simedcn/Langevin-GJI-2020/internal/sampler"
)

const (
	graphWidth      = 70
	graphHeight     = 12
	historyCapacity = 600
)

type TickMsg time.Time

type snapshot struct {
	chain    int
	step     int
	x0       float64
	tau      float64
	accepted bool
}

// chanObserver forwards sampler steps into the UI without ever blocking the
// chain: when the buffer is full the frame is simply dropped.
type chanObserver struct {
	ch chan<- snapshot
}

func (o chanObserver) OnStep(chain, step int, x sampler.State, tau float64, accepted bool) {
	s := snapshot{chain: chain, step: step, x0: x[0], tau: tau, accepted: accepted}
	select {
	case o.ch <- s:
	default:
	}
}

// Model renders one running chain: a scrolling trace of the first state
// dimension next to a live stats panel.
type Model struct {
	target     string
	totalSteps int

	updates <-chan snapshot
	cancel  context.CancelFunc

	history  []float64
	step     int
	tau      float64
	accepted int
	observed int
	done     bool
}

func NewModel(target string, totalSteps int, updates <-chan snapshot, cancel context.CancelFunc) Model {
	return Model{
		target:     target,
		totalSteps: totalSteps,
		updates:    updates,
		cancel:     cancel,
		history:    make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		}
	case TickMsg:
		m.drain()
		return m, tick()
	}
	return m, nil
}

func (m *Model) drain() {
	for {
		select {
		case s, ok := <-m.updates:
			if !ok {
				m.done = true
				return
			}
			m.step = s.step
			m.tau = s.tau
			m.observed++
			if s.accepted {
				m.accepted++
			}
			m.history = append(m.history, s.x0)
			if len(m.history) > historyCapacity {
				m.history = m.history[len(m.history)-historyCapacity:]
			}
		default:
			return
		}
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("langevin — %s", m.target)))
	b.WriteString("\n")

	graph := "waiting for samples..."
	if len(m.history) > 1 {
		data := m.history
		if len(data) > graphWidth*4 {
			data = data[len(data)-graphWidth*4:]
		}
		graph = asciigraph.Plot(data,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("x0 trace"),
		)
	}

	accRate := 0.0
	if m.observed > 0 {
		accRate = float64(m.accepted) / float64(m.observed) * 100
	}

	var stats strings.Builder
	stats.WriteString(row("step", fmt.Sprintf("%d / %d", m.step+1, m.totalSteps)))
	stats.WriteString(row("tau", fmt.Sprintf("%.6f", m.tau)))
	stats.WriteString(row("accepted", fmt.Sprintf("%.1f%%", accRate)))
	if m.done {
		stats.WriteString(row("status", "finished"))
	} else {
		stats.WriteString(row("status", "sampling"))
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		graphStyle.Render(graph),
		statsStyle.Render(stats.String()),
	))
	b.WriteString(helpStyle.Render("q: quit"))
	return b.String()
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
}

// RunLive samples a single chain in the background while rendering its
// progress. It returns once the user quits or the chain completes.
func RunLive(target string, oracle sampler.Oracle, x0 sampler.State, cfg sampler.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := make(chan snapshot, 1024)

	smp := sampler.New(oracle)
	smp.AddObserver(chanObserver{ch: updates})

	go func() {
		defer close(updates)
		_, _ = smp.Run(ctx, x0, cfg)
	}()

	p := tea.NewProgram(NewModel(target, cfg.Steps, updates, cancel))
	_, err := p.Run()
	return err
}
