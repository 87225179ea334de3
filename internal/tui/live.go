// Package tui provides a live terminal view of a running parcel ascent.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/parcelsim/internal/dynamo"
	"github.com/san-kum/parcelsim/internal/parcel"
	"github.com/san-kum/parcelsim/internal/viz"
)

const (
	graphWidth      = 70
	graphHeight     = 10
	historyCapacity = 600
	stepsPerFrame   = 25
)

type TickMsg time.Time

// Model steps the simulation between frames and renders the parcel's
// thermodynamic trajectory.
type Model struct {
	sys        *parcel.System
	integrator dynamo.Integrator
	state      dynamo.State
	forcing    dynamo.Forcing
	t, dt      float64
	duration   float64
	running    bool
	done       bool
	poisoned   bool
	sHistory   []float64
	rHistory   []float64
}

func NewModel(sys *parcel.System, integ dynamo.Integrator, x0 dynamo.State, updraft, dt, duration float64) Model {
	return Model{
		sys:        sys,
		integrator: integ,
		state:      x0.Clone(),
		forcing:    dynamo.Forcing{updraft},
		dt:         dt,
		duration:   duration,
		running:    true,
		sHistory:   make([]float64, 0, historyCapacity),
		rHistory:   make([]float64, 0, historyCapacity),
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		}

	case TickMsg:
		if m.running && !m.done && !m.poisoned {
			for i := 0; i < stepsPerFrame && m.t < m.duration; i++ {
				m.state = m.integrator.Step(m.sys, m.state, m.forcing, m.t, m.dt)
				m.t += m.dt
			}

			if !m.state.IsValid() {
				m.poisoned = true
			}
			if m.t >= m.duration {
				m.done = true
			}

			m.sHistory = appendCapped(m.sHistory, m.state[parcel.IdxSupersaturation]*100)
			m.rHistory = appendCapped(m.rHistory, m.meanRadius()*1e6)
		}
		return m, tick()
	}

	return m, nil
}

func (m Model) meanRadius() float64 {
	pop := m.sys.Population()
	if pop.Len() == 0 {
		return 0
	}
	sum, totalN := 0.0, 0.0
	for i := 0; i < pop.Len(); i++ {
		sum += pop.Number[i] * m.state[parcel.NumScalars+i]
		totalN += pop.Number[i]
	}
	if totalN == 0 {
		return 0
	}
	return sum / totalN
}

func appendCapped(hist []float64, v float64) []float64 {
	if len(hist) >= historyCapacity {
		hist = hist[1:]
	}
	return append(hist, v)
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(viz.HeaderStyle.Render("parcelsim live"))
	b.WriteString("\n\n")

	if len(m.sHistory) > 1 {
		chart := asciigraph.Plot(m.sHistory,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("supersaturation (%)"),
		)
		b.WriteString(viz.GraphStyle.Render(chart))
		b.WriteString("\n")
	}
	if len(m.rHistory) > 1 {
		chart := asciigraph.Plot(m.rHistory,
			asciigraph.Height(graphHeight/2),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("mean wet radius (um)"),
		)
		b.WriteString(viz.GraphStyle.Render(chart))
		b.WriteString("\n")
	}

	row := func(label, value string) {
		b.WriteString(viz.LabelStyle.Render(label))
		b.WriteString(viz.ValueStyle.Render(value))
		b.WriteString("\n")
	}

	row("Time", fmt.Sprintf("%.1f s", m.t))
	row("Pressure", fmt.Sprintf("%.0f Pa", m.state[parcel.IdxPressure]))
	row("Temperature", fmt.Sprintf("%.2f K", m.state[parcel.IdxTemperature]))
	row("Vapor", fmt.Sprintf("%.4f g/kg", m.state[parcel.IdxVapor]*1e3))
	row("Liquid", fmt.Sprintf("%.4f g/kg", m.state[parcel.IdxLiquid]*1e3))
	row("Supersaturation", fmt.Sprintf("%.4f %%", m.state[parcel.IdxSupersaturation]*100))
	row("Particles", fmt.Sprintf("%d", m.sys.Population().Len()))

	b.WriteString("\n")
	switch {
	case m.poisoned:
		b.WriteString(viz.WarnStyle.Render("state went non-finite; stopped"))
	case m.done:
		b.WriteString(viz.HeaderStyle.Render("ascent complete"))
	case m.running:
		b.WriteString(viz.ValueStyle.Render("running"))
	default:
		b.WriteString(viz.ValueStyle.Render("paused"))
	}

	b.WriteString(viz.HelpStyle.Render("\nspace pause/resume · q quit"))
	return b.String()
}

// Run starts the live view and blocks until it exits.
func Run(sys *parcel.System, integ dynamo.Integrator, x0 dynamo.State, updraft, dt, duration float64) error {
	p := tea.NewProgram(NewModel(sys, integ, x0, updraft, dt, duration))
	_, err := p.Run()
	return err
}
