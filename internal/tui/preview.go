// Package tui is the interactive preview of a generated plan.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"fitness-coach/internal/render"
	"fitness-coach/internal/service"
)

// Screen identifiers
type Screen int

const (
	ScreenPlan Screen = iota
	ScreenProjection
	ScreenReadiness
)

// Model is the root Bubble Tea model of the preview.
type Model struct {
	report   *service.Report
	renderer *render.Renderer

	screen   Screen
	week     int
	keys     keyMap
	help     help.Model
	viewport viewport.Model
	ready    bool

	// Window dimensions
	width  int
	height int
}

// New creates the preview for a report.
func New(report *service.Report, renderer *render.Renderer) Model {
	return Model{
		report:   report,
		renderer: renderer,
		keys:     defaultKeyMap(),
		help:     help.New(),
	}
}

// Run starts the preview program and blocks until the user quits.
func Run(report *service.Report, renderer *render.Renderer, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	_, err := tea.NewProgram(New(report, renderer), opts...).Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if !m.ready {
			m.viewport = viewport.New(msg.Width, m.viewportHeight())
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = m.viewportHeight()
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			if m.ready {
				m.viewport.Height = m.viewportHeight()
			}
			return m, nil
		case key.Matches(msg, m.keys.Plan):
			m.setScreen(ScreenPlan)
			return m, nil
		case key.Matches(msg, m.keys.Projection):
			m.setScreen(ScreenProjection)
			return m, nil
		case key.Matches(msg, m.keys.Readiness):
			m.setScreen(ScreenReadiness)
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			if m.screen == ScreenProjection && m.week > 0 {
				m.week--
				m.refresh()
			}
			return m, nil
		case key.Matches(msg, m.keys.Next):
			if m.screen == ScreenProjection && m.week < len(m.report.Projection)-1 {
				m.week++
				m.refresh()
			}
			return m, nil
		}
	}

	// Handle viewport scrolling
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) setScreen(s Screen) {
	m.screen = s
	m.refresh()
	m.viewport.GotoTop()
}

func (m Model) viewportHeight() int {
	h := m.height - chromeHeight
	if m.help.ShowAll {
		h -= 3
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) refresh() {
	if m.ready {
		m.viewport.SetContent(m.content())
	}
}

// content renders the body of the current screen.
func (m Model) content() string {
	switch m.screen {
	case ScreenProjection:
		weeks := m.report.Projection
		if len(weeks) == 0 {
			return m.renderer.Projection(nil)
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			m.renderer.Week(weeks[m.week]),
			m.renderer.Projection(weeks),
		)
	case ScreenReadiness:
		return m.renderer.Analysis(m.report.Analysis)
	default:
		return lipgloss.JoinVertical(lipgloss.Left,
			m.renderer.Plan(m.report.Plan),
			m.renderer.Adaptations(m.report.Adaptations),
		)
	}
}

// View renders the app
func (m Model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderNav(),
		m.viewport.View(),
		statusStyle.Render(m.help.View(m.keys)),
	)
}

func (m Model) renderHeader() string {
	return headerStyle.Render("Training Plan Preview · " + m.report.Plan.Goal.Label())
}

func (m Model) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Plan", ScreenPlan},
		{"2", "Projection", ScreenProjection},
		{"3", "Readiness", ScreenReadiness},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}

		label := "[" + item.key + "] " + item.label
		if m.screen == item.screen {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	return navStyle.Render(nav)
}
