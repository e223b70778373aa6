package dashboard

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jal555/optiqa/internal/optical"
)

// Key bindings as constants for consistency.
const (
	KeyQuit       = "q"
	KeyQuitAlt    = "ctrl+c"
	KeyPrevLab    = "up"
	KeyPrevLabK   = "k"
	KeyNextLab    = "down"
	KeyNextLabJ   = "j"
	KeyPrevMetric = "left"
	KeyPrevMetH   = "h"
	KeyNextMetric = "right"
	KeyNextMetL   = "l"
	KeyToggleHelp = "?"
	KeyCloseHelp  = "esc"
)

// Model is the Bubble Tea model for the graph view. The data is a completed
// collection run; there is no live refresh, navigation just re-renders
// different slices of it.
type Model struct {
	data    *optical.Model
	labs    []string
	metrics []string

	labIdx    int
	metricIdx int

	width    int
	height   int
	quitting bool
	showHelp bool

	body      viewport.Model
	bodyReady bool
}

// NewModel creates a dashboard over a collected model.
func NewModel(data *optical.Model) Model {
	return Model{
		data:    data,
		labs:    data.LabNames(),
		metrics: optical.MetricNames,
	}
}

// Init implements tea.Model. There is nothing to start.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := m.handleKey(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		footerHeight := 2
		bodyHeight := m.height - headerHeight - footerHeight
		if bodyHeight < 1 {
			bodyHeight = 1
		}
		if !m.bodyReady {
			m.body = viewport.New(m.width, bodyHeight)
			m.body.YPosition = headerHeight
			m.bodyReady = true
		} else {
			m.body.Width = m.width
			m.body.Height = bodyHeight
		}
		m.body.SetContent(m.renderBody())
	}

	return m, nil
}

// handleKey processes keyboard input. Returns true if the key was handled.
func (m *Model) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}
	if m.showHelp && key == KeyCloseHelp {
		m.showHelp = false
		return true, nil
	}

	switch key {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		return true, tea.Quit

	case KeyPrevLab, KeyPrevLabK:
		if m.labIdx > 0 {
			m.labIdx--
			m.refreshBody()
		}
		return true, nil

	case KeyNextLab, KeyNextLabJ:
		if m.labIdx < len(m.labs)-1 {
			m.labIdx++
			m.refreshBody()
		}
		return true, nil

	case KeyPrevMetric, KeyPrevMetH:
		m.metricIdx = (m.metricIdx + len(m.metrics) - 1) % len(m.metrics)
		m.refreshBody()
		return true, nil

	case KeyNextMetric, KeyNextMetL:
		m.metricIdx = (m.metricIdx + 1) % len(m.metrics)
		m.refreshBody()
		return true, nil
	}

	return false, nil
}

func (m *Model) refreshBody() {
	if m.bodyReady {
		m.body.SetContent(m.renderBody())
	}
}

// SelectedLab returns the lab currently shown, or "" if the model is empty.
func (m Model) SelectedLab() string {
	if m.labIdx >= 0 && m.labIdx < len(m.labs) {
		return m.labs[m.labIdx]
	}
	return ""
}

// SelectedMetric returns the metric currently shown.
func (m Model) SelectedMetric() string {
	return m.metrics[m.metricIdx]
}

// Run starts the interactive dashboard and blocks until the user quits.
func Run(data *optical.Model) error {
	p := tea.NewProgram(NewModel(data), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
