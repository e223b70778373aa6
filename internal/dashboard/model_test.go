package dashboard

import (
	"math"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jal555/optiqa/internal/optical"
)

func init() {
	// Render without escape sequences so assertions see plain text.
	lipgloss.SetColorProfile(termenv.Ascii)
}

func reading(node string, snr float64) optical.NodeReading {
	return optical.NodeReading{
		Name: node,
		Measurements: optical.Measurements{
			Instantaneous: optical.Instantaneous{
				Power: 1, BER: 1, SNR: optical.Scalar(snr), DGD: 1,
				QFactor: 1, ChromaticDispersion: 1, CarrierOffset: 1,
			},
		},
	}
}

func testData() *optical.Model {
	m := optical.NewModel()
	m.Merge([]optical.Record{
		{Time: time.Unix(100, 0), Lab: "ithaca", Nodes: []optical.NodeReading{reading("amp-01", 10), reading("amp-02", 20)}},
		{Time: time.Unix(200, 0), Lab: "ithaca", Nodes: []optical.NodeReading{reading("amp-01", 12)}},
		{Time: time.Unix(100, 0), Lab: "geneva", Nodes: []optical.NodeReading{reading("osc-01", 5)}},
	})
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLabSeries_GroupsByNodeInRegistryOrder(t *testing.T) {
	series := labSeries(testData(), "ithaca", optical.MetricSNR)
	require.Len(t, series, 2)
	assert.Equal(t, "amp-01", series[0].Node)
	assert.Equal(t, []float64{10, 12}, series[0].Values)
	assert.Equal(t, "amp-02", series[1].Node)
	assert.Equal(t, []float64{20}, series[1].Values)
}

func TestLabSeries_DropsMissingValues(t *testing.T) {
	m := optical.NewModel()
	r := reading("amp-01", 10)
	r.Measurements.Instantaneous.SNR = optical.Scalar(math.NaN())
	m.Merge([]optical.Record{{Time: time.Unix(100, 0), Lab: "ithaca", Nodes: []optical.NodeReading{r}}})

	series := labSeries(m, "ithaca", optical.MetricSNR)
	require.Len(t, series, 1)
	assert.Empty(t, series[0].Values, "the node still appears but its series is empty")
}

func TestLabSeries_UnknownLab(t *testing.T) {
	assert.Nil(t, labSeries(testData(), "nowhere", optical.MetricSNR))
}

func TestModel_LabNavigation(t *testing.T) {
	m := NewModel(testData())
	assert.Equal(t, "ithaca", m.SelectedLab())

	next, _ := m.Update(keyMsg("down"))
	m = next.(Model)
	assert.Equal(t, "geneva", m.SelectedLab())

	next, _ = m.Update(keyMsg("down"))
	m = next.(Model)
	assert.Equal(t, "geneva", m.SelectedLab(), "selection stops at the last lab")

	next, _ = m.Update(keyMsg("k"))
	m = next.(Model)
	assert.Equal(t, "ithaca", m.SelectedLab())
}

func TestModel_MetricNavigationWraps(t *testing.T) {
	m := NewModel(testData())
	assert.Equal(t, optical.MetricPower, m.SelectedMetric())

	next, _ := m.Update(keyMsg("left"))
	m = next.(Model)
	assert.Equal(t, optical.MetricCarrierOffset, m.SelectedMetric(), "left from the first metric wraps to the last")

	next, _ = m.Update(keyMsg("right"))
	m = next.(Model)
	assert.Equal(t, optical.MetricPower, m.SelectedMetric())
}

func TestModel_QuitKeys(t *testing.T) {
	for _, key := range []string{"q", "ctrl+c"} {
		m := NewModel(testData())
		var msg tea.KeyMsg
		if key == "ctrl+c" {
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		} else {
			msg = keyMsg(key)
		}
		next, cmd := m.Update(msg)
		m = next.(Model)
		assert.NotNil(t, cmd, "quit key must produce the quit command")
		assert.Empty(t, m.View(), "a quitting model renders nothing")
	}
}

func TestView_ShowsNodesAndMetric(t *testing.T) {
	m := NewModel(testData())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = next.(Model)

	view := m.View()
	assert.Contains(t, view, "ithaca")
	assert.Contains(t, view, "amp-01")
	assert.Contains(t, view, "amp-02")
	assert.Contains(t, view, optical.MetricPower)
}

func TestView_EmptyModel(t *testing.T) {
	m := NewModel(optical.NewModel())
	assert.Contains(t, m.View(), "optiqa collect")
}

func TestView_HelpToggle(t *testing.T) {
	m := NewModel(testData())
	next, _ := m.Update(keyMsg("?"))
	m = next.(Model)
	assert.Contains(t, m.View(), "previous / next lab")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	assert.NotContains(t, m.View(), "previous / next lab")
}
