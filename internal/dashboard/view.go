package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jal555/optiqa/internal/ui"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorPrimary)
	labelStyle = lipgloss.NewStyle().Foreground(ui.ColorMuted)
	valueStyle = lipgloss.NewStyle().Foreground(ui.ColorPrimary)
	nodeStyle  = lipgloss.NewStyle().Foreground(ui.ColorSecondary)
	helpStyle  = lipgloss.NewStyle().Foreground(ui.ColorMuted)
)

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if len(m.labs) == 0 {
		return labelStyle.Render("No labs in the collected data. Run `optiqa collect` first.") + "\n"
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	if m.bodyReady {
		b.WriteString(m.body.View())
	} else {
		b.WriteString(m.renderBody())
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	lab := titleStyle.Render(m.SelectedLab())
	metric := valueStyle.Render(m.SelectedMetric())
	position := labelStyle.Render(fmt.Sprintf("lab %d/%d · metric %d/%d",
		m.labIdx+1, len(m.labs), m.metricIdx+1, len(m.metrics)))
	return fmt.Sprintf("%s  %s  %s\n", lab, metric, position)
}

// renderBody draws one sparkline row per node for the selected lab/metric.
func (m Model) renderBody() string {
	series := labSeries(m.data, m.SelectedLab(), m.SelectedMetric())
	if len(series) == 0 {
		return labelStyle.Render("no nodes") + "\n"
	}

	nameWidth := 0
	for _, s := range series {
		if len(s.Node) > nameWidth {
			nameWidth = len(s.Node)
		}
	}

	graphWidth := m.width - nameWidth - 24
	if graphWidth < 10 {
		graphWidth = 10
	}

	var b strings.Builder
	for i, s := range series {
		name := nodeStyle.Render(fmt.Sprintf("%-*s", nameWidth, s.Node))
		if len(s.Values) == 0 {
			b.WriteString(fmt.Sprintf("%s  %s\n", name, labelStyle.Render("no data")))
			continue
		}
		spark := ui.RenderSparkline(s.Values, graphWidth, ui.SeriesColor(i))
		lo, hi := ui.MinMax(s.Values)
		last := s.Values[len(s.Values)-1]
		stats := labelStyle.Render(fmt.Sprintf("%.2f…%.2f", lo, hi)) +
			" " + valueStyle.Render(fmt.Sprintf("%.2f", last))
		b.WriteString(fmt.Sprintf("%s  %s  %s\n", name, spark, stats))
	}
	return b.String()
}

func (m Model) renderFooter() string {
	return helpStyle.Render("↑/↓ lab · ←/→ metric · ? help · q quit")
}

func (m Model) renderHelp() string {
	lines := []string{
		titleStyle.Render("optiqa graph"),
		"",
		"  ↑/k, ↓/j    previous / next lab",
		"  ←/h, →/l    previous / next metric",
		"  ?           toggle this help",
		"  q, ctrl+c   quit",
		"",
		helpStyle.Render("esc to close"),
	}
	return strings.Join(lines, "\n") + "\n"
}
