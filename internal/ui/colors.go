// Package ui holds terminal rendering helpers shared by the dashboard and
// the CLI output paths.
package ui

import "github.com/charmbracelet/lipgloss"

// Semantic colors for status indication, kept to the basic ANSI palette for
// terminal compatibility.
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// seriesColors is the cycle of colors assigned to node series on a graph, in
// assignment order. Red is excluded so it stays reserved for errors.
var seriesColors = []lipgloss.Color{
	ColorInfo,
	ColorSuccess,
	ColorWarning,
	"5", // Magenta
	ColorSecondary,
}

// SeriesColor returns the color for the i-th series on a graph.
func SeriesColor(i int) lipgloss.Color {
	return seriesColors[i%len(seriesColors)]
}
