package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/tablescope/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings and the hierarchy root.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text and tree connectors.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for record counts.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for empty-state and warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleKey      = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand  = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// uiOut receives all status output. Diagnostics go to the logger on
// stderr instead.
var uiOut io.Writer = os.Stdout

func emit(parts ...string) {
	fmt.Fprintln(uiOut, strings.Join(parts, " "))
}

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	emit(styleIconSuccess.Render(iconSuccess), fmt.Sprintf(format, args...))
}

// printError prints an error message.
func printError(format string, args ...any) {
	emit(styleIconError.Render(iconError), fmt.Sprintf(format, args...))
}

// printWarning prints a warning, such as the empty state of a visualization.
func printWarning(format string, args ...any) {
	emit(styleIconWarning.Render(iconWarning), StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	emit(styleIconInfo.Render(iconInfo), fmt.Sprintf(format, args...))
}

// printDetail prints an indented detail line.
func printDetail(format string, args ...any) {
	emit(" ", StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written artifact path.
func printFile(path string) {
	emit(" ", StyleDim.Render(iconArrow), StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	emit(styleKey.Render(key), StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	emit(StyleDim.Render(description+":"), styleCommand.Render(cmd))
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints pipeline statistics on a single line, e.g.
// "12 records · 9 nodes · fresh".
func printStats(st pipeline.Stats, cached bool) {
	emit(" ", statsLine(st, cached))
}

func statsLine(st pipeline.Stats, cached bool) string {
	var parts []string
	if st.RecordCount > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d records", st.RecordCount)))
	}
	if st.NodeCount > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d nodes", st.NodeCount)))
	}
	if st.EdgeCount > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d edges", st.EdgeCount)))
	}
	if cached {
		parts = append(parts, styleCached.Render(iconCached))
	} else {
		parts = append(parts, styleComputed.Render(iconFresh))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}
