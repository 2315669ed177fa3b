package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/dfdlayout/pkg/dfd"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // primary
	colorGreen  = lipgloss.Color("35")  // success, cache hits
	colorYellow = lipgloss.Color("220") // warnings, merge points
	colorRed    = lipgloss.Color("167") // errors
	colorBlue   = lipgloss.Color("75")  // commands, joins
	colorPurple = lipgloss.Color("141") // unions
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// =============================================================================
// Styles
// =============================================================================

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(14)
)

// kindStyles colour node types in the inspector, keyed by nodeKind.
var kindStyles = map[string]lipgloss.Style{
	string(dfd.NodeTable):  lipgloss.NewStyle().Foreground(colorWhite),
	string(dfd.LogicJoin):  lipgloss.NewStyle().Foreground(colorBlue),
	string(dfd.LogicUnion): lipgloss.NewStyle().Foreground(colorPurple),
	string(dfd.LogicWhere): lipgloss.NewStyle().Foreground(colorGreen),
}

// kindStyle returns the colour for a node, falling back to gray for logic
// types without their own.
func kindStyle(n dfd.Node) lipgloss.Style {
	key := string(n.Type)
	if n.IsLogic() {
		key = string(n.LogicType)
	}
	if s, ok := kindStyles[key]; ok {
		return s
	}
	return lipgloss.NewStyle().Foreground(colorGray)
}

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

var (
	markSuccess = lipgloss.NewStyle().Foreground(colorGreen).Render(iconSuccess)
	markError   = lipgloss.NewStyle().Foreground(colorRed).Render(iconError)
	markWarning = lipgloss.NewStyle().Foreground(colorYellow).Render(iconWarning)
	markInfo    = lipgloss.NewStyle().Foreground(colorGray).Render(iconInfo)
)

// =============================================================================
// Status Output
// =============================================================================

// out receives all status lines. Artifacts written to "-" bypass it.
var out io.Writer = os.Stdout

func status(mark, msg string) {
	fmt.Fprintln(out, mark+" "+msg)
}

func printSuccess(format string, args ...any) { status(markSuccess, fmt.Sprintf(format, args...)) }
func printError(format string, args ...any)   { status(markError, fmt.Sprintf(format, args...)) }
func printInfo(format string, args ...any)    { status(markInfo, fmt.Sprintf(format, args...)) }

func printWarning(format string, args ...any) {
	status(markWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(out, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints one written file.
func printFile(path string) {
	fmt.Fprintln(out, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(out, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints graph size and whether the result came from the cache.
func printStats(nodeCount, edgeCount int, cached bool) {
	fmt.Fprintln(out, statsLine(nodeCount, edgeCount, cached))
}

func statsLine(nodeCount, edgeCount int, cached bool) string {
	var parts []string
	if nodeCount > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d nodes", nodeCount)))
	}
	if edgeCount > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d edges", edgeCount)))
	}
	if cached {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorGreen).Render(iconCached))
	} else {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorGray).Render(iconFresh))
	}
	return "  " + strings.Join(parts, StyleDim.Render(" · "))
}

// printNextStep suggests the command to run next.
func printNextStep(description, cmd string) {
	fmt.Fprintln(out, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(out)
}
