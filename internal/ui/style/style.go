// Package style provides shared styling primitives for operator-facing
// console messages.
package style

import "github.com/charmbracelet/lipgloss"

// Colors.
var (
	Blue  = lipgloss.Color("#3B82F6")
	Green = lipgloss.Color("#22A06B")
	Red   = lipgloss.Color("#D93025")
	White = lipgloss.Color("#FFFFFF")
)

var (
	blueStyle  = lipgloss.NewStyle().Foreground(Blue)
	greenStyle = lipgloss.NewStyle().Foreground(Green)
	redStyle   = lipgloss.NewStyle().Foreground(Red)
	boldStyle  = lipgloss.NewStyle().Foreground(White).Bold(true)
)

// BlueText renders the estimate and status messages.
func BlueText(s string) string { return blueStyle.Render(s) }

// GreenText renders filenames that were removed or kept.
func GreenText(s string) string { return greenStyle.Render(s) }

// RedText renders destructive-action warnings.
func RedText(s string) string { return redStyle.Render(s) }

// BoldText renders commands echoed to the operator.
func BoldText(s string) string { return boldStyle.Render(s) }
