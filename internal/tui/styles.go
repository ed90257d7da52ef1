// Package tui provides the terminal home screen for SafeCompanion.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette for the home screen. Large high-contrast blocks.
var (
	ColorPrimary = lipgloss.Color("#2563EB") // Blue
	ColorDanger  = lipgloss.Color("#DC2626") // Red
	ColorMuted   = lipgloss.Color("#6B7280") // Gray
	ColorWarning = lipgloss.Color("#F59E0B") // Yellow
	ColorSuccess = lipgloss.Color("#10B981") // Green
	ColorBorder  = lipgloss.Color("#4B5563") // Dark gray
)

// Base styles for the TUI.
var (
	// StyleTitle is used for section titles.
	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// StyleMuted is used for secondary information.
	StyleMuted = lipgloss.NewStyle().
			Foreground(ColorMuted)

	StyleContact = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// StyleSelected marks the reminder under the cursor.
	StyleSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	StyleDone = lipgloss.NewStyle().
			Strikethrough(true).
			Foreground(ColorMuted)

	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorDanger)

	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorMuted).
			MarginTop(1)

	StyleHelpKey = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	StyleHelpDesc = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// Box styles for the screen sections.
var (
	StyleBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 2).
			MarginBottom(1)

	// StyleSOSBox is the big red emergency button.
	StyleSOSBox = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(ColorDanger).
			Foreground(ColorDanger).
			Bold(true).
			Align(lipgloss.Center).
			Padding(1, 2).
			MarginBottom(1)

	// StyleConfirmBox frames the "Are you sure?" dialog.
	StyleConfirmBox = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorWarning).
			Padding(1, 2).
			MarginBottom(1)
)

// boxWidth returns the inner width for a box on a screen of width w.
func boxWidth(w int) int {
	return max(w-4, 20)
}

type helpKey struct {
	key  string
	desc string
}

// HelpBar renders the key bindings at the bottom of the screen.
func HelpBar(keys ...helpKey) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, StyleHelpKey.Render(k.key)+" "+StyleHelpDesc.Render(k.desc))
	}
	return StyleHelp.Render(strings.Join(parts, "  •  "))
}

var homeKeys = []helpKey{
	{"s", "SOS"},
	{"space", "toggle"},
	{"j/k", "move"},
	{"r", "refresh"},
	{"q", "quit"},
}
