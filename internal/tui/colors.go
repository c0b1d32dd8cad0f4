package tui

import (
	"regexp"

	"github.com/charmbracelet/lipgloss"
)

// Color constants for the vibetrack TUI theme
const (
	// Text Colors
	ColorPrimaryText   = "#E6EAF2" // Titles, values
	ColorSecondaryText = "#B1B8C7" // Labels
	ColorDisabledText  = "#6D7383" // Muted text
	ColorHelpText      = "240"     // Dark grey for help text

	// Accent Colors
	ColorAccentMain   = "#3B82F6" // Default discipline color
	ColorAccentBright = "#93C5FD" // Clock digits, highlights
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// DisciplineColor returns the discipline's tag as a color, or the accent if the tag is not #RRGGBB
func DisciplineColor(tag string) lipgloss.Color {
	if hexColor.MatchString(tag) {
		return lipgloss.Color(tag)
	}
	return lipgloss.Color(ColorAccentMain)
}

// Swatch renders a small block in the discipline's color
func Swatch(tag string) string {
	return lipgloss.NewStyle().Foreground(DisciplineColor(tag)).Render("■")
}
