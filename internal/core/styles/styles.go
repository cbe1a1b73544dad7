// Package styles provides shared lipgloss styles for CLI output.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Style exports.
var (
	TextPrimaryStyle        lipgloss.Style
	TextPrimaryBoldStyle    lipgloss.Style
	TextForegroundStyle     lipgloss.Style
	TextForegroundBoldStyle lipgloss.Style
	TextMutedStyle          lipgloss.Style
	TextSuccessStyle        lipgloss.Style
	TextWarningStyle        lipgloss.Style
	TextErrorStyle          lipgloss.Style

	ProgressFillStyle  lipgloss.Style
	ProgressEmptyStyle lipgloss.Style

	CardStyle lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	TextPrimaryStyle = lipgloss.NewStyle().Foreground(p.Primary)
	TextPrimaryBoldStyle = TextPrimaryStyle.Bold(true)
	TextForegroundStyle = lipgloss.NewStyle().Foreground(p.Foreground)
	TextForegroundBoldStyle = TextForegroundStyle.Bold(true)
	TextMutedStyle = lipgloss.NewStyle().Foreground(p.Muted)
	TextSuccessStyle = lipgloss.NewStyle().Foreground(p.Success)
	TextWarningStyle = lipgloss.NewStyle().Foreground(p.Warning)
	TextErrorStyle = lipgloss.NewStyle().Foreground(p.Error)

	ProgressFillStyle = lipgloss.NewStyle().Foreground(p.Secondary)
	ProgressEmptyStyle = lipgloss.NewStyle().Foreground(p.Surface)

	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Surface).
		Padding(0, 1)
}

// ProgressBar renders a horizontal bar of width cells filled to percent
// (clamped to [0, 100]).
func ProgressBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	switch {
	case percent < 0:
		percent = 0
	case percent > 100:
		percent = 100
	}

	filled := int(percent / 100 * float64(width))
	return ProgressFillStyle.Render(strings.Repeat("█", filled)) +
		ProgressEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
