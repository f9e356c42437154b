package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/budgetdash/internal/tui/theme"
)

// ProgressBar renders a plain block progress bar with percentage, used
// while sheets load.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	pct = clamp01(pct)
	filled := int(pct * float64(width))

	filledStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)

	return filledStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", width-filled)) +
		pctStyle.Render(fmt.Sprintf(" %.0f%%", pct*100))
}

// SpendColor returns the bar color for the share of income already
// committed: green while comfortable, then warning, then negative.
func SpendColor(share float64) lipgloss.Color {
	t := theme.Active
	switch {
	case share >= 1:
		return t.Negative
	case share >= 0.85:
		return t.Warning
	default:
		return t.Positive
	}
}

// RatioBar renders a labeled bar for a 0..1 ratio. The shown percentage
// is not clamped, so an over-committed budget still reads 112%.
func RatioBar(label string, ratio float64, color lipgloss.Color, labelW, barWidth int) string {
	t := theme.Active

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		space +
		bar.ViewAs(clamp01(ratio)) +
		space +
		pctStyle.Render(fmt.Sprintf("%4.0f%%", ratio*100))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
