package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/budgetdash/internal/tui/theme"
)

// StatusMessage is a transient note shown on the status bar.
type StatusMessage struct {
	Text  string
	Error bool
}

// RenderStatusBar renders the bottom status bar: key hints on the left,
// the current period and any status message on the right.
func RenderStatusBar(width int, period string, stored bool, msg StatusMessage) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	periodStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	left := base.Render(" [?]help  [e]dit  [ and ] month  [w]rite csv  [q]uit")

	var right strings.Builder
	if msg.Text != "" {
		color := t.Positive
		if msg.Error {
			color = t.Negative
		}
		right.WriteString(lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(msg.Text))
		right.WriteString(base.Render("  "))
	}
	right.WriteString(periodStyle.Render(period))
	if !stored {
		right.WriteString(dim.Render(" (defaults)"))
	}
	right.WriteString(base.Render(" "))

	gap := width - lipgloss.Width(left) - lipgloss.Width(right.String())
	if gap < 1 {
		gap = 1
	}
	return left + base.Render(strings.Repeat(" ", gap)) + right.String()
}
