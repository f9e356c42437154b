// Package theme defines color themes for the budgetdash TUI.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color roles used throughout the TUI. Budget roles
// (Income, Expense and so on) are derived from the base palette so every
// theme colors money the same way.
type Theme struct {
	Name          string
	Background    lipgloss.Color
	Surface       lipgloss.Color // cards and panels
	SurfaceBright lipgloss.Color // selected row
	Border        lipgloss.Color
	BorderAccent  lipgloss.Color
	TextDim       lipgloss.Color
	TextMuted     lipgloss.Color
	TextPrimary   lipgloss.Color
	Accent        lipgloss.Color
	AccentBright  lipgloss.Color

	Income   lipgloss.Color
	Expense  lipgloss.Color
	Savings  lipgloss.Color
	Positive lipgloss.Color // surplus, under budget
	Negative lipgloss.Color // deficit, over budget
	Warning  lipgloss.Color
}

type palette struct {
	bg, surface, surfaceBright     string
	border, borderAccent           string
	dim, muted, text               string
	accent, accentBright           string
	green, red, blue, orange, cyan string
}

func newTheme(name string, p palette) Theme {
	c := func(s string) lipgloss.Color { return lipgloss.Color(s) }
	return Theme{
		Name:          name,
		Background:    c(p.bg),
		Surface:       c(p.surface),
		SurfaceBright: c(p.surfaceBright),
		Border:        c(p.border),
		BorderAccent:  c(p.borderAccent),
		TextDim:       c(p.dim),
		TextMuted:     c(p.muted),
		TextPrimary:   c(p.text),
		Accent:        c(p.accent),
		AccentBright:  c(p.accentBright),
		Income:        c(p.blue),
		Expense:       c(p.orange),
		Savings:       c(p.cyan),
		Positive:      c(p.green),
		Negative:      c(p.red),
		Warning:       c(p.orange),
	}
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default theme.
var FlexokiDark = newTheme("flexoki-dark", palette{
	bg: "#100F0F", surface: "#1C1B1A", surfaceBright: "#343331",
	border: "#403E3C", borderAccent: "#3AA99F",
	dim: "#575653", muted: "#878580", text: "#FFFCF0",
	accent: "#3AA99F", accentBright: "#5BC8BE",
	green: "#879A39", red: "#D14D41", blue: "#4385BE", orange: "#DA702C", cyan: "#24837B",
})

// CatppuccinMocha is a soft pastel theme.
var CatppuccinMocha = newTheme("catppuccin-mocha", palette{
	bg: "#1E1E2E", surface: "#313244", surfaceBright: "#585B70",
	border: "#585B70", borderAccent: "#89B4FA",
	dim: "#6C7086", muted: "#A6ADC8", text: "#CDD6F4",
	accent: "#89B4FA", accentBright: "#B4D0FB",
	green: "#A6E3A1", red: "#F38BA8", blue: "#89B4FA", orange: "#FAB387", cyan: "#94E2D5",
})

// TokyoNight is a cool blue theme.
var TokyoNight = newTheme("tokyo-night", palette{
	bg: "#1A1B26", surface: "#24283B", surfaceBright: "#414868",
	border: "#565F89", borderAccent: "#7AA2F7",
	dim: "#565F89", muted: "#A9B1D6", text: "#C0CAF5",
	accent: "#7AA2F7", accentBright: "#A9C1FF",
	green: "#9ECE6A", red: "#F7768E", blue: "#7AA2F7", orange: "#FF9E64", cyan: "#7DCFFF",
})

// Terminal uses ANSI 16 colors only.
var Terminal = newTheme("terminal", palette{
	bg: "0", surface: "0", surfaceBright: "8",
	border: "8", borderAccent: "6",
	dim: "8", muted: "7", text: "15",
	accent: "6", accentBright: "14",
	green: "2", red: "1", blue: "4", orange: "3", cyan: "6",
})

// All available themes.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

// Names returns the names of all themes in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// Lookup returns the theme called name.
func Lookup(name string) (Theme, bool) {
	for _, t := range All {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	if t, ok := Lookup(name); ok {
		return t
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}
