package render

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colours of the dashboard.
type Theme struct {
	Name string

	Heading  string
	Log1     string
	Log2     string
	Debug    string
	Error    string
	Notice   string
	Find     string
	Query    string
	Response string
	Command  string
	Input    string
	Meter    string
	Loud     string
	Quiet    string
	Active   string
	Inactive string
}

// Styles maps every Class to a lipgloss style.
type Styles struct {
	classes map[Class]lipgloss.Style
}

// For returns the style of class, unstyled when the theme has none.
func (s Styles) For(class Class) lipgloss.Style {
	if style, ok := s.classes[class]; ok {
		return style
	}
	return lipgloss.NewStyle()
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// Styles builds the lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{classes: map[Class]lipgloss.Style{
		ClassHeading:      fg(t.Heading).Bold(true),
		ClassLog1:         fg(t.Log1),
		ClassLog2:         fg(t.Log2),
		ClassLogDebug:     fg(t.Debug),
		ClassLogError:     fg(t.Error),
		ClassNotice:       fg(t.Notice),
		ClassFind:         fg(t.Find).Bold(true),
		ClassChatQuery:    fg(t.Query),
		ClassChatResponse: fg(t.Response),
		ClassCommand:      fg(t.Command),
		ClassInput:        fg(t.Input),
		ClassMeter:        fg(t.Meter),
		ClassMeterLoud:    fg(t.Loud),
		ClassMeterQuiet:   fg(t.Quiet),
		ClassActive:       fg(t.Active),
		ClassInactive:     fg(t.Inactive),
	}}
}

// Theme definitions

var themes = map[string]Theme{
	"Classic":  classicTheme(),
	"Nightfox": nightfoxTheme(),
}

var themeOrder = []string{"Classic", "Nightfox"}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return classicTheme()
}

// ThemeNames returns available theme names, the default first.
func ThemeNames() []string {
	return slices.Clone(themeOrder)
}

func classicTheme() Theme {
	// The eight ANSI colours on black.
	return Theme{
		Name:     "Classic",
		Heading:  "7", // white
		Log1:     "2", // green
		Log2:     "5", // purple
		Debug:    "3", // yellow
		Error:    "1", // red
		Notice:   "1", // red
		Find:     "3", // yellow
		Query:    "6", // cyan
		Response: "3", // yellow
		Command:  "6", // cyan
		Input:    "6", // cyan
		Meter:    "3", // yellow
		Loud:     "2", // green
		Quiet:    "4", // blue
		Active:   "3", // yellow
		Inactive: "1", // red
	}
}

func nightfoxTheme() Theme {
	// Nightfox palette: https://github.com/EdenEast/nightfox.nvim
	return Theme{
		Name:     "Nightfox",
		Heading:  "#cdcecf", // fg1
		Log1:     "#81b29a", // green
		Log2:     "#9d79d6", // magenta
		Debug:    "#738091", // comment
		Error:    "#c94f6d", // red
		Notice:   "#f4a261", // orange
		Find:     "#dbc074", // yellow
		Query:    "#63cdcf", // cyan
		Response: "#dbc074", // yellow
		Command:  "#719cd6", // blue
		Input:    "#63cdcf", // cyan
		Meter:    "#dbc074", // yellow
		Loud:     "#81b29a", // green
		Quiet:    "#719cd6", // blue
		Active:   "#81b29a", // green
		Inactive: "#c94f6d", // red
	}
}
