package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the palette of the flight and progress views.
type Theme struct {
	Name    string
	Primary lipgloss.Color // headers
	Scene   lipgloss.Color // globe and trail
	Plot    lipgloss.Color // altitude chart
	Success lipgloss.Color
	Warning lipgloss.Color
}

var Themes = []Theme{
	{
		Name:    "mission",
		Primary: lipgloss.Color("#5fafff"),
		Scene:   lipgloss.Color("#d0d0d0"),
		Plot:    lipgloss.Color("#87d7ff"),
		Success: lipgloss.Color("#5fd787"),
		Warning: lipgloss.Color("#ffaf00"),
	},
	{
		Name:    "amber",
		Primary: lipgloss.Color("#ffb000"),
		Scene:   lipgloss.Color("#ffcc66"),
		Plot:    lipgloss.Color("#ff9900"),
		Success: lipgloss.Color("#ffe0a0"),
		Warning: lipgloss.Color("#ff5f00"),
	},
	{
		Name:    "night",
		Primary: lipgloss.Color("#af87ff"),
		Scene:   lipgloss.Color("#6c6c9c"),
		Plot:    lipgloss.Color("#00d7d7"),
		Success: lipgloss.Color("#00ff88"),
		Warning: lipgloss.Color("#ff5f87"),
	},
}

// CurrentTheme is read by every view on each render.
var CurrentTheme = Themes[0]

// GetTheme returns the named theme, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme cycles CurrentTheme through Themes.
func NextTheme() {
	next := 0
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			next = (i + 1) % len(Themes)
			break
		}
	}
	CurrentTheme = Themes[next]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

func themed(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
