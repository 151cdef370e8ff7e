package theme

import "github.com/charmbracelet/lipgloss"

// Palette holds the colors for one mode.
type Palette struct {
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color
	Done       lipgloss.Color
	Selection  lipgloss.Color
	Border     lipgloss.Color
	Warning    lipgloss.Color
}

var palettes = map[Mode]Palette{
	Dark: {
		Foreground: lipgloss.Color("#E6E6E6"),
		Muted:      lipgloss.Color("#7F848E"),
		Accent:     lipgloss.Color("#61AFEF"),
		Done:       lipgloss.Color("#5C6370"),
		Selection:  lipgloss.Color("#2C313A"),
		Border:     lipgloss.Color("#3E4451"),
		Warning:    lipgloss.Color("#E5C07B"),
	},
	Light: {
		Foreground: lipgloss.Color("#24292F"),
		Muted:      lipgloss.Color("#6E7781"),
		Accent:     lipgloss.Color("#0969DA"),
		Done:       lipgloss.Color("#8C959F"),
		Selection:  lipgloss.Color("#DDF4FF"),
		Border:     lipgloss.Color("#D0D7DE"),
		Warning:    lipgloss.Color("#9A6700"),
	},
}

// PaletteFor returns the palette for mode, falling back to Dark.
func PaletteFor(mode Mode) Palette {
	if p, ok := palettes[mode]; ok {
		return p
	}
	return palettes[Dark]
}

// Styles is the set of styles the UI renders with.
type Styles struct {
	Title       lipgloss.Style
	Input       lipgloss.Style
	Task        lipgloss.Style
	Completed   lipgloss.Style
	Selected    lipgloss.Style
	Filter      lipgloss.Style
	ActiveTab   lipgloss.Style
	Footer      lipgloss.Style
	Help        lipgloss.Style
	Placeholder lipgloss.Style
	Notice      lipgloss.Style
}

// StylesFor builds the style set for mode.
func StylesFor(mode Mode) Styles {
	p := PaletteFor(mode)
	return Styles{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(p.Accent).MarginBottom(1),
		Input:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Border).Padding(0, 1),
		Task:        lipgloss.NewStyle().Foreground(p.Foreground),
		Completed:   lipgloss.NewStyle().Foreground(p.Done).Strikethrough(true),
		Selected:    lipgloss.NewStyle().Background(p.Selection).Bold(true),
		Filter:      lipgloss.NewStyle().Foreground(p.Muted).Padding(0, 1),
		ActiveTab:   lipgloss.NewStyle().Foreground(p.Accent).Bold(true).Underline(true).Padding(0, 1),
		Footer:      lipgloss.NewStyle().Foreground(p.Muted).MarginTop(1),
		Help:        lipgloss.NewStyle().Foreground(p.Muted),
		Placeholder: lipgloss.NewStyle().Foreground(p.Muted).Italic(true),
		Notice:      lipgloss.NewStyle().Foreground(p.Warning).Bold(true),
	}
}
