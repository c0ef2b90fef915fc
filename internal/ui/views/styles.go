package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Prompt        lipgloss.Style
	QuickItem     lipgloss.Style
	QuickSelected lipgloss.Style
	Item          lipgloss.Style
	ItemSelected  lipgloss.Style
	ItemPath      lipgloss.Style
	KindTag       lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	StatusError   lipgloss.Style
	Overlay       lipgloss.Style
	MenuItem      lipgloss.Style
	MenuSelected  lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Prompt: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		QuickItem: lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")),
		QuickSelected: lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")),
		Item: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		ItemSelected: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")),
		ItemPath: lipgloss.NewStyle().
			Faint(true),
		KindTag: lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")),
		Dim: lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		StatusError: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
		Overlay: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(1).
			BorderForeground(lipgloss.Color("241")),
		MenuItem: lipgloss.NewStyle().
			Padding(0, 1),
		MenuSelected: lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Background(lipgloss.Color("62")),
	}
}
