package ui

import (
	"github.com/abelbrown/cardscope/internal/card"
	"github.com/charmbracelet/lipgloss"
)

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorBar       = lipgloss.Color("236")
)

// sortColors gives each sort button its own color.
var sortColors = map[card.SortKey]lipgloss.Color{
	card.SortByName:  lipgloss.Color("#3B82F6"), // blue
	card.SortBySet:   lipgloss.Color("#10B981"), // green
	card.SortByCost:  lipgloss.Color("#8B5CF6"), // purple
	card.SortByPower: lipgloss.Color("#EF4444"), // red
}

// SortButton renders an inactive sort button in the key's color.
func SortButton(key card.SortKey) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(sortColor(key)).
		Background(colorBar).
		Padding(0, 1).
		MarginRight(1)
}

// SortButtonActive renders the button of the active sort key.
func SortButtonActive(key card.SortKey) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("255")).
		Background(sortColor(key)).
		Bold(true).
		Padding(0, 1).
		MarginRight(1)
}

func sortColor(key card.SortKey) lipgloss.Color {
	if c, ok := sortColors[key]; ok {
		return c
	}
	return colorSecondary
}

// SelectedRow style for the row under the cursor.
var SelectedRow = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// NormalRow style for the other rows.
var NormalRow = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Padding(0, 1)

// RowFields style for the face fields after the card name.
var RowFields = lipgloss.NewStyle().
	Foreground(colorSecondary)

// CardBox frames a card face in the detail overlay.
var CardBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(0, 1)

// CardName style for the card title.
var CardName = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)

// CardLabel style for field labels on a card face.
var CardLabel = lipgloss.NewStyle().
	Foreground(colorSecondary)

// CardValue style for field values on a card face.
var CardValue = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255"))

// CardText style for the front text paragraph.
var CardText = lipgloss.NewStyle().
	Foreground(lipgloss.Color("252")).
	Italic(true)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(colorBar).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("196")).
	Bold(true).
	Padding(0, 1)

// HelpStyle for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 2)

// LoadingStyle for the spinner line.
var LoadingStyle = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Padding(1, 2)

// PromptBar style for the search prompt line.
var PromptBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Padding(0, 1)

// PromptStyle for the "/" prompt.
var PromptStyle = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// DebugPanel frames the debug overlay.
var DebugPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorMuted).
	Padding(1, 2)

// DebugHeaderStyle for section headers in the debug overlay.
var DebugHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)
