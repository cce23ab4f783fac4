package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/driftlab/blobtask/internal/model"
)

// Terminal colors for the blob palette tags
var blobPalette = map[string]lipgloss.Color{
	model.ColorCoral:    lipgloss.Color("#FF6B6B"),
	model.ColorMint:     lipgloss.Color("#4ECDC4"),
	model.ColorLavender: lipgloss.Color("#B39DDB"),
	model.ColorHoney:    lipgloss.Color("#FFE66D"),
	model.ColorSky:      lipgloss.Color("#74B9FF"),
	model.ColorBlush:    lipgloss.Color("#FFB6C1"),
	model.ColorMoss:     lipgloss.Color("#95E1A3"),
	model.ColorSlate:    lipgloss.Color("#6C757D"),
}

// UI colors
var (
	Primary   = lipgloss.Color("#4ECDC4")
	Secondary = lipgloss.Color("#6C757D")
	Text      = lipgloss.Color("#FFFFFF")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
	DoneColor = lipgloss.Color("#95E1A3")
)

// Styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	SidebarStyle = lipgloss.NewStyle().
			Width(26).
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(Border).
			Padding(1, 1)

	TaskPaneStyle = lipgloss.NewStyle().
			Padding(1, 2)

	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(TextMuted)

	DoneStyle = lipgloss.NewStyle().
			Foreground(DoneColor).
			Strikethrough(true)

	ModalStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	StatusStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Padding(0, 1)
)

// blobColorStyle renders a project's color tag as a colored dot
func blobColorStyle(tag string) lipgloss.Style {
	color, ok := blobPalette[tag]
	if !ok {
		color = Primary
	}
	return lipgloss.NewStyle().Foreground(color)
}
