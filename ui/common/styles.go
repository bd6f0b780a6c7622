package common

import "github.com/charmbracelet/lipgloss"

const (
	COLOR_GREY      = "241"
	COLOR_DARK_GREY = "238"
	COLOR_MAGENTA   = "170"
	COLOR_LIGHTBLUE = "69"
	COLOR_PURPLE    = "#7D56F4"
	COLOR_GREEN     = "78"
	COLOR_RED       = "203"
	COLOR_BLUE      = "39"
	COLOR_YELLOW    = "221"
)

var (
	HelpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(COLOR_GREY)).Padding(0, 2)
	CaptionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(COLOR_MAGENTA)).Padding(2)

	EmptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(COLOR_GREY)).
			Italic(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(COLOR_RED))

	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(COLOR_BLUE))

	VerifiedMark = lipgloss.NewStyle().
			Foreground(lipgloss.Color(COLOR_LIGHTBLUE)).
			Render("✔")
)

func DefaultWindowWidth(width int) int {
	return width - 10
}

func DefaultWindowHeight(height int) int {
	return height - 10
}
