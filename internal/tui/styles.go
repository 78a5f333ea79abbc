package tui

import "github.com/charmbracelet/lipgloss"

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	currentCellStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

	unannotatedCellStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	basicCellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	enhancedCellStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42"))

	importedCellStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39"))

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	docStyle = lipgloss.NewStyle().Padding(1, 2)
)
