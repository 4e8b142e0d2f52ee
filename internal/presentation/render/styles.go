package render

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	statLabelStyle = lipgloss.NewStyle().Faint(true)
	statValueStyle = lipgloss.NewStyle().Bold(true)
	hourStyle      = lipgloss.NewStyle().Bold(true)
	halfHourStyle  = lipgloss.NewStyle().Faint(true)
	dateStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	highlightStyle = lipgloss.NewStyle().Reverse(true)
	themeStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	questionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	answerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	summaryStyle   = lipgloss.NewStyle().Italic(true)
	pendingStyle   = lipgloss.NewStyle().Faint(true)
	failedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	helpStyle      = lipgloss.NewStyle().Faint(true)
	separator      = lipgloss.NewStyle().Faint(true).Render("│")
)
