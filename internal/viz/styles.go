package viz

import "github.com/charmbracelet/lipgloss"

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).
			Width(46)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)

	statusRunning = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	statusPaused  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
)

var outcomeStyles = map[string]lipgloss.Style{
	"success":       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88")),
	"out_of_bounds": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00")),
	"captured":      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4466")),
	"exhausted":     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#88aaff")),
}

func outcomeStyle(name string) lipgloss.Style {
	if s, ok := outcomeStyles[name]; ok {
		return s
	}
	return valueStyle
}
