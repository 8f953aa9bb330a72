package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/taskboard/internal/notify"
	"github.com/nibzard/taskboard/internal/render"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	endpointStyle  = lipgloss.NewStyle().Faint(true)
	statLabelStyle = lipgloss.NewStyle().Faint(true)
	statValueStyle = lipgloss.NewStyle().Bold(true)
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7d56f4")).Bold(true)
	doneStyle      = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	dateStyle      = lipgloss.NewStyle().Faint(true)
	emptyStyle     = lipgloss.NewStyle().Italic(true).Faint(true)
	busyStyle      = lipgloss.NewStyle().Faint(true).Italic(true)
	helpStyle      = lipgloss.NewStyle().Faint(true)
	modalStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7d56f4")).
			Padding(0, 1)
)

// toastStyle mirrors the browser toast colors. Entering and exiting toasts
// are drawn faint in place of the slide animation.
func toastStyle(kind notify.Kind, phase notify.Phase) lipgloss.Style {
	s := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffffff")).
		Background(lipgloss.Color(render.ToastColor(kind))).
		Padding(0, 2)
	if phase != notify.PhaseShown {
		s = s.Faint(true)
	}
	return s
}
