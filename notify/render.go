package notify

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorGreen  = lipgloss.Color("#00FF00")
	colorYellow = lipgloss.Color("#FFFF00")
	colorRed    = lipgloss.Color("#FF0000")
)

// Renderer formats notifications for terminal output.
type Renderer struct {
	noColor bool
}

// NewRenderer returns a Renderer. With noColor set it emits plain text.
func NewRenderer(noColor bool) *Renderer {
	return &Renderer{noColor: noColor}
}

// Render returns the terminal form of a notification: a title line styled
// by severity, then the body.
func (r *Renderer) Render(n Notification) string {
	title := n.Title
	if !r.noColor {
		style := lipgloss.NewStyle().Foreground(severityColor(n.Severity)).Bold(true)
		title = style.Render(title)
	}

	var b strings.Builder
	b.WriteString(title)
	if n.Body != "" {
		b.WriteString("\n")
		b.WriteString(n.Body)
	}
	return b.String()
}

func severityColor(s Severity) lipgloss.Color {
	switch s {
	case SeverityWarning:
		return colorYellow
	case SeverityError:
		return colorRed
	default:
		return colorGreen
	}
}
