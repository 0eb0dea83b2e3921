package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header        string
	LeftPane      string
	RightPane     string
	StatusLine    string
	StatusIsError bool
	Footer        string
	Notification  string
}

const (
	leftPaneWidth  = 62
	rightPaneWidth = 54
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderApp assembles the full screen: header, two panels side by side,
// status line, and an optional notification panel above the footer.
func RenderApp(data AppData) string {
	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Width(leftPaneWidth).Render(data.LeftPane),
		panelStyle.Width(rightPaneWidth).Render(data.RightPane),
	)

	var b strings.Builder
	b.WriteString(headerStyle.Render(data.Header))
	b.WriteString("\n")
	b.WriteString(panes)
	b.WriteString("\n")
	if data.StatusIsError {
		b.WriteString(errorStyle.Render(data.StatusLine))
	} else {
		b.WriteString(statusStyle.Render(data.StatusLine))
	}
	if data.Notification != "" {
		b.WriteString("\n")
		b.WriteString(panelStyle.Render(data.Notification))
	}
	if data.Footer != "" {
		b.WriteString("\n")
		b.WriteString(footerStyle.Render(data.Footer))
	}
	return b.String()
}

// RenderMarkdown renders help text through glamour, falling back to the
// raw markdown when the renderer fails.
func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
