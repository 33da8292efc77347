package tui

import "strings"

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Startup Idea Analyzer"))
	b.WriteString("\n\n")

	switch m.state {
	case StateLoading:
		b.WriteString(m.spinner.View() + " " + loadingMessage + "\n")
		b.WriteString(mutedStyle.Render("esc quit") + "\n")
	case StateResult:
		r := Renderer{Width: m.width, Markdown: m.markdown, Style: m.mdStyle}
		b.WriteString(r.Render(m.payload))
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("n / ctrl+r analyze another idea • esc quit") + "\n")
	default:
		b.WriteString(m.input.View())
		b.WriteString("\n")
		if m.state == StateError && m.errMsg != "" {
			b.WriteString(errorStyle.Render(m.errMsg) + "\n")
		}
		b.WriteString(mutedStyle.Render("ctrl+s analyze • ctrl+r clear • esc quit") + "\n")
	}
	return b.String()
}
