package tui

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/bryanwahyu/idea-analyzer/internal/client"
)

var titles = map[string]string{
	"swot":                  "SWOT Analysis",
	"strengths":             "Strengths",
	"weaknesses":            "Weaknesses",
	"opportunities":         "Opportunities",
	"threats":               "Threats",
	"marketFit":             "Market Fit",
	"competitorOverview":    "Competitor Overview",
	"refinementSuggestions": "Refinement Suggestions",
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	subStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("111"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	bannerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("214")).Padding(0, 1)
)

// Renderer turns an analysis payload into terminal text.
type Renderer struct {
	Width int
	// Markdown renders string fields through glamour.
	Markdown bool
	// Style is a glamour standard style ("dark", "light"); empty means dark.
	Style string
}

// DetectStyle picks the glamour style for the current terminal. Call it before
// the program enters the alt screen; the query reads from the terminal.
func DetectStyle() string {
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

type markdownKey struct {
	style string
	width int
}

var markdownRenderers = struct {
	sync.Mutex
	m map[markdownKey]*glamour.TermRenderer
}{m: map[markdownKey]*glamour.TermRenderer{}}

// Title returns the display title for a payload key.
func Title(key string) string {
	if t, ok := titles[key]; ok {
		return t
	}
	var b strings.Builder
	for i, r := range key {
		if i == 0 {
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		if unicode.IsUpper(r) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Render lays the payload out field by field. The error flag is not shown;
// errorMessage becomes a banner on top.
func (r Renderer) Render(p client.Payload) string {
	var b strings.Builder
	for _, f := range p {
		switch f.Key {
		case "error":
			continue
		case "errorMessage":
			if msg, ok := f.Value.(string); ok && msg != "" {
				b.WriteString(bannerStyle.Render("⚠ " + msg))
				b.WriteString("\n\n")
				continue
			}
		}
		r.section(&b, f.Key, f.Value, 0)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r Renderer) section(b *strings.Builder, key string, value any, depth int) {
	indent := strings.Repeat("  ", depth)
	style := headingStyle
	if depth > 0 {
		style = subStyle
	}
	b.WriteString(indent + style.Render(Title(key)) + "\n")

	switch v := value.(type) {
	case []any:
		if len(v) == 0 {
			b.WriteString(indent + mutedStyle.Render(fmt.Sprintf("No %s identified.", strings.ToLower(Title(key)))) + "\n")
		}
		for i, item := range v {
			fmt.Fprintf(b, "%s%d. %s\n", indent, i+1, itemText(item))
		}
	case string:
		b.WriteString(r.paragraph(v, indent) + "\n")
	case client.Payload:
		for _, f := range v {
			r.section(b, f.Key, f.Value, depth+1)
		}
	default:
		b.WriteString(indentLines(dump(v), indent+"  ") + "\n")
	}
	b.WriteString("\n")
}

func (r Renderer) paragraph(text, indent string) string {
	if r.Markdown {
		if out, err := renderMarkdown(text, r.Style, r.Width); err == nil && strings.TrimSpace(out) != "" {
			return strings.TrimRight(out, "\n")
		}
	}
	width := r.Width - len(indent)
	if r.Width <= 0 || width < 20 {
		return indent + text
	}
	return indentLines(lipgloss.NewStyle().Width(width).Render(text), indent)
}

func renderMarkdown(input, style string, width int) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", nil
	}
	renderer, err := markdownRenderer(style, width)
	if err != nil {
		return "", err
	}
	return renderer.Render(input)
}

// markdownRenderer returns the cached renderer for style and width.
func markdownRenderer(style string, width int) (*glamour.TermRenderer, error) {
	if width <= 0 {
		width = 80
	}
	if style == "" {
		style = "dark"
	}
	key := markdownKey{style: style, width: width}

	markdownRenderers.Lock()
	defer markdownRenderers.Unlock()
	if r, ok := markdownRenderers.m[key]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithWordWrap(width),
		glamour.WithStandardStyle(style),
	)
	if err != nil {
		return nil, err
	}
	markdownRenderers.m[key] = r
	return r, nil
}

func itemText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return dump(v)
}

func dump(v any) string {
	if p, ok := v.(client.Payload); ok {
		v = p.Plain()
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(out)
}

func indentLines(s, indent string) string {
	if indent == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = indent + l
	}
	return strings.Join(lines, "\n")
}
