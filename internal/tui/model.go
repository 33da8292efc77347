package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bryanwahyu/idea-analyzer/internal/client"
)

const (
	EmptyIdeaMessage = "Please enter a startup idea to analyze."
	loadingMessage   = "Analyzing your idea... this might take a moment."
)

// Analyzer is the backend the model submits ideas to.
type Analyzer interface {
	Analyze(ctx context.Context, idea string) (client.Payload, error)
}

// State is the tagged request state. Only the fields of the current
// variant are meaningful.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateResult
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateResult:
		return "result"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

type analysisDoneMsg struct {
	payload client.Payload
	err     error
}

type Model struct {
	analyzer Analyzer
	state    State
	payload  client.Payload
	errMsg   string

	input    textarea.Model
	spinner  spinner.Model
	width    int
	markdown bool
	mdStyle  string
}

func NewModel(analyzer Analyzer) Model {
	ta := textarea.New()
	ta.Placeholder = "Describe your startup idea, e.g. an app that connects local pet sitters with busy pet owners..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 4000
	ta.SetWidth(80)
	ta.SetHeight(6)
	ta.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	return Model{
		analyzer: analyzer,
		input:    ta,
		spinner:  sp,
		width:    80,
	}
}

// WithMarkdown enables glamour rendering of narrative fields with the given
// standard style. An empty style disables markdown.
func (m Model) WithMarkdown(style string) Model {
	m.markdown = style != ""
	m.mdStyle = style
	return m
}

func (m Model) State() State { return m.state }

func (m Model) Payload() client.Payload { return m.payload }

func (m Model) ErrorMessage() string { return m.errMsg }

func (m Model) Input() string { return m.input.Value() }

// CanSubmit is false while a request is in flight.
func (m Model) CanSubmit() bool { return m.state != StateLoading }

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.SetWidth(max(msg.Width-4, 20))
		return m, nil

	case analysisDoneMsg:
		if m.state != StateLoading {
			return m, nil
		}
		if msg.err != nil {
			m.state = StateError
			m.errMsg = client.Message(msg.err)
			m.payload = nil
			return m, m.input.Focus()
		}
		m.state = StateResult
		m.payload = msg.payload
		m.errMsg = ""
		return m, nil

	case spinner.TickMsg:
		if m.state != StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		}
		if m.state == StateLoading {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+s":
			return m.submit()
		case "ctrl+r":
			return m.reset()
		}
		if m.state == StateResult {
			if msg.String() == "n" {
				return m.reset()
			}
			return m, nil
		}
	}

	if m.state == StateLoading || m.state == StateResult {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if !m.CanSubmit() {
		return m, nil
	}
	idea := m.input.Value()
	if strings.TrimSpace(idea) == "" {
		m.state = StateError
		m.errMsg = EmptyIdeaMessage
		m.payload = nil
		return m, nil
	}

	m.state = StateLoading
	m.payload = nil
	m.errMsg = ""
	m.input.Blur()

	analyzer := m.analyzer
	analyze := func() tea.Msg {
		payload, err := analyzer.Analyze(context.Background(), idea)
		return analysisDoneMsg{payload: payload, err: err}
	}
	return m, tea.Batch(m.spinner.Tick, analyze)
}

// reset is "analyze another idea": result, error and input are cleared together.
func (m Model) reset() (tea.Model, tea.Cmd) {
	m.state = StateIdle
	m.payload = nil
	m.errMsg = ""
	m.input.Reset()
	return m, m.input.Focus()
}
