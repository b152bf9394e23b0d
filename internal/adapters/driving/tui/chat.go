// Package tui implements the interactive chat session as a Bubble Tea
// application.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	statsStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	answerStyle   = lipgloss.NewStyle()
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	inputBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Stats describes the session's index for the status line.
type Stats struct {
	Documents int
	Vectors   int
	TopK      int
}

// exchange is one question/answer pair in the transcript.
type exchange struct {
	question  string
	answer    string
	noContext bool
	err       error
}

// answerMsg delivers the result of an Ask call.
type answerMsg struct {
	question string
	answer   *domain.Answer
	err      error
}

// Model is the Bubble Tea model for the chat session.
type Model struct {
	asker    driving.Asker
	stats    Stats
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	history  []exchange
	waiting  bool
	ready    bool
}

// New creates a chat model over the given asker.
func New(asker driving.Asker, stats Stats) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question, Ctrl+C to quit"
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		asker:    asker,
		stats:    stats,
		input:    ti,
		viewport: viewport.New(0, 0),
		spinner:  sp,
	}
}

// Init starts the text input cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, frameHeight := inputBoxStyle.GetFrameSize()
		reserved := 2 + frameHeight + 2 // header + stats, input frame, status + spacer
		height := msg.Height - reserved
		if height < 3 {
			height = 3
		}
		m.viewport.Width = msg.Width
		m.viewport.Height = height
		m.input.Width = msg.Width - 6
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter && !m.waiting {
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				return m, nil
			}
			m.input.Reset()
			m.waiting = true
			return m, tea.Batch(m.spinner.Tick, askCmd(m.asker, question, m.stats.TopK))
		}
		if msg.Type == tea.KeyUp || msg.Type == tea.KeyDown || msg.Type == tea.KeyPgUp || msg.Type == tea.KeyPgDown {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case answerMsg:
		m.waiting = false
		entry := exchange{question: msg.question, err: msg.err}
		if msg.answer != nil {
			entry.answer = msg.answer.Text
			entry.noContext = msg.answer.NoContext
		}
		m.history = append(m.history, entry)
		m.refreshTranscript()
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the transcript, input box and status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := headerStyle.Render("askdoc chat")
	stats := statsStyle.Render(fmt.Sprintf(
		"%d documents, %d vectors, top-%d retrieval",
		m.stats.Documents, m.stats.Vectors, m.stats.TopK,
	))

	status := statsStyle.Render("Enter to ask, Ctrl+C to quit")
	if m.waiting {
		status = m.spinner.View() + " Thinking..."
	}

	return header + "  " + stats + "\n\n" +
		m.viewport.View() + "\n" +
		inputBoxStyle.Render(m.input.View()) + "\n" +
		status
}

// History returns the transcript so far.
func (m Model) History() []exchange {
	return m.history
}

// refreshTranscript rebuilds the viewport content from the history.
func (m *Model) refreshTranscript() {
	if len(m.history) == 0 {
		m.viewport.SetContent(statsStyle.Render("No questions yet."))
		return
	}

	var b strings.Builder
	for n, entry := range m.history {
		if n > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(questionStyle.Render("You: " + entry.question))
		b.WriteString("\n")
		switch {
		case entry.err != nil:
			b.WriteString(errorStyle.Render("Error: " + entry.err.Error()))
		case entry.noContext:
			b.WriteString(warnStyle.Render("(no relevant context found)"))
			b.WriteString("\n")
			b.WriteString(answerStyle.Render(entry.answer))
		default:
			b.WriteString(answerStyle.Render(entry.answer))
		}
	}
	m.viewport.SetContent(b.String())
}

// askCmd runs the question off the UI loop.
func askCmd(asker driving.Asker, question string, topK int) tea.Cmd {
	return func() tea.Msg {
		answer, err := asker.Ask(context.Background(), question, domain.AskOptions{TopK: topK})
		return answerMsg{question: question, answer: answer, err: err}
	}
}
