package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/session"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/tui"
)

// chatEntry is a rendered turn; voice entries belong to the transcript.
type chatEntry struct {
	turn  session.Turn
	voice bool
}

// ChatModel is the conversation log with an answer box, shared by the
// interview and learning sections.
type ChatModel struct {
	entries   []chatEntry
	textarea  textarea.Model
	viewport  viewport.Model
	isLoading bool
	spinner   spinner.Model
	width     int
	height    int
}

// NewChatModel creates a ChatModel sized for width x height.
func NewChatModel(width, height int) ChatModel {
	ta := textarea.New()
	ta.Placeholder = "Type your answer... (Enter to send)"
	ta.CharLimit = 5000
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	// Shift+Enter for newline, Enter for submit.
	keyMap := ta.KeyMap
	keyMap.InsertNewline = tui.DefaultKeyMap.NewLine
	ta.KeyMap = keyMap
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED"))

	m := ChatModel{
		textarea: ta,
		viewport: viewport.New(20, 5),
		spinner:  sp,
	}
	m.SetSize(width, height)
	return m
}

// SetSize resizes the log and the answer box.
func (m *ChatModel) SetSize(width, height int) {
	m.width = width
	m.height = height

	// Header, status line, answer box and footer take about 12 lines.
	vpHeight := height - 12
	if vpHeight < 5 {
		vpHeight = 5
	}
	vpWidth := width - 8
	if vpWidth < 20 {
		vpWidth = 20
	}
	m.viewport.Width = vpWidth
	m.viewport.Height = vpHeight
	m.textarea.SetWidth(vpWidth)
	m.refresh()
}

// Reset clears the log.
func (m *ChatModel) Reset() {
	m.entries = nil
	m.isLoading = false
	m.textarea.Reset()
	m.refresh()
}

// AddTurn appends a turn. An assistant turn ends the loading state.
func (m *ChatModel) AddTurn(turn session.Turn, voice bool) {
	m.entries = append(m.entries, chatEntry{turn: turn, voice: voice})
	if turn.Role == session.RoleAssistant {
		m.isLoading = false
	}
	m.refresh()
}

// SetLoading toggles the thinking indicator.
func (m *ChatModel) SetLoading(loading bool) tea.Cmd {
	m.isLoading = loading
	if loading {
		return m.spinner.Tick
	}
	return nil
}

// Loading reports whether a reply is pending.
func (m ChatModel) Loading() bool { return m.isLoading }

// Len returns the number of turns shown.
func (m ChatModel) Len() int { return len(m.entries) }

func (m *ChatModel) refresh() {
	m.viewport.SetContent(formatEntries(m.entries, m.viewport.Width))
	m.viewport.GotoBottom()
}

// Init returns the initial command for the chat view.
func (m ChatModel) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages for the chat view.
func (m ChatModel) Update(msg tea.Msg) (ChatModel, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == tui.KeyEnter {
			content := strings.TrimSpace(m.textarea.Value())
			if content == "" || m.isLoading {
				return m, nil
			}
			m.textarea.Reset()
			return m, func() tea.Msg {
				return tui.SayRequestMsg{Text: content}
			}
		}
		if key.Matches(msg, tui.DefaultKeyMap.NewLine) {
			m.textarea.InsertString("\n")
			return m, nil
		}

	case spinner.TickMsg:
		if m.isLoading {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the log, the loading line and the answer box.
func (m ChatModel) View() string {
	var b strings.Builder

	b.WriteString(m.viewport.View())
	b.WriteString("\n\n")

	if m.isLoading {
		b.WriteString(fmt.Sprintf("%s Thinking...", m.spinner.View()))
		b.WriteString("\n")
		b.WriteString(tui.DimStyle.Render(m.textarea.View()))
	} else {
		b.WriteString(m.textarea.View())
	}
	return b.String()
}

// formatEntries formats the turn history for display in the viewport.
func formatEntries(entries []chatEntry, width int) string {
	if len(entries) == 0 {
		return tui.DimStyle.Render("No messages yet.")
	}

	var b strings.Builder
	for i, e := range entries {
		switch e.turn.Role {
		case session.RoleUser:
			prefix := "You: "
			if e.voice {
				prefix = "You (spoken): "
			}
			b.WriteString(tui.UserStyle.Render(prefix))
			b.WriteString(e.turn.Text)
			if e.turn.Tone != nil {
				b.WriteString("\n")
				b.WriteString(tui.DimStyle.Render(formatTone(e.turn.Tone)))
			}
		case session.RoleAssistant:
			b.WriteString(tui.AssistantStyle.Render("Coach:"))
			b.WriteString("\n")
			b.WriteString(renderMarkdown(e.turn.Text, width))
		default:
			b.WriteString(tui.DimStyle.Render(e.turn.Role + ": "))
			b.WriteString(e.turn.Text)
		}

		if i < len(entries)-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

func formatTone(t *session.Tone) string {
	var parts []string
	add := func(label, v string) {
		if v != "" {
			parts = append(parts, label+" "+v)
		}
	}
	add("confidence", t.Confidence)
	add("pace", t.SpeechRate)
	add("emotion", t.Emotion)
	add("nerves", t.Nervousness)
	add("clarity", t.Clarity)
	line := "  tone: " + strings.Join(parts, " · ")
	if t.Feedback != "" {
		line += "\n  " + t.Feedback
	}
	return line
}
