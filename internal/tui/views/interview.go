package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/recording"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/session"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/tui"
)

// Interview settings offered on the setup screen.
var (
	InterviewTypes = []string{"technical", "behavioral", "hr"}
	Difficulties   = []string{"easy", "medium", "hard"}
)

// InterviewStats is the header summary of a running interview.
type InterviewStats struct {
	Questions   int
	Corrections int
	Elapsed     time.Duration
	Voice       bool
}

// InterviewModel is the interview section: a settings picker, then the
// conversation.
type InterviewModel struct {
	typeIdx int
	diffIdx int
	row     int // 0=type, 1=difficulty

	running   bool
	chat      ChatModel
	stats     InterviewStats
	recording bool
	width     int
	height    int
}

// NewInterviewModel creates an InterviewModel showing the setup picker.
func NewInterviewModel(width, height int) InterviewModel {
	return InterviewModel{
		diffIdx: 1,
		chat:    NewChatModel(width, height-4),
		width:   width,
		height:  height,
	}
}

// Arm preselects interviewType and difficulty unless an interview runs.
func (m *InterviewModel) Arm(interviewType, difficulty string) {
	if m.running {
		return
	}
	if i := index(InterviewTypes, interviewType); i >= 0 {
		m.typeIdx = i
	}
	if i := index(Difficulties, difficulty); i >= 0 {
		m.diffIdx = i
	}
}

// Selection returns the picked type and difficulty.
func (m InterviewModel) Selection() (string, string) {
	return InterviewTypes[m.typeIdx], Difficulties[m.diffIdx]
}

// Start switches to the conversation with an empty log.
func (m *InterviewModel) Start() tea.Cmd {
	m.running = true
	m.chat.Reset()
	return m.chat.SetLoading(true)
}

// Stop returns to the setup picker.
func (m *InterviewModel) Stop() {
	m.running = false
	m.recording = false
	m.chat.SetLoading(false)
}

// Running reports whether the conversation is shown.
func (m InterviewModel) Running() bool { return m.running }

// AddTurn appends a turn to the conversation.
func (m *InterviewModel) AddTurn(turn session.Turn, voice bool) tea.Cmd {
	m.chat.AddTurn(turn, voice)
	if turn.Role == session.RoleUser {
		return m.chat.SetLoading(true)
	}
	return nil
}

// AddFeedback shows a review of the latest answer in the log.
func (m *InterviewModel) AddFeedback(text string) {
	m.chat.AddTurn(session.Turn{Role: "feedback", Text: text}, false)
}

// SetLoading toggles the thinking indicator.
func (m *InterviewModel) SetLoading(loading bool) tea.Cmd { return m.chat.SetLoading(loading) }

// SetStats updates the header summary.
func (m *InterviewModel) SetStats(s InterviewStats) { m.stats = s }

// SetRecording updates the microphone badge.
func (m *InterviewModel) SetRecording(on bool) { m.recording = on }

// SetSize resizes the view.
func (m *InterviewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.chat.SetSize(width, height-4)
}

// Update handles messages for the interview section.
func (m InterviewModel) Update(msg tea.Msg) (InterviewModel, tea.Cmd) {
	if !m.running {
		return m.updateSetup(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, tui.DefaultKeyMap.End):
			return m, func() tea.Msg { return tui.EndInterviewRequestMsg{} }
		case key.Matches(msg, tui.DefaultKeyMap.Record):
			return m, func() tea.Msg { return tui.ToggleRecordRequestMsg{Kind: recording.KindInterview} }
		case key.Matches(msg, tui.DefaultKeyMap.Voice):
			return m, func() tea.Msg { return tui.ToggleVoiceRequestMsg{} }
		case key.Matches(msg, tui.DefaultKeyMap.Review):
			return m, func() tea.Msg { return tui.ReviewRequestMsg{} }
		}
	}

	var cmd tea.Cmd
	m.chat, cmd = m.chat.Update(msg)
	return m, cmd
}

func (m InterviewModel) updateSetup(msg tea.Msg) (InterviewModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case tui.KeyUp, "k":
		m.row = 0
	case tui.KeyDown, "j":
		m.row = 1
	case tui.KeyLeft, "h":
		m.shift(-1)
	case tui.KeyRight, "l":
		m.shift(1)
	case tui.KeyEnter:
		t, d := m.Selection()
		return m, func() tea.Msg {
			return tui.StartInterviewRequestMsg{Type: t, Difficulty: d}
		}
	}
	return m, nil
}

func (m *InterviewModel) shift(delta int) {
	if m.row == 0 {
		m.typeIdx = (m.typeIdx + delta + len(InterviewTypes)) % len(InterviewTypes)
		return
	}
	m.diffIdx = (m.diffIdx + delta + len(Difficulties)) % len(Difficulties)
}

// View renders the interview section.
func (m InterviewModel) View() string {
	if !m.running {
		return m.viewSetup()
	}

	var b strings.Builder
	t, d := m.Selection()
	mode := "chat"
	if m.stats.Voice {
		mode = "voice"
	}
	header := fmt.Sprintf("%s interview · %s · %s", capitalize(t), d, mode)
	b.WriteString(tui.TitleStyle.Render(header))
	b.WriteString("  ")
	b.WriteString(tui.RecordingBadge(m.recording))
	b.WriteString("\n")
	b.WriteString(tui.DimStyle.Render(fmt.Sprintf("questions %d · corrections %d · %s",
		m.stats.Questions, m.stats.Corrections, m.stats.Elapsed)))
	b.WriteString("\n\n")
	b.WriteString(m.chat.View())
	b.WriteString("\n\n")
	b.WriteString(tui.DimStyle.Render("Enter: Send · Ctrl+J: New line · Ctrl+R: Record · Ctrl+T: Voice/Chat · Ctrl+F: Feedback · Ctrl+E: End"))
	return b.String()
}

func (m InterviewModel) viewSetup() string {
	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render("Mock interview"))
	b.WriteString("\n\n")
	b.WriteString(renderChoices("Type", InterviewTypes, m.typeIdx, m.row == 0))
	b.WriteString("\n")
	b.WriteString(renderChoices("Difficulty", Difficulties, m.diffIdx, m.row == 1))
	b.WriteString("\n\n")
	b.WriteString(tui.DimStyle.Render("↑/↓: Row · ←/→: Change · Enter: Start"))
	return b.String()
}

// renderChoices renders one row of mutually exclusive options.
func renderChoices(label string, options []string, selected int, focused bool) string {
	prefix := "  "
	labelStyle := tui.DimStyle
	if focused {
		prefix = "❯ "
		labelStyle = tui.SelectedStyle
	}
	rendered := make([]string, len(options))
	for i, opt := range options {
		if i == selected {
			rendered[i] = tui.ActiveTabStyle.Render(opt)
		} else {
			rendered[i] = tui.InactiveTabStyle.Render(opt)
		}
	}
	return labelStyle.Render(fmt.Sprintf("%s%-11s", prefix, label)) +
		lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func index(list []string, s string) int {
	for i, v := range list {
		if strings.EqualFold(v, s) {
			return i
		}
	}
	return -1
}

func capitalize(s string) string {
	if s == "hr" {
		return "HR"
	}
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
