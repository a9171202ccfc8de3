package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/recording"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/session"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/tui"
)

const (
	learningTopic = iota
	learningMaterial
)

// LearningModel is the learning section: a topic form, then a tutoring
// conversation with recordable explanations.
type LearningModel struct {
	form      form
	running   bool
	topic     string
	chat      ChatModel
	recording bool
	width     int
	height    int
}

// NewLearningModel creates a LearningModel showing the topic form.
func NewLearningModel(width, height int) LearningModel {
	m := LearningModel{
		form: newForm(
			newField("Topic", "e.g. Binary search trees"),
			newAreaField("Study material (optional)", "Paste notes the tutor should use...", 6),
		),
		chat:   NewChatModel(width, height-4),
		width:  width,
		height: height,
	}
	m.form.SetWidth(width - 8)
	return m
}

// Start switches to the conversation for topic.
func (m *LearningModel) Start(topic string) tea.Cmd {
	m.running = true
	m.topic = topic
	m.chat.Reset()
	return m.chat.SetLoading(true)
}

// Stop returns to the topic form.
func (m *LearningModel) Stop() {
	m.running = false
	m.recording = false
	m.chat.SetLoading(false)
}

// Running reports whether the conversation is shown.
func (m LearningModel) Running() bool { return m.running }

// AddTurn appends a turn to the conversation.
func (m *LearningModel) AddTurn(turn session.Turn, voice bool) tea.Cmd {
	m.chat.AddTurn(turn, voice)
	if turn.Role == session.RoleUser {
		return m.chat.SetLoading(true)
	}
	return nil
}

// SetLoading toggles the thinking indicator.
func (m *LearningModel) SetLoading(loading bool) tea.Cmd { return m.chat.SetLoading(loading) }

// SetRecording updates the microphone badge.
func (m *LearningModel) SetRecording(on bool) { m.recording = on }

// SetSize resizes the view.
func (m *LearningModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.chat.SetSize(width, height-4)
	m.form.SetWidth(width - 8)
}

// Update handles messages for the learning section.
func (m LearningModel) Update(msg tea.Msg) (LearningModel, tea.Cmd) {
	var cmd tea.Cmd
	if !m.running {
		var submitted bool
		m.form, cmd, submitted = m.form.Update(msg)
		if submitted {
			topic, material := m.form.Value(learningTopic), m.form.Value(learningMaterial)
			return m, func() tea.Msg {
				return tui.StartLearningRequestMsg{Topic: topic, Material: material}
			}
		}
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, tui.DefaultKeyMap.Record):
			return m, func() tea.Msg { return tui.ToggleRecordRequestMsg{Kind: recording.KindLearning} }
		case key.Matches(msg, tui.DefaultKeyMap.Escape):
			m.Stop()
			return m, nil
		}
	}
	m.chat, cmd = m.chat.Update(msg)
	return m, cmd
}

// View renders the learning section.
func (m LearningModel) View() string {
	var b strings.Builder
	if !m.running {
		b.WriteString(tui.TitleStyle.Render("Learn by explaining"))
		b.WriteString("\n\n")
		b.WriteString(m.form.View())
		b.WriteString("\n\n")
		b.WriteString(tui.DimStyle.Render("Enter/↓: Next field · Ctrl+S: Start session"))
		return b.String()
	}

	b.WriteString(tui.TitleStyle.Render("Learning: " + m.topic))
	b.WriteString("  ")
	b.WriteString(tui.RecordingBadge(m.recording))
	b.WriteString("\n\n")
	b.WriteString(m.chat.View())
	b.WriteString("\n\n")
	b.WriteString(tui.DimStyle.Render("Enter: Send · Ctrl+R: Record explanation · Esc: New topic"))
	return b.String()
}
