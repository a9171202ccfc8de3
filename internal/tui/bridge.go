package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/api"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/nav"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/notice"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/recording"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/session"
)

// bridgeBuffer bounds messages waiting for the program loop.
const bridgeBuffer = 64

// Bridge is the controller's view. Calls arrive from arbitrary goroutines
// and are forwarded to the Bubble Tea program as messages.
type Bridge struct {
	events chan tea.Msg
	done   chan struct{}
	once   sync.Once
}

// NewBridge creates a Bridge.
func NewBridge() *Bridge {
	return &Bridge{
		events: make(chan tea.Msg, bridgeBuffer),
		done:   make(chan struct{}),
	}
}

// Listen returns a command that waits for the next message. The app
// re-issues it after every delivery.
func (b *Bridge) Listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.events:
			return msg
		case <-b.done:
			return nil
		}
	}
}

// Close releases senders and listeners. Safe to call more than once.
func (b *Bridge) Close() {
	b.once.Do(func() { close(b.done) })
}

func (b *Bridge) send(msg tea.Msg) {
	select {
	case b.events <- msg:
	case <-b.done:
	}
}

func (b *Bridge) ShowScreen(screen nav.Screen) { b.send(ScreenMsg{Screen: screen}) }

func (b *Bridge) ShowSection(container nav.Screen, section string) {
	b.send(SectionMsg{Container: container, Section: section})
}

func (b *Bridge) RenderTranscriptEntry(turn session.Turn) { b.send(TurnMsg{Turn: turn, Voice: true}) }

func (b *Bridge) RenderChatMessage(turn session.Turn) { b.send(TurnMsg{Turn: turn}) }

func (b *Bridge) SetIndicator(kind recording.Kind, on bool) {
	b.send(IndicatorMsg{Kind: kind, Recording: on})
}

func (b *Bridge) Notify(level notice.Level, message string) {
	b.send(NoticeMsg{Level: level, Message: message})
}

func (b *Bridge) ShowAssignments(assignments []api.Assignment) {
	b.send(AssignmentsMsg{Assignments: assignments})
}

func (b *Bridge) ShowSubmissions(submissions []api.Submission) {
	b.send(SubmissionsMsg{Submissions: submissions})
}

func (b *Bridge) ShowPapers(papers []api.Paper) { b.send(PapersMsg{Papers: papers}) }

func (b *Bridge) ArmInterview(interviewType, difficulty string) {
	b.send(ArmInterviewMsg{Type: interviewType, Difficulty: difficulty})
}
