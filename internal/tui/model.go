package tui

import (
	"time"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/nav"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/notice"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/recording"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/session"
)

// NoticeTTL is how long a notice stays on screen.
const NoticeTTL = 5 * time.Second

// Model holds the state shared by every view.
type Model struct {
	Width  int
	Height int

	Screen   nav.Screen
	Sections map[nav.Screen]string
	User     session.User

	Notice   NoticeMsg
	NoticeAt time.Time

	Recording map[recording.Kind]bool

	// CtrlCPending is set after the first Ctrl+C; a second one quits.
	CtrlCPending bool
}

// NewModel creates the shared model, starting on the sign-in screen.
func NewModel() *Model {
	return &Model{
		Screen:    nav.ScreenAuth,
		Sections:  make(map[nav.Screen]string),
		Recording: make(map[recording.Kind]bool),
	}
}

// Section returns the active section of the current screen.
func (m *Model) Section() string {
	return m.Sections[m.Screen]
}

// SetNotice records n as the current notice.
func (m *Model) SetNotice(n NoticeMsg, now time.Time) {
	m.Notice = n
	m.NoticeAt = now
}

// NoticeLine renders the current notice, or "" when none is shown.
func (m *Model) NoticeLine() string {
	if m.Notice.Message == "" {
		return ""
	}
	switch m.Notice.Level {
	case notice.Success:
		return SuccessStyle.Render(IconDone + " " + m.Notice.Message)
	case notice.Warning:
		return WarningStyle.Render("! " + m.Notice.Message)
	case notice.Error:
		return ErrorStyle.Render(IconFailed + " " + m.Notice.Message)
	default:
		return InfoStyle.Render(m.Notice.Message)
	}
}
