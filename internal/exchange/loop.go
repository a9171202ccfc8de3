// Package exchange drives the turn-based conversation between the user and
// the remote completion service.
package exchange

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/api"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/log"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/notice"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/session"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/speech"
)

// Apology is the assistant turn recorded when a completion fails.
const Apology = "I'm sorry, I couldn't process that. Could you please repeat your answer?"

// DefaultHistoryWindow is how many recent turns a prompt carries.
const DefaultHistoryWindow = 5

const correctionMarker = "correction:"

// ErrNoAPIKey is reported when a turn is attempted without an API key.
var ErrNoAPIKey = errors.New("no API key configured")

// Mode is the output surface responses are routed to.
type Mode int

const (
	// ModeChat renders responses in the message list.
	ModeChat Mode = iota
	// ModeVoice speaks responses and adds them to the transcript panel.
	ModeVoice
)

func (m Mode) String() string {
	if m == ModeVoice {
		return "voice"
	}
	return "chat"
}

// Completer is the completion call of the API gateway.
type Completer interface {
	Generate(ctx context.Context, req api.GenerateRequest) (string, error)
}

// ToneAnalyzer annotates spoken turns with delivery feedback.
type ToneAnalyzer interface {
	AnalyzeTone(ctx context.Context, transcript, apiKey string) (*session.Tone, error)
}

// View is the rendering surface for conversation turns.
type View interface {
	RenderTranscriptEntry(turn session.Turn)
	RenderChatMessage(turn session.Turn)
}

// Options configures a Loop. State and Completer are required.
type Options struct {
	State         *session.State
	Completer     Completer
	View          View
	Speech        speech.Output
	Tone          ToneAnalyzer
	Notifier      notice.Notifier
	Breaker       *CircuitBreaker
	HistoryWindow int
	Mode          Mode
	Logger        *zap.Logger
	Journal       *log.Logger
}

// Loop runs exchange turns one at a time.
type Loop struct {
	opts Options

	turnMu sync.Mutex // serializes turns

	mu     sync.Mutex
	mode   Mode
	script Script
}

// New creates a Loop.
func New(opts Options) *Loop {
	if opts.HistoryWindow <= 0 {
		opts.HistoryWindow = DefaultHistoryWindow
	}
	if opts.Notifier == nil {
		opts.Notifier = notice.Discard
	}
	if opts.Speech == nil {
		opts.Speech = speech.Unavailable{}
	}
	if opts.Breaker == nil {
		opts.Breaker = NewCircuitBreaker(3)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.View == nil {
		opts.View = discardView{}
	}
	return &Loop{opts: opts, mode: opts.Mode, script: InterviewScript{Type: "technical", Difficulty: "medium"}}
}

// SetMode selects the output surface for subsequent turns.
func (l *Loop) SetMode(m Mode) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mode = m
}

// Mode returns the current output surface.
func (l *Loop) Mode() Mode {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mode
}

// StartInterview resets the conversation and performs the greeting turn.
func (l *Loop) StartInterview(ctx context.Context, interviewType, difficulty string) session.Turn {
	return l.Start(ctx, InterviewScript{Type: interviewType, Difficulty: difficulty})
}

// StartLearning resets the conversation and opens a tutoring dialogue.
func (l *Loop) StartLearning(ctx context.Context, topic, material string) session.Turn {
	return l.Start(ctx, LearningScript{Topic: topic, Material: material})
}

// Start resets history, counters and start time for script, then runs one
// greeting exchange. No user turn is recorded for the greeting.
func (l *Loop) Start(ctx context.Context, script Script) session.Turn {
	l.turnMu.Lock()
	defer l.turnMu.Unlock()

	l.mu.Lock()
	l.script = script
	l.mu.Unlock()

	kind, detail := script.Label()
	l.opts.State.ResetConversation(kind, detail, time.Now())
	l.opts.Breaker.Reset()

	user, _ := l.opts.State.User()
	_ = l.opts.Journal.Append(log.LogEvent{
		Event: log.EventInterviewStarted,
		User:  user.Username,
		Kind:  kind,
		Data:  map[string]interface{}{"detail": detail, "mode": l.Mode().String()},
	})

	prompt, err := script.Greeting()
	return l.complete(ctx, prompt, err)
}

// Turn records the user's utterance, requests a response and routes it to
// the active surface. Failures degrade to an apology turn; Turn never fails.
func (l *Loop) Turn(ctx context.Context, utterance string) session.Turn {
	l.turnMu.Lock()
	defer l.turnMu.Unlock()

	mode := l.Mode()
	userTurn := session.Turn{Role: session.RoleUser, Text: utterance, At: time.Now()}
	if mode == ModeVoice {
		userTurn.Tone = l.analyzeTone(ctx, utterance)
	}
	l.opts.State.AppendTurn(userTurn)
	l.render(mode, userTurn)

	l.mu.Lock()
	script := l.script
	l.mu.Unlock()

	prompt, err := script.Turn(l.opts.State.RecentTurns(l.opts.HistoryWindow), utterance)
	return l.complete(ctx, prompt, err)
}

// complete runs the remote call and the bookkeeping shared by greeting and
// regular turns.
func (l *Loop) complete(ctx context.Context, prompt string, promptErr error) session.Turn {
	start := time.Now()
	text, err := l.generate(ctx, prompt, promptErr)
	if err != nil {
		text = Apology
		l.opts.Logger.Warn("completion failed", zap.Error(err))
		l.opts.Notifier.Notify(notice.Error, failureMessage(err))
		if l.opts.Breaker.RecordFailure() {
			l.opts.Notifier.Notify(notice.Warning,
				"Several responses failed in a row. Check your API key and server connection.")
		}
		_ = l.opts.Journal.Append(log.LogEvent{Event: log.EventExchangeFailed, Error: err.Error()})
	} else {
		l.opts.Breaker.RecordSuccess()
	}

	turn := session.Turn{Role: session.RoleAssistant, Text: text, At: time.Now()}
	l.opts.State.AppendTurn(turn)
	if IsCorrection(text) {
		l.opts.State.IncCorrections()
	}

	mode := l.Mode()
	l.render(mode, turn)
	if mode == ModeVoice {
		if err := l.opts.Speech.Speak(ctx, text); err != nil && !errors.Is(err, speech.ErrUnavailable) {
			l.opts.Logger.Warn("speech output failed", zap.Error(err))
		}
	}

	l.opts.State.IncQuestions()
	if err == nil {
		q, c := l.opts.State.Counters()
		_ = l.opts.Journal.Append(log.LogEvent{
			Event:      log.EventExchangeCompleted,
			Questions:  q,
			DurationMs: time.Since(start).Milliseconds(),
			Data:       map[string]interface{}{"corrections": c},
		})
	}
	return turn
}

func (l *Loop) generate(ctx context.Context, prompt string, promptErr error) (string, error) {
	if promptErr != nil {
		return "", promptErr
	}
	key := l.opts.State.APIKey()
	if key == "" {
		return "", ErrNoAPIKey
	}
	text, err := l.opts.Completer.Generate(ctx, api.GenerateRequest{APIKey: key, Prompt: prompt})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", errors.New("empty response")
	}
	return text, nil
}

func (l *Loop) analyzeTone(ctx context.Context, utterance string) *session.Tone {
	if l.opts.Tone == nil {
		return nil
	}
	key := l.opts.State.APIKey()
	if key == "" {
		return nil
	}
	tone, err := l.opts.Tone.AnalyzeTone(ctx, utterance, key)
	if err != nil {
		l.opts.Logger.Debug("tone analysis skipped", zap.Error(err))
		return nil
	}
	return tone
}

// render sends turn to exactly one surface.
func (l *Loop) render(mode Mode, turn session.Turn) {
	if mode == ModeVoice {
		l.opts.View.RenderTranscriptEntry(turn)
		return
	}
	l.opts.View.RenderChatMessage(turn)
}

// IsCorrection reports whether a response carries a correction marker.
func IsCorrection(text string) bool {
	return strings.Contains(strings.ToLower(text), correctionMarker)
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoAPIKey):
		return "Add your AI API key before starting."
	case errors.Is(err, session.ErrUnauthenticated):
		return "Your session has expired. Please sign in again."
	case errors.Is(err, context.DeadlineExceeded):
		return "The interviewer took too long to respond."
	}
	var se *api.StatusError
	if errors.As(err, &se) && se.Message != "" {
		return "Could not get a response: " + se.Message
	}
	return "Could not get a response: " + err.Error()
}

type discardView struct{}

func (discardView) RenderTranscriptEntry(session.Turn) {}
func (discardView) RenderChatMessage(session.Turn)     {}
