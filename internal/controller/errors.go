package controller

import (
	"context"
	"errors"
	"strings"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/api"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/exchange"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/nav"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/notice"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/recording"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/session"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/speech"
)

var (
	// ErrKeyRejected is returned when the server refuses an API key.
	ErrKeyRejected = errors.New("API key rejected")
	// ErrNoAssistantSession is returned by assistant actions before a session exists.
	ErrNoAssistantSession = errors.New("no assistant session")
	// ErrNoLearningSession is returned by learning actions before a session exists.
	ErrNoLearningSession = errors.New("no learning session")
)

// ValidationError reports a missing or malformed input. No request is sent
// when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// required returns a ValidationError for the first blank value.
func required(fields ...[2]string) error {
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			return invalid(f[0], "Please fill in "+strings.ReplaceAll(f[0], "_", " ")+".")
		}
	}
	return nil
}

// Report funnels err to the notice surface. Authentication failures clear
// the session and return to the sign-in screen. Errors a recorder already
// showed are not repeated.
func (c *Controller) Report(err error) {
	if err == nil || errors.Is(err, context.Canceled) || recording.Notified(err) {
		return
	}
	if errors.Is(err, session.ErrUnauthenticated) {
		_ = c.interviewRec.Stop()
		_ = c.learningRec.Stop()
		if clearErr := c.opts.State.Clear(); clearErr != nil {
			c.opts.Logger.Warn(clearErr.Error())
		}
		c.nav.ShowScreen(string(nav.ScreenAuth))
	}
	c.opts.View.Notify(Level(err), Message(err))
}

// Level is the notice level for err.
func Level(err error) notice.Level {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve),
		errors.Is(err, session.ErrUnauthenticated),
		errors.Is(err, recording.ErrMicrophoneBusy),
		errors.Is(err, speech.ErrUnavailable):
		return notice.Warning
	}
	return notice.Error
}

// Message is the user-facing text for err.
func Message(err error) string {
	var (
		ve *ValidationError
		se *api.StatusError
	)
	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.Is(err, session.ErrUnauthenticated):
		return "Please sign in to continue."
	case errors.Is(err, exchange.ErrNoAPIKey):
		return "Add your AI API key first."
	case errors.Is(err, ErrNoAssistantSession):
		return "Start an assistant session first."
	case errors.Is(err, ErrNoLearningSession):
		return "Start a learning session first."
	case errors.Is(err, recording.ErrMicrophoneBusy):
		return "Microphone is busy: stop the other recording first."
	case errors.Is(err, speech.ErrUnavailable):
		return "Speech is not available on this machine."
	case errors.Is(err, context.DeadlineExceeded):
		return "The server took too long to respond."
	case errors.As(err, &se) && se.Message != "":
		return se.Message
	}
	return err.Error()
}
