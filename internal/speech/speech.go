// Package speech provides microphone capture with streaming recognition and
// spoken output. Each capability has an unavailable variant so callers can
// run without audio hardware.
package speech

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/config"
)

// ErrUnavailable is returned when a capability is not configured or the
// host cannot provide it.
var ErrUnavailable = errors.New("speech capability unavailable")

// Result is one recognition result. Interim results have Final false.
type Result struct {
	Text  string `json:"text"`
	Final bool   `json:"final"`
}

// Sink receives stream events. Callbacks run on stream goroutines and must
// not call Stream.Close.
type Sink struct {
	OnResult func(Result)
	OnAudio  func(chunk []byte)
	OnError  func(error)
}

// Stream is an acquired capture resource.
type Stream interface {
	// Close releases the hardware and recognizer. It returns once no
	// further Sink callbacks can run and is safe to call more than once.
	Close() error
}

// Capture acquires the microphone.
type Capture interface {
	Open(ctx context.Context, sink Sink) (Stream, error)
}

// Output speaks text aloud.
type Output interface {
	Speak(ctx context.Context, text string) error
}

// Unavailable is the capture and output variant for hosts without audio.
type Unavailable struct{}

func (Unavailable) Open(context.Context, Sink) (Stream, error) { return nil, ErrUnavailable }

func (Unavailable) Speak(context.Context, string) error { return ErrUnavailable }

// NewCapture returns the capture configured by cfg, or Unavailable when no
// capture command is set.
func NewCapture(cfg config.SpeechConfig, logger *zap.Logger) Capture {
	if len(cfg.CaptureCommand) == 0 {
		return Unavailable{}
	}
	return &StreamCapture{
		Source:        CommandSource(cfg.CaptureCommand),
		RecognizerURL: cfg.RecognizerURL,
		Logger:        logger,
	}
}

// NewOutput returns the speech output configured by cfg, or Unavailable
// when no TTS command is set.
func NewOutput(cfg config.SpeechConfig) Output {
	if len(cfg.TTSCommand) == 0 {
		return Unavailable{}
	}
	return &CommandOutput{Argv: cfg.TTSCommand}
}
