// Package recording manages the microphone capture lifecycle for the
// interview and learning recorders.
package recording

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/log"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/notice"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/speech"
)

// Kind distinguishes the two recorders.
type Kind string

const (
	// KindInterview emits finalized utterances.
	KindInterview Kind = "interview"
	// KindLearning accumulates raw audio and emits one Artifact on stop.
	KindLearning Kind = "learning"
)

// State is the recorder lifecycle state.
type State int

const (
	Idle State = iota
	Acquiring
	Active
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Acquiring:
		return "acquiring"
	case Active:
		return "active"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Indicator shows whether a recorder is capturing.
type Indicator interface {
	SetIndicator(kind Kind, recording bool)
}

// Flags mirrors recorder activity into the session.
type Flags interface {
	SetRecording(kind string, active bool)
}

// NotifiedError wraps an error the recorder has already shown to the user.
type NotifiedError struct {
	Err error
}

func (e *NotifiedError) Error() string { return e.Err.Error() }

func (e *NotifiedError) Unwrap() error { return e.Err }

// Notified reports whether err was already shown to the user by a recorder.
func Notified(err error) bool {
	var n *NotifiedError
	return errors.As(err, &n)
}

// Artifact is the audio and transcript gathered by a learning recording.
type Artifact struct {
	ID         string
	Kind       Kind
	Audio      []byte
	Transcript string
	StartedAt  time.Time
	EndedAt    time.Time
}

// Options configures a Controller. Only Kind and Capture are required.
type Options struct {
	Kind        Kind
	Capture     speech.Capture
	Microphone  *Microphone
	Indicator   Indicator
	Flags       Flags
	Notifier    notice.Notifier
	Logger      *zap.Logger
	Journal     *log.Logger
	OnUtterance func(text string)
	OnArtifact  func(Artifact)
}

// Controller is one recorder. All methods are safe for concurrent use, and
// Stop may be called from any error path.
type Controller struct {
	opts Options

	mu         sync.Mutex
	state      State
	generation int
	seq        int
	stream     speech.Stream
	chunks     [][]byte
	transcript []string
	startedAt  time.Time

	// pubMu orders indicator updates, which run without mu held.
	pubMu     sync.Mutex
	published int
}

// New creates an idle Controller.
func New(opts Options) *Controller {
	if opts.Microphone == nil {
		opts.Microphone = &Microphone{}
	}
	if opts.Notifier == nil {
		opts.Notifier = notice.Discard
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Capture == nil {
		opts.Capture = speech.Unavailable{}
	}
	return &Controller{opts: opts}
}

// Kind returns the recorder kind.
func (c *Controller) Kind() Kind {
	return c.opts.Kind
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start acquires the microphone and opens a capture stream. It is a no-op
// while acquiring or active. On failure every partially acquired resource is
// released, the user is notified and the recorder returns to Idle; the
// returned error is then a *NotifiedError.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.state == Active || c.state == Acquiring {
		c.mu.Unlock()
		return nil
	}
	c.generation++
	gen := c.generation
	c.chunks = nil
	c.transcript = nil
	c.startedAt = time.Now()
	seq := c.setStateLocked(Acquiring)
	c.mu.Unlock()
	c.publish(seq, false)

	if err := c.opts.Microphone.Acquire(c.opts.Kind); err != nil {
		return c.failStart(gen, err)
	}

	st, err := c.opts.Capture.Open(ctx, speech.Sink{
		OnResult: func(r speech.Result) { c.handleResult(gen, r) },
		OnAudio:  func(chunk []byte) { c.handleAudio(gen, chunk) },
		OnError:  func(err error) { go c.fail(gen, err) },
	})
	if err != nil {
		return c.failStart(gen, err)
	}

	c.mu.Lock()
	if c.generation != gen || c.state != Acquiring {
		// Stopped while acquiring.
		c.mu.Unlock()
		_ = st.Close()
		c.releaseIfUnused()
		return nil
	}
	c.stream = st
	seq = c.setStateLocked(Active)
	c.mu.Unlock()
	c.publish(seq, true)

	_ = c.opts.Journal.Append(log.LogEvent{Event: log.EventRecordingStarted, Kind: string(c.opts.Kind)})
	c.opts.Logger.Info("recording started", zap.String("kind", string(c.opts.Kind)))
	return nil
}

// Stop releases the capture stream and microphone and returns to Idle. For
// learning recorders the gathered audio is emitted as one Artifact. Stop is
// a no-op when idle.
func (c *Controller) Stop() error {
	c.mu.Lock()
	switch c.state {
	case Idle:
		c.mu.Unlock()
		return nil
	case Acquiring, Failed:
		// The pending Start or fail path releases what it acquired.
		c.generation++
		seq := c.setStateLocked(Idle)
		c.mu.Unlock()
		c.publish(seq, false)
		return nil
	}

	c.generation++
	st := c.stream
	c.stream = nil
	artifact := Artifact{
		ID:         uuid.New().String(),
		Kind:       c.opts.Kind,
		Audio:      joinChunks(c.chunks),
		Transcript: strings.Join(c.transcript, " "),
		StartedAt:  c.startedAt,
		EndedAt:    time.Now(),
	}
	c.chunks = nil
	c.transcript = nil
	seq := c.setStateLocked(Idle)
	c.mu.Unlock()
	c.publish(seq, false)

	var closeErr error
	if st != nil {
		closeErr = st.Close()
	}
	c.releaseIfUnused()

	_ = c.opts.Journal.Append(log.LogEvent{
		Event:      log.EventRecordingStopped,
		Kind:       string(c.opts.Kind),
		DurationMs: artifact.EndedAt.Sub(artifact.StartedAt).Milliseconds(),
	})
	c.opts.Logger.Info("recording stopped", zap.String("kind", string(c.opts.Kind)), zap.Int("audio_bytes", len(artifact.Audio)))

	if c.opts.Kind == KindLearning && c.opts.OnArtifact != nil {
		c.opts.OnArtifact(artifact)
	}
	if closeErr != nil {
		return fmt.Errorf("release capture: %w", closeErr)
	}
	return nil
}

// Toggle starts an idle recorder and stops an active one.
func (c *Controller) Toggle(ctx context.Context) error {
	if c.State() == Active {
		return c.Stop()
	}
	return c.Start(ctx)
}

// failStart runs the failure path for a Start attempt and marks err as
// shown when the user was notified.
func (c *Controller) failStart(gen int, err error) error {
	if c.fail(gen, err) {
		return &NotifiedError{Err: err}
	}
	return err
}

// fail runs the failure path of generation gen: release, notify, go Idle.
// It reports whether the user was notified.
func (c *Controller) fail(gen int, err error) bool {
	c.mu.Lock()
	if c.generation != gen {
		c.mu.Unlock()
		// A Stop superseded this attempt; only release what it held.
		c.releaseIfUnused()
		return false
	}
	st := c.stream
	c.stream = nil
	c.chunks = nil
	c.transcript = nil
	seq := c.setStateLocked(Failed)
	c.mu.Unlock()
	c.publish(seq, false)

	if st != nil {
		_ = st.Close()
	}
	c.releaseIfUnused()

	c.opts.Notifier.Notify(notice.Error, failureMessage(err))
	_ = c.opts.Journal.Append(log.LogEvent{Event: log.EventRecordingFailed, Kind: string(c.opts.Kind), Error: err.Error()})
	c.opts.Logger.Warn("recording failed", zap.String("kind", string(c.opts.Kind)), zap.Error(err))

	c.mu.Lock()
	seq = 0
	if c.generation == gen && c.state == Failed {
		seq = c.setStateLocked(Idle)
	}
	c.mu.Unlock()
	if seq != 0 {
		c.publish(seq, false)
	}
	return true
}

// releaseIfUnused frees the microphone unless a newer attempt is using it.
// The check and the release happen under one lock so a concurrent Start
// cannot lose the ownership it just took.
func (c *Controller) releaseIfUnused() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Active && c.state != Acquiring {
		c.opts.Microphone.Release(c.opts.Kind)
	}
}

func (c *Controller) handleResult(gen int, r speech.Result) {
	text := strings.TrimSpace(r.Text)
	if !r.Final || text == "" {
		return
	}
	c.mu.Lock()
	if c.generation != gen || c.state != Active {
		c.mu.Unlock()
		return
	}
	c.transcript = append(c.transcript, text)
	c.mu.Unlock()

	if c.opts.Kind == KindInterview && c.opts.OnUtterance != nil {
		c.opts.OnUtterance(text)
	}
}

func (c *Controller) handleAudio(gen int, chunk []byte) {
	if c.opts.Kind != KindLearning {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen || c.state != Active {
		return
	}
	c.chunks = append(c.chunks, chunk)
}

// setStateLocked records a transition and returns its sequence number for
// publish. The caller must publish after releasing mu.
func (c *Controller) setStateLocked(s State) int {
	c.state = s
	if c.opts.Flags != nil {
		c.opts.Flags.SetRecording(string(c.opts.Kind), s == Active)
	}
	c.seq++
	return c.seq
}

// publish shows transition seq on the indicator. The indicator may block,
// so mu must not be held. Transitions overtaken by a newer publish are
// dropped.
func (c *Controller) publish(seq int, active bool) {
	if c.opts.Indicator == nil {
		return
	}
	c.pubMu.Lock()
	defer c.pubMu.Unlock()
	if seq <= c.published {
		return
	}
	c.published = seq
	c.opts.Indicator.SetIndicator(c.opts.Kind, active)
}

func joinChunks(chunks [][]byte) []byte {
	n := 0
	for _, ch := range chunks {
		n += len(ch)
	}
	out := make([]byte, 0, n)
	for _, ch := range chunks {
		out = append(out, ch...)
	}
	return out
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, ErrMicrophoneBusy):
		return "Microphone is busy: stop the other recording first."
	case errors.Is(err, speech.ErrUnavailable):
		return "Speech capture is not available on this machine."
	case errors.Is(err, speech.ErrSourceEnded):
		return "The microphone stopped unexpectedly."
	}
	return "Could not access the microphone: " + err.Error()
}
