package recording

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/notice"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/speech"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var errDenied = errors.New("permission denied")

// fakeCapture counts open streams so tests can check the device is held
// exactly while a recorder is active.
type fakeCapture struct {
	mu       sync.Mutex
	open     int
	opens    int
	failNext error
	sink     speech.Sink
}

func (f *fakeCapture) Open(_ context.Context, sink speech.Sink) (speech.Stream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return nil, err
	}
	f.open++
	f.opens++
	f.sink = sink
	return &fakeStream{f: f}, nil
}

func (f *fakeCapture) openStreams() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

func (f *fakeCapture) currentSink() speech.Sink {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sink
}

type fakeStream struct {
	f    *fakeCapture
	once sync.Once
}

func (s *fakeStream) Close() error {
	s.once.Do(func() {
		s.f.mu.Lock()
		s.f.open--
		s.f.mu.Unlock()
	})
	return nil
}

type indicatorLog struct {
	mu    sync.Mutex
	calls []bool
}

func (l *indicatorLog) SetIndicator(_ Kind, recording bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, recording)
}

func (l *indicatorLog) get() []bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]bool(nil), l.calls...)
}

type noticeLog struct {
	mu      sync.Mutex
	notices []notice.Notice
}

func (n *noticeLog) Notify(level notice.Level, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice.Notice{Level: level, Message: msg})
}

func (n *noticeLog) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.notices)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStartStopTransitions(t *testing.T) {
	capture := &fakeCapture{}
	ind := &indicatorLog{}
	mic := &Microphone{}
	c := New(Options{Kind: KindInterview, Capture: capture, Microphone: mic, Indicator: ind})

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if c.State() != Active || capture.openStreams() != 1 {
		t.Fatalf("after Start: state=%v open=%d", c.State(), capture.openStreams())
	}
	if owner, ok := mic.Owner(); !ok || owner != KindInterview {
		t.Errorf("microphone owner = %q, %v", owner, ok)
	}

	if err := c.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if c.State() != Idle || capture.openStreams() != 0 {
		t.Errorf("after Stop: state=%v open=%d", c.State(), capture.openStreams())
	}
	if _, ok := mic.Owner(); ok {
		t.Error("microphone still owned after Stop")
	}

	// Acquiring, Active, Idle.
	if diff := cmp.Diff([]bool{false, true, false}, ind.get()); diff != "" {
		t.Errorf("indicator (-want +got):\n%s", diff)
	}
}

func TestStartAndStopAreIdempotent(t *testing.T) {
	capture := &fakeCapture{}
	c := New(Options{Kind: KindInterview, Capture: capture})

	if err := c.Stop(); err != nil {
		t.Errorf("Stop on idle: %v", err)
	}
	_ = c.Start(context.Background())
	_ = c.Start(context.Background())
	if capture.opens != 1 || capture.openStreams() != 1 {
		t.Errorf("double Start acquired %d streams", capture.opens)
	}
	_ = c.Stop()
	_ = c.Stop()
	if capture.openStreams() != 0 {
		t.Errorf("open streams = %d after Stop", capture.openStreams())
	}
}

func TestPermissionDenied(t *testing.T) {
	capture := &fakeCapture{failNext: errDenied}
	ind := &indicatorLog{}
	notes := &noticeLog{}
	mic := &Microphone{}
	c := New(Options{Kind: KindInterview, Capture: capture, Microphone: mic, Indicator: ind, Notifier: notes})

	err := c.Start(context.Background())
	if !errors.Is(err, errDenied) {
		t.Fatalf("Start err = %v, want errDenied", err)
	}
	if !Notified(err) {
		t.Error("Start err should be marked as already shown")
	}
	if c.State() != Idle {
		t.Errorf("state = %v, want idle", c.State())
	}
	if _, ok := mic.Owner(); ok {
		t.Error("microphone leaked after failed start")
	}
	if notes.count() != 1 {
		t.Errorf("notices = %d, want 1", notes.count())
	}
	// Acquiring, Failed, Idle.
	if diff := cmp.Diff([]bool{false, false, false}, ind.get()); diff != "" {
		t.Errorf("indicator (-want +got):\n%s", diff)
	}

	// Recovers on the next attempt.
	if err := c.Start(context.Background()); err != nil || c.State() != Active {
		t.Errorf("retry Start: err=%v state=%v", err, c.State())
	}
	_ = c.Stop()
}

func TestUnavailableCapture(t *testing.T) {
	notes := &noticeLog{}
	c := New(Options{Kind: KindInterview, Notifier: notes})
	if err := c.Start(context.Background()); !errors.Is(err, speech.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
	if c.State() != Idle || notes.count() != 1 {
		t.Errorf("state=%v notices=%d", c.State(), notes.count())
	}
}

func TestInterimResultsDiscarded(t *testing.T) {
	capture := &fakeCapture{}
	var got []string
	c := New(Options{
		Kind:        KindInterview,
		Capture:     capture,
		OnUtterance: func(text string) { got = append(got, text) },
	})
	_ = c.Start(context.Background())
	sink := capture.currentSink()

	sink.OnResult(speech.Result{Text: "I have", Final: false})
	sink.OnResult(speech.Result{Text: "I have five years of Go", Final: true})
	sink.OnResult(speech.Result{Text: "  ", Final: true})
	sink.OnAudio([]byte{1, 2})
	_ = c.Stop()
	sink.OnResult(speech.Result{Text: "late", Final: true})

	if diff := cmp.Diff([]string{"I have five years of Go"}, got); diff != "" {
		t.Errorf("utterances (-want +got):\n%s", diff)
	}
}

func TestLearningArtifact(t *testing.T) {
	capture := &fakeCapture{}
	var artifacts []Artifact
	c := New(Options{
		Kind:       KindLearning,
		Capture:    capture,
		OnArtifact: func(a Artifact) { artifacts = append(artifacts, a) },
	})
	_ = c.Start(context.Background())
	sink := capture.currentSink()
	sink.OnAudio([]byte("ab"))
	sink.OnAudio([]byte("cd"))
	sink.OnResult(speech.Result{Text: "photosynthesis", Final: true})
	sink.OnResult(speech.Result{Text: "makes sugar", Final: true})

	if err := c.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if len(artifacts) != 1 {
		t.Fatalf("artifacts = %d, want 1", len(artifacts))
	}
	a := artifacts[0]
	if string(a.Audio) != "abcd" || a.Transcript != "photosynthesis makes sugar" || a.ID == "" {
		t.Errorf("artifact = %+v", a)
	}

	// A second Stop emits nothing.
	_ = c.Stop()
	if len(artifacts) != 1 {
		t.Errorf("artifacts = %d after idle Stop", len(artifacts))
	}
}

func TestMicrophoneExclusion(t *testing.T) {
	mic := &Microphone{}
	interviewCap, learningCap := &fakeCapture{}, &fakeCapture{}
	interview := New(Options{Kind: KindInterview, Capture: interviewCap, Microphone: mic})
	learning := New(Options{Kind: KindLearning, Capture: learningCap, Microphone: mic})

	_ = interview.Start(context.Background())
	if err := learning.Start(context.Background()); !errors.Is(err, ErrMicrophoneBusy) {
		t.Fatalf("learning Start err = %v, want ErrMicrophoneBusy", err)
	}
	if learning.State() != Idle || learningCap.openStreams() != 0 {
		t.Errorf("learning state=%v open=%d", learning.State(), learningCap.openStreams())
	}
	if owner, _ := mic.Owner(); owner != KindInterview {
		t.Errorf("failed start stole the microphone: owner=%q", owner)
	}

	_ = interview.Stop()
	if err := learning.Start(context.Background()); err != nil {
		t.Fatalf("learning Start after release: %v", err)
	}
	_ = learning.Stop()
}

// reentrantIndicator reads the recorder state from inside SetIndicator, as a
// view rendering synchronously would.
type reentrantIndicator struct {
	c      *Controller
	states []State
}

func (r *reentrantIndicator) SetIndicator(Kind, bool) {
	r.states = append(r.states, r.c.State())
}

func TestIndicatorRunsUnlocked(t *testing.T) {
	ind := &reentrantIndicator{}
	c := New(Options{Kind: KindInterview, Capture: &fakeCapture{}, Indicator: ind})
	ind.c = c

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = c.Start(context.Background())
		_ = c.Stop()
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start/Stop blocked on an indicator that reads state")
	}
	if diff := cmp.Diff([]State{Acquiring, Active, Idle}, ind.states); diff != "" {
		t.Errorf("states seen by indicator (-want +got):\n%s", diff)
	}
}

func TestSupersededFailureKeepsMicrophone(t *testing.T) {
	capture := &fakeCapture{}
	notes := &noticeLog{}
	mic := &Microphone{}
	c := New(Options{Kind: KindInterview, Capture: capture, Microphone: mic, Notifier: notes})

	_ = c.Start(context.Background())
	c.mu.Lock()
	stale := c.generation
	c.mu.Unlock()
	_ = c.Stop()
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("second Start: %v", err)
	}

	if c.fail(stale, speech.ErrSourceEnded) {
		t.Error("stale failure notified the user")
	}
	if owner, ok := mic.Owner(); !ok || owner != KindInterview {
		t.Errorf("stale failure released the microphone of the active attempt: owner=%q", owner)
	}
	if c.State() != Active || notes.count() != 0 {
		t.Errorf("state=%v notices=%d, want active and none", c.State(), notes.count())
	}
	_ = c.Stop()
}

func TestStreamErrorReturnsToIdle(t *testing.T) {
	capture := &fakeCapture{}
	notes := &noticeLog{}
	mic := &Microphone{}
	c := New(Options{Kind: KindInterview, Capture: capture, Microphone: mic, Notifier: notes})
	_ = c.Start(context.Background())

	capture.currentSink().OnError(speech.ErrSourceEnded)

	waitFor(t, func() bool { return c.State() == Idle && notes.count() == 1 })
	if capture.openStreams() != 0 {
		t.Error("stream not released after error")
	}
	if _, ok := mic.Owner(); ok {
		t.Error("microphone not released after error")
	}
	if err := c.Stop(); err != nil {
		t.Errorf("Stop after error: %v", err)
	}
}

func TestStartStopSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for run := 0; run < 200; run++ {
		capture := &fakeCapture{}
		mic := &Microphone{}
		c := New(Options{Kind: KindLearning, Capture: capture, Microphone: mic})

		for step := 0; step < 20; step++ {
			switch rng.Intn(3) {
			case 0:
				_ = c.Start(context.Background())
			case 1:
				_ = c.Stop()
			case 2:
				capture.mu.Lock()
				capture.failNext = errDenied
				capture.mu.Unlock()
				_ = c.Start(context.Background())
				capture.mu.Lock()
				capture.failNext = nil
				capture.mu.Unlock()
			}

			state := c.State()
			if state != Idle && state != Active {
				t.Fatalf("run %d step %d: state %v", run, step, state)
			}
			held := capture.openStreams() == 1
			_, owned := mic.Owner()
			if held != (state == Active) || owned != (state == Active) {
				t.Fatalf("run %d step %d: state=%v open=%d owned=%v", run, step, state, capture.openStreams(), owned)
			}
			if capture.openStreams() > 1 {
				t.Fatalf("run %d step %d: double acquisition", run, step)
			}
		}
		_ = c.Stop()
		if capture.openStreams() != 0 {
			t.Fatalf("run %d: leaked stream", run)
		}
	}
}

func TestToggle(t *testing.T) {
	capture := &fakeCapture{}
	c := New(Options{Kind: KindInterview, Capture: capture})
	_ = c.Toggle(context.Background())
	if c.State() != Active {
		t.Fatalf("state = %v after first toggle", c.State())
	}
	_ = c.Toggle(context.Background())
	if c.State() != Idle {
		t.Errorf("state = %v after second toggle", c.State())
	}
}
