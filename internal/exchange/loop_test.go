package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/api"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/notice"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/session"
)

type scriptedCompleter struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	requests  []api.GenerateRequest
	inFlight  int
	maxFlight int
	delay     time.Duration
}

func (c *scriptedCompleter) Generate(_ context.Context, req api.GenerateRequest) (string, error) {
	c.mu.Lock()
	c.inFlight++
	if c.inFlight > c.maxFlight {
		c.maxFlight = c.inFlight
	}
	i := len(c.requests)
	c.requests = append(c.requests, req)
	c.mu.Unlock()

	if c.delay > 0 {
		time.Sleep(c.delay)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight--
	if i < len(c.errs) && c.errs[i] != nil {
		return "", c.errs[i]
	}
	if i < len(c.responses) {
		return c.responses[i], nil
	}
	return "Next question.", nil
}

type viewLog struct {
	mu         sync.Mutex
	transcript []session.Turn
	chat       []session.Turn
}

func (v *viewLog) RenderTranscriptEntry(t session.Turn) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.transcript = append(v.transcript, t)
}

func (v *viewLog) RenderChatMessage(t session.Turn) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.chat = append(v.chat, t)
}

type spokenLog struct {
	mu   sync.Mutex
	said []string
}

func (s *spokenLog) Speak(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.said = append(s.said, text)
	return nil
}

type notes struct {
	mu  sync.Mutex
	got []notice.Notice
}

func (n *notes) Notify(level notice.Level, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.got = append(n.got, notice.Notice{Level: level, Message: msg})
}

func (n *notes) levels() []notice.Level {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []notice.Level
	for _, x := range n.got {
		out = append(out, x.Level)
	}
	return out
}

func newState(t *testing.T) *session.State {
	t.Helper()
	s := session.NewState(nil)
	if err := s.SaveAPIKey("AIza-test"); err != nil {
		t.Fatalf("SaveAPIKey: %v", err)
	}
	return s
}

var ignoreTime = cmpopts.IgnoreFields(session.Turn{}, "At")

func TestStartInterviewEndToEnd(t *testing.T) {
	var bodies []api.GenerateRequest
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		var body api.GenerateRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		bodies = append(bodies, body)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"response": "Welcome! Tell me about a project you are proud of.", "success": true})
	}))
	defer srv.Close()

	state := newState(t)
	state.AppendTurn(session.Turn{Role: session.RoleUser, Text: "stale"})
	state.IncQuestions()
	loop := New(Options{State: state, Completer: api.New(srv.URL, state)})

	loop.StartInterview(context.Background(), "technical", "medium")

	want := []session.Turn{{Role: session.RoleAssistant, Text: "Welcome! Tell me about a project you are proud of."}}
	if diff := cmp.Diff(want, state.History(), ignoreTime); diff != "" {
		t.Errorf("history (-want +got):\n%s", diff)
	}
	if q, c := state.Counters(); q != 1 || c != 0 {
		t.Errorf("counters = %d, %d; want 1, 0", q, c)
	}
	if len(bodies) != 1 {
		t.Fatalf("remote calls = %d, want 1", len(bodies))
	}
	p := bodies[0].Prompt
	if !strings.Contains(p, "technical") || !strings.Contains(p, "medium") || bodies[0].APIKey != "AIza-test" {
		t.Errorf("greeting request = %+v", bodies[0])
	}
	if typ, diff := state.Interview(); typ != "technical" || diff != "medium" {
		t.Errorf("interview = %s/%s", typ, diff)
	}
}

func TestHistoryLengthAfterTurns(t *testing.T) {
	for _, n := range []int{1, 2, 5, 8} {
		state := newState(t)
		loop := New(Options{State: state, Completer: &scriptedCompleter{}})
		loop.StartInterview(context.Background(), "behavioral", "easy")
		for i := 1; i < n; i++ {
			loop.Turn(context.Background(), "answer")
		}
		if got := len(state.History()); got != 2*n-1 {
			t.Errorf("N=%d: history length = %d, want %d", n, got, 2*n-1)
		}
		if q, _ := state.Counters(); q != n {
			t.Errorf("N=%d: questions = %d", n, q)
		}
	}
}

func TestCorrectionCounter(t *testing.T) {
	state := newState(t)
	loop := New(Options{State: state, Completer: &scriptedCompleter{
		responses: []string{"Correction: fix your tense", "Great job!", "correction: be concise"},
	}})
	loop.StartInterview(context.Background(), "technical", "medium")
	loop.Turn(context.Background(), "I goes to school")
	loop.Turn(context.Background(), "I went to school and then I went to school")

	if _, c := state.Counters(); c != 2 {
		t.Errorf("corrections = %d, want 2", c)
	}
}

func TestIsCorrection(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Correction: use past tense", true},
		{"CORRECTION: no", true},
		{"a small correction:  here", true},
		{"Correction - missing colon", false},
		{"Great job!", false},
	}
	for _, tt := range tests {
		if got := IsCorrection(tt.text); got != tt.want {
			t.Errorf("IsCorrection(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestFailureFallsBackToApology(t *testing.T) {
	tests := []struct {
		name      string
		completer Completer
	}{
		{name: "rejected call", completer: &scriptedCompleter{errs: []error{nil, errors.New("connection refused")}}},
		{name: "http 500", completer: func() Completer {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"API request failed"}`))
			}))
			t.Cleanup(srv.Close)
			return api.New(srv.URL, nil, api.WithRetry(api.RetryPolicy{MaxAttempts: 1}))
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := newState(t)
			n := &notes{}
			loop := New(Options{State: state, Completer: tt.completer, Notifier: n})

			// Seed a conversation without going through the completer.
			state.ResetConversation("technical", "medium", time.Now())
			state.AppendTurn(session.Turn{Role: session.RoleAssistant, Text: "First question?"})
			state.IncQuestions()
			if sc, ok := tt.completer.(*scriptedCompleter); ok {
				sc.requests = append(sc.requests, api.GenerateRequest{})
			}

			before := len(state.History())
			qBefore, _ := state.Counters()
			turn := loop.Turn(context.Background(), "my answer")

			h := state.History()
			if len(h) != before+2 {
				t.Fatalf("history grew by %d, want 2", len(h)-before)
			}
			if h[len(h)-1].Role != session.RoleAssistant || h[len(h)-1].Text != Apology || turn.Text != Apology {
				t.Errorf("last turn = %+v", h[len(h)-1])
			}
			if q, _ := state.Counters(); q != qBefore+1 {
				t.Errorf("questions = %d, want %d", q, qBefore+1)
			}
			if diff := cmp.Diff([]notice.Level{notice.Error}, n.levels()); diff != "" {
				t.Errorf("notices (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMissingAPIKeyDegrades(t *testing.T) {
	state := session.NewState(nil)
	comp := &scriptedCompleter{}
	n := &notes{}
	loop := New(Options{State: state, Completer: comp, Notifier: n})

	turn := loop.StartInterview(context.Background(), "hr", "easy")
	if turn.Text != Apology || len(comp.requests) != 0 {
		t.Errorf("turn=%q requests=%d", turn.Text, len(comp.requests))
	}
	if q, _ := state.Counters(); q != 1 {
		t.Errorf("questions = %d", q)
	}
	if len(n.levels()) == 0 {
		t.Error("expected a notice")
	}
}

func TestOneSurfacePerTurn(t *testing.T) {
	state := newState(t)
	view := &viewLog{}
	out := &spokenLog{}
	loop := New(Options{State: state, Completer: &scriptedCompleter{responses: []string{"Hi", "Voice reply", "Chat reply"}}, View: view, Speech: out})

	loop.StartInterview(context.Background(), "technical", "hard")
	loop.SetMode(ModeVoice)
	loop.Turn(context.Background(), "spoken answer")
	loop.SetMode(ModeChat)
	loop.Turn(context.Background(), "typed answer")

	texts := func(ts []session.Turn) []string {
		var out []string
		for _, t := range ts {
			out = append(out, t.Text)
		}
		return out
	}
	if diff := cmp.Diff([]string{"spoken answer", "Voice reply"}, texts(view.transcript)); diff != "" {
		t.Errorf("transcript (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Hi", "typed answer", "Chat reply"}, texts(view.chat)); diff != "" {
		t.Errorf("chat (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Voice reply"}, out.said); diff != "" {
		t.Errorf("spoken (-want +got):\n%s", diff)
	}
}

func TestPromptCarriesRecentTurns(t *testing.T) {
	state := newState(t)
	comp := &scriptedCompleter{responses: []string{"a0", "a1", "a2", "a3"}}
	loop := New(Options{State: state, Completer: comp})

	loop.StartInterview(context.Background(), "technical", "medium")
	loop.Turn(context.Background(), "u1")
	loop.Turn(context.Background(), "u2")
	loop.Turn(context.Background(), "u3")

	last := comp.requests[len(comp.requests)-1].Prompt
	// Window holds the last five turns including the new utterance.
	for _, line := range []string{"assistant: a1", "user: u2", "assistant: a2", "user: u3"} {
		if !strings.Contains(last, line) {
			t.Errorf("prompt missing %q:\n%s", line, last)
		}
	}
	if strings.Contains(last, "assistant: a0") {
		t.Errorf("prompt should not carry turns outside the window:\n%s", last)
	}
	if strings.Index(last, "user: u1") > strings.Index(last, "user: u2") {
		t.Error("context lines must be oldest first")
	}
}

func TestBreakerWarnsOnce(t *testing.T) {
	state := newState(t)
	boom := errors.New("boom")
	n := &notes{}
	loop := New(Options{
		State:     state,
		Completer: &scriptedCompleter{errs: []error{boom, boom, boom, boom}},
		Notifier:  n,
		Breaker:   NewCircuitBreaker(3),
	})
	loop.StartInterview(context.Background(), "technical", "medium")
	for i := 0; i < 3; i++ {
		loop.Turn(context.Background(), "x")
	}

	warnings := 0
	for _, l := range n.levels() {
		if l == notice.Warning {
			warnings++
		}
	}
	if warnings != 1 {
		t.Errorf("warnings = %d, want 1", warnings)
	}
}

type fixedTone struct{ err error }

func (f fixedTone) AnalyzeTone(context.Context, string, string) (*session.Tone, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &session.Tone{Confidence: "high", Emotion: "calm"}, nil
}

func TestToneOnlyInVoiceMode(t *testing.T) {
	state := newState(t)
	loop := New(Options{State: state, Completer: &scriptedCompleter{}, Tone: fixedTone{}})
	loop.StartInterview(context.Background(), "technical", "medium")

	loop.Turn(context.Background(), "typed")
	loop.SetMode(ModeVoice)
	loop.Turn(context.Background(), "spoken")

	h := state.History()
	if h[1].Tone != nil {
		t.Error("chat turn should carry no tone")
	}
	if h[3].Tone == nil || h[3].Tone.Confidence != "high" {
		t.Errorf("voice turn tone = %+v", h[3].Tone)
	}

	failing := New(Options{State: state, Completer: &scriptedCompleter{}, Tone: fixedTone{err: errors.New("down")}, Mode: ModeVoice})
	turn := failing.Turn(context.Background(), "still works")
	if turn.Role != session.RoleAssistant {
		t.Errorf("turn = %+v", turn)
	}
}

func TestTurnsAreSerialized(t *testing.T) {
	state := newState(t)
	comp := &scriptedCompleter{delay: 5 * time.Millisecond}
	loop := New(Options{State: state, Completer: comp})
	loop.StartInterview(context.Background(), "technical", "medium")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			loop.Turn(context.Background(), "concurrent")
		}()
	}
	wg.Wait()

	if comp.maxFlight != 1 {
		t.Errorf("max in-flight completions = %d, want 1", comp.maxFlight)
	}
	h := state.History()
	if len(h) != 17 {
		t.Fatalf("history length = %d, want 17", len(h))
	}
	for i := 1; i < len(h); i += 2 {
		if h[i].Role != session.RoleUser || h[i+1].Role != session.RoleAssistant {
			t.Fatalf("turns interleaved at %d: %s then %s", i, h[i].Role, h[i+1].Role)
		}
	}
}

func TestStartLearning(t *testing.T) {
	state := newState(t)
	comp := &scriptedCompleter{responses: []string{"Photosynthesis turns light into sugar."}}
	loop := New(Options{State: state, Completer: comp})

	loop.StartLearning(context.Background(), "photosynthesis", "Chloroplasts capture light.")
	if !strings.Contains(comp.requests[0].Prompt, "Chloroplasts capture light.") {
		t.Errorf("learning greeting missing material:\n%s", comp.requests[0].Prompt)
	}
	if kind, topic := state.Interview(); kind != "learning" || topic != "photosynthesis" {
		t.Errorf("interview = %s/%s", kind, topic)
	}
}
