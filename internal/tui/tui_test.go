package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/api"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/nav"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/notice"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/recording"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/session"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestBridge_DeliversInOrder(t *testing.T) {
	b := NewBridge()
	defer b.Close()

	b.ShowScreen(nav.ScreenStudent)
	b.ShowSection(nav.ScreenStudent, nav.SectionInterview)
	b.SetIndicator(recording.KindInterview, true)
	b.Notify(notice.Warning, "careful")
	b.RenderTranscriptEntry(session.Turn{Role: session.RoleUser, Text: "hi"})
	b.RenderChatMessage(session.Turn{Role: session.RoleAssistant, Text: "hello"})

	listen := b.Listen()
	var got []any
	for i := 0; i < 6; i++ {
		got = append(got, listen())
	}

	want := []any{
		ScreenMsg{Screen: nav.ScreenStudent},
		SectionMsg{Container: nav.ScreenStudent, Section: nav.SectionInterview},
		IndicatorMsg{Kind: recording.KindInterview, Recording: true},
		NoticeMsg{Level: notice.Warning, Message: "careful"},
		TurnMsg{Turn: session.Turn{Role: session.RoleUser, Text: "hi"}, Voice: true},
		TurnMsg{Turn: session.Turn{Role: session.RoleAssistant, Text: "hello"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestBridge_CloseReleasesBlockedSenders(t *testing.T) {
	b := NewBridge()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < bridgeBuffer+10; i++ {
			b.Notify(notice.Info, "tick")
		}
	}()

	time.Sleep(10 * time.Millisecond)
	b.Close()
	b.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sender still blocked after Close")
	}
}

func TestBridge_ListenAfterCloseReturnsNil(t *testing.T) {
	b := NewBridge()
	b.Close()
	if msg := b.Listen()(); msg != nil {
		t.Errorf("Listen() after Close = %v, want nil", msg)
	}
}

type fakeDialogue struct {
	started  []string
	said     []string
	ended    int
	startErr error
}

func (f *fakeDialogue) StartInterview(_ context.Context, interviewType, difficulty string) (session.Turn, error) {
	if f.startErr != nil {
		return session.Turn{}, f.startErr
	}
	f.started = append(f.started, interviewType+"/"+difficulty)
	return session.Turn{Role: session.RoleAssistant, Text: "Tell me about yourself."}, nil
}

func (f *fakeDialogue) Say(_ context.Context, text string) (session.Turn, error) {
	f.said = append(f.said, text)
	return session.Turn{Role: session.RoleAssistant, Text: "Reply to " + text}, nil
}

func (f *fakeDialogue) EndInterview() (string, error) {
	f.ended++
	return "iv-1", nil
}

func TestLineRunner(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantSaid []string
	}{
		{
			name:     "ends on command",
			input:    "I build APIs\n\n/end\nignored\n",
			wantSaid: []string{"I build APIs"},
		},
		{
			name:     "ends on EOF",
			input:    "first\nsecond",
			wantSaid: []string{"first", "second"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDialogue{}
			var out bytes.Buffer
			r := NewLineRunner(strings.NewReader(tt.input), &out)

			id, err := r.Run(context.Background(), d, "technical", "easy")
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if id != "iv-1" {
				t.Errorf("Run() id = %q, want iv-1", id)
			}
			if diff := cmp.Diff(tt.wantSaid, d.said); diff != "" {
				t.Errorf("said mismatch (-want +got):\n%s", diff)
			}
			if d.ended != 1 {
				t.Errorf("EndInterview called %d times, want 1", d.ended)
			}
			if !strings.Contains(out.String(), "Coach: Tell me about yourself.") {
				t.Errorf("output missing greeting:\n%s", out.String())
			}
		})
	}
}

type reviewingDialogue struct {
	fakeDialogue
	reviews int
}

func (r *reviewingDialogue) ReviewAnswer(context.Context) (*api.AnalyzeResponseResult, error) {
	r.reviews++
	return &api.AnalyzeResponseResult{Analysis: "Mention the trade-offs."}, nil
}

func TestLineRunner_Review(t *testing.T) {
	d := &reviewingDialogue{}
	var out bytes.Buffer
	r := NewLineRunner(strings.NewReader("I use caches\n/review\n/end\n"), &out)

	if _, err := r.Run(context.Background(), d, "technical", "easy"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if d.reviews != 1 {
		t.Errorf("ReviewAnswer called %d times, want 1", d.reviews)
	}
	if diff := cmp.Diff([]string{"I use caches"}, d.said); diff != "" {
		t.Errorf("said mismatch (-want +got):\n%s", diff)
	}
	for _, want := range []string{"(type /review for feedback on your last answer)", "Feedback: Mention the trade-offs."} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestLineRunner_ReviewNeedsReviewer(t *testing.T) {
	d := &fakeDialogue{}
	var out bytes.Buffer
	r := NewLineRunner(strings.NewReader("/review\n/end\n"), &out)

	if _, err := r.Run(context.Background(), d, "technical", "easy"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if diff := cmp.Diff([]string{"/review"}, d.said); diff != "" {
		t.Errorf("said mismatch (-want +got):\n%s", diff)
	}
	if strings.Contains(out.String(), "/review for feedback") {
		t.Errorf("plain dialogue should not offer /review:\n%s", out.String())
	}
}

func TestLineRunner_StartError(t *testing.T) {
	startErr := errors.New("no key")
	d := &fakeDialogue{startErr: startErr}
	r := NewLineRunner(strings.NewReader("hi\n"), &bytes.Buffer{})

	if _, err := r.Run(context.Background(), d, "", ""); !errors.Is(err, startErr) {
		t.Fatalf("Run() error = %v, want %v", err, startErr)
	}
	if d.ended != 0 {
		t.Errorf("EndInterview called %d times, want 0", d.ended)
	}
}

func TestModel_NoticeLine(t *testing.T) {
	m := NewModel()
	if got := m.NoticeLine(); got != "" {
		t.Errorf("NoticeLine() with no notice = %q, want empty", got)
	}
	m.SetNotice(NoticeMsg{Level: notice.Error, Message: "boom"}, time.Now())
	if got := m.NoticeLine(); !strings.Contains(got, "boom") {
		t.Errorf("NoticeLine() = %q, want it to contain boom", got)
	}
	if m.Screen != nav.ScreenAuth {
		t.Errorf("initial screen = %q, want %q", m.Screen, nav.ScreenAuth)
	}
}
