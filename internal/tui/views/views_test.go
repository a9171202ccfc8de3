package views

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/api"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/controller"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/nav"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/paper"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/recording"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/session"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/tui"
)

func keyRunes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyCtrlS = tea.KeyMsg{Type: tea.KeyCtrlS}
	keyCtrlR = tea.KeyMsg{Type: tea.KeyCtrlR}
	keyCtrlN = tea.KeyMsg{Type: tea.KeyCtrlN}
	keyCtrlD = tea.KeyMsg{Type: tea.KeyCtrlD}
)

// run executes cmd and returns its message, or nil.
func run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

func typeInto[M interface {
	Update(tea.Msg) (M, tea.Cmd)
}](m M, s string) M {
	for _, r := range s {
		m, _ = m.Update(keyRunes(string(r)))
	}
	return m
}

func TestAuthModel_Login(t *testing.T) {
	m := NewAuthModel(80, 24)
	m = typeInto(m, "alice")
	m, _ = m.Update(keyEnter)
	m = typeInto(m, "s3cret")

	m, cmd := m.Update(keyEnter)
	got := run(cmd)
	want := tui.LoginRequestMsg{Username: "alice", Password: "s3cret"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("login request mismatch (-want +got):\n%s", diff)
	}

	// Busy until the result arrives.
	if _, cmd := m.Update(keyEnter); run(cmd) != nil {
		t.Error("second submit while busy produced a request")
	}
	if strings.Contains(m.View(), "s3cret") {
		t.Error("password is echoed")
	}
}

func TestAuthModel_Register(t *testing.T) {
	m := NewAuthModel(80, 24)
	m, _ = m.Update(keyTab)
	m, _ = m.Update(keyRight) // teacher
	m = typeInto(m, "bob")
	m, _ = m.Update(keyEnter)
	m = typeInto(m, "bob@example.edu")
	m, _ = m.Update(keyEnter)
	m = typeInto(m, "pw")

	m, cmd := m.Update(keyEnter)
	got := run(cmd)
	want := tui.RegisterRequestMsg{Request: api.RegisterRequest{
		Username: "bob", Email: "bob@example.edu", Password: "pw", UserType: "teacher",
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("register request mismatch (-want +got):\n%s", diff)
	}

	m.Registered()
	if m.register {
		t.Error("Registered() did not return to sign in")
	}
	if got := m.login.Value(loginUsername); got != "bob" {
		t.Errorf("username after Registered() = %q, want bob", got)
	}
}

func TestAPISetupModel(t *testing.T) {
	m := NewAPISetupModel(80, 24)
	m = typeInto(m, "sk-test")
	_, cmd := m.Update(keyEnter)
	if diff := cmp.Diff(tui.SaveKeyRequestMsg{Key: "sk-test"}, run(cmd)); diff != "" {
		t.Errorf("save request mismatch (-want +got):\n%s", diff)
	}

	m = NewAPISetupModel(80, 24)
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := run(cmd).(tui.SkipKeyRequestMsg); !ok {
		t.Errorf("Esc produced %T, want SkipKeyRequestMsg", run(cmd))
	}
}

func TestInterviewModel_Setup(t *testing.T) {
	m := NewInterviewModel(80, 30)
	m.Arm("behavioral", "hard")

	if gotType, gotDiff := m.Selection(); gotType != "behavioral" || gotDiff != "hard" {
		t.Fatalf("Selection() after Arm = %s/%s, want behavioral/hard", gotType, gotDiff)
	}

	m, _ = m.Update(keyRight) // type row: hr
	m, _ = m.Update(keyDown)
	m, _ = m.Update(keyRight) // difficulty row wraps to easy

	_, cmd := m.Update(keyEnter)
	want := tui.StartInterviewRequestMsg{Type: "hr", Difficulty: "easy"}
	if diff := cmp.Diff(want, run(cmd)); diff != "" {
		t.Errorf("start request mismatch (-want +got):\n%s", diff)
	}
}

func TestInterviewModel_Running(t *testing.T) {
	m := NewInterviewModel(80, 30)
	m.Start()
	m.Arm("hr", "easy")
	if got, _ := m.Selection(); got != "technical" {
		t.Errorf("Arm while running changed type to %s", got)
	}

	m.AddTurn(session.Turn{Role: session.RoleAssistant, Text: "Welcome. Tell me about a project."}, false)
	m.AddTurn(session.Turn{Role: session.RoleUser, Text: "I built a cache"}, false)
	if !m.chat.Loading() {
		t.Error("user turn did not start the thinking indicator")
	}
	m.AddTurn(session.Turn{Role: session.RoleAssistant, Text: "Why?"}, false)
	if m.chat.Loading() {
		t.Error("assistant turn did not end the thinking indicator")
	}
	if m.chat.Len() != 3 {
		t.Errorf("chat has %d turns, want 3", m.chat.Len())
	}

	_, cmd := m.Update(keyCtrlR)
	if diff := cmp.Diff(tui.ToggleRecordRequestMsg{Kind: recording.KindInterview}, run(cmd)); diff != "" {
		t.Errorf("record request mismatch (-want +got):\n%s", diff)
	}
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	if _, ok := run(cmd).(tui.EndInterviewRequestMsg); !ok {
		t.Errorf("ctrl+e produced %T, want EndInterviewRequestMsg", run(cmd))
	}
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	if _, ok := run(cmd).(tui.ReviewRequestMsg); !ok {
		t.Errorf("ctrl+f produced %T, want ReviewRequestMsg", run(cmd))
	}

	m.AddFeedback("Say 'I built', not 'I build'.")
	if m.chat.Len() != 4 {
		t.Errorf("chat has %d turns after feedback, want 4", m.chat.Len())
	}
}

func TestChatModel_Send(t *testing.T) {
	m := NewChatModel(80, 30)
	if _, cmd := m.Update(keyEnter); run(cmd) != nil {
		t.Error("empty answer produced a request")
	}

	m = typeInto(m, "hello")
	m, cmd := m.Update(keyEnter)
	if diff := cmp.Diff(tui.SayRequestMsg{Text: "hello"}, run(cmd)); diff != "" {
		t.Errorf("say request mismatch (-want +got):\n%s", diff)
	}
	if m.textarea.Value() != "" {
		t.Errorf("answer box not cleared: %q", m.textarea.Value())
	}
}

func TestFormatEntries(t *testing.T) {
	entries := []chatEntry{
		{turn: session.Turn{Role: session.RoleUser, Text: "um hello", Tone: &session.Tone{Confidence: "low", Feedback: "Slow down."}}, voice: true},
		{turn: session.Turn{Role: session.RoleAssistant, Text: "Welcome"}},
	}
	got := formatEntries(entries, 60)
	for _, want := range []string{"You (spoken): ", "um hello", "confidence low", "Slow down.", "Coach:", "Welcome"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatEntries() missing %q:\n%s", want, got)
		}
	}
}

func TestLearningModel(t *testing.T) {
	m := NewLearningModel(80, 30)
	m = typeInto(m, "Graphs")
	m, _ = m.Update(keyEnter)
	m = typeInto(m, "BFS uses a queue")

	m, cmd := m.Update(keyCtrlS)
	want := tui.StartLearningRequestMsg{Topic: "Graphs", Material: "BFS uses a queue"}
	if diff := cmp.Diff(want, run(cmd)); diff != "" {
		t.Errorf("start request mismatch (-want +got):\n%s", diff)
	}

	m.Start("Graphs")
	_, cmd = m.Update(keyCtrlR)
	if diff := cmp.Diff(tui.ToggleRecordRequestMsg{Kind: recording.KindLearning}, run(cmd)); diff != "" {
		t.Errorf("record request mismatch (-want +got):\n%s", diff)
	}
}

func TestAssignmentsModel(t *testing.T) {
	m := NewAssignmentsModel(100)
	if !strings.Contains(m.View(), "Loading") {
		t.Error("unloaded view does not say loading")
	}
	m.SetAssignments([]api.Assignment{{ID: "a-1", Title: "Quiz", Status: "pending"}})

	tests := []struct {
		name string
		key  tea.KeyMsg
		want tea.Msg
	}{
		{"open", keyEnter, tui.OpenPaperRequestMsg{AssignmentID: "a-1"}},
		{"download", keyRunes("d"), tui.DownloadRequestMsg{AssignmentID: "a-1"}},
		{"refresh", keyRunes("r"), tui.RefreshRequestMsg{Section: nav.SectionAssignments}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cmd := m.Update(tt.key)
			if diff := cmp.Diff(tt.want, run(cmd)); diff != "" {
				t.Errorf("request mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("submit", func(t *testing.T) {
		sm, _ := m.Update(keyRunes("s"))
		sm = typeInto(sm, "/tmp/a.pdf")
		sm, cmd := sm.Update(keyEnter)
		want := tui.SubmitRequestMsg{AssignmentID: "a-1", Path: "/tmp/a.pdf"}
		if diff := cmp.Diff(want, run(cmd)); diff != "" {
			t.Errorf("submit request mismatch (-want +got):\n%s", diff)
		}
		if sm.prompt != nil {
			t.Error("prompt still open after submit")
		}
	})
}

func TestFormatPaper(t *testing.T) {
	p := &controller.AssignedPaper{
		Detail:    api.PaperDetail{Title: "Quiz", Difficulty: "easy"},
		Questions: []api.Question{{Text: "What is a stack?", Marks: 2}, {Text: "Define a queue."}},
	}
	got := formatPaper(p)
	for _, want := range []string{"**Q1.** What is a stack? _(2 marks)_", "**Q2.** Define a queue.", "Difficulty: easy"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatPaper() missing %q:\n%s", want, got)
		}
	}
}

func TestPapersModel_Grade(t *testing.T) {
	m := NewPapersModel(100)
	m.SetPapers([]api.Paper{{ID: "p-1", Title: "Midterm"}})

	_, cmd := m.Update(keyEnter)
	if diff := cmp.Diff(tui.PaperSubmissionsRequestMsg{PaperID: "p-1"}, run(cmd)); diff != "" {
		t.Fatalf("submissions request mismatch (-want +got):\n%s", diff)
	}

	m.SetSubmissions("p-1", []api.PaperSubmission{{ID: "ans-1", Username: "alice"}})
	if m.paper == nil || m.paper.Title != "Midterm" {
		t.Fatalf("open paper = %+v, want Midterm", m.paper)
	}

	m, _ = m.Update(keyRunes("g"))
	m = typeInto(m, "9/10")
	m, _ = m.Update(keyEnter)
	m = typeInto(m, "Great")
	_, cmd = m.Update(keyEnter)

	want := tui.GradeRequestMsg{PaperID: "p-1", AnswerID: "ans-1", Grade: "9/10", Feedback: "Great"}
	if diff := cmp.Diff(want, run(cmd)); diff != "" {
		t.Errorf("grade request mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateAssignmentModel(t *testing.T) {
	m := NewCreateAssignmentModel(100)
	m = typeInto(m, "Quiz")
	for i := 0; i < 4; i++ {
		m, _ = m.Update(keyDown)
	}
	m = typeInto(m, "s-1, s-2")
	m, _ = m.Update(keyEnter)
	m = typeInto(m, "1. What is a heap?")

	m, cmd := m.Update(keyCtrlS)
	msg, ok := run(cmd).(tui.CreateAssignmentRequestMsg)
	if !ok {
		t.Fatalf("ctrl+s produced %T, want CreateAssignmentRequestMsg", run(cmd))
	}
	want := controller.AssignmentForm{
		Title:      "Quiz",
		StudentIDs: []string{"s-1", "s-2"},
		Questions:  "1. What is a heap?",
	}
	if diff := cmp.Diff(want, msg.Form); diff != "" {
		t.Errorf("form mismatch (-want +got):\n%s", diff)
	}

	m.Done(true)
	if m.form.Value(createTitle) != "" {
		t.Error("Done(true) did not reset the form")
	}
}

func TestAssistantModel(t *testing.T) {
	m := NewAssistantModel("", 100)

	_, cmd := m.Update(keyCtrlS)
	if diff := cmp.Diff(tui.OpenAssistantRequestMsg{}, lastMsg(cmd)); diff != "" {
		t.Fatalf("open request mismatch (-want +got):\n%s", diff)
	}

	m.Opened("sess-1")
	m, _ = m.Update(keyCtrlN) // paper
	if m.Mode() != nav.ModePaper {
		t.Fatalf("Mode() = %s, want paper", m.Mode())
	}
	m = typeInto(m, "5")
	m, _ = m.Update(keyEnter)
	m = typeInto(m, "Hard")
	m, _ = m.Update(keyEnter)
	m = typeInto(m, "mcq, long")
	m, cmd = m.Update(keyEnter)

	want := tui.GeneratePaperRequestMsg{Spec: controller.PaperSpec{
		NumQuestions: 5, Difficulty: "hard", QuestionTypes: []string{"mcq", "long"},
	}}
	if diff := cmp.Diff(want, lastMsg(cmd)); diff != "" {
		t.Errorf("paper request mismatch (-want +got):\n%s", diff)
	}

	m.Reply(tui.AssistantReplyMsg{Mode: nav.ModePaper, Paper: &controller.GeneratedPaper{
		PaperID:   "gp-1",
		Questions: []paper.Question{{Number: 1, Text: "Define X", Options: []string{"A) a", "B) b"}, Marks: 1}},
	}})
	if m.busy || !m.hasOut {
		t.Errorf("after Reply busy=%v hasOut=%v, want false/true", m.busy, m.hasOut)
	}
}

func TestAssistantModel_FixedMode(t *testing.T) {
	m := NewAssistantModel(nav.ModeGrade, 100)
	m.Opened("sess-1")
	m, _ = m.Update(keyCtrlN)
	if m.Mode() != nav.ModeGrade {
		t.Errorf("ctrl+n changed fixed mode to %s", m.Mode())
	}
}

func TestAssistantResumeAndDownload(t *testing.T) {
	m := NewAssistantModel("", 100)
	m, _ = m.Update(keyDown)
	m, _ = m.Update(keyDown)
	m = typeInto(m, "ts-9")

	_, cmd := m.Update(keyCtrlS)
	if diff := cmp.Diff(tui.ResumeAssistantRequestMsg{SessionID: "ts-9"}, lastMsg(cmd)); diff != "" {
		t.Fatalf("resume request mismatch (-want +got):\n%s", diff)
	}

	m.Opened("ts-9")
	if m.paperID != "" || strings.Contains(m.View(), "Ctrl+D") {
		t.Errorf("download offered before a paper was generated: paperID=%q", m.paperID)
	}

	m.Reply(tui.AssistantReplyMsg{Mode: nav.ModePaper, Paper: &controller.GeneratedPaper{
		PaperID:   "gp-2",
		Questions: []paper.Question{{Number: 1, Text: "Define Y", Marks: 2}},
	}})
	_, cmd = m.Update(keyCtrlD)
	if diff := cmp.Diff(tui.DownloadGeneratedRequestMsg{PaperID: "gp-2"}, lastMsg(cmd)); diff != "" {
		t.Errorf("download request mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(m.View(), "Ctrl+D: Download PDF") {
		t.Error("footer does not offer the PDF download")
	}
}

// lastMsg runs a possibly batched command and returns the last request it
// produces.
func lastMsg(cmd tea.Cmd) tea.Msg {
	msg := run(cmd)
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return msg
	}
	var last tea.Msg
	for _, c := range batch {
		if c == nil {
			continue
		}
		switch m := c().(type) {
		case tui.OpenAssistantRequestMsg, tui.ResumeAssistantRequestMsg, tui.DownloadGeneratedRequestMsg,
			tui.TeachRequestMsg, tui.GeneratePaperRequestMsg, tui.GradeAnswerRequestMsg:
			last = m
		}
	}
	return last
}

func TestFormatGrading(t *testing.T) {
	g := &controller.GradedAnswer{
		Report: paper.Grading{Score: "7/10", Feedback: "Solid", Improvements: "Cite sources"},
		Raw:    "SCORE: 7/10",
	}
	got := FormatGrading(g)
	for _, want := range []string{"## Score: 7/10", "### Feedback", "Solid", "### Improvements"} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatGrading() missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "### Strengths") {
		t.Error("FormatGrading() rendered an empty section")
	}

	bare := FormatGrading(&controller.GradedAnswer{Report: paper.Grading{Score: paper.NotAvailable}, Raw: "free text"})
	if !strings.Contains(bare, "free text") {
		t.Errorf("unparsed grading should fall back to raw text:\n%s", bare)
	}
}

func TestDashboardModel_Tabs(t *testing.T) {
	m := NewDashboardModel(nav.ScreenStudent, nav.SectionsLayout()[nav.ScreenStudent], 120, 40)
	if m.Active() != nav.SectionAssignments {
		t.Fatalf("initial section = %s, want assignments", m.Active())
	}

	_, cmd := m.Update(keyTab)
	if diff := cmp.Diff(tui.ActivateRequestMsg{Section: nav.SectionSubmissions}, run(cmd)); diff != "" {
		t.Errorf("tab request mismatch (-want +got):\n%s", diff)
	}
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if diff := cmp.Diff(tui.ActivateRequestMsg{Section: nav.SectionLearning}, run(cmd)); diff != "" {
		t.Errorf("shift+tab request mismatch (-want +got):\n%s", diff)
	}

	m.SetActive("not-a-section")
	if m.Active() != nav.SectionAssignments {
		t.Errorf("unknown section changed active to %s", m.Active())
	}
}

func TestDashboardModel_ModesLayout(t *testing.T) {
	m := NewDashboardModel(nav.ScreenTeacher, nav.ModesLayout()[nav.ScreenTeacher], 120, 40)
	m.SetActive(nav.ModeGrade)
	if m.Assistant().Mode() != nav.ModeGrade {
		t.Errorf("assistant mode = %s, want grade", m.Assistant().Mode())
	}
	if !strings.Contains(m.View(), "Grade") {
		t.Error("grade tab not rendered")
	}
}
