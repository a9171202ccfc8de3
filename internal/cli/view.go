package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/api"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/nav"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/notice"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/recording"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/session"
)

// printView renders controller output as plain lines. Lists are printed
// only after showLists is called, so section loads during sign-in stay
// quiet. Turns are printed by the line runner, not here.
type printView struct {
	mu    sync.Mutex
	out   io.Writer
	err   io.Writer
	lists bool
}

func newPrintView(out, errOut io.Writer) *printView {
	return &printView{out: out, err: errOut}
}

func (v *printView) showLists() {
	v.mu.Lock()
	v.lists = true
	v.mu.Unlock()
}

func (v *printView) ShowScreen(nav.Screen)              {}
func (v *printView) ShowSection(nav.Screen, string)     {}
func (v *printView) RenderTranscriptEntry(session.Turn) {}
func (v *printView) RenderChatMessage(session.Turn)     {}
func (v *printView) ArmInterview(string, string)        {}

func (v *printView) SetIndicator(kind recording.Kind, on bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	state := "stopped"
	if on {
		state = "started"
	}
	fmt.Fprintf(v.err, "%s recording %s\n", kind, state)
}

func (v *printView) Notify(level notice.Level, message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if level == notice.Info || level == notice.Success {
		fmt.Fprintln(v.err, message)
		return
	}
	fmt.Fprintf(v.err, "%s: %s\n", level, message)
}

func (v *printView) ShowAssignments(assignments []api.Assignment) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.lists {
		return
	}
	if len(assignments) == 0 {
		fmt.Fprintln(v.out, "No assignments.")
		return
	}
	for _, a := range assignments {
		fmt.Fprintf(v.out, "  %-10s  %-10s  %-12s  %s\n", a.ID, a.Status, dash(string(a.Deadline)), a.Title)
	}
}

func (v *printView) ShowSubmissions(submissions []api.Submission) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.lists {
		return
	}
	if len(submissions) == 0 {
		fmt.Fprintln(v.out, "No submissions.")
		return
	}
	for _, s := range submissions {
		grade := "pending"
		if bool(s.Graded) {
			grade = dash(string(s.Grade))
		}
		fmt.Fprintf(v.out, "  %-10s  %-8s  %s\n", s.ID, grade, s.Title)
		if fb := string(s.Feedback); fb != "" {
			fmt.Fprintf(v.out, "              %s\n", fb)
		}
	}
}

func (v *printView) ShowPapers(papers []api.Paper) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.lists {
		return
	}
	if len(papers) == 0 {
		fmt.Fprintln(v.out, "No papers.")
		return
	}
	for _, p := range papers {
		fmt.Fprintf(v.out, "  %-10s  %3d/%-3d  %s\n", p.ID, p.Submitted, p.TotalAssigned, p.Title)
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
