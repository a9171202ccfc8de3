package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/api"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/session"
)

// Line-mode commands.
const (
	endCommand    = "/end"
	reviewCommand = "/review"
)

// ErrNoDialogue is returned when a LineRunner has nothing to drive.
var ErrNoDialogue = errors.New("line runner: no dialogue")

// Dialogue is the conversation a LineRunner drives.
type Dialogue interface {
	StartInterview(ctx context.Context, interviewType, difficulty string) (session.Turn, error)
	Say(ctx context.Context, text string) (session.Turn, error)
	EndInterview() (string, error)
}

// Reviewer gives feedback on the latest answer. A Dialogue that also
// implements Reviewer enables the /review command.
type Reviewer interface {
	ReviewAnswer(ctx context.Context) (*api.AnalyzeResponseResult, error)
}

// LineRunner runs an interview over plain line-oriented I/O, for pipes and
// dumb terminals.
type LineRunner struct {
	in  io.Reader
	out io.Writer
}

// NewLineRunner creates a LineRunner reading answers from in and writing
// the conversation to out.
func NewLineRunner(in io.Reader, out io.Writer) *LineRunner {
	return &LineRunner{in: in, out: out}
}

// Run starts an interview and relays lines until /end or end of input. The
// interview is archived on exit; the archive id is returned.
func (r *LineRunner) Run(ctx context.Context, d Dialogue, interviewType, difficulty string) (string, error) {
	if d == nil {
		return "", ErrNoDialogue
	}

	greeting, err := d.StartInterview(ctx, interviewType, difficulty)
	if err != nil {
		return "", err
	}
	r.print(greeting)
	reviewer, canReview := d.(Reviewer)
	if canReview {
		fmt.Fprintf(r.out, "(type %s for feedback on your last answer)\n", reviewCommand)
	}
	fmt.Fprintf(r.out, "(type %s to finish)\n", endCommand)

	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Fprint(r.out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == endCommand {
			break
		}
		if canReview && line == reviewCommand {
			res, err := reviewer.ReviewAnswer(ctx)
			if err != nil {
				fmt.Fprintf(r.out, "error: %v\n", err)
				continue
			}
			fmt.Fprintf(r.out, "Feedback: %s\n", res.Analysis)
			continue
		}
		reply, err := d.Say(ctx, line)
		if err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
			continue
		}
		r.print(reply)
		if ctx.Err() != nil {
			break
		}
	}
	fmt.Fprintln(r.out)

	if err := scanner.Err(); err != nil {
		_, _ = d.EndInterview()
		return "", fmt.Errorf("reading input: %w", err)
	}
	return d.EndInterview()
}

func (r *LineRunner) print(turn session.Turn) {
	label := "You"
	if turn.Role == session.RoleAssistant {
		label = "Coach"
	}
	fmt.Fprintf(r.out, "%s: %s\n", label, turn.Text)
}
