// prompt.go renders the completion prompts for interview and learning turns.
package exchange

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/session"
	"github.com/puneetsingh210426-hue/ai-interviewer/prompts"
)

var (
	greetingTmpl = template.Must(template.New("interview_greeting").Parse(prompts.InterviewGreetingTemplate))
	turnTmpl     = template.Must(template.New("interview_turn").Parse(prompts.InterviewTurnTemplate))
	explainTmpl  = template.Must(template.New("learning_explain").Parse(prompts.LearningExplainTemplate))
)

// Line is one prior turn in a prompt.
type Line struct {
	Role string
	Text string
}

func contextLines(turns []session.Turn) []Line {
	lines := make([]Line, 0, len(turns))
	for _, t := range turns {
		lines = append(lines, Line{Role: t.Role, Text: t.Text})
	}
	return lines
}

// Script produces the prompts of one kind of dialogue.
type Script interface {
	// Label names the dialogue for the session and the journal.
	Label() (kind, detail string)
	Greeting() (string, error)
	Turn(context []session.Turn, utterance string) (string, error)
}

// InterviewScript prompts a mock interview.
type InterviewScript struct {
	Type       string
	Difficulty string
}

func (s InterviewScript) Label() (string, string) { return s.Type, s.Difficulty }

func (s InterviewScript) Greeting() (string, error) {
	return render(greetingTmpl, s)
}

func (s InterviewScript) Turn(context []session.Turn, utterance string) (string, error) {
	return render(turnTmpl, struct {
		Type, Difficulty string
		Context          []Line
		Utterance        string
	}{s.Type, s.Difficulty, contextLines(context), utterance})
}

// LearningScript prompts a tutoring dialogue about a topic.
type LearningScript struct {
	Topic    string
	Material string
}

func (s LearningScript) Label() (string, string) { return "learning", s.Topic }

func (s LearningScript) Greeting() (string, error) {
	return s.Turn(nil, "")
}

func (s LearningScript) Turn(context []session.Turn, utterance string) (string, error) {
	return render(explainTmpl, struct {
		Topic, Material string
		Context         []Line
		Utterance       string
	}{s.Topic, s.Material, contextLines(context), utterance})
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", t.Name(), err)
	}
	return buf.String(), nil
}
