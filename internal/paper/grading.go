package paper

import (
	"strings"
)

// Grading is a parsed grading report.
type Grading struct {
	Score         string
	Feedback      string
	Strengths     string
	Improvements  string
	CorrectAnswer string
}

var gradingFields = []string{"SCORE", "FEEDBACK", "STRENGTHS", "IMPROVEMENTS", "CORRECT_ANSWER"}

// ParseScore returns the overall score line of a grading, preferring
// OVERALL_SCORE over SCORE, or NotAvailable.
func ParseScore(grading string) string {
	for _, label := range []string{"OVERALL_SCORE:", "SCORE:"} {
		if v, ok := valueAfter(grading, label); ok && v != "" {
			return v
		}
	}
	return NotAvailable
}

// ParseGrading splits a "LABEL: value" grading report into its fields.
// Values may continue over following lines until the next label.
func ParseGrading(text string) Grading {
	fields := make(map[string]*strings.Builder)
	var current string
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if label, rest, ok := splitLabel(line); ok {
			current = label
			fields[current] = &strings.Builder{}
			fields[current].WriteString(rest)
			continue
		}
		if current == "" || line == "" {
			continue
		}
		b := fields[current]
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(line)
	}

	get := func(k string) string {
		if b, ok := fields[k]; ok {
			return strings.TrimSpace(b.String())
		}
		return ""
	}
	g := Grading{
		Score:         get("SCORE"),
		Feedback:      get("FEEDBACK"),
		Strengths:     get("STRENGTHS"),
		Improvements:  get("IMPROVEMENTS"),
		CorrectAnswer: get("CORRECT_ANSWER"),
	}
	if g.Score == "" {
		g.Score = ParseScore(text)
	}
	return g
}

func splitLabel(line string) (label, rest string, ok bool) {
	line = strings.TrimLeft(line, "*# ")
	for _, f := range gradingFields {
		for _, prefix := range []string{f + ":", f + "**:", "OVERALL_" + f + ":"} {
			if strings.HasPrefix(line, prefix) {
				return f, strings.Trim(strings.TrimSpace(line[len(prefix):]), "*"), true
			}
		}
	}
	return "", "", false
}

func valueAfter(text, label string) (string, bool) {
	i := strings.Index(text, label)
	if i < 0 {
		return "", false
	}
	rest := text[i+len(label):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	return strings.TrimSpace(rest), true
}
