// Package paper parses the plain-text question papers and grading reports
// produced by the remote assistant.
package paper

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	beginMarker = "===QUESTION PAPER==="
	endMarker   = "===END PAPER==="

	// NotAvailable is the score reported when a grading has no score line.
	NotAvailable = "N/A"
)

// Question is one parsed question.
type Question struct {
	Number  int
	Text    string
	Options []string
	Marks   int
}

var (
	questionStart = regexp.MustCompile(`^(?:\*\*)?(?:\[(?:Q(?:uestion)?\s*)?(\d{1,3})\]|(?:Q(?:uestion)?\s*)?(\d{1,3})\s*[.):-]|Q(?:uestion)?\s*(\d{1,3})\b)(?:\*\*)?\s*(.*)$`)
	optionLine    = regexp.MustCompile(`^\(?([A-Da-d])[).]\s+(.+)$`)
	marksPattern  = regexp.MustCompile(`(?i)[\[(]?\s*marks?\s*[:=]?\s*(\d+)\s*[\])]?|[\[(]\s*(\d+)\s*marks?\s*[\])]`)
)

// Extract returns the body between the paper markers. Text without markers
// is returned trimmed; a missing end marker runs to the end of the text.
func Extract(text string) string {
	start := strings.Index(text, beginMarker)
	if start < 0 {
		return strings.TrimSpace(text)
	}
	body := text[start+len(beginMarker):]
	if end := strings.Index(body, endMarker); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// SplitQuestions splits a paper body into numbered questions. Lines before
// the first numbered line are ignored. MCQ options and marks annotations are
// lifted out of the question text.
func SplitQuestions(body string) []Question {
	var (
		out     []Question
		current *Question
		text    []string
	)
	flush := func() {
		if current == nil {
			return
		}
		current.Text = strings.TrimSpace(strings.Join(text, "\n"))
		if current.Text != "" || len(current.Options) > 0 {
			out = append(out, *current)
		}
		current, text = nil, nil
	}

	for _, raw := range strings.Split(body, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if m := questionStart.FindStringSubmatch(line); m != nil && !optionLine.MatchString(line) {
			flush()
			current = &Question{Number: questionNumber(m[1:4])}
			line = strings.TrimSpace(m[4])
			if line == "" {
				continue
			}
		}
		if current == nil {
			continue
		}
		if marks, rest, ok := takeMarks(line); ok {
			current.Marks = marks
			line = rest
			if line == "" {
				continue
			}
		}
		if m := optionLine.FindStringSubmatch(line); m != nil {
			current.Options = append(current.Options, strings.ToUpper(m[1])+") "+strings.TrimSpace(m[2]))
			continue
		}
		text = append(text, line)
	}
	flush()
	return out
}

func questionNumber(groups []string) int {
	for _, g := range groups {
		if g != "" {
			n, _ := strconv.Atoi(g)
			return n
		}
	}
	return 0
}

func takeMarks(line string) (int, string, bool) {
	loc := marksPattern.FindStringSubmatchIndex(line)
	if loc == nil {
		return 0, line, false
	}
	digits := ""
	for _, g := range []int{2, 4} {
		if loc[g] >= 0 {
			digits = line[loc[g]:loc[g+1]]
			break
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, line, false
	}
	rest := strings.TrimSpace(line[:loc[0]] + line[loc[1]:])
	rest = strings.TrimRight(rest, " -–:")
	return n, rest, true
}

// Parse extracts and splits a generated paper in one step.
func Parse(text string) []Question {
	return SplitQuestions(Extract(text))
}
