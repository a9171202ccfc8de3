package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/api"
)

// AssignmentItem implements list.Item for the assignment list.
type AssignmentItem struct{ api.Assignment }

func (i AssignmentItem) Title() string { return i.Assignment.Title }

func (i AssignmentItem) Description() string {
	parts := []string{orDash(i.Status)}
	if i.Deadline != "" {
		parts = append(parts, "due "+string(i.Deadline))
	}
	if i.TeacherName != "" {
		parts = append(parts, "by "+i.TeacherName)
	}
	return strings.Join(parts, " · ")
}

func (i AssignmentItem) FilterValue() string { return i.Assignment.Title }

// SubmissionItem implements list.Item for the submission list.
type SubmissionItem struct{ api.Submission }

func (i SubmissionItem) Title() string { return i.Submission.Title }

func (i SubmissionItem) Description() string {
	if !bool(i.Graded) {
		return "submitted " + orDash(i.SubmittedAt) + " · awaiting grade"
	}
	return fmt.Sprintf("grade %s · %s", orDash(string(i.Grade)), orDash(string(i.Feedback)))
}

func (i SubmissionItem) FilterValue() string { return i.Submission.Title }

// PaperItem implements list.Item for the teacher's paper list.
type PaperItem struct{ api.Paper }

func (i PaperItem) Title() string { return i.Paper.Title }

func (i PaperItem) Description() string {
	return fmt.Sprintf("%s · %d assigned · %d submitted · %d graded",
		orDash(i.Difficulty), i.TotalAssigned, i.Submitted, i.Graded)
}

func (i PaperItem) FilterValue() string { return i.Paper.Title }

// PaperSubmissionItem implements list.Item for a paper's submissions.
type PaperSubmissionItem struct{ api.PaperSubmission }

func (i PaperSubmissionItem) Title() string { return i.Username }

func (i PaperSubmissionItem) Description() string {
	if !bool(i.Graded) {
		return "submitted " + orDash(i.SubmittedAt) + " · ungraded"
	}
	return "grade " + orDash(string(i.Grade))
}

func (i PaperSubmissionItem) FilterValue() string { return i.Username }

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// newList builds a list styled like the rest of the client.
func newList(title string, width, height int) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("#7C3AED")).
		BorderForeground(lipgloss.Color("#7C3AED"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("#9CA3AF"))

	l := list.New(nil, delegate, width, height)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	return l
}
