package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/controller"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/nav"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/tui"
)

// PaperSubmissionsCmd fetches the submissions of a paper.
func PaperSubmissionsCmd(ctx context.Context, ctrl *controller.Controller, paperID string) tea.Cmd {
	return func() tea.Msg {
		subs, err := ctrl.PaperSubmissions(ctx, paperID)
		ctrl.Report(err)
		return tui.PaperSubmissionsMsg{PaperID: paperID, Submissions: subs, Err: err}
	}
}

// GradeCmd records a grade and reloads the paper's submissions.
func GradeCmd(ctx context.Context, ctrl *controller.Controller, req tui.GradeRequestMsg) tea.Cmd {
	return func() tea.Msg {
		err := ctrl.Grade(ctx, req.AnswerID, req.Grade, req.Feedback)
		ctrl.Report(err)
		return tui.ActionDoneMsg{Action: tui.ActionGrade, Detail: req.PaperID, Err: err}
	}
}

// CreateAssignmentCmd creates and assigns a paper.
func CreateAssignmentCmd(ctx context.Context, ctrl *controller.Controller, form controller.AssignmentForm) tea.Cmd {
	return func() tea.Msg {
		resp, err := ctrl.CreateAssignment(ctx, form)
		ctrl.Report(err)
		var paperID string
		if resp != nil {
			paperID = resp.PaperID
		}
		return tui.ActionDoneMsg{Action: tui.ActionCreate, Detail: paperID, Err: err}
	}
}

// OpenAssistantCmd opens an assistant session.
func OpenAssistantCmd(ctx context.Context, ctrl *controller.Controller, syllabusPath, pyqPath string) tea.Cmd {
	return func() tea.Msg {
		resp, err := ctrl.OpenAssistant(ctx, syllabusPath, pyqPath)
		ctrl.Report(err)
		if err != nil {
			return tui.AssistantOpenedMsg{Err: err}
		}
		return tui.AssistantOpenedMsg{SessionID: resp.SessionID}
	}
}

// ResumeAssistantCmd reattaches to an existing assistant session.
func ResumeAssistantCmd(ctx context.Context, ctrl *controller.Controller, sessionID string) tea.Cmd {
	return func() tea.Msg {
		info, err := ctrl.ResumeAssistant(ctx, sessionID)
		ctrl.Report(err)
		if err != nil {
			return tui.AssistantOpenedMsg{Err: err}
		}
		return tui.AssistantOpenedMsg{SessionID: info.ID}
	}
}

// DownloadGeneratedPaperCmd saves a generated paper as PDF into dir.
func DownloadGeneratedPaperCmd(ctx context.Context, ctrl *controller.Controller, paperID, dir string) tea.Cmd {
	return func() tea.Msg {
		path, err := ctrl.DownloadGeneratedPaper(ctx, paperID, dir)
		ctrl.Report(err)
		return tui.ActionDoneMsg{Action: tui.ActionDownload, Detail: path, Err: err}
	}
}

// TeachCmd asks the assistant a question.
func TeachCmd(ctx context.Context, ctrl *controller.Controller, question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := ctrl.Teach(ctx, question)
		ctrl.Report(err)
		return tui.AssistantReplyMsg{Mode: nav.ModeTeach, Answer: answer, Err: err}
	}
}

// GeneratePaperCmd asks the assistant for a question paper.
func GeneratePaperCmd(ctx context.Context, ctrl *controller.Controller, spec controller.PaperSpec) tea.Cmd {
	return func() tea.Msg {
		p, err := ctrl.GeneratePaper(ctx, spec)
		ctrl.Report(err)
		return tui.AssistantReplyMsg{Mode: nav.ModePaper, Paper: p, Err: err}
	}
}

// GradeAnswerCmd asks the assistant to grade one answer.
func GradeAnswerCmd(ctx context.Context, ctrl *controller.Controller, answer controller.AnswerToGrade) tea.Cmd {
	return func() tea.Msg {
		g, err := ctrl.GradeAnswer(ctx, answer)
		ctrl.Report(err)
		return tui.AssistantReplyMsg{Mode: nav.ModeGrade, Graded: g, Err: err}
	}
}
