package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/controller"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/nav"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/tui"
)

// RefreshCmd reloads the list behind section. Lists arrive through the
// bridge.
func RefreshCmd(ctx context.Context, ctrl *controller.Controller, section string) tea.Cmd {
	return func() tea.Msg {
		var err error
		switch section {
		case nav.SectionAssignments:
			err = ctrl.LoadAssignments(ctx)
		case nav.SectionSubmissions:
			err = ctrl.LoadSubmissions(ctx)
		case nav.SectionPapers:
			err = ctrl.LoadPapers(ctx)
		default:
			err = fmt.Errorf("nothing to refresh in %s", section)
		}
		ctrl.Report(err)
		return tui.ActionDoneMsg{Action: tui.ActionRefresh, Detail: section, Err: err}
	}
}

// OpenPaperCmd fetches the questions of an assignment.
func OpenPaperCmd(ctx context.Context, ctrl *controller.Controller, assignmentID string) tea.Cmd {
	return func() tea.Msg {
		p, err := ctrl.OpenPaper(ctx, assignmentID)
		ctrl.Report(err)
		return tui.PaperOpenedMsg{Paper: p, Err: err}
	}
}

// DownloadPaperCmd saves an assigned paper into dir.
func DownloadPaperCmd(ctx context.Context, ctrl *controller.Controller, assignmentID, dir string) tea.Cmd {
	return func() tea.Msg {
		path, err := ctrl.DownloadPaper(ctx, assignmentID, dir)
		ctrl.Report(err)
		return tui.ActionDoneMsg{Action: tui.ActionDownload, Detail: path, Err: err}
	}
}

// SubmitPDFCmd uploads an answer sheet.
func SubmitPDFCmd(ctx context.Context, ctrl *controller.Controller, assignmentID, path string) tea.Cmd {
	return func() tea.Msg {
		_, err := ctrl.SubmitPDF(ctx, assignmentID, path)
		ctrl.Report(err)
		return tui.ActionDoneMsg{Action: tui.ActionSubmit, Detail: assignmentID, Err: err}
	}
}
