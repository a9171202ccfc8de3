package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/controller"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/nav"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/recording"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/tui"
)

// StartInterviewCmd starts an interview. The greeting arrives through the
// bridge as a TurnMsg.
func StartInterviewCmd(ctx context.Context, ctrl *controller.Controller, interviewType, difficulty string) tea.Cmd {
	return func() tea.Msg {
		_, err := ctrl.StartInterview(ctx, interviewType, difficulty)
		ctrl.Report(err)
		return tui.SessionStartedMsg{Section: nav.SectionInterview, Err: err}
	}
}

// StartLearningCmd starts a learning session.
func StartLearningCmd(ctx context.Context, ctrl *controller.Controller, topic, material string) tea.Cmd {
	return func() tea.Msg {
		_, err := ctrl.StartLearning(ctx, topic, material)
		ctrl.Report(err)
		return tui.SessionStartedMsg{Section: nav.SectionLearning, Err: err}
	}
}

// SayCmd sends a typed answer. Both turns arrive through the bridge.
func SayCmd(ctx context.Context, ctrl *controller.Controller, text string) tea.Cmd {
	return func() tea.Msg {
		_, err := ctrl.Say(ctx, text)
		ctrl.Report(err)
		return tui.ReplyDoneMsg{Err: err}
	}
}

// EndInterviewCmd archives the running interview.
func EndInterviewCmd(ctrl *controller.Controller) tea.Cmd {
	return func() tea.Msg {
		id, err := ctrl.EndInterview()
		ctrl.Report(err)
		return tui.InterviewEndedMsg{ID: id, Err: err}
	}
}

// ReviewCmd asks for feedback on the latest answer.
func ReviewCmd(ctx context.Context, ctrl *controller.Controller) tea.Cmd {
	return func() tea.Msg {
		res, err := ctrl.ReviewAnswer(ctx)
		ctrl.Report(err)
		if err != nil {
			return tui.ReviewDoneMsg{Err: err}
		}
		return tui.ReviewDoneMsg{Analysis: res.Analysis}
	}
}

// ToggleRecordCmd starts or stops the recorder of kind.
func ToggleRecordCmd(ctx context.Context, ctrl *controller.Controller, kind recording.Kind) tea.Cmd {
	return func() tea.Msg {
		var err error
		if kind == recording.KindLearning {
			err = ctrl.ToggleLearningRecording(ctx)
		} else {
			err = ctrl.ToggleInterviewRecording(ctx)
		}
		ctrl.Report(err)
		return tui.ActionDoneMsg{Action: tui.ActionRecord, Detail: string(kind), Err: err}
	}
}

// ToggleVoiceCmd switches between voice and chat mode. Leaving voice mode
// stops the interview recorder, which reports through the bridge, so it
// must not run on the update loop.
func ToggleVoiceCmd(ctrl *controller.Controller) tea.Cmd {
	return func() tea.Msg {
		ctrl.SetVoiceMode(!ctrl.VoiceMode())
		return tui.VoiceToggledMsg{Voice: ctrl.VoiceMode()}
	}
}
