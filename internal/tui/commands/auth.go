// Package commands provides Bubble Tea commands for TUI operations. Each
// command runs one controller action off the program loop, reports failures
// through the controller, and answers with a result message.
package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/api"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/controller"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/tui"
)

// RestoreCmd resumes a persisted session, or shows the sign-in screen.
func RestoreCmd(ctx context.Context, ctrl *controller.Controller) tea.Cmd {
	return func() tea.Msg {
		err := ctrl.Restore(ctx)
		ctrl.Report(err)
		return tui.ActionDoneMsg{Action: tui.ActionRestore, Err: err}
	}
}

// LoginCmd signs in.
func LoginCmd(ctx context.Context, ctrl *controller.Controller, username, password string) tea.Cmd {
	return func() tea.Msg {
		user, err := ctrl.Login(ctx, username, password)
		ctrl.Report(err)
		return tui.LoginDoneMsg{User: user, Err: err}
	}
}

// RegisterCmd creates an account.
func RegisterCmd(ctx context.Context, ctrl *controller.Controller, req api.RegisterRequest) tea.Cmd {
	return func() tea.Msg {
		_, err := ctrl.Register(ctx, req)
		ctrl.Report(err)
		return tui.RegisterDoneMsg{Err: err}
	}
}

// LogoutCmd signs out.
func LogoutCmd(ctx context.Context, ctrl *controller.Controller) tea.Cmd {
	return func() tea.Msg {
		err := ctrl.Logout(ctx)
		ctrl.Report(err)
		return tui.ActionDoneMsg{Action: tui.ActionLogout, Err: err}
	}
}

// SaveKeyCmd tests and stores an AI API key.
func SaveKeyCmd(ctx context.Context, ctrl *controller.Controller, key string) tea.Cmd {
	return func() tea.Msg {
		err := ctrl.SaveAPIKey(ctx, key)
		ctrl.Report(err)
		return tui.KeySavedMsg{Err: err}
	}
}

// SkipKeyCmd continues to the dashboard without a key.
func SkipKeyCmd(ctrl *controller.Controller) tea.Cmd {
	return func() tea.Msg {
		ctrl.SkipAPISetup()
		return nil
	}
}

// OpenKeySetupCmd shows the API key screen.
func OpenKeySetupCmd(ctrl *controller.Controller) tea.Cmd {
	return func() tea.Msg {
		ctrl.OpenAPISetup()
		return nil
	}
}

// ActivateCmd enters a dashboard section. Section loaders run here, off
// the program loop.
func ActivateCmd(ctrl *controller.Controller, section string) tea.Cmd {
	return func() tea.Msg {
		ctrl.Activate(section)
		return tui.ActionDoneMsg{Action: tui.ActionActivate, Detail: section}
	}
}
