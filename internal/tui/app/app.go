// Package app provides the main TUI application that wires all views together.
package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/controller"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/nav"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/notice"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/recording"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/tui"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/tui/commands"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/tui/views"
)

var _ controller.View = (*tui.Bridge)(nil)

// Options configures an App.
type Options struct {
	// DownloadDir receives downloaded papers. Empty means the working directory.
	DownloadDir string
}

// App is the main TUI application that wires all views together.
type App struct {
	ctx    context.Context
	ctrl   *controller.Controller
	bridge *tui.Bridge
	opts   Options
	model  *tui.Model

	// View models
	authView  views.AuthModel
	setupView views.APISetupModel
	student   views.DashboardModel
	teacher   views.DashboardModel

	// dialogue is the section that receives conversation turns.
	dialogue string
}

// New creates an App driving ctrl. bridge must be the controller's view.
func New(ctx context.Context, ctrl *controller.Controller, bridge *tui.Bridge, opts Options) *App {
	model := tui.NewModel()
	a := &App{
		ctx:       ctx,
		ctrl:      ctrl,
		bridge:    bridge,
		opts:      opts,
		model:     model,
		authView:  views.NewAuthModel(model.Width, model.Height),
		setupView: views.NewAPISetupModel(model.Width, model.Height),
	}
	a.resetDashboards()
	return a
}

func (a *App) resetDashboards() {
	n := a.ctrl.Navigator()
	a.student = views.NewDashboardModel(nav.ScreenStudent, n.Sections(nav.ScreenStudent), a.model.Width, a.model.Height)
	a.teacher = views.NewDashboardModel(nav.ScreenTeacher, n.Sections(nav.ScreenTeacher), a.model.Width, a.model.Height)
	a.dialogue = ""
}

// dashboard returns the dashboard of screen, or nil.
func (a *App) dashboard(screen nav.Screen) *views.DashboardModel {
	switch screen {
	case nav.ScreenStudent:
		return &a.student
	case nav.ScreenTeacher:
		return &a.teacher
	}
	return nil
}

// Init restores the persisted session and starts listening to the controller.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.bridge.Listen(),
		commands.RestoreCmd(a.ctx, a.ctrl),
		textinput.Blink,
	)
}

// Update handles messages and updates the application state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.model.Width = msg.Width
		a.model.Height = msg.Height
		a.authView.SetSize(msg.Width, msg.Height)
		a.setupView.SetSize(msg.Width, msg.Height)
		a.student.SetSize(msg.Width, msg.Height)
		a.teacher.SetSize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == tui.KeyCtrlC {
			if a.model.CtrlCPending {
				// Second press within timeout - exit
				return a, tea.Quit
			}
			a.model.CtrlCPending = true
			return a, tea.Tick(time.Second, func(time.Time) tea.Msg {
				return tui.CtrlCResetMsg{}
			})
		}

	case tui.CtrlCResetMsg:
		a.model.CtrlCPending = false
		return a, nil

	case tui.ClearNoticeMsg:
		if a.model.NoticeAt.Equal(msg.At) {
			a.model.Notice = tui.NoticeMsg{}
		}
		return a, nil
	}

	if cmd, ok := a.handleBridge(msg); ok {
		return a, tea.Batch(cmd, a.bridge.Listen())
	}
	if cmd, ok := a.handleRequest(msg); ok {
		return a, cmd
	}
	if cmd, ok := a.handleResult(msg); ok {
		return a, cmd
	}

	// Route remaining messages based on the current screen.
	var cmd tea.Cmd
	switch a.model.Screen {
	case nav.ScreenAuth:
		a.authView, cmd = a.authView.Update(msg)
	case nav.ScreenAPISetup:
		a.setupView, cmd = a.setupView.Update(msg)
	case nav.ScreenStudent:
		a.student, cmd = a.student.Update(msg)
	case nav.ScreenTeacher:
		a.teacher, cmd = a.teacher.Update(msg)
	}
	a.recordScroll()
	return a, cmd
}

// recordScroll stores the active dashboard's scroll position in the
// navigator, unless a screen change is still on its way.
func (a *App) recordScroll() {
	d := a.dashboard(a.model.Screen)
	n := a.ctrl.Navigator()
	if d == nil || n.Screen() != a.model.Screen {
		return
	}
	n.SetScrollOffset(d.ScrollOffset())
}

// handleBridge applies a message pushed by the controller.
func (a *App) handleBridge(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case tui.ScreenMsg:
		a.enterScreen(msg.Screen)
		return nil, true

	case tui.SectionMsg:
		a.model.Sections[msg.Container] = msg.Section
		if d := a.dashboard(msg.Container); d != nil {
			d.SetActive(msg.Section)
		}
		return nil, true

	case tui.TurnMsg:
		return a.addTurn(msg), true

	case tui.IndicatorMsg:
		a.model.Recording[msg.Kind] = msg.Recording
		switch msg.Kind {
		case recording.KindInterview:
			a.student.Interview().SetRecording(msg.Recording)
		case recording.KindLearning:
			a.student.Learning().SetRecording(msg.Recording)
		}
		return nil, true

	case tui.NoticeMsg:
		now := time.Now()
		a.model.SetNotice(msg, now)
		return tea.Tick(tui.NoticeTTL, func(time.Time) tea.Msg {
			return tui.ClearNoticeMsg{At: now}
		}), true

	case tui.AssignmentsMsg:
		return a.student.Assignments().SetAssignments(msg.Assignments), true

	case tui.SubmissionsMsg:
		return a.student.Submissions().SetSubmissions(msg.Submissions), true

	case tui.PapersMsg:
		return a.teacher.Papers().SetPapers(msg.Papers), true

	case tui.ArmInterviewMsg:
		a.student.Interview().Arm(msg.Type, msg.Difficulty)
		return nil, true
	}
	return nil, false
}

func (a *App) enterScreen(screen nav.Screen) {
	prev := a.model.Screen
	a.model.Screen = screen
	switch screen {
	case nav.ScreenAuth:
		a.authView.Reset()
		a.resetDashboards()
	case nav.ScreenAPISetup:
		a.setupView.Reset()
	case nav.ScreenStudent, nav.ScreenTeacher:
		d := a.dashboard(screen)
		if user, ok := a.ctrl.State().User(); ok {
			a.model.User = user
			d.SetUser(user.Username)
		}
		d.SetScrollOffset(a.ctrl.Navigator().ScrollOffset())
		if prev == nav.ScreenAuth {
			a.authView.SetBusy(false)
		}
	}
}

func (a *App) addTurn(msg tui.TurnMsg) tea.Cmd {
	var cmd tea.Cmd
	switch a.dialogue {
	case nav.SectionInterview:
		iv := a.student.Interview()
		cmd = iv.AddTurn(msg.Turn, msg.Voice)
		a.refreshStats()
	case nav.SectionLearning:
		cmd = a.student.Learning().AddTurn(msg.Turn, msg.Voice)
	}
	return cmd
}

func (a *App) refreshStats() {
	s := a.ctrl.Stats()
	a.student.Interview().SetStats(views.InterviewStats{
		Questions:   s.Questions,
		Corrections: s.Corrections,
		Elapsed:     s.Elapsed,
		Voice:       a.ctrl.VoiceMode(),
	})
}

// handleRequest turns a view request into a controller command.
func (a *App) handleRequest(msg tea.Msg) (tea.Cmd, bool) {
	ctx, ctrl := a.ctx, a.ctrl

	switch msg := msg.(type) {
	case tui.LoginRequestMsg:
		return commands.LoginCmd(ctx, ctrl, msg.Username, msg.Password), true
	case tui.RegisterRequestMsg:
		return commands.RegisterCmd(ctx, ctrl, msg.Request), true
	case tui.SaveKeyRequestMsg:
		return commands.SaveKeyCmd(ctx, ctrl, msg.Key), true
	case tui.SkipKeyRequestMsg:
		return commands.SkipKeyCmd(ctrl), true
	case tui.OpenKeySetupRequestMsg:
		return commands.OpenKeySetupCmd(ctrl), true
	case tui.LogoutRequestMsg:
		return commands.LogoutCmd(ctx, ctrl), true
	case tui.ActivateRequestMsg:
		return commands.ActivateCmd(ctrl, msg.Section), true

	case tui.StartInterviewRequestMsg:
		a.dialogue = nav.SectionInterview
		a.student.Learning().Stop()
		cmd := a.student.Interview().Start()
		a.refreshStats()
		return tea.Batch(cmd, commands.StartInterviewCmd(ctx, ctrl, msg.Type, msg.Difficulty)), true
	case tui.StartLearningRequestMsg:
		a.dialogue = nav.SectionLearning
		a.student.Interview().Stop()
		cmd := a.student.Learning().Start(msg.Topic)
		return tea.Batch(cmd, commands.StartLearningCmd(ctx, ctrl, msg.Topic, msg.Material)), true
	case tui.SayRequestMsg:
		return commands.SayCmd(ctx, ctrl, msg.Text), true
	case tui.EndInterviewRequestMsg:
		return commands.EndInterviewCmd(ctrl), true
	case tui.ToggleRecordRequestMsg:
		return commands.ToggleRecordCmd(ctx, ctrl, msg.Kind), true
	case tui.ToggleVoiceRequestMsg:
		return commands.ToggleVoiceCmd(ctrl), true
	case tui.ReviewRequestMsg:
		return commands.ReviewCmd(ctx, ctrl), true

	case tui.RefreshRequestMsg:
		return commands.RefreshCmd(ctx, ctrl, msg.Section), true
	case tui.OpenPaperRequestMsg:
		return commands.OpenPaperCmd(ctx, ctrl, msg.AssignmentID), true
	case tui.DownloadRequestMsg:
		return commands.DownloadPaperCmd(ctx, ctrl, msg.AssignmentID, a.opts.DownloadDir), true
	case tui.SubmitRequestMsg:
		return commands.SubmitPDFCmd(ctx, ctrl, msg.AssignmentID, msg.Path), true

	case tui.PaperSubmissionsRequestMsg:
		return commands.PaperSubmissionsCmd(ctx, ctrl, msg.PaperID), true
	case tui.GradeRequestMsg:
		return commands.GradeCmd(ctx, ctrl, msg), true
	case tui.CreateAssignmentRequestMsg:
		return commands.CreateAssignmentCmd(ctx, ctrl, msg.Form), true
	case tui.OpenAssistantRequestMsg:
		return commands.OpenAssistantCmd(ctx, ctrl, msg.SyllabusPath, msg.PYQPath), true
	case tui.ResumeAssistantRequestMsg:
		return commands.ResumeAssistantCmd(ctx, ctrl, msg.SessionID), true
	case tui.DownloadGeneratedRequestMsg:
		return commands.DownloadGeneratedPaperCmd(ctx, ctrl, msg.PaperID, a.opts.DownloadDir), true
	case tui.TeachRequestMsg:
		return commands.TeachCmd(ctx, ctrl, msg.Question), true
	case tui.GeneratePaperRequestMsg:
		return commands.GeneratePaperCmd(ctx, ctrl, msg.Spec), true
	case tui.GradeAnswerRequestMsg:
		return commands.GradeAnswerCmd(ctx, ctrl, msg.Answer), true
	}
	return nil, false
}

// handleResult applies the outcome of a command.
func (a *App) handleResult(msg tea.Msg) (tea.Cmd, bool) {
	ctx, ctrl := a.ctx, a.ctrl

	switch msg := msg.(type) {
	case tui.LoginDoneMsg:
		if msg.Err != nil {
			a.authView.SetBusy(false)
		}
		return nil, true
	case tui.RegisterDoneMsg:
		if msg.Err != nil {
			a.authView.SetBusy(false)
		} else {
			a.authView.Registered()
		}
		return nil, true
	case tui.KeySavedMsg:
		a.setupView.SetBusy(false)
		return nil, true

	case tui.SessionStartedMsg:
		if msg.Err != nil {
			if msg.Section == nav.SectionInterview {
				a.student.Interview().Stop()
			} else {
				a.student.Learning().Stop()
			}
			a.dialogue = ""
		}
		return nil, true
	case tui.ReplyDoneMsg:
		if msg.Err != nil {
			a.setDialogueLoading(false)
		}
		return nil, true
	case tui.VoiceToggledMsg:
		a.refreshStats()
		return nil, true
	case tui.ReviewDoneMsg:
		if msg.Err == nil && msg.Analysis != "" {
			a.student.Interview().AddFeedback(msg.Analysis)
		}
		return nil, true
	case tui.InterviewEndedMsg:
		a.student.Interview().Stop()
		if a.dialogue == nav.SectionInterview {
			a.dialogue = ""
		}
		if msg.Err == nil && msg.ID != "" {
			return a.notify(notice.Success, "Interview saved. See it with 'coach history'."), true
		}
		return nil, true

	case tui.PaperOpenedMsg:
		if msg.Err == nil {
			a.student.Assignments().ShowPaper(msg.Paper)
		}
		return nil, true
	case tui.PaperSubmissionsMsg:
		if msg.Err == nil {
			return a.teacher.Papers().SetSubmissions(msg.PaperID, msg.Submissions), true
		}
		return nil, true
	case tui.AssistantOpenedMsg:
		a.teacher.Assistant().Opened(msg.SessionID)
		return nil, true
	case tui.AssistantReplyMsg:
		a.teacher.Assistant().Reply(msg)
		return nil, true

	case tui.ActionDoneMsg:
		switch msg.Action {
		case tui.ActionDownload:
			if msg.Err == nil {
				return a.notify(notice.Success, "Paper saved to "+msg.Detail), true
			}
		case tui.ActionSubmit:
			if msg.Err == nil {
				return tea.Batch(
					commands.RefreshCmd(ctx, ctrl, nav.SectionAssignments),
					commands.RefreshCmd(ctx, ctrl, nav.SectionSubmissions),
				), true
			}
		case tui.ActionGrade:
			if msg.Err == nil {
				return tea.Batch(
					commands.PaperSubmissionsCmd(ctx, ctrl, msg.Detail),
					commands.RefreshCmd(ctx, ctrl, nav.SectionPapers),
				), true
			}
		case tui.ActionCreate:
			a.teacher.Create().Done(msg.Err == nil)
			if msg.Err == nil {
				return commands.RefreshCmd(ctx, ctrl, nav.SectionPapers), true
			}
		}
		return nil, true
	}
	return nil, false
}

func (a *App) setDialogueLoading(loading bool) {
	switch a.dialogue {
	case nav.SectionInterview:
		a.student.Interview().SetLoading(loading)
	case nav.SectionLearning:
		a.student.Learning().SetLoading(loading)
	}
}

// notify shows a notice raised by the UI itself.
func (a *App) notify(level notice.Level, message string) tea.Cmd {
	now := time.Now()
	a.model.SetNotice(tui.NoticeMsg{Level: level, Message: message}, now)
	return tea.Tick(tui.NoticeTTL, func(time.Time) tea.Msg {
		return tui.ClearNoticeMsg{At: now}
	})
}

// View renders the current screen with the notice line below it.
func (a *App) View() string {
	var content string
	switch a.model.Screen {
	case nav.ScreenAuth:
		content = a.authView.View()
	case nav.ScreenAPISetup:
		content = a.setupView.View()
	case nav.ScreenStudent:
		a.student.SetCtrlCPending(a.model.CtrlCPending)
		content = lipgloss.PlaceHorizontal(a.model.Width, lipgloss.Center, a.student.View())
	case nav.ScreenTeacher:
		a.teacher.SetCtrlCPending(a.model.CtrlCPending)
		content = lipgloss.PlaceHorizontal(a.model.Width, lipgloss.Center, a.teacher.View())
	default:
		content = "Unknown screen"
	}

	status := a.model.NoticeLine()
	if a.model.CtrlCPending && (a.model.Screen == nav.ScreenAuth || a.model.Screen == nav.ScreenAPISetup) {
		status = tui.WarningStyle.Render("Press Ctrl+C again to exit")
	}
	if status == "" {
		return content
	}
	return content + "\n" + lipgloss.PlaceHorizontal(a.model.Width, lipgloss.Center, status)
}
