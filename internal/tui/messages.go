package tui

import (
	"time"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/api"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/controller"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/nav"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/notice"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/recording"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/session"
)

// Messages pushed by the controller through the Bridge.

// ScreenMsg switches the top-level screen.
type ScreenMsg struct {
	Screen nav.Screen
}

// SectionMsg switches the active section of a dashboard.
type SectionMsg struct {
	Container nav.Screen
	Section   string
}

// TurnMsg carries a conversation turn. Voice turns belong to the
// transcript; the rest to the chat log.
type TurnMsg struct {
	Turn  session.Turn
	Voice bool
}

// IndicatorMsg reports a recorder starting or stopping.
type IndicatorMsg struct {
	Kind      recording.Kind
	Recording bool
}

// NoticeMsg is a transient user notice.
type NoticeMsg struct {
	Level   notice.Level
	Message string
}

// AssignmentsMsg carries the student's assignment list.
type AssignmentsMsg struct {
	Assignments []api.Assignment
}

// SubmissionsMsg carries the student's submission list.
type SubmissionsMsg struct {
	Submissions []api.Submission
}

// PapersMsg carries the teacher's paper list.
type PapersMsg struct {
	Papers []api.Paper
}

// ArmInterviewMsg prepares the interview section with default settings.
type ArmInterviewMsg struct {
	Type       string
	Difficulty string
}

// ClearNoticeMsg expires the notice shown at At.
type ClearNoticeMsg struct {
	At time.Time
}

// CtrlCResetMsg ends the Ctrl+C confirmation window.
type CtrlCResetMsg struct{}

// Requests emitted by views and handled by the app.

// ActivateRequestMsg asks to switch the active dashboard section.
type ActivateRequestMsg struct {
	Section string
}

// LogoutRequestMsg asks to sign out.
type LogoutRequestMsg struct{}

// OpenKeySetupRequestMsg opens the API setup screen.
type OpenKeySetupRequestMsg struct{}

// LoginRequestMsg asks to sign in.
type LoginRequestMsg struct {
	Username string
	Password string
}

// RegisterRequestMsg asks to create an account.
type RegisterRequestMsg struct {
	Request api.RegisterRequest
}

// SaveKeyRequestMsg asks to validate and store an AI API key.
type SaveKeyRequestMsg struct {
	Key string
}

// SkipKeyRequestMsg leaves the API setup screen without a key.
type SkipKeyRequestMsg struct{}

// StartInterviewRequestMsg asks to start an interview.
type StartInterviewRequestMsg struct {
	Type       string
	Difficulty string
}

// StartLearningRequestMsg asks to start a learning session.
type StartLearningRequestMsg struct {
	Topic    string
	Material string
}

// SayRequestMsg sends a typed answer.
type SayRequestMsg struct {
	Text string
}

// EndInterviewRequestMsg archives the running interview.
type EndInterviewRequestMsg struct{}

// ToggleRecordRequestMsg toggles the recorder of Kind.
type ToggleRecordRequestMsg struct {
	Kind recording.Kind
}

// ToggleVoiceRequestMsg flips between voice and chat mode.
type ToggleVoiceRequestMsg struct{}

// ReviewRequestMsg asks for feedback on the latest answer.
type ReviewRequestMsg struct{}

// RefreshRequestMsg reloads the lists of the active section.
type RefreshRequestMsg struct {
	Section string
}

// OpenPaperRequestMsg asks for an assigned paper's questions.
type OpenPaperRequestMsg struct {
	AssignmentID string
}

// DownloadRequestMsg asks to download an assigned paper.
type DownloadRequestMsg struct {
	AssignmentID string
}

// SubmitRequestMsg asks to upload a PDF answer sheet.
type SubmitRequestMsg struct {
	AssignmentID string
	Path         string
}

// PaperSubmissionsRequestMsg asks for the submissions of a paper.
type PaperSubmissionsRequestMsg struct {
	PaperID string
}

// GradeRequestMsg asks to record a grade.
type GradeRequestMsg struct {
	PaperID  string
	AnswerID string
	Grade    string
	Feedback string
}

// CreateAssignmentRequestMsg asks to create and assign a paper.
type CreateAssignmentRequestMsg struct {
	Form controller.AssignmentForm
}

// OpenAssistantRequestMsg asks to open an assistant session.
type OpenAssistantRequestMsg struct {
	SyllabusPath string
	PYQPath      string
}

// ResumeAssistantRequestMsg asks to reattach to an assistant session.
type ResumeAssistantRequestMsg struct {
	SessionID string
}

// DownloadGeneratedRequestMsg asks to download a generated paper as PDF.
type DownloadGeneratedRequestMsg struct {
	PaperID string
}

// TeachRequestMsg asks the assistant a question.
type TeachRequestMsg struct {
	Question string
}

// GeneratePaperRequestMsg asks the assistant for a paper.
type GeneratePaperRequestMsg struct {
	Spec controller.PaperSpec
}

// GradeAnswerRequestMsg asks the assistant to grade an answer.
type GradeAnswerRequestMsg struct {
	Answer controller.AnswerToGrade
}

// Results of commands.

// LoginDoneMsg is the result of a sign-in attempt.
type LoginDoneMsg struct {
	User session.User
	Err  error
}

// RegisterDoneMsg is the result of a registration attempt.
type RegisterDoneMsg struct {
	Err error
}

// KeySavedMsg is the result of saving an API key.
type KeySavedMsg struct {
	Err error
}

// SessionStartedMsg reports that an interview or learning dialogue began.
type SessionStartedMsg struct {
	Section string
	Err     error
}

// ReplyDoneMsg marks the end of a typed turn.
type ReplyDoneMsg struct {
	Err error
}

// VoiceToggledMsg reports the exchange mode after a voice/chat switch.
type VoiceToggledMsg struct {
	Voice bool
}

// ReviewDoneMsg carries feedback on the latest answer.
type ReviewDoneMsg struct {
	Analysis string
	Err      error
}

// InterviewEndedMsg is the result of archiving an interview.
type InterviewEndedMsg struct {
	ID  string
	Err error
}

// PaperOpenedMsg carries an assigned paper.
type PaperOpenedMsg struct {
	Paper *controller.AssignedPaper
	Err   error
}

// PaperSubmissionsMsg carries the submissions of a paper.
type PaperSubmissionsMsg struct {
	PaperID     string
	Submissions []api.PaperSubmission
	Err         error
}

// Actions reported by ActionDoneMsg.
const (
	ActionRestore  = "restore"
	ActionActivate = "activate"
	ActionLogout   = "logout"
	ActionRecord   = "record"
	ActionRefresh  = "refresh"
	ActionDownload = "download"
	ActionSubmit   = "submit"
	ActionGrade    = "grade"
	ActionCreate   = "create-assignment"
)

// ActionDoneMsg is the result of a fire-and-report action. Detail carries
// an action-specific value such as a saved path.
type ActionDoneMsg struct {
	Action string
	Detail string
	Err    error
}

// AssistantOpenedMsg reports a new assistant session.
type AssistantOpenedMsg struct {
	SessionID string
	Err       error
}

// AssistantReplyMsg carries output from the assistant. Exactly one of
// Answer, Paper and Graded is set on success.
type AssistantReplyMsg struct {
	Mode   string
	Answer string
	Paper  *controller.GeneratedPaper
	Graded *controller.GradedAnswer
	Err    error
}
