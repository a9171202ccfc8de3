package api

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/session"
)

// Flag decodes booleans the server may send as 0/1 integers.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	switch strings.TrimSpace(string(data)) {
	case "true", "1":
		*f = true
	case "false", "0", "null", "":
		*f = false
	default:
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*f = Flag(b)
	}
	return nil
}

// Text decodes a field that may be a string, a number or null.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*t = Text(n.String())
	return nil
}

// Question is one entry of a question paper.
type Question struct {
	Text  string `json:"text"`
	Marks int    `json:"marks,omitempty"`
}

// DecodeQuestions accepts the shapes the server stores questions in: a list
// of objects, a list of strings, or either of those JSON-encoded in a string.
func DecodeQuestions(raw json.RawMessage) []Question {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil
		}
		if qs := DecodeQuestions(json.RawMessage(inner)); qs != nil {
			return qs
		}
		if strings.TrimSpace(inner) == "" {
			return nil
		}
		return []Question{{Text: inner}}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]Question, 0, len(items))
	for _, item := range items {
		var q Question
		if err := json.Unmarshal(item, &q); err == nil && q.Text != "" {
			out = append(out, q)
			continue
		}
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, Question{Text: s})
			continue
		}
		out = append(out, Question{Text: string(item)})
	}
	return out
}

// Auth.

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	UserType string `json:"user_type"`
}

// User converts the login payload to a session user.
func (r LoginResponse) User() session.User {
	return session.User{ID: r.UserID, Username: r.Username, Role: session.Role(r.UserType)}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"user_type"`
}

type RegisterResponse struct {
	UserID   string `json:"user_id"`
	UserType string `json:"user_type"`
	Message  string `json:"message"`
}

type VerifyResponse struct {
	Valid    bool   `json:"valid"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	UserType string `json:"user_type"`
}

// User converts the verify payload to a session user.
func (r VerifyResponse) User() session.User {
	return session.User{ID: r.UserID, Username: r.Username, Email: r.Email, Role: session.Role(r.UserType)}
}

// Student.

type Assignment struct {
	ID          string          `json:"id"`
	PaperID     string          `json:"paper_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Difficulty  string          `json:"difficulty"`
	AssignedAt  string          `json:"assigned_at"`
	Deadline    Text            `json:"deadline"`
	Status      string          `json:"status"`
	TeacherName string          `json:"teacher_name"`
	Questions   json.RawMessage `json:"questions"`
}

type Submission struct {
	ID          string `json:"id"`
	PaperID     string `json:"paper_id"`
	Title       string `json:"title"`
	SubmittedAt string `json:"submitted_at"`
	Graded      Flag   `json:"graded"`
	Grade       Text   `json:"grade"`
	Feedback    Text   `json:"feedback"`
}

// SubmissionDetail is one of the student's answer sheets with the questions
// it answers.
type SubmissionDetail struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Answers   json.RawMessage `json:"answers"`
	Questions json.RawMessage `json:"questions"`
	Grade     Text            `json:"grade"`
	Feedback  Text            `json:"feedback"`
}

// AnswerFile returns the server path of an uploaded answer sheet, empty
// when the answers were typed.
func (d SubmissionDetail) AnswerFile() string {
	var v struct {
		FilePath string `json:"file_path"`
	}
	if err := json.Unmarshal(d.Answers, &v); err != nil {
		return ""
	}
	return v.FilePath
}

type PaperDetail struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Questions   json.RawMessage `json:"questions"`
	Difficulty  string          `json:"difficulty"`
	CreatedAt   string          `json:"created_at"`
}

// Download is a file returned by the server.
type Download struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Grading is the automatic grading attached to a PDF submission.
type Grading struct {
	Grade    Text `json:"grade"`
	Feedback Text `json:"feedback"`
}

type SubmitPDFResponse struct {
	AnswerID string   `json:"answer_id"`
	Message  string   `json:"message"`
	Grading  *Grading `json:"grading,omitempty"`
}

// Teacher.

type Paper struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Difficulty    string `json:"difficulty"`
	CreatedAt     string `json:"created_at"`
	Deadline      Text   `json:"deadline"`
	TotalAssigned int    `json:"total_assigned"`
	Submitted     int    `json:"submitted"`
	Graded        int    `json:"graded"`
}

type PaperSubmission struct {
	ID          string `json:"id"`
	StudentID   string `json:"student_id"`
	Username    string `json:"username"`
	SubmittedAt string `json:"submitted_at"`
	Graded      Flag   `json:"graded"`
	Grade       Text   `json:"grade"`
}

type CreateAssignmentRequest struct {
	StudentIDs  []string   `json:"student_ids"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
	Difficulty  string     `json:"difficulty"`
	Deadline    string     `json:"deadline,omitempty"`
	APIKey      string     `json:"api_key,omitempty"`
}

type CreateAssignmentResponse struct {
	PaperID       string   `json:"paper_id"`
	AssignmentIDs []string `json:"assignment_ids"`
	Skipped       []string `json:"skipped"`
	Message       string   `json:"message"`
}

type GradeRequest struct {
	AnswerID string `json:"answer_id"`
	Grade    string `json:"grade"`
	Feedback string `json:"feedback"`
	APIKey   string `json:"api_key,omitempty"`
}

// Upload is an optional file part of a multipart request.
type Upload struct {
	Filename string
	Data     []byte
}

type TeacherSessionResponse struct {
	SessionID     string `json:"session_id"`
	ContentLoaded bool   `json:"content_loaded"`
}

type TeacherSessionInfo struct {
	ID          string `json:"id"`
	CreatedAt   string `json:"created_at"`
	HasSyllabus bool   `json:"has_syllabus"`
	HasPYQ      bool   `json:"has_pyq"`
	Stats       struct {
		QuestionsAsked  int `json:"questions_asked"`
		PapersGenerated int `json:"papers_generated"`
		AnswersGraded   int `json:"answers_graded"`
	} `json:"stats"`
}

type GeneratePaperRequest struct {
	SessionID     string   `json:"session_id"`
	NumQuestions  int      `json:"num_questions"`
	Difficulty    string   `json:"difficulty"`
	QuestionTypes []string `json:"question_types"`
	APIKey        string   `json:"api_key"`
}

type GeneratePaperResponse struct {
	PaperID string `json:"paper_id"`
	Content string `json:"content"`
}

type TeachRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
	APIKey    string `json:"api_key"`
}

type GradeAnswerRequest struct {
	SessionID      string `json:"session_id"`
	StudentName    string `json:"student_name"`
	Question       string `json:"question"`
	Answer         string `json:"answer"`
	ExpectedAnswer string `json:"expected_answer,omitempty"`
	APIKey         string `json:"api_key"`
}

type GradeAnswerResponse struct {
	GradeID string `json:"grade_id"`
	Grading string `json:"grading"`
	Score   Text   `json:"score"`
}

// Completion.

// HistoryEntry is one prior turn sent with a completion request.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type GenerateRequest struct {
	APIKey  string         `json:"api_key"`
	Prompt  string         `json:"prompt"`
	History []HistoryEntry `json:"history"`
}

type AnalyzeResponseResult struct {
	Analysis       string `json:"analysis"`
	HasCorrections bool   `json:"has_corrections"`
}

// Learning.

type LearningSessionRequest struct {
	Topic   string `json:"topic"`
	Content string `json:"content"`
	UserID  string `json:"user_id"`
}

type SaveAudioRequest struct {
	SessionID  string `json:"session_id"`
	AudioBlob  string `json:"audio_blob"`
	Transcript string `json:"transcript"`
}

type AudioRecording struct {
	Timestamp  string `json:"timestamp"`
	AudioSize  int    `json:"audio_size"`
	Transcript string `json:"transcript"`
}

type LearningSession struct {
	ID              string           `json:"id"`
	Topic           string           `json:"topic"`
	Content         string           `json:"content"`
	AudioRecordings []AudioRecording `json:"audio_recordings"`
	CreatedAt       string           `json:"created_at"`
}

type Health struct {
	Status         string `json:"status"`
	Timestamp      string `json:"timestamp"`
	ActiveSessions int    `json:"active_sessions"`
}

