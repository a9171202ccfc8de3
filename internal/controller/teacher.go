package controller

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/api"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/notice"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/paper"
)

// LoadPapers fetches the teacher's papers and renders them.
func (c *Controller) LoadPapers(ctx context.Context) error {
	list, err := c.opts.API.TeacherPapers(ctx)
	if err != nil {
		return fmt.Errorf("load papers: %w", err)
	}
	c.opts.View.ShowPapers(list)
	return nil
}

// PaperSubmissions lists the answer sheets handed in for a paper.
func (c *Controller) PaperSubmissions(ctx context.Context, paperID string) ([]api.PaperSubmission, error) {
	if err := required([2]string{"paper_id", paperID}); err != nil {
		return nil, err
	}
	list, err := c.opts.API.PaperSubmissions(ctx, paperID)
	if err != nil {
		return nil, fmt.Errorf("load submissions: %w", err)
	}
	return list, nil
}

// AssignmentForm is the create-assignment input. Questions is free text;
// numbered questions or a generated paper are both accepted.
type AssignmentForm struct {
	Title       string
	Description string
	Difficulty  string
	Deadline    string
	StudentIDs  []string
	Questions   string
}

// CreateAssignment assigns a new paper to students.
func (c *Controller) CreateAssignment(ctx context.Context, form AssignmentForm) (*api.CreateAssignmentResponse, error) {
	if err := required([2]string{"title", form.Title}, [2]string{"questions", form.Questions}); err != nil {
		return nil, err
	}
	students := make([]string, 0, len(form.StudentIDs))
	for _, id := range form.StudentIDs {
		if id = strings.TrimSpace(id); id != "" {
			students = append(students, id)
		}
	}
	if len(students) == 0 {
		return nil, invalid("student_ids", "Select at least one student.")
	}

	questions := toAPIQuestions(paper.Parse(form.Questions))
	if len(questions) == 0 {
		questions = []api.Question{{Text: strings.TrimSpace(form.Questions)}}
	}
	difficulty := form.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}

	resp, err := c.opts.API.CreateAssignment(ctx, api.CreateAssignmentRequest{
		StudentIDs:  students,
		Title:       strings.TrimSpace(form.Title),
		Description: strings.TrimSpace(form.Description),
		Questions:   questions,
		Difficulty:  difficulty,
		Deadline:    strings.TrimSpace(form.Deadline),
		APIKey:      c.opts.State.APIKey(),
	})
	if err != nil {
		return nil, fmt.Errorf("create assignment: %w", err)
	}
	msg := fmt.Sprintf("Assigned to %d student(s).", len(resp.AssignmentIDs))
	if len(resp.Skipped) > 0 {
		msg += fmt.Sprintf(" Skipped %d.", len(resp.Skipped))
	}
	c.opts.View.Notify(notice.Success, msg)
	return resp, nil
}

// Grade records a manual grade for an answer sheet.
func (c *Controller) Grade(ctx context.Context, answerID, grade, feedback string) error {
	if err := required([2]string{"answer_id", answerID}, [2]string{"grade", grade}); err != nil {
		return err
	}
	err := c.opts.API.Grade(ctx, api.GradeRequest{
		AnswerID: answerID,
		Grade:    strings.TrimSpace(grade),
		Feedback: strings.TrimSpace(feedback),
		APIKey:   c.opts.State.APIKey(),
	})
	if err != nil {
		return fmt.Errorf("grade: %w", err)
	}
	c.opts.View.Notify(notice.Success, "Grade saved.")
	return nil
}

// OpenAssistant creates a teaching assistant session from optional syllabus
// and past-paper PDFs.
func (c *Controller) OpenAssistant(ctx context.Context, syllabusPath, pyqPath string) (*api.TeacherSessionResponse, error) {
	syllabus, err := readUpload("syllabus", syllabusPath)
	if err != nil {
		return nil, err
	}
	pyq, err := readUpload("pyq", pyqPath)
	if err != nil {
		return nil, err
	}
	resp, err := c.opts.API.CreateTeacherSession(ctx, syllabus, pyq)
	if err != nil {
		return nil, fmt.Errorf("create assistant session: %w", err)
	}
	c.mu.Lock()
	c.assistantSession = resp.SessionID
	c.mu.Unlock()

	c.opts.Logger.Info("assistant session created", zap.String("session", resp.SessionID), zap.Bool("content_loaded", resp.ContentLoaded))
	if resp.ContentLoaded {
		c.opts.View.Notify(notice.Success, "Assistant ready with your course material.")
	} else {
		c.opts.View.Notify(notice.Info, "Assistant ready. No course material was loaded.")
	}
	return resp, nil
}

// ResumeAssistant reattaches to an existing assistant session after checking
// that the server still holds it.
func (c *Controller) ResumeAssistant(ctx context.Context, sessionID string) (*api.TeacherSessionInfo, error) {
	if err := required([2]string{"session_id", sessionID}); err != nil {
		return nil, err
	}
	info, err := c.opts.API.TeacherSession(ctx, strings.TrimSpace(sessionID))
	if err != nil {
		return nil, fmt.Errorf("resume assistant session: %w", err)
	}
	c.mu.Lock()
	c.assistantSession = info.ID
	c.mu.Unlock()

	c.opts.Logger.Info("assistant session resumed", zap.String("session", info.ID))
	return info, nil
}

// DownloadGeneratedPaper saves the PDF of a generated paper into dir and
// returns the written path.
func (c *Controller) DownloadGeneratedPaper(ctx context.Context, paperID, dir string) (string, error) {
	if err := required([2]string{"paper_id", paperID}); err != nil {
		return "", err
	}
	dl, err := c.opts.API.DownloadGeneratedPaper(ctx, strings.TrimSpace(paperID))
	if err != nil {
		return "", fmt.Errorf("download paper: %w", err)
	}
	path, err := saveDownload(dl, "question_paper_"+paperID+".pdf", dir)
	if err != nil {
		return "", err
	}
	c.opts.Logger.Info("generated paper downloaded", zap.String("paper", paperID), zap.String("path", path))
	return path, nil
}

// AssistantSession returns the current assistant session id.
func (c *Controller) AssistantSession() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.assistantSession
}

func (c *Controller) assistantParams() (string, string, error) {
	id := c.AssistantSession()
	if id == "" {
		return "", "", ErrNoAssistantSession
	}
	key := c.opts.State.APIKey()
	if key == "" {
		return "", "", invalid("api_key", "Add your AI API key first.")
	}
	return id, key, nil
}

// Teach asks the assistant a question about the loaded material.
func (c *Controller) Teach(ctx context.Context, question string) (string, error) {
	if err := required([2]string{"question", question}); err != nil {
		return "", err
	}
	id, key, err := c.assistantParams()
	if err != nil {
		return "", err
	}
	answer, err := c.opts.API.Teach(ctx, api.TeachRequest{SessionID: id, Question: strings.TrimSpace(question), APIKey: key})
	if err != nil {
		return "", fmt.Errorf("teach: %w", err)
	}
	return answer, nil
}

// PaperSpec describes a paper to generate.
type PaperSpec struct {
	NumQuestions  int
	Difficulty    string
	QuestionTypes []string
}

// GeneratedPaper is a generated paper with its questions split out.
type GeneratedPaper struct {
	PaperID   string
	Content   string
	Questions []paper.Question
}

// GeneratePaper asks the assistant for a question paper.
func (c *Controller) GeneratePaper(ctx context.Context, spec PaperSpec) (*GeneratedPaper, error) {
	if spec.NumQuestions <= 0 || spec.NumQuestions > 50 {
		return nil, invalid("num_questions", "Number of questions must be between 1 and 50.")
	}
	if spec.Difficulty == "" {
		spec.Difficulty = "medium"
	}
	if len(spec.QuestionTypes) == 0 {
		spec.QuestionTypes = []string{"short"}
	}
	id, key, err := c.assistantParams()
	if err != nil {
		return nil, err
	}
	resp, err := c.opts.API.GeneratePaper(ctx, api.GeneratePaperRequest{
		SessionID:     id,
		NumQuestions:  spec.NumQuestions,
		Difficulty:    spec.Difficulty,
		QuestionTypes: spec.QuestionTypes,
		APIKey:        key,
	})
	if err != nil {
		return nil, fmt.Errorf("generate paper: %w", err)
	}
	return &GeneratedPaper{
		PaperID:   resp.PaperID,
		Content:   paper.Extract(resp.Content),
		Questions: paper.Parse(resp.Content),
	}, nil
}

// AnswerToGrade is one student answer submitted to the assistant.
type AnswerToGrade struct {
	StudentName    string
	Question       string
	Answer         string
	ExpectedAnswer string
}

// GradedAnswer is the assistant's grading of one answer.
type GradedAnswer struct {
	GradeID string
	Report  paper.Grading
	Raw     string
}

// GradeAnswer has the assistant grade a single answer.
func (c *Controller) GradeAnswer(ctx context.Context, in AnswerToGrade) (*GradedAnswer, error) {
	if err := required([2]string{"question", in.Question}, [2]string{"answer", in.Answer}); err != nil {
		return nil, err
	}
	id, key, err := c.assistantParams()
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.StudentName)
	if name == "" {
		name = "Student"
	}
	resp, err := c.opts.API.GradeAnswer(ctx, api.GradeAnswerRequest{
		SessionID:      id,
		StudentName:    name,
		Question:       strings.TrimSpace(in.Question),
		Answer:         strings.TrimSpace(in.Answer),
		ExpectedAnswer: strings.TrimSpace(in.ExpectedAnswer),
		APIKey:         key,
	})
	if err != nil {
		return nil, fmt.Errorf("grade answer: %w", err)
	}
	report := paper.ParseGrading(resp.Grading)
	if s := strings.TrimSpace(string(resp.Score)); s != "" && s != paper.NotAvailable {
		report.Score = s
	}
	return &GradedAnswer{GradeID: resp.GradeID, Report: report, Raw: resp.Grading}, nil
}

func readUpload(field, path string) (*api.Upload, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return nil, invalid(field, "Please choose a PDF file.")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, invalid(field, fmt.Sprintf("Could not read %s.", filepath.Base(path)))
	}
	return &api.Upload{Filename: filepath.Base(path), Data: data}, nil
}

func toAPIQuestions(qs []paper.Question) []api.Question {
	out := make([]api.Question, 0, len(qs))
	for _, q := range qs {
		text := q.Text
		if len(q.Options) > 0 {
			text += "\n" + strings.Join(q.Options, "\n")
		}
		out = append(out, api.Question{Text: text, Marks: q.Marks})
	}
	return out
}
