package controller

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/api"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/log"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/notice"
)

// LoadAssignments fetches the student's assignments and renders them.
func (c *Controller) LoadAssignments(ctx context.Context) error {
	list, err := c.opts.API.StudentAssignments(ctx)
	if err != nil {
		return fmt.Errorf("load assignments: %w", err)
	}
	c.opts.View.ShowAssignments(list)
	return nil
}

// LoadSubmissions fetches the student's submissions and renders them.
func (c *Controller) LoadSubmissions(ctx context.Context) error {
	list, err := c.opts.API.StudentSubmissions(ctx)
	if err != nil {
		return fmt.Errorf("load submissions: %w", err)
	}
	c.opts.View.ShowSubmissions(list)
	return nil
}

// RefreshStudent loads assignments and submissions concurrently.
func (c *Controller) RefreshStudent(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.LoadAssignments(ctx) })
	g.Go(func() error { return c.LoadSubmissions(ctx) })
	return g.Wait()
}

// AssignedPaper is a paper with its questions decoded.
type AssignedPaper struct {
	Detail    api.PaperDetail
	Questions []api.Question
}

// OpenPaper fetches the paper behind an assignment.
func (c *Controller) OpenPaper(ctx context.Context, assignmentID string) (*AssignedPaper, error) {
	if err := required([2]string{"assignment_id", assignmentID}); err != nil {
		return nil, err
	}
	detail, err := c.opts.API.PaperByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("open paper: %w", err)
	}
	return &AssignedPaper{Detail: *detail, Questions: api.DecodeQuestions(detail.Questions)}, nil
}

// DownloadPaper saves the paper of an assignment into dir and returns the
// written path.
func (c *Controller) DownloadPaper(ctx context.Context, assignmentID, dir string) (string, error) {
	if err := required([2]string{"assignment_id", assignmentID}); err != nil {
		return "", err
	}
	dl, err := c.opts.API.DownloadPaper(ctx, assignmentID)
	if err != nil {
		return "", fmt.Errorf("download paper: %w", err)
	}
	path, err := saveDownload(dl, "paper_"+assignmentID+".pdf", dir)
	if err != nil {
		return "", err
	}
	c.opts.Logger.Info("paper downloaded", zap.String("assignment", assignmentID), zap.String("path", path))
	return path, nil
}

// saveDownload writes dl into dir under its own base name, or fallback
// when the server sent none.
func saveDownload(dl *api.Download, fallback, dir string) (string, error) {
	name := filepath.Base(dl.Filename)
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = fallback
	}
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, dl.Data, 0644); err != nil {
		return "", fmt.Errorf("save paper: %w", err)
	}
	return path, nil
}

// SubmittedSheet is a submission with its questions decoded.
type SubmittedSheet struct {
	Detail    api.SubmissionDetail
	Questions []api.Question
}

// Submission fetches one of the student's submissions in full.
func (c *Controller) Submission(ctx context.Context, submissionID string) (*SubmittedSheet, error) {
	if err := required([2]string{"submission_id", submissionID}); err != nil {
		return nil, err
	}
	detail, err := c.opts.API.Submission(ctx, strings.TrimSpace(submissionID))
	if err != nil {
		return nil, fmt.Errorf("load submission: %w", err)
	}
	return &SubmittedSheet{Detail: *detail, Questions: api.DecodeQuestions(detail.Questions)}, nil
}

// SubmitPDF uploads an answer sheet for an assignment. The saved API key is
// forwarded so the server can grade it immediately.
func (c *Controller) SubmitPDF(ctx context.Context, assignmentID, path string) (*api.SubmitPDFResponse, error) {
	if err := required([2]string{"assignment_id", assignmentID}, [2]string{"file", path}); err != nil {
		return nil, err
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return nil, invalid("file", "Please choose a PDF file.")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, invalid("file", fmt.Sprintf("Could not read %s.", filepath.Base(path)))
	}

	resp, err := c.opts.API.SubmitPDF(ctx, assignmentID, api.Upload{Filename: filepath.Base(path), Data: data}, c.opts.State.APIKey())
	if err != nil {
		return nil, fmt.Errorf("submit answer sheet: %w", err)
	}

	user, _ := c.opts.State.User()
	_ = c.opts.Journal.Append(log.LogEvent{
		Event: log.EventSubmissionUploaded,
		User:  user.Username,
		Data:  map[string]interface{}{"assignment_id": assignmentID, "answer_id": resp.AnswerID, "bytes": len(data)},
	})
	if resp.Grading != nil && resp.Grading.Grade != "" {
		c.opts.View.Notify(notice.Success, "Submitted and graded: "+string(resp.Grading.Grade))
	} else {
		c.opts.View.Notify(notice.Success, "Answer sheet submitted.")
	}
	return resp, nil
}
