package api

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
)

// StudentAssignments lists the assignments of the signed-in student.
func (c *Client) StudentAssignments(ctx context.Context) ([]Assignment, error) {
	var out struct {
		Assignments []Assignment `json:"assignments"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/student/assignments", true, nil, &out); err != nil {
		return nil, err
	}
	return out.Assignments, nil
}

// StudentSubmissions lists the submissions of the signed-in student.
func (c *Client) StudentSubmissions(ctx context.Context) ([]Submission, error) {
	var out struct {
		Submissions []Submission `json:"submissions"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/student/submissions", true, nil, &out); err != nil {
		return nil, err
	}
	return out.Submissions, nil
}

// PaperByAssignment returns the question paper behind an assignment.
func (c *Client) PaperByAssignment(ctx context.Context, assignmentID string) (*PaperDetail, error) {
	var out struct {
		Paper PaperDetail `json:"paper"`
	}
	path := "/api/student/paper-by-assignment/" + url.PathEscape(assignmentID)
	if err := c.doJSON(ctx, http.MethodGet, path, true, nil, &out); err != nil {
		return nil, err
	}
	return &out.Paper, nil
}

// DownloadPaper fetches the PDF rendering of an assignment's paper.
func (c *Client) DownloadPaper(ctx context.Context, assignmentID string) (*Download, error) {
	path := "/api/student/download-paper/" + url.PathEscape(assignmentID)
	return c.download(ctx, path, true, assignmentID+".pdf")
}

// Submission returns one of the signed-in student's submissions in full.
func (c *Client) Submission(ctx context.Context, submissionID string) (*SubmissionDetail, error) {
	var out struct {
		Submission SubmissionDetail `json:"submission"`
	}
	path := "/api/student/submission/" + url.PathEscape(submissionID)
	if err := c.doJSON(ctx, http.MethodGet, path, true, nil, &out); err != nil {
		return nil, err
	}
	return &out.Submission, nil
}

// download fetches a file. The name comes from Content-Disposition when the
// server sends one, otherwise fallback.
func (c *Client) download(ctx context.Context, path string, bearer bool, fallback string) (*Download, error) {
	r := request{
		method: http.MethodGet,
		path:   path,
		bearer: bearer,
	}
	resp, cancel, err := c.send(ctx, r)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	name := fallback
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil && params["filename"] != "" {
			name = params["filename"]
		}
	}
	return &Download{
		Filename:    name,
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// SubmitPDF uploads a PDF answer sheet for an assignment. apiKey is optional;
// when present the server grades the submission immediately.
func (c *Client) SubmitPDF(ctx context.Context, assignmentID string, file Upload, apiKey string) (*SubmitPDFResponse, error) {
	parts := []formPart{
		{name: "assignment_id", value: assignmentID},
		{name: "submission", file: &file},
	}
	if apiKey != "" {
		parts = append(parts, formPart{name: "api_key", value: apiKey})
	}
	r, err := multipartRequest(http.MethodPost, "/api/student/submit-pdf", true, parts)
	if err != nil {
		return nil, err
	}
	var out SubmitPDFResponse
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
