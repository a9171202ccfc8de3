package api

import (
	"context"
	"net/http"
	"net/url"
)

// TeacherPapers lists the papers the signed-in teacher created, with
// assignment and grading totals.
func (c *Client) TeacherPapers(ctx context.Context) ([]Paper, error) {
	var out struct {
		Papers []Paper `json:"papers"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/teacher/papers", true, nil, &out); err != nil {
		return nil, err
	}
	return out.Papers, nil
}

// PaperSubmissions lists student submissions for one paper.
func (c *Client) PaperSubmissions(ctx context.Context, paperID string) ([]PaperSubmission, error) {
	var out struct {
		Submissions []PaperSubmission `json:"submissions"`
	}
	path := "/api/teacher/submissions/" + url.PathEscape(paperID)
	if err := c.doJSON(ctx, http.MethodGet, path, true, nil, &out); err != nil {
		return nil, err
	}
	return out.Submissions, nil
}

// CreateAssignment creates a paper and assigns it to the given students.
func (c *Client) CreateAssignment(ctx context.Context, req CreateAssignmentRequest) (*CreateAssignmentResponse, error) {
	var out CreateAssignmentResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/teacher/create-assignment", true, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Grade records a grade and feedback for a submission.
func (c *Client) Grade(ctx context.Context, req GradeRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/api/teacher/grade", true, req, nil)
}

// CreateTeacherSession opens an assistant session seeded with an optional
// syllabus and previous-year-questions PDF.
func (c *Client) CreateTeacherSession(ctx context.Context, syllabus, pyq *Upload) (*TeacherSessionResponse, error) {
	var parts []formPart
	if syllabus != nil {
		parts = append(parts, formPart{name: "syllabus", file: syllabus})
	}
	if pyq != nil {
		parts = append(parts, formPart{name: "pyq", file: pyq})
	}
	r, err := multipartRequest(http.MethodPost, "/api/teacher/session/create", false, parts)
	if err != nil {
		return nil, err
	}
	var out TeacherSessionResponse
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TeacherSession returns the state of an assistant session.
func (c *Client) TeacherSession(ctx context.Context, sessionID string) (*TeacherSessionInfo, error) {
	var out TeacherSessionInfo
	path := "/api/teacher/session/" + url.PathEscape(sessionID)
	if err := c.doJSON(ctx, http.MethodGet, path, false, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DownloadGeneratedPaper fetches the PDF rendering of a paper generated by
// an assistant session.
func (c *Client) DownloadGeneratedPaper(ctx context.Context, paperID string) (*Download, error) {
	path := "/api/teacher/download-paper/" + url.PathEscape(paperID)
	return c.download(ctx, path, false, "question_paper_"+paperID+".pdf")
}

// GeneratePaper asks the assistant to draft a question paper.
func (c *Client) GeneratePaper(ctx context.Context, req GeneratePaperRequest) (*GeneratePaperResponse, error) {
	var out GeneratePaperResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/teacher/generate-paper", false, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Teach asks the assistant a question within a session.
func (c *Client) Teach(ctx context.Context, req TeachRequest) (string, error) {
	var out struct {
		Response string `json:"response"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/teacher/teach", false, req, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}

// GradeAnswer asks the assistant to grade one student answer.
func (c *Client) GradeAnswer(ctx context.Context, req GradeAnswerRequest) (*GradeAnswerResponse, error) {
	var out GradeAnswerResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/teacher/grade-answer", false, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
