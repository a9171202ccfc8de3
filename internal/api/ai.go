package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/session"
)

// KeyCheck is the outcome of validating an AI API key.
type KeyCheck struct {
	Valid  bool
	Reason string
}

// TestKey asks the server to validate an AI API key. A rejected key is a
// result, not an error.
func (c *Client) TestKey(ctx context.Context, apiKey string) (KeyCheck, error) {
	var out struct {
		Valid bool   `json:"valid"`
		Error string `json:"error"`
	}
	body := map[string]string{"api_key": apiKey}
	err := c.doJSON(ctx, http.MethodPost, "/api/test-key", false, body, &out)
	var se *StatusError
	if errors.As(err, &se) && se.Status == http.StatusBadRequest {
		return KeyCheck{Valid: false, Reason: se.Message}, nil
	}
	if err != nil {
		return KeyCheck{}, err
	}
	return KeyCheck{Valid: out.Valid, Reason: out.Error}, nil
}

// Generate requests a completion. Transport failures and 5xx responses are
// retried under the client's retry policy.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	var text string
	err := c.withRetry(ctx, "generate", func() error {
		var out struct {
			Response string `json:"response"`
		}
		if err := c.doJSON(ctx, http.MethodPost, "/api/generate", false, req, &out); err != nil {
			return err
		}
		text = out.Response
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// AnalyzeTone requests delivery analysis of a spoken transcript.
func (c *Client) AnalyzeTone(ctx context.Context, transcript, apiKey string) (*session.Tone, error) {
	var out struct {
		Tone session.Tone `json:"tone_analysis"`
	}
	body := map[string]string{"transcript": transcript, "api_key": apiKey}
	if err := c.doJSON(ctx, http.MethodPost, "/api/analyze-tone", false, body, &out); err != nil {
		return nil, err
	}
	return &out.Tone, nil
}

// AnalyzeResponse asks for corrections to a free-form answer given the
// question it responds to.
func (c *Client) AnalyzeResponse(ctx context.Context, response, question, apiKey string) (*AnalyzeResponseResult, error) {
	var out AnalyzeResponseResult
	body := map[string]string{"response": response, "context": question, "api_key": apiKey}
	if err := c.doJSON(ctx, http.MethodPost, "/api/analyze-response", false, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
