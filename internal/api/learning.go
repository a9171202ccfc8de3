package api

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
)

// CreateLearningSession opens a learning-mode session and returns its id.
func (c *Client) CreateLearningSession(ctx context.Context, req LearningSessionRequest) (string, error) {
	var out struct {
		SessionID string `json:"session_id"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/learning/create-session", false, req, &out); err != nil {
		return "", err
	}
	return out.SessionID, nil
}

// SaveAudio uploads one recorded learning artifact. audio is sent base64
// encoded.
func (c *Client) SaveAudio(ctx context.Context, sessionID string, audio []byte, transcript string) error {
	req := SaveAudioRequest{
		SessionID:  sessionID,
		AudioBlob:  base64.StdEncoding.EncodeToString(audio),
		Transcript: transcript,
	}
	return c.doJSON(ctx, http.MethodPost, "/api/learning/save-audio", false, req, nil)
}

// LearningSession returns a learning session and its saved recordings.
func (c *Client) LearningSession(ctx context.Context, sessionID string) (*LearningSession, error) {
	var out struct {
		Session LearningSession `json:"session"`
	}
	path := "/api/learning/get-session/" + url.PathEscape(sessionID)
	if err := c.doJSON(ctx, http.MethodGet, path, false, nil, &out); err != nil {
		return nil, err
	}
	return &out.Session, nil
}
