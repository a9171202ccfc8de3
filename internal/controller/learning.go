package controller

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/api"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/notice"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/recording"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/session"
)

// StartLearning opens a learning session on the server and starts a
// tutoring dialogue about topic.
func (c *Controller) StartLearning(ctx context.Context, topic, material string) (session.Turn, error) {
	if err := required([2]string{"topic", topic}); err != nil {
		return session.Turn{}, err
	}
	if c.opts.State.APIKey() == "" {
		return session.Turn{}, invalid("api_key", "Add your AI API key first.")
	}
	user, ok := c.opts.State.User()
	if !ok {
		return session.Turn{}, session.ErrUnauthenticated
	}

	if _, err := c.EndInterview(); err != nil {
		c.opts.Logger.Warn("archive interview failed", zap.Error(err))
	}

	topic = strings.TrimSpace(topic)
	id, err := c.opts.API.CreateLearningSession(ctx, api.LearningSessionRequest{
		Topic:   topic,
		Content: strings.TrimSpace(material),
		UserID:  user.ID,
	})
	if err != nil {
		return session.Turn{}, fmt.Errorf("create learning session: %w", err)
	}
	c.mu.Lock()
	c.learningSession = id
	c.mu.Unlock()

	return c.loop.StartLearning(ctx, topic, material), nil
}

// LearningSession returns the current learning session id.
func (c *Controller) LearningSession() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.learningSession
}

// LearningRecordings fetches what the server stored for the current learning
// session.
func (c *Controller) LearningRecordings(ctx context.Context) (*api.LearningSession, error) {
	id := c.LearningSession()
	if id == "" {
		return nil, ErrNoLearningSession
	}
	return c.opts.API.LearningSession(ctx, id)
}

// ToggleLearningRecording starts or stops the learning microphone. Stopping
// uploads the recording in the background.
func (c *Controller) ToggleLearningRecording(ctx context.Context) error {
	if c.learningRec.State() != recording.Active && c.LearningSession() == "" {
		return ErrNoLearningSession
	}
	return c.learningRec.Toggle(ctx)
}

// LearningRecorder returns the learning recorder.
func (c *Controller) LearningRecorder() *recording.Controller { return c.learningRec }

func (c *Controller) onArtifact(a recording.Artifact) {
	id := c.LearningSession()
	if id == "" {
		c.opts.Logger.Warn("recording without learning session dropped", zap.String("artifact", a.ID))
		return
	}
	c.enqueue("save-audio", func(ctx context.Context) {
		c.uploadArtifact(ctx, id, a)
	})
}

// uploadArtifact stores a recording and, when it carries speech, asks the
// tutor about it.
func (c *Controller) uploadArtifact(ctx context.Context, sessionID string, a recording.Artifact) {
	if len(a.Audio) == 0 && a.Transcript == "" {
		c.opts.View.Notify(notice.Info, "Nothing was recorded.")
		return
	}
	if err := c.opts.API.SaveAudio(ctx, sessionID, a.Audio, a.Transcript); err != nil {
		c.Report(fmt.Errorf("save recording: %w", err))
		return
	}
	c.opts.Logger.Info("recording saved",
		zap.String("session", sessionID),
		zap.String("artifact", a.ID),
		zap.Int("bytes", len(a.Audio)))
	c.opts.View.Notify(notice.Success, "Recording saved.")

	if a.Transcript != "" {
		c.loop.Turn(ctx, a.Transcript)
	}
}
