package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/api"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/exchange"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/log"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/recording"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/session"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/storage"
)

var (
	interviewTypes = []string{"technical", "behavioral", "hr"}
	difficulties   = []string{"easy", "medium", "hard"}
)

// StartInterview archives any running interview and starts a new one with
// a greeting turn. Empty arguments fall back to the configured defaults.
func (c *Controller) StartInterview(ctx context.Context, interviewType, difficulty string) (session.Turn, error) {
	if interviewType == "" {
		interviewType = c.opts.Config.Interview.Type
	}
	if difficulty == "" {
		difficulty = c.opts.Config.Interview.Difficulty
	}
	interviewType = strings.ToLower(interviewType)
	difficulty = strings.ToLower(difficulty)
	if _, ok := indexOf(interviewTypes, interviewType); !ok {
		return session.Turn{}, invalid("type", "Interview type must be technical, behavioral or hr.")
	}
	if _, ok := indexOf(difficulties, difficulty); !ok {
		return session.Turn{}, invalid("difficulty", "Difficulty must be easy, medium or hard.")
	}
	if c.opts.State.APIKey() == "" {
		return session.Turn{}, exchange.ErrNoAPIKey
	}

	if _, err := c.EndInterview(); err != nil {
		c.opts.Logger.Warn("archive previous interview failed", zap.Error(err))
	}
	_ = c.learningRec.Stop()

	c.mu.Lock()
	c.interviewActive = true
	c.mu.Unlock()

	return c.loop.StartInterview(ctx, interviewType, difficulty), nil
}

// Say sends a typed answer to the running dialogue.
func (c *Controller) Say(ctx context.Context, text string) (session.Turn, error) {
	if err := required([2]string{"message", text}); err != nil {
		return session.Turn{}, err
	}
	return c.loop.Turn(ctx, strings.TrimSpace(text)), nil
}

// ReviewAnswer asks for feedback on the latest answer, judged against the
// question that preceded it.
func (c *Controller) ReviewAnswer(ctx context.Context) (*api.AnalyzeResponseResult, error) {
	key := c.opts.State.APIKey()
	if key == "" {
		return nil, exchange.ErrNoAPIKey
	}
	answer, question := lastExchange(c.opts.State.History())
	if answer == "" {
		return nil, invalid("answer", "Answer a question first.")
	}
	res, err := c.opts.API.AnalyzeResponse(ctx, answer, question, key)
	if err != nil {
		return nil, fmt.Errorf("review answer: %w", err)
	}
	return res, nil
}

// lastExchange returns the latest user turn and the assistant turn before it.
func lastExchange(history []session.Turn) (answer, question string) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role != session.RoleUser {
			continue
		}
		answer = history[i].Text
		for j := i - 1; j >= 0; j-- {
			if history[j].Role == session.RoleAssistant {
				return answer, history[j].Text
			}
		}
		return answer, ""
	}
	return "", ""
}

// SetVoiceMode switches the output surface. Leaving voice mode stops the
// interview recorder.
func (c *Controller) SetVoiceMode(on bool) {
	if on {
		c.loop.SetMode(exchange.ModeVoice)
		return
	}
	c.loop.SetMode(exchange.ModeChat)
	_ = c.interviewRec.Stop()
}

// VoiceMode reports whether responses are spoken.
func (c *Controller) VoiceMode() bool {
	return c.loop.Mode() == exchange.ModeVoice
}

// ToggleInterviewRecording starts or stops the interview microphone.
func (c *Controller) ToggleInterviewRecording(ctx context.Context) error {
	return c.interviewRec.Toggle(ctx)
}

// InterviewRecorder returns the interview recorder.
func (c *Controller) InterviewRecorder() *recording.Controller { return c.interviewRec }

func (c *Controller) onUtterance(text string) {
	c.enqueue("utterance", func(ctx context.Context) {
		c.loop.Turn(ctx, text)
	})
}

// EndInterview stops the interview recorder and archives the running
// interview. It returns the archive id, or "" when nothing was archived.
func (c *Controller) EndInterview() (string, error) {
	_ = c.interviewRec.Stop()

	c.mu.Lock()
	active := c.interviewActive
	c.interviewActive = false
	c.mu.Unlock()
	if !active || c.opts.Store == nil {
		return "", nil
	}

	history := c.opts.State.History()
	if len(history) == 0 {
		return "", nil
	}
	turns := make([]storage.Turn, 0, len(history))
	for _, t := range history {
		turns = append(turns, storage.Turn{Role: t.Role, Content: t.Text, Tone: encodeTone(t.Tone), Timestamp: t.At})
	}

	user, _ := c.opts.State.User()
	typ, diff := c.opts.State.Interview()
	questions, corrections := c.opts.State.Counters()
	id, err := c.opts.Store.ArchiveInterview(storage.Interview{
		Username:    user.Username,
		Type:        typ,
		Difficulty:  diff,
		Questions:   questions,
		Corrections: corrections,
		StartedAt:   c.opts.State.StartedAt(),
		EndedAt:     time.Now(),
	}, turns)
	if err != nil {
		return "", fmt.Errorf("archive interview: %w", err)
	}

	_ = c.opts.Journal.Append(log.LogEvent{
		Event:     log.EventInterviewArchived,
		User:      user.Username,
		Kind:      typ,
		Questions: questions,
		Data:      map[string]interface{}{"id": id, "corrections": corrections, "turns": len(turns)},
	})
	return id, nil
}

// Stats summarises the running dialogue.
type Stats struct {
	Questions   int
	Corrections int
	Elapsed     time.Duration
}

// Stats returns the counters of the running dialogue.
func (c *Controller) Stats() Stats {
	q, corr := c.opts.State.Counters()
	var elapsed time.Duration
	if started := c.opts.State.StartedAt(); !started.IsZero() {
		elapsed = time.Since(started).Round(time.Second)
	}
	return Stats{Questions: q, Corrections: corr, Elapsed: elapsed}
}

func encodeTone(t *session.Tone) string {
	if t == nil {
		return ""
	}
	data, err := json.Marshal(t)
	if err != nil {
		return ""
	}
	return string(data)
}
