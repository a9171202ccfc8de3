// Package session holds the process-wide client state: credentials, the
// active user, the API key, conversation history and exchange counters.
// It performs no network calls; persistence is delegated to a KV.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/storage"
)

// ErrUnauthenticated is returned when an operation needs a token and none is set.
var ErrUnauthenticated = errors.New("not authenticated")

// Role is the account type of a user.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// User is the authenticated account.
type User struct {
	ID       string
	Username string
	Email    string
	Role     Role
}

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Tone is optional delivery analysis attached to a spoken user turn.
type Tone struct {
	Confidence  string `json:"confidence"`
	SpeechRate  string `json:"speech_rate"`
	Emotion     string `json:"emotion"`
	Nervousness string `json:"nervousness_level"`
	Clarity     string `json:"clarity"`
	Feedback    string `json:"feedback,omitempty"`
}

// Turn is one role-tagged utterance. Turns are never mutated after append.
type Turn struct {
	Role string
	Text string
	Tone *Tone
	At   time.Time
}

// KV is the durable key-value store the session persists through.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// State is the single owner of mutable session data.
type State struct {
	mu sync.Mutex
	kv KV

	token  string
	user   *User
	apiKey string

	history       []Turn
	questions     int
	corrections   int
	startedAt     time.Time
	interviewType string
	difficulty    string

	recording map[string]bool
}

// NewState creates a State persisting through kv. kv may be nil for an
// ephemeral session.
func NewState(kv KV) *State {
	return &State{
		kv:        kv,
		recording: make(map[string]bool),
	}
}

// Load restores the token and API key from durable storage.
func (s *State) Load() error {
	if s.kv == nil {
		return nil
	}
	token, ok, err := s.kv.Get(storage.KeyAuthToken)
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}
	key, keyOK, err := s.kv.Get(storage.KeyAPIKey)
	if err != nil {
		return fmt.Errorf("load api key: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ok {
		s.token = token
	}
	if keyOK {
		s.apiKey = key
	}
	return nil
}

// SetCredentials stores the token and user and persists the token.
func (s *State) SetCredentials(token string, user User) error {
	s.mu.Lock()
	s.token = token
	u := user
	s.user = &u
	s.mu.Unlock()

	if s.kv == nil {
		return nil
	}
	if err := s.kv.Set(storage.KeyAuthToken, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	return nil
}

// SetUser replaces the user record without touching the token.
func (s *State) SetUser(user User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := user
	s.user = &u
}

// Clear erases the token, user and in-memory API key. A saved API key in
// durable storage is left in place.
func (s *State) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.apiKey = ""
	s.mu.Unlock()

	if s.kv == nil {
		return nil
	}
	if err := s.kv.Delete(storage.KeyAuthToken); err != nil {
		return fmt.Errorf("forget token: %w", err)
	}
	return nil
}

// AuthHeader returns the bearer header value.
func (s *State) AuthHeader() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return "", ErrUnauthenticated
	}
	return "Bearer " + s.token, nil
}

// Token returns the raw token, empty when signed out.
func (s *State) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns a copy of the current user.
func (s *State) User() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// APIKey returns the in-memory API key.
func (s *State) APIKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiKey
}

// SaveAPIKey sets the API key and persists it.
func (s *State) SaveAPIKey(key string) error {
	s.mu.Lock()
	s.apiKey = key
	s.mu.Unlock()

	if s.kv == nil {
		return nil
	}
	if err := s.kv.Set(storage.KeyAPIKey, key); err != nil {
		return fmt.Errorf("persist api key: %w", err)
	}
	return nil
}

// ResetConversation clears history and counters for a fresh interview.
func (s *State) ResetConversation(interviewType, difficulty string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	s.questions = 0
	s.corrections = 0
	s.startedAt = now
	s.interviewType = interviewType
	s.difficulty = difficulty
}

// Interview returns the configured interview type and difficulty.
func (s *State) Interview() (interviewType, difficulty string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interviewType, s.difficulty
}

// AppendTurn appends a turn to the history.
func (s *State) AppendTurn(t Turn) {
	if t.At.IsZero() {
		t.At = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, t)
}

// History returns a copy of the full conversation history.
func (s *State) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.history))
	copy(out, s.history)
	return out
}

// RecentTurns returns up to the last n turns, oldest first.
func (s *State) RecentTurns(n int) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 {
		return nil
	}
	start := len(s.history) - n
	if start < 0 {
		start = 0
	}
	out := make([]Turn, len(s.history)-start)
	copy(out, s.history[start:])
	return out
}

// IncQuestions increments the question counter.
func (s *State) IncQuestions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions++
}

// IncCorrections increments the correction counter.
func (s *State) IncCorrections() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.corrections++
}

// Counters returns the question and correction counters.
func (s *State) Counters() (questions, corrections int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questions, s.corrections
}

// StartedAt returns when the current interview started.
func (s *State) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startedAt
}

// SetRecording records whether the recorder of the given kind is active.
func (s *State) SetRecording(kind string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recording[kind] = active
}

// Recording reports whether the recorder of the given kind is active.
func (s *State) Recording(kind string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recording[kind]
}
