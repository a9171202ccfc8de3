package session

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/storage"
)

type memKV map[string]string

func (m memKV) Get(key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m memKV) Set(key, value string) error {
	m[key] = value
	return nil
}

func (m memKV) Delete(key string) error {
	delete(m, key)
	return nil
}

func TestAuthHeaderWithoutToken(t *testing.T) {
	s := NewState(nil)
	if _, err := s.AuthHeader(); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("AuthHeader err = %v, want ErrUnauthenticated", err)
	}
}

func TestSetCredentialsPersistsToken(t *testing.T) {
	kv := memKV{}
	s := NewState(kv)

	if err := s.SetCredentials("abc", User{ID: "u1", Username: "alice", Role: RoleStudent}); err != nil {
		t.Fatalf("SetCredentials: %v", err)
	}

	h, err := s.AuthHeader()
	if err != nil || h != "Bearer abc" {
		t.Errorf("AuthHeader = %q, %v", h, err)
	}
	if kv[storage.KeyAuthToken] != "abc" {
		t.Errorf("persisted token = %q", kv[storage.KeyAuthToken])
	}
	u, ok := s.User()
	if !ok || u.Username != "alice" {
		t.Errorf("User = %+v, %v", u, ok)
	}
}

func TestClearKeepsSavedAPIKey(t *testing.T) {
	kv := memKV{}
	s := NewState(kv)
	_ = s.SetCredentials("abc", User{Username: "bob", Role: RoleTeacher})
	_ = s.SaveAPIKey("AIza-1")

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	if s.Token() != "" || s.APIKey() != "" {
		t.Error("in-memory token and api key should be erased")
	}
	if _, ok := s.User(); ok {
		t.Error("user should be erased")
	}
	if _, ok := kv[storage.KeyAuthToken]; ok {
		t.Error("persisted token should be deleted")
	}
	if kv[storage.KeyAPIKey] != "AIza-1" {
		t.Error("saved api key should survive Clear")
	}
}

func TestLoadFromSQLite(t *testing.T) {
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "coach.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()
	_ = store.Set(storage.KeyAuthToken, "persisted")
	_ = store.Set(storage.KeyAPIKey, "AIza-2")

	s := NewState(store)
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Token() != "persisted" || s.APIKey() != "AIza-2" {
		t.Errorf("Load restored token=%q key=%q", s.Token(), s.APIKey())
	}
}

func TestRecentTurns(t *testing.T) {
	s := NewState(nil)
	for _, text := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		s.AppendTurn(Turn{Role: RoleUser, Text: text})
	}

	var got []string
	for _, turn := range s.RecentTurns(5) {
		got = append(got, turn.Text)
	}
	if diff := cmp.Diff([]string{"c", "d", "e", "f", "g"}, got); diff != "" {
		t.Errorf("RecentTurns(5) mismatch (-want +got):\n%s", diff)
	}

	if n := len(s.RecentTurns(50)); n != 7 {
		t.Errorf("RecentTurns(50) returned %d turns, want 7", n)
	}
	if s.RecentTurns(0) != nil {
		t.Error("RecentTurns(0) should be nil")
	}
}

func TestResetConversation(t *testing.T) {
	s := NewState(nil)
	s.AppendTurn(Turn{Role: RoleUser, Text: "x"})
	s.IncQuestions()
	s.IncCorrections()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.ResetConversation("technical", "hard", now)

	q, c := s.Counters()
	if q != 0 || c != 0 || len(s.History()) != 0 {
		t.Errorf("after reset: q=%d c=%d history=%d", q, c, len(s.History()))
	}
	if !s.StartedAt().Equal(now) {
		t.Errorf("StartedAt = %v", s.StartedAt())
	}
	if typ, diff := s.Interview(); typ != "technical" || diff != "hard" {
		t.Errorf("Interview() = %q, %q", typ, diff)
	}
}

func TestHistoryIsACopy(t *testing.T) {
	s := NewState(nil)
	s.AppendTurn(Turn{Role: RoleUser, Text: "original"})
	h := s.History()
	h[0].Text = "mutated"
	if s.History()[0].Text != "original" {
		t.Error("History must not expose internal slice")
	}
}
