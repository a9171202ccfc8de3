// Package testutil provides test helpers: temporary files and a fake API
// server that records the requests it receives.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// TempFiles creates a temporary directory with the given files and returns its path.
// Files is a map of relative path -> content. Directories are created as needed.
// The directory is automatically cleaned up when the test finishes.
func TempFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	for relPath, content := range files {
		absPath := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			t.Fatalf("creating directory for %s: %v", relPath, err)
		}
		if err := os.WriteFile(absPath, []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", relPath, err)
		}
	}

	return dir
}

// Call is one request received by a FakeServer.
type Call struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// FakeServer is an httptest server with per-route handlers. Unknown routes
// answer 404 with a JSON error body.
type FakeServer struct {
	*httptest.Server

	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	calls  []Call
}

// NewFakeServer starts a FakeServer that is closed when the test ends.
func NewFakeServer(t *testing.T) *FakeServer {
	t.Helper()
	f := &FakeServer{routes: make(map[string]http.HandlerFunc)}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

func (f *FakeServer) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))

	f.mu.Lock()
	f.calls = append(f.calls, Call{Method: r.Method, Path: r.URL.Path, Header: r.Header.Clone(), Body: body})
	h, ok := f.routes[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	if !ok {
		WriteJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	h(w, r)
}

// Handle registers h for method and path.
func (f *FakeServer) Handle(method, path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = h
}

// JSON registers a fixed JSON response for method and path.
func (f *FakeServer) JSON(method, path string, status int, body any) {
	f.Handle(method, path, func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, status, body)
	})
}

// Calls returns every request received so far.
func (f *FakeServer) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsTo returns the requests received for path.
func (f *FakeServer) CallsTo(path string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

// WriteJSON writes body as a JSON response.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// StudentLogin registers login and verify routes for a student account
// whose token is "tok-student".
func StudentLogin(f *FakeServer) {
	f.JSON(http.MethodPost, "/api/auth/login", http.StatusOK, map[string]any{
		"token": "tok-student", "user_id": "u-1", "username": "alice", "user_type": "student",
	})
	f.JSON(http.MethodGet, "/api/auth/verify", http.StatusOK, map[string]any{
		"valid": true, "user_id": "u-1", "username": "alice", "email": "alice@example.edu", "user_type": "student",
	})
	f.JSON(http.MethodPost, "/api/auth/logout", http.StatusOK, map[string]any{"message": "Logged out"})
}

// TeacherLogin registers login and verify routes for a teacher account
// whose token is "tok-teacher".
func TeacherLogin(f *FakeServer) {
	f.JSON(http.MethodPost, "/api/auth/login", http.StatusOK, map[string]any{
		"token": "tok-teacher", "user_id": "t-1", "username": "mr.smith", "user_type": "teacher",
	})
	f.JSON(http.MethodGet, "/api/auth/verify", http.StatusOK, map[string]any{
		"valid": true, "user_id": "t-1", "username": "mr.smith", "email": "smith@example.edu", "user_type": "teacher",
	})
}

// Health registers a healthy /api/health response.
func Health(f *FakeServer) {
	f.JSON(http.MethodGet, "/api/health", http.StatusOK, map[string]any{
		"status": "healthy", "timestamp": "2026-10-16T09:00:00", "active_sessions": 2,
	})
}

// StudentDashboard registers non-empty assignment and submission lists.
func StudentDashboard(f *FakeServer) {
	f.JSON(http.MethodGet, "/api/student/assignments", http.StatusOK, map[string]any{
		"success": true,
		"assignments": []map[string]any{
			{"id": "a-1", "paper_id": "p-1", "title": "Data Structures Quiz", "status": "pending", "deadline": nil,
				"questions": []map[string]any{{"text": "What is a stack?", "marks": 2}}},
		},
	})
	f.JSON(http.MethodGet, "/api/student/submissions", http.StatusOK, map[string]any{
		"success": true,
		"submissions": []map[string]any{
			{"id": "s-1", "paper_id": "p-0", "title": "Warmup", "graded": 1, "grade": "8/10", "feedback": "Good"},
		},
	})
}

// Completions registers a generate route answering with replies in order,
// repeating the last one.
func Completions(f *FakeServer, replies ...string) {
	var (
		mu sync.Mutex
		n  int
	)
	f.Handle(http.MethodPost, "/api/generate", func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		i := n
		n++
		mu.Unlock()
		if i >= len(replies) {
			i = len(replies) - 1
		}
		WriteJSON(w, http.StatusOK, map[string]string{"response": replies[i]})
	})
}
