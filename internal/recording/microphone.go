package recording

import (
	"errors"
	"sync"
)

// ErrMicrophoneBusy is returned when another recorder owns the microphone.
var ErrMicrophoneBusy = errors.New("microphone is in use by another recorder")

// Microphone grants exclusive ownership of the single capture device to one
// recorder kind at a time.
type Microphone struct {
	mu    sync.Mutex
	owner Kind
}

// Acquire takes ownership for kind. Re-acquiring by the current owner is
// allowed.
func (m *Microphone) Acquire(kind Kind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.owner != "" && m.owner != kind {
		return ErrMicrophoneBusy
	}
	m.owner = kind
	return nil
}

// Release gives up ownership if kind holds it.
func (m *Microphone) Release(kind Kind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.owner == kind {
		m.owner = ""
	}
}

// Owner returns the current owner, if any.
func (m *Microphone) Owner() (Kind, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.owner, m.owner != ""
}
