// Package notice carries transient, non-blocking user notices from the core
// to whatever surface displays them.
package notice

// Level is the severity of a notice.
type Level string

const (
	Info    Level = "info"
	Success Level = "success"
	Warning Level = "warning"
	Error   Level = "error"
)

// Notifier displays a notice.
type Notifier interface {
	Notify(level Level, message string)
}

// Func adapts a function to Notifier.
type Func func(level Level, message string)

func (f Func) Notify(level Level, message string) { f(level, message) }

// Discard drops every notice.
var Discard Notifier = Func(func(Level, string) {})

// Notice is one recorded notice.
type Notice struct {
	Level   Level
	Message string
}
