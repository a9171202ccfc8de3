// Package nav selects what the client displays: exactly one top-level screen,
// and within each dashboard exactly one active section.
package nav

import (
	"sync"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/session"
)

// Screen identifies a top-level screen.
type Screen string

const (
	ScreenAuth     Screen = "auth"
	ScreenStudent  Screen = "student-dashboard"
	ScreenTeacher  Screen = "teacher-dashboard"
	ScreenAPISetup Screen = "api-setup"
)

// Screens is the fixed set of top-level screens.
var Screens = []Screen{ScreenAuth, ScreenStudent, ScreenTeacher, ScreenAPISetup}

// DashboardFor returns the dashboard screen of a role.
func DashboardFor(role session.Role) Screen {
	if role == session.RoleTeacher {
		return ScreenTeacher
	}
	return ScreenStudent
}

// Display is notified of every effective transition.
type Display interface {
	ShowScreen(screen Screen)
	ShowSection(container Screen, section string)
}

type container struct {
	sections []string
	active   string
}

func (c *container) has(id string) bool {
	for _, s := range c.sections {
		if s == id {
			return true
		}
	}
	return false
}

// Navigator is the screen/section state machine. It is safe for concurrent use.
type Navigator struct {
	mu         sync.Mutex
	active     Screen
	containers map[Screen]*container
	hooks      map[Screen]map[string]func()
	scroll     int
	display    Display
}

// New builds a Navigator for layout. The auth screen is active and each
// dashboard starts on its first section.
func New(layout Layout, display Display) *Navigator {
	n := &Navigator{
		active:     ScreenAuth,
		containers: make(map[Screen]*container, len(layout)),
		hooks:      make(map[Screen]map[string]func()),
		display:    display,
	}
	for screen, sections := range layout {
		c := &container{sections: append([]string(nil), sections...)}
		if len(c.sections) > 0 {
			c.active = c.sections[0]
		}
		n.containers[screen] = c
	}
	return n
}

// OnEnter registers the side effect run after section becomes active in
// container. A later registration replaces an earlier one.
func (n *Navigator) OnEnter(container Screen, section string, hook func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.hooks[container] == nil {
		n.hooks[container] = make(map[string]func())
	}
	n.hooks[container][section] = hook
}

// ShowScreen makes id the only active screen and resets the scroll offset.
// Unknown ids leave the state untouched and return false.
func (n *Navigator) ShowScreen(id string) bool {
	screen := Screen(id)
	if !isScreen(screen) {
		return false
	}
	n.mu.Lock()
	n.active = screen
	n.scroll = 0
	display := n.display
	n.mu.Unlock()

	if display != nil {
		display.ShowScreen(screen)
	}
	return true
}

// ActivateSection makes id the active section of container, leaving every
// other container alone, then runs the section's enter hook. Unknown
// containers or sections are a no-op returning false.
func (n *Navigator) ActivateSection(containerID Screen, id string) bool {
	n.mu.Lock()
	c, ok := n.containers[containerID]
	if !ok || !c.has(id) {
		n.mu.Unlock()
		return false
	}
	c.active = id
	hook := n.hooks[containerID][id]
	display := n.display
	n.mu.Unlock()

	if display != nil {
		display.ShowSection(containerID, id)
	}
	if hook != nil {
		hook()
	}
	return true
}

// Screen returns the active screen.
func (n *Navigator) Screen() Screen {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.active
}

// Section returns the active section of container, empty if unknown.
func (n *Navigator) Section(containerID Screen) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if c, ok := n.containers[containerID]; ok {
		return c.active
	}
	return ""
}

// Sections returns the section ids of container in display order.
func (n *Navigator) Sections(containerID Screen) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	c, ok := n.containers[containerID]
	if !ok {
		return nil
	}
	return append([]string(nil), c.sections...)
}

// ScrollOffset returns the scroll position of the active screen.
func (n *Navigator) ScrollOffset() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.scroll
}

// SetScrollOffset records the scroll position of the active screen.
func (n *Navigator) SetScrollOffset(offset int) {
	if offset < 0 {
		offset = 0
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.scroll = offset
}

func isScreen(s Screen) bool {
	for _, known := range Screens {
		if s == known {
			return true
		}
	}
	return false
}
