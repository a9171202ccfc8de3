package app

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/api"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/config"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/controller"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/nav"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/session"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/tui"
)

func newTestApp(t *testing.T) (*App, *controller.Controller, *tui.Bridge) {
	t.Helper()
	bridge := tui.NewBridge()
	state := session.NewState(nil)
	ctrl := controller.New(controller.Options{
		Config: config.DefaultConfig(),
		State:  state,
		API:    api.New("http://127.0.0.1:1", state),
		View:   bridge,
	})
	t.Cleanup(func() {
		bridge.Close()
		_ = ctrl.Close()
	})

	a := New(context.Background(), ctrl, bridge, Options{})
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return a, ctrl, bridge
}

// show switches the navigator to screen and delivers the resulting bridge
// message to the app.
func show(t *testing.T, a *App, ctrl *controller.Controller, bridge *tui.Bridge, screen nav.Screen) {
	t.Helper()
	ctrl.Navigator().ShowScreen(string(screen))
	msg := bridge.Listen()()
	if got, ok := msg.(tui.ScreenMsg); !ok || got.Screen != screen {
		t.Fatalf("bridge delivered %#v, want ScreenMsg{%s}", msg, screen)
	}
	a.Update(msg)
}

func longPaper() *controller.AssignedPaper {
	p := &controller.AssignedPaper{Detail: api.PaperDetail{ID: "p-1", Title: "Final exam"}}
	for i := 1; i <= 40; i++ {
		p.Questions = append(p.Questions, api.Question{Text: fmt.Sprintf("Question number %d about data structures.", i), Marks: 2})
	}
	return p
}

func TestScreenChangeResetsScroll(t *testing.T) {
	a, ctrl, bridge := newTestApp(t)
	show(t, a, ctrl, bridge, nav.ScreenStudent)

	a.Update(tui.PaperOpenedMsg{Paper: longPaper()})
	for i := 0; i < 3; i++ {
		a.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	}
	if a.student.ScrollOffset() == 0 {
		t.Fatal("paper did not scroll")
	}
	if got, want := ctrl.Navigator().ScrollOffset(), a.student.ScrollOffset(); got != want {
		t.Errorf("navigator offset = %d, want the view's %d", got, want)
	}

	show(t, a, ctrl, bridge, nav.ScreenAPISetup)
	show(t, a, ctrl, bridge, nav.ScreenStudent)

	if got := a.student.ScrollOffset(); got != 0 {
		t.Errorf("offset after returning to the dashboard = %d, want 0", got)
	}
	if ctrl.Navigator().ScrollOffset() != 0 {
		t.Errorf("navigator offset = %d, want 0", ctrl.Navigator().ScrollOffset())
	}
}

func TestScrollOffsetNotRecordedForOtherScreen(t *testing.T) {
	a, ctrl, bridge := newTestApp(t)
	show(t, a, ctrl, bridge, nav.ScreenStudent)
	a.Update(tui.PaperOpenedMsg{Paper: longPaper()})

	// The navigator has moved on but the app has not seen the screen yet.
	ctrl.Navigator().ShowScreen(string(nav.ScreenAPISetup))
	a.Update(tea.KeyMsg{Type: tea.KeyPgDown})

	if got := ctrl.Navigator().ScrollOffset(); got != 0 {
		t.Errorf("navigator offset = %d, want 0 for the new screen", got)
	}
	a.Update(bridge.Listen()())
}
