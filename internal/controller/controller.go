// Package controller owns the session and wires the navigator, recorders,
// exchange loop and API gateway together behind the actions a user interface
// invokes.
package controller

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/api"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/config"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/exchange"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/log"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/nav"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/notice"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/recording"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/session"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/speech"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/storage"
)

// queueSize bounds background work waiting for the worker.
const queueSize = 16

// View is the rendering adapter the controller drives.
type View interface {
	nav.Display
	exchange.View
	recording.Indicator
	notice.Notifier

	ShowAssignments(assignments []api.Assignment)
	ShowSubmissions(submissions []api.Submission)
	ShowPapers(papers []api.Paper)
	ArmInterview(interviewType, difficulty string)
}

// Options configures a Controller. Config, State and API are required.
type Options struct {
	Config  *config.Config
	State   *session.State
	API     *api.Client
	Store   *storage.Store
	Capture speech.Capture
	Output  speech.Output
	View    View
	Logger  *zap.Logger
	Journal *log.Logger
}

// Controller is the single owner of the client session.
type Controller struct {
	opts Options

	nav          *nav.Navigator
	loop         *exchange.Loop
	mic          *recording.Microphone
	interviewRec *recording.Controller
	learningRec  *recording.Controller

	jobs   chan func(context.Context)
	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group

	mu               sync.Mutex
	interviewActive  bool
	learningSession  string
	assistantSession string
	closed           bool
}

// New builds a Controller and starts its background worker. Callers must
// Close it.
func New(opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.View == nil {
		opts.View = nopView{}
	}
	if opts.Capture == nil {
		opts.Capture = speech.Unavailable{}
	}
	if opts.Output == nil {
		opts.Output = speech.Unavailable{}
	}

	base, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(base)

	c := &Controller{
		opts:   opts,
		mic:    &recording.Microphone{},
		jobs:   make(chan func(context.Context), queueSize),
		ctx:    ctx,
		cancel: cancel,
		group:  group,
	}

	layout := nav.LayoutFor(opts.Config.Navigation.Style)
	c.nav = nav.New(layout, opts.View)
	c.registerHooks(layout)

	mode := exchange.ModeChat
	if opts.Config.Interview.VoiceMode {
		mode = exchange.ModeVoice
	}
	c.loop = exchange.New(exchange.Options{
		State:         opts.State,
		Completer:     opts.API,
		View:          opts.View,
		Speech:        opts.Output,
		Tone:          opts.API,
		Notifier:      opts.View,
		HistoryWindow: opts.Config.Interview.HistoryWindow,
		Mode:          mode,
		Logger:        opts.Logger.Named("exchange"),
		Journal:       opts.Journal,
	})

	c.interviewRec = recording.New(recording.Options{
		Kind:        recording.KindInterview,
		Capture:     opts.Capture,
		Microphone:  c.mic,
		Indicator:   opts.View,
		Flags:       opts.State,
		Notifier:    opts.View,
		Logger:      opts.Logger.Named("recording"),
		Journal:     opts.Journal,
		OnUtterance: c.onUtterance,
	})
	c.learningRec = recording.New(recording.Options{
		Kind:       recording.KindLearning,
		Capture:    opts.Capture,
		Microphone: c.mic,
		Indicator:  opts.View,
		Flags:      opts.State,
		Notifier:   opts.View,
		Logger:     opts.Logger.Named("recording"),
		Journal:    opts.Journal,
		OnArtifact: c.onArtifact,
	})

	group.Go(func() error { return c.work(ctx) })
	return c
}

// Navigator returns the screen/section state machine.
func (c *Controller) Navigator() *nav.Navigator { return c.nav }

// State returns the session state.
func (c *Controller) State() *session.State { return c.opts.State }

// Loop returns the exchange loop.
func (c *Controller) Loop() *exchange.Loop { return c.loop }

// Close stops both recorders, archives a running interview and waits for
// queued work to drain or be cancelled.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	_ = c.learningRec.Stop()
	if _, err := c.EndInterview(); err != nil {
		c.opts.Logger.Warn("archive on close failed", zap.Error(err))
	}
	c.cancel()
	return c.group.Wait()
}

// work runs queued jobs one at a time until ctx ends.
func (c *Controller) work(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case job := <-c.jobs:
			job(ctx)
		}
	}
}

// enqueue hands job to the worker without blocking the caller.
func (c *Controller) enqueue(name string, job func(context.Context)) bool {
	select {
	case c.jobs <- job:
		return true
	default:
		c.opts.Logger.Warn("work queue full, dropping job", zap.String("job", name))
		c.opts.View.Notify(notice.Warning, "Still working on the previous answer. Please wait a moment.")
		return false
	}
}

// Activate enters a section of the active dashboard.
func (c *Controller) Activate(section string) bool {
	return c.nav.ActivateSection(c.nav.Screen(), section)
}

// registerHooks attaches data loaders to section entry.
func (c *Controller) registerHooks(layout nav.Layout) {
	_, hasSubmissions := indexOf(layout[nav.ScreenStudent], nav.SectionSubmissions)

	for screen, sections := range layout {
		for _, section := range sections {
			var load func(ctx context.Context) error
			switch {
			case screen == nav.ScreenStudent && section == nav.SectionAssignments && hasSubmissions:
				load = c.LoadAssignments
			case screen == nav.ScreenStudent && section == nav.SectionAssignments:
				load = c.RefreshStudent
			case screen == nav.ScreenStudent && section == nav.SectionSubmissions:
				load = c.LoadSubmissions
			case screen == nav.ScreenStudent && section == nav.SectionInterview:
				load = c.armInterview
			case screen == nav.ScreenTeacher && section == nav.SectionPapers:
				load = c.LoadPapers
			}
			c.nav.OnEnter(screen, section, c.entered(screen, section, load))
		}
	}
}

func (c *Controller) entered(screen nav.Screen, section string, load func(context.Context) error) func() {
	return func() {
		user, _ := c.opts.State.User()
		_ = c.opts.Journal.Append(log.LogEvent{
			Event:   log.EventSectionEntered,
			User:    user.Username,
			Screen:  string(screen),
			Section: section,
		})
		if load != nil {
			c.Report(load(c.ctx))
		}
	}
}

func (c *Controller) armInterview(context.Context) error {
	iv := c.opts.Config.Interview
	c.opts.View.ArmInterview(iv.Type, iv.Difficulty)
	return nil
}

func indexOf(list []string, s string) (int, bool) {
	for i, v := range list {
		if v == s {
			return i, true
		}
	}
	return -1, false
}

type nopView struct{}

func (nopView) ShowScreen(nav.Screen)                         {}
func (nopView) ShowSection(nav.Screen, string)                {}
func (nopView) RenderTranscriptEntry(session.Turn)            {}
func (nopView) RenderChatMessage(session.Turn)                {}
func (nopView) SetIndicator(recording.Kind, bool)             {}
func (nopView) Notify(notice.Level, string)                   {}
func (nopView) ShowAssignments([]api.Assignment)              {}
func (nopView) ShowSubmissions([]api.Submission)              {}
func (nopView) ShowPapers([]api.Paper)                        {}
func (nopView) ArmInterview(interviewType, difficulty string) {}
