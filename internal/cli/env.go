package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/api"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/config"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/controller"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/log"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/session"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/speech"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/storage"
)

// errNotSignedIn is returned by commands that need a saved session.
var errNotSignedIn = errors.New("not signed in; run: coach login")

// env is everything a command needs: config, storage and a controller
// rendering through view.
type env struct {
	home   string
	cfg    *config.Config
	store  *storage.Store
	state  *session.State
	ctrl   *controller.Controller
	logger *zap.Logger
	// closeLog releases the diagnostic log file.
	closeLog func() error
}

// openEnv loads the config under the home directory and builds the
// controller. Callers must Close the env.
func openEnv(opts *rootOptions, view controller.View) (*env, error) {
	home := opts.home
	if home == "" {
		home = config.DefaultHome()
	}
	if err := os.MkdirAll(home, 0755); err != nil {
		return nil, fmt.Errorf("creating home directory: %w", err)
	}

	cfg, err := config.Load(home)
	if err != nil {
		return nil, err
	}
	if opts.server != "" {
		cfg.Server.BaseURL = opts.server
	}
	if opts.verbose {
		cfg.Logging.Level = "debug"
	}

	logger, closeLog, err := log.NewDiagnostic(home, cfg.Logging)
	if err != nil {
		return nil, err
	}
	journal, err := log.NewLogger(home)
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	store, err := storage.NewStore(cfg.StoragePath(home))
	if err != nil {
		logger.Warn("opening store failed", zap.Error(err))
		_ = closeLog()
		return nil, err
	}

	state := session.NewState(store)
	client := api.New(cfg.Server.BaseURL, state,
		api.WithTimeout(cfg.API.Timeout()),
		api.WithRetry(api.RetryPolicy{
			MaxAttempts:     cfg.API.Retry.MaxAttempts,
			InitialInterval: time.Duration(cfg.API.Retry.InitialIntervalMs) * time.Millisecond,
		}),
		api.WithLogger(logger.Named("api")),
	)

	ctrl := controller.New(controller.Options{
		Config:  cfg,
		State:   state,
		API:     client,
		Store:   store,
		Capture: speech.NewCapture(cfg.Speech, logger.Named("speech")),
		Output:  speech.NewOutput(cfg.Speech),
		View:    view,
		Logger:  logger,
		Journal: journal,
	})

	logger.Debug("environment ready",
		zap.String("home", home),
		zap.String("server", cfg.Server.BaseURL))

	return &env{home: home, cfg: cfg, store: store, state: state, ctrl: ctrl, logger: logger, closeLog: closeLog}, nil
}

// signedIn verifies the saved session without navigating, so commands do
// not trigger dashboard loads they never render.
func (e *env) signedIn(ctx context.Context) (session.User, error) {
	user, err := e.ctrl.Resume(ctx)
	if errors.Is(err, session.ErrUnauthenticated) {
		return session.User{}, errNotSignedIn
	}
	return user, err
}

// Close stops the controller and releases storage.
func (e *env) Close() error {
	err := e.ctrl.Close()
	if serr := e.store.Close(); err == nil {
		err = serr
	}
	if cerr := e.closeLog(); err == nil {
		err = cerr
	}
	return err
}
