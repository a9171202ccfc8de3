package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/api"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/log"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/nav"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/notice"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/session"
)

// Restore loads saved credentials and verifies the token. Without a valid
// token the sign-in screen is shown.
func (c *Controller) Restore(ctx context.Context) error {
	_, err := c.Resume(ctx)
	switch {
	case err == nil:
		c.enterDashboard()
		return nil
	case errors.Is(err, session.ErrUnauthenticated):
		c.nav.ShowScreen(string(nav.ScreenAuth))
		return nil
	default:
		c.nav.ShowScreen(string(nav.ScreenAuth))
		return err
	}
}

// Resume loads saved credentials and verifies the token without changing
// screens or loading any section. It returns session.ErrUnauthenticated
// when there is no valid saved session; a rejected token is forgotten.
func (c *Controller) Resume(ctx context.Context) (session.User, error) {
	if err := c.opts.State.Load(); err != nil {
		return session.User{}, err
	}
	if c.opts.State.Token() == "" {
		return session.User{}, session.ErrUnauthenticated
	}

	resp, err := c.opts.API.Verify(ctx)
	switch {
	case err == nil && resp.Valid:
		user := resp.User()
		c.opts.State.SetUser(user)
		return user, nil
	case err == nil, errors.Is(err, session.ErrUnauthenticated):
		c.opts.Logger.Info("saved token no longer valid")
		if err := c.opts.State.Clear(); err != nil {
			return session.User{}, err
		}
		return session.User{}, session.ErrUnauthenticated
	default:
		return session.User{}, fmt.Errorf("verify saved session: %w", err)
	}
}

// ServerURL returns the root of the API server.
func (c *Controller) ServerURL() string {
	return c.opts.API.BaseURL()
}

// CheckServer asks the API server whether it is up.
func (c *Controller) CheckServer(ctx context.Context) (*api.Health, error) {
	h, err := c.opts.API.Health(ctx)
	if err != nil {
		return nil, fmt.Errorf("check server: %w", err)
	}
	return h, nil
}

// Login authenticates and opens the user's dashboard, or the API key screen
// when no key is saved.
func (c *Controller) Login(ctx context.Context, username, password string) (session.User, error) {
	if err := required([2]string{"username", username}, [2]string{"password", password}); err != nil {
		return session.User{}, err
	}
	resp, err := c.opts.API.Login(ctx, strings.TrimSpace(username), password)
	if err != nil {
		return session.User{}, err
	}
	user := resp.User()
	if err := c.opts.State.SetCredentials(resp.Token, user); err != nil {
		return session.User{}, err
	}
	if c.opts.State.APIKey() == "" {
		// A sign-out in this process forgets the key in memory only.
		if err := c.opts.State.Load(); err != nil {
			c.opts.Logger.Warn("reload saved api key failed", zap.Error(err))
		}
	}
	_ = c.opts.Journal.Append(log.LogEvent{Event: log.EventLogin, User: user.Username, Data: map[string]interface{}{"role": string(user.Role)}})
	c.opts.Logger.Info("signed in", zap.String("user", user.Username), zap.String("role", string(user.Role)))

	c.enterDashboard()
	return user, nil
}

// Register creates an account. The user signs in separately afterwards.
func (c *Controller) Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
	if err := required(
		[2]string{"username", req.Username},
		[2]string{"email", req.Email},
		[2]string{"password", req.Password},
	); err != nil {
		return nil, err
	}
	if req.UserType == "" {
		req.UserType = string(session.RoleStudent)
	}
	if req.UserType != string(session.RoleStudent) && req.UserType != string(session.RoleTeacher) {
		return nil, invalid("user_type", "Account type must be student or teacher.")
	}
	if !strings.Contains(req.Email, "@") {
		return nil, invalid("email", "Please enter a valid email address.")
	}
	resp, err := c.opts.API.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	c.opts.View.Notify(notice.Success, "Registration successful. Please sign in.")
	return resp, nil
}

// Logout ends any recording or interview, revokes the token and returns to
// the sign-in screen. A failed revoke still signs out locally.
func (c *Controller) Logout(ctx context.Context) error {
	_ = c.learningRec.Stop()
	if _, err := c.EndInterview(); err != nil {
		c.opts.Logger.Warn("archive on logout failed", zap.Error(err))
	}

	user, _ := c.opts.State.User()
	if c.opts.State.Token() != "" {
		if err := c.opts.API.Logout(ctx); err != nil {
			c.opts.Logger.Warn("logout request failed", zap.Error(err))
		}
	}
	if err := c.opts.State.Clear(); err != nil {
		return err
	}
	c.mu.Lock()
	c.learningSession = ""
	c.assistantSession = ""
	c.mu.Unlock()

	_ = c.opts.Journal.Append(log.LogEvent{Event: log.EventLogout, User: user.Username})
	c.nav.ShowScreen(string(nav.ScreenAuth))
	return nil
}

// TestKey checks an API key with the server without saving it.
func (c *Controller) TestKey(ctx context.Context, key string) (api.KeyCheck, error) {
	if err := required([2]string{"api_key", key}); err != nil {
		return api.KeyCheck{}, err
	}
	return c.opts.API.TestKey(ctx, strings.TrimSpace(key))
}

// SaveAPIKey validates key with the server, stores it and continues to the
// dashboard.
func (c *Controller) SaveAPIKey(ctx context.Context, key string) error {
	if err := c.StoreAPIKey(ctx, key); err != nil {
		return err
	}
	if _, ok := c.opts.State.User(); ok {
		c.enterDashboard()
	}
	return nil
}

// StoreAPIKey validates key with the server and stores it without
// changing screens.
func (c *Controller) StoreAPIKey(ctx context.Context, key string) error {
	check, err := c.TestKey(ctx, key)
	if err != nil {
		return err
	}
	if !check.Valid {
		if check.Reason == "" {
			return ErrKeyRejected
		}
		return fmt.Errorf("%w: %s", ErrKeyRejected, check.Reason)
	}
	if err := c.opts.State.SaveAPIKey(strings.TrimSpace(key)); err != nil {
		return err
	}
	c.opts.View.Notify(notice.Success, "API key saved.")
	return nil
}

// OpenAPISetup shows the API key screen.
func (c *Controller) OpenAPISetup() {
	c.nav.ShowScreen(string(nav.ScreenAPISetup))
}

// SkipAPISetup continues to the dashboard without a key.
func (c *Controller) SkipAPISetup() {
	c.showDashboard()
}

// enterDashboard routes a signed-in user to the API key screen when no key
// is set, otherwise to their dashboard.
func (c *Controller) enterDashboard() {
	if c.opts.State.APIKey() == "" {
		c.nav.ShowScreen(string(nav.ScreenAPISetup))
		return
	}
	c.showDashboard()
}

func (c *Controller) showDashboard() {
	user, ok := c.opts.State.User()
	if !ok {
		c.nav.ShowScreen(string(nav.ScreenAuth))
		return
	}
	dash := nav.DashboardFor(user.Role)
	c.nav.ShowScreen(string(dash))
	c.nav.ActivateSection(dash, c.nav.Section(dash))
}
