// auth.go implements the login, logout, whoami and key commands.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// withEnv opens an env rendering through a printView on the command's
// streams, runs fn and closes the env.
func withEnv(cmd *cobra.Command, opts *rootOptions, fn func(e *env, v *printView) error) error {
	v := newPrintView(cmd.OutOrStdout(), cmd.ErrOrStderr())
	e, err := openEnv(opts, v)
	if err != nil {
		return err
	}
	err = fn(e, v)
	if cerr := e.Close(); err == nil {
		err = cerr
	}
	return err
}

// prompter reads answers from a command's input. Secrets are read without
// echo when the input is a terminal.
type prompter struct {
	in  io.Reader
	r   *bufio.Reader
	out io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	in := cmd.InOrStdin()
	return &prompter{in: in, r: bufio.NewReader(in), out: cmd.ErrOrStderr()}
}

func (p *prompter) line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	s, err := p.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", fmt.Errorf("reading %s: %w", strings.TrimSuffix(strings.ToLower(label), ": "), err)
	}
	return strings.TrimSpace(s), nil
}

func (p *prompter) secret(label string) (string, error) {
	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(p.out, label)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("reading secret: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}
	return p.line(label)
}

func newLoginCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login [username]",
		Short: "Sign in and save the session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			var username string
			if len(args) == 1 {
				username = args[0]
			} else {
				u, err := p.line("Username: ")
				if err != nil {
					return err
				}
				username = u
			}
			password, err := p.secret("Password: ")
			if err != nil {
				return err
			}

			return withEnv(cmd, opts, func(e *env, _ *printView) error {
				user, err := e.ctrl.Login(cmd.Context(), username, password)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", user.Username, user.Role)
				if e.state.APIKey() == "" {
					fmt.Fprintln(cmd.OutOrStdout(), "No AI API key saved yet; run: coach key set")
				}
				return nil
			})
		},
	}
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(e *env, _ *printView) error {
				if err := e.state.Load(); err != nil {
					return err
				}
				if err := e.ctrl.Logout(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
				return nil
			})
		},
	}
}

func newWhoamiCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(e *env, _ *printView) error {
				user, err := e.signedIn(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s (%s)\n", user.Username, user.Role)
				if user.Email != "" {
					fmt.Fprintf(out, "Email:  %s\n", user.Email)
				}
				key := "not set"
				if e.state.APIKey() != "" {
					key = "saved"
				}
				fmt.Fprintf(out, "API key: %s\n", key)

				status := "unreachable"
				if h, err := e.ctrl.CheckServer(cmd.Context()); err == nil {
					status = dash(h.Status)
				} else {
					e.logger.Debug("health check failed", zap.Error(err))
				}
				fmt.Fprintf(out, "Server: %s (%s)\n", e.ctrl.ServerURL(), status)
				return nil
			})
		},
	}
}

func newKeyCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the AI API key",
	}

	readKey := func(cmd *cobra.Command, args []string) (string, error) {
		if len(args) == 1 {
			return args[0], nil
		}
		return newPrompter(cmd).secret("API key: ")
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set [key]",
		Short: "Check the key with the service and save it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := readKey(cmd, args)
			if err != nil {
				return err
			}
			return withEnv(cmd, opts, func(e *env, _ *printView) error {
				return e.ctrl.StoreAPIKey(cmd.Context(), key)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "test [key]",
		Short: "Check a key without saving it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := readKey(cmd, args)
			if err != nil {
				return err
			}
			return withEnv(cmd, opts, func(e *env, _ *printView) error {
				check, err := e.ctrl.TestKey(cmd.Context(), key)
				if err != nil {
					return err
				}
				if !check.Valid {
					return fmt.Errorf("key rejected: %s", dash(check.Reason))
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Key is valid.")
				return nil
			})
		},
	})
	return cmd
}
