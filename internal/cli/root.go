// Package cli defines Cobra command definitions for the coach CLI.
// This file contains the root command, global flags and the TUI launcher.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/tui"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/tui/app"
)

var version = "dev" // set via ldflags at build time

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	server  string
	home    string
	verbose bool
}

// NewRootCmd builds the coach command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "coach",
		Short: "Terminal client for the AI interview and classroom service",
		Long: `Coach runs mock interviews, learning sessions and classroom
assignments against the interview service. Without a subcommand it opens
the interactive dashboard.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// When no subcommand is provided, launch TUI if TTY, show help otherwise
			if !tui.IsTTY() {
				return cmd.Help()
			}
			return runTUI(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.server, "server", "", "Service base URL (overrides server.base_url)")
	cmd.PersistentFlags().StringVar(&opts.home, "home", "", "Config and data directory (default ~/.coach)")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Write debug entries to the diagnostic log")

	cmd.AddCommand(
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newWhoamiCmd(opts),
		newKeyCmd(opts),
		newAssignmentsCmd(opts),
		newSubmissionsCmd(opts),
		newSubmissionCmd(opts),
		newSubmitCmd(opts),
		newPapersCmd(opts),
		newGradeCmd(opts),
		newAssistantCmd(opts),
		newInterviewCmd(opts),
		newHistoryCmd(opts),
	)
	return cmd
}

// Execute runs the root command. Called from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// runTUI opens the dashboard with the controller rendering through a bridge.
func runTUI(ctx context.Context, opts *rootOptions) error {
	bridge := tui.NewBridge()
	e, err := openEnv(opts, bridge)
	if err != nil {
		bridge.Close()
		return err
	}

	wd, _ := os.Getwd()
	err = tui.Run(app.New(ctx, e.ctrl, bridge, app.Options{DownloadDir: wd}))

	// Stop the bridge first so shutdown notices cannot block on a full queue.
	bridge.Close()
	if cerr := e.Close(); err == nil {
		err = cerr
	}
	return err
}
