// interview.go implements the line-mode interview and the local history of
// finished interviews.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/tui"
)

func newInterviewCmd(opts *rootOptions) *cobra.Command {
	var interviewType, difficulty string

	cmd := &cobra.Command{
		Use:   "interview",
		Short: "Run a mock interview in line mode",
		Long: `Run a mock interview one line at a time. Each line you enter is
an answer; type /end to finish. The transcript is archived locally and
listed by 'coach history'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(e *env, _ *printView) error {
				if _, err := e.signedIn(cmd.Context()); err != nil {
					return err
				}
				runner := tui.NewLineRunner(cmd.InOrStdin(), cmd.OutOrStdout())
				id, err := runner.Run(cmd.Context(), e.ctrl, interviewType, difficulty)
				if id != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Interview saved as %s\n", id)
				}
				return err
			})
		},
	}

	cmd.Flags().StringVar(&interviewType, "type", "", "technical, behavioral or hr (default from config)")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "easy, medium or hard (default from config)")
	return cmd
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var (
		limit int
		show  string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived interviews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(e *env, _ *printView) error {
				out := cmd.OutOrStdout()
				if show != "" {
					turns, err := e.store.GetTurns(show)
					if err != nil {
						return err
					}
					if len(turns) == 0 {
						return fmt.Errorf("no interview %s", show)
					}
					for _, t := range turns {
						label := "You"
						if t.Role == "assistant" {
							label = "Coach"
						}
						fmt.Fprintf(out, "%s: %s\n", label, t.Content)
						if t.Tone != "" {
							fmt.Fprintf(out, "  tone: %s\n", t.Tone)
						}
					}
					return nil
				}

				summaries, err := e.store.ListInterviews(limit)
				if err != nil {
					return err
				}
				if len(summaries) == 0 {
					fmt.Fprintln(out, "No interviews yet.")
					return nil
				}
				for _, s := range summaries {
					fmt.Fprintf(out, "  %-36s  %s  %-10s  %-6s  q=%d c=%d turns=%d\n",
						s.ID, s.StartedAt.Local().Format("2006-01-02 15:04"),
						s.Type, s.Difficulty, s.Questions, s.Corrections, s.Turns)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of interviews to list")
	cmd.Flags().StringVar(&show, "show", "", "Print the transcript of one interview")
	return cmd
}
