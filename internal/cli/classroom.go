// classroom.go implements the assignment, submission, paper and grading
// commands.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// listCmd builds a command that signs in and prints one list through the
// printView.
func listCmd(opts *rootOptions, use, short string, load func(e *env, cmd *cobra.Command) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(e *env, v *printView) error {
				if _, err := e.signedIn(cmd.Context()); err != nil {
					return err
				}
				v.showLists()
				return load(e, cmd)
			})
		},
	}
}

func newAssignmentsCmd(opts *rootOptions) *cobra.Command {
	return listCmd(opts, "assignments", "List your assignments", func(e *env, cmd *cobra.Command) error {
		return e.ctrl.LoadAssignments(cmd.Context())
	})
}

func newSubmissionsCmd(opts *rootOptions) *cobra.Command {
	return listCmd(opts, "submissions", "List your submitted answer sheets", func(e *env, cmd *cobra.Command) error {
		return e.ctrl.LoadSubmissions(cmd.Context())
	})
}

func newSubmissionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "submission <submission-id>",
		Short: "Show one submitted answer sheet with its grade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(e *env, _ *printView) error {
				if _, err := e.signedIn(cmd.Context()); err != nil {
					return err
				}
				sheet, err := e.ctrl.Submission(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				d := sheet.Detail
				fmt.Fprintf(out, "%s  %s\n", d.ID, d.Title)
				fmt.Fprintf(out, "Grade:    %s\n", dash(string(d.Grade)))
				fmt.Fprintf(out, "Feedback: %s\n", dash(string(d.Feedback)))
				for i, q := range sheet.Questions {
					fmt.Fprintf(out, "  %d. %s\n", i+1, q.Text)
				}
				if f := d.AnswerFile(); f != "" {
					fmt.Fprintf(out, "Answer sheet: %s\n", f)
				}
				return nil
			})
		},
	}
}

func newPapersCmd(opts *rootOptions) *cobra.Command {
	return listCmd(opts, "papers", "List the papers you created", func(e *env, cmd *cobra.Command) error {
		return e.ctrl.LoadPapers(cmd.Context())
	})
}

func newSubmitCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "submit <assignment-id> <file.pdf>",
		Short: "Upload an answer sheet for an assignment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(e *env, _ *printView) error {
				if _, err := e.signedIn(cmd.Context()); err != nil {
					return err
				}
				resp, err := e.ctrl.SubmitPDF(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Answer %s saved.\n", resp.AnswerID)
				return nil
			})
		},
	}
}

func newAssistantCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assistant",
		Short: "Inspect teaching assistant sessions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <session-id>",
		Short: "Show an assistant session and its counters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(e *env, _ *printView) error {
				if _, err := e.signedIn(cmd.Context()); err != nil {
					return err
				}
				info, err := e.ctrl.ResumeAssistant(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s  created %s\n", info.ID, dash(info.CreatedAt))
				fmt.Fprintf(out, "Syllabus: %s  Previous papers: %s\n", yesNo(info.HasSyllabus), yesNo(info.HasPYQ))
				fmt.Fprintf(out, "Questions asked: %d  Papers generated: %d  Answers graded: %d\n",
					info.Stats.QuestionsAsked, info.Stats.PapersGenerated, info.Stats.AnswersGraded)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "download <paper-id>",
		Short: "Save a generated question paper as PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(e *env, _ *printView) error {
				if _, err := e.signedIn(cmd.Context()); err != nil {
					return err
				}
				path, err := e.ctrl.DownloadGeneratedPaper(cmd.Context(), args[0], "")
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
				return nil
			})
		},
	})
	return cmd
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func newGradeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "grade <answer-id> <grade> [feedback...]",
		Short: "Grade a submitted answer sheet",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			feedback := strings.Join(args[2:], " ")
			return withEnv(cmd, opts, func(e *env, _ *printView) error {
				if _, err := e.signedIn(cmd.Context()); err != nil {
					return err
				}
				return e.ctrl.Grade(cmd.Context(), args[0], args[1], feedback)
			})
		},
	}
}
