package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cognicore/rectsolve/pkg/rectsolve/internalerr"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect stored sessions",
	Long:  `List and show sessions persisted with --save. Needs the sqlite store driver to outlive a single run.`,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sessions, newest first",
	RunE:  runSessionsList,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Print one stored session with its trace",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsShow,
}

func init() {
	sessionsListCmd.Flags().IntP("limit", "n", 20, "Maximum sessions to list (0 for all)")
	sessionsCmd.AddCommand(sessionsListCmd, sessionsShowCmd)
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	limit, _ := cmd.Flags().GetInt("limit")

	solver, _, err := newSolver(ctx, true)
	if err != nil {
		return err
	}
	defer solver.Close()

	sessions, err := solver.Sessions(ctx, limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions found.")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSTEPS\tRESOLVED")
	for _, s := range sessions {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%t\n", s.ID, s.CreatedAt.Format("2006-01-02 15:04:05"), len(s.Steps), s.Resolved())
	}
	return tw.Flush()
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	solver, _, err := newSolver(ctx, true)
	if err != nil {
		return err
	}
	defer solver.Close()

	sess, err := solver.Session(ctx, args[0])
	if errors.Is(err, internalerr.ErrNotFound) {
		return fmt.Errorf("session %s not found", args[0])
	}
	if err != nil {
		return err
	}
	printSession(cmd.OutOrStdout(), sess)
	return nil
}
