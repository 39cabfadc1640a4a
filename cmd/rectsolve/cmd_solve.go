package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/cognicore/rectsolve/pkg/rectsolve"
	"github.com/cognicore/rectsolve/pkg/rectsolve/store"
	"github.com/cognicore/rectsolve/pkg/rectsolve/trace"
)

var solveCmd = &cobra.Command{
	Use:   "solve [task text]",
	Short: "Solve a task given as text or as fact flags",
	Long: `Solve one rectangle task. With arguments, they are joined and read as
task text. Without, the facts come from flags and the quantities to derive
from --target.

Examples:
  rectsolve solve "a rectangle has sides 3 and 4. find the diagonal"
  rectsolve solve --ratio 3:4 --perimeter 28 --target area --target diagonal`,
	RunE: runSolve,
}

func init() {
	addSolveFlags(solveCmd.Flags())
}

func addSolveFlags(fs *pflag.FlagSet) {
	addFactFlags(fs)
	fs.Bool("html", false, "Treat the task text as HTML")
	fs.String("json", "", "Write the trace as JSON to this file")
	fs.Bool("save", false, "Persist the session in the configured store")
}

func runSolve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	fs := cmd.Flags()
	save, _ := fs.GetBool("save")

	solver, _, err := newSolver(ctx, save)
	if err != nil {
		return err
	}
	defer solver.Close()

	var sess store.Session
	if len(args) > 0 {
		text := strings.Join(args, " ")
		html, _ := fs.GetBool("html")
		if html {
			sess, err = solver.SolveRequest(ctx, rectsolve.Request{Text: text, HTML: true})
		} else {
			sess, err = solver.SolveText(ctx, text)
		}
	} else {
		facts, ferr := factsFromFlags(fs)
		if ferr != nil {
			return ferr
		}
		targets, terr := targetsFromFlags(fs)
		if terr != nil {
			return terr
		}
		sess, err = solver.Solve(ctx, facts, targets)
	}
	if err != nil {
		return err
	}

	if path, _ := fs.GetString("json"); path != "" {
		if err := trace.SaveJSON(path, sess.Steps); err != nil {
			return err
		}
		logger.Info("trace written", zap.String("path", path))
	}

	printSession(cmd.OutOrStdout(), sess)
	return nil
}

// printSession renders a session: header, trace, then what stayed unknown.
func printSession(w io.Writer, sess store.Session) {
	fmt.Fprintf(w, "Session %s\n", sess.ID)
	if sess.Task != "" {
		fmt.Fprintf(w, "Task: %s\n", sess.Task)
	}
	fmt.Fprintf(w, "Facts: %s\n", sess.Facts)
	fmt.Fprintf(w, "Targets: %s\n\n", strings.Join(store.TargetNames(sess.Targets), ", "))

	trace.Print(w, sess.Steps)

	if sess.Resolved() {
		fmt.Fprintln(w, "\nAll targets resolved.")
		return
	}
	fmt.Fprintln(w, "\nUnresolved:")
	for _, u := range sess.Unresolved {
		fmt.Fprintf(w, "  %s\n", u.Error())
	}
}
