package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/rectsolve/pkg/rectsolve/store"
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Show which quantities the given facts can reach",
	Long: `Run the feasibility analysis on the given facts without solving.
With --target, each requested quantity is marked reachable or not.`,
	RunE: runExplain,
}

func init() {
	addFactFlags(explainCmd.Flags())
}

func runExplain(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	fs := cmd.Flags()

	facts, err := factsFromFlags(fs)
	if err != nil {
		return err
	}
	targets, err := targetsFromFlags(fs)
	if err != nil {
		return err
	}

	solver, _, err := newSolver(ctx, false)
	if err != nil {
		return err
	}
	defer solver.Close()

	report, err := solver.Explain(facts, targets)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Known: %s\n", strings.Join(report.Known, ", "))
	fmt.Fprintf(out, "Reachable: %s\n", strings.Join(store.TargetNames(report.Reachable()), ", "))
	for _, t := range targets {
		mark := "yes"
		if !report.CanDerive(t) {
			mark = "no"
		}
		fmt.Fprintf(out, "  %s: %s\n", t, mark)
	}
	return nil
}
