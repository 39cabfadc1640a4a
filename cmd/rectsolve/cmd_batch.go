package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/cognicore/rectsolve/internal/tasks"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Solve every task in a JSONL file",
	Long: `Solve a file of tasks in parallel. Each line is a JSON object with
either "text" or "facts" and "targets":

  {"id": "a", "text": "the sides are 3 and 4. find the area"}
  {"id": "b", "facts": {"traits": {"Ratio": [3, 4], "Perimeter": 28}}, "targets": ["area"]}`,
	RunE: runBatch,
}

func init() {
	addBatchFlags(batchCmd.Flags())
	batchCmd.MarkFlagRequired("input")
}

func addBatchFlags(fs *pflag.FlagSet) {
	fs.StringP("input", "i", "", "JSONL task file (required)")
	fs.Bool("save", false, "Persist sessions in the configured store")
	fs.Bool("metrics", false, "Print solver metrics after the summary")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	fs := cmd.Flags()
	input, _ := fs.GetString("input")
	save, _ := fs.GetBool("save")
	showMetrics, _ := fs.GetBool("metrics")

	items, err := tasks.LoadFromJSONL(input, logger)
	if err != nil {
		return err
	}
	reqs := tasks.Requests(items, logger)
	logger.Info("tasks loaded", zap.Int("items", len(items)), zap.Int("requests", len(reqs)))

	solver, collector, err := newSolver(ctx, save)
	if err != nil {
		return err
	}
	defer solver.Close()

	results, err := solver.SolveBatch(ctx, reqs)
	if err != nil {
		return fmt.Errorf("batch: %w", err)
	}

	out := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TASK\tSTATUS\tSTEPS\tSESSION")
	var failed int
	for _, r := range results {
		status := "resolved"
		switch {
		case r.Err != nil:
			status = "error: " + r.Err.Error()
			failed++
		case !r.Session.Resolved():
			status = fmt.Sprintf("unresolved (%d)", len(r.Session.Unresolved))
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.Request.ID, status, len(r.Session.Steps), r.Session.ID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d tasks, %d failed\n", len(results), failed)

	if showMetrics {
		if collector == nil {
			logger.Warn("metrics disabled in config")
			return nil
		}
		fmt.Fprintln(out)
		return collector.WriteText(out)
	}
	return nil
}
