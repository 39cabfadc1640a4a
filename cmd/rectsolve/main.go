// Package main implements the rectsolve command line.
//
// Usage:
//
//	rectsolve solve "the perimeter of a rectangle is 20 ..."   # solve task text
//	rectsolve solve --side-x 3 --side-y 4 --target area         # solve typed facts
//	rectsolve batch --input tasks.jsonl                         # solve a task file
//	rectsolve explain --ratio 3:4 --target area                 # what the facts can reach
//	rectsolve sessions list                                     # stored sessions
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/rectsolve/pkg/rectsolve"
	"github.com/cognicore/rectsolve/pkg/rectsolve/config"
	"github.com/cognicore/rectsolve/pkg/rectsolve/metrics"
	"github.com/cognicore/rectsolve/pkg/rectsolve/store"
	"github.com/cognicore/rectsolve/pkg/rectsolve/store/memstore"
	"github.com/cognicore/rectsolve/pkg/rectsolve/store/sqlite"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Loaded in PersistentPreRunE
	components *config.Components
	logger     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "rectsolve",
	Short: "Derive rectangle properties from partial facts",
	Long: `rectsolve reads a rectangle task, either as English or Ukrainian text
or as typed facts, and derives the requested quantities with a traced
backward-chaining solver.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loader := config.Loader{ConfigPath: configPath}
		comps, err := loader.Load()
		if err != nil {
			return err
		}
		components = comps

		logger, err = comps.Config.Logging.Logger(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a rectsolve.yaml config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(solveCmd, batchCmd, explainCmd, sessionsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore opens the store named by the config.
func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.OpenSQLite(ctx, cfg.Path)
	default:
		return memstore.New(), nil
	}
}

// newSolver builds a facade from the loaded components. With persist the
// configured store is attached; otherwise sessions are not kept.
func newSolver(ctx context.Context, persist bool) (*rectsolve.Solver, *metrics.Collector, error) {
	cfg := components.Config
	opts := rectsolve.Options{
		Pipeline:    components.Pipeline,
		Logger:      logger,
		MaxSteps:    cfg.Solver.MaxSteps,
		Parallelism: cfg.Solver.Parallelism,
	}
	if persist {
		st, err := openStore(ctx, cfg.Store)
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		opts.Store = st
	}
	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Metrics.Namespace, nil)
		opts.Metrics = collector
	}
	return rectsolve.New(opts), collector, nil
}
