// Package rectsolve derives rectangle properties from partial facts and
// records how each value was found.
package rectsolve

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/rectsolve/pkg/rectsolve/feasibility"
	"github.com/cognicore/rectsolve/pkg/rectsolve/inference"
	"github.com/cognicore/rectsolve/pkg/rectsolve/inference/backward"
	"github.com/cognicore/rectsolve/pkg/rectsolve/ingest"
	"github.com/cognicore/rectsolve/pkg/rectsolve/internalerr"
	"github.com/cognicore/rectsolve/pkg/rectsolve/metrics"
	"github.com/cognicore/rectsolve/pkg/rectsolve/rect"
	"github.com/cognicore/rectsolve/pkg/rectsolve/rules"
	"github.com/cognicore/rectsolve/pkg/rectsolve/store"
)

// DefaultParallelism bounds SolveBatch when Options.Parallelism is unset.
const DefaultParallelism = 4

// Solver is the rectsolve facade
type Solver struct {
	store       store.Store
	pipeline    *ingest.Pipeline
	engine      inference.Engine
	analyzer    *feasibility.Analyzer
	metrics     *metrics.Collector
	logger      *zap.Logger
	parallelism int

	idMu    sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Options configures a Solver. Every field is optional: a nil Store keeps
// sessions in memory only for the duration of the call.
type Options struct {
	Store       store.Store
	Pipeline    *ingest.Pipeline
	Catalog     *rules.Catalog
	Metrics     *metrics.Collector
	Logger      *zap.Logger
	MaxSteps    int
	Parallelism int
}

// New creates a Solver with the given dependencies
func New(opts Options) *Solver {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	catalog := opts.Catalog
	if catalog == nil {
		catalog = rules.Default()
	}
	pipeline := opts.Pipeline
	if pipeline == nil {
		pipeline = ingest.DefaultPipeline()
	}
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = DefaultParallelism
	}

	return &Solver{
		store:       opts.Store,
		pipeline:    pipeline,
		engine:      backward.New(catalog, backward.WithLogger(logger), backward.WithMaxSteps(opts.MaxSteps)),
		analyzer:    feasibility.NewAnalyzer(catalog),
		metrics:     opts.Metrics,
		logger:      logger,
		parallelism: parallelism,
		entropy:     ulid.Monotonic(rand.Reader, 0),
	}
}

// Close cleanly shuts down the solver
func (s *Solver) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

// Request is one unit of work: either task text or typed facts and targets.
type Request struct {
	ID      string // caller's reference, echoed in BatchResult
	Text    string
	HTML    bool
	Facts   rect.Facts
	Targets []rect.Target
}

// Solve derives targets from facts, persists the session when a store is
// configured and returns it. Underivable targets are listed in
// Session.Unresolved and are not an error.
func (s *Solver) Solve(ctx context.Context, facts rect.Facts, targets []rect.Target) (store.Session, error) {
	return s.solve(ctx, "", facts, targets)
}

// SolveText extracts facts and targets from a task statement and solves it.
func (s *Solver) SolveText(ctx context.Context, text string) (store.Session, error) {
	task := s.pipeline.Process(text)
	return s.solve(ctx, text, task.Facts, task.Targets)
}

// SolveRequest dispatches on the request kind.
func (s *Solver) SolveRequest(ctx context.Context, req Request) (store.Session, error) {
	switch {
	case req.Text != "" && req.HTML:
		task := s.pipeline.ProcessHTML(req.Text)
		return s.solve(ctx, req.Text, task.Facts, task.Targets)
	case req.Text != "":
		return s.SolveText(ctx, req.Text)
	default:
		return s.Solve(ctx, req.Facts, req.Targets)
	}
}

func (s *Solver) solve(ctx context.Context, text string, facts rect.Facts, targets []rect.Target) (store.Session, error) {
	if len(targets) == 0 {
		return store.Session{}, internalerr.ErrNoTargets
	}
	for _, t := range targets {
		if !t.Valid() {
			return store.Session{}, fmt.Errorf("%w: unknown target %d", internalerr.ErrInvalidInput, int(t))
		}
	}

	start := time.Now()
	res, err := s.engine.Solve(ctx, facts, targets)
	s.record(res, err, time.Since(start))
	if err != nil {
		return store.Session{}, fmt.Errorf("solve: %w", err)
	}

	sess := store.Session{
		ID:         s.newID(start),
		Task:       text,
		Facts:      facts,
		Targets:    append([]rect.Target(nil), targets...),
		Steps:      res.Steps,
		Unresolved: res.Unresolved,
		CreatedAt:  start,
	}
	if s.store != nil {
		if err := s.store.SaveSession(ctx, sess); err != nil {
			return sess, fmt.Errorf("save session: %w", err)
		}
	}

	s.logger.Debug("session solved",
		zap.String("id", sess.ID),
		zap.Int("steps", len(sess.Steps)),
		zap.Bool("resolved", sess.Resolved()),
	)
	return sess, nil
}

func (s *Solver) record(res inference.Result, err error, d time.Duration) {
	if s.metrics == nil {
		return
	}
	outcome := metrics.OutcomeResolved
	switch {
	case err != nil:
		outcome = metrics.OutcomeCanceled
	case !res.Resolved():
		outcome = metrics.OutcomeUnresolved
	}
	unresolved := make([]rect.Target, len(res.Unresolved))
	for i, u := range res.Unresolved {
		unresolved[i] = u.Target
	}
	s.metrics.RecordSolve(outcome, res.Fired, unresolved, d)
}

func (s *Solver) newID(t time.Time) string {
	s.idMu.Lock()
	defer s.idMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), s.entropy).String()
}

// BatchResult pairs a request with its outcome.
type BatchResult struct {
	Request Request
	Session store.Session
	Err     error
}

// SolveBatch solves independent requests in parallel, at most
// Options.Parallelism at a time. Results keep the request order. A failing
// request does not stop the others; the returned error is non-nil only when
// ctx ends the batch.
func (s *Solver) SolveBatch(ctx context.Context, reqs []Request) ([]BatchResult, error) {
	results := make([]BatchResult, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i, req := range reqs {
		results[i].Request = req
		if gctx.Err() != nil {
			results[i].Err = gctx.Err()
			continue
		}
		g.Go(func() error {
			sess, err := s.SolveRequest(gctx, req)
			results[i].Session = sess
			results[i].Err = err
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

// Explain reports which quantities are derivable from facts without
// solving. Targets the catalog cannot reach are logged.
func (s *Solver) Explain(facts rect.Facts, targets []rect.Target) (feasibility.Report, error) {
	report, err := s.analyzer.Analyze(facts.Rectangle())
	if err != nil {
		return feasibility.Report{}, fmt.Errorf("feasibility: %w", err)
	}
	if missing := report.Unreachable(targets); len(missing) > 0 {
		s.logger.Debug("targets unreachable from facts",
			zap.Stringers("targets", missing),
			zap.Strings("known", report.Known),
		)
	}
	return report, nil
}

// Session returns a stored session.
func (s *Solver) Session(ctx context.Context, id string) (store.Session, error) {
	if s.store == nil {
		return store.Session{}, internalerr.ErrStoreUnavailable
	}
	return s.store.GetSession(ctx, id)
}

// Sessions lists stored sessions, newest first.
func (s *Solver) Sessions(ctx context.Context, limit int) ([]store.Session, error) {
	if s.store == nil {
		return nil, internalerr.ErrStoreUnavailable
	}
	return s.store.ListSessions(ctx, limit)
}
