// Package backward implements goal-directed rule chaining over a goal stack.
//
// A goal that has no applicable rule pushes its first pushable prerequisite.
// A prerequisite is pushable when it is unknown, not already on the stack and
// has not failed since the last new fact. Every fired rule adds at least one
// quantity, so the number of fact generations is bounded by the trait set and
// the loop always terminates. A step limit guards against custom catalogs.
package backward

import (
	"context"

	"go.uber.org/zap"

	"github.com/cognicore/rectsolve/pkg/rectsolve/inference"
	"github.com/cognicore/rectsolve/pkg/rectsolve/rect"
	"github.com/cognicore/rectsolve/pkg/rectsolve/rules"
	"github.com/cognicore/rectsolve/pkg/rectsolve/trace"
)

// DefaultMaxSteps bounds loop iterations per solve.
const DefaultMaxSteps = 512

// Resolver is the backward-chaining engine.
type Resolver struct {
	catalog  *rules.Catalog
	logger   *zap.Logger
	maxSteps int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMaxSteps overrides DefaultMaxSteps. Non-positive values are ignored.
func WithMaxSteps(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxSteps = n
		}
	}
}

// New creates a resolver over catalog. A nil catalog selects rules.Default.
func New(catalog *rules.Catalog, opts ...Option) *Resolver {
	if catalog == nil {
		catalog = rules.Default()
	}
	r := &Resolver{
		catalog:  catalog,
		logger:   zap.NewNop(),
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ inference.Engine = (*Resolver)(nil)

// Solve runs one session. Targets are resolved in order; duplicates are
// ignored. The trace always starts with "Init" and ends with "Final result".
func (r *Resolver) Solve(ctx context.Context, facts rect.Facts, targets []rect.Target) (inference.Result, error) {
	s := &session{
		Resolver:  r,
		ctx:       ctx,
		rect:      facts.Rectangle(),
		rec:       trace.NewRecorder(),
		failed:    make(map[rect.Target]int),
		requested: make(map[rect.Target]bool),
		fired:     make(map[rect.Target]bool),
	}

	if ru, ok := r.catalog.Seed(s.rect); ok {
		s.generation++
		s.firedRules = append(s.firedRules, ru.Name)
		r.logger.Debug("pre-pass", zap.String("rule", ru.Name))
	}
	s.rec.Append(trace.InitLabel, s.rect)

	var ordered []rect.Target
	for _, t := range targets {
		if !t.Valid() || s.requested[t] {
			continue
		}
		s.requested[t] = true
		ordered = append(ordered, t)
	}

	err := s.run(ordered)
	if err == nil && !s.rect.HasSides() && !s.exhausted() {
		if g, failed := s.failed[rect.Sides]; !failed || g != s.generation {
			err = s.resolve(rect.Sides)
		}
	}

	s.rec.Append(trace.FinalLabel, s.rect)
	res := inference.Result{
		Steps:      s.rec.Steps(),
		Final:      s.rect.Clone(),
		Unresolved: s.unresolved(ordered, err),
		Fired:      s.firedRules,
	}

	r.logger.Info("solve finished",
		zap.Int("targets", len(ordered)),
		zap.Int("fired", len(s.firedRules)),
		zap.Int("unresolved", len(res.Unresolved)),
		zap.Int("iterations", s.iterations),
	)
	return res, err
}

type session struct {
	*Resolver
	ctx context.Context

	rect       *rect.Rectangle
	rec        *trace.Recorder
	generation int
	iterations int

	failed     map[rect.Target]int // generation at which the goal was abandoned
	requested  map[rect.Target]bool
	fired      map[rect.Target]bool
	firedRules []string
}

// run resolves the requested targets one by one, then retries the ones that
// failed before a later target added new facts.
func (s *session) run(targets []rect.Target) error {
	for {
		progressed := false
		for _, t := range targets {
			if s.satisfied(t) && s.fired[t] {
				continue
			}
			if g, failed := s.failed[t]; failed && g == s.generation {
				continue
			}
			before := s.generation
			if err := s.resolve(t); err != nil {
				return err
			}
			if s.exhausted() {
				return nil
			}
			if s.generation != before {
				progressed = true
			}
		}
		if !progressed || !s.retryable(targets) {
			return nil
		}
	}
}

// retryable reports whether a requested target failed at an older generation.
func (s *session) retryable(targets []rect.Target) bool {
	for _, t := range targets {
		if s.satisfied(t) {
			continue
		}
		if g, failed := s.failed[t]; failed && g != s.generation {
			return true
		}
	}
	return false
}

// resolve drives the goal stack for one root goal until it is empty.
func (s *session) resolve(root rect.Target) error {
	stack := []rect.Target{root}
	for len(stack) > 0 {
		if err := s.ctx.Err(); err != nil {
			return err
		}
		if s.exhausted() {
			s.logger.Warn("step limit reached", zap.Int("max_steps", s.maxSteps), zap.String("goal", root.String()))
			for _, g := range stack {
				s.failed[g] = s.generation
			}
			return nil
		}
		s.iterations++

		goal := stack[len(stack)-1]
		if s.satisfied(goal) {
			stack = stack[:len(stack)-1]
			if goal == root && s.requested[goal] && !s.fired[goal] {
				s.rec.Append(goal.String()+" is already known", s.rect)
				s.fired[goal] = true
			}
			s.logger.Debug("goal satisfied", zap.String("goal", goal.String()), zap.Int("generation", s.generation))
			continue
		}

		if ru, ok := s.catalog.Apply(goal, s.rect); ok {
			s.generation++
			s.fired[goal] = true
			s.firedRules = append(s.firedRules, ru.Name)
			s.rec.Append(ru.Label, s.rect)
			stack = stack[:len(stack)-1]
			s.logger.Debug("rule fired",
				zap.String("goal", goal.String()),
				zap.String("rule", ru.Name),
				zap.Int("generation", s.generation),
			)
			continue
		}

		if next, ok := s.nextPrerequisite(goal, stack); ok {
			stack = append(stack, next)
			s.logger.Debug("goal blocked",
				zap.String("goal", goal.String()),
				zap.String("pushed", next.String()),
				zap.Int("generation", s.generation),
			)
			continue
		}

		stack = stack[:len(stack)-1]
		s.failed[goal] = s.generation
		s.logger.Debug("goal stuck", zap.String("goal", goal.String()), zap.Int("generation", s.generation))
	}
	return nil
}

func (s *session) nextPrerequisite(goal rect.Target, stack []rect.Target) (rect.Target, bool) {
	for _, p := range s.catalog.Prerequisites(goal) {
		if s.satisfied(p) || onStack(stack, p) {
			continue
		}
		if g, failed := s.failed[p]; failed && g == s.generation {
			continue
		}
		return p, true
	}
	return 0, false
}

func (s *session) satisfied(t rect.Target) bool {
	if t == rect.Sides {
		return s.rect.HasSides()
	}
	k, ok := t.Trait()
	return ok && s.rect.Has(k)
}

func (s *session) exhausted() bool { return s.iterations >= s.maxSteps }

func (s *session) unresolved(targets []rect.Target, err error) []inference.Unsatisfiable {
	var out []inference.Unsatisfiable
	for _, t := range targets {
		if s.satisfied(t) {
			continue
		}
		reason := inference.ReasonExhausted
		switch {
		case err != nil:
			reason = inference.ReasonCanceled
		case s.exhausted():
			reason = inference.ReasonStepLimit
		}
		var missing []rect.Target
		for _, p := range s.catalog.Prerequisites(t) {
			if !s.satisfied(p) {
				missing = append(missing, p)
			}
		}
		out = append(out, inference.Unsatisfiable{Target: t, Reason: reason, Missing: missing})
	}
	return out
}

func onStack(stack []rect.Target, t rect.Target) bool {
	for _, g := range stack {
		if g == t {
			return true
		}
	}
	return false
}
