package inference

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cognicore/rectsolve/pkg/rectsolve/internalerr"
	"github.com/cognicore/rectsolve/pkg/rectsolve/rect"
	"github.com/cognicore/rectsolve/pkg/rectsolve/trace"
)

// Engine derives requested targets from a fact set.
// The returned error is non-nil only when ctx ends the solve early; a
// target that cannot be derived is reported in Result.Unresolved.
type Engine interface {
	Solve(ctx context.Context, facts rect.Facts, targets []rect.Target) (Result, error)
}

// Reasons attached to Unsatisfiable.
const (
	ReasonExhausted = "no applicable rule and no derivable prerequisite"
	ReasonStepLimit = "step limit reached"
	ReasonCanceled  = "solve canceled"
)

// Unsatisfiable describes a requested target left underived.
type Unsatisfiable struct {
	Target  rect.Target
	Reason  string
	Missing []rect.Target // prerequisites that were still unknown at the end
}

func (u Unsatisfiable) Error() string {
	if len(u.Missing) == 0 {
		return fmt.Sprintf("%s: %s", u.Target, u.Reason)
	}
	names := make([]string, len(u.Missing))
	for i, m := range u.Missing {
		names[i] = m.String()
	}
	return fmt.Sprintf("%s: %s (missing %s)", u.Target, u.Reason, strings.Join(names, ", "))
}

// Is makes errors.Is(u, internalerr.ErrUnsatisfiable) hold.
func (u Unsatisfiable) Is(target error) bool {
	return target == internalerr.ErrUnsatisfiable
}

// Result is the outcome of one solve session.
type Result struct {
	Steps      []trace.Step
	Final      rect.Rectangle
	Unresolved []Unsatisfiable
	Fired      []string // rule names in firing order, including the pre-pass
}

// Resolved reports whether every requested target was derived.
func (r Result) Resolved() bool { return len(r.Unresolved) == 0 }

// Err joins the unresolved targets into one error, or returns nil.
func (r Result) Err() error {
	if len(r.Unresolved) == 0 {
		return nil
	}
	errs := make([]error, len(r.Unresolved))
	for i, u := range r.Unresolved {
		errs[i] = u
	}
	return errors.Join(errs...)
}
