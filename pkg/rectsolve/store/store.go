package store

import (
	"context"
	"time"

	"github.com/cognicore/rectsolve/pkg/rectsolve/inference"
	"github.com/cognicore/rectsolve/pkg/rectsolve/rect"
	"github.com/cognicore/rectsolve/pkg/rectsolve/trace"
)

// Store persists solve sessions.
type Store interface {
	Close() error

	// SaveSession stores a new session. IDs are unique; saving an existing
	// ID returns internalerr.ErrDuplicate.
	SaveSession(ctx context.Context, s Session) error
	// GetSession returns internalerr.ErrNotFound for unknown IDs.
	GetSession(ctx context.Context, id string) (Session, error)
	// ListSessions returns the newest sessions first. limit <= 0 means all.
	ListSessions(ctx context.Context, limit int) ([]Session, error)
}

// Session is one recorded solve.
type Session struct {
	ID         string
	Task       string // source text, empty for typed requests
	Facts      rect.Facts
	Targets    []rect.Target
	Steps      []trace.Step
	Unresolved []inference.Unsatisfiable
	CreatedAt  time.Time
}

// Final returns the last snapshot of the trace.
func (s Session) Final() (rect.Rectangle, bool) {
	if len(s.Steps) == 0 {
		return rect.Rectangle{}, false
	}
	return s.Steps[len(s.Steps)-1].Snapshot, true
}

// Resolved reports whether every requested target was derived.
func (s Session) Resolved() bool { return len(s.Unresolved) == 0 }

// TargetNames renders targets for storage.
func TargetNames(targets []rect.Target) []string {
	out := make([]string, len(targets))
	for i, t := range targets {
		out[i] = t.String()
	}
	return out
}

// ParseTargets reverses TargetNames.
func ParseTargets(names []string) ([]rect.Target, error) {
	out := make([]rect.Target, 0, len(names))
	for _, n := range names {
		t, err := rect.ParseTarget(n)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
