package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/cognicore/rectsolve/pkg/rectsolve/inference"
	"github.com/cognicore/rectsolve/pkg/rectsolve/internalerr"
	"github.com/cognicore/rectsolve/pkg/rectsolve/rect"
	"github.com/cognicore/rectsolve/pkg/rectsolve/store"
	"github.com/cognicore/rectsolve/pkg/rectsolve/trace"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]store.Session
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{sessions: make(map[string]store.Session)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveSession implements store.Store.
func (s *Store) SaveSession(ctx context.Context, sess store.Session) error {
	if strings.TrimSpace(sess.ID) == "" {
		return fmt.Errorf("save session: %w: empty id", internalerr.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sess.ID]; ok {
		return fmt.Errorf("save session %s: %w", sess.ID, internalerr.ErrDuplicate)
	}
	s.sessions[sess.ID] = copySession(sess)
	return nil
}

// GetSession implements store.Store.
func (s *Store) GetSession(ctx context.Context, id string) (store.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return store.Session{}, fmt.Errorf("session %s: %w", id, internalerr.ErrNotFound)
	}
	return copySession(sess), nil
}

// ListSessions implements store.Store.
func (s *Store) ListSessions(ctx context.Context, limit int) ([]store.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i] = copySession(out[i])
	}
	return out, nil
}

func copySession(s store.Session) store.Session {
	out := s
	out.Facts = rect.Facts{SideX: s.Facts.SideX, SideY: s.Facts.SideY}
	if s.Facts.Traits != nil {
		out.Facts.Traits = make(map[rect.TraitKey]rect.TraitValue, len(s.Facts.Traits))
		for k, v := range s.Facts.Traits {
			out.Facts.Traits[k] = v
		}
	}
	out.Targets = append([]rect.Target(nil), s.Targets...)
	out.Steps = make([]trace.Step, len(s.Steps))
	for i, st := range s.Steps {
		out.Steps[i] = trace.Step{Label: st.Label, Snapshot: st.Snapshot.Clone()}
	}
	out.Unresolved = make([]inference.Unsatisfiable, len(s.Unresolved))
	for i, u := range s.Unresolved {
		u.Missing = append([]rect.Target(nil), u.Missing...)
		out.Unresolved[i] = u
	}
	return out
}
