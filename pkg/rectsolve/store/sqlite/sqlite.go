// Package sqlite persists solve sessions in a SQLite database: one row per
// session plus its trace steps and unresolved targets.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/rectsolve/pkg/rectsolve/inference"
	"github.com/cognicore/rectsolve/pkg/rectsolve/internalerr"
	"github.com/cognicore/rectsolve/pkg/rectsolve/rect"
	"github.com/cognicore/rectsolve/pkg/rectsolve/store"
	"github.com/cognicore/rectsolve/pkg/rectsolve/trace"
)

// timeLayout is fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}
	// A single connection serializes writers.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	task TEXT NOT NULL DEFAULT '',
	facts TEXT NOT NULL,
	targets TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions(created_at);

CREATE TABLE IF NOT EXISTS steps (
	session_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	label TEXT NOT NULL,
	snapshot TEXT NOT NULL,
	PRIMARY KEY(session_id, seq),
	FOREIGN KEY(session_id) REFERENCES sessions(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS unresolved (
	session_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	target TEXT NOT NULL,
	reason TEXT NOT NULL,
	missing TEXT NOT NULL,
	PRIMARY KEY(session_id, seq),
	FOREIGN KEY(session_id) REFERENCES sessions(id) ON DELETE CASCADE
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveSession stores a session with its trace and unresolved targets in
// one transaction.
func (s *sqliteStore) SaveSession(ctx context.Context, sess store.Session) error {
	if strings.TrimSpace(sess.ID) == "" {
		return fmt.Errorf("save session: %w: empty id", internalerr.ErrInvalidInput)
	}

	facts, err := json.Marshal(sess.Facts)
	if err != nil {
		return fmt.Errorf("encode facts: %w", err)
	}
	targets, err := json.Marshal(store.TargetNames(sess.Targets))
	if err != nil {
		return fmt.Errorf("encode targets: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id=?`, sess.ID).Scan(&exists)
	switch {
	case err == nil:
		return fmt.Errorf("save session %s: %w", sess.ID, internalerr.ErrDuplicate)
	case !errors.Is(err, sql.ErrNoRows):
		return err
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO sessions (id, task, facts, targets, created_at)
VALUES (?, ?, ?, ?, ?);
`, sess.ID, sess.Task, string(facts), string(targets), sess.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return err
	}

	if err := insertSteps(ctx, tx, sess.ID, sess.Steps); err != nil {
		return err
	}
	if err := insertUnresolved(ctx, tx, sess.ID, sess.Unresolved); err != nil {
		return err
	}

	return tx.Commit()
}

func insertSteps(ctx context.Context, tx *sql.Tx, id string, steps []trace.Step) error {
	if len(steps) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO steps (session_id, seq, label, snapshot) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, st := range steps {
		snap, err := json.Marshal(st.Snapshot)
		if err != nil {
			return fmt.Errorf("encode step %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, id, i, st.Label, string(snap)); err != nil {
			return err
		}
	}
	return nil
}

func insertUnresolved(ctx context.Context, tx *sql.Tx, id string, unresolved []inference.Unsatisfiable) error {
	if len(unresolved) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO unresolved (session_id, seq, target, reason, missing) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, u := range unresolved {
		missing, err := json.Marshal(store.TargetNames(u.Missing))
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, id, i, u.Target.String(), u.Reason, string(missing)); err != nil {
			return err
		}
	}
	return nil
}

// GetSession loads one session with its trace.
func (s *sqliteStore) GetSession(ctx context.Context, id string) (store.Session, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, task, facts, targets, created_at
FROM sessions
WHERE id = ?;
`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Session{}, fmt.Errorf("session %s: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Session{}, err
	}
	if err := s.loadDetails(ctx, &sess); err != nil {
		return store.Session{}, err
	}
	return sess, nil
}

// ListSessions returns the newest sessions first.
func (s *sqliteStore) ListSessions(ctx context.Context, limit int) ([]store.Session, error) {
	query := `SELECT id, task, facts, targets, created_at FROM sessions ORDER BY created_at DESC, id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	var out []store.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, sess)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range out {
		if err := s.loadDetails(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row scanner) (store.Session, error) {
	var (
		sess           store.Session
		facts, targets string
		created        string
	)
	if err := row.Scan(&sess.ID, &sess.Task, &facts, &targets, &created); err != nil {
		return store.Session{}, err
	}
	if err := json.Unmarshal([]byte(facts), &sess.Facts); err != nil {
		return store.Session{}, fmt.Errorf("decode facts of %s: %w", sess.ID, err)
	}
	var names []string
	if err := json.Unmarshal([]byte(targets), &names); err != nil {
		return store.Session{}, fmt.Errorf("decode targets of %s: %w", sess.ID, err)
	}
	parsed, err := store.ParseTargets(names)
	if err != nil {
		return store.Session{}, fmt.Errorf("decode targets of %s: %w", sess.ID, err)
	}
	sess.Targets = parsed
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return store.Session{}, fmt.Errorf("decode created_at of %s: %w", sess.ID, err)
	}
	sess.CreatedAt = t
	return sess, nil
}

func (s *sqliteStore) loadDetails(ctx context.Context, sess *store.Session) error {
	steps, err := s.loadSteps(ctx, sess.ID)
	if err != nil {
		return err
	}
	sess.Steps = steps

	unresolved, err := s.loadUnresolved(ctx, sess.ID)
	if err != nil {
		return err
	}
	sess.Unresolved = unresolved
	return nil
}

func (s *sqliteStore) loadSteps(ctx context.Context, id string) ([]trace.Step, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT label, snapshot FROM steps WHERE session_id=? ORDER BY seq`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var steps []trace.Step
	for rows.Next() {
		var label, snap string
		if err := rows.Scan(&label, &snap); err != nil {
			return nil, err
		}
		st := trace.Step{Label: label}
		if err := json.Unmarshal([]byte(snap), &st.Snapshot); err != nil {
			return nil, fmt.Errorf("decode step of %s: %w", id, err)
		}
		steps = append(steps, st)
	}
	return steps, rows.Err()
}

func (s *sqliteStore) loadUnresolved(ctx context.Context, id string) ([]inference.Unsatisfiable, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT target, reason, missing FROM unresolved WHERE session_id=? ORDER BY seq`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []inference.Unsatisfiable
	for rows.Next() {
		var target, reason, missing string
		if err := rows.Scan(&target, &reason, &missing); err != nil {
			return nil, err
		}
		t, err := rect.ParseTarget(target)
		if err != nil {
			return nil, err
		}
		var names []string
		if err := json.Unmarshal([]byte(missing), &names); err != nil {
			return nil, err
		}
		m, err := store.ParseTargets(names)
		if err != nil {
			return nil, err
		}
		out = append(out, inference.Unsatisfiable{Target: t, Reason: reason, Missing: m})
	}
	return out, rows.Err()
}
