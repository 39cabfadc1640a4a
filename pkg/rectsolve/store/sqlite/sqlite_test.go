package sqlite

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cognicore/rectsolve/pkg/rectsolve/store"
	"github.com/cognicore/rectsolve/pkg/rectsolve/store/storetest"
)

func openTemp(t *testing.T) store.Store {
	t.Helper()
	st, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSQLiteStore(t *testing.T) {
	storetest.Run(t, openTemp)
}

func TestSQLiteReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "reopen.db")

	st, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := st.SaveSession(ctx, storetest.Session("kept", time.Now())); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	st, err = OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st.Close()

	sess, err := st.GetSession(ctx, "kept")
	if err != nil {
		t.Fatalf("GetSession after reopen: %v", err)
	}
	if len(sess.Steps) != 3 || len(sess.Unresolved) != 1 {
		t.Errorf("trace not persisted: %d steps, %d unresolved", len(sess.Steps), len(sess.Unresolved))
	}
}

func TestSQLiteRejectsMalformedTimestamp(t *testing.T) {
	ctx := context.Background()
	st := openTemp(t)
	if err := st.SaveSession(ctx, storetest.Session("broken", time.Now())); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	db := st.(*sqliteStore).db
	if _, err := db.ExecContext(ctx, `UPDATE sessions SET created_at = 'yesterday' WHERE id = ?`, "broken"); err != nil {
		t.Fatalf("corrupt created_at: %v", err)
	}

	_, err := st.GetSession(ctx, "broken")
	if err == nil || !strings.Contains(err.Error(), "created_at") {
		t.Errorf("GetSession error = %v, want created_at decode error", err)
	}
	if _, err := st.ListSessions(ctx, 0); err == nil {
		t.Error("ListSessions should fail on a malformed created_at")
	}
}
