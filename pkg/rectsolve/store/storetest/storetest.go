// Package storetest holds behaviour checks shared by store implementations.
package storetest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/rectsolve/pkg/rectsolve/inference"
	"github.com/cognicore/rectsolve/pkg/rectsolve/internalerr"
	"github.com/cognicore/rectsolve/pkg/rectsolve/rect"
	"github.com/cognicore/rectsolve/pkg/rectsolve/store"
	"github.com/cognicore/rectsolve/pkg/rectsolve/trace"
)

// Session builds a small solved session for id created at ts.
func Session(id string, ts time.Time) store.Session {
	facts := rect.NewFacts().
		With(rect.Perimeter, rect.Single(28)).
		With(rect.Ratio, rect.Pair(3, 4))

	rec := trace.NewRecorder()
	r := facts.Rectangle()
	rec.Append(trace.InitLabel, r)
	r.SetWidth(6)
	r.SetHeight(8)
	rec.Append("Found sides using perimeter and ratio", r)
	rec.Append(trace.FinalLabel, r)

	return store.Session{
		ID:      id,
		Task:    "perimeter 28, ratio 3:4",
		Facts:   facts,
		Targets: []rect.Target{rect.Sides, rect.TargetSideXDiagonalAngle},
		Steps:   rec.Steps(),
		Unresolved: []inference.Unsatisfiable{{
			Target:  rect.TargetSideXDiagonalAngle,
			Reason:  inference.ReasonExhausted,
			Missing: []rect.Target{rect.TargetDiagonal},
		}},
		CreatedAt: ts,
	}
}

// Run exercises a fresh store from open.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Run("RoundTrip", func(t *testing.T) { testRoundTrip(t, open(t)) })
	t.Run("NotFound", func(t *testing.T) { testNotFound(t, open(t)) })
	t.Run("Duplicate", func(t *testing.T) { testDuplicate(t, open(t)) })
	t.Run("EmptyID", func(t *testing.T) { testEmptyID(t, open(t)) })
	t.Run("ListOrder", func(t *testing.T) { testListOrder(t, open(t)) })
	t.Run("Concurrent", func(t *testing.T) { testConcurrent(t, open(t)) })
}

func testRoundTrip(t *testing.T, st store.Store) {
	ctx := context.Background()
	want := Session("01HZX", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, st.SaveSession(ctx, want))

	got, err := st.GetSession(ctx, want.ID)
	require.NoError(t, err)

	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Task, got.Task)
	assert.Equal(t, want.Targets, got.Targets)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "created_at %v != %v", got.CreatedAt, want.CreatedAt)
	assert.JSONEq(t, mustJSON(t, want.Facts), mustJSON(t, got.Facts))
	assert.JSONEq(t, mustJSON(t, want.Steps), mustJSON(t, got.Steps))
	assert.Equal(t, want.Unresolved, got.Unresolved)

	final, ok := got.Final()
	require.True(t, ok)
	assert.Equal(t, rect.Known(6), final.Width)
	assert.False(t, got.Resolved())
}

func testNotFound(t *testing.T, st store.Store) {
	_, err := st.GetSession(context.Background(), "missing")
	assert.True(t, errors.Is(err, internalerr.ErrNotFound), "got %v", err)
}

func testDuplicate(t *testing.T, st store.Store) {
	ctx := context.Background()
	sess := Session("dup", time.Now())
	require.NoError(t, st.SaveSession(ctx, sess))

	err := st.SaveSession(ctx, sess)
	assert.True(t, errors.Is(err, internalerr.ErrDuplicate), "got %v", err)
}

func testEmptyID(t *testing.T, st store.Store) {
	err := st.SaveSession(context.Background(), Session(" ", time.Now()))
	assert.True(t, errors.Is(err, internalerr.ErrInvalidInput), "got %v", err)
}

func testListOrder(t *testing.T, st store.Store) {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("s%d", i)
		require.NoError(t, st.SaveSession(ctx, Session(id, base.Add(time.Duration(i)*time.Millisecond))))
	}

	all, err := st.ListSessions(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "s4", all[0].ID)
	assert.Equal(t, "s0", all[4].ID)
	assert.Len(t, all[0].Steps, 3)

	top, err := st.ListSessions(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, []string{"s4", "s3"}, []string{top[0].ID, top[1].ID})
}

func testConcurrent(t *testing.T, st store.Store) {
	ctx := context.Background()
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- st.SaveSession(ctx, Session(fmt.Sprintf("c%d", i), time.Now()))
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	all, err := st.ListSessions(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 8)
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}
