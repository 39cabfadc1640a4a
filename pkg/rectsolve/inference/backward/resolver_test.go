package backward

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cognicore/rectsolve/pkg/rectsolve/inference"
	"github.com/cognicore/rectsolve/pkg/rectsolve/internalerr"
	"github.com/cognicore/rectsolve/pkg/rectsolve/rect"
	"github.com/cognicore/rectsolve/pkg/rectsolve/trace"
)

const eps = 1e-6

func solve(t *testing.T, facts rect.Facts, targets ...rect.Target) inference.Result {
	t.Helper()
	r := New(nil, WithLogger(zaptest.NewLogger(t)))
	res, err := r.Solve(context.Background(), facts, targets)
	require.NoError(t, err)
	require.NotEmpty(t, res.Steps)
	assert.Equal(t, trace.InitLabel, res.Steps[0].Label)
	assert.Equal(t, trace.FinalLabel, res.Steps[len(res.Steps)-1].Label)
	return res
}

func single(t *testing.T, r rect.Rectangle, k rect.TraitKey) float64 {
	t.Helper()
	v, ok := r.Single(k)
	require.True(t, ok, "%v missing", k)
	return v
}

func TestRatioAndPerimeterToCirclePerimeter(t *testing.T) {
	facts := rect.NewFacts().
		With(rect.Perimeter, rect.Single(28)).
		With(rect.Ratio, rect.Pair(3, 4))

	res := solve(t, facts, rect.TargetCircumscribedCirclePerimeter)

	want := []string{
		"Init",
		"Found diagonal using sides",
		"Found circumscribed circle radius using diagonal",
		"Found circumscribed circle perimeter using its radius",
		"Final result",
	}
	if diff := cmp.Diff(want, trace.Labels(res.Steps)); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}

	seeded := res.Steps[0].Snapshot
	assert.InDelta(t, 6, seeded.Width.Value(), eps, "sides are seeded before Init")
	assert.InDelta(t, 8, seeded.Height.Value(), eps)

	final := res.Final
	assert.InDelta(t, 10, single(t, final, rect.Diagonal), eps)
	assert.InDelta(t, 5, single(t, final, rect.CircumscribedCircleRadius), eps)
	assert.InDelta(t, 31.4159, single(t, final, rect.CircumscribedCirclePerimeter), 1e-4)
	assert.True(t, res.Resolved())
	assert.NoError(t, res.Err())
	assert.Equal(t, "sides/perimeter-ratio", res.Fired[0])
}

func TestSideDistancesSeedInit(t *testing.T) {
	facts := rect.NewFacts().With(rect.SideDistances, rect.Pair(3, 4))

	res := solve(t, facts, rect.TargetArea)

	want := []string{"Init", "Found area using sides", "Final result"}
	if diff := cmp.Diff(want, trace.Labels(res.Steps)); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	first := res.Steps[0].Snapshot
	assert.InDelta(t, 6, first.Width.Value(), eps)
	assert.InDelta(t, 8, first.Height.Value(), eps)
	assert.InDelta(t, 48, single(t, res.Final, rect.Area), eps)
	assert.Equal(t, []string{"sides/side-distances", "area/sides"}, res.Fired)
}

func TestSideAndAreaToSides(t *testing.T) {
	facts := rect.NewFacts().With(rect.Area, rect.Single(50))
	facts.SideX = rect.Known(5)

	res := solve(t, facts, rect.Sides)

	assert.Equal(t, []string{"Init", "Found sides using side and area", "Final result"}, trace.Labels(res.Steps))
	assert.InDelta(t, 10, res.Final.Height.Value(), eps)
	assert.True(t, res.Resolved())
}

func TestEmptyFactsLeaveTraceUntouched(t *testing.T) {
	res := solve(t, rect.NewFacts(), rect.TargetArea)

	assert.Equal(t, []string{"Init", "Final result"}, trace.Labels(res.Steps))
	assert.False(t, res.Final.Width.Known())
	assert.False(t, res.Final.Height.Known())
	assert.False(t, res.Final.Has(rect.Area))

	require.Len(t, res.Unresolved, 1)
	u := res.Unresolved[0]
	assert.Equal(t, rect.TargetArea, u.Target)
	assert.Equal(t, inference.ReasonExhausted, u.Reason)
	assert.Equal(t, []rect.Target{rect.Sides, rect.TargetDiagonal}, u.Missing)
	assert.True(t, errors.Is(u, internalerr.ErrUnsatisfiable))
	assert.True(t, errors.Is(res.Err(), internalerr.ErrUnsatisfiable))
}

func TestEveryTargetTerminatesOnEmptyFacts(t *testing.T) {
	for _, target := range rect.AllTargets() {
		t.Run(target.String(), func(t *testing.T) {
			r := New(nil)
			res, err := r.Solve(context.Background(), rect.NewFacts(), []rect.Target{target})
			require.NoError(t, err)
			assert.Len(t, res.Steps, 2)
			require.Len(t, res.Unresolved, 1)
			assert.Equal(t, target, res.Unresolved[0].Target)
			assert.Equal(t, inference.ReasonExhausted, res.Unresolved[0].Reason)
		})
	}

	r := New(nil)
	res, err := r.Solve(context.Background(), rect.NewFacts(), rect.AllTargets())
	require.NoError(t, err)
	assert.Len(t, res.Unresolved, len(rect.AllTargets()))
}

func TestAlreadyKnownTarget(t *testing.T) {
	facts := rect.NewFacts().With(rect.Area, rect.Single(48))
	facts.SideX = rect.Known(6)
	facts.SideY = rect.Known(8)

	res := solve(t, facts, rect.TargetArea)
	assert.Equal(t, []string{"Init", "Area is already known", "Final result"}, trace.Labels(res.Steps))
	assert.Empty(t, res.Fired)
}

func TestSolveIsIdempotent(t *testing.T) {
	facts := rect.NewFacts().
		With(rect.Diagonal, rect.Single(10)).
		With(rect.Area, rect.Single(48))
	targets := []rect.Target{rect.TargetSideXDiagonalAngle, rect.TargetCircumscribedCircleArea}

	first := solve(t, facts, targets...)
	second := solve(t, facts, targets...)

	assert.Equal(t, trace.Labels(first.Steps), trace.Labels(second.Steps))
	a, err := json.Marshal(first.Steps)
	require.NoError(t, err)
	b, err := json.Marshal(second.Steps)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func TestAreaDiagonalToAngle(t *testing.T) {
	facts := rect.NewFacts().
		With(rect.Area, rect.Single(48)).
		With(rect.Diagonal, rect.Single(10))

	res := solve(t, facts, rect.TargetSideXDiagonalAngle)
	assert.Equal(t, []string{
		"Init",
		"Found sides using area and diagonal",
		"Found angle between diagonal and side",
		"Final result",
	}, trace.Labels(res.Steps))
	assert.InDelta(t, math.Asin(0.8)*180/math.Pi, single(t, res.Final, rect.SideXDiagonalAngle), eps)
}

func TestPrerequisiteChainThroughSides(t *testing.T) {
	facts := rect.NewFacts().
		With(rect.Perimeter, rect.Single(28)).
		With(rect.Area, rect.Single(48))

	res := solve(t, facts, rect.TargetDiagonal)
	assert.Equal(t, []string{
		"Init",
		"Found sides using perimeter and area",
		"Found diagonal using sides",
		"Final result",
	}, trace.Labels(res.Steps))
	assert.InDelta(t, 10, single(t, res.Final, rect.Diagonal), eps)
}

func TestImplicitSidesAfterTargets(t *testing.T) {
	facts := rect.NewFacts().With(rect.Area, rect.Single(50))
	facts.SideX = rect.Known(5)

	res := solve(t, facts, rect.TargetPerimeter)
	assert.Equal(t, []string{
		"Init",
		"Found perimeter using side and area",
		"Found sides using side and perimeter",
		"Final result",
	}, trace.Labels(res.Steps))
	assert.InDelta(t, 30, single(t, res.Final, rect.Perimeter), eps)
	assert.InDelta(t, 10, res.Final.Height.Value(), eps)
}

func TestSymmetry(t *testing.T) {
	facts := rect.NewFacts().With(rect.Perimeter, rect.Single(28))
	facts.SideX = rect.Known(6)
	area := single(t, solve(t, facts, rect.TargetArea).Final, rect.Area)
	assert.InDelta(t, 48, area, eps)

	facts = rect.NewFacts().With(rect.Area, rect.Single(area))
	facts.SideX = rect.Known(6)
	perimeter := single(t, solve(t, facts, rect.TargetPerimeter).Final, rect.Perimeter)
	assert.InDelta(t, 28, perimeter, eps)
}

func TestDuplicateTargetsAreIgnored(t *testing.T) {
	facts := rect.NewFacts()
	facts.SideX = rect.Known(6)
	facts.SideY = rect.Known(8)

	res := solve(t, facts, rect.TargetArea, rect.TargetArea)
	assert.Equal(t, []string{"Init", "Found area using sides", "Final result"}, trace.Labels(res.Steps))
}

func TestStepLimit(t *testing.T) {
	facts := rect.NewFacts().
		With(rect.Perimeter, rect.Single(28)).
		With(rect.Ratio, rect.Pair(3, 4))

	r := New(nil, WithMaxSteps(1))
	res, err := r.Solve(context.Background(), facts, []rect.Target{rect.TargetCircumscribedCirclePerimeter})
	require.NoError(t, err)
	require.Len(t, res.Unresolved, 1)
	assert.Equal(t, inference.ReasonStepLimit, res.Unresolved[0].Reason)
	assert.Equal(t, trace.FinalLabel, res.Steps[len(res.Steps)-1].Label)
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	facts := rect.NewFacts().With(rect.Area, rect.Single(48))
	facts.SideX = rect.Known(6)

	r := New(nil)
	res, err := r.Solve(ctx, facts, []rect.Target{rect.TargetDiagonal})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"Init", "Final result"}, trace.Labels(res.Steps))
	require.Len(t, res.Unresolved, 1)
	assert.Equal(t, inference.ReasonCanceled, res.Unresolved[0].Reason)
}
