package rules

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/rectsolve/pkg/rectsolve/rect"
)

const eps = 1e-6

func sides(w, h float64) *rect.Rectangle {
	r := rect.New()
	r.SetWidth(w)
	r.SetHeight(h)
	return r
}

func mustApply(t *testing.T, c *Catalog, name string, r *rect.Rectangle) {
	t.Helper()
	ru, ok := c.Lookup(name)
	require.True(t, ok, "rule %s missing", name)
	require.True(t, ru.Apply(r), "rule %s did not apply", name)
}

func TestDefaultCatalogIsConsistent(t *testing.T) {
	c := Default()
	require.NotEmpty(t, c.Rules())

	for _, target := range rect.AllTargets() {
		assert.NotEmpty(t, c.For(target), "no rule produces %v", target)
	}
	for _, ru := range c.Rules() {
		assert.NotEmpty(t, ru.Label, "rule %s has no label", ru.Name)
		assert.NotEmpty(t, ru.Needs, "rule %s declares no needs", ru.Name)
		assert.NotEmpty(t, ru.Yields, "rule %s declares no outputs", ru.Name)
	}
}

func TestNewRejectsBadCatalogs(t *testing.T) {
	ru := Rule{Name: "x", Target: rect.TargetArea}

	_, err := New([]Rule{ru, ru}, nil, nil)
	assert.Error(t, err, "duplicate names")

	_, err = New([]Rule{{Target: rect.TargetArea}}, nil, nil)
	assert.Error(t, err, "empty name")

	_, err = New([]Rule{{Name: "y"}}, nil, nil)
	assert.Error(t, err, "zero target")

	_, err = New([]Rule{ru}, nil, []string{"missing"})
	assert.Error(t, err, "unknown seed")
}

func TestForwardRulesFromSides(t *testing.T) {
	c := Default()
	r := sides(6, 8)

	for _, name := range []string{
		"perimeter/sides",
		"area/sides",
		"diagonal/sides",
		"side-distances/sides",
		"smaller-side/sides",
		"bigger-side/sides",
	} {
		mustApply(t, c, name, r)
	}

	p, _ := r.Single(rect.Perimeter)
	a, _ := r.Single(rect.Area)
	d, _ := r.Single(rect.Diagonal)
	small, _ := r.Single(rect.SmallerSide)
	big, _ := r.Single(rect.BiggerSide)
	d1, d2, ok := r.Pair(rect.SideDistances)

	assert.InDelta(t, 28, p, eps)
	assert.InDelta(t, 48, a, eps)
	assert.InDelta(t, 10, d, eps)
	assert.InDelta(t, 6, small, eps)
	assert.InDelta(t, 8, big, eps)
	require.True(t, ok)
	assert.InDelta(t, 3, d1, eps)
	assert.InDelta(t, 4, d2, eps)
}

func TestRuleRefusesMissingNeeds(t *testing.T) {
	c := Default()
	r := rect.New()
	r.SetWidth(6)

	ru, _ := c.Lookup("area/sides")
	assert.False(t, ru.Ready(r))
	assert.False(t, ru.Apply(r))
	assert.False(t, r.Has(rect.Area))
}

// Each side-based rule must reproduce the missing side of a 6x8 rectangle
// from either known side.
func TestSideRulesRoundTrip(t *testing.T) {
	c := Default()
	cases := []struct {
		name string
		key  rect.TraitKey
		val  float64
	}{
		{"sides/side-perimeter", rect.Perimeter, 28},
		{"sides/side-area", rect.Area, 48},
		{"sides/side-diagonal", rect.Diagonal, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name+"/width", func(t *testing.T) {
			r := rect.New()
			r.SetWidth(6)
			r.Set(tc.key, rect.Single(tc.val))
			mustApply(t, c, tc.name, r)
			assert.InDelta(t, 8, r.Height.Value(), eps)
		})
		t.Run(tc.name+"/height", func(t *testing.T) {
			r := rect.New()
			r.SetHeight(8)
			r.Set(tc.key, rect.Single(tc.val))
			mustApply(t, c, tc.name, r)
			assert.InDelta(t, 6, r.Width.Value(), eps)
		})
	}
}

func TestOneSideRulesForScalars(t *testing.T) {
	c := Default()
	cases := []struct {
		name   string
		given  rect.TraitKey
		gval   float64
		target rect.TraitKey
		want   float64
	}{
		{"perimeter/side-area", rect.Area, 48, rect.Perimeter, 28},
		{"perimeter/side-diagonal", rect.Diagonal, 10, rect.Perimeter, 28},
		{"area/side-perimeter", rect.Perimeter, 28, rect.Area, 48},
		{"area/side-diagonal", rect.Diagonal, 10, rect.Area, 48},
		{"diagonal/side-perimeter", rect.Perimeter, 28, rect.Diagonal, 10},
		{"diagonal/side-area", rect.Area, 48, rect.Diagonal, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := rect.New()
			r.SetWidth(6)
			r.Set(tc.given, rect.Single(tc.gval))
			mustApply(t, c, tc.name, r)
			got, ok := r.Single(tc.target)
			require.True(t, ok)
			assert.InDelta(t, tc.want, got, eps)
		})
	}
}

func TestTwoTraitSideRules(t *testing.T) {
	c := Default()

	r := rect.New()
	r.Set(rect.Perimeter, rect.Single(28))
	r.Set(rect.Area, rect.Single(48))
	mustApply(t, c, "sides/perimeter-area", r)
	assert.InDelta(t, 8, r.Width.Value(), eps)
	assert.InDelta(t, 6, r.Height.Value(), eps)

	r = rect.New()
	r.Set(rect.Area, rect.Single(48))
	r.Set(rect.Diagonal, rect.Single(10))
	mustApply(t, c, "sides/area-diagonal", r)
	assert.InDelta(t, 8, r.Width.Value(), eps)
	assert.InDelta(t, 6, r.Height.Value(), eps)

	r = rect.New()
	r.Set(rect.Diagonal, rect.Single(10))
	r.Set(rect.SmallerSide, rect.Single(6))
	mustApply(t, c, "sides/diagonal-smaller-side", r)
	assert.InDelta(t, 6, r.Width.Value(), eps)
	assert.InDelta(t, 8, r.Height.Value(), eps)

	r = rect.New()
	r.Set(rect.SideDistances, rect.Pair(3, 4))
	mustApply(t, c, "sides/side-distances", r)
	assert.InDelta(t, 6, r.Width.Value(), eps)
	assert.InDelta(t, 8, r.Height.Value(), eps)
}

func TestDegenerateInputsAreSkipped(t *testing.T) {
	c := Default()

	// P²/4 < 4A has no real sides.
	r := rect.New()
	r.Set(rect.Perimeter, rect.Single(4))
	r.Set(rect.Area, rect.Single(100))
	ru, _ := c.Lookup("sides/perimeter-area")
	assert.False(t, ru.Apply(r))
	assert.False(t, r.Width.Known())

	// Zero ratio component.
	r = rect.New()
	r.Set(rect.Perimeter, rect.Single(28))
	r.Set(rect.Ratio, rect.Pair(0, 4))
	ru, _ = c.Lookup("sides/perimeter-ratio")
	assert.False(t, ru.Apply(r))

	// Side longer than the diagonal.
	r = rect.New()
	r.SetWidth(12)
	r.Set(rect.Diagonal, rect.Single(10))
	ru, _ = c.Lookup("sides/side-diagonal")
	assert.False(t, ru.Apply(r))
	assert.False(t, r.Height.Known())

	// A pair where a scalar is expected.
	r = rect.New()
	r.Set(rect.Diagonal, rect.Pair(1, 2))
	ru, _ = c.Lookup("radius/diagonal")
	assert.False(t, ru.Apply(r))
}

func TestSeedPrefersPerimeterRatio(t *testing.T) {
	c := Default()
	r := rect.New()
	r.Set(rect.Perimeter, rect.Single(28))
	r.Set(rect.Diagonal, rect.Single(1000))
	r.Set(rect.Ratio, rect.Pair(3, 4))

	ru, ok := c.Seed(r)
	require.True(t, ok)
	assert.Equal(t, "sides/perimeter-ratio", ru.Name)
	assert.InDelta(t, 6, r.Width.Value(), eps)
	assert.InDelta(t, 8, r.Height.Value(), eps)
}

func TestSeedVariants(t *testing.T) {
	c := Default()
	cases := []struct {
		key rect.TraitKey
		val float64
	}{
		{rect.Diagonal, 10},
		{rect.SmallerSide, 6},
		{rect.BiggerSide, 8},
	}
	for _, tc := range cases {
		t.Run(tc.key.String(), func(t *testing.T) {
			r := rect.New()
			r.Set(tc.key, rect.Single(tc.val))
			r.Set(rect.Ratio, rect.Pair(3, 4))
			_, ok := c.Seed(r)
			require.True(t, ok)
			assert.InDelta(t, 6, r.Width.Value(), eps)
			assert.InDelta(t, 8, r.Height.Value(), eps)
		})
	}

	r := rect.New()
	r.SetHeight(8)
	r.Set(rect.Ratio, rect.Pair(3, 4))
	ru, ok := c.Seed(r)
	require.True(t, ok)
	assert.Equal(t, "sides/side-ratio", ru.Name)
	assert.InDelta(t, 6, r.Width.Value(), eps)
}

func TestSideRatioKeepsExtremeSideOnItsAxis(t *testing.T) {
	c := Default()
	cases := []struct {
		name  string
		key   rect.TraitKey
		side  float64
		ratio [2]float64
		other float64
	}{
		{"smaller side against 4:3", rect.SmallerSide, 6, [2]float64{4, 3}, 8},
		{"bigger side against 3:4", rect.BiggerSide, 8, [2]float64{3, 4}, 6},
		{"smaller side against 3:4", rect.SmallerSide, 6, [2]float64{3, 4}, 8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := rect.New()
			r.SetWidth(tc.side)
			r.Set(tc.key, rect.Single(tc.side))
			r.Set(rect.Ratio, rect.Pair(tc.ratio[0], tc.ratio[1]))

			ru, ok := c.Seed(r)
			require.True(t, ok)
			assert.Equal(t, "sides/side-ratio", ru.Name)
			assert.InDelta(t, tc.side, r.Width.Value(), eps)
			assert.InDelta(t, tc.other, r.Height.Value(), eps)
		})
	}
}

func TestSeedFromSideDistances(t *testing.T) {
	c := Default()
	r := rect.New()
	r.Set(rect.SideDistances, rect.Pair(3, 4))

	ru, ok := c.Seed(r)
	require.True(t, ok)
	assert.Equal(t, "sides/side-distances", ru.Name)
	assert.InDelta(t, 6, r.Width.Value(), eps)
	assert.InDelta(t, 8, r.Height.Value(), eps)

	_, ok = c.Seed(r)
	assert.False(t, ok, "known sides are never reseeded")
}

func TestSeedNeedsRatio(t *testing.T) {
	c := Default()
	r := rect.New()
	r.Set(rect.Perimeter, rect.Single(28))
	_, ok := c.Seed(r)
	assert.False(t, ok)
}

func TestCircleChain(t *testing.T) {
	c := Default()
	r := rect.New()
	r.Set(rect.CircumscribedCircleArea, rect.Single(25*math.Pi))

	mustApply(t, c, "radius/circle-area", r)
	mustApply(t, c, "diameter/radius", r)
	mustApply(t, c, "diagonal/circle-diameter", r)
	mustApply(t, c, "circle-perimeter/radius", r)

	radius, _ := r.Single(rect.CircumscribedCircleRadius)
	diam, _ := r.Single(rect.CircumscribedCircleDiameter)
	d, _ := r.Single(rect.Diagonal)
	circ, _ := r.Single(rect.CircumscribedCirclePerimeter)

	assert.InDelta(t, 5, radius, eps)
	assert.InDelta(t, 10, diam, eps)
	assert.InDelta(t, 10, d, eps)
	assert.InDelta(t, 10*math.Pi, circ, eps)
}

func TestAngles(t *testing.T) {
	c := Default()
	r := sides(6, 8)
	r.Set(rect.Diagonal, rect.Single(10))
	r.Set(rect.Area, rect.Single(48))

	mustApply(t, c, "side-x-angle/sides-diagonal", r)
	mustApply(t, c, "side-y-angle/sides-diagonal", r)
	mustApply(t, c, "diagonals-angle/diagonal-area", r)

	x, _ := r.Single(rect.SideXDiagonalAngle)
	y, _ := r.Single(rect.SideYDiagonalAngle)
	theta, _ := r.Single(rect.DiagonalDiagonalAngle)

	assert.InDelta(t, degrees(math.Asin(0.6)), x, eps)
	assert.InDelta(t, degrees(math.Asin(0.8)), y, eps)
	assert.InDelta(t, 90, x+y, eps)
	assert.InDelta(t, degrees(math.Atan2(0.96, 1)), theta, eps)
}

func TestDiagonalFromDiagonalsAngle(t *testing.T) {
	c := Default()

	r := rect.New()
	r.Set(rect.DiagonalDiagonalAngle, rect.Single(60))
	r.Set(rect.SmallerSide, rect.Single(5))
	mustApply(t, c, "diagonal/diagonals-angle-smaller-side", r)
	d, _ := r.Single(rect.Diagonal)
	assert.InDelta(t, 10, d, eps)

	r = rect.New()
	r.Set(rect.DiagonalDiagonalAngle, rect.Single(90))
	r.Set(rect.Area, rect.Single(8))
	mustApply(t, c, "diagonal/diagonals-angle-area", r)
	d, _ = r.Single(rect.Diagonal)
	assert.InDelta(t, 4, d, eps)
}

func TestCatalogApplyUsesFirstReadyRule(t *testing.T) {
	c := Default()
	r := rect.New()
	r.Set(rect.CircumscribedCircleDiameter, rect.Single(10))
	r.Set(rect.CircumscribedCircleRadius, rect.Single(7))

	ru, ok := c.Apply(rect.TargetDiagonal, r)
	require.True(t, ok)
	assert.Equal(t, "diagonal/circle-diameter", ru.Name)
	d, _ := r.Single(rect.Diagonal)
	assert.InDelta(t, 10, d, eps)
}
