// Package rules is the catalog of algebraic derivation rules. Every rule
// declares the quantities it needs, and the catalog refuses to call a rule
// whose declared needs are not present. A rule that is called may still
// decline (return false) when the numbers are degenerate: zero ratio
// components, a negative discriminant, a non-positive result, or a pair
// stored where a scalar is expected.
package rules

import (
	"fmt"
	"math"

	"github.com/cognicore/rectsolve/pkg/rectsolve/rect"
)

type inputKind uint8

const (
	inWidth inputKind = iota + 1
	inHeight
	inAnySide
	inNoSide
	inTrait
)

// Input is one declared precondition or output of a rule.
type Input struct {
	kind  inputKind
	trait rect.TraitKey
}

var (
	Width   = Input{kind: inWidth}
	Height  = Input{kind: inHeight}
	AnySide = Input{kind: inAnySide} // exactly one of width/height
	NoSide  = Input{kind: inNoSide}  // neither width nor height
)

// Trait wraps a trait key as an input.
func Trait(k rect.TraitKey) Input { return Input{kind: inTrait, trait: k} }

// Met reports whether r satisfies the input.
func (in Input) Met(r *rect.Rectangle) bool {
	switch in.kind {
	case inWidth:
		return r.Width.Known()
	case inHeight:
		return r.Height.Known()
	case inAnySide:
		_, _, ok := r.OneSide()
		return ok
	case inNoSide:
		return !r.Width.Known() && !r.Height.Known()
	case inTrait:
		return r.Has(in.trait)
	}
	return false
}

// TraitKey returns the wrapped trait for trait inputs.
func (in Input) TraitKey() (rect.TraitKey, bool) {
	return in.trait, in.kind == inTrait
}

// IsSideAlternative reports whether the input means "one of the two sides".
func (in Input) IsSideAlternative() bool { return in.kind == inAnySide }

// IsNegative reports whether the input requires an absence.
func (in Input) IsNegative() bool { return in.kind == inNoSide }

func (in Input) String() string {
	switch in.kind {
	case inWidth:
		return "width"
	case inHeight:
		return "height"
	case inAnySide:
		return "one side"
	case inNoSide:
		return "no side"
	case inTrait:
		return in.trait.String()
	}
	return "invalid"
}

// Rule derives one target from declared inputs.
type Rule struct {
	Name   string
	Label  string
	Target rect.Target
	Needs  []Input
	Yields []Input

	apply func(r *rect.Rectangle) bool
}

// Ready reports whether every declared need is present.
func (ru Rule) Ready(r *rect.Rectangle) bool {
	for _, n := range ru.Needs {
		if !n.Met(r) {
			return false
		}
	}
	return true
}

// Apply runs the rule if it is ready. It returns true only when the rule
// wrote its output.
func (ru Rule) Apply(r *rect.Rectangle) bool {
	if ru.apply == nil || !ru.Ready(r) {
		return false
	}
	return ru.apply(r)
}

// Catalog indexes rules per target and knows which goals to chase when a
// target has no ready rule.
type Catalog struct {
	all      []Rule
	byTarget map[rect.Target][]Rule
	byName   map[string]Rule
	prereqs  map[rect.Target][]rect.Target
	seeds    []string
}

// New builds a catalog. Rule order within a target is preserved and decides
// precedence. seeds names the rules tried by the pre-pass.
func New(rules []Rule, prereqs map[rect.Target][]rect.Target, seeds []string) (*Catalog, error) {
	c := &Catalog{
		byTarget: make(map[rect.Target][]Rule),
		byName:   make(map[string]Rule, len(rules)),
		prereqs:  make(map[rect.Target][]rect.Target, len(prereqs)),
	}
	for _, ru := range rules {
		if ru.Name == "" {
			return nil, fmt.Errorf("rule for %s has no name", ru.Target)
		}
		if _, dup := c.byName[ru.Name]; dup {
			return nil, fmt.Errorf("duplicate rule %q", ru.Name)
		}
		if !ru.Target.Valid() {
			return nil, fmt.Errorf("rule %q: invalid target %d", ru.Name, int(ru.Target))
		}
		c.all = append(c.all, ru)
		c.byName[ru.Name] = ru
		c.byTarget[ru.Target] = append(c.byTarget[ru.Target], ru)
	}
	for t, ps := range prereqs {
		c.prereqs[t] = append([]rect.Target(nil), ps...)
	}
	for _, name := range seeds {
		if _, ok := c.byName[name]; !ok {
			return nil, fmt.Errorf("seed rule %q not in catalog", name)
		}
	}
	c.seeds = append([]string(nil), seeds...)
	return c, nil
}

// Rules returns every rule in registration order.
func (c *Catalog) Rules() []Rule { return append([]Rule(nil), c.all...) }

// For returns the ordered rules producing t.
func (c *Catalog) For(t rect.Target) []Rule { return c.byTarget[t] }

// Lookup finds a rule by name.
func (c *Catalog) Lookup(name string) (Rule, bool) {
	ru, ok := c.byName[name]
	return ru, ok
}

// Prerequisites returns the goals worth chasing when t is blocked.
func (c *Catalog) Prerequisites(t rect.Target) []rect.Target { return c.prereqs[t] }

// Apply fires the first applicable rule for t.
func (c *Catalog) Apply(t rect.Target, r *rect.Rectangle) (Rule, bool) {
	for _, ru := range c.byTarget[t] {
		if ru.Apply(r) {
			return ru, true
		}
	}
	return Rule{}, false
}

// Seed runs the pre-pass: when a side is missing, the first seed rule that
// applies fills in both sides. Side distances come first, then the ratio
// rules.
func (c *Catalog) Seed(r *rect.Rectangle) (Rule, bool) {
	if r.HasSides() {
		return Rule{}, false
	}
	for _, name := range c.seeds {
		ru := c.byName[name]
		if ru.Apply(r) {
			return ru, true
		}
	}
	return Rule{}, false
}

// Default returns the standard rectangle catalog.
func Default() *Catalog {
	c, err := New(defaultRules(), defaultPrerequisites(), defaultSeeds)
	if err != nil {
		panic(err)
	}
	return c
}

func defaultRules() []Rule {
	var all []Rule
	all = append(all, perimeterRules()...)
	all = append(all, areaRules()...)
	all = append(all, diagonalRules()...)
	all = append(all, sidesRules()...)
	all = append(all, angleRules()...)
	all = append(all, circleRules()...)
	return all
}

var defaultSeeds = []string{
	"sides/side-distances",
	"sides/perimeter-ratio",
	"sides/diagonal-ratio",
	"sides/smaller-side-ratio",
	"sides/bigger-side-ratio",
	"sides/side-ratio",
}

func defaultPrerequisites() map[rect.Target][]rect.Target {
	return map[rect.Target][]rect.Target{
		rect.TargetPerimeter:                    {rect.Sides},
		rect.TargetArea:                         {rect.Sides, rect.TargetDiagonal},
		rect.TargetDiagonal:                     {rect.TargetCircumscribedCircleRadius, rect.Sides},
		rect.Sides:                              {rect.TargetDiagonal, rect.TargetArea, rect.TargetPerimeter},
		rect.TargetSideDistances:                {rect.Sides},
		rect.TargetSmallerSide:                  {rect.Sides},
		rect.TargetBiggerSide:                   {rect.Sides},
		rect.TargetSideXDiagonalAngle:           {rect.TargetDiagonal, rect.Sides},
		rect.TargetSideYDiagonalAngle:           {rect.TargetDiagonal, rect.Sides},
		rect.TargetDiagonalDiagonalAngle:        {rect.TargetDiagonal, rect.TargetArea},
		rect.TargetCircumscribedCircleRadius:    {rect.TargetDiagonal, rect.TargetCircumscribedCircleDiameter},
		rect.TargetCircumscribedCircleDiameter:  {rect.TargetDiagonal, rect.TargetCircumscribedCircleRadius},
		rect.TargetCircumscribedCircleArea:      {rect.TargetCircumscribedCircleRadius},
		rect.TargetCircumscribedCirclePerimeter: {rect.TargetCircumscribedCircleRadius},
	}
}

// scalar reads a positive scalar trait. Pairs and non-positive values are
// rejected.
func scalar(r *rect.Rectangle, k rect.TraitKey) (float64, bool) {
	v, ok := r.Single(k)
	if !ok || !rect.Positive(v) {
		return 0, false
	}
	return v, true
}

// ratio reads a ratio pair with both components positive.
func ratio(r *rect.Rectangle) (float64, float64, bool) {
	a, b, ok := r.Pair(rect.Ratio)
	if !ok || !rect.Positive(a) || !rect.Positive(b) {
		return 0, 0, false
	}
	return a, b, true
}

// setScalar stores v under k if it is a usable measurement.
// sameScalar reports whether trait k is known and equal to v. A known side
// that is also the smaller or bigger side fixes which ratio term it takes.
func sameScalar(r *rect.Rectangle, k rect.TraitKey, v float64) bool {
	x, ok := scalar(r, k)
	return ok && math.Abs(x-v) <= 1e-9*math.Max(1, math.Abs(v))
}

func setScalar(r *rect.Rectangle, k rect.TraitKey, v float64) bool {
	if !rect.Positive(v) {
		return false
	}
	r.Set(k, rect.Single(v))
	return true
}

// setSides stores both dimensions if both are usable.
func setSides(r *rect.Rectangle, w, h float64) bool {
	if !rect.Positive(w) || !rect.Positive(h) {
		return false
	}
	r.SetWidth(w)
	r.SetHeight(h)
	return true
}

// setOtherSide completes the unknown dimension.
func setOtherSide(r *rect.Rectangle, widthKnown bool, v float64) bool {
	if !rect.Positive(v) {
		return false
	}
	if widthKnown {
		r.SetHeight(v)
	} else {
		r.SetWidth(v)
	}
	return true
}
