package rect

import (
	"fmt"
	"strings"
)

// TraitKey identifies a derivable rectangle property.
type TraitKey int

const (
	Perimeter TraitKey = iota + 1
	Area
	Diagonal
	DiagonalDiagonalAngle
	SideXDiagonalAngle
	SideYDiagonalAngle
	SmallerSide
	BiggerSide
	Ratio
	SideDistances
	CircumscribedCircleRadius
	CircumscribedCircleDiameter
	CircumscribedCircleArea
	CircumscribedCirclePerimeter
)

var traitNames = map[TraitKey]string{
	Perimeter:                    "Perimeter",
	Area:                         "Area",
	Diagonal:                     "Diagonal",
	DiagonalDiagonalAngle:        "DiagonalDiagonalAngle",
	SideXDiagonalAngle:           "SideXDiagonalAngle",
	SideYDiagonalAngle:           "SideYDiagonalAngle",
	SmallerSide:                  "SmallerSide",
	BiggerSide:                   "BiggerSide",
	Ratio:                        "Ratio",
	SideDistances:                "SideDistances",
	CircumscribedCircleRadius:    "CircumscribedCircleRadius",
	CircumscribedCircleDiameter:  "CircumscribedCircleDiameter",
	CircumscribedCircleArea:      "CircumscribedCircleArea",
	CircumscribedCirclePerimeter: "CircumscribedCirclePerimeter",
}

// AllTraitKeys lists every trait key in declaration order.
func AllTraitKeys() []TraitKey {
	keys := make([]TraitKey, 0, len(traitNames))
	for k := Perimeter; k <= CircumscribedCirclePerimeter; k++ {
		keys = append(keys, k)
	}
	return keys
}

func (k TraitKey) String() string {
	if name, ok := traitNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TraitKey(%d)", int(k))
}

// Valid reports whether k is one of the declared keys.
func (k TraitKey) Valid() bool {
	_, ok := traitNames[k]
	return ok
}

// ParseTraitKey accepts the CamelCase name ("SideDistances") or its
// snake_case form ("side_distances").
func ParseTraitKey(s string) (TraitKey, error) {
	want := normalizeName(s)
	for k, name := range traitNames {
		if normalizeName(name) == want {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown trait %q", s)
}

// TraitValue is either a single scalar or a pair of related scalars.
type TraitValue struct {
	a, b float64
	pair bool
}

// Single wraps a scalar value.
func Single(v float64) TraitValue { return TraitValue{a: v} }

// Pair wraps two related scalars.
func Pair(a, b float64) TraitValue { return TraitValue{a: a, b: b, pair: true} }

// IsPair reports whether the value holds two scalars.
func (v TraitValue) IsPair() bool { return v.pair }

// AsSingle returns the scalar, or false when v is a pair.
func (v TraitValue) AsSingle() (float64, bool) {
	if v.pair {
		return 0, false
	}
	return v.a, true
}

// AsPair returns both scalars, or false when v is a single value.
func (v TraitValue) AsPair() (float64, float64, bool) {
	if !v.pair {
		return 0, 0, false
	}
	return v.a, v.b, true
}

func (v TraitValue) String() string {
	if v.pair {
		return fmt.Sprintf("(%g, %g)", v.a, v.b)
	}
	return fmt.Sprintf("%g", v.a)
}

// Target is a caller request to have a property populated. Sides maps to
// the rectangle's width and height rather than to a trait.
type Target int

const (
	Sides Target = iota + 1
	TargetPerimeter
	TargetArea
	TargetDiagonal
	TargetDiagonalDiagonalAngle
	TargetSideXDiagonalAngle
	TargetSideYDiagonalAngle
	TargetSmallerSide
	TargetBiggerSide
	TargetSideDistances
	TargetCircumscribedCircleRadius
	TargetCircumscribedCircleDiameter
	TargetCircumscribedCircleArea
	TargetCircumscribedCirclePerimeter
)

var targetTraits = map[Target]TraitKey{
	TargetPerimeter:                    Perimeter,
	TargetArea:                         Area,
	TargetDiagonal:                     Diagonal,
	TargetDiagonalDiagonalAngle:        DiagonalDiagonalAngle,
	TargetSideXDiagonalAngle:           SideXDiagonalAngle,
	TargetSideYDiagonalAngle:           SideYDiagonalAngle,
	TargetSmallerSide:                  SmallerSide,
	TargetBiggerSide:                   BiggerSide,
	TargetSideDistances:                SideDistances,
	TargetCircumscribedCircleRadius:    CircumscribedCircleRadius,
	TargetCircumscribedCircleDiameter:  CircumscribedCircleDiameter,
	TargetCircumscribedCircleArea:      CircumscribedCircleArea,
	TargetCircumscribedCirclePerimeter: CircumscribedCirclePerimeter,
}

// AllTargets lists every target in declaration order.
func AllTargets() []Target {
	out := make([]Target, 0, len(targetTraits)+1)
	for t := Sides; t <= TargetCircumscribedCirclePerimeter; t++ {
		out = append(out, t)
	}
	return out
}

// Trait returns the trait a target populates. Sides has none.
func (t Target) Trait() (TraitKey, bool) {
	k, ok := targetTraits[t]
	return k, ok
}

// TargetFor maps a trait key to its target. Ratio has no target.
func TargetFor(k TraitKey) (Target, bool) {
	for t, key := range targetTraits {
		if key == k {
			return t, true
		}
	}
	return 0, false
}

func (t Target) String() string {
	if t == Sides {
		return "Sides"
	}
	if k, ok := targetTraits[t]; ok {
		return k.String()
	}
	return fmt.Sprintf("Target(%d)", int(t))
}

// Valid reports whether t is one of the declared targets.
func (t Target) Valid() bool {
	if t == Sides {
		return true
	}
	_, ok := targetTraits[t]
	return ok
}

// ParseTarget accepts "Sides", a trait name, or the snake_case form of either.
func ParseTarget(s string) (Target, error) {
	if normalizeName(s) == "sides" {
		return Sides, nil
	}
	k, err := ParseTraitKey(s)
	if err != nil {
		return 0, fmt.Errorf("unknown target %q", s)
	}
	t, ok := TargetFor(k)
	if !ok {
		return 0, fmt.Errorf("trait %s cannot be requested as a target", k)
	}
	return t, nil
}

func normalizeName(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", ""))
}
