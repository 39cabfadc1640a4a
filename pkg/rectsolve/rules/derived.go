package rules

import (
	"math"

	"github.com/cognicore/rectsolve/pkg/rectsolve/rect"
)

func angleRules() []Rule {
	return []Rule{
		{
			Name:   "side-distances/sides",
			Label:  "Found distances from intersection point using sides",
			Target: rect.TargetSideDistances,
			Needs:  bothSides,
			Yields: []Input{Trait(rect.SideDistances)},
			apply: func(r *rect.Rectangle) bool {
				w, h := r.Width.Value(), r.Height.Value()
				if !rect.Positive(w) || !rect.Positive(h) {
					return false
				}
				r.Set(rect.SideDistances, rect.Pair(w/2, h/2))
				return true
			},
		},
		{
			Name:   "smaller-side/sides",
			Label:  "Found smaller side",
			Target: rect.TargetSmallerSide,
			Needs:  bothSides,
			Yields: []Input{Trait(rect.SmallerSide)},
			apply: func(r *rect.Rectangle) bool {
				return setScalar(r, rect.SmallerSide, math.Min(r.Width.Value(), r.Height.Value()))
			},
		},
		{
			Name:   "bigger-side/sides",
			Label:  "Found bigger side",
			Target: rect.TargetBiggerSide,
			Needs:  bothSides,
			Yields: []Input{Trait(rect.BiggerSide)},
			apply: func(r *rect.Rectangle) bool {
				return setScalar(r, rect.BiggerSide, math.Max(r.Width.Value(), r.Height.Value()))
			},
		},
		sideAngleRule("side-x-angle/sides-diagonal", rect.TargetSideXDiagonalAngle, rect.SideXDiagonalAngle, func(r *rect.Rectangle) float64 {
			return r.Width.Value()
		}),
		sideAngleRule("side-y-angle/sides-diagonal", rect.TargetSideYDiagonalAngle, rect.SideYDiagonalAngle, func(r *rect.Rectangle) float64 {
			return r.Height.Value()
		}),
		{
			Name:   "diagonals-angle/diagonal-area",
			Label:  "Found intersection angle between diagonals",
			Target: rect.TargetDiagonalDiagonalAngle,
			Needs:  []Input{Trait(rect.Diagonal), Trait(rect.Area)},
			Yields: []Input{Trait(rect.DiagonalDiagonalAngle)},
			apply: func(r *rect.Rectangle) bool {
				d, ok := scalar(r, rect.Diagonal)
				if !ok {
					return false
				}
				a, ok := scalar(r, rect.Area)
				if !ok {
					return false
				}
				return setScalar(r, rect.DiagonalDiagonalAngle, degrees(math.Atan2(2*a/(d*d), 1)))
			},
		},
	}
}

func sideAngleRule(name string, target rect.Target, key rect.TraitKey, side func(*rect.Rectangle) float64) Rule {
	return Rule{
		Name:   name,
		Label:  "Found angle between diagonal and side",
		Target: target,
		Needs:  []Input{Width, Height, Trait(rect.Diagonal)},
		Yields: []Input{Trait(key)},
		apply: func(r *rect.Rectangle) bool {
			d, ok := scalar(r, rect.Diagonal)
			if !ok {
				return false
			}
			return setScalar(r, key, degrees(math.Asin(math.Min(side(r)/d, 1))))
		},
	}
}

func circleRules() []Rule {
	return []Rule{
		{
			Name:   "radius/diagonal",
			Label:  "Found circumscribed circle radius using diagonal",
			Target: rect.TargetCircumscribedCircleRadius,
			Needs:  []Input{Trait(rect.Diagonal)},
			Yields: []Input{Trait(rect.CircumscribedCircleRadius)},
			apply: func(r *rect.Rectangle) bool {
				d, ok := scalar(r, rect.Diagonal)
				return ok && setScalar(r, rect.CircumscribedCircleRadius, d/2)
			},
		},
		{
			Name:   "radius/diameter",
			Label:  "Found circumscribed circle radius using its diameter",
			Target: rect.TargetCircumscribedCircleRadius,
			Needs:  []Input{Trait(rect.CircumscribedCircleDiameter)},
			Yields: []Input{Trait(rect.CircumscribedCircleRadius)},
			apply: func(r *rect.Rectangle) bool {
				d, ok := scalar(r, rect.CircumscribedCircleDiameter)
				return ok && setScalar(r, rect.CircumscribedCircleRadius, d/2)
			},
		},
		{
			Name:   "radius/circle-perimeter",
			Label:  "Found circumscribed circle radius using its perimeter",
			Target: rect.TargetCircumscribedCircleRadius,
			Needs:  []Input{Trait(rect.CircumscribedCirclePerimeter)},
			Yields: []Input{Trait(rect.CircumscribedCircleRadius)},
			apply: func(r *rect.Rectangle) bool {
				c, ok := scalar(r, rect.CircumscribedCirclePerimeter)
				return ok && setScalar(r, rect.CircumscribedCircleRadius, c/(2*math.Pi))
			},
		},
		{
			Name:   "radius/circle-area",
			Label:  "Found circumscribed circle radius using its area",
			Target: rect.TargetCircumscribedCircleRadius,
			Needs:  []Input{Trait(rect.CircumscribedCircleArea)},
			Yields: []Input{Trait(rect.CircumscribedCircleRadius)},
			apply: func(r *rect.Rectangle) bool {
				a, ok := scalar(r, rect.CircumscribedCircleArea)
				return ok && setScalar(r, rect.CircumscribedCircleRadius, math.Sqrt(a/math.Pi))
			},
		},
		{
			Name:   "diameter/diagonal",
			Label:  "Found circumscribed circle diameter using diagonal",
			Target: rect.TargetCircumscribedCircleDiameter,
			Needs:  []Input{Trait(rect.Diagonal)},
			Yields: []Input{Trait(rect.CircumscribedCircleDiameter)},
			apply: func(r *rect.Rectangle) bool {
				d, ok := scalar(r, rect.Diagonal)
				return ok && setScalar(r, rect.CircumscribedCircleDiameter, d)
			},
		},
		{
			Name:   "diameter/radius",
			Label:  "Found circumscribed circle diameter using its radius",
			Target: rect.TargetCircumscribedCircleDiameter,
			Needs:  []Input{Trait(rect.CircumscribedCircleRadius)},
			Yields: []Input{Trait(rect.CircumscribedCircleDiameter)},
			apply: func(r *rect.Rectangle) bool {
				radius, ok := scalar(r, rect.CircumscribedCircleRadius)
				return ok && setScalar(r, rect.CircumscribedCircleDiameter, 2*radius)
			},
		},
		{
			Name:   "circle-area/radius",
			Label:  "Found circumscribed circle area using its radius",
			Target: rect.TargetCircumscribedCircleArea,
			Needs:  []Input{Trait(rect.CircumscribedCircleRadius)},
			Yields: []Input{Trait(rect.CircumscribedCircleArea)},
			apply: func(r *rect.Rectangle) bool {
				radius, ok := scalar(r, rect.CircumscribedCircleRadius)
				return ok && setScalar(r, rect.CircumscribedCircleArea, math.Pi*radius*radius)
			},
		},
		{
			Name:   "circle-perimeter/radius",
			Label:  "Found circumscribed circle perimeter using its radius",
			Target: rect.TargetCircumscribedCirclePerimeter,
			Needs:  []Input{Trait(rect.CircumscribedCircleRadius)},
			Yields: []Input{Trait(rect.CircumscribedCirclePerimeter)},
			apply: func(r *rect.Rectangle) bool {
				radius, ok := scalar(r, rect.CircumscribedCircleRadius)
				return ok && setScalar(r, rect.CircumscribedCirclePerimeter, 2*math.Pi*radius)
			},
		},
	}
}
