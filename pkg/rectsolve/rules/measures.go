package rules

import (
	"math"

	"github.com/cognicore/rectsolve/pkg/rectsolve/rect"
)

func perimeterRules() []Rule {
	return []Rule{
		{
			Name:   "perimeter/sides",
			Label:  "Found perimeter using sides",
			Target: rect.TargetPerimeter,
			Needs:  []Input{Width, Height},
			Yields: []Input{Trait(rect.Perimeter)},
			apply: func(r *rect.Rectangle) bool {
				return setScalar(r, rect.Perimeter, 2*(r.Width.Value()+r.Height.Value()))
			},
		},
		{
			Name:   "perimeter/side-area",
			Label:  "Found perimeter using side and area",
			Target: rect.TargetPerimeter,
			Needs:  []Input{AnySide, Trait(rect.Area)},
			Yields: []Input{Trait(rect.Perimeter)},
			apply: func(r *rect.Rectangle) bool {
				s, _, _ := r.OneSide()
				a, ok := scalar(r, rect.Area)
				if !ok {
					return false
				}
				return setScalar(r, rect.Perimeter, (2*a+2*s*s)/s)
			},
		},
		{
			Name:   "perimeter/side-diagonal",
			Label:  "Found perimeter using side and diagonal",
			Target: rect.TargetPerimeter,
			Needs:  []Input{AnySide, Trait(rect.Diagonal)},
			Yields: []Input{Trait(rect.Perimeter)},
			apply: func(r *rect.Rectangle) bool {
				s, _, _ := r.OneSide()
				d, ok := scalar(r, rect.Diagonal)
				if !ok || d <= s {
					return false
				}
				return setScalar(r, rect.Perimeter, 2*(s+math.Sqrt(d*d-s*s)))
			},
		},
	}
}

func areaRules() []Rule {
	return []Rule{
		{
			Name:   "area/sides",
			Label:  "Found area using sides",
			Target: rect.TargetArea,
			Needs:  []Input{Width, Height},
			Yields: []Input{Trait(rect.Area)},
			apply: func(r *rect.Rectangle) bool {
				return setScalar(r, rect.Area, r.Width.Value()*r.Height.Value())
			},
		},
		{
			Name:   "area/side-perimeter",
			Label:  "Found area using side and perimeter",
			Target: rect.TargetArea,
			Needs:  []Input{AnySide, Trait(rect.Perimeter)},
			Yields: []Input{Trait(rect.Area)},
			apply: func(r *rect.Rectangle) bool {
				s, _, _ := r.OneSide()
				p, ok := scalar(r, rect.Perimeter)
				if !ok {
					return false
				}
				return setScalar(r, rect.Area, (p*s-2*s*s)/2)
			},
		},
		{
			Name:   "area/side-diagonal",
			Label:  "Found area using side and diagonal",
			Target: rect.TargetArea,
			Needs:  []Input{AnySide, Trait(rect.Diagonal)},
			Yields: []Input{Trait(rect.Area)},
			apply: func(r *rect.Rectangle) bool {
				s, _, _ := r.OneSide()
				d, ok := scalar(r, rect.Diagonal)
				if !ok || d <= s {
					return false
				}
				return setScalar(r, rect.Area, s*math.Sqrt(d*d-s*s))
			},
		},
	}
}

func diagonalRules() []Rule {
	return []Rule{
		{
			Name:   "diagonal/sides",
			Label:  "Found diagonal using sides",
			Target: rect.TargetDiagonal,
			Needs:  []Input{Width, Height},
			Yields: []Input{Trait(rect.Diagonal)},
			apply: func(r *rect.Rectangle) bool {
				return setScalar(r, rect.Diagonal, math.Hypot(r.Width.Value(), r.Height.Value()))
			},
		},
		{
			Name:   "diagonal/circle-diameter",
			Label:  "Found diagonal using circumscribed circle diameter",
			Target: rect.TargetDiagonal,
			Needs:  []Input{Trait(rect.CircumscribedCircleDiameter)},
			Yields: []Input{Trait(rect.Diagonal)},
			apply: func(r *rect.Rectangle) bool {
				d, ok := scalar(r, rect.CircumscribedCircleDiameter)
				return ok && setScalar(r, rect.Diagonal, d)
			},
		},
		{
			Name:   "diagonal/circle-radius",
			Label:  "Found diagonal using circumscribed circle radius",
			Target: rect.TargetDiagonal,
			Needs:  []Input{Trait(rect.CircumscribedCircleRadius)},
			Yields: []Input{Trait(rect.Diagonal)},
			apply: func(r *rect.Rectangle) bool {
				radius, ok := scalar(r, rect.CircumscribedCircleRadius)
				return ok && setScalar(r, rect.Diagonal, 2*radius)
			},
		},
		{
			Name:   "diagonal/diagonals-angle-area",
			Label:  "Found diagonal using angle between diagonals and area",
			Target: rect.TargetDiagonal,
			Needs:  []Input{Trait(rect.DiagonalDiagonalAngle), Trait(rect.Area)},
			Yields: []Input{Trait(rect.Diagonal)},
			apply: func(r *rect.Rectangle) bool {
				theta, ok := scalar(r, rect.DiagonalDiagonalAngle)
				if !ok {
					return false
				}
				a, ok := scalar(r, rect.Area)
				if !ok {
					return false
				}
				return setScalar(r, rect.Diagonal, math.Sqrt(2*a*math.Sin(radians(theta))))
			},
		},
		{
			Name:   "diagonal/diagonals-angle-smaller-side",
			Label:  "Found diagonal using angle between diagonals and smaller side",
			Target: rect.TargetDiagonal,
			Needs:  []Input{Trait(rect.DiagonalDiagonalAngle), Trait(rect.SmallerSide)},
			Yields: []Input{Trait(rect.Diagonal)},
			apply: func(r *rect.Rectangle) bool {
				theta, ok := scalar(r, rect.DiagonalDiagonalAngle)
				if !ok {
					return false
				}
				s, ok := scalar(r, rect.SmallerSide)
				if !ok {
					return false
				}
				return setScalar(r, rect.Diagonal, s/math.Sin(radians(theta)/2))
			},
		},
		{
			Name:   "diagonal/diagonals-angle-bigger-side",
			Label:  "Found diagonal using angle between diagonals and bigger side",
			Target: rect.TargetDiagonal,
			Needs:  []Input{Trait(rect.DiagonalDiagonalAngle), Trait(rect.BiggerSide)},
			Yields: []Input{Trait(rect.Diagonal)},
			apply: func(r *rect.Rectangle) bool {
				theta, ok := scalar(r, rect.DiagonalDiagonalAngle)
				if !ok {
					return false
				}
				s, ok := scalar(r, rect.BiggerSide)
				if !ok {
					return false
				}
				return setScalar(r, rect.Diagonal, s/math.Cos(radians(theta)/2))
			},
		},
		{
			Name:   "diagonal/side-perimeter",
			Label:  "Found diagonal using side and perimeter",
			Target: rect.TargetDiagonal,
			Needs:  []Input{AnySide, Trait(rect.Perimeter)},
			Yields: []Input{Trait(rect.Diagonal)},
			apply: func(r *rect.Rectangle) bool {
				s, _, _ := r.OneSide()
				p, ok := scalar(r, rect.Perimeter)
				if !ok || p <= 2*s {
					return false
				}
				return setScalar(r, rect.Diagonal, math.Sqrt(p*p-4*p*s+8*s*s)/2)
			},
		},
		{
			Name:   "diagonal/side-area",
			Label:  "Found diagonal using side and area",
			Target: rect.TargetDiagonal,
			Needs:  []Input{AnySide, Trait(rect.Area)},
			Yields: []Input{Trait(rect.Diagonal)},
			apply: func(r *rect.Rectangle) bool {
				s, _, _ := r.OneSide()
				a, ok := scalar(r, rect.Area)
				if !ok {
					return false
				}
				return setScalar(r, rect.Diagonal, math.Sqrt(a*a+math.Pow(s, 4))/s)
			},
		},
	}
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
