package rules

import (
	"math"

	"github.com/cognicore/rectsolve/pkg/rectsolve/rect"
)

var bothSides = []Input{Width, Height}

func sidesRules() []Rule {
	return []Rule{
		{
			Name:   "sides/side-distances",
			Label:  "Found sides using distances from diagonal intersection point",
			Target: rect.Sides,
			Needs:  []Input{Trait(rect.SideDistances)},
			Yields: bothSides,
			apply: func(r *rect.Rectangle) bool {
				d1, d2, ok := r.Pair(rect.SideDistances)
				if !ok {
					return false
				}
				return setSides(r, 2*d1, 2*d2)
			},
		},
		{
			Name:   "sides/side-perimeter",
			Label:  "Found sides using side and perimeter",
			Target: rect.Sides,
			Needs:  []Input{AnySide, Trait(rect.Perimeter)},
			Yields: bothSides,
			apply: func(r *rect.Rectangle) bool {
				s, widthKnown, _ := r.OneSide()
				p, ok := scalar(r, rect.Perimeter)
				if !ok {
					return false
				}
				return setOtherSide(r, widthKnown, (p-2*s)/2)
			},
		},
		{
			Name:   "sides/side-area",
			Label:  "Found sides using side and area",
			Target: rect.Sides,
			Needs:  []Input{AnySide, Trait(rect.Area)},
			Yields: bothSides,
			apply: func(r *rect.Rectangle) bool {
				s, widthKnown, _ := r.OneSide()
				a, ok := scalar(r, rect.Area)
				if !ok {
					return false
				}
				return setOtherSide(r, widthKnown, a/s)
			},
		},
		{
			Name:   "sides/side-diagonal",
			Label:  "Found sides using side and diagonal",
			Target: rect.Sides,
			Needs:  []Input{AnySide, Trait(rect.Diagonal)},
			Yields: bothSides,
			apply: func(r *rect.Rectangle) bool {
				s, widthKnown, _ := r.OneSide()
				d, ok := scalar(r, rect.Diagonal)
				if !ok || d <= s {
					return false
				}
				return setOtherSide(r, widthKnown, math.Sqrt(d*d-s*s))
			},
		},
		{
			Name:   "sides/perimeter-ratio",
			Label:  "Found sides using perimeter and ratio",
			Target: rect.Sides,
			Needs:  []Input{NoSide, Trait(rect.Perimeter), Trait(rect.Ratio)},
			Yields: bothSides,
			apply: func(r *rect.Rectangle) bool {
				p, ok := scalar(r, rect.Perimeter)
				if !ok {
					return false
				}
				r1, r2, ok := ratio(r)
				if !ok {
					return false
				}
				scale := r1 + r2
				return setSides(r, p*(r1/scale)/2, p*(r2/scale)/2)
			},
		},
		{
			Name:   "sides/diagonal-ratio",
			Label:  "Found sides using diagonal and ratio",
			Target: rect.Sides,
			Needs:  []Input{NoSide, Trait(rect.Diagonal), Trait(rect.Ratio)},
			Yields: bothSides,
			apply: func(r *rect.Rectangle) bool {
				d, ok := scalar(r, rect.Diagonal)
				if !ok {
					return false
				}
				r1, r2, ok := ratio(r)
				if !ok {
					return false
				}
				scale := math.Hypot(r1, r2)
				return setSides(r, d*r1/scale, d*r2/scale)
			},
		},
		{
			Name:   "sides/smaller-side-ratio",
			Label:  "Found sides using smaller side and ratio",
			Target: rect.Sides,
			Needs:  []Input{NoSide, Trait(rect.SmallerSide), Trait(rect.Ratio)},
			Yields: bothSides,
			apply: func(r *rect.Rectangle) bool {
				s, ok := scalar(r, rect.SmallerSide)
				if !ok {
					return false
				}
				r1, r2, ok := ratio(r)
				if !ok {
					return false
				}
				k := s / math.Min(r1, r2)
				return setSides(r, r1*k, r2*k)
			},
		},
		{
			Name:   "sides/bigger-side-ratio",
			Label:  "Found sides using bigger side and ratio",
			Target: rect.Sides,
			Needs:  []Input{NoSide, Trait(rect.BiggerSide), Trait(rect.Ratio)},
			Yields: bothSides,
			apply: func(r *rect.Rectangle) bool {
				s, ok := scalar(r, rect.BiggerSide)
				if !ok {
					return false
				}
				r1, r2, ok := ratio(r)
				if !ok {
					return false
				}
				k := s / math.Max(r1, r2)
				return setSides(r, r1*k, r2*k)
			},
		},
		{
			Name:   "sides/side-ratio",
			Label:  "Found sides using side and ratio",
			Target: rect.Sides,
			Needs:  []Input{AnySide, Trait(rect.Ratio)},
			Yields: bothSides,
			apply: func(r *rect.Rectangle) bool {
				s, widthKnown, _ := r.OneSide()
				r1, r2, ok := ratio(r)
				if !ok {
					return false
				}
				lo, hi := math.Min(r1, r2), math.Max(r1, r2)
				switch {
				case sameScalar(r, rect.SmallerSide, s):
					return setOtherSide(r, widthKnown, s*hi/lo)
				case sameScalar(r, rect.BiggerSide, s):
					return setOtherSide(r, widthKnown, s*lo/hi)
				case widthKnown:
					return setOtherSide(r, true, r2*s/r1)
				}
				return setOtherSide(r, false, r1*s/r2)
			},
		},
		{
			Name:   "sides/area-diagonal",
			Label:  "Found sides using area and diagonal",
			Target: rect.Sides,
			Needs:  []Input{NoSide, Trait(rect.Area), Trait(rect.Diagonal)},
			Yields: bothSides,
			apply: func(r *rect.Rectangle) bool {
				a, ok := scalar(r, rect.Area)
				if !ok {
					return false
				}
				d, ok := scalar(r, rect.Diagonal)
				if !ok {
					return false
				}
				// x^4 - D^2 x^2 + A^2 = 0, solved for the larger x^2.
				b := -d * d
				disc := b*b - 4*a*a
				if disc < 0 {
					return false
				}
				w := math.Sqrt((-b + math.Sqrt(disc)) / 2)
				if !rect.Positive(w) {
					return false
				}
				return setSides(r, w, a/w)
			},
		},
		{
			Name:   "sides/perimeter-area",
			Label:  "Found sides using perimeter and area",
			Target: rect.Sides,
			Needs:  []Input{NoSide, Trait(rect.Perimeter), Trait(rect.Area)},
			Yields: bothSides,
			apply: func(r *rect.Rectangle) bool {
				p, ok := scalar(r, rect.Perimeter)
				if !ok {
					return false
				}
				a, ok := scalar(r, rect.Area)
				if !ok {
					return false
				}
				half := p / 2
				disc := half*half - 4*a
				if disc < 0 {
					return false
				}
				root := math.Sqrt(disc)
				return setSides(r, (half+root)/2, (half-root)/2)
			},
		},
		{
			Name:   "sides/diagonal-smaller-side",
			Label:  "Found sides using diagonal and smaller side",
			Target: rect.Sides,
			Needs:  []Input{NoSide, Trait(rect.Diagonal), Trait(rect.SmallerSide)},
			Yields: bothSides,
			apply: func(r *rect.Rectangle) bool {
				return sidesFromDiagonalAndExtreme(r, rect.SmallerSide)
			},
		},
		{
			Name:   "sides/diagonal-bigger-side",
			Label:  "Found sides using diagonal and bigger side",
			Target: rect.Sides,
			Needs:  []Input{NoSide, Trait(rect.Diagonal), Trait(rect.BiggerSide)},
			Yields: bothSides,
			apply: func(r *rect.Rectangle) bool {
				return sidesFromDiagonalAndExtreme(r, rect.BiggerSide)
			},
		},
	}
}

func sidesFromDiagonalAndExtreme(r *rect.Rectangle, key rect.TraitKey) bool {
	d, ok := scalar(r, rect.Diagonal)
	if !ok {
		return false
	}
	s, ok := scalar(r, key)
	if !ok || d <= s {
		return false
	}
	return setSides(r, s, math.Sqrt(d*d-s*s))
}
