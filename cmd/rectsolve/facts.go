package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/cognicore/rectsolve/pkg/rectsolve/rect"
	"github.com/cognicore/rectsolve/pkg/rectsolve/store"
)

// scalarFlags maps single-valued fact flags to their trait.
var scalarFlags = []struct {
	name  string
	key   rect.TraitKey
	usage string
}{
	{"perimeter", rect.Perimeter, "Perimeter"},
	{"area", rect.Area, "Area"},
	{"diagonal", rect.Diagonal, "Diagonal length"},
	{"diagonals-angle", rect.DiagonalDiagonalAngle, "Angle between the diagonals, degrees"},
	{"side-x-angle", rect.SideXDiagonalAngle, "Angle between side x and a diagonal, degrees"},
	{"side-y-angle", rect.SideYDiagonalAngle, "Angle between side y and a diagonal, degrees"},
	{"smaller-side", rect.SmallerSide, "Length of the smaller side"},
	{"bigger-side", rect.BiggerSide, "Length of the bigger side"},
	{"radius", rect.CircumscribedCircleRadius, "Circumscribed circle radius"},
	{"diameter", rect.CircumscribedCircleDiameter, "Circumscribed circle diameter"},
	{"circle-area", rect.CircumscribedCircleArea, "Circumscribed circle area"},
	{"circle-perimeter", rect.CircumscribedCirclePerimeter, "Circumscribed circle perimeter"},
}

// pairFlags maps two-valued fact flags to their trait.
var pairFlags = []struct {
	name  string
	key   rect.TraitKey
	usage string
}{
	{"ratio", rect.Ratio, "Side ratio, e.g. 3:4"},
	{"distances", rect.SideDistances, "Distances from the diagonal intersection to the sides, e.g. 3:4"},
}

// addFactFlags registers the fact and target flags on fs.
func addFactFlags(fs *pflag.FlagSet) {
	fs.Float64("side-x", 0, "Side x length")
	fs.Float64("side-y", 0, "Side y length")
	for _, f := range scalarFlags {
		fs.Float64(f.name, 0, f.usage)
	}
	for _, f := range pairFlags {
		fs.String(f.name, "", f.usage)
	}
	fs.StringSliceP("target", "t", nil, "Quantity to derive, e.g. area or circumscribed_circle_radius (repeatable)")
}

// factsFromFlags collects the facts given on the command line. Only flags
// that were set count.
func factsFromFlags(fs *pflag.FlagSet) (rect.Facts, error) {
	facts := rect.NewFacts()
	if fs.Changed("side-x") {
		v, _ := fs.GetFloat64("side-x")
		facts.SideX = rect.Known(v)
	}
	if fs.Changed("side-y") {
		v, _ := fs.GetFloat64("side-y")
		facts.SideY = rect.Known(v)
	}
	for _, f := range scalarFlags {
		if !fs.Changed(f.name) {
			continue
		}
		v, _ := fs.GetFloat64(f.name)
		facts = facts.With(f.key, rect.Single(v))
	}
	for _, f := range pairFlags {
		if !fs.Changed(f.name) {
			continue
		}
		s, _ := fs.GetString(f.name)
		a, b, err := parsePair(s)
		if err != nil {
			return facts, fmt.Errorf("--%s: %w", f.name, err)
		}
		facts = facts.With(f.key, rect.Pair(a, b))
	}
	return facts, nil
}

func targetsFromFlags(fs *pflag.FlagSet) ([]rect.Target, error) {
	names, _ := fs.GetStringSlice("target")
	return store.ParseTargets(names)
}

// parsePair reads "3:4" or "3,4".
func parsePair(s string) (float64, float64, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ':' || r == ',' })
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("want two values like 3:4, got %q", s)
	}
	a, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse %q: %w", parts[0], err)
	}
	b, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse %q: %w", parts[1], err)
	}
	return a, b, nil
}
