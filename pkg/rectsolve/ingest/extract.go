package ingest

import (
	kw "github.com/cognicore/rectsolve/pkg/rectsolve/lexicon"
	"github.com/cognicore/rectsolve/pkg/rectsolve/rect"
)

const (
	// DefaultNumberWindow is how far past a keyword its value may appear.
	DefaultNumberWindow = 10
	lookaheadWindow     = 5
)

// binding keywords own the next number; a search for a value stops when it
// runs into one of them.
var bindingKeywords = map[string]bool{
	kw.Perimeter:     true,
	kw.Area:          true,
	kw.Diagonal:      true,
	kw.Angle:         true,
	kw.Ratio:         true,
	kw.Smaller:       true,
	kw.Bigger:        true,
	kw.Distance:      true,
	kw.Radius:        true,
	kw.Diameter:      true,
	kw.Circumference: true,
	kw.Find:          true,
}

// Task is what the extractor recovered from one text.
type Task struct {
	Tokens  []string
	Facts   rect.Facts
	Targets []rect.Target
}

// Extractor turns canonical keyword tokens into facts and targets. Tokens
// before a "find" keyword are facts, tokens after it are targets.
type Extractor struct {
	window int
}

// NewExtractor creates an extractor with the default number window.
func NewExtractor() *Extractor {
	return &Extractor{window: DefaultNumberWindow}
}

// SetNumberWindow overrides DefaultNumberWindow. Non-positive values are ignored.
func (e *Extractor) SetNumberWindow(n int) {
	if n > 0 {
		e.window = n
	}
}

// Extract scans tokens once, left to right.
func (e *Extractor) Extract(tokens []string) Task {
	s := &scan{
		window: e.window,
		tokens: tokens,
		facts:  rect.NewFacts(),
		seen:   make(map[rect.Target]bool),
	}
	for s.i = 0; s.i < len(tokens); s.i++ {
		s.step()
	}
	return Task{Tokens: tokens, Facts: s.facts, Targets: s.targets}
}

type scan struct {
	window   int
	tokens   []string
	i        int
	inTarget bool
	facts    rect.Facts
	targets  []rect.Target
	seen     map[rect.Target]bool
}

func (s *scan) step() {
	switch s.tokens[s.i] {
	case kw.Find:
		s.inTarget = true

	case kw.Perimeter:
		if s.circleQualified() {
			s.scalar(rect.TargetCircumscribedCirclePerimeter)
		} else {
			s.scalar(rect.TargetPerimeter)
		}

	case kw.Circumference:
		s.scalar(rect.TargetCircumscribedCirclePerimeter)

	case kw.Area:
		if s.circleQualified() {
			s.scalar(rect.TargetCircumscribedCircleArea)
		} else {
			s.scalar(rect.TargetArea)
		}

	case kw.Radius:
		s.scalar(rect.TargetCircumscribedCircleRadius)

	case kw.Diameter:
		s.scalar(rect.TargetCircumscribedCircleDiameter)

	case kw.Diagonal:
		if j, ok := s.ahead(kw.Angle, s.i+1); ok {
			s.i = j
			s.angle()
			return
		}
		if s.aheadAny(s.i+1, kw.Intersect) {
			s.scalar(rect.TargetDiagonalDiagonalAngle, kw.Diagonal, kw.Angle)
			return
		}
		s.scalar(rect.TargetDiagonal)

	case kw.Angle:
		s.angle()

	case kw.Ratio:
		if s.inTarget {
			return
		}
		if a, b, end, ok := s.twoNumbers(s.i + 1); ok {
			s.facts = s.facts.With(rect.Ratio, rect.Pair(a, b))
			s.i = end
		}

	case kw.Distance:
		if s.inTarget {
			s.target(rect.TargetSideDistances)
			return
		}
		if a, b, end, ok := s.twoNumbers(s.i+1, kw.Diagonal); ok {
			s.facts = s.facts.With(rect.SideDistances, rect.Pair(a, b))
			s.i = end
		}

	case kw.Smaller, kw.Bigger:
		s.extremeSide(s.tokens[s.i] == kw.Smaller)

	case kw.Side:
		s.side()
	}
}

// scalar records a target or binds the next number to t's trait. allow
// lists binding keywords the value search may step over.
func (s *scan) scalar(t rect.Target, allow ...string) {
	if s.inTarget {
		s.target(t)
		return
	}
	k, ok := t.Trait()
	if !ok {
		return
	}
	if v, j, ok := s.number(s.i+1, allow...); ok {
		s.facts = s.facts.With(k, rect.Single(v))
		s.i = j
	}
}

// angle decides between the side/diagonal angle and the angle between the
// diagonals by looking for a side mention around the keyword.
func (s *scan) angle() {
	target := rect.TargetDiagonalDiagonalAngle
	if s.near(kw.Side, kw.Pronoun) {
		target = rect.TargetSideXDiagonalAngle
	}
	if s.inTarget {
		s.target(target)
		s.skipQualifiers()
		return
	}
	s.scalar(target, kw.Diagonal)
}

var angleQualifiers = map[string]bool{
	kw.Diagonal:  true,
	kw.Side:      true,
	kw.Intersect: true,
	kw.Pronoun:   true,
}

// skipQualifiers moves past "between the diagonal and the side" so the
// qualifying words are not read as targets of their own.
func (s *scan) skipQualifiers() {
	last := s.i
	for j := s.i + 1; j < len(s.tokens) && j <= s.i+lookaheadWindow; j++ {
		tok := s.tokens[j]
		if IsNumber(tok) || (bindingKeywords[tok] && !angleQualifiers[tok]) {
			break
		}
		if angleQualifiers[tok] {
			last = j
		}
	}
	s.i = last
}

func (s *scan) extremeSide(smaller bool) {
	target := rect.TargetBiggerSide
	if smaller {
		target = rect.TargetSmallerSide
	}
	skip := s.i + 1 < len(s.tokens) && s.tokens[s.i+1] == kw.Side

	if s.inTarget {
		s.target(target)
	} else if v, j, ok := s.number(s.i + 1); ok {
		k, _ := target.Trait()
		s.facts = s.facts.With(k, rect.Single(v))
		switch {
		case !s.facts.SideX.Known():
			s.facts.SideX = rect.Known(v)
		case !s.facts.SideY.Known():
			s.facts.SideY = rect.Known(v)
		}
		s.i = j
		return
	}
	if skip {
		s.i++
	}
}

func (s *scan) side() {
	if s.inTarget {
		s.target(rect.Sides)
		return
	}
	x, j, ok := s.number(s.i + 1)
	if !ok {
		return
	}
	if !s.facts.SideX.Known() {
		s.facts.SideX = rect.Known(x)
	} else if !s.facts.SideY.Known() {
		s.facts.SideY = rect.Known(x)
	}
	s.i = j
	if y, k, ok := s.number(j + 1); ok && !s.facts.SideY.Known() {
		s.facts.SideY = rect.Known(y)
		s.i = k
	}
}

func (s *scan) target(t rect.Target) {
	if !s.seen[t] {
		s.seen[t] = true
		s.targets = append(s.targets, t)
	}
}

// number finds the next number within the window, giving up at a binding
// keyword that is not in allow.
func (s *scan) number(from int, allow ...string) (float64, int, bool) {
	for j := from; j < len(s.tokens) && j < from+s.window; j++ {
		tok := s.tokens[j]
		if v, ok := ParseNumber(tok); ok {
			return v, j, true
		}
		if bindingKeywords[tok] && !contains(allow, tok) {
			return 0, 0, false
		}
	}
	return 0, 0, false
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func (s *scan) twoNumbers(from int, allow ...string) (float64, float64, int, bool) {
	a, i, ok := s.number(from, allow...)
	if !ok {
		return 0, 0, 0, false
	}
	b, j, ok := s.number(i + 1)
	if !ok {
		return 0, 0, 0, false
	}
	return a, b, j, true
}

// ahead reports whether word appears before the next number or binding
// keyword other than word itself.
func (s *scan) ahead(word string, from int) (int, bool) {
	for j := from; j < len(s.tokens) && j < from+lookaheadWindow; j++ {
		tok := s.tokens[j]
		if tok == word {
			return j, true
		}
		if IsNumber(tok) || bindingKeywords[tok] {
			return 0, false
		}
	}
	return 0, false
}

func (s *scan) aheadAny(from int, words ...string) bool {
	for _, w := range words {
		if _, ok := s.ahead(w, from); ok {
			return true
		}
	}
	return false
}

// circleQualified reports whether the keyword at i refers to the
// circumscribed circle: "circle area", "area of the circle".
func (s *scan) circleQualified() bool {
	for j := s.i - 1; j >= 0 && j >= s.i-2; j-- {
		if s.tokens[j] == kw.Circle {
			return true
		}
		if IsNumber(s.tokens[j]) || bindingKeywords[s.tokens[j]] {
			break
		}
	}
	return s.aheadAny(s.i+1, kw.Circle)
}

// near reports whether any of words occurs within a few tokens of i without
// crossing a number.
func (s *scan) near(words ...string) bool {
	want := make(map[string]bool, len(words))
	for _, w := range words {
		want[w] = true
	}
	for j := s.i - 1; j >= 0 && j >= s.i-3; j-- {
		if IsNumber(s.tokens[j]) {
			break
		}
		if want[s.tokens[j]] {
			return true
		}
	}
	for j := s.i + 1; j < len(s.tokens) && j <= s.i+lookaheadWindow; j++ {
		if IsNumber(s.tokens[j]) {
			break
		}
		if want[s.tokens[j]] {
			return true
		}
	}
	return false
}
