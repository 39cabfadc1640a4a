// Package feasibility answers "which targets can this fact set reach?"
// before any arithmetic runs. The rule catalog is rendered as a Datalog
// program over a single derivable/1 predicate and evaluated with Mangle.
//
// The analysis over-approximates: it ignores NoSide guards and numeric
// degeneracy, so a reachable target may still end unresolved. An
// unreachable target is never derived by the resolver.
package feasibility

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	_ "github.com/google/mangle/builtin"
	"github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"
	"github.com/google/mangle/parse"

	"github.com/cognicore/rectsolve/pkg/rectsolve/rect"
	"github.com/cognicore/rectsolve/pkg/rectsolve/rules"
)

const predicate = "derivable"

var derivableSym = ast.PredicateSym{Symbol: predicate, Arity: 1}

const (
	widthName  = "/width"
	heightName = "/height"
	sidesName  = "/sides"
)

// Report lists what a fact set can reach.
type Report struct {
	Known      []string // quantity names present before evaluation
	Quantities []string // every derivable quantity name, sorted
	reachable  map[rect.Target]bool
}

// CanDerive reports whether t is reachable.
func (r Report) CanDerive(t rect.Target) bool { return r.reachable[t] }

// Unreachable filters targets down to the ones the catalog cannot reach.
func (r Report) Unreachable(targets []rect.Target) []rect.Target {
	var out []rect.Target
	for _, t := range targets {
		if !r.reachable[t] {
			out = append(out, t)
		}
	}
	return out
}

// Reachable returns the reachable targets in declaration order.
func (r Report) Reachable() []rect.Target {
	var out []rect.Target
	for _, t := range rect.AllTargets() {
		if r.reachable[t] {
			out = append(out, t)
		}
	}
	return out
}

// Analyzer holds the rendered rule program for one catalog.
type Analyzer struct {
	program string
}

// NewAnalyzer renders catalog once. A nil catalog selects rules.Default.
func NewAnalyzer(catalog *rules.Catalog) *Analyzer {
	if catalog == nil {
		catalog = rules.Default()
	}
	return &Analyzer{program: render(catalog)}
}

// Program returns the Datalog text of the catalog.
func (a *Analyzer) Program() string { return a.program }

// Analyze evaluates the catalog against what r already knows. Derived
// quantities are fed back as facts until the derivable set stops growing.
func (a *Analyzer) Analyze(r *rect.Rectangle) (Report, error) {
	known := knownNames(r)

	facts := known
	var derived map[string]bool
	for {
		next, err := a.eval(facts)
		if err != nil {
			return Report{}, err
		}
		if len(next) <= len(derived) {
			break
		}
		derived = next
		facts = facts[:0:0]
		for name := range derived {
			facts = append(facts, name)
		}
		sort.Strings(facts)
	}

	rep := Report{Known: known, reachable: make(map[rect.Target]bool)}
	for name := range derived {
		rep.Quantities = append(rep.Quantities, name)
	}
	sort.Strings(rep.Quantities)
	for _, t := range rect.AllTargets() {
		rep.reachable[t] = derived[targetName(t)]
	}
	return rep, nil
}

// eval runs one Mangle evaluation of the program over facts and returns
// every derivable name, facts included.
func (a *Analyzer) eval(facts []string) (map[string]bool, error) {
	var src strings.Builder
	src.WriteString(a.program)
	for _, name := range facts {
		fmt.Fprintf(&src, "%s(%s).\n", predicate, name)
	}

	unit, err := parse.Unit(strings.NewReader(src.String()))
	if err != nil {
		return nil, fmt.Errorf("parse feasibility program: %w", err)
	}
	info, err := analysis.AnalyzeOneUnit(unit, nil)
	if err != nil {
		return nil, fmt.Errorf("analyze feasibility program: %w", err)
	}
	store := factstore.NewSimpleInMemoryStore()
	if _, err := engine.EvalProgramWithStats(info, store); err != nil {
		return nil, fmt.Errorf("evaluate feasibility program: %w", err)
	}

	derived := make(map[string]bool, len(facts))
	for _, name := range facts {
		derived[name] = true
	}
	err = store.GetFacts(ast.NewQuery(derivableSym), func(atom ast.Atom) error {
		if len(atom.Args) != 1 {
			return nil
		}
		if c, ok := atom.Args[0].(ast.Constant); ok && c.Type == ast.NameType {
			derived[c.Symbol] = true
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read derivable facts: %w", err)
	}
	return derived, nil
}

// Analyze is a one-shot helper over a fresh Analyzer.
func Analyze(catalog *rules.Catalog, r *rect.Rectangle) (Report, error) {
	return NewAnalyzer(catalog).Analyze(r)
}

func render(catalog *rules.Catalog) string {
	seen := make(map[string]bool)
	var clauses []string
	add := func(c string) {
		if !seen[c] {
			seen[c] = true
			clauses = append(clauses, c)
		}
	}

	add(fmt.Sprintf("%s(%s) :- %s(%s), %s(%s).", predicate, sidesName, predicate, widthName, predicate, heightName))
	for _, ru := range catalog.Rules() {
		for _, body := range expandNeeds(ru.Needs) {
			for _, y := range ru.Yields {
				head := inputName(y)
				if head == "" || contains(body, head) {
					continue
				}
				atoms := make([]string, len(body))
				for i, b := range body {
					atoms[i] = fmt.Sprintf("%s(%s)", predicate, b)
				}
				add(fmt.Sprintf("%s(%s) :- %s.", predicate, head, strings.Join(atoms, ", ")))
			}
		}
	}
	sort.Strings(clauses)

	var b strings.Builder
	b.WriteString("# rule catalog as reachability clauses\n")
	for _, c := range clauses {
		b.WriteString(c)
		b.WriteByte('\n')
	}
	return b.String()
}

// expandNeeds turns declared needs into alternative clause bodies.
// AnySide forks into a width body and a height body; NoSide is dropped.
func expandNeeds(needs []rules.Input) [][]string {
	bodies := [][]string{nil}
	for _, n := range needs {
		switch {
		case n.IsNegative():
			continue
		case n.IsSideAlternative():
			var next [][]string
			for _, b := range bodies {
				next = append(next, appendCopy(b, widthName), appendCopy(b, heightName))
			}
			bodies = next
		default:
			name := inputName(n)
			for i := range bodies {
				bodies[i] = append(bodies[i], name)
			}
		}
	}
	var out [][]string
	for _, b := range bodies {
		if len(b) > 0 {
			out = append(out, b)
		}
	}
	return out
}

func inputName(in rules.Input) string {
	if k, ok := in.TraitKey(); ok {
		return "/" + snake(k.String())
	}
	switch in {
	case rules.Width:
		return widthName
	case rules.Height:
		return heightName
	}
	return ""
}

func targetName(t rect.Target) string {
	if t == rect.Sides {
		return sidesName
	}
	k, _ := t.Trait()
	return "/" + snake(k.String())
}

func knownNames(r *rect.Rectangle) []string {
	var out []string
	if r.Width.Known() {
		out = append(out, widthName)
	}
	if r.Height.Known() {
		out = append(out, heightName)
	}
	for _, k := range r.Keys() {
		out = append(out, "/"+snake(k.String()))
	}
	return out
}

func snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func appendCopy(s []string, v string) []string {
	out := make([]string, len(s), len(s)+1)
	copy(out, s)
	return append(out, v)
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
