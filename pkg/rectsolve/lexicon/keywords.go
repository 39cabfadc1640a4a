package lexicon

// Canonical keywords understood by the fact extractor.
const (
	Perimeter     = "perimeter"
	Area          = "area"
	Diagonal      = "diagonal"
	Angle         = "angle"
	Ratio         = "ratio"
	Side          = "side"
	Smaller       = "smaller"
	Bigger        = "bigger"
	Distance      = "distance"
	Radius        = "radius"
	Diameter      = "diameter"
	Circumference = "circumference"
	Circle        = "circle"
	Intersect     = "intersect"
	Find          = "find"
	Pronoun       = "it"
)

var defaultGroups = []Group{
	{Perimeter, []string{"perimeters", "периметр", "периметра", "периметру", "периметром"}},
	{Area, []string{"areas", "площа", "площі", "площу", "площею"}},
	{Diagonal, []string{"diagonals", "діагональ", "діагоналі", "діагоналлю", "діагоналей"}},
	{Angle, []string{"angles", "кут", "кута", "куту", "кутом"}},
	{Ratio, []string{
		"ratios", "proportion", "proportional", "relate", "related",
		"відноситися", "відносяться", "співвідношення", "відношення",
	}},
	{Side, []string{"sides", "сторона", "сторони", "сторону", "стороною", "сторін"}},
	{Smaller, []string{
		"smallest", "shorter", "shortest", "lesser",
		"менший", "менша", "меншу", "меншої",
	}},
	{Bigger, []string{
		"biggest", "larger", "largest", "longer", "longest", "greater",
		"більший", "більша", "більшу", "більшої",
	}},
	{Distance, []string{"distances", "відстань", "відстані"}},
	{Radius, []string{"radii", "радіус", "радіуса", "радіусу"}},
	{Diameter, []string{"diameters", "діаметр", "діаметер", "діаметра"}},
	{Circumference, []string{"circle length", "довжина", "довжину"}},
	{Circle, []string{
		"circumscribed circle", "circumcircle", "circles",
		"коло", "кола", "колу", "описане коло", "описаного кола",
	}},
	{Intersect, []string{"intersection", "intersecting", "перетинатися", "перетинаються", "перетину"}},
	{Find, []string{
		"calculate", "compute", "determine", "what",
		"обчислити", "обчисліть", "знайти", "знайдіть",
	}},
	{Pronoun, []string{"вона", "воно"}},
}

// Default returns the built-in English and Ukrainian keyword lexicon.
func Default() *Lexicon {
	lex := New()
	for _, g := range defaultGroups {
		lex.AddSynonymGroup(g.Canonical, g.Variants)
	}
	return lex
}
