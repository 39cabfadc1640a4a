package ingest

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

type unitConversion struct {
	unit   string
	factor float64
	to     string
}

// Lengths go to centimetres, areas to square centimetres.
var unitTable = []unitConversion{
	{"km²", 1e10, "cm²"}, {"km^2", 1e10, "cm²"},
	{"dm²", 100, "cm²"}, {"dm^2", 100, "cm²"},
	{"mm²", 0.01, "cm²"}, {"mm^2", 0.01, "cm²"},
	{"m²", 1e4, "cm²"}, {"m^2", 1e4, "cm²"},
	{"km", 1e5, "cm"},
	{"dm", 10, "cm"},
	{"mm", 0.1, "cm"},
	{"m", 100, "cm"},
	{"км²", 1e10, "см²"},
	{"дм²", 100, "см²"},
	{"мм²", 0.01, "см²"},
	{"м²", 1e4, "см²"},
	{"км", 1e5, "см"},
	{"дм", 10, "см"},
	{"мм", 0.1, "см"},
	{"м", 100, "см"},
}

type unitPattern struct {
	re   *regexp.Regexp
	conv unitConversion
}

var unitPatterns = compileUnits(unitTable)

func compileUnits(table []unitConversion) []unitPattern {
	sorted := append([]unitConversion(nil), table...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i].unit) > len(sorted[j].unit) })

	out := make([]unitPattern, len(sorted))
	for i, c := range sorted {
		out[i] = unitPattern{
			re:   regexp.MustCompile(`(\d+(?:\.\d+)?)\s*` + regexp.QuoteMeta(c.unit) + `([^\p{L}\p{N}²^]|$)`),
			conv: c,
		}
	}
	return out
}

var (
	decimalComma   = regexp.MustCompile(`(\d),(\d)`)
	decimalPoint   = regexp.MustCompile(`(\d)\.(\d)`)
	protectedPoint = regexp.MustCompile(`(\d)_(\d)`)
	ratioColon     = regexp.MustCompile(`(\d)\s*:\s*(\d)`)
	conditionRes   = []*regexp.Regexp{
		regexp.MustCompile(`\bif\b[^.?!]*[.?!]?`),
		regexp.MustCompile(`якщо[^.?!]*[.?!]?`),
	}
)

// Normalize prepares task text for tokenization: it lowercases, unifies
// decimal separators, optionally converts metric units to centimetres,
// splits "3:4" into "3 : 4" and moves the first "if ..." clause to the
// front so that facts precede the question.
func Normalize(text string, convertUnits bool) string {
	out := strings.ToLower(text)
	out = decimalComma.ReplaceAllString(out, "${1}.${2}")

	if convertUnits {
		for _, p := range unitPatterns {
			out = convertUnit(out, p)
		}
	}

	out = ratioColon.ReplaceAllString(out, "${1} : ${2}")

	out = decimalPoint.ReplaceAllString(out, "${1}_${2}")
	out = moveConditionToStart(out)
	return protectedPoint.ReplaceAllString(out, "${1}.${2}")
}

func convertUnit(text string, p unitPattern) string {
	return p.re.ReplaceAllStringFunc(text, func(match string) string {
		sub := p.re.FindStringSubmatch(match)
		v, err := strconv.ParseFloat(sub[1], 64)
		if err != nil {
			return match
		}
		v = math.Round(v*p.conv.factor*1e6) / 1e6
		return strconv.FormatFloat(v, 'f', -1, 64) + " " + p.conv.to + sub[2]
	})
}

func moveConditionToStart(text string) string {
	for _, re := range conditionRes {
		loc := re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		if loc[0] == 0 {
			return text
		}
		condition := strings.TrimSpace(text[loc[0]:loc[1]])
		rest := strings.TrimSpace(text[:loc[0]] + text[loc[1]:])
		return condition + ", " + rest
	}
	return text
}
