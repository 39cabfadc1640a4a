package lexicon

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon stores keyword mappings used by the fact extractor:
// - Synonyms: different words with the same role (circumference ↔ length of circle)
// - Inflections: word forms of another language (площа ↔ площу ↔ площею)
// - Multi-tokens: phrases mapped to one keyword (circumscribed circle → circle)
//
// Every variant normalizes to exactly one canonical keyword.
type Lexicon struct {
	// canonical -> all variants (including canonical itself)
	// Example: "area" -> ["area", "площа", "площу", "площею"]
	synonyms map[string][]string

	// variant -> canonical
	reverseIndex map[string]string
}

// Group is one canonical keyword with its variants.
type Group struct {
	Canonical string
	Variants  []string
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{
		synonyms:     make(map[string][]string),
		reverseIndex: make(map[string]string),
	}
}

// LoadFromYAML loads synonym mappings from a YAML file.
//
// Expected format:
//
//	synonyms:
//	  - canonical: circle
//	    variants: [circumscribed circle, circumcircle, коло]
//	  - canonical: find
//	    variants: [calculate, compute, знайти]
//
// Multi-token variants are supported and matching is case-insensitive.
func LoadFromYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config struct {
		Synonyms []struct {
			Canonical string   `yaml:"canonical"`
			Variants  []string `yaml:"variants"`
		} `yaml:"synonyms"`
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse lexicon %s: %w", path, err)
	}

	lex := New()
	for _, entry := range config.Synonyms {
		if strings.TrimSpace(entry.Canonical) == "" {
			return nil, fmt.Errorf("parse lexicon %s: entry without canonical form", path)
		}
		lex.AddSynonymGroup(entry.Canonical, entry.Variants)
	}

	return lex, nil
}

// AddSynonymGroup adds a synonym group with a canonical form and its variants.
// The canonical form is always included as the first entry in the variants list.
// If the group already exists, old reverse index entries are cleaned up first.
func (l *Lexicon) AddSynonymGroup(canonical string, variants []string) {
	canonical = strings.ToLower(strings.TrimSpace(canonical))

	if oldVariants, exists := l.synonyms[canonical]; exists {
		for _, oldV := range oldVariants {
			delete(l.reverseIndex, oldV)
		}
	}

	normalized := make([]string, 0, len(variants)+1)
	seen := make(map[string]bool)

	normalized = append(normalized, canonical)
	seen[canonical] = true

	for _, v := range variants {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" && !seen[v] {
			normalized = append(normalized, v)
			seen[v] = true
		}
	}

	l.synonyms[canonical] = normalized

	for _, v := range normalized {
		l.reverseIndex[v] = canonical
	}
}

// Merge adds every group of other, overriding groups with the same canonical.
func (l *Lexicon) Merge(other *Lexicon) {
	if other == nil {
		return
	}
	for _, g := range other.Groups() {
		l.AddSynonymGroup(g.Canonical, g.Variants)
	}
}

// Normalize returns the canonical form of a token.
// If the token is not in the lexicon, returns the token itself.
//
// Examples:
//   - Normalize("площу") -> "area"
//   - Normalize("unknown") -> "unknown"
func (l *Lexicon) Normalize(token string) string {
	token = strings.ToLower(token)
	if canonical, ok := l.reverseIndex[token]; ok {
		return canonical
	}
	return token
}

// Lookup is Normalize that also reports whether the token is known.
func (l *Lexicon) Lookup(token string) (string, bool) {
	canonical, ok := l.reverseIndex[strings.ToLower(token)]
	return canonical, ok
}

// Variants returns all known variants of a token (including the canonical form).
// If the token is not in the lexicon, returns a slice containing only the token itself.
func (l *Lexicon) Variants(token string) []string {
	token = strings.ToLower(token)

	if variants, ok := l.synonyms[token]; ok {
		return variants
	}

	if canonical, ok := l.reverseIndex[token]; ok {
		if variants, ok := l.synonyms[canonical]; ok {
			return variants
		}
	}

	return []string{token}
}

// HasSynonyms returns true if the token has synonyms/variants in the lexicon.
func (l *Lexicon) HasSynonyms(token string) bool {
	token = strings.ToLower(token)
	_, exists := l.reverseIndex[token]
	return exists
}

// Groups returns every synonym group sorted by canonical form.
func (l *Lexicon) Groups() []Group {
	out := make([]Group, 0, len(l.synonyms))
	for canonical, variants := range l.synonyms {
		out = append(out, Group{Canonical: canonical, Variants: append([]string(nil), variants...)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Canonical < out[j].Canonical })
	return out
}

// Stats returns statistics about the lexicon contents.
func (l *Lexicon) Stats() LexiconStats {
	totalVariants := 0
	phrases := 0
	for _, variants := range l.synonyms {
		totalVariants += len(variants)
		for _, v := range variants {
			if strings.Contains(v, " ") {
				phrases++
			}
		}
	}

	return LexiconStats{
		SynonymGroups: len(l.synonyms),
		TotalVariants: totalVariants,
		Phrases:       phrases,
	}
}

// LexiconStats holds statistics about lexicon contents.
type LexiconStats struct {
	SynonymGroups int // Number of canonical forms (synonym groups)
	TotalVariants int // Total number of variants across all groups
	Phrases       int // Variants made of more than one token
}
