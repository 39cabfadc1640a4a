package ingest

import (
	"strings"

	"github.com/cognicore/rectsolve/pkg/rectsolve/lexicon"
)

// DictEntry maps a canonical keyword to the phrases that mean it.
type DictEntry struct {
	Canonical string
	Category  string
	Variants  []string
}

// MultiTokenParser replaces known phrases with their canonical keyword,
// longest phrase first. Single tokens found in the dictionary are
// canonicalized too; anything else passes through.
type MultiTokenParser struct {
	phrases map[string]string
	longest int // words in the longest known phrase
}

// NewMultiTokenParser indexes entries by canonical form and every variant.
func NewMultiTokenParser(entries []DictEntry) *MultiTokenParser {
	p := &MultiTokenParser{phrases: make(map[string]string), longest: 1}
	for _, e := range entries {
		p.index(e.Canonical, e.Canonical)
		for _, v := range e.Variants {
			p.index(v, e.Canonical)
		}
	}
	return p
}

func (p *MultiTokenParser) index(phrase, canonical string) {
	key := strings.Join(strings.Fields(strings.ToLower(phrase)), " ")
	if key == "" {
		return
	}
	p.phrases[key] = canonical
	if n := strings.Count(key, " ") + 1; n > p.longest {
		p.longest = n
	}
}

// ParserFromLexicon builds a parser whose entries are the lexicon's groups.
func ParserFromLexicon(lex *lexicon.Lexicon) *MultiTokenParser {
	groups := lex.Groups()
	entries := make([]DictEntry, len(groups))
	for i, g := range groups {
		entries[i] = DictEntry{Canonical: g.Canonical, Category: "keyword", Variants: g.Variants}
	}
	return NewMultiTokenParser(entries)
}

// Parse rewrites tokens in one greedy left-to-right pass.
func (p *MultiTokenParser) Parse(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); {
		canonical, n := p.match(tokens[i:])
		if n == 0 {
			out = append(out, tokens[i])
			i++
			continue
		}
		out = append(out, canonical)
		i += n
	}
	return out
}

// match returns the canonical form of the longest known phrase at the head
// of tokens and its length in tokens, or 0 when nothing matches.
func (p *MultiTokenParser) match(tokens []string) (string, int) {
	n := min(p.longest, len(tokens))
	for ; n >= 1; n-- {
		key := strings.ToLower(strings.Join(tokens[:n], " "))
		if canonical, ok := p.phrases[key]; ok {
			return canonical, n
		}
	}
	return "", 0
}
