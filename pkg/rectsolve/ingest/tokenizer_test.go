package ingest

import (
	"slices"
	"testing"

	"github.com/cognicore/rectsolve/pkg/rectsolve/lexicon"
)

func TestTokenizerKeepsNumbers(t *testing.T) {
	tokenizer := NewTokenizer(nil)

	tokens := tokenizer.Tokenize("sides 2.5 and 4,5 cm")
	want := []string{"sides", "2.5", "and", "4.5", "cm"}
	if !slices.Equal(tokens, want) {
		t.Errorf("Tokenize() = %v, want %v", tokens, want)
	}
}

func TestTokenizerSeparators(t *testing.T) {
	tokenizer := NewTokenizer(nil)

	tests := []struct {
		input string
		want  []string
	}{
		{"3 : 4", []string{"3", "4"}},
		{"x,y side", []string{"side"}},
		{"rectangle's side", []string{"rectangle's", "side"}},
		{"'quoted' word", []string{"quoted", "word"}},
		{"a b cd", []string{"cd"}},
		{"well-known --side--", []string{"well-known", "side"}},
	}
	for _, tt := range tests {
		if got := tokenizer.Tokenize(tt.input); !slices.Equal(got, tt.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestTokenizerStopwords(t *testing.T) {
	tokenizer := NewTokenizer([]string{"The"})

	if got := tokenizer.Tokenize("The side"); !slices.Equal(got, []string{"side"}) {
		t.Errorf("stopword not removed: %v", got)
	}

	tokenizer.AddStopword("side")
	if got := tokenizer.Tokenize("the side"); len(got) != 0 {
		t.Errorf("expected no tokens, got %v", got)
	}

	tokenizer.RemoveStopword("SIDE")
	if got := tokenizer.Tokenize("the side"); !slices.Equal(got, []string{"side"}) {
		t.Errorf("removed stopword still filtered: %v", got)
	}
}

func TestTokenizerLexicon(t *testing.T) {
	tokenizer := NewTokenizer(nil)
	tokenizer.SetLexicon(lexicon.Default())

	got := tokenizer.Tokenize("Сторони 6 та площу")
	want := []string{lexicon.Side, "6", "та", lexicon.Area}
	if !slices.Equal(got, want) {
		t.Errorf("Tokenize() = %v, want %v", got, want)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"12", 12, true},
		{"12.5", 12.5, true},
		{"-3", 0, false},
		{"1e5", 0, false},
		{".", 0, false},
		{"", 0, false},
		{"side", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseNumber(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseNumber(%q) = %v, %v; want %v, %v", tt.input, got, ok, tt.want, tt.ok)
		}
		if IsNumber(tt.input) != tt.ok {
			t.Errorf("IsNumber(%q) disagrees with ParseNumber", tt.input)
		}
	}
}
