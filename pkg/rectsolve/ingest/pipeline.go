package ingest

import (
	"github.com/cognicore/rectsolve/pkg/rectsolve/lexicon"
)

// Pipeline turns a task statement into facts and targets.
type Pipeline struct {
	tokenizer *Tokenizer
	parser    *MultiTokenParser
	extractor *Extractor
	units     bool
}

// NewPipeline creates a pipeline with unit conversion enabled.
func NewPipeline(tokenizer *Tokenizer, parser *MultiTokenParser, extractor *Extractor) *Pipeline {
	return &Pipeline{
		tokenizer: tokenizer,
		parser:    parser,
		extractor: extractor,
		units:     true,
	}
}

// DefaultPipeline wires the built-in lexicon and stopwords.
func DefaultPipeline() *Pipeline {
	return NewPipeline(NewTokenizer(DefaultStopwords()), ParserFromLexicon(lexicon.Default()), NewExtractor())
}

// SetUnitConversion toggles conversion of metric units to centimetres.
func (p *Pipeline) SetUnitConversion(enabled bool) {
	p.units = enabled
}

// Process normalizes, tokenizes, canonicalizes and extracts.
func (p *Pipeline) Process(text string) Task {
	normalized := Normalize(text, p.units)
	tokens := p.tokenizer.Tokenize(normalized)
	if p.parser != nil {
		tokens = p.parser.Parse(tokens)
	}
	return p.extractor.Extract(tokens)
}

// ProcessHTML strips markup before processing.
func (p *Pipeline) ProcessHTML(text string) Task {
	return p.Process(StripHTML(text))
}
