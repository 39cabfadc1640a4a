package config

import (
	"fmt"

	"github.com/cognicore/rectsolve/pkg/rectsolve/ingest"
	"github.com/cognicore/rectsolve/pkg/rectsolve/lexicon"
)

// Loader loads all configuration files and constructs components. Empty
// paths fall back to the ones named in the config file.
type Loader struct {
	ConfigPath   string
	StoplistPath string
	LexiconPath  string
	DictPath     string
}

// Components holds all loaded configuration components
type Components struct {
	Config    Config
	Tokenizer *ingest.Tokenizer
	Parser    *ingest.MultiTokenParser
	Lexicon   *lexicon.Lexicon
	Extractor *ingest.Extractor
	Pipeline  *ingest.Pipeline
}

// Load reads all configuration files and returns initialized components
func (l *Loader) Load() (*Components, error) {
	comp := &Components{Config: Default()}

	if l.ConfigPath != "" {
		cfg, err := Load(l.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		comp.Config = cfg
	}
	in := comp.Config.Ingest

	stoplistPath := firstNonEmpty(l.StoplistPath, in.Stoplist)
	if stoplistPath != "" {
		stoplist, err := LoadStoplist(stoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		comp.Tokenizer = ingest.NewTokenizer(stoplist.Terms)
	} else {
		comp.Tokenizer = ingest.NewTokenizer(ingest.DefaultStopwords())
	}

	comp.Lexicon = lexicon.Default()
	if path := firstNonEmpty(l.LexiconPath, in.Lexicon); path != "" {
		extra, err := lexicon.LoadFromYAML(path)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		comp.Lexicon.Merge(extra)
	}

	groups := comp.Lexicon.Groups()
	entries := make([]ingest.DictEntry, 0, len(groups))
	for _, g := range groups {
		entries = append(entries, ingest.DictEntry{Canonical: g.Canonical, Category: "keyword", Variants: g.Variants})
	}
	if path := firstNonEmpty(l.DictPath, in.Dict); path != "" {
		dict, err := LoadDict(path)
		if err != nil {
			return nil, fmt.Errorf("load dictionary: %w", err)
		}
		for _, e := range dict.Entries {
			entries = append(entries, ingest.DictEntry{
				Canonical: e.Canonical,
				Variants:  e.Variants,
				Category:  e.Category,
			})
		}
	}
	comp.Parser = ingest.NewMultiTokenParser(entries)

	comp.Extractor = ingest.NewExtractor()
	comp.Extractor.SetNumberWindow(in.NumberWindow)

	comp.Pipeline = ingest.NewPipeline(comp.Tokenizer, comp.Parser, comp.Extractor)
	comp.Pipeline.SetUnitConversion(in.Units)

	return comp, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
