// Package g2p converts Korean text to its pronunciation.
//
// An Engine is loaded once from the definition data and is then read-only,
// so a single Engine may serve any number of goroutines.
package g2p

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"github.com/jusunglee/g2pk/internal/annotate"
	"github.com/jusunglee/g2pk/internal/english"
	"github.com/jusunglee/g2pk/internal/idiom"
	"github.com/jusunglee/g2pk/internal/jamo"
	"github.com/jusunglee/g2pk/internal/numeral"
	"github.com/jusunglee/g2pk/internal/resources"
	"github.com/jusunglee/g2pk/internal/rules"
	"github.com/jusunglee/g2pk/internal/tagtext"
)

// Stage names used in trace records for steps without a rule table.
const (
	StageIdioms   = "idioms"
	StageEnglish  = "english"
	StageNumerals = "numerals"
)

type Options struct {
	// Descriptive selects casual-speech variants in the special table.
	Descriptive bool
	// Verbose collects a trace of every step.
	Verbose bool
	// GroupVowels merges vowels that are no longer distinguished in speech.
	GroupVowels bool
	// ToSyllable composes the result back into syllable blocks.
	ToSyllable bool
}

func DefaultOptions() Options {
	return Options{ToSyllable: true}
}

func (o Options) mode() rules.Mode {
	if o.Descriptive {
		return rules.Descriptive
	}
	return rules.Prescriptive
}

type Result struct {
	Text string
	// Trace is nil unless Options.Verbose was set.
	Trace *rules.Trace
	// Cached is set when the text came from a store instead of the pipeline.
	Cached bool
}

type Engine struct {
	idioms    *idiom.Dictionary
	english   *english.Converter
	annotator *annotate.Annotator
	numerals  *numeral.Converter
	special   *rules.Table
	main      *rules.Table
	link      *rules.Table
	glosses   rules.Glosses
}

// Load builds an engine from the embedded definition data.
func Load(log *slog.Logger) (*Engine, error) {
	return LoadFS(resources.FS(), log)
}

// LoadFS builds an engine from the files named in resources.Files. Any
// malformed rule, idiom or cue is returned as an error.
func LoadFS(fsys fs.FS, log *slog.Logger) (*Engine, error) {
	if log == nil {
		log = slog.Default()
	}
	e := &Engine{}

	var err error
	if e.special, err = loadTable(fsys, resources.SpecialTable); err != nil {
		return nil, err
	}
	if e.main, err = loadTable(fsys, resources.MainTable); err != nil {
		return nil, err
	}
	if e.link, err = loadTable(fsys, resources.LinkTable); err != nil {
		return nil, err
	}

	err = read(fsys, resources.Glosses, func(r io.Reader) (err error) {
		e.glosses, err = rules.ParseGlosses(r)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = read(fsys, resources.Idioms, func(r io.Reader) (err error) {
		e.idioms, err = idiom.Load(r)
		return err
	})
	if err != nil {
		return nil, err
	}

	var cues annotate.Cues
	err = read(fsys, resources.Cues, func(r io.Reader) (err error) {
		cues, err = annotate.ParseCues(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	e.annotator = annotate.New(cues)
	e.numerals = numeral.NewConverter(cues.BoundNouns)

	var dict *english.Dictionary
	var stats english.Stats
	err = read(fsys, resources.Dictionary, func(r io.Reader) (err error) {
		dict, stats, err = english.ParseDictionary(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	e.english = english.NewConverter(dict)

	log.Debug("loaded pronunciation data",
		"special", e.special.Len(),
		"main", e.main.Len(),
		"link", e.link.Len(),
		"glosses", len(e.glosses),
		"idioms", e.idioms.Len(),
		"bound_nouns", len(cues.BoundNouns),
		"dictionary_words", stats.UniqueWords,
	)
	return e, nil
}

func read(fsys fs.FS, name string, parse func(io.Reader) error) error {
	f, err := fsys.Open(name)
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()
	if err := parse(f); err != nil {
		return fmt.Errorf("loading %s: %w", name, err)
	}
	return nil
}

func loadTable(fsys fs.FS, name string) (*rules.Table, error) {
	var t *rules.Table
	err := read(fsys, name, func(r io.Reader) (err error) {
		t, err = rules.ParseTable(name, r)
		return err
	})
	return t, err
}

// Transcribe returns the pronunciation of text. It never fails: anything the
// pipeline cannot handle is passed through.
func (e *Engine) Transcribe(text string, opts Options) Result {
	var trace *rules.Trace
	if opts.Verbose {
		trace = &rules.Trace{}
	}
	mode := opts.mode()

	s := width.Fold.String(norm.NFC.String(tagtext.Sanitize(text)))

	idiomatic := e.idioms.Replace(s)
	trace.Stage(StageIdioms, s, idiomatic)

	t := e.english.Convert(idiomatic)
	trace.Stage(StageEnglish, idiomatic, t.Display())

	t = e.annotator.Annotate(t)
	annotated := t.Display()
	t = e.numerals.Convert(t)
	trace.Stage(StageNumerals, annotated, t.Display())

	// Particle, Stem and Modifier tags stay through the special table,
	// which is the only one written against them.
	t = t.Strip(tagtext.Classifier, tagtext.Foreign)
	t = t.Map(jamo.Decompose)
	t = e.special.Apply(t, mode, e.glosses, trace)
	t = t.Strip()

	t = e.main.Apply(t, mode, e.glosses, trace)
	t = e.link.Apply(t, mode, e.glosses, trace)

	out := t.Strip().S
	if opts.GroupVowels {
		out = jamo.NormalizeVowels(out)
	}
	if opts.ToSyllable {
		out = jamo.Compose(out)
	}
	return Result{Text: tagtext.Sanitize(out), Trace: trace}
}
