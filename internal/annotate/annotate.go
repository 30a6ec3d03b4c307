// Package annotate marks the few morpheme boundaries that later rules need.
//
// It does not parse morphology. Every cue is a lexical or orthographic test
// over whitespace-separated Hangul words, and all word lists come from the
// cue file.
package annotate

import (
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/jusunglee/g2pk/internal/jamo"
	"github.com/jusunglee/g2pk/internal/tagtext"
)

// Cues is the contents of the cue file.
type Cues struct {
	BoundNouns []string `yaml:"bound_nouns"`
	Particle   struct {
		Syllable   string   `yaml:"syllable"`
		Exceptions []string `yaml:"exceptions"`
	} `yaml:"particle"`
	Stems struct {
		Simple  []string `yaml:"simple"`
		Endings []string `yaml:"endings"`
	} `yaml:"stems"`
	Modifier struct {
		DependentNouns []string `yaml:"dependent_nouns"`
	} `yaml:"modifier"`
}

func ParseCues(r io.Reader) (Cues, error) {
	var c Cues
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		return Cues{}, fmt.Errorf("decoding cues: %w", err)
	}
	if utf8.RuneCountInString(c.Particle.Syllable) != 1 {
		return Cues{}, fmt.Errorf("cues: particle syllable must be a single syllable, got %q", c.Particle.Syllable)
	}
	return c, nil
}

// complex codas that only occur in predicate stems before a consonant ending
var stemCodas = []rune{'ᆬ', 'ᆱ', 'ᆲ', 'ᆴ', 'ᆰ'}

var (
	classifierRun = regexp.MustCompile(`[0-9][0-9,]*(\s*)(\p{Hangul}+)`)
	hangulRun     = regexp.MustCompile(`\p{Hangul}+`)
)

type Annotator struct {
	boundNouns     []string
	particle       string
	exceptions     map[string]bool
	simpleStems    map[string]bool
	endings        []string
	dependentNouns []string
}

// New builds an annotator. Word lists are deduplicated and prefix lists are
// ordered longest first so the longest candidate always wins.
func New(c Cues) *Annotator {
	return &Annotator{
		boundNouns:     longestFirst(c.BoundNouns),
		particle:       c.Particle.Syllable,
		exceptions:     lo.SliceToMap(c.Particle.Exceptions, func(w string) (string, bool) { return w, true }),
		simpleStems:    lo.SliceToMap(c.Stems.Simple, func(w string) (string, bool) { return w, true }),
		endings:        longestFirst(c.Stems.Endings),
		dependentNouns: longestFirst(c.Modifier.DependentNouns),
	}
}

func longestFirst(words []string) []string {
	out := lo.Uniq(lo.Compact(words))
	slices.SortStableFunc(out, func(a, b string) int {
		if d := len(b) - len(a); d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})
	return out
}

type span struct{ start, end int }

// Annotate returns text with Classifier, Particle, Stem and Modifier tags
// added. Existing tags are kept; Foreign tags suppress the word-level cues
// on the word they close.
func (a *Annotator) Annotate(text tagtext.Text) tagtext.Text {
	out := text
	s := text.S

	for _, m := range classifierRun.FindAllStringSubmatchIndex(s, -1) {
		wordStart, wordEnd := m[4], m[5]
		end := wordEnd
		if bn, ok := a.boundNounPrefix(s[wordStart:wordEnd]); ok {
			end = wordStart + len(bn)
		}
		out = out.Insert(end, tagtext.Classifier)
	}

	runs := lo.Map(hangulRun.FindAllStringIndex(s, -1), func(m []int, _ int) span {
		return span{m[0], m[1]}
	})
	for i, r := range runs {
		if foreign(text, r) {
			continue
		}
		word := s[r.start:r.end]

		if a.isParticle(word) {
			out = out.Insert(r.end, tagtext.Particle)
		}
		if stem, ok := a.stem(word); ok {
			out = out.Insert(r.start+len(stem), tagtext.Stem)
		}
		if i+1 < len(runs) && s[r.end:runs[i+1].start] == " " && a.isModifier(word, s[runs[i+1].start:runs[i+1].end]) {
			out = out.Insert(r.end, tagtext.Modifier)
		}
	}
	return out
}

func foreign(text tagtext.Text, r span) bool {
	return slices.ContainsFunc(text.Tags, func(t tagtext.Tag) bool {
		return t.Kind == tagtext.Foreign && t.Offset > r.start && t.Offset <= r.end
	})
}

func (a *Annotator) boundNounPrefix(word string) (string, bool) {
	return lo.Find(a.boundNouns, func(bn string) bool {
		return strings.HasPrefix(word, bn)
	})
}

func (a *Annotator) isParticle(word string) bool {
	return utf8.RuneCountInString(word) >= 2 &&
		strings.HasSuffix(word, a.particle) &&
		!a.exceptions[word]
}

// stem splits word into a predicate stem and a listed consonant ending.
func (a *Annotator) stem(word string) (string, bool) {
	for _, ending := range a.endings {
		stem, ok := strings.CutSuffix(word, ending)
		if !ok || stem == "" {
			continue
		}
		if a.simpleStems[stem] || slices.Contains(stemCodas, lastCoda(stem)) {
			return stem, true
		}
	}
	return "", false
}

func (a *Annotator) isModifier(word, next string) bool {
	if lastCoda(word) != 'ᆯ' {
		return false
	}
	return lo.ContainsBy(a.dependentNouns, func(n string) bool {
		return strings.HasPrefix(next, n)
	})
}

func lastCoda(word string) rune {
	r, _ := utf8.DecodeLastRuneInString(word)
	s, ok := jamo.Split(r)
	if !ok {
		return 0
	}
	return s.Coda
}
