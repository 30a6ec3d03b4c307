package english

import (
	"regexp"
	"strings"

	"github.com/jusunglee/g2pk/internal/tagtext"
)

var word = regexp.MustCompile(`[A-Za-z']+`)

// Converter replaces English words with their Hangul loanword spelling.
type Converter struct {
	dict *Dictionary
}

func NewConverter(dict *Dictionary) *Converter {
	return &Converter{dict: dict}
}

// Convert spells every dictionary word in text in Hangul and tags the end of
// each replaced word as Foreign. Words missing from the dictionary are left
// as they are.
func (c *Converter) Convert(text string) tagtext.Text {
	matches := word.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return tagtext.New(text)
	}

	var b strings.Builder
	b.Grow(len(text) * 2)
	var offsets []int
	prev := 0
	for _, m := range matches {
		b.WriteString(text[prev:m[0]])
		prev = m[1]

		w := text[m[0]:m[1]]
		phonemes, ok := c.dict.Lookup(w)
		spelled := ""
		if ok {
			spelled = Spell(phonemes)
		}
		if spelled == "" {
			b.WriteString(w)
			continue
		}
		b.WriteString(spelled)
		offsets = append(offsets, b.Len())
	}
	b.WriteString(text[prev:])

	out := tagtext.New(b.String())
	for _, off := range offsets {
		out = out.Insert(off, tagtext.Foreign)
	}
	return out
}
