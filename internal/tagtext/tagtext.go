// Package tagtext carries boundary tags alongside a working string.
//
// Tags are stored as (offset, kind) pairs rather than inside the string.
// While a rule is being matched the tags are rendered as reserved Unicode
// noncharacters so that patterns can refer to them; the result is parsed back
// into a plain string plus tags. Sanitize removes those code points from raw
// input, so rendered markers can never be confused with real content.
package tagtext

import (
	"slices"
	"strings"
)

type Kind uint8

const (
	Particle   Kind = iota + 1 // J: possessive particle 의
	Classifier                 // B: bound noun after a numeral
	Stem                       // P: predicate stem before a consonant ending
	Modifier                   // E: ㄹ adnominal ending
	Foreign                    // F: transliterated foreign word
)

var codes = map[Kind]byte{
	Particle:   'J',
	Classifier: 'B',
	Stem:       'P',
	Modifier:   'E',
	Foreign:    'F',
}

// Kinds lists every tag kind in a fixed order.
var Kinds = []Kind{Particle, Classifier, Stem, Modifier, Foreign}

const markerBase = 0xFDD0

func (k Kind) Code() byte {
	return codes[k]
}

func (k Kind) String() string {
	if c, ok := codes[k]; ok {
		return string(c)
	}
	return "?"
}

// Marker is the rune a tag of kind k is rendered as while matching.
func (k Kind) Marker() rune {
	return rune(markerBase + int(k))
}

// KindForCode maps a tag letter such as 'J' back to its kind.
func KindForCode(c byte) (Kind, bool) {
	for k, code := range codes {
		if code == c {
			return k, true
		}
	}
	return 0, false
}

func kindForMarker(r rune) (Kind, bool) {
	k := Kind(r - markerBase)
	if r < markerBase || r > markerBase+0x1F {
		return 0, false
	}
	_, ok := codes[k]
	return k, ok
}

func isReserved(r rune) bool {
	return r >= 0xFDD0 && r <= 0xFDEF
}

// Sanitize strips the reserved code points used for tag rendering.
func Sanitize(s string) string {
	if !strings.ContainsFunc(s, isReserved) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if isReserved(r) {
			return -1
		}
		return r
	}, s)
}

// Tag marks the position right after a tagged span. Offset is a byte offset
// into Text.S.
type Tag struct {
	Offset int
	Kind   Kind
}

type Text struct {
	S    string
	Tags []Tag
}

func New(s string) Text {
	return Text{S: s}
}

// Insert returns a copy of t with a tag added at offset. Tags at the same
// offset keep insertion order.
func (t Text) Insert(offset int, kind Kind) Text {
	tags := make([]Tag, 0, len(t.Tags)+1)
	tags = append(tags, t.Tags...)
	tags = append(tags, Tag{Offset: offset, Kind: kind})
	slices.SortStableFunc(tags, func(a, b Tag) int { return a.Offset - b.Offset })
	return Text{S: t.S, Tags: tags}
}

func (t Text) Has(kind Kind) bool {
	return slices.ContainsFunc(t.Tags, func(tag Tag) bool { return tag.Kind == kind })
}

// HasAt reports whether a tag of kind sits exactly at offset.
func (t Text) HasAt(offset int, kind Kind) bool {
	return slices.Contains(t.Tags, Tag{Offset: offset, Kind: kind})
}

// Strip drops tags of the given kinds, or every tag when none are given.
func (t Text) Strip(kinds ...Kind) Text {
	if len(kinds) == 0 {
		return Text{S: t.S}
	}
	tags := make([]Tag, 0, len(t.Tags))
	for _, tag := range t.Tags {
		if !slices.Contains(kinds, tag.Kind) {
			tags = append(tags, tag)
		}
	}
	return Text{S: t.S, Tags: tags}
}

// Render writes the string with every tag as its marker rune.
func (t Text) Render() string {
	return t.render(func(b *strings.Builder, k Kind) { b.WriteRune(k.Marker()) })
}

// Display writes the string with tags as "/J"-style suffixes, for traces.
func (t Text) Display() string {
	return t.render(func(b *strings.Builder, k Kind) {
		b.WriteByte('/')
		b.WriteByte(k.Code())
	})
}

func (t Text) render(write func(*strings.Builder, Kind)) string {
	if len(t.Tags) == 0 {
		return t.S
	}
	var b strings.Builder
	b.Grow(len(t.S) + len(t.Tags)*3)
	prev := 0
	for _, tag := range t.Tags {
		off := min(max(tag.Offset, prev), len(t.S))
		b.WriteString(t.S[prev:off])
		write(&b, tag.Kind)
		prev = off
	}
	b.WriteString(t.S[prev:])
	return b.String()
}

// Parse is the inverse of Render.
func Parse(rendered string) Text {
	if !strings.ContainsFunc(rendered, isReserved) {
		return Text{S: rendered}
	}
	var b strings.Builder
	b.Grow(len(rendered))
	var tags []Tag
	for _, r := range rendered {
		if k, ok := kindForMarker(r); ok {
			tags = append(tags, Tag{Offset: b.Len(), Kind: k})
			continue
		}
		if isReserved(r) {
			continue
		}
		b.WriteRune(r)
	}
	return Text{S: b.String(), Tags: tags}
}

// Map applies fn to the rendered form of t and parses the result, so fn may
// match, move or consume tags.
func (t Text) Map(fn func(string) string) Text {
	return Parse(fn(t.Render()))
}
