// Package transliteration romanizes pronounced Korean.
//
// Input is expected to be the output of the pronunciation pipeline, either
// composed or as conjoining jamo. Because sound changes have already been
// applied, letters map to sounds without further context except for ㄹㄹ.
package transliteration

import (
	"strings"

	"github.com/jusunglee/g2pk/internal/jamo"
)

// Romanize converts text to Revised Romanization. Runes that are not
// Hangul pass through.
func Romanize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	prev := rune(0)
	for _, r := range jamo.Decompose(text) {
		switch {
		case jamo.IsOnset(r):
			roman := onsetRoman[r-firstOnset]
			switch {
			case r == onsetR && prev == codaL:
				roman = "l"
			case jamo.IsCoda(prev) && isDoubled(roman) && codaRoman[prev-firstCoda] == roman[:1]:
				// 읻따 is itta, not ittta
				roman = roman[1:]
			}
			b.WriteString(roman)
		case jamo.IsNucleus(r):
			b.WriteString(nucleusRoman[r-firstNucleus])
		case jamo.IsCoda(r):
			b.WriteString(codaRoman[r-firstCoda])
		default:
			b.WriteRune(r)
		}
		prev = r
	}
	return b.String()
}

// isDoubled reports whether roman spells a tense onset (kk, tt, pp, ss, jj).
func isDoubled(roman string) bool {
	return len(roman) == 2 && roman[0] == roman[1]
}
