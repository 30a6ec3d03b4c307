// Package jamo converts Hangul syllable blocks to and from conjoining jamo
// (onset, nucleus and optional coda) so that phonological rules can be written
// against individual phonemes.
package jamo

import "strings"

const (
	syllableBase = 0xAC00
	syllableEnd  = 0xD7A3

	onsetBase   = 0x1100
	nucleusBase = 0x1161
	codaBase    = 0x11A7 // index 0 means "no coda"

	onsetN   = 19
	nucleusN = 21
	codaN    = 28
)

// Syllable is the phoneme triple of one syllable block. Coda is 0 when the
// block has no final consonant.
type Syllable struct {
	Onset   rune
	Nucleus rune
	Coda    rune
}

func IsSyllable(r rune) bool {
	return r >= syllableBase && r <= syllableEnd
}

func IsOnset(r rune) bool {
	return r >= onsetBase && r < onsetBase+onsetN
}

func IsNucleus(r rune) bool {
	return r >= nucleusBase && r < nucleusBase+nucleusN
}

func IsCoda(r rune) bool {
	return r > codaBase && r < codaBase+codaN
}

// IsJamo reports whether r is a conjoining jamo of the modern alphabet.
func IsJamo(r rune) bool {
	return IsOnset(r) || IsNucleus(r) || IsCoda(r)
}

// Split returns the triple of a syllable block.
func Split(r rune) (Syllable, bool) {
	if !IsSyllable(r) {
		return Syllable{}, false
	}
	code := int(r) - syllableBase
	coda := code % codaN
	nucleus := (code / codaN) % nucleusN
	onset := code / (codaN * nucleusN)

	s := Syllable{
		Onset:   rune(onsetBase + onset),
		Nucleus: rune(nucleusBase + nucleus),
	}
	if coda > 0 {
		s.Coda = rune(codaBase + coda)
	}
	return s, true
}

// Join assembles a triple into its syllable block.
func Join(s Syllable) (rune, bool) {
	if !IsOnset(s.Onset) || !IsNucleus(s.Nucleus) {
		return 0, false
	}
	coda := 0
	if s.Coda != 0 {
		if !IsCoda(s.Coda) {
			return 0, false
		}
		coda = int(s.Coda - codaBase)
	}
	onset := int(s.Onset - onsetBase)
	nucleus := int(s.Nucleus - nucleusBase)
	return rune(syllableBase + (onset*nucleusN+nucleus)*codaN + coda), true
}

// Decompose writes every syllable block of text as its onset, nucleus and
// coda jamo. Everything else passes through unchanged.
func Decompose(text string) string {
	var b strings.Builder
	b.Grow(len(text) * 2)
	for _, r := range text {
		s, ok := Split(r)
		if !ok {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(s.Onset)
		b.WriteRune(s.Nucleus)
		if s.Coda != 0 {
			b.WriteRune(s.Coda)
		}
	}
	return b.String()
}

// Compose is the inverse of Decompose. Jamo that cannot be part of a valid
// onset+nucleus(+coda) sequence are left as they are.
func Compose(text string) string {
	rs := []rune(text)
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(rs); i++ {
		if i+1 < len(rs) && IsOnset(rs[i]) && IsNucleus(rs[i+1]) {
			s := Syllable{Onset: rs[i], Nucleus: rs[i+1]}
			if i+2 < len(rs) && IsCoda(rs[i+2]) {
				s.Coda = rs[i+2]
			}
			if r, ok := Join(s); ok {
				b.WriteRune(r)
				if s.Coda != 0 {
					i += 2
				} else {
					i++
				}
				continue
			}
		}
		b.WriteRune(rs[i])
	}
	return b.String()
}

var vowelGroups = strings.NewReplacer(
	"ᅢ", "ᅦ", // ㅐ -> ㅔ
	"ᅤ", "ᅨ", // ㅒ -> ㅖ
	"ᅫ", "ᅬ", // ㅙ -> ㅚ
	"ᅰ", "ᅬ", // ㅞ -> ㅚ
)

// NormalizeVowels merges nuclei that are pronounced identically in casual
// speech into one canonical nucleus. Input must be decomposed.
func NormalizeVowels(text string) string {
	return vowelGroups.Replace(text)
}
