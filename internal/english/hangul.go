package english

import (
	"strings"

	"github.com/jusunglee/g2pk/internal/jamo"
)

const (
	silentOnset = 'ᄋ'
	epenthetic  = 'ᅳ'
)

// onsets is the consonant written before a vowel. A consonant with no vowel
// after it gets epenthetic ㅡ, or ㅣ for the palatals.
var onsets = map[string]rune{
	"B":  'ᄇ',
	"CH": 'ᄎ',
	"D":  'ᄃ',
	"DH": 'ᄃ',
	"DZ": 'ᄌ',
	"F":  'ᄑ',
	"G":  'ᄀ',
	"HH": 'ᄒ',
	"JH": 'ᄌ',
	"K":  'ᄏ',
	"L":  'ᄅ',
	"M":  'ᄆ',
	"N":  'ᄂ',
	"NG": 'ᄋ',
	"P":  'ᄑ',
	"R":  'ᄅ',
	"S":  'ᄉ',
	"SH": 'ᄉ',
	"T":  'ᄐ',
	"TH": 'ᄊ',
	"TS": 'ᄎ',
	"V":  'ᄇ',
	"Z":  'ᄌ',
	"ZH": 'ᄌ',
}

var palatals = map[string]bool{"CH": true, "JH": true, "SH": true, "ZH": true}

// codas used for a stop after a short vowel and for nasals
var codas = map[string]rune{
	"P":  'ᆸ',
	"T":  'ᆺ',
	"K":  'ᆨ',
	"M":  'ᆷ',
	"N":  'ᆫ',
	"NG": 'ᆼ',
	"L":  'ᆯ',
}

// vowels gives the nucleus of a vowel and, for diphthongs, the nucleus of
// the extra syllable that spells the offglide.
var vowels = map[string][2]rune{
	"AA": {'ᅡ'},
	"AE": {'ᅢ'},
	"AH": {'ᅥ'},
	"AO": {'ᅩ'},
	"AX": {'ᅳ'},
	"AW": {'ᅡ', 'ᅮ'},
	"AY": {'ᅡ', 'ᅵ'},
	"EH": {'ᅦ'},
	"ER": {'ᅥ'},
	"EY": {'ᅦ', 'ᅵ'},
	"IH": {'ᅵ'},
	"IY": {'ᅵ'},
	"OW": {'ᅩ'},
	"OY": {'ᅩ', 'ᅵ'},
	"UH": {'ᅮ'},
	"UW": {'ᅮ'},
}

var shortVowels = map[string]bool{"AA": true, "AE": true, "AH": true, "EH": true, "IH": true, "UH": true}

// yGlide and wGlide fold a preceding Y or W into the nucleus.
var yGlide = map[rune]rune{
	'ᅡ': 'ᅣ',
	'ᅢ': 'ᅤ',
	'ᅥ': 'ᅧ',
	'ᅦ': 'ᅨ',
	'ᅩ': 'ᅭ',
	'ᅮ': 'ᅲ',
}

var wGlide = map[rune]rune{
	'ᅡ': 'ᅪ',
	'ᅢ': 'ᅫ',
	'ᅥ': 'ᅯ',
	'ᅩ': 'ᅯ',
	'ᅦ': 'ᅰ',
	'ᅵ': 'ᅱ',
	'ᅮ': 'ᅮ',
}

func isVowel(p string) bool {
	_, ok := vowels[p]
	return ok
}

func isGlide(p string) bool {
	return p == "Y" || p == "W"
}

// normalize rewrites T S and D Z as single affricates, and a final
// syllabic L (AH L after a consonant) as AX L so it is spelled with ㅡ.
func normalize(phonemes []string) []string {
	out := make([]string, 0, len(phonemes))
	for i := 0; i < len(phonemes); i++ {
		if i+1 < len(phonemes) {
			switch phonemes[i] + phonemes[i+1] {
			case "TS":
				out = append(out, "TS")
				i++
				continue
			case "DZ":
				out = append(out, "DZ")
				i++
				continue
			case "AHL":
				if i+2 == len(phonemes) && i > 0 && !isVowel(phonemes[i-1]) {
					out = append(out, "AX", "L")
					i++
					continue
				}
			}
		}
		out = append(out, phonemes[i])
	}
	return out
}

type speller struct {
	syllables []jamo.Syllable
}

func (s *speller) open(onset, nucleus rune) {
	s.syllables = append(s.syllables, jamo.Syllable{Onset: onset, Nucleus: nucleus})
}

// close puts coda on the last syllable if it has none.
func (s *speller) close(coda rune) bool {
	n := len(s.syllables)
	if n == 0 || s.syllables[n-1].Coda != 0 {
		return false
	}
	s.syllables[n-1].Coda = coda
	return true
}

// sh folds the vowel the same way Y does: 샤, 셔, 쇼, 슈.
func (s *speller) vowel(onset rune, glide string, v string, sh bool) {
	nv := vowels[v]
	nucleus := nv[0]
	switch {
	case glide == "Y" || sh:
		if y, ok := yGlide[nucleus]; ok {
			nucleus = y
		}
	case glide == "W":
		if w, ok := wGlide[nucleus]; ok {
			nucleus = w
		}
	}
	s.open(onset, nucleus)
	if nv[1] != 0 {
		s.open(silentOnset, nv[1])
	}
}

func (s *speller) String() string {
	var b strings.Builder
	for _, syl := range s.syllables {
		r, ok := jamo.Join(syl)
		if !ok {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Spell approximates the Korean loanword spelling of an ARPAbet
// pronunciation. Stress markers must already be removed.
func Spell(phonemes []string) string {
	ph := normalize(phonemes)
	var s speller

	at := func(i int) string {
		if i >= 0 && i < len(ph) {
			return ph[i]
		}
		return ""
	}

	for i := 0; i < len(ph); i++ {
		p := ph[i]
		prev := at(i - 1)

		switch {
		case isVowel(p):
			s.vowel(silentOnset, "", p, false)
			continue
		case isGlide(p):
			if isVowel(at(i + 1)) {
				s.vowel(silentOnset, p, at(i+1), false)
				i++
			}
			continue
		}

		onset, ok := onsets[p]
		if !ok {
			continue
		}

		// consonant before a vowel, possibly through a glide
		glide := ""
		next := i + 1
		if isGlide(at(next)) && isVowel(at(next + 1)) {
			glide = at(next)
			next++
		}
		if isVowel(at(next)) {
			if p == "L" && i > 0 {
				s.close('ᆯ')
			}
			if p == "NG" {
				s.close('ᆼ')
			}
			s.vowel(onset, glide, at(next), p == "SH")
			i = next
			continue
		}

		// consonant with no vowel after it
		switch p {
		case "R":
			continue
		case "M", "N", "NG", "L":
			if s.close(codas[p]) {
				continue
			}
		case "P", "T", "K":
			if shortVowels[prev] && s.close(codas[p]) {
				continue
			}
		}
		if p == "NG" {
			s.open(silentOnset, epenthetic)
			s.close('ᆼ')
			continue
		}
		if palatals[p] {
			s.open(onset, 'ᅵ')
			continue
		}
		s.open(onset, epenthetic)
	}
	return s.String()
}
