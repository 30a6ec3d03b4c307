package numeral

import (
	"regexp"
	"strings"

	"github.com/samber/lo"

	"github.com/jusunglee/g2pk/internal/tagtext"
)

var (
	classified = regexp.MustCompile(`(\d[\d,]*\d|\d)(\s*\p{Hangul}+)` + string(tagtext.Classifier.Marker()))
	bareRun    = regexp.MustCompile(`\d[\d,]*\d|\d`)

	digitNames = strings.NewReplacer(
		"0", "영", "1", "일", "2", "이", "3", "삼", "4", "사",
		"5", "오", "6", "육", "7", "칠", "8", "팔", "9", "구",
	)
)

// Converter spells every numeral in annotated text, choosing the numeral
// system from the classifier that follows it.
type Converter struct {
	boundNouns map[string]struct{}
}

// NewConverter builds a converter for the given set of bound nouns, the
// classifiers that take native numerals.
func NewConverter(boundNouns []string) *Converter {
	return &Converter{
		boundNouns: lo.SliceToMap(boundNouns, func(n string) (string, struct{}) {
			return n, struct{}{}
		}),
	}
}

func (c *Converter) IsBoundNoun(word string) bool {
	_, ok := c.boundNouns[word]
	return ok
}

// Convert spells numerals in three passes: runs followed by a classifier tag,
// then any other run, then any digit still left over. Runs are matched
// greedily so a shorter run is never spelled inside a longer one.
func (c *Converter) Convert(text tagtext.Text) tagtext.Text {
	if !strings.ContainsFunc(text.S, isDigit) {
		return text
	}
	return text.Map(func(s string) string {
		s = classified.ReplaceAllStringFunc(s, func(m string) string {
			sub := classified.FindStringSubmatch(m)
			num, word := sub[1], sub[2]
			native := c.IsBoundNoun(strings.TrimSpace(word))
			return Spell(num, native) + word + string(tagtext.Classifier.Marker())
		})
		s = bareRun.ReplaceAllStringFunc(s, func(num string) string {
			return Spell(num, false)
		})
		return digitNames.Replace(s)
	})
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
