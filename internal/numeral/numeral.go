// Package numeral spells Arabic numerals out in Korean.
//
// Two systems are supported: Sino-Korean (일, 이, 삼 ...) and native Korean
// (한, 두, 세 ...). The native system only has words for the last two
// positions, so larger values always mix in Sino-Korean place names.
package numeral

import (
	"strings"
)

var (
	sinoDigits = [10]string{"", "일", "이", "삼", "사", "오", "육", "칠", "팔", "구"}
	modifiers  = [10]string{"", "한", "두", "세", "네", "다섯", "여섯", "일곱", "여덟", "아홉"}
	decades    = [10]string{"", "열", "스물", "서른", "마흔", "쉰", "예순", "일흔", "여든", "아흔"}

	places = [4]string{"", "십", "백", "천"}
	groups = [5]string{"", "만", "억", "조", "경"}
)

// MaxDigits is the longest digit string Spell supports (up to 천경).
const MaxDigits = len(groups) * 4

var adjustments = strings.NewReplacer(
	"십육", "심뉵",
	"백육", "뱅뉵",
)

// Spell spells a run of decimal digits. Commas are ignored. native selects
// native Korean words for the last two positions. Strings that are not
// digits, or that are longer than MaxDigits, are returned unchanged.
func Spell(digits string, native bool) string {
	num := strings.ReplaceAll(digits, ",", "")
	if num == "" || len(num) > MaxDigits || strings.IndexFunc(num, notDigit) >= 0 {
		return digits
	}
	if strings.Trim(num, "0") == "" {
		return "영"
	}
	if native && num == "20" {
		return "스무"
	}

	var b strings.Builder
	n := len(num)
	for g := (n - 1) / 4; g >= 0; g-- {
		var group strings.Builder
		for p := 3; p >= 0; p-- {
			i := n - 1 - (g*4 + p)
			if i < 0 {
				continue
			}
			d := num[i] - '0'
			if d == 0 {
				continue
			}
			if native && g == 0 && p <= 1 {
				if p == 0 {
					group.WriteString(modifiers[d])
				} else {
					group.WriteString(decades[d])
				}
				continue
			}
			if d != 1 || p == 0 {
				group.WriteString(sinoDigits[d])
			}
			group.WriteString(places[p])
		}
		if group.Len() == 0 {
			continue
		}
		// 만 takes no leading 일; 억 and above do
		if g == 1 && group.String() == "일" {
			b.WriteString(groups[g])
			continue
		}
		b.WriteString(group.String())
		b.WriteString(groups[g])
	}
	return adjustments.Replace(b.String())
}

func notDigit(r rune) bool {
	return r < '0' || r > '9'
}
