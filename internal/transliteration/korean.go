package transliteration

const (
	firstOnset   = 0x1100
	firstNucleus = 0x1161
	firstCoda    = 0x11A8

	onsetR = 0x1105
	codaL  = 0x11AF
)

// Revised Romanization of Korean
var (
	onsetRoman = []string{
		"g", "kk", "n", "d", "tt", "r", "m", "b", "pp",
		"s", "ss", "", "j", "jj", "ch", "k", "t", "p", "h",
	}
	nucleusRoman = []string{
		"a", "ae", "ya", "yae", "eo", "e", "yeo", "ye", "o",
		"wa", "wae", "oe", "yo", "u", "wo", "we", "wi", "yu",
		"eu", "ui", "i",
	}
	// codas are romanized by the sound they stand for at the end of a
	// syllable, so clusters keep only the consonant that is pronounced
	codaRoman = []string{
		"k", "k", "k", "n", "n", "n", "t", "l", "k",
		"m", "l", "l", "l", "p", "l", "m", "p", "p",
		"t", "t", "ng", "t", "t", "k", "t", "p", "t",
	}
)
