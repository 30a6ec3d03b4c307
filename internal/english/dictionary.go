// Package english spells English words embedded in Korean text the way they
// are pronounced as loanwords, using a CMU-format pronunciation dictionary.
package english

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// errSkipLine signals that a line carries no entry (comment, empty, etc.).
var errSkipLine = errors.New("skip line")

// A Caser is stateful, so each call gets its own.
func lower(s string) string {
	return cases.Lower(language.English).String(s)
}

// Dictionary maps a lower-cased word to its ARPAbet phonemes with stress
// markers removed. Only the first variant of a word is kept.
type Dictionary struct {
	words map[string][]string
}

// Stats holds parser statistics for logging.
type Stats struct {
	TotalLines   int
	CommentLines int
	ParsedLines  int
	UniqueWords  int
}

func ParseDictionary(r io.Reader) (*Dictionary, Stats, error) {
	d := &Dictionary{words: make(map[string][]string)}
	var stats Stats

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		stats.TotalLines++
		line := scanner.Text()

		word, variant, phonemes, err := parseLine(line)
		if errors.Is(err, errSkipLine) {
			if strings.HasPrefix(line, ";;;") {
				stats.CommentLines++
			}
			continue
		}

		stats.ParsedLines++
		if _, seen := d.words[word]; seen && variant > 0 {
			continue
		}
		d.words[word] = phonemes
	}
	if err := scanner.Err(); err != nil {
		return nil, Stats{}, fmt.Errorf("reading pronunciation dictionary: %w", err)
	}

	stats.UniqueWords = len(d.words)
	return d, stats, nil
}

// Lookup returns the phonemes of word. Case is ignored.
func (d *Dictionary) Lookup(word string) ([]string, bool) {
	p, ok := d.words[lower(word)]
	return p, ok
}

func (d *Dictionary) Len() int {
	return len(d.words)
}

// parseLine parses `WORD  PH1 PH2 ...`. The variant is 0 for the primary
// pronunciation and n-1 for `WORD(n)`.
func parseLine(line string) (string, int, []string, error) {
	if line == "" || strings.HasPrefix(line, ";;;") {
		return "", 0, nil, errSkipLine
	}

	rawWord, phonemesStr, ok := strings.Cut(line, "  ")
	if !ok {
		return "", 0, nil, errSkipLine
	}
	rawWord = strings.TrimSpace(rawWord)
	fields := strings.Fields(phonemesStr)
	if rawWord == "" || len(fields) == 0 {
		return "", 0, nil, errSkipLine
	}

	word, variant := parseWordAndVariant(rawWord)
	phonemes := make([]string, len(fields))
	for i, f := range fields {
		phonemes[i] = stripStress(f)
	}
	return word, variant, phonemes, nil
}

func parseWordAndVariant(raw string) (string, int) {
	idx := strings.IndexByte(raw, '(')
	if idx <= 0 || !strings.HasSuffix(raw, ")") {
		return lower(raw), 0
	}
	n := 0
	for _, c := range raw[idx+1 : len(raw)-1] {
		if c < '0' || c > '9' {
			return lower(raw), 0
		}
		n = n*10 + int(c-'0')
	}
	return lower(raw[:idx]), max(n-1, 0)
}

// stripStress removes the trailing stress marker (0, 1, 2) from an ARPAbet phoneme.
func stripStress(phoneme string) string {
	if phoneme == "" {
		return phoneme
	}
	last := phoneme[len(phoneme)-1]
	if last == '0' || last == '1' || last == '2' {
		return phoneme[:len(phoneme)-1]
	}
	return phoneme
}
