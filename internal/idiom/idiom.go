// Package idiom replaces fixed phrases whose pronunciation the rule tables
// cannot derive, such as abbreviations and lexical exceptions.
package idiom

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"

	"github.com/samber/lo"
)

var ErrMalformedEntry = errors.New("malformed idiom entry")

const separator = "==="

type Dictionary struct {
	targets map[string]string
	pattern *regexp.Regexp
}

// Load reads `source===target` lines. A later entry for the same source
// overrides an earlier one.
func Load(r io.Reader) (*Dictionary, error) {
	d := &Dictionary{targets: map[string]string{}}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line, _, _ := strings.Cut(scanner.Text(), "#")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		source, target, ok := strings.Cut(line, separator)
		if !ok || source == "" {
			return nil, fmt.Errorf("idioms:%d: %w: %q", lineNo, ErrMalformedEntry, line)
		}
		d.targets[source] = target
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading idioms: %w", err)
	}

	if len(d.targets) == 0 {
		return d, nil
	}

	// leftmost-first alternation, so longer sources must come first
	sources := lo.Keys(d.targets)
	slices.SortFunc(sources, func(a, b string) int {
		if n := len(b) - len(a); n != 0 {
			return n
		}
		return strings.Compare(a, b)
	})
	quoted := lo.Map(sources, func(s string, _ int) string { return regexp.QuoteMeta(s) })
	d.pattern = regexp.MustCompile(strings.Join(quoted, "|"))
	return d, nil
}

func (d *Dictionary) Len() int {
	return len(d.targets)
}

// Replace substitutes every idiom in text, longest source first. Text with
// no idioms is returned unchanged.
func (d *Dictionary) Replace(text string) string {
	if d.pattern == nil {
		return text
	}
	return d.pattern.ReplaceAllStringFunc(text, func(m string) string {
		return d.targets[m]
	})
}
