// Package rules implements ordered substitution tables over decomposed text.
//
// A table is a fixed sequence of regular-expression entries. Apply runs them
// strictly in order, each entry replacing every match in the output of the
// previous one. Later phonological rules are written against the output of
// earlier ones, so table order is part of the data and is never changed.
package rules

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/samber/lo"

	"github.com/jusunglee/g2pk/internal/tagtext"
)

var (
	ErrMalformedRule = errors.New("malformed rule")
	ErrBadPattern    = errors.New("bad rule pattern")
)

// Mode restricts an entry to one speech register. Calls are always made with
// Descriptive or Prescriptive; entries marked Any apply in both.
type Mode int

const (
	Any Mode = iota
	Descriptive
	Prescriptive
)

func (m Mode) String() string {
	switch m {
	case Descriptive:
		return "descriptive"
	case Prescriptive:
		return "prescriptive"
	default:
		return "any"
	}
}

func (m Mode) allows(call Mode) bool {
	return m == Any || m == call
}

// Entry is one compiled rule. It is never modified after loading.
type Entry struct {
	Pattern     *regexp.Regexp
	Replacement string
	RuleIDs     []string
	Mode        Mode
	Line        int

	source string
}

// Source returns the pattern as written in the table file.
func (e *Entry) Source() string {
	return e.source
}

type Table struct {
	Name    string
	Entries []*Entry
}

func (t *Table) Len() int {
	return len(t.Entries)
}

var sectionHeaders = map[string]Mode{
	"[any]":          Any,
	"[descriptive]":  Descriptive,
	"[prescriptive]": Prescriptive,
}

// ParseTable reads a rule table, one `pattern<TAB>replacement<TAB>ids` per
// line. Errors name the table and the 1-based line.
func ParseTable(name string, r io.Reader) (*Table, error) {
	t := &Table{Name: name}
	mode := Any

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if m, ok := sectionHeaders[strings.TrimSpace(line)]; ok {
			mode = m
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 3 {
			return nil, fmt.Errorf("%s:%d: %w: want 3 tab-separated fields, got %d", name, lineNo, ErrMalformedRule, len(fields))
		}
		if fields[0] == "" {
			return nil, fmt.Errorf("%s:%d: %w: empty pattern", name, lineNo, ErrMalformedRule)
		}

		re, err := regexp.Compile(renderTagRefs(fields[0]))
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w: %w", name, lineNo, ErrBadPattern, err)
		}

		t.Entries = append(t.Entries, &Entry{
			Pattern:     re,
			Replacement: renderTagRefs(fields[1]),
			RuleIDs:     splitIDs(fields[2]),
			Mode:        mode,
			Line:        lineNo,
			source:      fields[0],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return t, nil
}

func splitIDs(field string) []string {
	ids := strings.FieldsFunc(field, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	return lo.Uniq(ids)
}

var tagRefs = func() *strings.Replacer {
	var pairs []string
	for _, k := range tagtext.Kinds {
		pairs = append(pairs, "{"+k.String()+"}", string(k.Marker()))
	}
	return strings.NewReplacer(pairs...)
}()

// renderTagRefs turns "{J}" style references into the marker runes that
// tagtext renders while a table runs.
func renderTagRefs(s string) string {
	return tagRefs.Replace(s)
}

// Apply runs every entry allowed in mode over text in table order. When trace
// is non-nil one record is appended per applied entry, changed or not.
func (t *Table) Apply(text tagtext.Text, mode Mode, glosses Glosses, trace *Trace) tagtext.Text {
	cur := text.Render()
	for _, e := range t.Entries {
		if !e.Mode.allows(mode) {
			continue
		}
		prev := cur
		cur = e.Pattern.ReplaceAllString(cur, e.Replacement)
		if trace != nil {
			trace.add(Record{
				Table:   t.Name,
				Line:    e.Line,
				Pattern: e.source,
				Before:  tagtext.Parse(prev).Display(),
				After:   tagtext.Parse(cur).Display(),
				RuleIDs: e.RuleIDs,
				Gloss:   glosses.Text(e.RuleIDs),
			})
		}
	}
	return tagtext.Parse(cur)
}
