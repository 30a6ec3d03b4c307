package rules

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Glosses maps a rule id to its explanation.
type Glosses map[string]string

// Text joins the explanations of ids with newlines. Unknown ids contribute an
// empty line.
func (g Glosses) Text(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = g[id]
	}
	return strings.Join(parts, "\n")
}

// ParseGlosses reads blank-line separated records. The first line of a
// record is the rule id, the rest is its explanation.
func ParseGlosses(r io.Reader) (Glosses, error) {
	g := Glosses{}
	var id string
	var body []string

	flush := func() {
		if id != "" {
			g[id] = strings.Join(body, "\n")
		}
		id, body = "", nil
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		switch {
		case line == "":
			flush()
		case id == "":
			id = strings.TrimSpace(line)
		default:
			body = append(body, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading glosses: %w", err)
	}
	flush()
	return g, nil
}

// Record is one diagnostic step. Table names the rule table, or the pipeline
// stage for steps that are not table driven.
type Record struct {
	Table   string   `json:"table"`
	Line    int      `json:"line,omitempty"`
	Pattern string   `json:"pattern,omitempty"`
	Before  string   `json:"before"`
	After   string   `json:"after"`
	RuleIDs []string `json:"rule_ids,omitempty"`
	Gloss   string   `json:"gloss,omitempty"`
}

func (r Record) Changed() bool {
	return r.Before != r.After
}

// Trace collects records for a single call. It must not be shared between
// calls.
type Trace struct {
	Records []Record
}

func (t *Trace) add(r Record) {
	t.Records = append(t.Records, r)
}

// Stage records a pipeline step that is not driven by a rule table.
func (t *Trace) Stage(name, before, after string) {
	if t == nil {
		return
	}
	t.add(Record{Table: name, Before: before, After: after})
}

// Changed returns only the records that altered the text.
func (t *Trace) Changed() []Record {
	if t == nil {
		return nil
	}
	var out []Record
	for _, r := range t.Records {
		if r.Changed() {
			out = append(out, r)
		}
	}
	return out
}
