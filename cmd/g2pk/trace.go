package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/jusunglee/g2pk/internal/jamo"
	"github.com/jusunglee/g2pk/internal/rules"
)

var (
	sourceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	beforeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	afterStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	glossStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245"))
)

// printTrace writes one block per record that changed the text.
func printTrace(w io.Writer, trace *rules.Trace) {
	for _, r := range trace.Changed() {
		source := r.Table
		if r.Line > 0 {
			source = fmt.Sprintf("%s:%d", r.Table, r.Line)
		}
		fmt.Fprintf(w, "%s %s -> %s\n",
			sourceStyle.Render(source),
			beforeStyle.Render(jamo.Compose(r.Before)),
			afterStyle.Render(jamo.Compose(r.After)),
		)
		if r.Pattern != "" {
			fmt.Fprintf(w, "  %s\n", sourceStyle.Render(r.Pattern))
		}
		if r.Gloss != "" {
			fmt.Fprintf(w, "  %s\n", glossStyle.Render(r.Gloss))
		}
	}
}
