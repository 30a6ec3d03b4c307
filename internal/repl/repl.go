// Package repl is the interactive terminal mode: the sentence being typed is
// transcribed on every keystroke.
package repl

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jusunglee/g2pk/internal/g2p"
	"github.com/jusunglee/g2pk/internal/transliteration"
)

const historySize = 10

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(14)

	outputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229"))

	romanStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

type entry struct {
	input        string
	prescriptive string
	descriptive  string
	romanized    string
}

type model struct {
	engine      *g2p.Engine
	textInput   textinput.Model
	groupVowels bool
	current     entry
	history     []entry
	width       int
}

func New(engine *g2p.Engine) model {
	ti := textinput.New()
	ti.Placeholder = "한국어 문장을 입력하세요"
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 60

	return model{engine: engine, textInput: ti}
}

func (m model) transcribe(text string) entry {
	text = strings.TrimSpace(text)
	if text == "" {
		return entry{}
	}
	opts := g2p.Options{GroupVowels: m.groupVowels, ToSyllable: true}
	prescriptive := m.engine.Transcribe(text, opts).Text
	opts.Descriptive = true
	return entry{
		input:        text,
		prescriptive: prescriptive,
		descriptive:  m.engine.Transcribe(text, opts).Text,
		romanized:    transliteration.Romanize(prescriptive),
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.current.input != "" {
				m.history = append(m.history, m.current)
				if len(m.history) > historySize {
					m.history = m.history[len(m.history)-historySize:]
				}
			}
			m.textInput.SetValue("")
			m.current = entry{}
			return m, nil
		case tea.KeyCtrlG:
			m.groupVowels = !m.groupVowels
			m.current = m.transcribe(m.textInput.Value())
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	m.current = m.transcribe(m.textInput.Value())
	return m, cmd
}

func (m model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("g2pk"))
	s.WriteString("\n")
	s.WriteString(m.textInput.View())
	s.WriteString("\n\n")

	if m.current.input != "" {
		s.WriteString(renderEntry(m.current))
		s.WriteString("\n")
	}

	if len(m.history) > 0 {
		var h strings.Builder
		for i := len(m.history) - 1; i >= 0; i-- {
			e := m.history[i]
			fmt.Fprintf(&h, "%s  %s  %s\n", e.input, outputStyle.Render(e.prescriptive), romanStyle.Render(e.romanized))
		}
		s.WriteString(boxStyle.Render(strings.TrimRight(h.String(), "\n")))
		s.WriteString("\n")
	}

	grouping := "off"
	if m.groupVowels {
		grouping = "on"
	}
	s.WriteString(dimStyle.Render(fmt.Sprintf("Enter keep • Ctrl+G group vowels (%s) • Esc quit", grouping)))
	s.WriteString("\n")
	return s.String()
}

func renderEntry(e entry) string {
	var s strings.Builder
	s.WriteString(labelStyle.Render("prescriptive") + outputStyle.Render(e.prescriptive) + "\n")
	s.WriteString(labelStyle.Render("descriptive") + outputStyle.Render(e.descriptive) + "\n")
	s.WriteString(labelStyle.Render("romanized") + romanStyle.Render(e.romanized) + "\n")
	return s.String()
}

// Run starts the interactive session and blocks until the user quits.
func Run(engine *g2p.Engine) error {
	p := tea.NewProgram(New(engine))
	_, err := p.Run()
	return err
}
