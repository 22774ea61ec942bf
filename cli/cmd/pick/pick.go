package pick

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	prompt      = "➜ "
	defaultRows = 10
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	matchStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Model is the Bubble Tea model of the chooser.
type Model struct {
	input   textinput.Model
	names   []string
	recent  int // leading names that came from history
	matches fuzzy.Matches
	cursor  int
	rows    int
	chosen  string
	done    bool
}

// New returns a chooser over names. The first recent names are marked as
// recently applied.
func New(names []string, recent int) Model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Placeholder = "profile"
	ti.CharLimit = 256
	ti.Focus()

	m := Model{
		input:  ti,
		names:  slices.Clone(names),
		recent: min(max(recent, 0), len(names)),
		rows:   defaultRows,
	}
	m.filter()

	return m
}

// Init implements [tea.Model].
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements [tea.Model].
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.done = true

			return m, tea.Quit

		case tea.KeyEnter:
			if len(m.matches) == 0 {
				return m, nil
			}

			m.chosen = m.matches[m.cursor].Str
			m.done = true

			return m, tea.Quit

		case tea.KeyUp, tea.KeyCtrlP, tea.KeyShiftTab:
			if m.cursor > 0 {
				m.cursor--
			}

			return m, nil

		case tea.KeyDown, tea.KeyCtrlN, tea.KeyTab:
			if m.cursor < len(m.matches)-1 {
				m.cursor++
			}

			return m, nil
		}

	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - len(prompt) - 2
		m.rows = max(1, min(defaultRows, msg.Height-2))

		return m, nil
	}

	var cmd tea.Cmd

	query := m.input.Value()
	m.input, cmd = m.input.Update(msg)

	if m.input.Value() != query {
		m.filter()
	}

	return m, cmd
}

// View implements [tea.Model].
func (m Model) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	first := max(0, m.cursor-m.rows+1)
	last := min(len(m.matches), first+m.rows)

	for i := first; i < last; i++ {
		match := m.matches[i]

		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + match.Str))
		} else {
			b.WriteString("  " + highlight(match))
		}

		if match.Index < m.recent {
			b.WriteString(hintStyle.Render(" (recent)"))
		}

		b.WriteString("\n")
	}

	b.WriteString(hintStyle.Render(fmt.Sprintf(
		"%d/%d  ↑/↓ move  enter apply  esc cancel",
		len(m.matches), len(m.names))))
	b.WriteString("\n")

	return b.String()
}

// Chosen returns the selected name, or false if the chooser was canceled.
func (m Model) Chosen() (string, bool) {
	return m.chosen, m.chosen != ""
}

// Matches returns the names that match the current query, best first.
func (m Model) Matches() []string {
	names := make([]string, len(m.matches))
	for i, match := range m.matches {
		names[i] = match.Str
	}

	return names
}

// filter recomputes the matches for the current query and resets the cursor.
func (m *Model) filter() {
	m.cursor = 0

	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		m.matches = make(fuzzy.Matches, len(m.names))
		for i, name := range m.names {
			m.matches[i] = fuzzy.Match{Str: name, Index: i}
		}

		return
	}

	m.matches = fuzzy.Find(query, m.names)
}

func highlight(match fuzzy.Match) string {
	if len(match.MatchedIndexes) == 0 {
		return match.Str
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(matchStyle.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// Run shows a chooser over names until the user picks one or cancels.
// The returned bool is false if the user canceled.
func Run(
	ctx context.Context,
	names []string,
	recent int,
	opts ...tea.ProgramOption,
) (string, bool, error) {
	if len(names) == 0 {
		return "", false, ErrNoCandidates
	}

	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)

	final, err := tea.NewProgram(New(names, recent), opts...).Run()
	if err != nil {
		return "", false, err
	}

	m, ok := final.(Model)
	if !ok {
		return "", false, nil
	}

	name, ok := m.Chosen()

	return name, ok, nil
}
