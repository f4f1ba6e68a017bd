package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// selectChrome is the vertical space around the candidate list: the title
// block above it and the key hint below.
const selectChrome = 4

// selectModel is the multi-select prompt over one input's toolpath
// candidates. The list scrolls inside a viewport so archives with many
// plates stay navigable on short terminals.
type selectModel struct {
	input     string
	names     []string
	cursor    int
	selected  map[int]bool
	list      viewport.Model
	done      bool
	cancelled bool
}

func newSelectModel(input string, names []string) selectModel {
	m := selectModel{
		input:    input,
		names:    names,
		selected: make(map[int]bool),
		list:     viewport.New(80, 10),
	}
	m.list.SetContent(m.rows())
	return m
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h := msg.Height - selectChrome
		if h < 3 {
			h = 3
		}
		m.list.Width = msg.Width
		m.list.Height = h
		m.ensureCursorVisible()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.names)-1 {
				m.cursor++
			}
		case " ":
			m.selected[m.cursor] = !m.selected[m.cursor]
		case "a":
			for i := range m.names {
				m.selected[i] = true
			}
		case "enter":
			m.done = true
			return m, tea.Quit
		}
		m.list.SetContent(m.rows())
		m.ensureCursorVisible()
	}
	return m, nil
}

// rows renders one line per candidate with the cursor and selection marks.
func (m selectModel) rows() string {
	var b strings.Builder
	for i, name := range m.names {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		mark := "[ ]"
		if m.selected[i] {
			mark = selectedStyle.Render("[x]")
		}
		fmt.Fprintf(&b, "%s%s %s", cursor, mark, name)
		if i < len(m.names)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *selectModel) ensureCursorVisible() {
	if m.cursor < m.list.YOffset {
		m.list.SetYOffset(m.cursor)
	} else if m.cursor >= m.list.YOffset+m.list.Height {
		m.list.SetYOffset(m.cursor - m.list.Height + 1)
	}
}

func (m selectModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Select toolpath files from %s", m.input)))
	b.WriteString("\n\n")
	b.WriteString(m.list.View())
	b.WriteString("\n" + dimStyle.Render("space toggle, a all, enter confirm, q cancel") + "\n")
	return b.String()
}

// SelectToolpaths prompts for a subset of names. Quitting the prompt or
// confirming an empty selection returns ErrCancelled.
func (Interactive) SelectToolpaths(input string, names []string) ([]string, error) {
	final, err := tea.NewProgram(newSelectModel(input, names)).Run()
	if err != nil {
		return nil, fmt.Errorf("running selection prompt: %w", err)
	}
	m := final.(selectModel)
	if m.cancelled {
		return nil, ErrCancelled
	}
	var chosen []string
	for i, name := range m.names {
		if m.selected[i] {
			chosen = append(chosen, name)
		}
	}
	if len(chosen) == 0 {
		return nil, ErrCancelled
	}
	return chosen, nil
}
