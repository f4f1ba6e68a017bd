package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// confirmModel is the yes/no prompt shown before oversized builds.
type confirmModel struct {
	question  string
	answer    bool
	cancelled bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "y", "Y":
			m.answer = true
			return m, tea.Quit
		case "n", "N":
			m.answer = false
			return m, tea.Quit
		case "ctrl+c", "q", "esc":
			m.cancelled = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	return fmt.Sprintf("%s %s\n", titleStyle.Render(m.question), dimStyle.Render("[y/n]"))
}

// Confirm asks question and returns the answer. Quitting the prompt
// returns ErrCancelled.
func (Interactive) Confirm(question string) (bool, error) {
	final, err := tea.NewProgram(confirmModel{question: question}).Run()
	if err != nil {
		return false, fmt.Errorf("running confirmation prompt: %w", err)
	}
	m := final.(confirmModel)
	if m.cancelled {
		return false, ErrCancelled
	}
	return m.answer, nil
}
