package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// confirmModel is a one-shot y/N prompt shown before overwriting a file.
type confirmModel struct {
	prompt    string
	confirmed bool
	done      bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.confirmed = true
		m.done = true
		return m, tea.Quit
	case "n", "N", "enter", "esc", "ctrl+c":
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}
	return focusStyle.Render(m.prompt) + " " + errorStyle.Render("[y/N]") + " "
}

// Confirm shows a y/N prompt and reports whether the user confirmed.
// Anything other than y declines.
func Confirm(prompt string) (bool, error) {
	result, err := tea.NewProgram(confirmModel{prompt: prompt}).Run()
	if err != nil {
		return false, err
	}
	return result.(confirmModel).confirmed, nil
}
