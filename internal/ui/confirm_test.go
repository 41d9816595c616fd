package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func confirmKey(s string) tea.Msg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestConfirmKeys(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"y", true},
		{"Y", true},
		{"n", false},
		{"N", false},
		{"enter", false},
		{"esc", false},
	}
	for _, tt := range tests {
		m := confirmModel{prompt: "Overwrite?"}
		updated, cmd := m.Update(confirmKey(tt.key))
		got := updated.(confirmModel)
		if got.confirmed != tt.want {
			t.Errorf("key %q: confirmed = %v, want %v", tt.key, got.confirmed, tt.want)
		}
		if !got.done || cmd == nil {
			t.Errorf("key %q should finish the prompt", tt.key)
		}
	}
}

func TestConfirmIgnoresOtherKeys(t *testing.T) {
	m := confirmModel{prompt: "Overwrite?"}
	updated, cmd := m.Update(confirmKey("x"))
	got := updated.(confirmModel)
	if got.done || cmd != nil {
		t.Error("unrelated keys should leave the prompt open")
	}
}

func TestConfirmViewClearsWhenAnswered(t *testing.T) {
	m := confirmModel{prompt: "Overwrite?"}
	if !strings.Contains(m.View(), "Overwrite?") {
		t.Error("prompt should be visible")
	}
	m.done = true
	if m.View() != "" {
		t.Error("view should be empty once answered")
	}
}
