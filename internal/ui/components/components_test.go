package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func key(s string) tea.KeyPressMsg {
	switch s {
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

type picked string

func TestMenuSkipsDisabledItems(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "off", Disabled: true},
		{Label: "one", Action: func() tea.Cmd { return func() tea.Msg { return picked("one") } }},
		{Label: "off too", Disabled: true},
		{Label: "two", Action: func() tea.Cmd { return func() tea.Msg { return picked("two") } }},
	})
	if m.Selected != 1 {
		t.Fatalf("initial selection = %d, want 1", m.Selected)
	}

	m, _ = m.Update(key("down"))
	if m.Selected != 3 {
		t.Fatalf("after down = %d, want 3", m.Selected)
	}
	m, _ = m.Update(key("j"))
	if m.Selected != 3 {
		t.Fatalf("down at bottom moved to %d", m.Selected)
	}
	m, _ = m.Update(key("k"))
	if m.Selected != 1 {
		t.Fatalf("after up = %d, want 1", m.Selected)
	}

	_, cmd := m.Update(key("enter"))
	if cmd == nil || cmd() != picked("one") {
		t.Fatal("enter did not run the selected action")
	}
	if !strings.Contains(m.View(), "▸ one") {
		t.Fatalf("view does not mark selection:\n%s", m.View())
	}
}

func TestMultiChoiceReveal(t *testing.T) {
	mc := MultiChoice{Question: "Q?", Options: []string{"a", "b", "c"}, Cursor: 2, Chosen: 2}
	if v := mc.View(); !strings.Contains(v, "▸ (•) C  c") {
		t.Fatalf("unrevealed view:\n%s", v)
	}

	mc.Reveal = true
	mc.Correct = 0
	v := mc.View()
	if !strings.Contains(v, "A  a  ✓") || !strings.Contains(v, "C  c  ✗") {
		t.Fatalf("revealed view:\n%s", v)
	}
	if strings.Contains(v, "▸") {
		t.Fatal("cursor drawn after reveal")
	}
}

func TestOptionLabel(t *testing.T) {
	if OptionLabel(0) != "A" || OptionLabel(3) != "D" {
		t.Fatalf("labels: %s %s", OptionLabel(0), OptionLabel(3))
	}
}

func TestProgressBarFilled(t *testing.T) {
	tests := []struct {
		fraction float64
		want     int
	}{
		{0, 0},
		{0.25, 5},
		{1, 20},
		{1.7, 20},
		{-1, 0},
	}
	for _, tt := range tests {
		if got := (ProgressBar{Fraction: tt.fraction}).Filled(20); got != tt.want {
			t.Errorf("Filled(%v) = %d, want %d", tt.fraction, got, tt.want)
		}
	}
	if v := NewProgressBar("Track", 0.5, true, 40).View(); !strings.Contains(v, "50%") {
		t.Fatalf("view missing percent: %q", v)
	}
}

func TestTextInputShowsError(t *testing.T) {
	in := NewTextInput("Password", "", true)
	in.SetValue("hunter22")
	in.Err = "too short"
	v := in.View()
	if strings.Contains(v, "hunter22") {
		t.Fatal("secret value echoed")
	}
	if !strings.Contains(v, "too short") || in.Value() != "hunter22" {
		t.Fatalf("view = %q value = %q", v, in.Value())
	}
}
