package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/tablescope/pkg/hierarchy"
)

func sampleHierarchy() *hierarchy.Node {
	return &hierarchy.Node{Name: hierarchy.RootName, Value: 4, Children: []*hierarchy.Node{
		{Name: "M", Attr: "gender", Value: 3, Children: []*hierarchy.Node{
			{Name: "1", Attr: "outcome", Value: 2},
			{Name: "0", Attr: "outcome", Value: 1},
		}},
		{Name: "F", Attr: "gender", Value: 1, Children: []*hierarchy.Node{
			{Name: "1", Attr: "outcome", Value: 1},
		}},
	}}
}

func TestLeavesOf(t *testing.T) {
	leaves := LeavesOf(sampleHierarchy())
	if len(leaves) != 3 {
		t.Fatalf("len(leaves) = %d, want 3", len(leaves))
	}

	want := []string{"gender=M/outcome=1", "gender=M/outcome=0", "gender=F/outcome=1"}
	for i, key := range want {
		if leaves[i].Key != key {
			t.Errorf("leaves[%d].Key = %q, want %q", i, leaves[i].Key, key)
		}
	}
	if leaves[0].Label != "gender: M › outcome: 1" {
		t.Errorf("Label = %q", leaves[0].Label)
	}
	if leaves[0].Share != 0.5 {
		t.Errorf("Share = %v, want 0.5", leaves[0].Share)
	}

	if LeavesOf(nil) != nil {
		t.Error("LeavesOf(nil) should be nil")
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m LeafListModel, keys ...string) (LeafListModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(LeafListModel)
	}
	return m, cmd
}

func TestLeafListNavigation(t *testing.T) {
	m := NewLeafListModel(LeavesOf(sampleHierarchy()), "")

	m, _ = press(m, "j", "j", "j")
	if m.Cursor != 2 {
		t.Errorf("Cursor = %d, want 2 (clamped)", m.Cursor)
	}
	m, _ = press(m, "k")
	if m.Cursor != 1 {
		t.Errorf("Cursor = %d, want 1", m.Cursor)
	}

	m, cmd := press(m, "enter")
	if m.Selected == nil || m.Selected.Key != "gender=M/outcome=0" {
		t.Fatalf("Selected = %+v", m.Selected)
	}
	if cmd == nil {
		t.Error("enter should quit the program")
	}
}

func TestLeafListQuitWithoutSelection(t *testing.T) {
	m := NewLeafListModel(LeavesOf(sampleHierarchy()), "")
	m, cmd := press(m, "esc")
	if m.Selected != nil {
		t.Error("esc should not select")
	}
	if cmd == nil {
		t.Error("esc should quit the program")
	}
}

func TestLeafListScrolls(t *testing.T) {
	var leaves []Leaf
	for i := 0; i < 20; i++ {
		leaves = append(leaves, Leaf{Key: string(rune('a' + i))})
	}
	m := NewLeafListModel(leaves, "")

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	m = next.(LeafListModel)
	if m.Height != 5 {
		t.Fatalf("Height = %d, want 5", m.Height)
	}

	m, _ = press(m, "j", "j", "j", "j", "j", "j")
	if m.Cursor != 6 || m.Offset != 2 {
		t.Errorf("Cursor, Offset = %d, %d, want 6, 2", m.Cursor, m.Offset)
	}
	m, _ = press(m, "G")
	if m.Cursor != 19 || m.Offset != 15 {
		t.Errorf("after G: Cursor, Offset = %d, %d, want 19, 15", m.Cursor, m.Offset)
	}
	m, _ = press(m, "g")
	if m.Cursor != 0 || m.Offset != 0 {
		t.Errorf("after g: Cursor, Offset = %d, %d", m.Cursor, m.Offset)
	}
}

func TestNewLeafListModelStartsAtCurrent(t *testing.T) {
	leaves := LeavesOf(sampleHierarchy())

	if m := NewLeafListModel(leaves, "gender=F/outcome=1"); m.Cursor != 2 {
		t.Errorf("by key: Cursor = %d, want 2", m.Cursor)
	}
	if m := NewLeafListModel(leaves, "gender=X/outcome=1"); m.Cursor != 0 {
		t.Errorf("unknown key: Cursor = %d, want 0", m.Cursor)
	}
}

func TestCurrentKey(t *testing.T) {
	root := sampleHierarchy()
	tests := []struct {
		selection string
		want      string
	}{
		{"gender=F/outcome=1", "gender=F/outcome=1"},
		{"0", "gender=M/outcome=0"},
		{"1", "gender=M/outcome=1"},
		{"missing", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := currentKey(root, tt.selection); got != tt.want {
			t.Errorf("currentKey(%q) = %q, want %q", tt.selection, got, tt.want)
		}
	}
	if got := currentKey(nil, "0"); got != "" {
		t.Errorf("currentKey(nil) = %q", got)
	}

	leaves := LeavesOf(root)
	if m := NewLeafListModel(leaves, currentKey(root, "0")); m.Cursor != 1 {
		t.Errorf("by name: Cursor = %d, want 1", m.Cursor)
	}
}

func TestLeafListView(t *testing.T) {
	m := NewLeafListModel(LeavesOf(sampleHierarchy()), "")
	view := m.View()
	for _, want := range []string{"Select Leaf", "gender: M › outcome: 1", "50.0%", "[1/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
