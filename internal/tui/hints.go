package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// Hint represents a single keybind hint for display.
type Hint struct {
	Key  string // Display key (e.g., "j/k", "enter")
	Desc string // Short description (e.g., "move", "open")
}

func hintFor(b key.Binding) Hint {
	h := b.Help()
	return Hint{Key: h.Key, Desc: h.Desc}
}

// HintSet is an ordered collection of hints by group.
type HintSet struct {
	Nav    []Hint // Navigation hints (j/k, g/G)
	Action []Hint // Action hints (enter, y, /, t)
	System []Hint // System hints (?, q, ctrl+c)
}

// All returns all hints flattened in display order: Nav + Action + System.
func (h HintSet) All() []Hint {
	result := make([]Hint, 0, len(h.Nav)+len(h.Action)+len(h.System))
	result = append(result, h.Nav...)
	result = append(result, h.Action...)
	result = append(result, h.System...)
	return result
}

// contextualHints returns the hints for the active pane.
func (m Model) contextualHints() HintSet {
	nav := []Hint{{Key: "j/k", Desc: "move"}, {Key: "g/G", Desc: "top/bottom"}}

	switch m.activePane {
	case InputPane:
		return HintSet{
			Action: []Hint{hintFor(m.keys.Submit), hintFor(m.keys.InputTags)},
			System: []Hint{{Key: "esc", Desc: "back"}, {Key: "f1", Desc: "help"}},
		}
	case ResultsListPane:
		back := Hint{Key: "q", Desc: "quit"}
		if m.fromTag != "" {
			back.Desc = "tags"
		}
		return HintSet{
			Nav:    nav,
			Action: []Hint{hintFor(m.keys.Open), hintFor(m.keys.Yank), hintFor(m.keys.Search), hintFor(m.keys.Tags)},
			System: []Hint{hintFor(m.keys.Help), back},
		}
	case TagsListPane:
		return HintSet{
			Nav:    nav,
			Action: []Hint{{Key: "enter", Desc: "bookmarks"}, hintFor(m.keys.Search)},
			System: []Hint{hintFor(m.keys.Help), hintFor(m.keys.Back)},
		}
	case HelpPane:
		return HintSet{
			System: []Hint{{Key: "?/q", Desc: "close"}},
		}
	}
	return HintSet{}
}

// renderHint renders a single hint as "key:desc" with styling.
func (m Model) renderHint(h Hint) string {
	return m.styles.HintKey.Render(h.Key) + ":" + m.styles.HintDesc.Render(h.Desc)
}

// renderHints renders hints in horizontal format for the status bar: "j/k:move q:quit"
func (m Model) renderHints(hints HintSet) string {
	allHints := hints.All()
	if len(allHints) == 0 {
		return ""
	}

	parts := make([]string, len(allHints))
	for i, h := range allHints {
		parts[i] = m.renderHint(h)
	}
	return strings.Join(parts, " ")
}

// helpEntries lists every binding for the help overlay.
func (m Model) helpEntries() []Hint {
	k := m.keys
	bindings := []key.Binding{
		k.Down, k.Up, k.Top, k.Bottom,
		k.Open, k.Yank, k.Search, k.Tags,
		k.Submit, k.InputTags, k.Help, k.Back, k.Quit,
	}
	hints := make([]Hint, len(bindings))
	for i, b := range bindings {
		hints[i] = hintFor(b)
	}
	return hints
}
