package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Translate maps a raw terminal event to a Msg for the given pane. The
// second result is false when the event has no meaning there and should be
// discarded.
func (k KeyMap) Translate(pane Pane, tooSmall bool, raw tea.Msg) (Msg, bool) {
	switch raw := raw.(type) {
	case tea.WindowSizeMsg:
		return TerminalResize{Width: raw.Width, Height: raw.Height}, true

	case tea.KeyMsg:
		if key.Matches(raw, k.Quit) {
			return Quit{}, true
		}
		if tooSmall {
			if key.Matches(raw, k.Back) {
				return GoBackOrQuit{}, true
			}
			return nil, false
		}

		switch pane {
		case InputPane:
			return k.translateInput(raw)
		case ResultsListPane:
			return k.translateResults(raw)
		case TagsListPane:
			return k.translateTags(raw)
		case HelpPane:
			if key.Matches(raw, k.Back, k.Help) {
				return GoBackOrQuit{}, true
			}
		}
	}

	return nil, false
}

func (k KeyMap) translateInput(msg tea.KeyMsg) (Msg, bool) {
	switch {
	case msg.Type == tea.KeyEsc:
		return GoBackOrQuit{}, true
	case key.Matches(msg, k.Submit):
		return SubmitSearch{}, true
	case msg.Type == tea.KeyF1:
		return ShowView{Pane: HelpPane}, true
	case key.Matches(msg, k.InputTags):
		return ShowView{Pane: TagsListPane}, true
	}
	return EditInput{Key: msg}, true
}

func (k KeyMap) translateResults(msg tea.KeyMsg) (Msg, bool) {
	if m, ok := k.translateNav(msg); ok {
		return m, true
	}
	switch {
	case key.Matches(msg, k.Open):
		return OpenSelected{}, true
	case key.Matches(msg, k.Yank):
		return CopySelected{}, true
	case key.Matches(msg, k.Search):
		return ShowView{Pane: InputPane}, true
	case key.Matches(msg, k.Tags):
		return ShowView{Pane: TagsListPane}, true
	case key.Matches(msg, k.Help):
		return ShowView{Pane: HelpPane}, true
	case key.Matches(msg, k.Back):
		return GoBackOrQuit{}, true
	}
	return nil, false
}

func (k KeyMap) translateTags(msg tea.KeyMsg) (Msg, bool) {
	if m, ok := k.translateNav(msg); ok {
		return m, true
	}
	switch {
	case key.Matches(msg, k.Open):
		return DrillIntoTag{}, true
	case key.Matches(msg, k.Search):
		return ShowView{Pane: InputPane}, true
	case key.Matches(msg, k.Help):
		return ShowView{Pane: HelpPane}, true
	case key.Matches(msg, k.Back):
		return GoBackOrQuit{}, true
	}
	return nil, false
}

func (k KeyMap) translateNav(msg tea.KeyMsg) (Msg, bool) {
	switch {
	case key.Matches(msg, k.Down):
		return NextItem{}, true
	case key.Matches(msg, k.Up):
		return PrevItem{}, true
	case key.Matches(msg, k.Top):
		return FirstItem{}, true
	case key.Matches(msg, k.Bottom):
		return LastItem{}, true
	}
	return nil, false
}
