package tui

import (
	"errors"
	"fmt"

	"github.com/dhth/bmm-sub000/internal/model"
)

// Update applies one Msg and returns the next Model along with the Commands
// to dispatch. It never blocks and never performs I/O.
func (m Model) Update(msg Msg) (Model, []Command) {
	m.renders++
	if _, ok := msg.(Completion); !ok {
		m.events++
	}
	m.ageNotice()

	if m.quitting {
		return m, nil
	}

	switch msg := msg.(type) {
	case TerminalResize:
		m.width = msg.Width
		m.height = msg.Height
		m.tooSmall = m.layout.Min.TooSmall(msg.Width, msg.Height)
		return m, nil

	case Quit:
		m.quitting = true
		return m, nil

	case GoBackOrQuit:
		m.goBackOrQuit()
		return m, nil

	case URIOpened:
		if msg.Err != nil {
			m.setError(fmt.Sprintf("couldn't open %s: %v", msg.URI, msg.Err))
		}
		return m, nil

	case URICopied:
		if msg.Err != nil {
			m.setError(fmt.Sprintf("couldn't copy: %v", msg.Err))
		} else {
			m.setInfo("copied " + msg.URI)
		}
		return m, nil

	case SearchFinished:
		if msg.Err != nil {
			m.setError(fmt.Sprintf("search failed: %v", msg.Err))
			return m, nil
		}
		m.results = m.results.replace(msg.Results)
		m.resultsLabel = "search: " + msg.Terms.String()
		m.setInfo(resultCount(len(msg.Results)))
		return m, nil

	case TagsFetched:
		if msg.Err != nil {
			m.setError(fmt.Sprintf("couldn't fetch tags: %v", msg.Err))
			return m, nil
		}
		m.tags = m.tags.replace(msg.Tags)
		m.tagsLoaded = true
		return m, nil

	case TagBookmarksFetched:
		if msg.Err != nil {
			m.setError(fmt.Sprintf("couldn't fetch bookmarks for %q: %v", msg.Tag, msg.Err))
			return m, nil
		}
		m.results = m.results.replace(msg.Results)
		m.resultsLabel = "tag: " + msg.Tag
		return m, nil
	}

	// Everything below is user navigation, which is suspended while the
	// terminal is too small.
	if m.tooSmall {
		return m, nil
	}

	switch msg := msg.(type) {
	case NextItem, PrevItem, FirstItem, LastItem:
		m.moveSelection(msg)

	case OpenSelected:
		if m.activePane != ResultsListPane {
			break
		}
		if b, ok := m.results.current(); ok {
			return m, []Command{OpenInBrowser{URI: b.URI}}
		}

	case CopySelected:
		if m.activePane != ResultsListPane {
			break
		}
		if b, ok := m.results.current(); ok {
			return m, []Command{CopyURI{URI: b.URI}}
		}

	case DrillIntoTag:
		if m.activePane != TagsListPane {
			break
		}
		if t, ok := m.tags.current(); ok {
			m.activePane = ResultsListPane
			m.fromTag = t.Name
			return m, []Command{FetchBookmarksForTag{Tag: t.Name}}
		}

	case SubmitSearch:
		if m.activePane != InputPane {
			break
		}
		return m, m.submitSearch()

	case EditInput:
		if m.activePane != InputPane {
			break
		}
		m.input, _ = m.input.Update(msg.Key)

	case ShowView:
		return m, m.showView(msg.Pane)
	}

	return m, nil
}

func (m *Model) submitSearch() []Command {
	terms, err := model.NewSearchTerms(m.input.Value())
	switch {
	case errors.Is(err, model.ErrQueryEmpty):
		m.setInfo("type something to search for")
		return nil
	case errors.Is(err, model.ErrTooManyTerms):
		m.setInfo(fmt.Sprintf("too many terms (max %d)", model.MaxSearchTerms))
		return nil
	case err != nil:
		m.setInfo(err.Error())
		return nil
	}

	m.input.Blur()
	m.activePane = ResultsListPane
	m.fromTag = ""
	return []Command{RunSearch{Terms: terms}}
}

func (m *Model) showView(pane Pane) []Command {
	if pane == m.activePane {
		return nil
	}
	m.input.Blur()

	switch pane {
	case InputPane:
		if m.activePane != HelpPane {
			m.inputFrom = m.activePane
		}
		m.focusInput()
	case TagsListPane:
		return m.showTags()
	default:
		m.activePane = pane
	}
	return nil
}

func (m *Model) showTags() []Command {
	m.activePane = TagsListPane
	if m.tagsLoaded {
		return nil
	}
	return []Command{FetchTags{}}
}

func (m *Model) goBackOrQuit() {
	if m.tooSmall {
		m.quitting = true
		return
	}

	switch m.activePane {
	case ResultsListPane:
		if m.fromTag == "" {
			m.quitting = true
			return
		}
		m.fromTag = ""
		m.activePane = TagsListPane
	case InputPane:
		m.input.Blur()
		m.activePane = m.inputFrom
	default:
		m.activePane = ResultsListPane
	}
}

func (m *Model) moveSelection(msg Msg) {
	var move func()
	switch m.activePane {
	case ResultsListPane:
		move = pick(&m.results, msg)
	case TagsListPane:
		move = pick(&m.tags, msg)
	}
	if move != nil {
		move()
	}
}

func pick[T any](l *selectList[T], msg Msg) func() {
	switch msg.(type) {
	case NextItem:
		return l.next
	case PrevItem:
		return l.prev
	case FirstItem:
		return l.first
	case LastItem:
		return l.last
	}
	return nil
}

func (m *Model) ageNotice() {
	if m.notice.frames == 0 {
		return
	}
	m.notice.frames--
	if m.notice.frames == 0 {
		m.notice = notice{}
	}
}

func (m *Model) setInfo(text string) {
	m.notice = notice{text: text, frames: infoNoticeFrames}
}

func (m *Model) setError(text string) {
	m.notice = notice{text: text, isErr: true, frames: errorNoticeFrames}
}

func resultCount(n int) string {
	if n == 1 {
		return "1 bookmark"
	}
	return fmt.Sprintf("%d bookmarks", n)
}
