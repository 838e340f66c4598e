package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dhth/bmm-sub000/internal/model"
)

// Msg is one unit of input to Update: either a translated terminal event or
// the completion of a Command. The set of variants is closed.
type Msg interface {
	isMsg()
}

// Completion is a Msg delivered by the dispatcher when a Command finishes.
type Completion interface {
	Msg
	isCompletion()
}

// Translated terminal events.
type (
	NextItem  struct{}
	PrevItem  struct{}
	FirstItem struct{}
	LastItem  struct{}

	// OpenSelected opens the selected bookmark in a browser.
	OpenSelected struct{}
	// CopySelected copies the selected bookmark's URI.
	CopySelected struct{}
	// DrillIntoTag lists the bookmarks of the selected tag.
	DrillIntoTag struct{}
	// SubmitSearch turns the input pane's text into a search.
	SubmitSearch struct{}

	ShowView struct {
		Pane Pane
	}

	// EditInput forwards a key to the search input.
	EditInput struct {
		Key tea.KeyMsg
	}

	GoBackOrQuit struct{}
	// Quit ends the session from any pane.
	Quit struct{}

	TerminalResize struct {
		Width  int
		Height int
	}
)

// Command completions.
type (
	URIOpened struct {
		URI string
		Err error
	}

	URICopied struct {
		URI string
		Err error
	}

	SearchFinished struct {
		Terms   model.SearchTerms
		Results []model.Bookmark
		Err     error
	}

	TagsFetched struct {
		Tags []model.TagStats
		Err  error
	}

	TagBookmarksFetched struct {
		Tag     string
		Results []model.Bookmark
		Err     error
	}
)

func (NextItem) isMsg()       {}
func (PrevItem) isMsg()       {}
func (FirstItem) isMsg()      {}
func (LastItem) isMsg()       {}
func (OpenSelected) isMsg()   {}
func (CopySelected) isMsg()   {}
func (DrillIntoTag) isMsg()   {}
func (SubmitSearch) isMsg()   {}
func (ShowView) isMsg()       {}
func (EditInput) isMsg()      {}
func (GoBackOrQuit) isMsg()   {}
func (Quit) isMsg()           {}
func (TerminalResize) isMsg() {}

func (URIOpened) isMsg()           {}
func (URICopied) isMsg()           {}
func (SearchFinished) isMsg()      {}
func (TagsFetched) isMsg()         {}
func (TagBookmarksFetched) isMsg() {}

func (URIOpened) isCompletion()           {}
func (URICopied) isCompletion()           {}
func (SearchFinished) isCompletion()      {}
func (TagsFetched) isCompletion()         {}
func (TagBookmarksFetched) isCompletion() {}
