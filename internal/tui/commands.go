package tui

import "github.com/dhth/bmm-sub000/internal/model"

// Command describes one side effect for the dispatcher to run. Each Command
// is executed once and answered by exactly one Completion.
type Command interface {
	isCommand()
}

type (
	OpenInBrowser struct {
		URI string
	}

	CopyURI struct {
		URI string
	}

	// RunSearch runs a free-text search; answered by SearchFinished.
	RunSearch struct {
		Terms model.SearchTerms
	}

	// FetchTags lists all tags with counts; answered by TagsFetched.
	FetchTags struct{}

	// FetchBookmarksForTag lists bookmarks carrying Tag; answered by
	// TagBookmarksFetched.
	FetchBookmarksForTag struct {
		Tag string
	}
)

func (OpenInBrowser) isCommand()        {}
func (CopyURI) isCommand()              {}
func (RunSearch) isCommand()            {}
func (FetchTags) isCommand()            {}
func (FetchBookmarksForTag) isCommand() {}
