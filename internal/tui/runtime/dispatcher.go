package runtime

import (
	"context"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/dhth/bmm-sub000/internal/model"
	"github.com/dhth/bmm-sub000/internal/tui"
)

// Store is the query side of the bookmark store used by a session.
type Store interface {
	SearchByTerms(ctx context.Context, terms model.SearchTerms, limit int) ([]model.Bookmark, error)
	FieldedSearch(ctx context.Context, filter model.FieldFilter, limit int) ([]model.Bookmark, error)
	TagsWithCounts(ctx context.Context) ([]model.TagStats, error)
}

// dispatcher runs each Command on its own goroutine and delivers exactly one
// completion for it to inbound. Commands are never cancelled or sequenced;
// whichever completion is delivered last is what Update sees last.
type dispatcher struct {
	ctx     context.Context
	store   Store
	open    func(uri string) error
	copy    func(text string) error
	limit   int
	inbound chan<- item
	done    <-chan struct{}
	logger  *log.Logger

	dropped   atomic.Uint64
	discarded atomic.Uint64
}

func (d *dispatcher) dispatch(cmd tui.Command) {
	d.logger.Debug("dispatching command", "command", commandName(cmd))
	go func() {
		d.deliver(d.execute(cmd))
	}()
}

func (d *dispatcher) execute(cmd tui.Command) tui.Completion {
	switch cmd := cmd.(type) {
	case tui.OpenInBrowser:
		return tui.URIOpened{URI: cmd.URI, Err: d.open(cmd.URI)}

	case tui.CopyURI:
		return tui.URICopied{URI: cmd.URI, Err: d.copy(cmd.URI)}

	case tui.RunSearch:
		results, err := d.store.SearchByTerms(d.ctx, cmd.Terms, d.limit)
		return tui.SearchFinished{Terms: cmd.Terms, Results: results, Err: err}

	case tui.FetchTags:
		tags, err := d.store.TagsWithCounts(d.ctx)
		return tui.TagsFetched{Tags: tags, Err: err}

	case tui.FetchBookmarksForTag:
		filter := model.FieldFilter{Tags: []string{cmd.Tag}}
		results, err := d.store.FieldedSearch(d.ctx, filter, d.limit)
		return tui.TagBookmarksFetched{Tag: cmd.Tag, Results: results, Err: err}
	}

	panic("runtime: unknown command " + commandName(cmd))
}

// deliver hands msg to the main loop without blocking. A completion that
// finds the queue full is dropped and logged; one that arrives after the
// session ended is discarded.
func (d *dispatcher) deliver(msg tui.Completion) {
	select {
	case <-d.done:
		d.discarded.Add(1)
		return
	default:
	}

	select {
	case d.inbound <- item{completion: msg}:
	default:
		d.dropped.Add(1)
		d.logger.Warn("inbound queue full, dropping completion", "msg", msgName(msg))
	}
}
