package runtime

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"gotest.tools/v3/assert"

	"github.com/dhth/bmm-sub000/internal/logging"
	"github.com/dhth/bmm-sub000/internal/tui"
)

func newTestEventSource(term Terminal, queue int) (*eventSource, chan item, chan error) {
	inbound := make(chan item, queue)
	errc := make(chan error, 1)
	e := &eventSource{
		term:     term,
		interval: time.Millisecond,
		inbound:  inbound,
		errc:     errc,
		logger:   logging.Discard(),
	}
	return e, inbound, errc
}

// Events are forwarded untranslated and in order, including keys that mean
// nothing in any pane.
func TestEventSource_ForwardsRawEventsInOrder(t *testing.T) {
	term := newFakeTerminal()
	e, inbound, _ := newTestEventSource(term, DefaultQueueSize)
	done := make(chan struct{})
	defer close(done)

	term.feedKeys("z", "j")
	term.feed(tea.WindowSizeMsg{Width: 90, Height: 30})
	go e.run(done)

	want := []tea.Msg{
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("z")},
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")},
		tea.WindowSizeMsg{Width: 90, Height: 30},
	}
	for _, w := range want {
		select {
		case it := <-inbound:
			assert.Assert(t, it.completion == nil)
			assert.DeepEqual(t, it.event, w)
		case <-time.After(5 * time.Second):
			t.Fatal("no event")
		}
	}
	assert.Equal(t, e.dropped.Load(), uint64(0))
}

// Input that finds the queue full is dropped without blocking polling.
func TestEventSource_DropsInputWhenQueueFull(t *testing.T) {
	term := newFakeTerminal()
	e, inbound, _ := newTestEventSource(term, 1)
	inbound <- item{completion: tui.TagsFetched{}}

	done := make(chan struct{})
	defer close(done)

	term.feedKeys("j", "k", "j")
	go e.run(done)

	deadline := time.Now().Add(5 * time.Second)
	for e.dropped.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("dropped %d inputs, want 3", e.dropped.Load())
		}
		time.Sleep(time.Millisecond)
	}

	assert.Equal(t, len(inbound), 1)
	it := <-inbound
	_, ok := it.completion.(tui.TagsFetched)
	assert.Assert(t, ok)
}

func TestEventSource_ReportsTerminalErrors(t *testing.T) {
	term := newFakeTerminal()
	term.pollErr = errors.New("bad file descriptor")
	e, _, errc := newTestEventSource(term, DefaultQueueSize)

	done := make(chan struct{})
	defer close(done)
	go e.run(done)

	select {
	case err := <-errc:
		assert.Assert(t, errors.Is(err, ErrTerminal))
		assert.ErrorContains(t, err, "bad file descriptor")
	case <-time.After(5 * time.Second):
		t.Fatal("no error reported")
	}
}
