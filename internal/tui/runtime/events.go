package runtime

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// eventSource polls the terminal on a fixed interval and forwards raw events
// to inbound. They are translated by the main loop against the model as it
// is when the event is taken off the queue. Events that find the queue full
// are dropped.
type eventSource struct {
	term     Terminal
	interval time.Duration
	inbound  chan<- item
	errc     chan<- error
	logger   *log.Logger

	dropped atomic.Uint64
}

func (e *eventSource) run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		default:
		}

		ready, err := e.term.Poll(e.interval)
		if err != nil {
			e.fail(done, fmt.Errorf("%w: polling: %w", ErrTerminal, err))
			return
		}
		if !ready {
			continue
		}

		raw, err := e.term.Read()
		if err != nil {
			e.fail(done, fmt.Errorf("%w: reading: %w", ErrTerminal, err))
			return
		}
		if raw == nil {
			continue
		}

		select {
		case e.inbound <- item{event: raw}:
		default:
			e.dropped.Add(1)
			e.logger.Warn("inbound queue full, dropping input", "event", fmt.Sprintf("%T", raw))
		}
	}
}

func (e *eventSource) fail(done <-chan struct{}, err error) {
	select {
	case e.errc <- err:
	case <-done:
	}
}
