// Package runtime drives a browsing session: it owns the terminal, feeds
// terminal events and command completions through one queue into
// tui.Model.Update, runs the resulting commands and redraws.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/dhth/bmm-sub000/internal/logging"
	"github.com/dhth/bmm-sub000/internal/tui"
)

// ErrTerminal wraps every failure to set up, poll, read, draw or restore the
// terminal. Such failures end the session.
var ErrTerminal = errors.New("terminal error")

const (
	DefaultPollInterval = 16 * time.Millisecond
	DefaultQueueSize    = 10
)

// Terminal is what a session needs from the terminal it runs in.
type Terminal interface {
	Init() error
	Restore() error
	Size() (width, height int, err error)
	Draw(frame string) error
	// Poll waits up to timeout for an event and reports whether one is
	// ready to Read.
	Poll(timeout time.Duration) (bool, error)
	// Read returns the next event, a tea.KeyMsg or a tea.WindowSizeMsg.
	Read() (tea.Msg, error)
}

// item is one entry on the inbound queue: either a raw terminal event that
// is still to be translated or a command completion.
type item struct {
	event      tea.Msg
	completion tui.Completion
}

// Options configures Run.
type Options struct {
	Terminal Terminal
	Store    Store
	Open     func(uri string) error
	Copy     func(text string) error
	Config   tui.Config
	Start    tui.Start

	PollInterval time.Duration
	QueueSize    int
	Logger       *log.Logger
}

// Stats summarizes a finished session.
type Stats struct {
	SessionID          string
	Events             uint64
	Renders            uint64
	DroppedInputs      uint64
	DroppedCompletions uint64
}

// Run runs a session until the user quits, ctx is cancelled or the terminal
// fails. A normal quit returns a nil error; terminal failures wrap
// ErrTerminal.
func Run(ctx context.Context, opts Options) (Stats, error) {
	opts = withDefaults(opts)
	logger := opts.Logger

	stats := Stats{SessionID: uuid.New().String()}
	logger = logger.With("session", stats.SessionID)

	term := opts.Terminal
	width, height, err := term.Size()
	if err != nil {
		return stats, fmt.Errorf("%w: getting size: %w", ErrTerminal, err)
	}
	if err := term.Init(); err != nil {
		return stats, fmt.Errorf("%w: initializing: %w", ErrTerminal, err)
	}
	logger.Info("session started", "width", width, "height", height)

	m, cmds := tui.NewModel(opts.Config, opts.Start)
	m, _ = m.Update(tui.TerminalResize{Width: width, Height: height})

	inbound := make(chan item, opts.QueueSize)
	errc := make(chan error, 1)
	done := make(chan struct{})

	d := &dispatcher{
		// commands outlive the session; they are never cancelled
		ctx:     context.WithoutCancel(ctx),
		store:   opts.Store,
		open:    opts.Open,
		copy:    opts.Copy,
		limit:   opts.Config.SearchLimit,
		inbound: inbound,
		done:    done,
		logger:  logger,
	}
	events := &eventSource{
		term:     term,
		interval: opts.PollInterval,
		inbound:  inbound,
		errc:     errc,
		logger:   logger,
	}

	finish := func(runErr error) (Stats, error) {
		close(done)
		if err := term.Restore(); err != nil {
			runErr = errors.Join(runErr, fmt.Errorf("%w: restoring: %w", ErrTerminal, err))
		}

		stats.Events = m.Events()
		stats.Renders = m.Renders()
		stats.DroppedInputs = events.dropped.Load()
		stats.DroppedCompletions = d.dropped.Load()
		if runErr != nil {
			logger.Error("session failed", "err", runErr)
		}
		logger.Info("session ended",
			"events", stats.Events,
			"renders", stats.Renders,
			"dropped_inputs", stats.DroppedInputs,
			"dropped_completions", stats.DroppedCompletions,
		)
		return stats, runErr
	}

	for _, cmd := range cmds {
		d.dispatch(cmd)
	}

	lastFrame := m.View()
	if err := term.Draw(lastFrame); err != nil {
		return finish(fmt.Errorf("%w: drawing: %w", ErrTerminal, err))
	}

	go events.run(done)

	for {
		var it item
		select {
		case it = <-inbound:
		case err := <-errc:
			return finish(err)
		case <-ctx.Done():
			return finish(ctx.Err())
		}

		var msg tui.Msg = it.completion
		if it.event != nil {
			// translated against the current pane, after every earlier
			// event has been applied
			translated, ok := m.Keys().Translate(m.ActivePane(), m.TooSmall(), it.event)
			if !ok {
				continue
			}
			msg = translated
		}

		m, cmds = m.Update(msg)

		for _, cmd := range cmds {
			d.dispatch(cmd)
		}

		if m.Quitting() {
			return finish(nil)
		}

		frame := m.View()
		if frame == lastFrame {
			continue
		}
		if err := term.Draw(frame); err != nil {
			return finish(fmt.Errorf("%w: drawing: %w", ErrTerminal, err))
		}
		lastFrame = frame
	}
}

func withDefaults(opts Options) Options {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.Logger == nil {
		opts.Logger = logging.WithPrefix("runtime")
	}
	if opts.Config.SearchLimit <= 0 {
		opts.Config.SearchLimit = tui.DefaultConfig().SearchLimit
	}
	if opts.Open == nil {
		opts.Open = func(string) error { return errors.New("opening URIs is not supported") }
	}
	if opts.Copy == nil {
		opts.Copy = func(string) error { return errors.New("clipboard is not available") }
	}
	return opts
}

func commandName(cmd tui.Command) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", cmd), "tui.")
}

func msgName(msg tui.Msg) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", msg), "tui.")
}
