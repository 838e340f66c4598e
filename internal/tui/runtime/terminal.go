package runtime

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/cancelreader"
	"golang.org/x/term"
)

// StdTerminal is a Terminal on a real TTY: raw mode, the alternate screen
// and a cancelable reader on input.
type StdTerminal struct {
	in  *os.File
	out io.Writer
	fd  int

	state  *term.State
	reader cancelreader.CancelReader
	chunks chan []byte
	errs   chan error
	wg     sync.WaitGroup

	pending []tea.Msg
	width   int
	height  int

	isTerminal func(fd int) bool
	makeRaw    func(fd int) (*term.State, error)
	restore    func(fd int, state *term.State) error
	newReader  func(r io.Reader) (cancelreader.CancelReader, error)
}

// NewStdTerminal returns a terminal reading from in and drawing to out.
func NewStdTerminal(in *os.File, out io.Writer) *StdTerminal {
	return &StdTerminal{
		in:  in,
		out: out,
		fd:  int(in.Fd()),

		isTerminal: term.IsTerminal,
		makeRaw:    term.MakeRaw,
		restore:    term.Restore,
		newReader:  cancelreader.NewReader,
	}
}

// Init enters raw mode and the alternate screen and starts reading input.
// When it fails it leaves the terminal as it found it, so Restore is not
// needed.
func (t *StdTerminal) Init() error {
	if !t.isTerminal(t.fd) {
		return errors.New("input is not a terminal")
	}

	state, err := t.makeRaw(t.fd)
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	t.state = state

	reader, err := t.newReader(t.in)
	if err != nil {
		t.state = nil
		return errors.Join(fmt.Errorf("creating input reader: %w", err), t.restore(t.fd, state))
	}
	t.reader = reader
	t.chunks = make(chan []byte)
	t.errs = make(chan error, 1)

	t.wg.Add(1)
	go t.readLoop()

	if _, err := io.WriteString(t.out, ansi.SetAltScreenSaveCursorMode+ansi.HideCursor+ansi.EraseEntireScreen); err != nil {
		return errors.Join(fmt.Errorf("entering alternate screen: %w", err), t.Restore())
	}
	return nil
}

func (t *StdTerminal) readLoop() {
	defer t.wg.Done()
	buf := make([]byte, 256)
	for {
		n, err := t.reader.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			t.chunks <- chunk
		}
		if err != nil {
			if !errors.Is(err, cancelreader.ErrCanceled) {
				t.errs <- err
			}
			return
		}
	}
}

// Restore undoes Init. Calling it again, or after a failed Init, only
// rewrites the cursor and screen reset sequence.
func (t *StdTerminal) Restore() error {
	errs := []error{t.stopReader()}

	_, err := io.WriteString(t.out, ansi.ShowCursor+ansi.ResetAltScreenSaveCursorMode)
	errs = append(errs, err)

	if t.state != nil {
		errs = append(errs, t.restore(t.fd, t.state))
		t.state = nil
	}
	return errors.Join(errs...)
}

// stopReader cancels the input reader and waits for readLoop to exit.
func (t *StdTerminal) stopReader() error {
	if t.reader == nil {
		return nil
	}
	t.reader.Cancel()
	// unblock a reader waiting to hand over a chunk
	go func() {
		for range t.chunks {
		}
	}()
	t.wg.Wait()
	close(t.chunks)
	err := t.reader.Close()
	t.reader = nil
	return err
}

func (t *StdTerminal) Size() (int, int, error) {
	w, h, err := term.GetSize(t.fd)
	if err != nil {
		return 0, 0, err
	}
	t.width, t.height = w, h
	return w, h, nil
}

// Draw replaces the screen contents with frame.
func (t *StdTerminal) Draw(frame string) error {
	var b strings.Builder
	b.WriteString(ansi.CursorHomePosition)
	// raw mode does not translate newlines
	b.WriteString(strings.ReplaceAll(frame, "\n", ansi.EraseLineRight+"\r\n"))
	b.WriteString(ansi.EraseLineRight + ansi.EraseScreenBelow)
	_, err := io.WriteString(t.out, b.String())
	return err
}

// Poll reports a pending key or a size change. Size changes are detected by
// comparing the size on every poll.
func (t *StdTerminal) Poll(timeout time.Duration) (bool, error) {
	if len(t.pending) > 0 {
		return true, nil
	}

	if w, h, err := term.GetSize(t.fd); err == nil && (w != t.width || h != t.height) {
		t.width, t.height = w, h
		t.pending = append(t.pending, tea.WindowSizeMsg{Width: w, Height: h})
		return true, nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case chunk := <-t.chunks:
		for _, k := range decodeKeys(chunk) {
			t.pending = append(t.pending, k)
		}
		return len(t.pending) > 0, nil
	case err := <-t.errs:
		return false, err
	case <-timer.C:
		return false, nil
	}
}

func (t *StdTerminal) Read() (tea.Msg, error) {
	if len(t.pending) == 0 {
		return nil, errors.New("no pending event")
	}
	msg := t.pending[0]
	t.pending = t.pending[1:]
	return msg, nil
}
