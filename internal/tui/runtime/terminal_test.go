package runtime

import (
	"errors"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/muesli/cancelreader"
	"golang.org/x/term"
	"gotest.tools/v3/assert"
)

// blockingReader blocks every Read until it is canceled.
type blockingReader struct {
	once     sync.Once
	canceled chan struct{}
	closed   bool
}

func (r *blockingReader) Read([]byte) (int, error) {
	<-r.canceled
	return 0, cancelreader.ErrCanceled
}

func (r *blockingReader) Cancel() bool {
	r.once.Do(func() { close(r.canceled) })
	return true
}

func (r *blockingReader) Close() error {
	r.closed = true
	return nil
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func newTestStdTerminal(t *testing.T, out io.Writer) (*StdTerminal, *blockingReader, *int) {
	t.Helper()
	in, w, err := os.Pipe()
	assert.NilError(t, err)
	t.Cleanup(func() {
		in.Close()
		w.Close()
	})

	reader := &blockingReader{canceled: make(chan struct{})}
	restores := new(int)

	st := NewStdTerminal(in, out)
	st.isTerminal = func(int) bool { return true }
	st.makeRaw = func(int) (*term.State, error) { return &term.State{}, nil }
	st.restore = func(int, *term.State) error {
		*restores++
		return nil
	}
	st.newReader = func(io.Reader) (cancelreader.CancelReader, error) { return reader, nil }
	return st, reader, restores
}

func TestStdTerminal_FailedInitLeavesNothingToRestore(t *testing.T) {
	st, reader, restores := newTestStdTerminal(t, brokenWriter{})

	err := st.Init()
	assert.ErrorContains(t, err, "entering alternate screen")
	assert.ErrorContains(t, err, "broken pipe")

	assert.Equal(t, *restores, 1)
	assert.Assert(t, reader.closed)
	assert.Assert(t, st.reader == nil)
	assert.Assert(t, st.state == nil)

	// a later Restore must not leave raw mode twice
	_ = st.Restore()
	assert.Equal(t, *restores, 1)
}

func TestStdTerminal_FailedReaderLeavesRawMode(t *testing.T) {
	st, _, restores := newTestStdTerminal(t, io.Discard)
	st.newReader = func(io.Reader) (cancelreader.CancelReader, error) {
		return nil, errors.New("too many open files")
	}

	err := st.Init()
	assert.ErrorContains(t, err, "creating input reader")
	assert.Equal(t, *restores, 1)
	assert.Assert(t, st.state == nil)
}

func TestStdTerminal_InitThenRestore(t *testing.T) {
	st, reader, restores := newTestStdTerminal(t, io.Discard)

	assert.NilError(t, st.Init())
	assert.Assert(t, st.reader != nil)
	assert.Equal(t, *restores, 0)

	assert.NilError(t, st.Restore())
	assert.Equal(t, *restores, 1)
	assert.Assert(t, reader.closed)
	assert.Assert(t, st.reader == nil)

	assert.NilError(t, st.Restore())
	assert.Equal(t, *restores, 1)
}

func TestStdTerminal_NotATerminal(t *testing.T) {
	st, _, restores := newTestStdTerminal(t, io.Discard)
	st.isTerminal = func(int) bool { return false }

	assert.ErrorContains(t, st.Init(), "not a terminal")
	assert.Equal(t, *restores, 0)
}
