package runtime

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dhth/bmm-sub000/internal/model"
	"github.com/dhth/bmm-sub000/internal/tui/layout"
)

// fakeTerminal replays events fed by the test and records frames.
type fakeTerminal struct {
	mu       sync.Mutex
	events   []tea.Msg
	frames   []string
	restored int

	width, height int

	initErr error
	pollErr error
	drawErr error
}

func newFakeTerminal() *fakeTerminal {
	return &fakeTerminal{width: 100, height: 30}
}

func (f *fakeTerminal) feed(msgs ...tea.Msg) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, msgs...)
}

func (f *fakeTerminal) feedKeys(keys ...string) {
	for _, k := range keys {
		switch k {
		case "enter":
			f.feed(tea.KeyMsg{Type: tea.KeyEnter})
		case "esc":
			f.feed(tea.KeyMsg{Type: tea.KeyEsc})
		default:
			f.feed(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
		}
	}
}

func (f *fakeTerminal) Init() error { return f.initErr }

func (f *fakeTerminal) Restore() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.restored++
	return nil
}

func (f *fakeTerminal) Size() (int, int, error) {
	return f.width, f.height, nil
}

func (f *fakeTerminal) Draw(frame string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.drawErr != nil {
		return f.drawErr
	}
	f.frames = append(f.frames, layout.StripANSI(frame))
	return nil
}

func (f *fakeTerminal) Poll(timeout time.Duration) (bool, error) {
	f.mu.Lock()
	if f.pollErr != nil {
		defer f.mu.Unlock()
		return false, f.pollErr
	}
	ready := len(f.events) > 0
	f.mu.Unlock()

	if !ready {
		time.Sleep(min(timeout, time.Millisecond))
	}
	return ready, nil
}

func (f *fakeTerminal) Read() (tea.Msg, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.events) == 0 {
		return nil, errors.New("no events")
	}
	msg := f.events[0]
	f.events = f.events[1:]
	return msg, nil
}

func (f *fakeTerminal) lastFrame() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.frames) == 0 {
		return ""
	}
	return f.frames[len(f.frames)-1]
}

// waitForFrame waits until the latest frame contains s.
func (f *fakeTerminal) waitForFrame(t *testing.T, s string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(f.lastFrame(), s) {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("no frame containing %q; last frame:\n%s", s, f.lastFrame())
}

// fakeStore answers queries from a fixed corpus.
type fakeStore struct {
	mu       sync.Mutex
	results  []model.Bookmark
	tags     []model.TagStats
	err      error
	searches []model.SearchTerms
	filters  []model.FieldFilter
	limits   []int
	tagCalls int
	// release, when set, blocks every query until closed
	release chan struct{}
}

func (s *fakeStore) wait() {
	if s.release != nil {
		<-s.release
	}
}

func (s *fakeStore) SearchByTerms(_ context.Context, terms model.SearchTerms, limit int) ([]model.Bookmark, error) {
	s.wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searches = append(s.searches, terms)
	s.limits = append(s.limits, limit)
	return s.results, s.err
}

func (s *fakeStore) FieldedSearch(_ context.Context, filter model.FieldFilter, limit int) ([]model.Bookmark, error) {
	s.wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = append(s.filters, filter)
	s.limits = append(s.limits, limit)
	return s.results, s.err
}

func (s *fakeStore) TagsWithCounts(context.Context) ([]model.TagStats, error) {
	s.wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tagCalls++
	return s.tags, s.err
}
