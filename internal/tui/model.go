package tui

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/dhth/bmm-sub000/internal/model"
	"github.com/dhth/bmm-sub000/internal/tui/layout"
)

// Pane is one of the mutually exclusive top-level views.
type Pane int

const (
	ResultsListPane Pane = iota
	InputPane
	TagsListPane
	HelpPane
)

func (p Pane) String() string {
	switch p {
	case InputPane:
		return "search"
	case ResultsListPane:
		return "bookmarks"
	case TagsListPane:
		return "tags"
	case HelpPane:
		return "help"
	}
	return "unknown"
}

// Notice lifetimes, counted in processed messages.
const (
	infoNoticeFrames  = 2
	errorNoticeFrames = 6
)

// Config is the explicit configuration a session is built with.
type Config struct {
	Debug       bool
	SearchLimit int
	MinWidth    int
	MinHeight   int
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	size := layout.DefaultConfig().Min
	return Config{
		SearchLimit: 500,
		MinWidth:    size.Width,
		MinHeight:   size.Height,
	}
}

type startKind int

const (
	startBlank startKind = iota
	startQuery
	startTags
)

// Start is the context a session begins in.
type Start struct {
	kind  startKind
	terms model.SearchTerms
}

// BlankStart opens the session on an empty search input.
func BlankStart() Start {
	return Start{kind: startBlank}
}

// QueryStart opens the session running terms.
func QueryStart(terms model.SearchTerms) Start {
	return Start{kind: startQuery, terms: terms}
}

// TagsStart opens the session on the tag list.
func TagsStart() Start {
	return Start{kind: startTags}
}

type notice struct {
	text   string
	isErr  bool
	frames int
}

// Model is the whole state of a browsing session. It is only changed by
// Update.
type Model struct {
	cfg    Config
	layout layout.LayoutConfig
	keys   KeyMap
	styles Styles

	activePane Pane
	results    selectList[model.Bookmark]
	tags       selectList[model.TagStats]
	input      textinput.Model

	// resultsLabel describes what produced the current results.
	resultsLabel string
	// tagsLoaded is set once a FetchTags completion succeeded. Until then
	// every visit to the tag list asks again, so a lost completion cannot
	// leave it loading forever.
	tagsLoaded bool
	// inputFrom is the pane the search input returns to.
	inputFrom Pane
	// fromTag is the tag drilled into from the tag list, if any.
	fromTag string

	notice notice

	width    int
	height   int
	tooSmall bool

	events  uint64
	renders uint64

	quitting bool
}

// NewModel builds the initial Model for start and the Commands it needs.
func NewModel(cfg Config, start Start) (Model, []Command) {
	lc := layout.DefaultConfig()
	if cfg.MinWidth > 0 {
		lc.Min.Width = cfg.MinWidth
	}
	if cfg.MinHeight > 0 {
		lc.Min.Height = cfg.MinHeight
	}

	input := textinput.New()
	input.Prompt = "/ "
	input.Placeholder = "search terms..."
	input.CharLimit = lc.Input.SearchCharLimit
	input.Width = lc.Input.StandardWidth
	input.Cursor.SetMode(cursor.CursorStatic)

	m := Model{
		cfg:     cfg,
		layout:  lc,
		keys:    DefaultKeyMap(),
		styles:  DefaultStyles(),
		results: newSelectList[model.Bookmark](nil),
		tags:    newSelectList[model.TagStats](nil),
		input:   input,
		width:   lc.Min.Width,
		height:  lc.Min.Height,
	}

	var cmds []Command
	switch start.kind {
	case startQuery:
		m.activePane = ResultsListPane
		m.input.SetValue(start.terms.String())
		m.resultsLabel = "search: " + start.terms.String()
		cmds = append(cmds, RunSearch{Terms: start.terms})
	case startTags:
		cmds = append(cmds, m.showTags()...)
	default:
		m.focusInput()
	}

	return m, cmds
}

// Keys returns the key map used to translate terminal events.
func (m Model) Keys() KeyMap {
	return m.keys
}

func (m Model) ActivePane() Pane {
	return m.activePane
}

func (m Model) Results() []model.Bookmark {
	return m.results.items
}

// ResultsSelection returns the selected result index, or -1 when there are
// no results.
func (m Model) ResultsSelection() int {
	return m.results.selected
}

func (m Model) Tags() []model.TagStats {
	return m.tags.items
}

// TagsSelection returns the selected tag index, or -1 when there are no
// tags.
func (m Model) TagsSelection() int {
	return m.tags.selected
}

// Notice returns the current notice text and whether it reports an error.
func (m Model) Notice() (string, bool) {
	return m.notice.text, m.notice.isErr
}

func (m Model) InputValue() string {
	return m.input.Value()
}

func (m Model) TooSmall() bool {
	return m.tooSmall
}

func (m Model) Size() (width, height int) {
	return m.width, m.height
}

// Quitting reports whether the session has reached its terminating
// transition.
func (m Model) Quitting() bool {
	return m.quitting
}

// Events counts processed terminal-originated messages.
func (m Model) Events() uint64 {
	return m.events
}

// Renders counts processed messages of any origin.
func (m Model) Renders() uint64 {
	return m.renders
}

func (m *Model) focusInput() {
	m.activePane = InputPane
	m.input.Focus()
}
