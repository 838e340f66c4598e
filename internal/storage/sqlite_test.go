package storage_test

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/dhth/bmm-sub000/internal/model"
	"github.com/dhth/bmm-sub000/internal/storage"
)

// stepClock returns a clock that advances one second per call.
func stepClock() func() time.Time {
	t := time.Unix(1_700_000_000, 0)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newTestStorage(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	s, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "bmm.db"), storage.WithClock(stepClock()))
	assert.NilError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func save(t *testing.T, s *storage.SQLiteStorage, uri, title string, tags ...string) {
	t.Helper()
	input, err := model.NewBookmarkInput(model.NewBookmarkParams{URI: uri, Title: title, Tags: tags})
	assert.NilError(t, err)
	assert.NilError(t, s.SaveBookmark(context.Background(), input, storage.SaveOptions{}))
}

func uris(bookmarks []model.Bookmark) []string {
	out := make([]string, len(bookmarks))
	for i, b := range bookmarks {
		out[i] = b.URI
	}
	return out
}

func TestNewSQLiteStorage_CreatesDirectoryAndReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "bmm.db")

	s, err := storage.NewSQLiteStorage(path)
	assert.NilError(t, err)
	assert.Equal(t, s.Path(), path)
	save(t, s, "https://example.com", "Example", "web")
	assert.NilError(t, s.Close())

	reopened, err := storage.NewSQLiteStorage(path)
	assert.NilError(t, err)
	defer reopened.Close()

	b, err := reopened.GetBookmark(context.Background(), "https://example.com")
	assert.NilError(t, err)
	assert.Equal(t, b.Title, "Example")
	assert.DeepEqual(t, b.Tags, []string{"web"})
}

func TestGetBookmark_NotFound(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.GetBookmark(context.Background(), "https://missing.example")
	assert.Assert(t, errors.Is(err, storage.ErrNotFound))
}

func TestSaveBookmark_MergesByDefault(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	save(t, s, "https://example.com", "Example", "a", "b")
	save(t, s, "https://example.com", "", "c")

	b, err := s.GetBookmark(ctx, "https://example.com")
	assert.NilError(t, err)
	assert.Equal(t, b.Title, "Example")
	assert.DeepEqual(t, b.Tags, []string{"a", "b", "c"})
}

func TestSaveBookmark_ResetMissing(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	save(t, s, "https://example.com", "Example", "a", "b")
	save(t, s, "https://other.com", "", "b")

	input, err := model.NewBookmarkInput(model.NewBookmarkParams{URI: "https://example.com", Tags: []string{"c"}})
	assert.NilError(t, err)
	assert.NilError(t, s.SaveBookmark(ctx, input, storage.SaveOptions{ResetMissing: true}))

	b, err := s.GetBookmark(ctx, "https://example.com")
	assert.NilError(t, err)
	assert.Equal(t, b.Title, "")
	assert.DeepEqual(t, b.Tags, []string{"c"})

	// "a" lost its last bookmark and is collected; "b" is still used.
	tags, err := s.TagsWithCounts(ctx)
	assert.NilError(t, err)
	assert.DeepEqual(t, tags, []model.TagStats{
		{Name: "b", NumBookmarks: 1},
		{Name: "c", NumBookmarks: 1},
	})
}

func TestSaveBookmarks_Batch(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	inputs := []model.BookmarkInput{
		{URI: "https://one.com", Tags: []string{"x"}},
		{URI: "https://two.com", Tags: []string{"x", "y"}},
		{URI: "https://one.com", Title: "One", Tags: []string{"z"}},
	}
	assert.NilError(t, s.SaveBookmarks(ctx, inputs, storage.SaveOptions{}))

	got, err := s.FieldedSearch(ctx, model.FieldFilter{}, 0)
	assert.NilError(t, err)
	assert.Equal(t, len(got), 2)

	one, err := s.GetBookmark(ctx, "https://one.com")
	assert.NilError(t, err)
	assert.Equal(t, one.Title, "One")
	assert.DeepEqual(t, one.Tags, []string{"x", "z"})
}

func TestSaveBookmarks_CancelledContext(t *testing.T) {
	s := newTestStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.SaveBookmarks(ctx, []model.BookmarkInput{{URI: "https://one.com"}}, storage.SaveOptions{})
	assert.Assert(t, err != nil)

	got, err := s.FieldedSearch(context.Background(), model.FieldFilter{}, 0)
	assert.NilError(t, err)
	assert.Equal(t, len(got), 0)
}

func TestSaveBookmark_UpdateMovesToFront(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	save(t, s, "https://a.com", "")
	save(t, s, "https://b.com", "")
	save(t, s, "https://a.com", "A again")

	got, err := s.FieldedSearch(ctx, model.FieldFilter{}, 0)
	assert.NilError(t, err)
	assert.DeepEqual(t, uris(got), []string{"https://a.com", "https://b.com"})
}

func TestFieldedSearch_OrdersByRecency(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	save(t, s, "https://github.com/t2", "")
	save(t, s, "https://gitlab.com/other", "")
	save(t, s, "https://github.com/t1", "")
	save(t, s, "https://github.com/t0", "")

	got, err := s.FieldedSearch(ctx, model.FieldFilter{URI: "github.com"}, 10)
	assert.NilError(t, err)
	assert.DeepEqual(t, uris(got), []string{
		"https://github.com/t0",
		"https://github.com/t1",
		"https://github.com/t2",
	})
	for i := 1; i < len(got); i++ {
		assert.Assert(t, got[i-1].UpdatedAt >= got[i].UpdatedAt)
	}
}

func TestFieldedSearch_TiesAreStable(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	var inputs []model.BookmarkInput
	for _, u := range []string{"https://a.com", "https://b.com", "https://c.com"} {
		inputs = append(inputs, model.BookmarkInput{URI: u, Tags: []string{}})
	}
	// one transaction, one timestamp
	assert.NilError(t, s.SaveBookmarks(ctx, inputs, storage.SaveOptions{}))

	first, err := s.FieldedSearch(ctx, model.FieldFilter{}, 0)
	assert.NilError(t, err)
	for range 3 {
		again, err := s.FieldedSearch(ctx, model.FieldFilter{}, 0)
		assert.NilError(t, err)
		assert.DeepEqual(t, uris(again), uris(first))
	}
}

func TestFieldedSearch_TagSuperset(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	save(t, s, "https://exact.com", "", "github", "crate")
	save(t, s, "https://extra.com", "", "github", "crate", "rust")
	save(t, s, "https://only-github.com", "", "github")
	save(t, s, "https://only-crate.com", "", "crate")
	save(t, s, "https://none.com", "")

	got, err := s.FieldedSearch(ctx, model.FieldFilter{Tags: []string{"github", "crate"}}, 0)
	assert.NilError(t, err)

	gotURIs := uris(got)
	sort.Strings(gotURIs)
	assert.DeepEqual(t, gotURIs, []string{"https://exact.com", "https://extra.com"})

	for _, b := range got {
		assert.Assert(t, b.HasTag("github") && b.HasTag("crate"))
	}
}

func TestFieldedSearch_AndCombinesPredicates(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	save(t, s, "https://go.dev/doc", "Go docs", "go")
	save(t, s, "https://go.dev/blog", "Go blog", "go")
	save(t, s, "https://example.com/doc", "Go docs mirror", "go")

	got, err := s.FieldedSearch(ctx, model.FieldFilter{URI: "go.dev", Title: "docs", Tags: []string{"go"}}, 0)
	assert.NilError(t, err)
	assert.DeepEqual(t, uris(got), []string{"https://go.dev/doc"})
}

func TestFieldedSearch_Limit(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	save(t, s, "https://a.com", "")
	save(t, s, "https://b.com", "")
	save(t, s, "https://c.com", "")

	got, err := s.FieldedSearch(ctx, model.FieldFilter{}, 2)
	assert.NilError(t, err)
	assert.DeepEqual(t, uris(got), []string{"https://c.com", "https://b.com"})
}

func TestFieldedSearch_EscapesWildcards(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	save(t, s, "https://a.com/100%25", "100% done")
	save(t, s, "https://b.com/x", "100 items")
	save(t, s, "https://c.com/snake_case", "")
	save(t, s, "https://d.com/snakeXcase", "")

	got, err := s.FieldedSearch(ctx, model.FieldFilter{Title: "100%"}, 0)
	assert.NilError(t, err)
	assert.DeepEqual(t, uris(got), []string{"https://a.com/100%25"})

	got, err = s.FieldedSearch(ctx, model.FieldFilter{URI: "snake_case"}, 0)
	assert.NilError(t, err)
	assert.DeepEqual(t, uris(got), []string{"https://c.com/snake_case"})
}

func TestSearchByTerms_AnyField(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	save(t, s, "https://keyword4.com", "uri only")
	save(t, s, "https://title.com", "has keyword4 in title")
	save(t, s, "https://tag.com", "tag only", "keyword4")
	save(t, s, "https://nothing.com", "nothing here", "other")

	terms, err := model.NewSearchTerms("keyword4")
	assert.NilError(t, err)
	got, err := s.SearchByTerms(ctx, terms, 10)
	assert.NilError(t, err)
	assert.DeepEqual(t, uris(got), []string{
		"https://tag.com",
		"https://title.com",
		"https://keyword4.com",
	})

	terms, err = model.NewSearchTerms("absent")
	assert.NilError(t, err)
	got, err = s.SearchByTerms(ctx, terms, 10)
	assert.NilError(t, err)
	assert.Equal(t, len(got), 0)
}

func TestSearchByTerms_TermsMayMatchDifferentFields(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	save(t, s, "https://rust-lang.org", "The book", "docs", "learning")
	save(t, s, "https://rust-lang.org/other", "Other")

	terms, err := model.NewSearchTerms("rust book learn")
	assert.NilError(t, err)
	got, err := s.SearchByTerms(ctx, terms, 10)
	assert.NilError(t, err)
	assert.DeepEqual(t, uris(got), []string{"https://rust-lang.org"})
}

// containsFold mirrors LIKE semantics for ASCII input.
func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func TestSearchByTerms_ConjunctionProperty(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	corpus := []model.BookmarkInput{
		{URI: "https://github.com/dhth/bmm", Title: "bmm repo", Tags: []string{"rust", "tools"}},
		{URI: "https://crates.io/crates/bmm", Title: "bmm crate", Tags: []string{"crate", "rust"}},
		{URI: "https://go.dev", Title: "Go", Tags: []string{"go"}},
		{URI: "https://example.com/tools", Tags: []string{"misc"}},
		{URI: "https://news.ycombinator.com", Title: "Hacker News", Tags: []string{}},
	}
	assert.NilError(t, s.SaveBookmarks(ctx, corpus, storage.SaveOptions{}))

	queries := []string{"rust", "bmm crate", "tools", "go", "news hacker", "io rust", "zzz", "com"}
	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			terms, err := model.NewSearchTerms(q)
			assert.NilError(t, err)

			var want []string
			for _, b := range corpus {
				matchesAll := true
				for _, term := range terms.Terms() {
					hit := containsFold(b.URI, term) || containsFold(b.Title, term)
					for _, tag := range b.Tags {
						hit = hit || containsFold(tag, term)
					}
					matchesAll = matchesAll && hit
				}
				if matchesAll {
					want = append(want, b.URI)
				}
			}

			got, err := s.SearchByTerms(ctx, terms, 0)
			assert.NilError(t, err)
			gotURIs := uris(got)
			sort.Strings(gotURIs)
			sort.Strings(want)
			if want == nil {
				want = []string{}
			}
			assert.DeepEqual(t, gotURIs, want)
		})
	}
}

func TestTagsWithCounts(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	tags, err := s.TagsWithCounts(ctx)
	assert.NilError(t, err)
	assert.Equal(t, len(tags), 0)

	save(t, s, "https://a.com", "", "zeta", "alpha")
	save(t, s, "https://b.com", "", "alpha")

	tags, err = s.TagsWithCounts(ctx)
	assert.NilError(t, err)
	assert.DeepEqual(t, tags, []model.TagStats{
		{Name: "alpha", NumBookmarks: 2},
		{Name: "zeta", NumBookmarks: 1},
	})
}

func TestDeleteBookmarks_CollectsOrphanedTags(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	save(t, s, "https://a.com", "", "shared", "lonely")
	save(t, s, "https://b.com", "", "shared")

	n, err := s.DeleteBookmarks(ctx, []string{"https://a.com", "https://missing.com"})
	assert.NilError(t, err)
	assert.Equal(t, n, 1)

	tags, err := s.TagsWithCounts(ctx)
	assert.NilError(t, err)
	assert.DeepEqual(t, tags, []model.TagStats{{Name: "shared", NumBookmarks: 1}})

	_, err = s.GetBookmark(ctx, "https://a.com")
	assert.Assert(t, errors.Is(err, storage.ErrNotFound))
}

func TestRenameTag(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	save(t, s, "https://a.com", "", "golang")
	assert.NilError(t, s.RenameTag(ctx, "golang", "go"))

	b, err := s.GetBookmark(ctx, "https://a.com")
	assert.NilError(t, err)
	assert.DeepEqual(t, b.Tags, []string{"go"})
}

func TestRenameTag_MergesIntoExisting(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	save(t, s, "https://a.com", "", "golang", "go")
	save(t, s, "https://b.com", "", "golang")
	save(t, s, "https://c.com", "", "go")

	assert.NilError(t, s.RenameTag(ctx, "golang", "go"))

	tags, err := s.TagsWithCounts(ctx)
	assert.NilError(t, err)
	assert.DeepEqual(t, tags, []model.TagStats{{Name: "go", NumBookmarks: 3}})
}

func TestRenameTag_Errors(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	save(t, s, "https://a.com", "", "go")

	err := s.RenameTag(ctx, "missing", "other")
	assert.Assert(t, errors.Is(err, storage.ErrNotFound))

	err = s.RenameTag(ctx, "go", "not valid")
	assert.Assert(t, errors.Is(err, model.ErrInvalidTag))
}

func TestDeleteTags(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	save(t, s, "https://a.com", "", "keep", "drop")

	n, err := s.DeleteTags(ctx, []string{"drop", "missing"})
	assert.NilError(t, err)
	assert.Equal(t, n, 1)

	b, err := s.GetBookmark(ctx, "https://a.com")
	assert.NilError(t, err)
	assert.DeepEqual(t, b.Tags, []string{"keep"})
}
