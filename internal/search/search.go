package search

import (
	"sort"

	"github.com/sahilm/fuzzy"

	"github.com/dhth/bmm-sub000/internal/model"
)

// SearchResult represents a fuzzy-ranked bookmark.
type SearchResult struct {
	Bookmark model.Bookmark
	Score    int
}

// bookmarkTargets implements fuzzy.Source over URI and title.
type bookmarkTargets []model.Bookmark

func (bt bookmarkTargets) String(i int) string {
	if bt[i].Title == "" {
		return bt[i].URI
	}
	return bt[i].Title + " " + bt[i].URI
}

func (bt bookmarkTargets) Len() int {
	return len(bt)
}

// RankBookmarks orders bookmarks by how many terms fuzzy-match them, then by
// the summed match score. Ties keep the input order.
func RankBookmarks(bookmarks []model.Bookmark, terms []string) []SearchResult {
	results := make([]SearchResult, len(bookmarks))
	for i, b := range bookmarks {
		results[i] = SearchResult{Bookmark: b}
	}
	if len(bookmarks) == 0 {
		return results
	}

	matched := make([]int, len(bookmarks))
	for _, term := range terms {
		if term == "" {
			continue
		}
		for _, m := range fuzzy.FindFrom(term, bookmarkTargets(bookmarks)) {
			results[m.Index].Score += m.Score
			matched[m.Index]++
		}
	}

	order := make([]int, len(results))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if matched[ia] != matched[ib] {
			return matched[ia] > matched[ib]
		}
		return results[ia].Score > results[ib].Score
	})

	ranked := make([]SearchResult, len(results))
	for i, idx := range order {
		ranked[i] = results[idx]
	}
	return ranked
}
