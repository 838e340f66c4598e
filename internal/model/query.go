package model

import (
	"sort"
	"strings"
)

// MaxSearchTerms is the maximum number of distinct terms in a free-text query.
const MaxSearchTerms = 10

// FieldFilter narrows bookmarks by URI, title and tags. All present
// predicates must hold. Tags are matched as a superset: a bookmark must carry
// every listed tag but may carry others.
type FieldFilter struct {
	URI   string
	Title string
	Tags  []string
}

// IsEmpty reports whether the filter has no predicates at all.
func (f FieldFilter) IsEmpty() bool {
	return f.URI == "" && f.Title == "" && len(f.Tags) == 0
}

// SearchTerms is a validated free-text query: trimmed, deduplicated and
// sorted terms, never empty, at most MaxSearchTerms long.
type SearchTerms struct {
	terms []string
}

// NewSearchTerms splits raw on whitespace and validates the result.
func NewSearchTerms(raw string) (SearchTerms, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return SearchTerms{}, ErrQueryEmpty
	}

	seen := make(map[string]bool, len(fields))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		terms = append(terms, f)
	}

	if len(terms) > MaxSearchTerms {
		return SearchTerms{}, ErrTooManyTerms
	}

	sort.Strings(terms)
	return SearchTerms{terms: terms}, nil
}

// Terms returns a copy of the terms in order.
func (s SearchTerms) Terms() []string {
	out := make([]string, len(s.terms))
	copy(out, s.terms)
	return out
}

// Len returns the number of terms.
func (s SearchTerms) Len() int {
	return len(s.terms)
}

// String joins the terms with single spaces.
func (s SearchTerms) String() string {
	return strings.Join(s.terms, " ")
}
