package model

import (
	"strings"
	"unicode/utf8"
)

// MaxTitleLength is the maximum number of characters in a bookmark title.
const MaxTitleLength = 500

// Bookmark represents a saved URI with metadata.
type Bookmark struct {
	URI       string   `json:"uri"`
	Title     string   `json:"title,omitempty"` // "" = no title
	Tags      []string `json:"tags"`
	UpdatedAt int64    `json:"-"` // unix seconds
}

// DisplayTitle returns the title, or the URI when the bookmark has none.
func (b Bookmark) DisplayTitle() string {
	if b.Title == "" {
		return b.URI
	}
	return b.Title
}

// HasTag reports whether the bookmark carries the given tag.
func (b Bookmark) HasTag(tag string) bool {
	for _, t := range b.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// BookmarkInput is a validated bookmark ready to be written to the store.
type BookmarkInput struct {
	URI   string
	Title string
	Tags  []string
}

// NewBookmarkParams holds the raw, unvalidated fields of a bookmark.
type NewBookmarkParams struct {
	URI   string
	Title string
	Tags  []string
}

// NewBookmarkInput trims and validates params.
func NewBookmarkInput(params NewBookmarkParams) (BookmarkInput, error) {
	uri := strings.TrimSpace(params.URI)
	if uri == "" {
		return BookmarkInput{}, ErrURIEmpty
	}

	title := strings.TrimSpace(params.Title)
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return BookmarkInput{}, ErrTitleTooLong
	}

	tags, err := NormalizeTags(params.Tags)
	if err != nil {
		return BookmarkInput{}, err
	}

	return BookmarkInput{
		URI:   uri,
		Title: title,
		Tags:  tags,
	}, nil
}
