package storage

import (
	"strings"

	"github.com/dhth/bmm-sub000/internal/model"
)

// selectBookmarkFields selects uri, title, updated_at and a comma separated
// tag list for every row of bookmarks aliased as b.
const selectBookmarkFields = `
	SELECT b.uri, b.title, b.updated_at,
		(SELECT GROUP_CONCAT(t.name, ',')
			FROM bookmark_tags bt
			JOIN tags t ON t.id = bt.tag_id
			WHERE bt.bookmark_id = b.id)
	FROM bookmarks b`

const orderAndLimit = ` ORDER BY b.updated_at DESC, b.id DESC LIMIT ?`

// likeEscaper escapes LIKE wildcards; patterns are used with ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern returns a LIKE pattern matching s as a substring.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// sqlLimit maps a non-positive limit to SQLite's "no limit".
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

// buildFieldedQuery translates a FieldFilter into SQL. URI and title are
// substring tests; tags are a superset test. An empty filter matches all.
func buildFieldedQuery(filter model.FieldFilter, limit int) (string, []any) {
	var where []string
	var args []any

	if filter.URI != "" {
		where = append(where, `b.uri LIKE ? ESCAPE '\'`)
		args = append(args, containsPattern(filter.URI))
	}

	if filter.Title != "" {
		where = append(where, `b.title LIKE ? ESCAPE '\'`)
		args = append(args, containsPattern(filter.Title))
	}

	if tags := uniqueStrings(filter.Tags); len(tags) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(tags)), ",")
		where = append(where, `b.id IN (
			SELECT bt.bookmark_id
			FROM bookmark_tags bt
			JOIN tags t ON t.id = bt.tag_id
			WHERE t.name IN (`+placeholders+`)
			GROUP BY bt.bookmark_id
			HAVING COUNT(DISTINCT t.id) = ?)`)
		for _, tag := range tags {
			args = append(args, tag)
		}
		args = append(args, len(tags))
	}

	query := selectBookmarkFields
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += orderAndLimit
	args = append(args, sqlLimit(limit))

	return query, args
}

// buildTermsQuery translates SearchTerms into SQL. Every term must be found
// in the URI, the title or at least one tag; different terms may match
// different fields.
func buildTermsQuery(terms model.SearchTerms, limit int) (string, []any) {
	var where []string
	var args []any

	for _, term := range terms.Terms() {
		pattern := containsPattern(term)
		where = append(where, `(b.uri LIKE ? ESCAPE '\'
			OR b.title LIKE ? ESCAPE '\'
			OR EXISTS (
				SELECT 1
				FROM bookmark_tags bt
				JOIN tags t ON t.id = bt.tag_id
				WHERE bt.bookmark_id = b.id AND t.name LIKE ? ESCAPE '\'))`)
		args = append(args, pattern, pattern, pattern)
	}

	query := selectBookmarkFields
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += orderAndLimit
	args = append(args, sqlLimit(limit))

	return query, args
}

// uniqueStrings drops empty and repeated entries, keeping first-seen order.
func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
