package model

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

const maxTagLength = 30

var tagPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// TagStats is a tag together with the number of bookmarks carrying it.
type TagStats struct {
	Name         string `json:"name"`
	NumBookmarks int    `json:"num_bookmarks"`
}

// ValidateTag checks a single, already trimmed tag.
func ValidateTag(tag string) error {
	if tag == "" || len(tag) > maxTagLength || !tagPattern.MatchString(tag) {
		return fmt.Errorf("%w: %q (allowed: 1-%d of a-z A-Z 0-9 _ -)", ErrInvalidTag, tag, maxTagLength)
	}
	return nil
}

// NormalizeTags trims, validates and deduplicates tags, returning them sorted.
// Blank entries are skipped. Case is preserved.
func NormalizeTags(tags []string) ([]string, error) {
	seen := make(map[string]bool, len(tags))
	result := []string{}
	for _, raw := range tags {
		tag := strings.TrimSpace(raw)
		if tag == "" {
			continue
		}
		if err := ValidateTag(tag); err != nil {
			return nil, err
		}
		if seen[tag] {
			continue
		}
		seen[tag] = true
		result = append(result, tag)
	}
	sort.Strings(result)
	return result, nil
}

// SplitTags splits a comma separated tag list, e.g. from a CLI flag.
func SplitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}
