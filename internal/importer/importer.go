// Package importer reads bookmarks from Netscape HTML exports, JSON arrays
// and plain text URI lists.
package importer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhth/bmm-sub000/internal/model"
)

// Format identifies an import file format.
type Format string

const (
	FormatHTML Format = "html"
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// EntryError reports which entry of an import file failed validation.
type EntryError struct {
	Entry int // 1-based
	URI   string
	Err   error
}

func (e *EntryError) Error() string {
	if e.URI == "" {
		return fmt.Sprintf("entry %d: %v", e.Entry, e.Err)
	}
	return fmt.Sprintf("entry %d (%s): %v", e.Entry, e.URI, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// DetectFormat picks a format from the file extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return FormatHTML
	case ".json":
		return FormatJSON
	default:
		return FormatText
	}
}

// ParseFile opens path and parses it according to its extension.
func ParseFile(path string) ([]model.BookmarkInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	inputs, err := Parse(f, DetectFormat(path))
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", path, err)
	}
	return inputs, nil
}

// Parse reads bookmarks in the given format.
func Parse(r io.Reader, format Format) ([]model.BookmarkInput, error) {
	switch format {
	case FormatHTML:
		return ParseHTML(r)
	case FormatJSON:
		return ParseJSON(r)
	case FormatText:
		return ParseText(r)
	default:
		return nil, fmt.Errorf("unknown import format %q", format)
	}
}

type jsonEntry struct {
	URI   string   `json:"uri"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

// ParseJSON reads an array of {uri, title?, tags?} objects.
func ParseJSON(r io.Reader) ([]model.BookmarkInput, error) {
	var entries []jsonEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decoding json: %w", err)
	}

	inputs := make([]model.BookmarkInput, 0, len(entries))
	for i, e := range entries {
		input, err := model.NewBookmarkInput(model.NewBookmarkParams(e))
		if err != nil {
			return nil, &EntryError{Entry: i + 1, URI: e.URI, Err: err}
		}
		inputs = append(inputs, input)
	}
	return inputs, nil
}

// ParseText reads one URI per line. Blank lines and lines starting with #
// are ignored.
func ParseText(r io.Reader) ([]model.BookmarkInput, error) {
	var inputs []model.BookmarkInput
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		input, err := model.NewBookmarkInput(model.NewBookmarkParams{URI: text})
		if err != nil {
			return nil, &EntryError{Entry: line, URI: text, Err: err}
		}
		inputs = append(inputs, input)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading lines: %w", err)
	}
	return inputs, nil
}
