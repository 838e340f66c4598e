// Package render writes bookmarks and tags to a writer in one of the
// supported output formats.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dhth/bmm-sub000/internal/model"
)

// Format is an output format.
type Format string

const (
	Plain     Format = "plain"
	JSON      Format = "json"
	Delimited Format = "delimited"
	HTML      Format = "html"
)

// Formats lists every supported format, for flag help.
var Formats = []Format{Plain, JSON, Delimited, HTML}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (valid: %s)", s, formatNames())
}

func formatNames() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// Bookmarks writes bookmarks in the given format.
func Bookmarks(w io.Writer, bookmarks []model.Bookmark, format Format) error {
	switch format {
	case Plain:
		for _, b := range bookmarks {
			if _, err := fmt.Fprintln(w, b.URI); err != nil {
				return err
			}
		}
		return nil

	case JSON:
		if bookmarks == nil {
			bookmarks = []model.Bookmark{}
		}
		return writeJSON(w, bookmarks)

	case Delimited:
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"uri", "title", "tags"}); err != nil {
			return err
		}
		for _, b := range bookmarks {
			if err := cw.Write([]string{b.URI, b.Title, strings.Join(b.Tags, ",")}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()

	case HTML:
		_, err := io.WriteString(w, ExportHTML(bookmarks))
		return err

	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// Tags writes tag statistics. With showStats false the plain format prints
// only names.
func Tags(w io.Writer, tags []model.TagStats, format Format, showStats bool) error {
	switch format {
	case Plain:
		for _, t := range tags {
			line := t.Name
			if showStats {
				line = fmt.Sprintf("%s (%d)", t.Name, t.NumBookmarks)
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil

	case JSON:
		if tags == nil {
			tags = []model.TagStats{}
		}
		return writeJSON(w, tags)

	case Delimited:
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"name", "num_bookmarks"}); err != nil {
			return err
		}
		for _, t := range tags {
			if err := cw.Write([]string{t.Name, fmt.Sprint(t.NumBookmarks)}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()

	default:
		return fmt.Errorf("format %q is not supported for tags", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
