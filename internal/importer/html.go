package importer

import (
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/dhth/bmm-sub000/internal/model"
)

const maxTagLength = 30

// ParseHTML parses a Netscape bookmark file. Every enclosing folder (H3)
// becomes a tag on the bookmarks inside it, and a TAGS attribute on an
// anchor adds its comma separated tags. Anchors without an HREF are skipped.
func ParseHTML(r io.Reader) ([]model.BookmarkInput, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var inputs []model.BookmarkInput
	var parseErr error

	// folder tags currently in scope, innermost last
	var folderStack []string
	pendingFolder := ""

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if parseErr != nil {
			return
		}
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				// Takes effect on the next DL
				pendingFolder = SanitizeTag(getTextContent(n))
				return

			case "a":
				href := getAttr(n, "href")
				if strings.TrimSpace(href) == "" {
					return
				}

				tags := append([]string{}, folderStack...)
				for _, t := range model.SplitTags(getAttr(n, "tags")) {
					if s := SanitizeTag(t); s != "" {
						tags = append(tags, s)
					}
				}

				input, err := model.NewBookmarkInput(model.NewBookmarkParams{
					URI:   href,
					Title: truncateTitle(getTextContent(n)),
					Tags:  tags,
				})
				if err != nil {
					parseErr = &EntryError{Entry: len(inputs) + 1, URI: href, Err: err}
					return
				}
				inputs = append(inputs, input)
				return

			case "dl":
				pushed := false
				if pendingFolder != "" {
					folderStack = append(folderStack, pendingFolder)
					pushed = true
				}
				pendingFolder = ""

				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}

				if pushed {
					folderStack = folderStack[:len(folderStack)-1]
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	if parseErr != nil {
		return nil, parseErr
	}
	return inputs, nil
}

// SanitizeTag turns a folder name into a valid tag: lowercase, whitespace
// replaced by dashes, other disallowed characters dropped, cut to the
// maximum tag length. It returns "" when nothing usable remains.
func SanitizeTag(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		case r == ' ' || r == '\t' || r == '/' || r == '.':
			b.WriteRune('-')
		}
	}
	tag := strings.Trim(b.String(), "-")
	if len(tag) > maxTagLength {
		tag = strings.TrimRight(tag[:maxTagLength], "-")
	}
	return tag
}

func truncateTitle(title string) string {
	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) <= model.MaxTitleLength {
		return title
	}
	return string([]rune(title)[:model.MaxTitleLength])
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}
