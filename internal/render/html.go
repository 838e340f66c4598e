package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/dhth/bmm-sub000/internal/model"
)

// ExportHTML renders bookmarks as a Netscape bookmark file. Tags are written
// to the TAGS attribute so the file imports back losslessly.
func ExportHTML(bookmarks []model.Bookmark) string {
	var b strings.Builder

	// Header
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	for _, bm := range bookmarks {
		writeBookmark(&b, bm)
	}

	// Footer
	b.WriteString("</DL><p>\n")

	return b.String()
}

func writeBookmark(b *strings.Builder, bm model.Bookmark) {
	fmt.Fprintf(b, "    <DT><A HREF=\"%s\"", html.EscapeString(bm.URI))
	if bm.UpdatedAt > 0 {
		fmt.Fprintf(b, " LAST_MODIFIED=\"%d\"", bm.UpdatedAt)
	}
	if len(bm.Tags) > 0 {
		fmt.Fprintf(b, " TAGS=\"%s\"", html.EscapeString(strings.Join(bm.Tags, ",")))
	}
	fmt.Fprintf(b, ">%s</A>\n", html.EscapeString(bm.Title))
}
