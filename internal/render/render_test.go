package render_test

import (
	"bytes"
	"strings"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/dhth/bmm-sub000/internal/importer"
	"github.com/dhth/bmm-sub000/internal/model"
	"github.com/dhth/bmm-sub000/internal/render"
)

var sample = []model.Bookmark{
	{URI: "https://github.com", Title: "GitHub", Tags: []string{"code", "git"}, UpdatedAt: 20},
	{URI: "https://example.com", Tags: []string{}, UpdatedAt: 10},
}

func TestParseFormat(t *testing.T) {
	f, err := render.ParseFormat("delimited")
	assert.NilError(t, err)
	assert.Equal(t, f, render.Delimited)

	_, err = render.ParseFormat("xml")
	assert.ErrorContains(t, err, "valid: plain, json, delimited, html")
}

func TestBookmarks_Plain(t *testing.T) {
	var buf bytes.Buffer
	assert.NilError(t, render.Bookmarks(&buf, sample, render.Plain))
	assert.Equal(t, buf.String(), "https://github.com\nhttps://example.com\n")
}

func TestBookmarks_JSON(t *testing.T) {
	var buf bytes.Buffer
	assert.NilError(t, render.Bookmarks(&buf, sample, render.JSON))

	want := `[
  {
    "uri": "https://github.com",
    "title": "GitHub",
    "tags": [
      "code",
      "git"
    ]
  },
  {
    "uri": "https://example.com",
    "tags": []
  }
]
`
	assert.Equal(t, buf.String(), want)
}

func TestBookmarks_JSONEmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	assert.NilError(t, render.Bookmarks(&buf, nil, render.JSON))
	assert.Equal(t, buf.String(), "[]\n")
}

func TestBookmarks_Delimited(t *testing.T) {
	var buf bytes.Buffer
	assert.NilError(t, render.Bookmarks(&buf, sample, render.Delimited))

	want := "uri,title,tags\n" +
		"https://github.com,GitHub,\"code,git\"\n" +
		"https://example.com,,\n"
	assert.Equal(t, buf.String(), want)
}

func TestBookmarks_HTMLImportsBack(t *testing.T) {
	var buf bytes.Buffer
	assert.NilError(t, render.Bookmarks(&buf, sample, render.HTML))

	got, err := importer.ParseHTML(strings.NewReader(buf.String()))
	assert.NilError(t, err)
	assert.DeepEqual(t, got, []model.BookmarkInput{
		{URI: "https://github.com", Title: "GitHub", Tags: []string{"code", "git"}},
		{URI: "https://example.com", Title: "", Tags: []string{}},
	})
}

func TestTags(t *testing.T) {
	tags := []model.TagStats{{Name: "code", NumBookmarks: 3}, {Name: "git", NumBookmarks: 1}}

	tests := []struct {
		name      string
		format    render.Format
		showStats bool
		want      string
	}{
		{"plain", render.Plain, false, "code\ngit\n"},
		{"plain with stats", render.Plain, true, "code (3)\ngit (1)\n"},
		{"delimited", render.Delimited, false, "name,num_bookmarks\ncode,3\ngit,1\n"},
		{"json", render.JSON, false, "[\n  {\n    \"name\": \"code\",\n    \"num_bookmarks\": 3\n  },\n  {\n    \"name\": \"git\",\n    \"num_bookmarks\": 1\n  }\n]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.NilError(t, render.Tags(&buf, tags, tt.format, tt.showStats))
			assert.Equal(t, buf.String(), tt.want)
		})
	}
}

func TestTags_HTMLUnsupported(t *testing.T) {
	var buf bytes.Buffer
	err := render.Tags(&buf, nil, render.HTML, false)
	assert.ErrorContains(t, err, "not supported for tags")
}
