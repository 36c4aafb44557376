package models

import (
	"net/url"
	"strconv"
	"strings"
)

// ContentType is the kind of listing an item belongs to on a catalog page.
type ContentType string

const (
	Episode ContentType = "episode"
	OVA     ContentType = "ova"
	Special ContentType = "special"
	Movie   ContentType = "movie"
)

// ContentTypes is the declared output order of the content types.
var ContentTypes = []ContentType{Episode, OVA, Special, Movie}

var contentTypeLabels = map[ContentType]string{
	Episode: "Episodes",
	OVA:     "OVAs",
	Special: "Specials",
	Movie:   "Movies",
}

// Label returns the plural display name used in status output.
func (c ContentType) Label() string {
	if l, ok := contentTypeLabels[c]; ok {
		return l
	}
	return string(c)
}

// Valid reports whether c is one of the known content types.
func (c ContentType) Valid() bool {
	_, ok := contentTypeLabels[c]
	return ok
}

// ParseContentType matches s against the known content types, ignoring case.
func ParseContentType(s string) (ContentType, bool) {
	c := ContentType(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}

// RawLink is one download-link entry scraped from a catalog page.
type RawLink struct {
	Type  string `json:"type"`
	Index string `json:"index"` // Last path segment of the link, the site's own number
	URL   string `json:"url"`
}

// ItemDescriptor identifies one item page selected for processing.
// Index is 1-based and counts in chronological order: index 1 is the
// earliest item of its type.
type ItemDescriptor struct {
	Type    ContentType `json:"type"`
	Index   int         `json:"index"`
	Number  string      `json:"number"` // Site label, e.g. "12" or "12.5"
	PageURL string      `json:"page_url"`
}

// SeriesName derives the series name from the item page URL, which has the
// form .../<series>/<type>/<number>. Colons are dropped.
func (d ItemDescriptor) SeriesName() string {
	u, err := url.Parse(d.PageURL)
	if err != nil {
		return ""
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segs) < 3 {
		return ""
	}
	name := segs[len(segs)-3]
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	return strings.ReplaceAll(name, ":", "")
}

// DisplayNumber is the number used in labels and filenames.
func (d ItemDescriptor) DisplayNumber() string {
	if d.Number != "" {
		return d.Number
	}
	return strconv.Itoa(d.Index)
}
