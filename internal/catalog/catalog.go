// Package catalog turns a series catalog page into the item descriptors a
// selection asks for.
package catalog

import (
	"fmt"
	"net/url"
	"slices"

	"github.com/vrsandeep/tokyo-links/internal/models"
	"github.com/vrsandeep/tokyo-links/internal/scrape"
)

// Listing holds the catalog links per content type in chronological order:
// element 0 is index 1. The page lists newest first, so Discover reverses it.
type Listing map[models.ContentType][]models.RawLink

// Discover groups the catalog's download links by content type. It fails
// with models.ErrParse when the page has no download links at all.
func Discover(body []byte) (Listing, error) {
	links := scrape.ExtractDownloadLinks(body)
	if len(links) == 0 {
		return nil, fmt.Errorf("%w: catalog page has no download links", models.ErrParse)
	}
	listing := Listing{}
	for _, l := range links {
		t := models.ContentType(l.Type)
		listing[t] = append(listing[t], l)
	}
	for t := range listing {
		slices.Reverse(listing[t])
	}
	return listing, nil
}

// Count returns the number of items of type t.
func (l Listing) Count(t models.ContentType) int {
	return len(l[t])
}

// Resolve checks every requested range against the listing bounds and
// expands "all" ranges. Types selected with "all" but absent from the
// listing resolve to none. An explicit range past the listing fails with
// models.ErrInvalidRange.
func (l Listing) Resolve(ranges map[models.ContentType]models.IndexRange) (map[models.ContentType]models.IndexRange, error) {
	resolved := make(map[models.ContentType]models.IndexRange, len(ranges))
	for t, rng := range ranges {
		n := l.Count(t)
		switch {
		case rng.IsNone():
			continue
		case rng.All:
			if n > 0 {
				resolved[t] = models.IndexRange{Start: 1, End: n}
			}
			continue
		}
		if rng.Start < 1 || rng.End < rng.Start || rng.End > n {
			return nil, fmt.Errorf("%w: %s %s outside 1-%d", models.ErrInvalidRange, t, rng, n)
		}
		resolved[t] = rng
	}
	return resolved, nil
}

// Descriptors emits one descriptor per index of every resolved range, types
// in order and indexes ascending. Resolved types missing from order follow
// it alphabetically. Relative links resolve against baseURL.
func (l Listing) Descriptors(resolved map[models.ContentType]models.IndexRange, order []models.ContentType, baseURL string) ([]models.ItemDescriptor, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: base url %q: %v", models.ErrInvalidRequest, baseURL, err)
	}
	var out []models.ItemDescriptor
	for _, t := range completeOrder(resolved, order) {
		rng := resolved[t]
		if rng.IsNone() {
			continue
		}
		links := l[t]
		for i := rng.Start; i <= rng.End; i++ {
			link := links[i-1]
			ref, err := url.Parse(link.URL)
			if err != nil {
				return nil, fmt.Errorf("%w: catalog link %q: %v", models.ErrParse, link.URL, err)
			}
			out = append(out, models.ItemDescriptor{
				Type:    t,
				Index:   i,
				Number:  link.Index,
				PageURL: base.ResolveReference(ref).String(),
			})
		}
	}
	return out, nil
}

// completeOrder lists every resolved type once: those in order first, then
// the rest sorted by name.
func completeOrder(resolved map[models.ContentType]models.IndexRange, order []models.ContentType) []models.ContentType {
	seen := make(map[models.ContentType]bool, len(resolved))
	out := make([]models.ContentType, 0, len(resolved))
	for _, t := range order {
		if _, ok := resolved[t]; ok && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	var rest []models.ContentType
	for t := range resolved {
		if !seen[t] {
			rest = append(rest, t)
		}
	}
	slices.Sort(rest)
	return append(out, rest...)
}

// Extract is Discover, Resolve and Descriptors in one call, using the
// declared content type order.
func Extract(body []byte, ranges map[models.ContentType]models.IndexRange, baseURL string) ([]models.ItemDescriptor, error) {
	listing, err := Discover(body)
	if err != nil {
		return nil, err
	}
	resolved, err := listing.Resolve(ranges)
	if err != nil {
		return nil, err
	}
	return listing.Descriptors(resolved, models.ContentTypes, baseURL)
}
