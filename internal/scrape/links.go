package scrape

import (
	"bytes"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/vrsandeep/tokyo-links/internal/models"
)

// ExtractDownloadLinks returns the catalog's download-link entries in
// document order. The entry type is the text of its <em> tag; entries
// without a type or href are skipped.
func ExtractDownloadLinks(body []byte) []models.RawLink {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}
	var links []models.RawLink
	doc.Find(".download-link").Each(func(i int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			href, ok = s.Find("a[href]").First().Attr("href")
		}
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			return
		}
		kind := ""
		s.Find("em").EachWithBreak(func(_ int, em *goquery.Selection) bool {
			if t, known := models.ParseContentType(em.Text()); known {
				kind = string(t)
				return false
			}
			return true
		})
		if kind == "" {
			return
		}
		links = append(links, models.RawLink{
			Type:  kind,
			Index: path.Base(strings.TrimRight(href, "/")),
			URL:   href,
		})
	})
	return links
}
