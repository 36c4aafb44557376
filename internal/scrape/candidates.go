// Package scrape holds the HTML extraction primitives. They never fail:
// markup that does not match yields an empty result.
package scrape

import (
	"bytes"

	"github.com/antchfx/xpath"
	"golang.org/x/net/html"

	"github.com/vrsandeep/tokyo-links/internal/models"
)

var (
	candidateBlocks = xpath.MustCompile(`//div[contains(@class, "c_h2") or contains(@class, "c_h2b")]`)
	boldTexts       = xpath.MustCompile(`.//b/text()`)
	anchorHrefs     = xpath.MustCompile(`.//a/@href`)
)

// Positions of the bold metadata fields inside a candidate block.
const (
	fieldLabel = iota
	fieldSize
	fieldCount
	fieldUploader
	fieldDate
)

// downloadAnchor is the position of the file link among the block's anchors;
// the first anchor points at the uploader's comment page.
const downloadAnchor = 1

// ExtractCandidates returns every download option listed on an item page in
// document order. Missing fields are left empty.
func ExtractCandidates(body []byte) []models.RawCandidate {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil
	}
	var out []models.RawCandidate
	for _, block := range selectNodes(doc, candidateBlocks) {
		fields := selectValues(block, boldTexts)
		hrefs := selectValues(block, anchorHrefs)
		out = append(out, models.RawCandidate{
			Label:    at(fields, fieldLabel),
			Size:     at(fields, fieldSize),
			Count:    at(fields, fieldCount),
			Uploader: at(fields, fieldUploader),
			Date:     at(fields, fieldDate),
			URL:      at(hrefs, downloadAnchor),
		})
	}
	return out
}

func at(s []string, i int) string {
	if i < len(s) {
		return s[i]
	}
	return ""
}
