// Package aggregate orders item outcomes and renders the result lines.
package aggregate

import (
	"bufio"
	"cmp"
	"io"
	"net/url"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/vrsandeep/tokyo-links/internal/models"
	"github.com/vrsandeep/tokyo-links/internal/util"
)

// Aggregate sorts successful outcomes by the request's type order, then by
// index, and renders one line each. Failed outcomes are dropped. Types
// missing from the order sort after it. The result does not depend on the
// order of outcomes.
func Aggregate(outcomes []models.ItemOutcome, req models.SelectionRequest) []models.OutputLine {
	rank := map[models.ContentType]int{}
	for _, t := range req.Order() {
		if _, dup := rank[t]; !dup {
			rank[t] = len(rank)
		}
	}

	ok := make([]models.ItemOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		if o.OK() {
			ok = append(ok, o)
		}
	}
	slices.SortFunc(ok, func(a, b models.ItemOutcome) int {
		return cmp.Or(
			cmp.Compare(rankOf(rank, a.Descriptor.Type), rankOf(rank, b.Descriptor.Type)),
			strings.Compare(string(a.Descriptor.Type), string(b.Descriptor.Type)),
			cmp.Compare(a.Descriptor.Index, b.Descriptor.Index),
			strings.Compare(a.Descriptor.PageURL, b.Descriptor.PageURL),
			strings.Compare(a.Selected.DownloadURL, b.Selected.DownloadURL),
		)
	})

	tmpl, rename := req.EffectiveTemplate()
	widths := padWidths(req, ok)
	lines := make([]models.OutputLine, 0, len(ok))
	for _, o := range ok {
		line := models.OutputLine{URL: o.Selected.DownloadURL}
		if rename {
			line.Filename = RenderFilename(tmpl, o, widths[o.Descriptor.Type])
		}
		lines = append(lines, line)
	}
	return lines
}

func rankOf(rank map[models.ContentType]int, t models.ContentType) int {
	if r, ok := rank[t]; ok {
		return r
	}
	return len(rank)
}

// padWidths returns the digit count of the largest requested index per type,
// falling back to the largest index seen when the range is unresolved.
func padWidths(req models.SelectionRequest, outcomes []models.ItemOutcome) map[models.ContentType]int {
	widths := map[models.ContentType]int{}
	for t, rng := range req.Ranges {
		if !rng.IsNone() && !rng.All {
			widths[t] = len(strconv.Itoa(rng.End))
		}
	}
	for _, o := range outcomes {
		t := o.Descriptor.Type
		if _, ok := req.Ranges[t]; ok && !req.Ranges[t].All {
			continue
		}
		widths[t] = max(widths[t], len(strconv.Itoa(o.Descriptor.Index)))
	}
	return widths
}

// RenderFilename fills the template placeholders for one outcome and
// appends the download's file extension.
func RenderFilename(tmpl string, o models.ItemOutcome, width int) string {
	d, c := o.Descriptor, o.Selected
	r := strings.NewReplacer(
		"{anime_name}", d.SeriesName(),
		"{type}", string(d.Type),
		"{episode_number}", padNumber(d.DisplayNumber(), width),
		"{size}", c.RawSize,
		"{uploader}", c.Uploader,
		"{upload_date}", c.RawDate,
	)
	return util.SanitizeFilename(r.Replace(tmpl) + fileExtension(c.DownloadURL))
}

// padNumber left-pads the integer part of n with zeros to width digits.
func padNumber(n string, width int) string {
	intPart, _, _ := strings.Cut(n, ".")
	if missing := width - len(intPart); missing > 0 && isDigits(intPart) {
		return strings.Repeat("0", missing) + n
	}
	return n
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func fileExtension(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	}
	return path.Ext(p)
}

// WriteLines writes one line per entry, each terminated by "\n".
func WriteLines(w io.Writer, lines []models.OutputLine) error {
	bw := bufio.NewWriter(w)
	for _, l := range lines {
		if _, err := bw.WriteString(l.String() + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
