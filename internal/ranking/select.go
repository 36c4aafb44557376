package ranking

import (
	"fmt"
	"strings"

	"github.com/vrsandeep/tokyo-links/internal/models"
)

// ParseCandidate coerces a scraped candidate. The field that metric ranks on
// must parse; the remaining fields are best effort and left zero on failure.
func ParseCandidate(raw models.RawCandidate, metric models.RankingMetric) (models.CandidateEntry, error) {
	c := models.CandidateEntry{
		DownloadURL: strings.TrimSpace(raw.URL),
		Uploader:    strings.TrimSpace(raw.Uploader),
		Label:       strings.TrimSpace(raw.Label),
		RawSize:     strings.TrimSpace(raw.Size),
		RawDate:     strings.TrimSpace(raw.Date),
	}
	if c.DownloadURL == "" {
		return c, fmt.Errorf("%w: candidate has no download url", models.ErrParse)
	}
	// "|" separates the url from the filename in output lines.
	if strings.Contains(c.DownloadURL, "|") {
		return c, fmt.Errorf("%w: download url %q contains \"|\"", models.ErrParse, c.DownloadURL)
	}

	size, sizeErr := SizeToComparable(raw.Size)
	count, countErr := CountToComparable(raw.Count)
	date, dateErr := DateToComparable(raw.Date)
	c.SizeMB, c.Downloads, c.UploadDate = size, count, date

	switch metric {
	case models.BiggestSize:
		return c, sizeErr
	case models.MostDownloaded:
		return c, countErr
	case models.Latest:
		return c, dateErr
	}
	return c, fmt.Errorf("%w: unknown ranking metric %d", models.ErrInvalidRequest, int(metric))
}

// Compare orders a and b under metric, returning -1, 0 or 1.
func Compare(metric models.RankingMetric, a, b models.CandidateEntry) int {
	switch metric {
	case models.BiggestSize:
		return cmp3(a.SizeMB < b.SizeMB, a.SizeMB > b.SizeMB)
	case models.MostDownloaded:
		return cmp3(a.Downloads < b.Downloads, a.Downloads > b.Downloads)
	case models.Latest:
		return a.UploadDate.Compare(b.UploadDate)
	}
	return 0
}

func cmp3(less, greater bool) int {
	switch {
	case less:
		return -1
	case greater:
		return 1
	}
	return 0
}

// Select returns the maximal candidate under metric. On ties the candidate
// encountered first wins. ok is false for an empty slice.
func Select(metric models.RankingMetric, candidates []models.CandidateEntry) (best models.CandidateEntry, ok bool) {
	for i, c := range candidates {
		if i == 0 || Compare(metric, c, best) > 0 {
			best = c
		}
	}
	return best, len(candidates) > 0
}
