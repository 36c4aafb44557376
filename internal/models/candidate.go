package models

import (
	"fmt"
	"strings"
	"time"
)

// RankingMetric selects the comparison key used to pick the best candidate.
type RankingMetric int

const (
	BiggestSize RankingMetric = iota
	MostDownloaded
	Latest
)

func (m RankingMetric) String() string {
	switch m {
	case BiggestSize:
		return "Biggest Size"
	case MostDownloaded:
		return "Most Downloaded"
	case Latest:
		return "Latest"
	default:
		return fmt.Sprintf("RankingMetric(%d)", int(m))
	}
}

// Valid reports whether m is a known metric.
func (m RankingMetric) Valid() bool {
	return m >= BiggestSize && m <= Latest
}

// ParseMetric accepts the display names as well as short forms such as
// "size", "downloads" and "latest".
func ParseMetric(s string) (RankingMetric, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(key)
	switch key {
	case "biggestsize", "biggest", "size":
		return BiggestSize, nil
	case "mostdownloaded", "downloads", "downloaded", "count":
		return MostDownloaded, nil
	case "latest", "date", "newest":
		return Latest, nil
	}
	return 0, fmt.Errorf("%w: unknown ranking metric %q", ErrInvalidRequest, s)
}

// RawCandidate is one download option as scraped from an item page. All
// fields are untouched page text; coercion happens in the ranking package.
type RawCandidate struct {
	Label    string `json:"label"`
	Size     string `json:"size"`
	Count    string `json:"count"`
	Uploader string `json:"uploader"`
	Date     string `json:"date"`
	URL      string `json:"url"`
}

// CandidateEntry is a parsed download option. SizeMB is in megabytes,
// gigabyte values are converted on parse.
type CandidateEntry struct {
	DownloadURL string    `json:"download_url"`
	SizeMB      float64   `json:"size_mb"`
	Downloads   int64     `json:"downloads"`
	Uploader    string    `json:"uploader"`
	UploadDate  time.Time `json:"upload_date"`
	Label       string    `json:"label"`

	// Page text kept for filename templates.
	RawSize string `json:"raw_size"`
	RawDate string `json:"raw_date"`
}
