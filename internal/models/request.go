package models

import (
	"fmt"
	"strconv"
	"strings"
)

// IndexRange is an inclusive range of 1-based item indexes. The zero value
// selects nothing; All selects the whole listing and is resolved against the
// catalog before descriptors are built.
type IndexRange struct {
	Start int  `json:"start"`
	End   int  `json:"end"`
	All   bool `json:"all"`
}

// IsNone reports whether the range selects no items.
func (r IndexRange) IsNone() bool {
	return !r.All && r.Start == 0 && r.End == 0
}

// Size returns the number of indexes in a resolved range.
func (r IndexRange) Size() int {
	if r.IsNone() || r.All {
		return 0
	}
	return r.End - r.Start + 1
}

func (r IndexRange) String() string {
	switch {
	case r.All:
		return "all"
	case r.IsNone():
		return "none"
	case r.Start == r.End:
		return strconv.Itoa(r.Start)
	}
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// ParseRange reads "a-b", "n", "all", or "0"/"none"/"" for no selection.
func ParseRange(s string) (IndexRange, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "", "0", "none":
		return IndexRange{}, nil
	case "all", "*":
		return IndexRange{All: true}, nil
	}
	start, end, found := strings.Cut(s, "-")
	if !found {
		end = start
	}
	a, err := strconv.Atoi(strings.TrimSpace(start))
	if err != nil {
		return IndexRange{}, fmt.Errorf("%w: %q is not a range", ErrInvalidRange, s)
	}
	b, err := strconv.Atoi(strings.TrimSpace(end))
	if err != nil {
		return IndexRange{}, fmt.Errorf("%w: %q is not a range", ErrInvalidRange, s)
	}
	if a < 1 || b < a {
		return IndexRange{}, fmt.Errorf("%w: %q must satisfy 1 <= start <= end", ErrInvalidRange, s)
	}
	return IndexRange{Start: a, End: b}, nil
}

// DefaultTemplate is used when renaming is requested with an empty template.
const DefaultTemplate = "{anime_name} - {type}{episode_number} [{uploader}]"

// SelectionRequest is the validated input of one run.
type SelectionRequest struct {
	CatalogURL string                     `json:"catalog_url"`
	Ranges     map[ContentType]IndexRange `json:"ranges"`
	Metric     RankingMetric              `json:"metric"`
	// Template is nil when bare URLs are wanted. An empty template selects
	// DefaultTemplate.
	Template  *string       `json:"template,omitempty"`
	TypeOrder []ContentType `json:"type_order,omitempty"`
}

// Order returns the content type order used for grouping output.
func (r SelectionRequest) Order() []ContentType {
	if len(r.TypeOrder) > 0 {
		return r.TypeOrder
	}
	return ContentTypes
}

// EffectiveTemplate returns the filename template and whether renaming is on.
func (r SelectionRequest) EffectiveTemplate() (string, bool) {
	if r.Template == nil {
		return "", false
	}
	if *r.Template == "" {
		return DefaultTemplate, true
	}
	return *r.Template, true
}

// Validate checks the request before any page is fetched.
func (r SelectionRequest) Validate() error {
	if r.CatalogURL == "" {
		return fmt.Errorf("%w: catalog url is required", ErrInvalidRequest)
	}
	if !r.Metric.Valid() {
		return fmt.Errorf("%w: unknown ranking metric %d", ErrInvalidRequest, int(r.Metric))
	}
	selected := 0
	for t, rng := range r.Ranges {
		if !t.Valid() {
			return fmt.Errorf("%w: unknown content type %q", ErrInvalidRequest, t)
		}
		if rng.IsNone() {
			continue
		}
		if !rng.All && (rng.Start < 1 || rng.End < rng.Start) {
			return fmt.Errorf("%w: %s range %s", ErrInvalidRange, t, rng)
		}
		selected++
	}
	if selected == 0 {
		return fmt.Errorf("%w: no content type selected", ErrInvalidRequest)
	}
	if tmpl, ok := r.EffectiveTemplate(); ok && !strings.Contains(tmpl, "{episode_number}") {
		return fmt.Errorf("%w: filename template must contain {episode_number}", ErrInvalidRequest)
	}
	for _, t := range r.TypeOrder {
		if !t.Valid() {
			return fmt.Errorf("%w: unknown content type %q in order", ErrInvalidRequest, t)
		}
	}
	return nil
}

// OutputLine is one line of the result file: a bare URL, or URL|filename.
type OutputLine struct {
	URL      string `json:"url"`
	Filename string `json:"filename,omitempty"`
}

func (l OutputLine) String() string {
	if l.Filename == "" {
		return l.URL
	}
	return l.URL + "|" + l.Filename
}

// ParseOutputLine splits a rendered line on the first pipe.
func ParseOutputLine(s string) OutputLine {
	u, name, _ := strings.Cut(s, "|")
	return OutputLine{URL: u, Filename: name}
}
