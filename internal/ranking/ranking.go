// Package ranking turns scraped candidate text into comparable values and
// picks the best candidate for an item.
package ranking

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/vrsandeep/tokyo-links/internal/models"
)

// MBPerGB converts gigabyte sizes to the canonical megabyte unit.
const MBPerGB = 1024

// DateLayout is the MM/DD/YY layout used on item pages.
const DateLayout = "1/2/06"

var (
	sizePattern  = regexp.MustCompile(`^([0-9]*\.?[0-9]+)\s*(MB|GB)$`)
	countPattern = regexp.MustCompile(`^[0-9]+$`)
)

// SizeToComparable parses strings like "200.02 MB" or "1.2 GB" into megabytes.
// Thousands separators are ignored.
func SizeToComparable(s string) (float64, error) {
	norm := strings.ToUpper(strings.TrimSpace(strings.ReplaceAll(s, ",", "")))
	m := sizePattern.FindStringSubmatch(norm)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", models.ErrUnparseableSize, s)
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", models.ErrUnparseableSize, s)
	}
	if m[2] == "GB" {
		v *= MBPerGB
	}
	return v, nil
}

// DateToComparable parses an MM/DD/YY date. Two-digit years 69-99 map to
// the 1900s, 00-68 to the 2000s.
func DateToComparable(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", models.ErrUnparseableDate, s)
	}
	return t, nil
}

// CountToComparable parses a plain digit string.
func CountToComparable(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if !countPattern.MatchString(s) {
		return 0, fmt.Errorf("%w: %q", models.ErrUnparseableCount, s)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", models.ErrUnparseableCount, s)
	}
	return n, nil
}
