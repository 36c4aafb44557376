package models

import (
	"errors"
	"fmt"
)

var (
	ErrFetch            = errors.New("fetch failed")
	ErrParse            = errors.New("parse failed")
	ErrInvalidRange     = errors.New("invalid range")
	ErrNoValidCandidate = errors.New("no valid candidate")
	ErrUnparseableSize  = errors.New("unparseable size")
	ErrUnparseableDate  = errors.New("unparseable date")
	ErrUnparseableCount = errors.New("unparseable count")
	ErrInvalidRequest   = errors.New("invalid request")
)

// FetchError reports a failed page request. Status is zero when no response
// was received.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrFetch) match any *FetchError.
func (e *FetchError) Is(target error) bool { return target == ErrFetch }
