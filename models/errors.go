package models

import (
	"errors"
	"fmt"
)

// ErrDatasetUnavailable is returned when no verified dataset snapshot has
// been adopted yet. It is fatal for the current request only; the caller may
// retry once a snapshot is loaded.
var ErrDatasetUnavailable = errors.New("no dataset snapshot available")

// ScrapeError wraps a failure to fetch or parse a listing page. The matching
// core performs no retries; the error is surfaced as-is.
type ScrapeError struct {
	URL string
	Err error
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("scrape %s: %v", e.URL, e.Err)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}
