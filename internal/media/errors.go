// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package media

import (
	"errors"
	"fmt"
)

// PlaceholderPoster is returned when no poster can be resolved for a title.
const PlaceholderPoster = "https://via.placeholder.com/500x750.png?text=No+Poster+Available"

// Upstream service names, used in errors, breaker names and metric labels.
const (
	ServiceTMDB    = "tmdb"
	ServiceYouTube = "youtube"
)

// ErrNoMatch means the upstream answered but had nothing for the title.
// It does not count against the circuit breaker.
var ErrNoMatch = errors.New("no match")

// ExternalLookupError wraps a failed poster or trailer lookup.
type ExternalLookupError struct {
	Service string
	Title   string
	Err     error
}

func (e *ExternalLookupError) Error() string {
	return fmt.Sprintf("%s lookup for %q: %v", e.Service, e.Title, e.Err)
}

func (e *ExternalLookupError) Unwrap() error {
	return e.Err
}
