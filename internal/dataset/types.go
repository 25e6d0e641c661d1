// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package dataset

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/streamflix/internal/config"
	"github.com/tomtom215/streamflix/internal/recommend"
)

// Loader reads the ratings and content tables and joins them.
type Loader interface {
	Load(ctx context.Context) (*Dataset, error)
}

// Dataset is the joined result of a load.
type Dataset struct {
	// Items are catalog movies in content-table order.
	Items []recommend.Item

	// Ratings are the historical ratings in ratings-table order.
	Ratings []recommend.Rating

	// Users is the number of distinct raters.
	Users int

	// DroppedContent counts content rows skipped as duplicates or as unrated movies.
	DroppedContent int
}

// RatingRow is one parsed row of the ratings table.
type RatingRow struct {
	UserID  int
	MovieID int
	Rating  float64
}

// ContentRow is one parsed row of the content table.
type ContentRow struct {
	MovieID     int
	Title       string
	Genres      string
	ReleaseYear int
}

// table is a raw tabular file: a header and string cells.
type table struct {
	source string
	header []string
	rows   [][]string
}

// ErrMissingColumn is returned when a required column is absent from a header.
var ErrMissingColumn = errors.New("missing column")

// DanglingRatingError reports a rating whose movie is not in the content table.
type DanglingRatingError struct {
	MovieID int
	UserID  int
}

func (e *DanglingRatingError) Error() string {
	return fmt.Sprintf("rating by user %d references movie %d absent from content table", e.UserID, e.MovieID)
}

// RowError reports a malformed cell.
type RowError struct {
	Source string
	Line   int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s line %d column %s: %v", e.Source, e.Line, e.Column, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// NewLoader returns the loader selected by cfg.Loader.
func NewLoader(cfg config.DataConfig) (Loader, error) {
	switch cfg.Loader {
	case config.LoaderCSV, "":
		return NewCSVLoader(cfg.RatingsPath, cfg.ContentPath), nil
	case config.LoaderDuckDB:
		return NewDuckDBLoader(cfg.RatingsPath, cfg.ContentPath), nil
	default:
		return nil, fmt.Errorf("unknown dataset loader %q", cfg.Loader)
	}
}
