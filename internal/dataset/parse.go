// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tomtom215/streamflix/internal/recommend"
)

// Canonical column names.
const (
	colUser        = "user"
	colMovie       = "movie"
	colRating      = "rating"
	colTitle       = "title"
	colGenres      = "genres"
	colReleaseYear = "release_year"
)

// headerAliases maps normalized header names to canonical columns.
var headerAliases = map[string]string{
	"user_id": colUser,
	"userid":  colUser,
	"user":    colUser,

	"movie_id": colMovie,
	"movieid":  colMovie,
	"item_id":  colMovie,
	"itemid":   colMovie,

	"rating": colRating,
	"score":  colRating,

	"title": colTitle,

	"genres": colGenres,
	"genre":  colGenres,

	"release_year": colReleaseYear,
	"releaseyear":  colReleaseYear,
	"year":         colReleaseYear,
}

// columnIndex resolves canonical columns to positions in header.
// Unrecognized headers are ignored; the first alias wins on conflicts.
func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		canonical, ok := headerAliases[key]
		if !ok {
			continue
		}
		if _, seen := idx[canonical]; !seen {
			idx[canonical] = i
		}
	}
	return idx
}

func requireColumns(source string, idx map[string]int, cols ...string) error {
	for _, c := range cols {
		if _, ok := idx[c]; !ok {
			return fmt.Errorf("%s: %w %s", source, ErrMissingColumn, c)
		}
	}
	return nil
}

// cell returns the trimmed value of column col in row, or "" when absent.
func cell(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseInt accepts integer text and integral floats such as "1.0".
func parseInt(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return int(f), nil
}

// parseRatings converts a raw ratings table into rows.
func parseRatings(t *table) ([]RatingRow, error) {
	idx := columnIndex(t.header)
	if err := requireColumns(t.source, idx, colUser, colMovie, colRating); err != nil {
		return nil, err
	}

	out := make([]RatingRow, 0, len(t.rows))
	for i, row := range t.rows {
		line := i + 2 // header is line 1
		user, err := parseInt(cell(row, idx, colUser))
		if err != nil {
			return nil, &RowError{Source: t.source, Line: line, Column: colUser, Err: err}
		}
		movie, err := parseInt(cell(row, idx, colMovie))
		if err != nil {
			return nil, &RowError{Source: t.source, Line: line, Column: colMovie, Err: err}
		}
		value, err := strconv.ParseFloat(cell(row, idx, colRating), 64)
		if err != nil {
			return nil, &RowError{Source: t.source, Line: line, Column: colRating, Err: err}
		}
		if !recommend.ValidRatingValue(value) {
			return nil, &RowError{Source: t.source, Line: line, Column: colRating,
				Err: fmt.Errorf("rating %v outside [%.1f, %.1f] or off %.1f step", value, recommend.MinUserRating, recommend.MaxRating, recommend.RatingStep)}
		}
		out = append(out, RatingRow{UserID: user, MovieID: movie, Rating: value})
	}
	return out, nil
}

// parseContent converts a raw content table into rows.
// A missing or unparsable release year is recorded as zero.
func parseContent(t *table) ([]ContentRow, error) {
	idx := columnIndex(t.header)
	if err := requireColumns(t.source, idx, colMovie, colTitle); err != nil {
		return nil, err
	}

	out := make([]ContentRow, 0, len(t.rows))
	for i, row := range t.rows {
		movie, err := parseInt(cell(row, idx, colMovie))
		if err != nil {
			return nil, &RowError{Source: t.source, Line: i + 2, Column: colMovie, Err: err}
		}
		year, err := parseInt(cell(row, idx, colReleaseYear))
		if err != nil {
			year = 0
		}
		out = append(out, ContentRow{
			MovieID:     movie,
			Title:       cell(row, idx, colTitle),
			Genres:      cell(row, idx, colGenres),
			ReleaseYear: year,
		})
	}
	return out, nil
}

// splitGenres splits the comma-joined genre text into trimmed, non-empty labels.
// Pipe separators are accepted as well.
func splitGenres(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == '|' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" && f != "(no genres listed)" {
			out = append(out, f)
		}
	}
	return out
}
