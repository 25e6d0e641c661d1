// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package dataset

import (
	"github.com/tomtom215/streamflix/internal/recommend"
)

type ratingAgg struct {
	sum   float64
	count int
}

// Join merges ratings and content on movie id.
func Join(ratings []RatingRow, content []ContentRow) (*Dataset, error) {
	byMovie := make(map[int]*ContentRow, len(content))
	for i := range content {
		if _, dup := byMovie[content[i].MovieID]; !dup {
			byMovie[content[i].MovieID] = &content[i]
		}
	}

	aggs := make(map[int]*ratingAgg)
	users := make(map[int]struct{})
	out := make([]recommend.Rating, 0, len(ratings))
	for _, r := range ratings {
		if _, ok := byMovie[r.MovieID]; !ok {
			return nil, &DanglingRatingError{MovieID: r.MovieID, UserID: r.UserID}
		}
		agg, ok := aggs[r.MovieID]
		if !ok {
			agg = &ratingAgg{}
			aggs[r.MovieID] = agg
		}
		agg.sum += r.Rating
		agg.count++
		users[r.UserID] = struct{}{}
		out = append(out, recommend.Rating{UserID: r.UserID, ItemID: r.MovieID, Value: r.Rating})
	}

	ds := &Dataset{
		Items:   make([]recommend.Item, 0, len(aggs)),
		Ratings: out,
		Users:   len(users),
	}
	seen := make(map[int]struct{}, len(aggs))
	for i := range content {
		c := &content[i]
		agg, rated := aggs[c.MovieID]
		if _, dup := seen[c.MovieID]; dup || !rated {
			ds.DroppedContent++
			continue
		}
		seen[c.MovieID] = struct{}{}
		ds.Items = append(ds.Items, recommend.Item{
			ID:          c.MovieID,
			Title:       c.Title,
			Genres:      splitGenres(c.Genres),
			GenreText:   c.Genres,
			ReleaseYear: c.ReleaseYear,
			AvgRating:   agg.sum / float64(agg.count),
			RatingCount: agg.count,
		})
	}
	return ds, nil
}
