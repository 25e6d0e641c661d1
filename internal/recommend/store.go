// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package recommend

import (
	"fmt"
	"sort"
)

// RatingStore holds the historical ratings. The historical slice is never
// modified after construction; Append produces independent snapshots.
type RatingStore struct {
	catalog   *Catalog
	ratings   []Rating
	maxUserID int
}

// NewRatingStore validates historical ratings against the catalog and takes
// ownership of a copy of them. A rating referencing an item that is not in
// the catalog is a data error.
func NewRatingStore(catalog *Catalog, historical []Rating) (*RatingStore, error) {
	if catalog == nil {
		return nil, fmt.Errorf("rating store: catalog is required")
	}

	s := &RatingStore{
		catalog: catalog,
		ratings: make([]Rating, len(historical)),
	}
	copy(s.ratings, historical)

	for i, r := range s.ratings {
		if !catalog.Contains(r.ItemID) {
			return nil, fmt.Errorf("rating %d (user %d): %w", i, r.UserID, &UnknownItemError{ItemID: r.ItemID})
		}
		if r.UserID > s.maxUserID {
			s.maxUserID = r.UserID
		}
	}

	return s, nil
}

// Len returns the number of historical ratings.
func (s *RatingStore) Len() int {
	return len(s.ratings)
}

// MaxUserID returns the largest historical user id, or 0 when empty.
func (s *RatingStore) MaxUserID() int {
	return s.maxUserID
}

// NextUserID returns an id strictly greater than every historical user id.
func (s *RatingStore) NextUserID() int {
	return s.maxUserID + 1
}

// Snapshot returns the historical ratings without additions.
func (s *RatingStore) Snapshot() *Snapshot {
	return newSnapshot(s.ratings, nil)
}

// Append validates seeds and returns a snapshot combining the historical
// ratings with the seeds attributed to userID. Validation happens before any
// copying, so a failed Append has no effect.
func (s *RatingStore) Append(userID int, seeds []SeedRating) (*Snapshot, error) {
	extra := make([]Rating, 0, len(seeds))
	for _, seed := range seeds {
		if !s.catalog.Contains(seed.ItemID) {
			return nil, &UnknownItemError{ItemID: seed.ItemID}
		}
		if !ValidRatingValue(seed.Value) {
			return nil, &InvalidRatingError{ItemID: seed.ItemID, Value: seed.Value}
		}
		extra = append(extra, Rating{UserID: userID, ItemID: seed.ItemID, Value: seed.Value})
	}
	return newSnapshot(s.ratings, extra), nil
}

// Snapshot is an immutable view of ratings used for one model fit.
type Snapshot struct {
	ratings   []Rating
	maxUserID int
	users     []int
	items     []int
}

func newSnapshot(base, extra []Rating) *Snapshot {
	ratings := make([]Rating, 0, len(base)+len(extra))
	ratings = append(ratings, base...)
	ratings = append(ratings, extra...)

	userSet := make(map[int]struct{})
	itemSet := make(map[int]struct{})
	maxUser := 0
	for _, r := range ratings {
		userSet[r.UserID] = struct{}{}
		itemSet[r.ItemID] = struct{}{}
		if r.UserID > maxUser {
			maxUser = r.UserID
		}
	}

	return &Snapshot{
		ratings:   ratings,
		maxUserID: maxUser,
		users:     sortedKeys(userSet),
		items:     sortedKeys(itemSet),
	}
}

func sortedKeys(m map[int]struct{}) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// Len returns the number of ratings.
func (s *Snapshot) Len() int {
	return len(s.ratings)
}

// At returns the i-th rating in insertion order.
func (s *Snapshot) At(i int) Rating {
	return s.ratings[i]
}

// MaxUserID returns the largest user id in the snapshot.
func (s *Snapshot) MaxUserID() int {
	return s.maxUserID
}

// Users returns the distinct user ids, ascending.
func (s *Snapshot) Users() []int {
	out := make([]int, len(s.users))
	copy(out, s.users)
	return out
}

// Items returns the distinct rated item ids, ascending.
func (s *Snapshot) Items() []int {
	out := make([]int, len(s.items))
	copy(out, s.items)
	return out
}

// RatedBy returns the item ids rated by userID, in insertion order.
func (s *Snapshot) RatedBy(userID int) []int {
	var out []int
	for _, r := range s.ratings {
		if r.UserID == userID {
			out = append(out, r.ItemID)
		}
	}
	return out
}
