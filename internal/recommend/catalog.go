// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package recommend

import (
	"math/rand"
	"sort"
	"strings"
)

// Catalog is the read-only item index. It is built once at startup and
// shared by every request.
type Catalog struct {
	items []Item
	index map[int]int

	// ids is sorted ascending and drives candidate generation.
	ids []int

	// popular is the item order for TopByPopularity.
	popular []int

	genres []string
}

// NewCatalog builds a catalog from items. Duplicate ids keep the first
// occurrence; later duplicates are discarded.
//
//nolint:gocritic // rangeValCopy: Item copies are intentional, the catalog owns its items
func NewCatalog(items []Item) *Catalog {
	c := &Catalog{
		items: make([]Item, 0, len(items)),
		index: make(map[int]int, len(items)),
	}

	genreSet := make(map[string]struct{})
	for _, it := range items {
		if _, dup := c.index[it.ID]; dup {
			continue
		}
		it.Genres = append([]string(nil), it.Genres...)
		c.index[it.ID] = len(c.items)
		c.items = append(c.items, it)
		c.ids = append(c.ids, it.ID)
		for _, g := range it.Genres {
			if g != "" {
				genreSet[g] = struct{}{}
			}
		}
	}

	sort.Ints(c.ids)

	c.popular = make([]int, len(c.items))
	for i := range c.popular {
		c.popular[i] = i
	}
	sort.SliceStable(c.popular, func(a, b int) bool {
		ia, ib := &c.items[c.popular[a]], &c.items[c.popular[b]]
		if ia.RatingCount != ib.RatingCount {
			return ia.RatingCount > ib.RatingCount
		}
		return ia.ID < ib.ID
	})

	c.genres = make([]string, 0, len(genreSet))
	for g := range genreSet {
		c.genres = append(c.genres, g)
	}
	sort.Strings(c.genres)

	return c
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Contains reports whether id is in the catalog.
func (c *Catalog) Contains(id int) bool {
	_, ok := c.index[id]
	return ok
}

// Lookup returns the item with the given id.
func (c *Catalog) Lookup(id int) (Item, error) {
	i, ok := c.index[id]
	if !ok {
		return Item{}, &UnknownItemError{ItemID: id}
	}
	return c.items[i], nil
}

// IDs returns all item ids in ascending order.
func (c *Catalog) IDs() []int {
	out := make([]int, len(c.ids))
	copy(out, c.ids)
	return out
}

// Genres returns the distinct genre labels, sorted.
func (c *Catalog) Genres() []string {
	out := make([]string, len(c.genres))
	copy(out, c.genres)
	return out
}

// TopByPopularity returns up to k items ordered by rating count descending,
// ties broken by ascending id.
func (c *Catalog) TopByPopularity(k int) []Item {
	if k <= 0 {
		return []Item{}
	}
	if k > len(c.popular) {
		k = len(c.popular)
	}
	out := make([]Item, k)
	for i := 0; i < k; i++ {
		out[i] = c.items[c.popular[i]]
	}
	return out
}

// Search returns items whose title contains query, case-insensitively, in
// catalog order. An empty query matches nothing.
func (c *Catalog) Search(query string) []Item {
	query = strings.ToLower(strings.TrimSpace(query))
	out := []Item{}
	if query == "" {
		return out
	}
	for i := range c.items {
		if strings.Contains(strings.ToLower(c.items[i].Title), query) {
			out = append(out, c.items[i])
		}
	}
	return out
}

// ByGenre returns up to k items matching genre, ranked by average rating
// descending with ties broken by ascending id. An empty genre or "All"
// matches every item.
func (c *Catalog) ByGenre(genre string, k int) []Item {
	out := []Item{}
	if k <= 0 {
		return out
	}

	all := genre == "" || strings.EqualFold(genre, AllGenres)
	for i := range c.items {
		if all || c.items[i].MatchesGenre(genre) {
			out = append(out, c.items[i])
		}
	}

	sort.SliceStable(out, func(a, b int) bool {
		if out[a].AvgRating != out[b].AvgRating {
			return out[a].AvgRating > out[b].AvgRating
		}
		return out[a].ID < out[b].ID
	})

	if len(out) > k {
		out = out[:k]
	}
	return out
}

// Sample returns n distinct items chosen with rng, for collecting seed ratings.
func (c *Catalog) Sample(n int, rng *rand.Rand) []Item {
	if n <= 0 || len(c.items) == 0 {
		return []Item{}
	}
	if n > len(c.items) {
		n = len(c.items)
	}
	perm := rng.Perm(len(c.items))
	out := make([]Item, n)
	for i := 0; i < n; i++ {
		out[i] = c.items[perm[i]]
	}
	return out
}
