// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package cache

import (
	"errors"
	"time"

	"github.com/tomtom215/streamflix/internal/logging"
)

// Tier is a named Store in a Tiered cache.
type Tier struct {
	Name  string
	Store Store
}

// Observer is notified of each tier lookup. hit is false on a miss.
type Observer func(tier string, hit bool)

// Tiered reads through its tiers in order and backfills faster tiers on a hit.
// Writes go to every tier.
type Tiered struct {
	tiers       []Tier
	backfillTTL time.Duration
	observe     Observer
}

// NewTiered creates a tiered cache. backfillTTL caps the TTL used when a
// value found in a slower tier is copied into the faster ones; a source
// entry with less time left keeps its remaining TTL.
func NewTiered(backfillTTL time.Duration, observe Observer, tiers ...Tier) *Tiered {
	if observe == nil {
		observe = func(string, bool) {}
	}
	return &Tiered{tiers: tiers, backfillTTL: backfillTTL, observe: observe}
}

// Get returns the first hit. Tier errors are treated as misses and joined
// into the returned error, which is non-nil only alongside a miss.
func (t *Tiered) Get(key string) ([]byte, bool, error) {
	var errs []error
	for i, tier := range t.tiers {
		value, ok, left, err := getWithTTL(tier.Store, key)
		if err != nil {
			errs = append(errs, err)
		}
		t.observe(tier.Name, ok)
		if !ok {
			continue
		}
		t.backfill(key, value, t.backfillFor(left), t.tiers[:i])
		return value, true, nil
	}
	return nil, false, errors.Join(errs...)
}

// backfillFor returns the TTL for copies of an entry with left remaining.
func (t *Tiered) backfillFor(left time.Duration) time.Duration {
	if left > 0 && (t.backfillTTL <= 0 || left < t.backfillTTL) {
		return left
	}
	return t.backfillTTL
}

// backfill copies a hit into the faster tiers. Failures are logged and dropped.
func (t *Tiered) backfill(key string, value []byte, ttl time.Duration, faster []Tier) {
	for _, tier := range faster {
		if err := tier.Store.Set(key, value, ttl); err != nil {
			logging.Debug().Err(err).Str("tier", tier.Name).Str("key", key).Msg("cache backfill failed")
		}
	}
}

func getWithTTL(s Store, key string) ([]byte, bool, time.Duration, error) {
	if ts, ok := s.(TTLStore); ok {
		return ts.GetWithTTL(key)
	}
	value, ok, err := s.Get(key)
	return value, ok, 0, err
}

// Set writes value to every tier.
func (t *Tiered) Set(key string, value []byte, ttl time.Duration) error {
	var errs []error
	for _, tier := range t.tiers {
		if err := tier.Store.Set(key, value, ttl); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Delete removes key from every tier.
func (t *Tiered) Delete(key string) error {
	var errs []error
	for _, tier := range t.tiers {
		if err := tier.Store.Delete(key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every tier.
func (t *Tiered) Close() error {
	var errs []error
	for _, tier := range t.tiers {
		if err := tier.Store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Verify interface implementations at compile time
var (
	_ Store = (*Memory)(nil)
	_ Store = (*BadgerStore)(nil)
	_ Store = (*Tiered)(nil)

	_ TTLStore = (*Memory)(nil)
	_ TTLStore = (*BadgerStore)(nil)
)
