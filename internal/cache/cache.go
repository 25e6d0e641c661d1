// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

// Package cache provides the poster and trailer lookup cache: a bounded
// in-memory TTL tier, a BadgerDB tier that survives restarts, and Tiered,
// which reads through them in order.
package cache

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("cache closed")

// Store is a byte-valued cache with per-entry TTL.
type Store interface {
	// Get returns the value and true if the key exists and has not expired.
	Get(key string) ([]byte, bool, error)

	// Set stores value under key. A non-positive ttl keeps the entry until evicted.
	Set(key string, value []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(key string) error

	// Close releases resources.
	Close() error
}

// TTLStore is a Store that also reports how long an entry has left.
// Tiered uses it to bound backfill TTLs.
type TTLStore interface {
	Store

	// GetWithTTL is Get plus the time left before expiry; zero means none.
	GetWithTTL(key string) ([]byte, bool, time.Duration, error)
}

// entry represents a cached item with expiration
type entry struct {
	data      []byte
	expiresAt time.Time // zero means no expiry
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Memory provides a thread-safe in-memory cache with TTL support and a size bound.
type Memory struct {
	mu         sync.RWMutex
	entries    map[string]entry
	maxEntries int
	stats      Stats
	stop       chan struct{}
	closeOnce  sync.Once
}

// Stats tracks cache performance metrics
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// NewMemory creates an in-memory cache holding at most maxEntries entries
// (unbounded when maxEntries <= 0). Expired entries are removed lazily on
// Get and by a background sweep every cleanupInterval; Close stops the sweep.
func NewMemory(maxEntries int, cleanupInterval time.Duration) *Memory {
	m := &Memory{
		entries:    make(map[string]entry),
		maxEntries: maxEntries,
		stats:      Stats{LastCleanup: time.Now()},
		stop:       make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go m.cleanupLoop(cleanupInterval)
	}
	return m
}

// Get retrieves a value by key with automatic expiration checking.
func (m *Memory) Get(key string) ([]byte, bool, error) {
	value, ok, _, err := m.GetWithTTL(key)
	return value, ok, err
}

// GetWithTTL is Get plus the time left before the entry expires.
func (m *Memory) GetWithTTL(key string) ([]byte, bool, time.Duration, error) {
	m.mu.RLock()
	e, exists := m.entries[key]
	m.mu.RUnlock()

	if !exists {
		m.record(func(s *Stats) { s.Misses++ })
		return nil, false, 0, nil
	}

	now := time.Now()
	if e.expired(now) {
		m.mu.Lock()
		delete(m.entries, key)
		m.stats.Misses++
		m.stats.Evictions++
		m.stats.TotalKeys = int64(len(m.entries))
		m.mu.Unlock()
		return nil, false, 0, nil
	}

	m.record(func(s *Stats) { s.Hits++ })
	var left time.Duration
	if !e.expiresAt.IsZero() {
		left = e.expiresAt.Sub(now)
	}
	return e.data, true, left, nil
}

// Set stores a copy of value with the given TTL.
func (m *Memory) Set(key string, value []byte, ttl time.Duration) error {
	e := entry{data: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists && m.maxEntries > 0 && len(m.entries) >= m.maxEntries {
		m.evictOneLocked()
	}
	m.entries[key] = e
	m.stats.TotalKeys = int64(len(m.entries))
	return nil
}

// evictOneLocked drops an expired entry if one exists, otherwise the entry
// closest to expiry. Caller holds m.mu.
func (m *Memory) evictOneLocked() {
	now := time.Now()
	var (
		victim    string
		victimExp time.Time
		found     bool
	)
	for k, e := range m.entries {
		if e.expired(now) {
			victim, found = k, true
			break
		}
		switch {
		case !found:
			victim, victimExp, found = k, e.expiresAt, true
		case e.expiresAt.IsZero():
		case victimExp.IsZero() || e.expiresAt.Before(victimExp):
			victim, victimExp = k, e.expiresAt
		}
	}
	if found {
		delete(m.entries, victim)
		m.stats.Evictions++
	}
}

// Delete removes a specific cache entry by key.
func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	if _, ok := m.entries[key]; ok {
		delete(m.entries, key)
		m.stats.Evictions++
		m.stats.TotalKeys = int64(len(m.entries))
	}
	m.mu.Unlock()
	return nil
}

// Clear removes all entries from the cache.
func (m *Memory) Clear() {
	m.mu.Lock()
	m.stats.Evictions += int64(len(m.entries))
	m.entries = make(map[string]entry)
	m.stats.TotalKeys = 0
	m.mu.Unlock()
}

// Len returns the number of stored entries, including expired ones not yet swept.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// GetStats returns a snapshot of current cache statistics.
func (m *Memory) GetStats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats
}

// HitRate returns the cache hit rate as a percentage
func (m *Memory) HitRate() float64 {
	stats := m.GetStats()
	total := stats.Hits + stats.Misses
	if total == 0 {
		return 0.0
	}
	return float64(stats.Hits) / float64(total) * 100.0
}

// Close stops the background sweep. The cache remains readable.
func (m *Memory) Close() error {
	m.closeOnce.Do(func() { close(m.stop) })
	return nil
}

func (m *Memory) record(fn func(*Stats)) {
	m.mu.Lock()
	fn(&m.stats)
	m.mu.Unlock()
}

// cleanupLoop periodically removes expired entries
func (m *Memory) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanup()
		case <-m.stop:
			return
		}
	}
}

// cleanup removes all expired entries
func (m *Memory) cleanup() {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, key)
			m.stats.Evictions++
		}
	}
	m.stats.TotalKeys = int64(len(m.entries))
	m.stats.LastCleanup = now
}

// GenerateKey creates a cache key from a namespace and parameters
func GenerateKey(namespace string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", namespace, params)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", namespace, hash[:16])
}
