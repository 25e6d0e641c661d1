// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package cache

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/streamflix/internal/logging"
)

// BadgerStore is a Store backed by BadgerDB with native entry TTL.
type BadgerStore struct {
	db     *badger.DB
	path   string
	mu     sync.RWMutex
	closed bool
}

// OpenBadger opens (or creates) a BadgerDB cache at path.
// An empty path opens an in-memory database.
func OpenBadger(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", path).
		Bool("in_memory", path == "").
		Msg("lookup cache opened")
	return &BadgerStore{db: db, path: path}, nil
}

// Get returns the value for key if present and not expired.
func (s *BadgerStore) Get(key string) ([]byte, bool, error) {
	value, ok, _, err := s.GetWithTTL(key)
	return value, ok, err
}

// GetWithTTL is Get plus the time left before the entry expires.
// Zero means the entry has no expiry.
func (s *BadgerStore) GetWithTTL(key string) ([]byte, bool, time.Duration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, false, 0, ErrClosed
	}

	var (
		value     []byte
		expiresAt uint64
	)
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		expiresAt = item.ExpiresAt()
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, 0, nil
	}
	if err != nil {
		return nil, false, 0, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, remainingTTL(expiresAt, time.Now()), nil
}

// remainingTTL converts a badger expiry (unix seconds, 0 for none) into
// the time left. An entry in its final second reports one nanosecond so it
// is not mistaken for one without expiry.
func remainingTTL(expiresAt uint64, now time.Time) time.Duration {
	if expiresAt == 0 {
		return 0
	}
	//nolint:gosec // G115: badger expiries are unix seconds
	left := time.Unix(int64(expiresAt), 0).Sub(now)
	if left <= 0 {
		return time.Nanosecond
	}
	return left
}

// Set writes value under key, expiring after ttl when ttl > 0.
func (s *BadgerStore) Set(key string, value []byte, ttl time.Duration) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), value)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *BadgerStore) Delete(key string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// RunGC reclaims value log space until no more rewrite is possible.
func (s *BadgerStore) RunGC(ratio float64) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	if s.path == "" {
		return nil
	}

	for {
		err := s.db.RunValueLogGC(ratio)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

// Close closes the database. Further calls return ErrClosed.
func (s *BadgerStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	return nil
}
