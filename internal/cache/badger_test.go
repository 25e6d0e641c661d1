// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package cache

import (
	"errors"
	"testing"
	"time"
)

func openTestBadger(t *testing.T) *BadgerStore {
	t.Helper()
	s, err := OpenBadger("")
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBadgerStore_SetGet(t *testing.T) {
	s := openTestBadger(t)

	if err := s.Set("poster:heat", []byte("https://image.tmdb.org/t/p/w500/heat.jpg"), time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, ok, err := s.Get("poster:heat")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v; want hit", ok, err)
	}
	if string(got) != "https://image.tmdb.org/t/p/w500/heat.jpg" {
		t.Errorf("Get() = %q", got)
	}

	if _, ok, err := s.Get("poster:missing"); ok || err != nil {
		t.Errorf("Get(missing) = %v, %v; want miss without error", ok, err)
	}
}

func TestBadgerStore_TTL(t *testing.T) {
	s := openTestBadger(t)

	// Badger TTLs have one-second resolution.
	if err := s.Set("short", []byte("x"), time.Second); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	time.Sleep(2100 * time.Millisecond)

	if _, ok, _ := s.Get("short"); ok {
		t.Error("entry still present after TTL")
	}
}

func TestBadgerStore_Delete(t *testing.T) {
	s := openTestBadger(t)

	_ = s.Set("k", []byte("v"), 0)
	if err := s.Delete("k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := s.Get("k"); ok {
		t.Error("entry present after Delete")
	}
	if err := s.Delete("never-set"); err != nil {
		t.Errorf("Delete(never-set) error = %v", err)
	}
}

func TestBadgerStore_Persistence(t *testing.T) {
	dir := t.TempDir()

	s, err := OpenBadger(dir)
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	_ = s.Set("trailer:heat", []byte("https://www.youtube.com/watch?v=abc"), time.Hour)
	if err := s.RunGC(0.5); err != nil {
		t.Errorf("RunGC() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := OpenBadger(dir)
	if err != nil {
		t.Fatalf("OpenBadger() reopen error = %v", err)
	}
	defer reopened.Close()

	got, ok, err := reopened.Get("trailer:heat")
	if err != nil || !ok || string(got) != "https://www.youtube.com/watch?v=abc" {
		t.Errorf("Get() after reopen = %q, %v, %v", got, ok, err)
	}
}

func TestBadgerStore_Closed(t *testing.T) {
	s, err := OpenBadger("")
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	if _, _, err := s.Get("k"); !errors.Is(err, ErrClosed) {
		t.Errorf("Get() error = %v, want ErrClosed", err)
	}
	if err := s.Set("k", nil, 0); !errors.Is(err, ErrClosed) {
		t.Errorf("Set() error = %v, want ErrClosed", err)
	}
	if err := s.RunGC(0.5); !errors.Is(err, ErrClosed) {
		t.Errorf("RunGC() error = %v, want ErrClosed", err)
	}
}
