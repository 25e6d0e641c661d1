// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package services

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrConsumerStopped is returned when the consumer stops on its own, so the
// supervisor restarts it.
var ErrConsumerStopped = errors.New("event consumer stopped unexpectedly")

// EventConsumer matches the *events.Consumer lifecycle.
type EventConsumer interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context)
	IsRunning() bool
}

// EventConsumerService runs an event consumer under supervision.
//
//  1. Start(ctx) subscribes and starts the router
//  2. Serve polls IsRunning until the context is canceled
//  3. Shutdown drains in-flight handlers with shutdownTimeout
type EventConsumerService struct {
	consumer        EventConsumer
	shutdownTimeout time.Duration
	checkInterval   time.Duration
	name            string
}

// NewEventConsumerService creates a service with a 10s shutdown timeout.
func NewEventConsumerService(consumer EventConsumer) *EventConsumerService {
	return NewEventConsumerServiceWithTimeout(consumer, 10*time.Second)
}

// NewEventConsumerServiceWithTimeout creates a service with a custom shutdown timeout.
func NewEventConsumerServiceWithTimeout(consumer EventConsumer, shutdownTimeout time.Duration) *EventConsumerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &EventConsumerService{
		consumer:        consumer,
		shutdownTimeout: shutdownTimeout,
		checkInterval:   time.Second,
		name:            "event-consumer",
	}
}

// Serve implements suture.Service. A failed Start or a consumer that stops
// by itself returns an error so suture restarts it with backoff.
func (s *EventConsumerService) Serve(ctx context.Context) error {
	if err := s.consumer.Start(ctx); err != nil {
		return fmt.Errorf("event consumer start failed: %w", err)
	}

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
			defer cancel()
			s.consumer.Shutdown(shutdownCtx)
			return ctx.Err()

		case <-ticker.C:
			if !s.consumer.IsRunning() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
				s.consumer.Shutdown(shutdownCtx)
				cancel()
				return ErrConsumerStopped
			}
		}
	}
}

// String implements fmt.Stringer.
func (s *EventConsumerService) String() string {
	return s.name
}
