// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/rs/zerolog"

	"github.com/tomtom215/streamflix/internal/metrics"
)

// AuditHandler logs every served recommendation. Malformed messages are
// logged and acknowledged so they are not redelivered.
type AuditHandler struct {
	logger    zerolog.Logger
	served    atomic.Int64
	malformed atomic.Int64
}

// NewAuditHandler creates an audit handler writing to logger.
func NewAuditHandler(logger zerolog.Logger) *AuditHandler {
	return &AuditHandler{logger: logger}
}

// Handle implements message.NoPublishHandlerFunc.
func (h *AuditHandler) Handle(msg *message.Message) error {
	ev, err := decodeRecommendationServed(msg.Payload)
	if err != nil {
		h.malformed.Add(1)
		metrics.RecordEvent(TopicRecommendationServed, metrics.ResultError)
		h.logger.Warn().Err(err).Str("message_id", msg.UUID).Msg("Dropping malformed event")
		return nil
	}

	h.served.Add(1)
	metrics.RecordEvent(TopicRecommendationServed, metrics.ResultConsumed)
	h.logger.Info().
		Str("event_id", ev.EventID).
		Str("request_id", middleware.MessageCorrelationID(msg)).
		Int("synthetic_user_id", ev.SyntheticUserID).
		Str("model", ev.Model).
		Int("seed_count", ev.SeedCount).
		Ints("item_ids", ev.ItemIDs).
		Int64("latency_ms", ev.LatencyMS).
		Msg("Recommendation served")
	return nil
}

// Served returns the number of events handled.
func (h *AuditHandler) Served() int64 { return h.served.Load() }

// Malformed returns the number of rejected payloads.
func (h *AuditHandler) Malformed() int64 { return h.malformed.Load() }

// Consumer runs the audit handler on a watermill router. Each Start builds a
// fresh router, so a Consumer can be restarted after Shutdown.
type Consumer struct {
	subscriber   message.Subscriber
	handler      *AuditHandler
	logger       watermill.LoggerAdapter
	closeTimeout time.Duration

	mu     sync.Mutex
	router *message.Router
	done   chan struct{}
}

// NewConsumer creates a consumer for bus.
func NewConsumer(bus *Bus, handler *AuditHandler) *Consumer {
	return &Consumer{
		subscriber:   bus.Subscriber(),
		handler:      handler,
		logger:       bus.logger,
		closeTimeout: 10 * time.Second,
	}
}

// Start subscribes and returns once the router is running.
func (c *Consumer) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.router != nil {
		return errors.New("consumer already running")
	}

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: c.closeTimeout}, c.logger)
	if err != nil {
		return fmt.Errorf("create watermill router: %w", err)
	}
	router.AddMiddleware(middleware.Recoverer)
	router.AddConsumerHandler("recommendation-audit", TopicRecommendationServed, c.subscriber, c.handler.Handle)

	done := make(chan struct{})
	errCh := make(chan error, 1)
	go func() {
		defer close(done)
		errCh <- router.Run(ctx)
	}()

	select {
	case <-router.Running():
	case err := <-errCh:
		if err == nil {
			err = errors.New("router stopped before running")
		}
		return fmt.Errorf("run watermill router: %w", err)
	case <-ctx.Done():
		_ = router.Close()
		return ctx.Err()
	}

	c.router = router
	c.done = done
	return nil
}

// Shutdown closes the router and waits for in-flight handlers or ctx.
func (c *Consumer) Shutdown(ctx context.Context) {
	c.mu.Lock()
	router, done := c.router, c.done
	c.router, c.done = nil, nil
	c.mu.Unlock()

	if router == nil {
		return
	}
	if err := router.Close(); err != nil {
		c.logger.Error("Closing event router", err, nil)
	}
	select {
	case <-done:
	case <-ctx.Done():
	}
}

// IsRunning reports whether the router is running.
func (c *Consumer) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.router != nil && c.router.IsRunning()
}
