// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package events

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/tomtom215/streamflix/internal/config"
	"github.com/tomtom215/streamflix/internal/metrics"
)

// Publisher emits recommendation events.
type Publisher interface {
	PublishRecommendationServed(ev *RecommendationServed) error
}

// Bus is the in-process pub/sub. Publish and Subscribe must use the same Bus.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter
}

// NewBus creates a bus. A nil logger discards watermill's own logs.
func NewBus(cfg config.EventsConfig, logger *slog.Logger) *Bus {
	var adapter watermill.LoggerAdapter = watermill.NopLogger{}
	if logger != nil {
		adapter = watermill.NewSlogLogger(logger)
	}
	buffer := cfg.BufferSize
	if buffer <= 0 {
		buffer = 256
	}
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: buffer}, adapter),
		logger: adapter,
	}
}

// Subscriber exposes the subscribing side of the bus. Closing it does not
// close the bus: watermill routers close their subscribers on shutdown, and
// the GoChannel must outlive any single router. Subscriptions still end when
// their context is canceled. Only Bus.Close releases the GoChannel.
func (b *Bus) Subscriber() message.Subscriber {
	return sharedSubscriber{b.pubsub}
}

// sharedSubscriber hides Close from the router.
type sharedSubscriber struct {
	message.Subscriber
}

func (sharedSubscriber) Close() error { return nil }

// PublishRecommendationServed publishes ev on TopicRecommendationServed.
// The request id travels as the message correlation id.
func (b *Bus) PublishRecommendationServed(ev *RecommendationServed) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		metrics.RecordEvent(TopicRecommendationServed, metrics.ResultPublishError)
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := message.NewMessage(ev.EventID, payload)
	msg.Metadata.Set("schema_version", strconv.Itoa(ev.SchemaVersion))
	if ev.RequestID != "" {
		middleware.SetCorrelationID(ev.RequestID, msg)
	}

	if err := b.pubsub.Publish(TopicRecommendationServed, msg); err != nil {
		metrics.RecordEvent(TopicRecommendationServed, metrics.ResultPublishError)
		return fmt.Errorf("publish %s: %w", TopicRecommendationServed, err)
	}
	metrics.RecordEvent(TopicRecommendationServed, metrics.ResultPublished)
	return nil
}

// Close closes the bus; subscribers' channels are closed.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
