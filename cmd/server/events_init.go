// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package main

import (
	"github.com/tomtom215/streamflix/internal/config"
	"github.com/tomtom215/streamflix/internal/events"
	"github.com/tomtom215/streamflix/internal/logging"
	"github.com/tomtom215/streamflix/internal/supervisor"
	"github.com/tomtom215/streamflix/internal/supervisor/services"
)

// initEvents starts the in-process event bus and registers the audit
// consumer with the messaging layer. It returns nil when events are disabled.
func initEvents(cfg *config.Config, tree *supervisor.SupervisorTree) *events.Bus {
	if !cfg.Events.Enabled {
		logging.Info().Msg("Event bus disabled (EVENTS_ENABLED=false)")
		return nil
	}

	bus := events.NewBus(cfg.Events, logging.NewSlogLogger())
	consumer := events.NewConsumer(bus, events.NewAuditHandler(logging.WithComponent("events")))
	tree.AddMessagingService(services.NewEventConsumerService(consumer))

	logging.Info().Int64("buffer_size", cfg.Events.BufferSize).Msg("Event bus started")
	return bus
}
