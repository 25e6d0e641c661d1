// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

/*
Package services provides suture.Service wrappers for Streamflix components.

Each wrapper translates a component lifecycle (ListenAndServe, Start/Shutdown,
a periodic task) into suture's context-aware Serve pattern:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - http.ErrServerClosed is treated as a clean stop

Event Consumer (EventConsumerService):
  - Wraps events.Consumer (watermill router)
  - Returns ErrConsumerStopped if the router dies so suture restarts it

Cache GC (CacheGCService):
  - Runs BadgerDB value log GC for the persistent media cache
  - Failures are logged and retried on the next tick

# Usage Example

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	tree.AddMessagingService(services.NewEventConsumerService(consumer))
	tree.AddDataService(services.NewCacheGCService(badgerStore, services.CacheGCConfig{}, logger))
*/
package services
