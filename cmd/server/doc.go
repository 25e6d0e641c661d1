// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

/*
Package main is the entry point for the Streamflix server.

Streamflix recommends movies to a new user from a handful of ratings. Each
request appends the ratings to the historical data under a fresh user id,
fits a latent factor model and ranks every movie the user has not rated.

# Application Architecture

	RootSupervisor ("streamflix")
	├── DataSupervisor ("data-layer")
	│   └── Media cache GC (when MEDIA_CACHE_PATH is set)
	├── MessagingSupervisor ("messaging-layer")
	│   └── Event consumer (when EVENTS_ENABLED=true)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Initialization order:

 1. Configuration: Koanf v2 with defaults, config.yaml and environment variables
 2. Logging: zerolog, bridged to slog for the supervisor and watermill
 3. Dataset: ratings and content tables via encoding/csv or DuckDB
 4. Engine: catalog, rating store and the SVD model factory
 5. Media: TMDB and YouTube clients behind a tiered cache
 6. Events: watermill GoChannel bus and audit consumer
 7. HTTP: chi router with CORS, rate limiting and Prometheus metrics

# Configuration

	RATINGS_PATH=data/collab_movies.csv
	CONTENT_PATH=data/content_movies.csv
	DATA_LOADER=csv               # or duckdb (also reads Parquet)
	RECOMMEND_FACTORS=100
	TMDB_API_KEY=...
	YOUTUBE_API_KEY=...
	HTTP_PORT=8080

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight
requests for SHUTDOWN_TIMEOUT before the media cache and event bus are
closed.
*/
package main
