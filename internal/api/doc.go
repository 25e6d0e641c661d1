// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

/*
Package api provides the HTTP REST API layer for Streamflix.

It exposes catalog browsing and cold-start recommendations over JSON, using
the chi router.

Key Components:

  - Router: route configuration and middleware stack
  - Handler: request handlers for movies, recommendations and health
  - Response formatting: the models.APIResponse envelope with an ETag
  - Error handling: engine errors mapped to stable codes and statuses
  - Rate limiting: per-IP limits via httprate, tighter on /recommendations
  - CORS: go-chi/cors, configured from the security section

Endpoints (all under /api/v1):

	GET  /health/live
	GET  /health/ready
	GET  /movies/trending?limit=20
	GET  /movies/search?q=&limit=50
	GET  /movies/genres
	GET  /movies/genres/{genre}?limit=10
	GET  /movies/sample?n=6
	GET  /movies/{id}
	POST /recommendations

Prometheus metrics are served at /metrics.

Usage Example:

	handler, err := api.NewHandler(api.Dependencies{
	    Engine: engine,
	    Config: cfg,
	    Media:  mediaService,
	    Events: bus,
	})
	if err != nil {
	    return err
	}
	mw := api.NewChiMiddleware(api.NewChiMiddlewareConfig(cfg.Security))
	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: api.NewRouter(handler, mw).SetupChi()}

Thread Safety:

All handlers are safe for concurrent use. The engine fits a private model per
request and the sampling RNG is guarded by a mutex.
*/
package api
