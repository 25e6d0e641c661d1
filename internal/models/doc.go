// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

/*
Package models defines the JSON shapes of the HTTP API.

Every response is wrapped in APIResponse:

	{
	  "status": "success",
	  "data": {...},
	  "metadata": {"timestamp": "...", "query_time_ms": 12}
	}

Errors carry an APIError with a stable machine-readable code
(VALIDATION_ERROR, UNKNOWN_ITEM, INSUFFICIENT_SIGNAL, ...) instead of data.

Request bodies (RecommendationRequest) carry go-playground/validator tags and
are checked with internal/validation before reaching the engine.
*/
package models
