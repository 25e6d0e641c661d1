// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

// Package events publishes recommendation.served events on an in-process
// watermill GoChannel and consumes them with a supervised audit handler.
package events
