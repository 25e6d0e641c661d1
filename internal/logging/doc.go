// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

// Package logging provides the zerolog-based structured logger shared by
// every Streamflix component.
//
// JSON output is the production default; console output is available for
// local development. A package-level logger is configured once in main and
// read through the Info/Warn/Error/Debug helpers, while long-lived components
// hold their own zerolog.Logger tagged with a component field.
//
// # Overview
//
// The package provides:
//   - A global zerolog logger configured from the logging config section
//   - Request and correlation id propagation through context.Context
//   - Component loggers (WithComponent)
//   - An slog bridge for suture's sutureslog event hook
//   - Helpers for keeping user input and API keys out of log lines
//
// # Quick Start
//
//	import "github.com/tomtom215/streamflix/internal/logging"
//
//	// Initialize at application startup
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	// Log messages with structured fields
//	logging.Info().Int("movies", catalog.Len()).Msg("Catalog loaded")
//	logging.Error().Err(err).Str("path", cfg.Data.RatingsPath).Msg("Failed to load ratings")
//
//	// Request-scoped logging carries request_id and correlation_id
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("Poster lookup failed")
//
// # Configuration
//
// Environment Variables:
//
//	LOG_LEVEL   - Minimum log level: trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - Output format: json, console (default: json)
//	LOG_CALLER  - Include caller file:line: true, false (default: false)
//
// Programmatic Configuration:
//
//	logging.Init(logging.Config{
//	    Level:     "debug",    // trace, debug, info, warn, error, fatal
//	    Format:    "console",  // json or console
//	    Caller:    true,       // Include caller info
//	    Timestamp: true,       // Include timestamps
//	    Output:    os.Stderr,  // Output writer
//	})
//
// # Structured Logging Best Practices
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Int("n", n).Msg("Recommendations served")  // Correct
//	logging.Info().Int("n", n)                                // WRONG - log not emitted
//
// Use structured fields instead of string formatting:
//
//	// Good - structured, searchable
//	logging.Info().
//	    Int("synthetic_user_id", resp.SyntheticUserID).
//	    Int("candidates", resp.Metadata.CandidatesScored).
//	    Dur("fit_duration", resp.Metadata.FitDuration).
//	    Msg("Recommendation complete")
//
//	// Avoid - unstructured, harder to query
//	logging.Info().Msgf("user %d scored %d candidates in %v", id, n, d)
//
// # Component Loggers
//
// Components receive a logger with a fixed component field:
//
//	engineLogger := logging.WithComponent("recommend")
//	engine, err := recommend.NewEngine(cfg, catalog, store, factory, engineLogger)
//
// # Context-Aware Logging
//
// The request id middleware stores ids in the request context; Ctx adds
// them to every line:
//
//	logger := logging.Ctx(ctx)
//	logger.Info().Int("seeds", len(seeds)).Msg("Fitting model")
//
// # slog Adapter
//
// suture reports service events through slog:
//
//	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{})
//
// # Sensitive Values
//
// Titles and other client input go through SanitizeValue; API keys are
// only ever logged through MaskSecret:
//
//	logging.Info().Str("tmdb_key", logging.MaskSecret(cfg.Media.TMDBAPIKey)).Msg("Media lookup configured")
//
// # Output Formats
//
// JSON Format (Production):
//
//	{"level":"info","time":"2026-01-03T10:30:00Z","message":"HTTP server listening","addr":":8080"}
//
// Console Format (Development):
//
//	10:30:00 INF HTTP server listening addr=:8080
//
// # Thread Safety
//
// All exported functions are safe for concurrent use. The global logger
// is protected by a sync.RWMutex for configuration changes.
//
// # Testing
//
// Capture output with a test logger:
//
//	var buf bytes.Buffer
//	logging.SetLogger(logging.NewTestLogger(&buf))
//	logging.Info().Msg("test message")
//	output := buf.String()
//
// # See Also
//
//   - github.com/rs/zerolog: Underlying logging library
//   - internal/middleware: Request ID middleware
//   - internal/supervisor: suture tree logging through NewSlogLogger
package logging
