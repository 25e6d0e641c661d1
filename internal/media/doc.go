// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

/*
Package media resolves movie posters (TMDB) and trailers (YouTube).

Each upstream client has an outbound rate limiter and a circuit breaker
("tmdb-api", "youtube-api"). The Service combines both behind a tiered cache
and never returns an error: a failed lookup is logged at warn level and
replaced by PlaceholderPoster and TrailerAvailable=false.

	store, disk, err := media.NewCache(cfg.Media)
	if err != nil {
		return err
	}
	defer store.Close()
	_ = disk // nil unless cfg.Media.CachePath is set

	svc := media.NewService(cfg.Media, store)
	m := svc.Lookup(ctx, "Toy Story (1995)")
*/
package media
