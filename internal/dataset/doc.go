// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

/*
Package dataset loads the ratings and content tables at startup and joins them
into catalog items and historical ratings.

Two loaders are available:

  - CSVLoader reads both tables with encoding/csv.
  - DuckDBLoader reads CSV or Parquet files through an in-memory DuckDB
    connection (read_csv_auto / read_parquet).

Both produce raw tables that pass through the same header aliasing and the
same join:

  - content rows are deduplicated by movie id, first occurrence wins;
  - only movies present in both tables enter the catalog;
  - a rating for a movie missing from the content table fails the load with
    *DanglingRatingError;
  - AvgRating and RatingCount are computed from the ratings table.

Example:

	loader, err := dataset.NewLoader(cfg.Data)
	if err != nil {
	    return err
	}
	ds, err := loader.Load(ctx)
	if err != nil {
	    return err
	}
	catalog := recommend.NewCatalog(ds.Items)
	store, err := recommend.NewRatingStore(catalog, ds.Ratings)
*/
package dataset
