// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	// DuckDB driver - reads CSV and Parquet files through table functions
	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/streamflix/internal/logging"
)

// DuckDBLoader reads both tables through an in-memory DuckDB connection.
// Files ending in .parquet are read with read_parquet, everything else with
// read_csv_auto.
type DuckDBLoader struct {
	ratingsPath string
	contentPath string
}

// NewDuckDBLoader creates a loader for the given ratings and content files.
func NewDuckDBLoader(ratingsPath, contentPath string) *DuckDBLoader {
	return &DuckDBLoader{ratingsPath: ratingsPath, contentPath: contentPath}
}

// Load reads, parses and joins both files.
func (l *DuckDBLoader) Load(ctx context.Context) (*Dataset, error) {
	start := time.Now()

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	defer db.Close() //nolint:errcheck // in-memory connection

	ratingsTable, err := queryFile(ctx, db, l.ratingsPath)
	if err != nil {
		return nil, err
	}
	contentTable, err := queryFile(ctx, db, l.contentPath)
	if err != nil {
		return nil, err
	}

	ds, err := parseAndJoin(ratingsTable, contentTable)
	if err != nil {
		return nil, err
	}

	logging.Info().
		Str("loader", "duckdb").
		Int("items", len(ds.Items)).
		Int("ratings", len(ds.Ratings)).
		Int("users", ds.Users).
		Int("dropped_content", ds.DroppedContent).
		Dur("duration", time.Since(start)).
		Msg("dataset loaded")
	return ds, nil
}

// scanQuery builds the SELECT for path.
func scanQuery(path string) string {
	literal := "'" + strings.ReplaceAll(path, "'", "''") + "'"
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return fmt.Sprintf("SELECT * FROM read_parquet(%s)", literal)
	}
	return fmt.Sprintf("SELECT * FROM read_csv_auto(%s, header = true, all_varchar = true)", literal)
}

func queryFile(ctx context.Context, db *sql.DB, path string) (*table, error) {
	rows, err := db.QueryContext(ctx, scanQuery(path))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", path, err)
	}
	defer rows.Close() //nolint:errcheck // closed after iteration

	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns %s: %w", path, err)
	}

	t := &table{source: path, header: header}
	values := make([]any, len(header))
	dest := make([]any, len(header))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", path, err)
		}
		record := make([]string, len(values))
		for i, v := range values {
			record[i] = cellString(v)
		}
		t.rows = append(t.rows, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", path, err)
	}
	return t, nil
}

// cellString renders a scanned value as the text the row parsers expect.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	default:
		return fmt.Sprint(x)
	}
}
