// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tomtom215/streamflix/internal/logging"
)

// CSVLoader reads both tables from CSV files.
type CSVLoader struct {
	ratingsPath string
	contentPath string
}

// NewCSVLoader creates a loader for the given ratings and content files.
func NewCSVLoader(ratingsPath, contentPath string) *CSVLoader {
	return &CSVLoader{ratingsPath: ratingsPath, contentPath: contentPath}
}

// Load reads, parses and joins both files.
func (l *CSVLoader) Load(ctx context.Context) (*Dataset, error) {
	start := time.Now()

	ratingsTable, err := readCSVFile(ctx, l.ratingsPath)
	if err != nil {
		return nil, err
	}
	contentTable, err := readCSVFile(ctx, l.contentPath)
	if err != nil {
		return nil, err
	}

	ds, err := parseAndJoin(ratingsTable, contentTable)
	if err != nil {
		return nil, err
	}

	logging.Info().
		Str("loader", "csv").
		Int("items", len(ds.Items)).
		Int("ratings", len(ds.Ratings)).
		Int("users", ds.Users).
		Int("dropped_content", ds.DroppedContent).
		Dur("duration", time.Since(start)).
		Msg("dataset loaded")
	return ds, nil
}

// readCSVFile reads a headed CSV file into a table.
func readCSVFile(ctx context.Context, path string) (*table, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	return readCSV(ctx, path, f)
}

// readCSV reads CSV records from r, checking ctx every 4096 rows.
func readCSV(ctx context.Context, source string, r io.Reader) (*table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: empty file", source)
		}
		return nil, fmt.Errorf("read %s header: %w", source, err)
	}

	t := &table{source: source, header: header}
	for {
		if len(t.rows)%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", source, err)
		}
		t.rows = append(t.rows, record)
	}
	return t, nil
}

func parseAndJoin(ratingsTable, contentTable *table) (*Dataset, error) {
	ratings, err := parseRatings(ratingsTable)
	if err != nil {
		return nil, fmt.Errorf("parse ratings: %w", err)
	}
	content, err := parseContent(contentTable)
	if err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	ds, err := Join(ratings, content)
	if err != nil {
		return nil, fmt.Errorf("join tables: %w", err)
	}
	return ds, nil
}
