// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/tomtom215/streamflix/internal/config"
)

const testRatingsCSV = `userId,movieId,rating,timestamp
1,1,4.0,964982703
2,1,3.0,964981247
2,2,5.0,964982224
3,3,2.5,964983815
`

const testContentCSV = `movieId,title,genres,release_year
1,Toy Story (1995),"Adventure,Animation,Children",1995
2,Jumanji (1995),"Adventure,Children,Fantasy",1995
3,Heat (1995),"Action,Crime,Thriller",1995
1,Toy Story duplicate,Comedy,1995
4,Never Rated (2001),Drama,2001
`

func writeTestFiles(t *testing.T, ratings, content string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	rp := filepath.Join(dir, "collab_movies.csv")
	cp := filepath.Join(dir, "content_movies.csv")
	if err := os.WriteFile(rp, []byte(ratings), 0o600); err != nil {
		t.Fatalf("write ratings: %v", err)
	}
	if err := os.WriteFile(cp, []byte(content), 0o600); err != nil {
		t.Fatalf("write content: %v", err)
	}
	return rp, cp
}

func checkTestDataset(t *testing.T, ds *Dataset) {
	t.Helper()
	if len(ds.Items) != 3 {
		t.Fatalf("len(Items) = %d, want 3", len(ds.Items))
	}
	if ds.Items[0].Title != "Toy Story (1995)" {
		t.Errorf("Items[0].Title = %q, want first occurrence", ds.Items[0].Title)
	}
	if ds.Items[0].GenreText != "Adventure,Animation,Children" {
		t.Errorf("Items[0].GenreText = %q", ds.Items[0].GenreText)
	}
	if ds.Items[0].RatingCount != 2 || ds.Items[0].AvgRating != 3.5 {
		t.Errorf("Items[0] count/avg = %d/%v, want 2/3.5", ds.Items[0].RatingCount, ds.Items[0].AvgRating)
	}
	if ds.Items[2].ReleaseYear != 1995 {
		t.Errorf("Items[2].ReleaseYear = %d, want 1995", ds.Items[2].ReleaseYear)
	}
	if len(ds.Ratings) != 4 || ds.Users != 3 {
		t.Errorf("Ratings/Users = %d/%d, want 4/3", len(ds.Ratings), ds.Users)
	}
}

func TestCSVLoader_Load(t *testing.T) {
	rp, cp := writeTestFiles(t, testRatingsCSV, testContentCSV)

	ds, err := NewCSVLoader(rp, cp).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	checkTestDataset(t, ds)
}

func TestCSVLoader_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := NewCSVLoader("/nonexistent/ratings.csv", "/nonexistent/content.csv").Load(context.Background())
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Load() error = %v, want os.ErrNotExist", err)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		rp, cp := writeTestFiles(t, "", testContentCSV)
		if _, err := NewCSVLoader(rp, cp).Load(context.Background()); err == nil {
			t.Error("Load() error = nil, want error for empty ratings file")
		}
	})

	t.Run("dangling rating", func(t *testing.T) {
		rp, cp := writeTestFiles(t, testRatingsCSV+"4,42,3.0,0\n", testContentCSV)
		_, err := NewCSVLoader(rp, cp).Load(context.Background())
		var dangling *DanglingRatingError
		if !errors.As(err, &dangling) || dangling.MovieID != 42 {
			t.Errorf("Load() error = %v, want DanglingRatingError for movie 42", err)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		rp, cp := writeTestFiles(t, testRatingsCSV, testContentCSV)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := NewCSVLoader(rp, cp).Load(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("Load() error = %v, want context.Canceled", err)
		}
	})
}

func TestDuckDBLoader_CSV(t *testing.T) {
	rp, cp := writeTestFiles(t, testRatingsCSV, testContentCSV)

	ds, err := NewDuckDBLoader(rp, cp).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	checkTestDataset(t, ds)
}

func TestDuckDBLoader_Parquet(t *testing.T) {
	rp, cp := writeTestFiles(t, testRatingsCSV, testContentCSV)
	dir := t.TempDir()
	rpq := filepath.Join(dir, "ratings.parquet")
	cpq := filepath.Join(dir, "content.parquet")

	db, err := sql.Open("duckdb", "")
	if err != nil {
		t.Fatalf("open duckdb: %v", err)
	}
	defer db.Close()
	for src, dst := range map[string]string{rp: rpq, cp: cpq} {
		q := fmt.Sprintf("COPY (SELECT * FROM read_csv_auto('%s', header = true)) TO '%s' (FORMAT PARQUET)", src, dst)
		if _, err := db.Exec(q); err != nil {
			t.Fatalf("write parquet: %v", err)
		}
	}

	ds, err := NewDuckDBLoader(rpq, cpq).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	checkTestDataset(t, ds)
}

func TestScanQuery(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"data/r.csv", "SELECT * FROM read_csv_auto('data/r.csv', header = true, all_varchar = true)"},
		{"data/r.PARQUET", "SELECT * FROM read_parquet('data/r.PARQUET')"},
		{"it's.csv", "SELECT * FROM read_csv_auto('it''s.csv', header = true, all_varchar = true)"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := scanQuery(tt.path); got != tt.want {
				t.Errorf("scanQuery(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestCellString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"Drama", "Drama"},
		{[]byte("x"), "x"},
		{4.5, "4.5"},
		{float32(3), "3"},
		{int64(1995), "1995"},
		{int32(7), "7"},
	}

	for _, tt := range tests {
		if got := cellString(tt.in); got != tt.want {
			t.Errorf("cellString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewLoader(t *testing.T) {
	tests := []struct {
		loader  string
		want    string
		wantErr bool
	}{
		{config.LoaderCSV, "*dataset.CSVLoader", false},
		{"", "*dataset.CSVLoader", false},
		{config.LoaderDuckDB, "*dataset.DuckDBLoader", false},
		{"sqlite", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.loader, func(t *testing.T) {
			l, err := NewLoader(config.DataConfig{Loader: tt.loader, RatingsPath: "r.csv", ContentPath: "c.csv"})
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewLoader() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				if got := fmt.Sprintf("%T", l); got != tt.want {
					t.Errorf("NewLoader() type = %s, want %s", got, tt.want)
				}
			}
		})
	}
}
