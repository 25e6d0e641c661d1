// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/streamflix/internal/config"
	"github.com/tomtom215/streamflix/internal/events"
	"github.com/tomtom215/streamflix/internal/media"
	"github.com/tomtom215/streamflix/internal/models"
	"github.com/tomtom215/streamflix/internal/recommend"
	"github.com/tomtom215/streamflix/internal/recommend/algorithms"
)

type fakePublisher struct {
	mu     sync.Mutex
	served []*events.RecommendationServed
	err    error
}

func (p *fakePublisher) PublishRecommendationServed(ev *events.RecommendationServed) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.served = append(p.served, ev)
	return p.err
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.served)
}

type stubMedia struct{}

func (stubMedia) PosterURL(_ context.Context, title string) (string, error) {
	return "https://img.test/" + strings.ReplaceAll(title, " ", "_"), nil
}

func (stubMedia) TrailerURL(context.Context, string) (string, error) {
	return "", media.ErrNoMatch
}

func testCatalogData() ([]recommend.Item, []recommend.Rating) {
	items := []recommend.Item{
		{ID: 1, Title: "Toy Story (1995)", Genres: []string{"Animation", "Comedy"}, GenreText: "Animation,Comedy", ReleaseYear: 1995},
		{ID: 2, Title: "Heat (1995)", Genres: []string{"Action", "Crime"}, GenreText: "Action,Crime", ReleaseYear: 1995},
		{ID: 3, Title: "Casino (1995)", Genres: []string{"Crime", "Drama"}, GenreText: "Crime,Drama", ReleaseYear: 1995},
		{ID: 4, Title: "Jumanji (1995)", Genres: []string{"Adventure", "Comedy"}, GenreText: "Adventure,Comedy", ReleaseYear: 1995},
		{ID: 5, Title: "Se7en (1995)", Genres: []string{"Crime", "Thriller"}, GenreText: "Crime,Thriller", ReleaseYear: 1995},
	}
	var ratings []recommend.Rating
	for u := 1; u <= 6; u++ {
		for i := 1; i <= 5; i++ {
			if (u+i)%3 == 0 {
				continue
			}
			ratings = append(ratings, recommend.Rating{UserID: u, ItemID: i, Value: float64(1 + (u*i)%5)})
		}
	}
	return items, ratings
}

type testEnv struct {
	handler   *Handler
	router    http.Handler
	publisher *fakePublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithConfig(t, nil)
}

func newTestEnvWithConfig(t *testing.T, engineCfg *recommend.Config) *testEnv {
	t.Helper()
	items, ratings := testCatalogData()
	catalog := recommend.NewCatalog(items)
	store, err := recommend.NewRatingStore(catalog, ratings)
	if err != nil {
		t.Fatalf("NewRatingStore() error = %v", err)
	}

	svd := algorithms.DefaultSVDConfig()
	svd.NumFactors = 4
	svd.NumEpochs = 5
	engine, err := recommend.NewEngine(engineCfg, catalog, store, algorithms.NewSVDFactory(svd), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	publisher := &fakePublisher{}
	handler, err := NewHandler(Dependencies{
		Engine:  engine,
		Config:  &config.Config{Recommend: config.RecommendConfig{SampleSize: 3}},
		Media:   media.NewServiceWithSources(stubMedia{}, stubMedia{}, nil, time.Hour),
		Events:  publisher,
		Version: "test",
	})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	return &testEnv{
		handler:   handler,
		router:    NewRouter(handler, NewChiMiddleware(cfg)).SetupChi(),
		publisher: publisher,
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, models.APIResponse) {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var resp models.APIResponse
	if w.Code != http.StatusNotModified && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", w.Body.String(), err)
		}
	}
	return w, resp
}

// decodeData re-decodes the envelope data into out.
func decodeData(t *testing.T, resp models.APIResponse, out interface{}) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
}

func TestNewHandler_RequiresDependencies(t *testing.T) {
	if _, err := NewHandler(Dependencies{}); err == nil {
		t.Error("NewHandler() error = nil, want error for missing engine")
	}
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	t.Run("live", func(t *testing.T) {
		w, resp := env.do(t, http.MethodGet, "/api/v1/health/live", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}
		if resp.Status != models.StatusSuccess {
			t.Errorf("Status = %q, want %q", resp.Status, models.StatusSuccess)
		}
		if w.Header().Get("X-Request-ID") == "" {
			t.Error("X-Request-ID header missing")
		}
	})

	t.Run("ready", func(t *testing.T) {
		w, resp := env.do(t, http.MethodGet, "/api/v1/health/ready", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}
		var health models.HealthStatus
		decodeData(t, resp, &health)
		if health.CatalogSize != 5 {
			t.Errorf("CatalogSize = %d, want 5", health.CatalogSize)
		}
		if health.Ratings == 0 {
			t.Error("Ratings = 0, want loaded ratings")
		}
		if !health.MediaLookup {
			t.Error("MediaLookup = false, want true")
		}
		if health.Version != "test" {
			t.Errorf("Version = %q, want test", health.Version)
		}
	})
}

func TestMovieListEndpoints(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantCount  int
		wantTitle  string
	}{
		{"trending default", "/api/v1/movies/trending", http.StatusOK, 5, "Top Trending Movies"},
		{"trending limited", "/api/v1/movies/trending?limit=2", http.StatusOK, 2, "Top Trending Movies"},
		{"trending bad limit", "/api/v1/movies/trending?limit=abc", http.StatusBadRequest, 0, ""},
		{"trending zero limit", "/api/v1/movies/trending?limit=0", http.StatusBadRequest, 0, ""},
		{"search", "/api/v1/movies/search?q=toy", http.StatusOK, 1, ""},
		{"search no match", "/api/v1/movies/search?q=zzz", http.StatusOK, 0, ""},
		{"search empty query", "/api/v1/movies/search?q=", http.StatusBadRequest, 0, ""},
		{"by genre", "/api/v1/movies/genres/Crime", http.StatusOK, 3, "Crime"},
		{"by genre limited", "/api/v1/movies/genres/Crime?limit=1", http.StatusOK, 1, "Crime"},
		{"by genre all", "/api/v1/movies/genres/All", http.StatusOK, 5, "All"},
		{"sample default", "/api/v1/movies/sample", http.StatusOK, 3, ""},
		{"sample n", "/api/v1/movies/sample?n=2", http.StatusOK, 2, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := env.do(t, http.MethodGet, tt.path, "")
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				if resp.Error == nil || resp.Error.Code != CodeValidation {
					t.Errorf("error = %+v, want %s", resp.Error, CodeValidation)
				}
				return
			}
			var list models.MovieList
			decodeData(t, resp, &list)
			if list.Count != tt.wantCount || len(list.Movies) != tt.wantCount {
				t.Errorf("Count = %d, len = %d, want %d", list.Count, len(list.Movies), tt.wantCount)
			}
			if list.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", list.Title, tt.wantTitle)
			}
		})
	}
}

func TestGenres(t *testing.T) {
	env := newTestEnv(t)
	w, resp := env.do(t, http.MethodGet, "/api/v1/movies/genres", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var genres []string
	decodeData(t, resp, &genres)
	if len(genres) == 0 || genres[0] != recommend.AllGenres {
		t.Fatalf("genres = %v, want leading %q", genres, recommend.AllGenres)
	}
	if len(genres) != 1+len(env.handler.catalog.Genres()) {
		t.Errorf("len(genres) = %d, want %d", len(genres), 1+len(env.handler.catalog.Genres()))
	}
}

func TestMovie(t *testing.T) {
	env := newTestEnv(t)

	t.Run("found with media", func(t *testing.T) {
		w, resp := env.do(t, http.MethodGet, "/api/v1/movies/1", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}
		var movie models.Movie
		decodeData(t, resp, &movie)
		if movie.ID != 1 || movie.Title != "Toy Story (1995)" {
			t.Errorf("movie = %+v, want Toy Story", movie)
		}
		if movie.Media == nil {
			t.Fatal("Media = nil, want lookup result")
		}
		if movie.Media.PosterURL != "https://img.test/Toy_Story_(1995)" {
			t.Errorf("PosterURL = %q", movie.Media.PosterURL)
		}
		if movie.Media.TrailerAvailable {
			t.Error("TrailerAvailable = true, want false for no match")
		}
	})

	t.Run("unknown", func(t *testing.T) {
		w, resp := env.do(t, http.MethodGet, "/api/v1/movies/999", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
		}
		if resp.Error == nil || resp.Error.Code != CodeUnknownItem {
			t.Errorf("error = %+v, want %s", resp.Error, CodeUnknownItem)
		}
	})

	t.Run("bad id", func(t *testing.T) {
		w, _ := env.do(t, http.MethodGet, "/api/v1/movies/abc", "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

func TestETag(t *testing.T) {
	env := newTestEnv(t)
	w, _ := env.do(t, http.MethodGet, "/api/v1/movies/trending", "")
	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatal("ETag header missing")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/movies/trending", nil)
	req.Header.Set("If-None-Match", etag)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotModified {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotModified)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body length = %d, want 0", rec.Body.Len())
	}
}

func TestRecommend(t *testing.T) {
	env := newTestEnv(t)

	body := `{"ratings":[{"movie_id":1,"rating":5},{"movie_id":2,"rating":1.5}],"n":2,"include_media":true}`
	w, resp := env.do(t, http.MethodPost, "/api/v1/recommendations", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
	}

	var out models.RecommendationResponse
	decodeData(t, resp, &out)
	if len(out.Recommendations) != 2 {
		t.Fatalf("len(Recommendations) = %d, want 2", len(out.Recommendations))
	}
	if out.SyntheticUserID != 7 {
		t.Errorf("SyntheticUserID = %d, want 7", out.SyntheticUserID)
	}
	if out.SeedCount != 2 {
		t.Errorf("SeedCount = %d, want 2", out.SeedCount)
	}
	if out.RequestID == "" || out.RequestID != w.Header().Get("X-Request-ID") {
		t.Errorf("RequestID = %q, want X-Request-ID %q", out.RequestID, w.Header().Get("X-Request-ID"))
	}
	for i, rec := range out.Recommendations {
		if rec.Rank != i+1 {
			t.Errorf("Rank = %d, want %d", rec.Rank, i+1)
		}
		if rec.MovieID == 1 || rec.MovieID == 2 {
			t.Errorf("seed movie %d recommended", rec.MovieID)
		}
		if rec.PredictedRating < recommend.MinRating || rec.PredictedRating > recommend.MaxRating {
			t.Errorf("PredictedRating = %v, want within [1, 5]", rec.PredictedRating)
		}
		if rec.Title == "" || rec.Media == nil {
			t.Errorf("recommendation %d missing title or media: %+v", i, rec)
		}
		if i > 0 && rec.PredictedRating > out.Recommendations[i-1].PredictedRating {
			t.Errorf("recommendations not sorted by predicted rating: %+v", out.Recommendations)
		}
	}
	if w.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", w.Header().Get("Cache-Control"))
	}
	if env.publisher.count() != 1 {
		t.Errorf("published events = %d, want 1", env.publisher.count())
	}
}

func TestRecommend_WithoutMedia(t *testing.T) {
	env := newTestEnv(t)
	w, resp := env.do(t, http.MethodPost, "/api/v1/recommendations", `{"ratings":[{"movie_id":3,"rating":4}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var out models.RecommendationResponse
	decodeData(t, resp, &out)
	for _, rec := range out.Recommendations {
		if rec.Media != nil {
			t.Errorf("Media = %+v, want nil without include_media", rec.Media)
		}
	}
}

func TestRecommend_DefaultN(t *testing.T) {
	cfg := recommend.DefaultConfig()
	cfg.Limits.DefaultN = 2
	env := newTestEnvWithConfig(t, cfg)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"omitted n uses default", `{"ratings":[{"movie_id":1,"rating":4}]}`, 2},
		{"zero n uses default", `{"ratings":[{"movie_id":1,"rating":4}],"n":0}`, 2},
		{"explicit n", `{"ratings":[{"movie_id":1,"rating":4}],"n":3}`, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := env.do(t, http.MethodPost, "/api/v1/recommendations", tt.body)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
			}
			var out models.RecommendationResponse
			decodeData(t, resp, &out)
			if len(out.Recommendations) != tt.want {
				t.Errorf("len(Recommendations) = %d, want %d", len(out.Recommendations), tt.want)
			}
		})
	}
}

func TestRecommend_PublishFailureIgnored(t *testing.T) {
	env := newTestEnv(t)
	env.publisher.err = errors.New("bus closed")
	w, _ := env.do(t, http.MethodPost, "/api/v1/recommendations", `{"ratings":[{"movie_id":3,"rating":4}],"n":1}`)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRecommend_Errors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"malformed json", `{"ratings":`, http.StatusBadRequest, CodeInvalidJSON},
		{"unknown field", `{"ratingz":[]}`, http.StatusBadRequest, CodeInvalidJSON},
		{"empty body", ``, http.StatusBadRequest, CodeInvalidJSON},
		{"no ratings", `{"ratings":[]}`, http.StatusBadRequest, CodeInsufficientSignal},
		{"missing movie id", `{"ratings":[{"rating":4}]}`, http.StatusBadRequest, CodeValidation},
		{"negative n", `{"ratings":[{"movie_id":1,"rating":4}],"n":-1}`, http.StatusBadRequest, CodeValidation},
		{"unknown movie", `{"ratings":[{"movie_id":42,"rating":4}]}`, http.StatusNotFound, CodeUnknownItem},
		{"duplicate movie", `{"ratings":[{"movie_id":1,"rating":4},{"movie_id":1,"rating":3}]}`, http.StatusBadRequest, CodeDuplicateItem},
		{"rating out of range", `{"ratings":[{"movie_id":1,"rating":7}]}`, http.StatusBadRequest, CodeInvalidRating},
		{"rating off step", `{"ratings":[{"movie_id":1,"rating":3.3}]}`, http.StatusBadRequest, CodeInvalidRating},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := env.do(t, http.MethodPost, "/api/v1/recommendations", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if resp.Status != models.StatusError {
				t.Errorf("Status = %q, want %q", resp.Status, models.StatusError)
			}
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", resp.Error, tt.wantCode)
			}
		})
	}

	if env.publisher.count() != 0 {
		t.Errorf("published events = %d, want 0 for failed requests", env.publisher.count())
	}
}

func TestClassifyRecommendError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"insufficient signal", &recommend.InsufficientSignalError{}, http.StatusBadRequest, CodeInsufficientSignal},
		{"unknown item", &recommend.UnknownItemError{ItemID: 9}, http.StatusNotFound, CodeUnknownItem},
		{"invalid request", &recommend.InvalidRequestError{Field: "n", Reason: "too large"}, http.StatusBadRequest, CodeValidation},
		{"deadline", fmt.Errorf("fit: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, CodeFitTimeout},
		{"canceled", context.Canceled, http.StatusInternalServerError, CodeRecommendation},
		{"other", errors.New("boom"), http.StatusInternalServerError, CodeRecommendation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyRecommendError(tt.err)
			if got.status != tt.wantStatus {
				t.Errorf("status = %d, want %d", got.status, tt.wantStatus)
			}
			if got.apiErr.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", got.apiErr.Code, tt.wantCode)
			}
		})
	}
}

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)

	w, resp := env.do(t, http.MethodGet, "/api/v1/nope", "")
	if w.Code != http.StatusNotFound || resp.Error == nil || resp.Error.Code != CodeNotFound {
		t.Errorf("GET /nope = %d %+v, want 404 %s", w.Code, resp.Error, CodeNotFound)
	}

	w, resp = env.do(t, http.MethodGet, "/api/v1/recommendations", "")
	if w.Code != http.StatusMethodNotAllowed || resp.Error == nil || resp.Error.Code != CodeMethodNotAllowed {
		t.Errorf("GET /recommendations = %d %+v, want 405 %s", w.Code, resp.Error, CodeMethodNotAllowed)
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "streamflix_") {
		t.Error("metrics output missing streamflix_ collectors")
	}
}

func TestGetIntParam(t *testing.T) {
	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{"", 7, false},
		{"limit=3", 3, false},
		{"limit=-2", -2, false},
		{"limit=x", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			got, err := getIntParam(req, "limit", 7)
			if (err != nil) != tt.wantErr {
				t.Fatalf("getIntParam() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("getIntParam() = %d, want %d", got, tt.want)
			}
		})
	}
}
