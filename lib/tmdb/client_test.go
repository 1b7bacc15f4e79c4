package tmdb

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/icco/moviestats/lib/movies"
	"github.com/samber/mo"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" || r.URL.Query().Get("api_key") != "key" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		var body any
		switch r.URL.Query().Get("query") {
		case "Jurassic Park":
			body = map[string]any{"results": []map[string]any{
				{"id": 329, "title": "Jurassic Park", "release_date": "1993-06-11", "vote_average": 7.9, "vote_count": 15000},
			}}
		case "Broken":
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		default:
			body = map[string]any{"results": []any{}}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestEnrichScores(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient("key", slog.New(slog.NewTextHandler(io.Discard, nil)), WithBaseURL(srv.URL))

	in := []movies.Movie{
		{Title: "Jurassic Park", Year: 1993, Genre: []string{"Adventure"}},
		{Title: "Jaws", Year: 1975, Score: mo.Some(8.0)},
		{Title: "Obscure", Year: 2001},
		{Title: "Broken", Year: 2002},
	}
	out := c.EnrichScores(context.Background(), in)

	if v, ok := out[0].Score.Get(); !ok || v != 7.9 {
		t.Fatalf("Jurassic Park score = %v, %v", v, ok)
	}
	if v, _ := out[1].Score.Get(); v != 8.0 {
		t.Fatalf("existing score changed to %v", v)
	}
	if out[2].Score.IsPresent() || out[3].Score.IsPresent() {
		t.Fatal("unmatched and failed lookups should stay absent")
	}
	if in[0].Score.IsPresent() {
		t.Fatal("input was modified")
	}
}

func TestSearchMovieError(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient("wrong", slog.New(slog.NewTextHandler(io.Discard, nil)), WithBaseURL(srv.URL))
	if _, err := c.SearchMovie(context.Background(), "Jaws", 1975); err == nil {
		t.Fatal("expected error for rejected request")
	}
}
