package catalog

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/icco/moviestats/lib/db"
	"github.com/icco/moviestats/lib/movies"
	"github.com/icco/moviestats/models"
	"github.com/samber/mo"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gormDB, err := db.Open(filepath.Join(t.TempDir(), "catalog.db"), logger)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := db.RunMigrations(gormDB, logger); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return New(gormDB, logger)
}

func TestReplaceAndAll(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	in := []movies.Movie{
		{Title: "Jaws", Year: 1975, Director: "Steven Spielberg", Duration: "2h 4min", Genre: []string{"Adventure", "Thriller"}, Score: mo.Some(8.0)},
		{Title: "Seven Samurai", Year: 1954, Director: "Akira Kurosawa", Duration: "3h 27min", Genre: []string{"Action", "Drama"}},
		{Title: "No Genre", Year: 2000, Director: "Nobody", Genre: []string{}},
	}
	if err := s.Replace(ctx, models.SourceFile, in); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	got, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("All() = %+v, want %+v", got, in)
	}

	// a second import from the same source replaces the first
	if err := s.Replace(ctx, models.SourceFile, in[:1]); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Fatalf("Count() = %d, want 1", count)
	}
}

func TestReplaceKeepsOtherSources(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	if err := s.Add(ctx, models.SourcePlex, movies.Movie{Title: "From Plex", Year: 2010}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Replace(ctx, models.SourceFile, []movies.Movie{{Title: "From File", Year: 2011}}); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	got, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(got) != 2 || got[0].Title != "From Plex" || got[1].Title != "From File" {
		t.Fatalf("All() = %+v", got)
	}
}

func TestReplaceEmptyClearsSource(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	if err := s.Replace(ctx, models.SourcePlex, []movies.Movie{{Title: "Gone From Plex", Year: 2010}}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if err := s.Add(ctx, models.SourceFile, movies.Movie{Title: "From File", Year: 2011}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := s.Replace(ctx, models.SourcePlex, nil); err != nil {
		t.Fatalf("Replace(nil): %v", err)
	}

	got, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(got) != 1 || got[0].Title != "From File" {
		t.Fatalf("All() = %+v, want only the file movie", got)
	}
}

func TestReplaceManyBatches(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	in := make([]movies.Movie, 2*batchSize+7)
	for i := range in {
		in[i] = movies.Movie{Title: "Movie", Year: 1900 + i, Genre: []string{"Drama"}}
	}
	if err := s.Replace(ctx, models.SourceFile, in); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	got, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(got) != len(in) || got[len(got)-1].Year != 1900+len(in)-1 {
		t.Fatalf("All() returned %d movies", len(got))
	}
}
