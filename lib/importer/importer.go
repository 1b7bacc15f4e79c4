// Package importer refreshes the catalogue from a Plex server.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/icco/moviestats/lib/movies"
	"github.com/icco/moviestats/models"
)

const lockKey = "import"

// Source lists the movies held by an external library.
type Source interface {
	GetMovies(ctx context.Context) ([]movies.Movie, error)
}

// Enricher fills in missing scores.
type Enricher interface {
	EnrichScores(ctx context.Context, ms []movies.Movie) []movies.Movie
}

// Store receives the imported movies.
type Store interface {
	Replace(ctx context.Context, source string, ms []movies.Movie) error
}

// Locker runs fn while holding a named lock.
type Locker interface {
	Do(ctx context.Context, key string, timeout time.Duration, fn func(context.Context) error) error
}

type Importer struct {
	source   Source
	enricher Enricher
	store    Store
	lock     Locker
	logger   *slog.Logger
	timeout  time.Duration
}

// New builds an Importer. enricher may be nil when no TMDB key is configured.
func New(source Source, enricher Enricher, store Store, lock Locker, logger *slog.Logger) *Importer {
	return &Importer{
		source:   source,
		enricher: enricher,
		store:    store,
		lock:     lock,
		logger:   logger,
		timeout:  5 * time.Second,
	}
}

// Import replaces the Plex-sourced part of the catalogue with the current
// contents of the Plex server and returns how many movies were stored.
func (im *Importer) Import(ctx context.Context) (int, error) {
	var imported int
	err := im.lock.Do(ctx, lockKey, im.timeout, func(ctx context.Context) error {
		start := time.Now()

		ms, err := im.source.GetMovies(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch movies: %w", err)
		}

		if im.enricher != nil {
			ms = im.enricher.EnrichScores(ctx, ms)
		}

		if err := im.store.Replace(ctx, models.SourcePlex, ms); err != nil {
			return err
		}

		imported = len(ms)
		im.logger.Info("Import finished",
			slog.Int("movies", imported),
			slog.Duration("duration", time.Since(start)))
		return nil
	})
	if err != nil {
		return 0, err
	}
	return imported, nil
}
