// Package catalog persists the movie list the analytics run over.
package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/icco/moviestats/lib/movies"
	"github.com/icco/moviestats/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

const batchSize = 100

type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

func New(db *gorm.DB, logger *slog.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// All returns every stored movie in insertion order.
func (s *Store) All(ctx context.Context) ([]movies.Movie, error) {
	var rows []models.Movie
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load movies: %w", err)
	}
	return lo.Map(rows, func(row models.Movie, _ int) movies.Movie {
		return row.Record()
	}), nil
}

// Count returns the number of stored movies.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Movie{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}
	return count, nil
}

// Add stores a single movie.
func (s *Store) Add(ctx context.Context, source string, m movies.Movie) error {
	row := models.FromRecord(m, source)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to save movie %q: %w", m.Title, err)
	}
	return nil
}

// Replace swaps every movie from source for ms in one transaction, so readers
// never observe a half-imported catalogue. An empty ms clears the source.
func (s *Store) Replace(ctx context.Context, source string, ms []movies.Movie) error {
	rows := lo.Map(ms, func(m movies.Movie, _ int) models.Movie {
		return models.FromRecord(m, source)
	})

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("source = ?", source).Delete(&models.Movie{}).Error; err != nil {
			return fmt.Errorf("failed to clear %s movies: %w", source, err)
		}
		for i, batch := range lo.Chunk(rows, batchSize) {
			if err := tx.Create(&batch).Error; err != nil {
				return fmt.Errorf("failed to add movie batch %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Catalogue updated",
		slog.String("source", source),
		slog.Int("movies", len(rows)))
	return nil
}
