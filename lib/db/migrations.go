package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/icco/moviestats/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open connects to the SQLite database at path, logging through logger.
func Open(path string, logger *slog.Logger) (*gorm.DB, error) {
	logger.Info("Connecting to database", slog.String("path", path))
	gormDB, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: NewGormLogger(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return gormDB, nil
}

// RunMigrations runs all database migrations
func RunMigrations(db *gorm.DB, logger *slog.Logger) error {
	ctx := context.Background()

	enableSQLiteOptimizations(ctx, db, logger)

	if err := db.WithContext(ctx).AutoMigrate(&models.Movie{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	createAdditionalIndexes(ctx, db, logger)
	return nil
}

// enableSQLiteOptimizations applies pragmas; failures are logged, not fatal.
func enableSQLiteOptimizations(ctx context.Context, db *gorm.DB, logger *slog.Logger) {
	optimizations := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=MEMORY",
	}

	for _, pragma := range optimizations {
		if err := db.WithContext(ctx).Exec(pragma).Error; err != nil {
			logger.Warn("Failed to execute pragma", slog.String("pragma", pragma), slog.Any("error", err))
		} else {
			logger.Debug("Executed pragma", slog.String("pragma", pragma))
		}
	}
}

// createAdditionalIndexes creates the composite indexes the stats queries use.
func createAdditionalIndexes(ctx context.Context, db *gorm.DB, logger *slog.Logger) {
	additionalIndexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_movies_year_title ON movies(year, title)",
		"CREATE INDEX IF NOT EXISTS idx_movies_director_genre ON movies(director, genre)",
		"CREATE INDEX IF NOT EXISTS idx_movies_source ON movies(source)",
	}

	for _, indexSQL := range additionalIndexes {
		if err := db.WithContext(ctx).Exec(indexSQL).Error; err != nil {
			logger.Warn("Failed to create index", slog.String("sql", indexSQL), slog.Any("error", err))
		} else {
			logger.Debug("Created index", slog.String("sql", indexSQL))
		}
	}
}
