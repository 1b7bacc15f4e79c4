// Command inspect logs what a moviestats database holds: counts per source
// and year, the stored records, and rows that will skew the statistics.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/icco/moviestats/lib/db"
	"github.com/icco/moviestats/lib/movies"
	"github.com/icco/moviestats/models"
	"gorm.io/gorm"
)

type groupCount struct {
	Name  string
	Count int64
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	logger := slog.Default()
	logger.Info("Inspecting database content")

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "moviestats.db"
	}

	gormDB, err := db.Open(dbPath, logger)
	if err != nil {
		logger.Error("Failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}

	ctx := context.Background()
	if err := inspect(ctx, gormDB, logger); err != nil {
		logger.Error("Inspection failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func inspect(ctx context.Context, gormDB *gorm.DB, logger *slog.Logger) error {
	logger.Info("=== DATABASE CONTENT OVERVIEW ===")

	var movieCount int64
	if err := gormDB.WithContext(ctx).Model(&models.Movie{}).Count(&movieCount).Error; err != nil {
		return err
	}
	logger.Info("Movies in database", slog.Int64("count", movieCount))

	var bySource []groupCount
	if err := gormDB.WithContext(ctx).Model(&models.Movie{}).
		Select("source AS name, COUNT(*) AS count").
		Group("source").
		Order("source").
		Scan(&bySource).Error; err != nil {
		return err
	}
	for _, g := range bySource {
		logger.Info("Movies by source", slog.String("source", g.Name), slog.Int64("count", g.Count))
	}

	logger.Info("=== STORED MOVIES ===")

	var rows []models.Movie
	if err := gormDB.WithContext(ctx).Order("year, title").Find(&rows).Error; err != nil {
		return err
	}
	ms := make([]movies.Movie, 0, len(rows))
	for _, row := range rows {
		m := row.Record()
		ms = append(ms, m)
		logger.Debug("Movie",
			slog.String("title", m.Title),
			slog.Int("year", m.Year),
			slog.String("director", m.Director),
			slog.Int("minutes", movies.DurationMinutes(m.Duration)),
			slog.Any("genre", m.Genre),
			slog.Any("score", m.Score.ToPointer()),
			slog.String("source", row.Source))
	}

	logger.Info("=== DATA VALIDATION ===")

	checks := []struct {
		name  string
		where string
	}{
		{name: "Movies with empty titles", where: "title = '' OR title IS NULL"},
		{name: "Movies without a score", where: "score IS NULL"},
		{name: "Movies without a director", where: "director = '' OR director IS NULL"},
		{name: "Movies without a genre", where: "genre = '' OR genre IS NULL"},
		{name: "Movies without a duration", where: "duration = '' OR duration IS NULL"},
	}
	for _, c := range checks {
		var count int64
		if err := gormDB.WithContext(ctx).Model(&models.Movie{}).Where(c.where).Count(&count).Error; err != nil {
			logger.Error("Failed to run check", slog.String("check", c.name), slog.Any("error", err))
			continue
		}
		logger.Info(c.name, slog.Int64("count", count))
	}

	logger.Info("=== SUMMARY ===")

	stats := movies.Stats(ms)
	logger.Info("Catalogue statistics",
		slog.Int("movies", stats.TotalMovies),
		slog.Int("directors", len(stats.UniqueDirectors)),
		slog.Float64("average", stats.ScoresAverage),
		slog.Int("first_year", stats.FirstYear),
		slog.Int("last_year", stats.LastYear))
	if best, ok := movies.BestYearAvg(ms).Get(); ok {
		logger.Info(best)
	}

	logger.Info("=== INSPECTION COMPLETED ===")
	return nil
}
