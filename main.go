package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/icco/moviestats/handlers"
	"github.com/icco/moviestats/lib/catalog"
	"github.com/icco/moviestats/lib/config"
	"github.com/icco/moviestats/lib/dataset"
	"github.com/icco/moviestats/lib/db"
	"github.com/icco/moviestats/lib/importer"
	"github.com/icco/moviestats/lib/lock"
	"github.com/icco/moviestats/lib/movies"
	"github.com/icco/moviestats/lib/plex"
	"github.com/icco/moviestats/lib/tmdb"
	"github.com/icco/moviestats/models"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Validate already checked the level.
	level, _ := cfg.Level()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})))
	logger := slog.Default()

	if err := run(cfg, logger); err != nil {
		logger.Error("Server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	gormDB, err := db.Open(cfg.DBPath, logger)
	if err != nil {
		return err
	}
	defer closeDB(gormDB, logger)

	if err := db.RunMigrations(gormDB, logger); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := catalog.New(gormDB, logger)
	if err := seed(ctx, store, cfg.Dataset, logger); err != nil {
		return err
	}

	var im handlers.Importer
	if cfg.PlexEnabled() {
		var enricher importer.Enricher
		if cfg.TMDbAPIKey != "" {
			enricher = tmdb.NewClient(cfg.TMDbAPIKey, logger)
		} else {
			logger.Warn("TMDB_API_KEY not set, imported movies keep their Plex ratings only")
		}
		plexClient := plex.NewClient(cfg.PlexURL, cfg.PlexToken, logger)
		logger.Info("Plex import enabled", slog.String("url", plexClient.GetURL()))
		im = importer.New(
			plexClient,
			enricher,
			store,
			lock.NewFileLock("", logger),
			logger,
		)
	} else {
		logger.Info("Plex not configured, import endpoint disabled")
	}

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: handlers.NewRouter(ctx, handlers.Options{
			DB:       gormDB,
			Catalog:  store,
			Importer: im,
			Limiter:  cfg.Limiter,
			Logger:   logger,
		}),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute,
	}

	shutdownError := make(chan error, 1)
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shutdownError <- srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Starting server", slog.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdownError; err != nil {
		return fmt.Errorf("failed to shut down cleanly: %w", err)
	}

	logger.Info("Stopped server", slog.String("addr", srv.Addr))
	return nil
}

// seed loads path into the catalogue on every start. Without a path the
// bundled sample is stored, but only into an empty catalogue.
func seed(ctx context.Context, store *catalog.Store, path string, logger *slog.Logger) error {
	var ms []movies.Movie
	if path != "" {
		loaded, err := dataset.Load(path)
		if err != nil {
			return err
		}
		ms = loaded
	} else {
		count, err := store.Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			logger.Debug("Catalogue already populated", slog.Int64("movies", count))
			return nil
		}
		ms = dataset.Default()
	}

	if len(ms) == 0 {
		logger.Warn("Dataset is empty", slog.String("path", path))
	}
	return store.Replace(ctx, models.SourceFile, ms)
}

func closeDB(gormDB *gorm.DB, logger *slog.Logger) {
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Error("Failed to get database handle", slog.Any("error", err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Failed to close database", slog.Any("error", err))
	}
}
