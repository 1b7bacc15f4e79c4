package handlers

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/icco/moviestats/handlers/templates"
	"github.com/icco/moviestats/lib/config"
	"github.com/icco/moviestats/lib/health"
	"github.com/icco/moviestats/lib/lock"
	"github.com/icco/moviestats/lib/movies"
	"github.com/icco/moviestats/lib/validation"
	"gorm.io/gorm"
)

// Catalog is the read side of the movie store.
type Catalog interface {
	All(ctx context.Context) ([]movies.Movie, error)
	Count(ctx context.Context) (int64, error)
}

// Importer refreshes the catalogue from an external library.
type Importer interface {
	Import(ctx context.Context) (int, error)
}

// Options wires the router's dependencies. Importer may be nil, in which case
// POST /api/import answers 503.
type Options struct {
	DB       *gorm.DB
	Catalog  Catalog
	Importer Importer
	Limiter  config.Limiter
	Logger   *slog.Logger
}

// NewRouter builds the HTTP API. ctx bounds background work started by the
// middleware.
func NewRouter(ctx context.Context, opts Options) *chi.Mux {
	logger := opts.Logger

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(Metrics)
	r.Use(RateLimit(ctx, opts.Limiter, logger))

	r.Get("/", HandleHome(opts.Catalog, logger))
	r.Get("/health", health.Check(opts.DB, opts.Catalog))
	r.Handle("/debug/vars", expvar.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/movies", HandleMovies(opts.Catalog, logger))
		r.Get("/stats", HandleStats(opts.Catalog, logger))

		r.Get("/directors", HandleDirectors(opts.Catalog, logger))
		r.Get("/directors/unique", HandleUniqueDirectors(opts.Catalog, logger))
		r.Get("/directors/{director}/count", HandleDirectorCount(opts.Catalog, logger))

		r.Get("/scores/average", HandleScoresAverage(opts.Catalog, logger))
		r.Get("/scores/drama", HandleDramaScore(opts.Catalog, logger))
		r.Get("/scores/genre/{genre}", HandleGenreScore(opts.Catalog, logger))

		r.Get("/order/year", HandleOrderByYear(opts.Catalog, logger))
		r.Get("/order/alphabetical", HandleOrderAlphabetically(opts.Catalog, logger))
		r.Get("/durations", HandleDurations(opts.Catalog, logger))
		r.Get("/best-year", HandleBestYear(opts.Catalog, logger))

		r.Post("/import", HandleImport(opts.Importer, logger))
	})

	return r
}

type errorData struct {
	Message string
}

func renderError(w http.ResponseWriter, logger *slog.Logger, message string, status int) {
	tmpl, err := templates.ParseTemplates("base.html", "error.html")
	if err != nil {
		logger.Error("Failed to parse error template", slog.Any("error", err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "base.html", errorData{Message: message}); err != nil {
		logger.Error("Failed to execute error template", slog.Any("error", err))
	}
}

// HandleHome renders the statistics page for the whole catalogue.
func HandleHome(c Catalog, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ms, err := c.All(r.Context())
		if err != nil {
			logger.Error("Failed to load movies", slog.Any("error", err))
			renderError(w, logger, "We couldn't load the movie catalogue. Please try again later.", http.StatusInternalServerError)
			return
		}

		tmpl, err := templates.ParseTemplates("base.html", "stats.html")
		if err != nil {
			logger.Error("Failed to parse template", slog.Any("error", err))
			renderError(w, logger, "Something went wrong while loading the page.", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.ExecuteTemplate(w, "base.html", movies.Stats(ms)); err != nil {
			logger.Error("Failed to execute template", slog.Any("error", err))
			renderError(w, logger, "Something went wrong while displaying the page.", http.StatusInternalServerError)
		}
	}
}

// analytics loads the catalogue, applies the request's filters and writes
// the result of fn as JSON. Errors returned by fn are client errors.
func analytics(c Catalog, logger *slog.Logger, fn func(ms []movies.Movie, r *http.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ms, err := c.All(r.Context())
		if err != nil {
			logger.Error("Failed to load movies", slog.Any("error", err))
			validation.WriteError(w, errors.New("failed to load movies"), http.StatusInternalServerError)
			return
		}

		ms, err = filter(ms, r)
		if err != nil {
			validation.WriteError(w, err, http.StatusBadRequest)
			return
		}

		result, err := fn(ms, r)
		if err != nil {
			validation.WriteError(w, err, http.StatusBadRequest)
			return
		}
		validation.WriteJSON(w, result, http.StatusOK)
	}
}

// filter narrows ms by the optional genre and year query parameters.
func filter(ms []movies.Movie, r *http.Request) ([]movies.Movie, error) {
	q := r.URL.Query()
	if q.Has("genre") {
		genre := q.Get("genre")
		if err := validation.ValidateName("genre", genre); err != nil {
			return nil, err
		}
		ms = movies.FilterGenre(ms, genre)
	}
	if q.Has("year") {
		year, err := validation.ValidateYear(q.Get("year"))
		if err != nil {
			return nil, err
		}
		ms = movies.FilterYear(ms, year)
	}
	return ms, nil
}

type moviesResponse struct {
	Movies []movies.Movie `json:"movies"`
}

type directorsResponse struct {
	Directors []string `json:"directors"`
}

type countResponse struct {
	Director string `json:"director"`
	Genre    string `json:"genre"`
	Count    int    `json:"count"`
}

type averageResponse struct {
	Genre   string  `json:"genre,omitempty"`
	Average float64 `json:"average"`
}

// HandleMovies lists the catalogue.
func HandleMovies(c Catalog, logger *slog.Logger) http.HandlerFunc {
	return analytics(c, logger, func(ms []movies.Movie, _ *http.Request) (any, error) {
		return moviesResponse{Movies: nonNil(ms)}, nil
	})
}

// HandleStats returns every statistic at once.
func HandleStats(c Catalog, logger *slog.Logger) http.HandlerFunc {
	return analytics(c, logger, func(ms []movies.Movie, _ *http.Request) (any, error) {
		return movies.Stats(ms), nil
	})
}

func HandleDirectors(c Catalog, logger *slog.Logger) http.HandlerFunc {
	return analytics(c, logger, func(ms []movies.Movie, _ *http.Request) (any, error) {
		return directorsResponse{Directors: nonNil(movies.AllDirectors(ms))}, nil
	})
}

func HandleUniqueDirectors(c Catalog, logger *slog.Logger) http.HandlerFunc {
	return analytics(c, logger, func(ms []movies.Movie, _ *http.Request) (any, error) {
		return directorsResponse{Directors: nonNil(movies.UniqueDirectors(ms))}, nil
	})
}

// HandleDirectorCount counts one director's movies in a genre, Drama unless
// ?genre= says otherwise. The genre here is the counted genre, not a filter;
// ?year= still narrows the catalogue.
func HandleDirectorCount(c Catalog, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		director := chi.URLParam(r, "director")
		if err := validation.ValidateName("director", director); err != nil {
			validation.WriteError(w, err, http.StatusBadRequest)
			return
		}

		genre := movies.Drama
		if q := r.URL.Query(); q.Has("genre") {
			genre = q.Get("genre")
			if err := validation.ValidateName("genre", genre); err != nil {
				validation.WriteError(w, err, http.StatusBadRequest)
				return
			}
		}

		ms, err := c.All(r.Context())
		if err != nil {
			logger.Error("Failed to load movies", slog.Any("error", err))
			validation.WriteError(w, errors.New("failed to load movies"), http.StatusInternalServerError)
			return
		}

		if q := r.URL.Query(); q.Has("year") {
			year, err := validation.ValidateYear(q.Get("year"))
			if err != nil {
				validation.WriteError(w, err, http.StatusBadRequest)
				return
			}
			ms = movies.FilterYear(ms, year)
		}

		validation.WriteJSON(w, countResponse{
			Director: director,
			Genre:    genre,
			Count:    movies.CountByDirectorAndGenre(ms, director, genre),
		}, http.StatusOK)
	}
}

func HandleScoresAverage(c Catalog, logger *slog.Logger) http.HandlerFunc {
	return analytics(c, logger, func(ms []movies.Movie, _ *http.Request) (any, error) {
		return averageResponse{Average: movies.ScoresAverage(ms)}, nil
	})
}

func HandleDramaScore(c Catalog, logger *slog.Logger) http.HandlerFunc {
	return analytics(c, logger, func(ms []movies.Movie, _ *http.Request) (any, error) {
		return averageResponse{Genre: movies.Drama, Average: movies.DramaMoviesScore(ms)}, nil
	})
}

func HandleGenreScore(c Catalog, logger *slog.Logger) http.HandlerFunc {
	return analytics(c, logger, func(ms []movies.Movie, r *http.Request) (any, error) {
		genre := chi.URLParam(r, "genre")
		if err := validation.ValidateName("genre", genre); err != nil {
			return nil, err
		}
		return averageResponse{Genre: genre, Average: movies.GenreScore(ms, genre)}, nil
	})
}

func HandleOrderByYear(c Catalog, logger *slog.Logger) http.HandlerFunc {
	return analytics(c, logger, func(ms []movies.Movie, _ *http.Request) (any, error) {
		return moviesResponse{Movies: nonNil(movies.OrderByYear(ms))}, nil
	})
}

// HandleOrderAlphabetically returns at most the first twenty titles.
func HandleOrderAlphabetically(c Catalog, logger *slog.Logger) http.HandlerFunc {
	return analytics(c, logger, func(ms []movies.Movie, _ *http.Request) (any, error) {
		return struct {
			Titles []string `json:"titles"`
		}{Titles: nonNil(movies.OrderAlphabetically(ms))}, nil
	})
}

func HandleDurations(c Catalog, logger *slog.Logger) http.HandlerFunc {
	return analytics(c, logger, func(ms []movies.Movie, _ *http.Request) (any, error) {
		return struct {
			Movies []movies.TimedMovie `json:"movies"`
		}{Movies: nonNil(movies.TurnHoursToMinutes(ms))}, nil
	})
}

// HandleBestYear answers {"result": null} for an empty catalogue.
func HandleBestYear(c Catalog, logger *slog.Logger) http.HandlerFunc {
	return analytics(c, logger, func(ms []movies.Movie, _ *http.Request) (any, error) {
		return struct {
			Result *string `json:"result"`
		}{Result: movies.BestYearAvg(ms).ToPointer()}, nil
	})
}

// HandleImport runs a Plex import synchronously.
func HandleImport(im Importer, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if im == nil {
			validation.WriteError(w, errors.New("plex import is not configured"), http.StatusServiceUnavailable)
			return
		}

		n, err := im.Import(r.Context())
		switch {
		case errors.Is(err, lock.ErrHeld):
			validation.WriteError(w, errors.New("an import is already running"), http.StatusConflict)
			return
		case err != nil:
			logger.Error("Import failed", slog.Any("error", err))
			validation.WriteError(w, fmt.Errorf("import failed: %w", err), http.StatusBadGateway)
			return
		}

		validation.WriteJSON(w, struct {
			Imported int `json:"imported"`
		}{Imported: n}, http.StatusOK)
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
