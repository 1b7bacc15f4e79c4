package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"github.com/icco/moviestats/lib/movies"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

const defaultBaseURL = "https://api.themoviedb.org/3"

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

type SearchResult struct {
	Results []struct {
		ID          int     `json:"id"`
		Title       string  `json:"title"`
		ReleaseDate string  `json:"release_date"`
		VoteAverage float64 `json:"vote_average"`
		VoteCount   int     `json:"vote_count"`
	} `json:"results"`
}

func NewClient(apiKey string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) SearchMovie(ctx context.Context, title string, year int) (*SearchResult, error) {
	query := url.Values{}
	query.Set("api_key", c.apiKey)
	query.Set("query", title)
	if year > 0 {
		query.Set("year", strconv.Itoa(year))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search/movie?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status from TMDB: %s", resp.Status)
	}

	var result SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// Score looks up the TMDB vote average for a movie. It returns None when
// nothing matches or the best match has no votes.
func (c *Client) Score(ctx context.Context, title string, year int) (mo.Option[float64], error) {
	result, err := c.SearchMovie(ctx, title, year)
	if err != nil {
		return mo.None[float64](), err
	}
	if len(result.Results) == 0 || result.Results[0].VoteCount == 0 {
		return mo.None[float64](), nil
	}
	return mo.Some(result.Results[0].VoteAverage), nil
}

// EnrichScores returns a copy of ms where movies without a score get the
// TMDB vote average. Lookup failures are logged and leave the score absent.
func (c *Client) EnrichScores(ctx context.Context, ms []movies.Movie) []movies.Movie {
	var filled int
	out := lo.Map(ms, func(m movies.Movie, _ int) movies.Movie {
		m = m.Clone()
		if m.Score.IsPresent() || ctx.Err() != nil {
			return m
		}
		score, err := c.Score(ctx, m.Title, m.Year)
		if err != nil {
			c.logger.Warn("Failed to look up score on TMDB",
				slog.String("title", m.Title),
				slog.Int("year", m.Year),
				slog.Any("error", err))
			return m
		}
		if score.IsPresent() {
			filled++
		}
		m.Score = score
		return m
	})

	c.logger.Info("Enriched scores from TMDB", slog.Int("filled", filled))
	return out
}
