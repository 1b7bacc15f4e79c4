package plex

import (
	"context"
	"fmt"
	"strconv"

	"log/slog"

	"github.com/LukeHagar/plexgo"
	"github.com/LukeHagar/plexgo/models/operations"
	"github.com/icco/moviestats/lib/movies"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// containerSize is the page size used when listing library items.
const containerSize = 50

type Client struct {
	api     *plexgo.PlexAPI
	plexURL string
	logger  *slog.Logger
}

func NewClient(plexURL, plexToken string, logger *slog.Logger) *Client {
	plex := plexgo.New(
		plexgo.WithSecurity(plexToken),
		plexgo.WithServerURL(plexURL),
	)

	return &Client{
		api:     plex,
		plexURL: plexURL,
		logger:  logger,
	}
}

// GetURL returns the Plex server URL
func (c *Client) GetURL() string {
	return c.plexURL
}

// GetAllLibraries gets all libraries from Plex
func (c *Client) GetAllLibraries(ctx context.Context) ([]operations.GetAllLibrariesDirectory, error) {
	c.logger.Debug("Fetching libraries from Plex", slog.String("url", c.plexURL))

	resp, err := c.api.Library.GetAllLibraries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get libraries: %w", err)
	}
	if resp.Object == nil {
		return nil, fmt.Errorf("invalid response from Plex API")
	}

	c.logger.Debug("Got libraries from Plex",
		slog.Int("count", len(resp.Object.MediaContainer.Directory)))
	return resp.Object.MediaContainer.Directory, nil
}

// Item is the subset of a Plex library item the catalogue needs.
type Item struct {
	Title     string
	Year      *int
	Rating    *float64
	Duration  *int // milliseconds
	Genres    []string
	Directors []string
}

// GetMovies returns every item of every movie library as a catalogue record.
func (c *Client) GetMovies(ctx context.Context) ([]movies.Movie, error) {
	libraries, err := c.GetAllLibraries(ctx)
	if err != nil {
		return nil, err
	}

	var out []movies.Movie
	for _, key := range movieLibraryKeys(libraries) {
		items, err := c.GetItems(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to get library %s: %w", key, err)
		}
		out = append(out, lo.Map(items, func(item Item, _ int) movies.Movie {
			return item.Movie()
		})...)
	}

	c.logger.Info("Fetched movies from Plex", slog.Int("count", len(out)))
	return out, nil
}

func movieLibraryKeys(libraries []operations.GetAllLibrariesDirectory) []string {
	return lo.FilterMap(libraries, func(lib operations.GetAllLibrariesDirectory, _ int) (string, bool) {
		return lib.Key, lib.Type == "movie"
	})
}

// GetItems pages through a movie library.
func (c *Client) GetItems(ctx context.Context, libraryKey string) ([]Item, error) {
	sectionKey, err := strconv.Atoi(libraryKey)
	if err != nil {
		return nil, fmt.Errorf("invalid library key: %w", err)
	}

	size := containerSize
	start := 0
	includeGuids := operations.IncludeGuids(1)
	includeMeta := operations.GetLibraryItemsQueryParamIncludeMeta(1)

	var all []Item
	for {
		request := operations.GetLibraryItemsRequest{
			SectionKey:          sectionKey,
			Type:                operations.GetLibraryItemsQueryParamType(1),
			IncludeGuids:        &includeGuids,
			IncludeMeta:         &includeMeta,
			XPlexContainerSize:  &size,
			XPlexContainerStart: &start,
			Tag:                 operations.Tag("all"),
		}

		resp, err := c.api.Library.GetLibraryItems(ctx, request)
		if err != nil {
			return nil, fmt.Errorf("failed to get items from library: %w", err)
		}
		if resp.Object == nil {
			return nil, fmt.Errorf("invalid response from Plex API")
		}

		metadata := resp.Object.MediaContainer.Metadata
		c.logger.Debug("Got library page from Plex",
			slog.String("section_key", libraryKey),
			slog.Int("start", start),
			slog.Int("count", len(metadata)),
			slog.Int("total_size", int(resp.Object.MediaContainer.TotalSize)))

		for _, item := range metadata {
			all = append(all, Item{
				Title:    item.Title,
				Year:     item.Year,
				Rating:   item.Rating,
				Duration: item.Duration,
				Genres: lo.FilterMap(item.Genre, func(g operations.GetLibraryItemsGenre, _ int) (string, bool) {
					return lo.FromPtr(g.Tag), g.Tag != nil
				}),
				Directors: lo.FilterMap(item.Director, func(d operations.GetLibraryItemsDirector, _ int) (string, bool) {
					return lo.FromPtr(d.Tag), d.Tag != nil
				}),
			})
		}

		if lastPage(start, len(metadata), int(resp.Object.MediaContainer.TotalSize)) {
			break
		}
		// the server may return fewer items than asked for
		start += len(metadata)
	}

	return all, nil
}

// lastPage reports whether a page of got items starting at start finishes a
// library of total items. An empty page always ends paging.
func lastPage(start, got, total int) bool {
	return got == 0 || start+got >= total
}

// Movie converts a Plex item into a catalogue record. Plex lists directors
// in credit order; the first one is kept.
func (i Item) Movie() movies.Movie {
	m := movies.Movie{
		Title:    i.Title,
		Year:     lo.FromPtr(i.Year),
		Duration: movies.FormatDuration(lo.FromPtr(i.Duration) / 60000),
		Genre:    lo.Ternary(i.Genres == nil, []string{}, i.Genres),
		Score:    mo.PointerToOption(i.Rating),
	}
	if len(i.Directors) > 0 {
		m.Director = i.Directors[0]
	}
	return m
}
