// Command moviestats prints catalogue statistics for a JSON or YAML dataset,
// or for the bundled sample when no file is given.
//
//	moviestats [-json] [-genre Drama] [-year 1998] [dataset.json]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/icco/moviestats/lib/dataset"
	"github.com/icco/moviestats/lib/movies"
	"github.com/icco/moviestats/lib/validation"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := run(os.Args[1:], os.Stdout); err != nil {
		slog.Error("moviestats failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("moviestats", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "print the statistics as JSON")
	genre := fs.String("genre", "", "only consider movies of this genre")
	year := fs.String("year", "", "only consider movies released in this year")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("expected at most one dataset file, got %d", fs.NArg())
	}

	ms := dataset.Default()
	if path := fs.Arg(0); path != "" {
		loaded, err := dataset.Load(path)
		if err != nil {
			return err
		}
		ms = loaded
	}

	if *genre != "" {
		if err := validation.ValidateName("genre", *genre); err != nil {
			return err
		}
		ms = movies.FilterGenre(ms, *genre)
	}
	if *year != "" {
		y, err := validation.ValidateYear(*year)
		if err != nil {
			return err
		}
		ms = movies.FilterYear(ms, y)
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(movies.Stats(ms))
	}
	return report(stdout, ms)
}

func report(w io.Writer, ms []movies.Movie) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Movies:              %d\n", len(ms))
	fmt.Fprintf(&b, "Directors:           %d (%d unique)\n", len(movies.AllDirectors(ms)), len(movies.UniqueDirectors(ms)))
	fmt.Fprintf(&b, "Spielberg dramas:    %d\n", movies.HowManyMovies(ms))
	fmt.Fprintf(&b, "Average score:       %.2f\n", movies.ScoresAverage(ms))
	fmt.Fprintf(&b, "Drama average score: %.2f\n", movies.DramaMoviesScore(ms))
	fmt.Fprintf(&b, "Best year:           %s\n", movies.BestYearAvg(ms).OrElse("none"))

	b.WriteString("\nBy year:\n")
	for _, m := range movies.TurnHoursToMinutes(movies.OrderByYear(ms)) {
		fmt.Fprintf(&b, "  %d  %-40s %4d min\n", m.Year, m.Title, m.Duration)
	}

	b.WriteString("\nA to Z:\n")
	for i, title := range movies.OrderAlphabetically(ms) {
		fmt.Fprintf(&b, "  %2d. %s\n", i+1, title)
	}

	b.WriteString("\nGenres:\n")
	for _, g := range movies.GenreDistribution(ms) {
		fmt.Fprintf(&b, "  %-12s %d\n", g.Genre, g.Count)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
