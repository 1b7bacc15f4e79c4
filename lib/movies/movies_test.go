package movies

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/samber/mo"
)

func score(v float64) mo.Option[float64] { return mo.Some(v) }

func sample() []Movie {
	return []Movie{
		{Title: "The Shawshank Redemption", Year: 1994, Director: "Frank Darabont", Duration: "2h 22min", Genre: []string{"Crime", "Drama"}, Score: score(9.3)},
		{Title: "Schindler's List", Year: 1993, Director: Spielberg, Duration: "3h 15min", Genre: []string{"Biography", "Drama", "History"}, Score: score(8.9)},
		{Title: "Jurassic Park", Year: 1993, Director: Spielberg, Duration: "2h 7min", Genre: []string{"Adventure", "Sci-Fi"}, Score: score(8.1)},
		{Title: "Saving Private Ryan", Year: 1998, Director: Spielberg, Duration: "2h 49min", Genre: []string{"Drama", "War"}, Score: score(8.6)},
		{Title: "The Green Mile", Year: 1999, Director: "Frank Darabont", Duration: "3h 9min", Genre: []string{"Crime", "Drama", "Fantasy"}},
		{Title: "amélie", Year: 2001, Director: "Jean-Pierre Jeunet", Duration: "2h 2min", Genre: []string{"Comedy", "Romance"}, Score: score(8.3)},
	}
}

func TestAllDirectors(t *testing.T) {
	got := AllDirectors(sample())
	want := []string{"Frank Darabont", Spielberg, Spielberg, Spielberg, "Frank Darabont", "Jean-Pierre Jeunet"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AllDirectors() = %v, want %v", got, want)
	}
	if got := AllDirectors(nil); len(got) != 0 {
		t.Fatalf("AllDirectors(nil) = %v, want empty", got)
	}
}

func TestUniqueDirectors(t *testing.T) {
	got := UniqueDirectors(sample())
	want := []string{"Frank Darabont", Spielberg, "Jean-Pierre Jeunet"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("UniqueDirectors() = %v, want %v", got, want)
	}
}

func TestHowManyMovies(t *testing.T) {
	tests := []struct {
		name   string
		movies []Movie
		want   int
	}{
		{name: "empty", movies: nil, want: 0},
		{name: "sample", movies: sample(), want: 2},
		{name: "case sensitive director", movies: []Movie{{Director: "steven spielberg", Genre: []string{Drama}}}, want: 0},
		{name: "case sensitive genre", movies: []Movie{{Director: Spielberg, Genre: []string{"drama"}}}, want: 0},
		{name: "no genre", movies: []Movie{{Director: Spielberg}}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HowManyMovies(tt.movies); got != tt.want {
				t.Fatalf("HowManyMovies() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScoresAverage(t *testing.T) {
	tests := []struct {
		name   string
		movies []Movie
		want   float64
	}{
		{name: "empty", movies: nil, want: 0},
		{name: "two", movies: []Movie{{Score: score(8)}, {Score: score(6)}}, want: 7},
		{name: "missing counts as zero", movies: []Movie{{Score: score(8)}, {}}, want: 4},
		{name: "rounds to two decimals", movies: []Movie{{Score: score(8)}, {Score: score(7)}, {Score: score(7)}}, want: 7.33},
		{name: "rounds half up", movies: []Movie{{Score: score(8.125)}}, want: 8.13},
		{name: "sample", movies: sample(), want: 7.2},
		// the sums below land just under a half, so they round down
		{name: "0.175 stored low", movies: []Movie{{Score: score(0.1)}, {Score: score(0.1)}, {Score: score(0.5)}, {}}, want: 0.17},
		{name: "0.425 stored low", movies: []Movie{{Score: score(0.1)}, {Score: score(0.1)}, {Score: score(1.5)}, {}}, want: 0.42},
		{name: "1.075 stored low", movies: []Movie{{Score: score(0.1)}, {Score: score(0.1)}, {Score: score(4.1)}, {}}, want: 1.07},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoresAverage(tt.movies); got != tt.want {
				t.Fatalf("ScoresAverage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDramaMoviesScore(t *testing.T) {
	// 9.3 + 8.9 + 8.6 + 0 over four dramas
	if got, want := DramaMoviesScore(sample()), 6.7; got != want {
		t.Fatalf("DramaMoviesScore() = %v, want %v", got, want)
	}
	noDrama := []Movie{{Genre: []string{"Comedy"}, Score: score(9)}}
	if got := DramaMoviesScore(noDrama); got != 0 {
		t.Fatalf("DramaMoviesScore(no drama) = %v, want 0", got)
	}
	if got := GenreScore(sample(), "Comedy"); got != 8.3 {
		t.Fatalf("GenreScore(Comedy) = %v, want 8.3", got)
	}
}

func TestRoundTo(t *testing.T) {
	tests := []struct {
		v      float64
		places int
		want   float64
	}{
		{v: 8.125, places: 2, want: 8.13},
		{v: 0.175, places: 2, want: 0.17},
		{v: 1.005, places: 2, want: 1},
		{v: 2.5, places: 0, want: 3},
		{v: -2.5, places: 0, want: -3},
		{v: 8.25, places: 1, want: 8.3},
		{v: 1.45, places: 1, want: 1.4},
		{v: 7, places: 2, want: 7},
	}
	for _, tt := range tests {
		if got := roundTo(tt.v, tt.places); got != tt.want {
			t.Errorf("roundTo(%v, %d) = %v, want %v", tt.v, tt.places, got, tt.want)
		}
	}
}

func TestOrderByYear(t *testing.T) {
	got := OrderByYear(sample())
	var titles []string
	for _, m := range got {
		titles = append(titles, m.Title)
	}
	want := []string{
		"Jurassic Park",
		"Schindler's List",
		"The Shawshank Redemption",
		"Saving Private Ryan",
		"The Green Mile",
		"amélie",
	}
	if !reflect.DeepEqual(titles, want) {
		t.Fatalf("OrderByYear() titles = %v, want %v", titles, want)
	}
}

func TestOrderByYearDoesNotShareGenres(t *testing.T) {
	in := sample()
	out := OrderByYear(in)
	out[0].Genre[0] = "changed"
	if !reflect.DeepEqual(in, sample()) {
		t.Fatal("OrderByYear() result aliases the input genre slices")
	}
}

func TestOrderAlphabetically(t *testing.T) {
	got := OrderAlphabetically(sample())
	// collation ignores case, so the lower-case title sorts first
	want := []string{
		"amélie",
		"Jurassic Park",
		"Saving Private Ryan",
		"Schindler's List",
		"The Green Mile",
		"The Shawshank Redemption",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("OrderAlphabetically() = %v, want %v", got, want)
	}
}

func TestOrderAlphabeticallyLimit(t *testing.T) {
	var ms []Movie
	for i := 30; i > 0; i-- {
		ms = append(ms, Movie{Title: fmt.Sprintf("Movie %02d", i)})
	}
	got := OrderAlphabetically(ms)
	if len(got) != TitleLimit {
		t.Fatalf("len(OrderAlphabetically()) = %d, want %d", len(got), TitleLimit)
	}
	if got[0] != "Movie 01" || got[TitleLimit-1] != "Movie 20" {
		t.Fatalf("OrderAlphabetically() = %v", got)
	}
}

func TestDurationMinutes(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"2h 22min", 142},
		{"1h", 60},
		{"45min", 45},
		{"", 0},
		{"two hours", 0},
		{"h min", 0},
		{"0h 5min", 5},
		{"3h15min", 195},
		{"90min 1h", 150},
		{"999999999999999999h", 0},
		{"153722867280912930h 10min", 0},
		{"99999999999999999999h", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := DurationMinutes(tt.in); got != tt.want {
				t.Fatalf("DurationMinutes(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestTurnHoursToMinutes(t *testing.T) {
	in := sample()
	got := TurnHoursToMinutes(in)
	if len(got) != len(in) {
		t.Fatalf("len = %d, want %d", len(got), len(in))
	}
	first := got[0]
	if first.Duration != 142 || first.Title != in[0].Title || first.Score != in[0].Score {
		t.Fatalf("TurnHoursToMinutes()[0] = %+v", first)
	}
	if in[0].Duration != "2h 22min" {
		t.Fatalf("input duration changed to %q", in[0].Duration)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, ""},
		{45, "45min"},
		{60, "1h"},
		{142, "2h 22min"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.in, got, tt.want)
		}
		if tt.in > 0 && DurationMinutes(tt.want) != tt.in {
			t.Errorf("DurationMinutes(FormatDuration(%d)) = %d", tt.in, DurationMinutes(tt.want))
		}
	}
}

func TestBestYearAvg(t *testing.T) {
	tests := []struct {
		name   string
		movies []Movie
		want   mo.Option[string]
	}{
		{name: "empty", movies: nil, want: mo.None[string]()},
		{
			name:   "whole average",
			movies: []Movie{{Year: 2000, Score: score(5)}, {Year: 2001, Score: score(9)}},
			want:   mo.Some("The best year was 2001 with an average score of 9"),
		},
		{
			name:   "fractional average",
			movies: []Movie{{Year: 1990, Score: score(8)}, {Year: 1990, Score: score(8.5)}, {Year: 1991, Score: score(7)}},
			want:   mo.Some("The best year was 1990 with an average score of 8.3"),
		},
		{
			name:   "tie goes to smaller year",
			movies: []Movie{{Year: 2010, Score: score(8)}, {Year: 2005, Score: score(8)}},
			want:   mo.Some("The best year was 2005 with an average score of 8"),
		},
		{
			name:   "rounds the stored value",
			movies: []Movie{{Year: 1999, Score: score(1.45)}},
			want:   mo.Some("The best year was 1999 with an average score of 1.4"),
		},
		{
			name:   "all zero still names a year",
			movies: []Movie{{Year: 1980}, {Year: 1970}},
			want:   mo.Some("The best year was 1970 with an average score of 0"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BestYearAvg(tt.movies); got != tt.want {
				t.Fatalf("BestYearAvg() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStats(t *testing.T) {
	stats := Stats(sample())
	if stats.TotalMovies != 6 || stats.SpielbergDramas != 2 {
		t.Fatalf("Stats() = %+v", stats)
	}
	if stats.FirstYear != 1993 || stats.LastYear != 2001 {
		t.Fatalf("year range = %d-%d", stats.FirstYear, stats.LastYear)
	}
	if stats.BestYear == nil || *stats.BestYear != "The best year was 1994 with an average score of 9.3" {
		t.Fatalf("BestYear = %v", stats.BestYear)
	}
	if top := stats.GenreDistribution[0]; top.Genre != Drama || top.Count != 4 {
		t.Fatalf("top genre = %+v", top)
	}

	empty := Stats(nil)
	if empty.BestYear != nil || empty.TotalMovies != 0 || empty.FirstYear != 0 {
		t.Fatalf("Stats(nil) = %+v", empty)
	}
}
