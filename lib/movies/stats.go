package movies

import (
	"cmp"
	"slices"

	"github.com/icco/moviestats/lib/types"
	"github.com/samber/lo"
)

// Stats runs every catalogue statistic over ms.
func Stats(ms []Movie) types.StatsData {
	stats := types.StatsData{
		TotalMovies:       len(ms),
		Directors:         AllDirectors(ms),
		UniqueDirectors:   UniqueDirectors(ms),
		SpielbergDramas:   HowManyMovies(ms),
		ScoresAverage:     ScoresAverage(ms),
		DramaScore:        DramaMoviesScore(ms),
		BestYear:          BestYearAvg(ms).ToPointer(),
		FirstTitles:       OrderAlphabetically(ms),
		GenreDistribution: GenreDistribution(ms),
	}
	if len(ms) > 0 {
		years := lo.Map(ms, func(m Movie, _ int) int { return m.Year })
		stats.FirstYear = slices.Min(years)
		stats.LastYear = slices.Max(years)
	}
	return stats
}

// GenreDistribution counts movies per genre, most frequent first. A movie
// listing a genre twice is counted once for it.
func GenreDistribution(ms []Movie) []types.GenreCount {
	counts := make(map[string]int)
	for _, m := range ms {
		for _, g := range lo.Uniq(m.Genre) {
			counts[g]++
		}
	}
	out := make([]types.GenreCount, 0, len(counts))
	for genre, n := range counts {
		out = append(out, types.GenreCount{Genre: genre, Count: n})
	}
	slices.SortFunc(out, func(a, b types.GenreCount) int {
		if n := cmp.Compare(b.Count, a.Count); n != 0 {
			return n
		}
		return cmp.Compare(a.Genre, b.Genre)
	})
	return out
}
