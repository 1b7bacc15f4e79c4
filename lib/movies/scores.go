package movies

import (
	"math"

	"github.com/ericlagergren/decimal"
	"github.com/samber/lo"
)

// ScoresAverage returns the mean score rounded to two decimals. Movies
// without a score count as 0. An empty list averages to 0.
func ScoresAverage(ms []Movie) float64 {
	if len(ms) == 0 {
		return 0
	}
	total := lo.SumBy(ms, Movie.ScoreOrZero)
	return roundTo(total/float64(len(ms)), 2)
}

// DramaMoviesScore is ScoresAverage restricted to drama movies.
func DramaMoviesScore(ms []Movie) float64 {
	return GenreScore(ms, Drama)
}

// GenreScore is ScoresAverage restricted to movies listing genre.
func GenreScore(ms []Movie, genre string) float64 {
	return ScoresAverage(FilterGenre(ms, genre))
}

// FilterGenre returns copies of the movies that list genre.
func FilterGenre(ms []Movie, genre string) []Movie {
	return lo.FilterMap(ms, func(m Movie, _ int) (Movie, bool) {
		return m.Clone(), m.HasGenre(genre)
	})
}

// FilterYear returns copies of the movies released in year.
func FilterYear(ms []Movie, year int) []Movie {
	return lo.FilterMap(ms, func(m Movie, _ int) (Movie, bool) {
		return m.Clone(), m.Year == year
	})
}

// roundingContext keeps every digit of a converted float64 and breaks ties
// away from zero.
var roundingContext = decimal.Context{
	Precision:    decimal.MaxPrecision,
	RoundingMode: decimal.ToNearestAway,
}

// roundTo rounds the exact binary value of v half away from zero, the way
// Number.prototype.toFixed does, so 0.175 (stored as 0.17499...) gives 0.17.
func roundTo(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	out, _ := decimal.WithContext(roundingContext).SetFloat64(v).Quantize(places).Float64()
	return out
}
