package movies

import "github.com/samber/lo"

const (
	// Spielberg is the director HowManyMovies counts.
	Spielberg = "Steven Spielberg"
	// Drama is the genre HowManyMovies and DramaMoviesScore filter on.
	Drama = "Drama"
)

// AllDirectors returns the director of every movie, keeping order and duplicates.
func AllDirectors(ms []Movie) []string {
	return lo.Map(ms, func(m Movie, _ int) string {
		return m.Director
	})
}

// UniqueDirectors returns AllDirectors without duplicates, in first-occurrence order.
func UniqueDirectors(ms []Movie) []string {
	return lo.Uniq(AllDirectors(ms))
}

// HowManyMovies counts the drama movies directed by Steven Spielberg.
func HowManyMovies(ms []Movie) int {
	return CountByDirectorAndGenre(ms, Spielberg, Drama)
}

// CountByDirectorAndGenre counts movies by director that list genre.
// Both comparisons are exact.
func CountByDirectorAndGenre(ms []Movie, director, genre string) int {
	return lo.CountBy(ms, func(m Movie) bool {
		return m.Director == director && m.HasGenre(genre)
	})
}
