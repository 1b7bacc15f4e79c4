// Package movies computes statistics and transformations over an in-memory
// list of movie records. Every function is pure: it reads its argument, never
// modifies it, and returns freshly allocated results.
package movies

import (
	"slices"

	"github.com/samber/mo"
)

// Movie is a single catalogue entry as supplied by a data source.
type Movie struct {
	Title    string             `json:"title"`
	Year     int                `json:"year"`
	Director string             `json:"director"`
	Duration string             `json:"duration"`
	Genre    []string           `json:"genre"`
	Score    mo.Option[float64] `json:"score"`
}

// TimedMovie is a Movie whose duration has been converted to total minutes.
type TimedMovie struct {
	Title    string             `json:"title"`
	Year     int                `json:"year"`
	Director string             `json:"director"`
	Duration int                `json:"duration"`
	Genre    []string           `json:"genre"`
	Score    mo.Option[float64] `json:"score"`
}

// GetTitle returns the movie title.
func (m Movie) GetTitle() string {
	return m.Title
}

// HasGenre reports whether genre is one of the movie's genres. The match is
// exact and case-sensitive.
func (m Movie) HasGenre(genre string) bool {
	return slices.Contains(m.Genre, genre)
}

// ScoreOrZero returns the score, or 0 when the movie has none.
func (m Movie) ScoreOrZero() float64 {
	return m.Score.OrElse(0)
}

// Clone returns a deep copy so callers can never reach the original genre slice.
func (m Movie) Clone() Movie {
	m.Genre = slices.Clone(m.Genre)
	return m
}

func cloneAll(ms []Movie) []Movie {
	if ms == nil {
		return nil
	}
	out := make([]Movie, len(ms))
	for i, m := range ms {
		out[i] = m.Clone()
	}
	return out
}
