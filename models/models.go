package models

import (
	"strings"

	"github.com/icco/moviestats/lib/movies"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"gorm.io/gorm"
)

// Catalogue sources.
const (
	SourceFile = "file"
	SourcePlex = "plex"
)

type Movie struct {
	gorm.Model
	Title    string `gorm:"not null"`
	Year     int    `gorm:"index"`
	Director string `gorm:"index"`
	Duration string
	Genre    string   // comma separated, in source order
	Score    *float64 // nil when the source has no score
	Source   string   // "file", "plex"
}

// FromRecord builds a row for m coming from source.
func FromRecord(m movies.Movie, source string) Movie {
	return Movie{
		Title:    m.Title,
		Year:     m.Year,
		Director: m.Director,
		Duration: m.Duration,
		Genre:    strings.Join(m.Genre, ", "),
		Score:    m.Score.ToPointer(),
		Source:   source,
	}
}

// Record converts the row back into an analytics record.
func (m Movie) Record() movies.Movie {
	return movies.Movie{
		Title:    m.Title,
		Year:     m.Year,
		Director: m.Director,
		Duration: m.Duration,
		Genre:    splitGenres(m.Genre),
		Score:    mo.PointerToOption(m.Score),
	}
}

func splitGenres(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return lo.Map(strings.Split(s, ","), func(g string, _ int) string {
		return strings.TrimSpace(g)
	})
}
