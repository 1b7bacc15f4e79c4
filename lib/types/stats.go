package types

// GenreCount is the number of catalogue movies listing a genre.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// StatsData represents statistics about a movie catalogue.
type StatsData struct {
	TotalMovies       int          `json:"total_movies"`
	Directors         []string     `json:"directors"`
	UniqueDirectors   []string     `json:"unique_directors"`
	SpielbergDramas   int          `json:"spielberg_dramas"`
	ScoresAverage     float64      `json:"scores_average"`
	DramaScore        float64      `json:"drama_score"`
	FirstYear         int          `json:"first_year,omitempty"`
	LastYear          int          `json:"last_year,omitempty"`
	BestYear          *string      `json:"best_year"`
	FirstTitles       []string     `json:"first_titles"`
	GenreDistribution []GenreCount `json:"genre_distribution"`
}
