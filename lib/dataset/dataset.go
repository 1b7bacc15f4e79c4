// Package dataset loads movie lists from JSON or YAML files.
package dataset

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/icco/moviestats/lib/movies"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"gopkg.in/yaml.v3"
)

//go:embed movies.json
var sample []byte

// Format names a supported file encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// record is the on-disk shape of a movie. Score is a pointer so a missing
// score stays distinguishable from zero.
type record struct {
	Title    string   `json:"title" yaml:"title"`
	Year     int      `json:"year" yaml:"year"`
	Director string   `json:"director" yaml:"director"`
	Duration string   `json:"duration" yaml:"duration"`
	Genre    []string `json:"genre" yaml:"genre"`
	Score    *float64 `json:"score" yaml:"score"`
}

func (r record) movie() movies.Movie {
	genre := r.Genre
	if genre == nil {
		genre = []string{}
	}
	return movies.Movie{
		Title:    r.Title,
		Year:     r.Year,
		Director: r.Director,
		Duration: r.Duration,
		Genre:    genre,
		Score:    mo.PointerToOption(r.Score),
	}
}

// Default returns the bundled sample catalogue.
func Default() []movies.Movie {
	ms, err := Parse(sample, JSON)
	if err != nil {
		panic(fmt.Sprintf("embedded dataset is invalid: %v", err))
	}
	return ms
}

// Load reads a dataset file, choosing the decoder from the file extension.
func Load(path string) ([]movies.Movie, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	// #nosec G304 - path comes from operator configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}

	ms, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", path, err)
	}
	return ms, nil
}

// FormatOf maps a file extension to its Format.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("unsupported dataset extension %q", filepath.Ext(path))
	}
}

// Parse decodes a list of movies encoded as format.
func Parse(data []byte, format Format) ([]movies.Movie, error) {
	var records []record
	switch format {
	case JSON:
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	case YAML:
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	return lo.Map(records, func(r record, _ int) movies.Movie {
		return r.movie()
	}), nil
}
