package validation

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// yearRegex matches four-digit years.
var yearRegex = regexp.MustCompile(`^\d{4}$`)

// Release years outside this range are rejected as filters.
const (
	MinYear = 1870
	MaxYear = 2100

	maxNameLength = 200
)

// ValidateYear parses a year query parameter and checks it is plausible.
func ValidateYear(year string) (int, error) {
	if !yearRegex.MatchString(year) {
		return 0, fmt.Errorf("invalid year: %q, expected YYYY", year)
	}

	parsed, err := strconv.Atoi(year)
	if err != nil {
		return 0, fmt.Errorf("invalid year: %w", err)
	}

	if parsed < MinYear || parsed > MaxYear {
		return 0, fmt.Errorf("year must be between %d and %d", MinYear, MaxYear)
	}

	return parsed, nil
}

// ValidateName checks a genre or director name taken from a request. The
// value is matched exactly later, so only emptiness and size are checked.
func ValidateName(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s must not be empty", field)
	}
	if !utf8.ValidString(value) {
		return fmt.Errorf("%s must be valid UTF-8", field)
	}
	if len(value) > maxNameLength {
		return fmt.Errorf("%s must be at most %d bytes", field, maxNameLength)
	}
	return nil
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", slog.Any("error", err))
	}
}

// WriteError writes a validation error response to the HTTP response writer.
func WriteError(w http.ResponseWriter, err error, status int) {
	WriteJSON(w, map[string]string{"error": err.Error()}, status)
}
