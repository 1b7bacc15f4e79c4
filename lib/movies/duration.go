package movies

import (
	"math"
	"regexp"
	"strconv"

	"github.com/samber/lo"
)

var (
	hoursRegex   = regexp.MustCompile(`(\d+)h`)
	minutesRegex = regexp.MustCompile(`(\d+)min`)
)

// TurnHoursToMinutes returns copies of ms with the duration expressed in minutes.
func TurnHoursToMinutes(ms []Movie) []TimedMovie {
	return lo.Map(ms, func(m Movie, _ int) TimedMovie {
		m = m.Clone()
		return TimedMovie{
			Title:    m.Title,
			Year:     m.Year,
			Director: m.Director,
			Duration: DurationMinutes(m.Duration),
			Genre:    m.Genre,
			Score:    m.Score,
		}
	})
}

// DurationMinutes converts a duration such as "2h 22min" into minutes. The
// hour and minute parts are matched independently and a missing part counts
// as zero, so malformed input yields 0 rather than an error. A duration too
// large for an int is malformed as well.
func DurationMinutes(s string) int {
	h, m := firstNumber(hoursRegex, s), firstNumber(minutesRegex, s)
	if h > (math.MaxInt-m)/60 {
		return 0
	}
	return h*60 + m
}

func firstNumber(re *regexp.Regexp, s string) int {
	match := re.FindStringSubmatch(s)
	if match == nil {
		return 0
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		// only overflow gets here
		return 0
	}
	return n
}

// FormatDuration renders minutes in the "<N>h <M>min" form DurationMinutes reads.
func FormatDuration(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return strconv.Itoa(m) + "min"
	case m == 0:
		return strconv.Itoa(h) + "h"
	default:
		return strconv.Itoa(h) + "h " + strconv.Itoa(m) + "min"
	}
}
