package movies

import (
	"fmt"
	"math"
	"strconv"

	"github.com/samber/mo"
)

type yearScore struct {
	sum   float64
	count int
}

func (y yearScore) avg() float64 {
	return y.sum / float64(y.count)
}

// BestYearAvg finds the release year with the highest average score and
// describes it. Ties go to the smaller year string. It returns None for an
// empty list.
func BestYearAvg(ms []Movie) mo.Option[string] {
	year, avg, ok := bestYear(ms)
	if !ok {
		return mo.None[string]()
	}
	return mo.Some(fmt.Sprintf("The best year was %s with an average score of %s", year, formatAverage(avg)))
}

// bestYear returns the winning year as a string together with its unrounded mean.
func bestYear(ms []Movie) (string, float64, bool) {
	byYear := make(map[string]*yearScore)
	for _, m := range ms {
		key := strconv.Itoa(m.Year)
		acc, ok := byYear[key]
		if !ok {
			acc = &yearScore{}
			byYear[key] = acc
		}
		acc.sum += m.ScoreOrZero()
		acc.count++
	}

	var (
		best    string
		bestAvg float64
		found   bool
	)
	for year, acc := range byYear {
		avg := acc.avg()
		if !found || avg > bestAvg || (avg == bestAvg && year < best) {
			best, bestAvg, found = year, avg, true
		}
	}
	return best, bestAvg, found
}

// formatAverage prints whole numbers without decimals and everything else
// rounded to one decimal.
func formatAverage(avg float64) string {
	if avg == math.Trunc(avg) {
		return strconv.FormatFloat(avg, 'f', -1, 64)
	}
	return strconv.FormatFloat(roundTo(avg, 1), 'f', 1, 64)
}
