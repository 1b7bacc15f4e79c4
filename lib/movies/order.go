package movies

import (
	"cmp"
	"slices"

	"github.com/samber/lo"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// TitleLimit caps the number of titles OrderAlphabetically returns.
const TitleLimit = 20

// newCollator builds the title collator. A Collator holds iteration state, so
// each call gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.English)
}

// OrderByYear returns a copy of ms sorted by ascending year, with movies from
// the same year ordered by title.
func OrderByYear(ms []Movie) []Movie {
	c := newCollator()
	out := cloneAll(ms)
	slices.SortStableFunc(out, func(a, b Movie) int {
		if n := cmp.Compare(a.Year, b.Year); n != 0 {
			return n
		}
		return c.CompareString(a.Title, b.Title)
	})
	return out
}

// OrderAlphabetically returns the first TitleLimit titles in collation order.
func OrderAlphabetically(ms []Movie) []string {
	c := newCollator()
	titles := lo.Map(ms, func(m Movie, _ int) string {
		return m.Title
	})
	slices.SortStableFunc(titles, c.CompareString)
	return lo.Subset(titles, 0, TitleLimit)
}
