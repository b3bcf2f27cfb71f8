package application

import (
	"sort"

	"github.com/thangld/vnmarket/internal/domain"
)

// sortPointsByDate orders price points ascending by calendar date. Dates are
// fixed-width YYYY-MM-DD strings, so lexicographic order is date order.
func sortPointsByDate(points []domain.PricePoint) {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})
}

// withinRange reports whether date falls in [start, end], compared as
// calendar dates.
func withinRange(date, start, end string) bool {
	return date >= start && date <= end
}
