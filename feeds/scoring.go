package feeds

import (
	"slices"
	"time"

	"feedhub/dates"
	"feedhub/models"
)

// SortByRecency orders entries by publication date, newest first. Entries with
// equal dates keep their relative order. Dates that do not parse count as now.
func SortByRecency(entries []models.Entry, now time.Time) {
	keys := make(map[string]time.Time, len(entries))
	for _, e := range entries {
		if _, ok := keys[e.PubDate]; !ok {
			keys[e.PubDate] = dates.NormalizeAt(e.PubDate, now)
		}
	}

	slices.SortStableFunc(entries, func(a, b models.Entry) int {
		return keys[b.PubDate].Compare(keys[a.PubDate])
	})
}
