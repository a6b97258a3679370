// Package query filters feeds by search criteria. Filtering always works on
// copies; the feeds passed in are never modified.
package query

import "feedhub/models"

// Filter returns a copy of feed whose entries passed every criterion.
func Filter(feed models.Feed, criteria Criteria) models.Feed {
	out := feed.Clone()
	for _, strategy := range criteria.Strategies() {
		out.Entries = strategy.ApplyFilter(out.Entries)
	}
	if out.Entries == nil {
		out.Entries = []models.Entry{}
	}
	return out
}

// FilterFeeds filters every feed. Feeds left without entries are dropped
// unless criteria.IncludeEmpty is set.
func FilterFeeds(feeds []models.Feed, criteria Criteria) []models.Feed {
	out := make([]models.Feed, 0, len(feeds))
	for _, feed := range feeds {
		filtered := Filter(feed, criteria)
		if len(filtered.Entries) == 0 && !criteria.IncludeEmpty {
			continue
		}
		out = append(out, filtered)
	}
	return out
}
