package db

import (
	"sort"

	"feedhub/models"
	"feedhub/query"

	"github.com/samber/lo"
)

// GetFeed returns a copy of the feed with the given id.
func (s *Store) GetFeed(feedID string) (models.Feed, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	feed, ok := s.feeds[feedID]
	if !ok {
		return models.Feed{}, false
	}
	return feed.Clone(), true
}

// ListFeeds returns copies of all feeds. The order is by feed id, but callers
// should not rely on it.
func (s *Store) ListFeeds() []models.Feed {
	s.mu.RLock()
	defer s.mu.RUnlock()

	feeds := lo.MapToSlice(s.feeds, func(_ string, feed *models.Feed) models.Feed {
		return feed.Clone()
	})
	sort.Slice(feeds, func(i, j int) bool {
		return feeds[i].FeedID < feeds[j].FeedID
	})
	return feeds
}

// FilterFeeds applies criteria to every feed. See query.FilterFeeds.
func (s *Store) FilterFeeds(criteria query.Criteria) []models.Feed {
	return query.FilterFeeds(s.ListFeeds(), criteria)
}

// Status reports counts and the configuration of the store.
func (s *Store) Status() models.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := lo.SumBy(lo.Values(s.feeds), func(feed *models.Feed) int {
		return len(feed.Entries)
	})

	status := models.Status{
		Status:            "online",
		FeedsCount:        len(s.feeds),
		EntriesCount:      entries,
		HistoryDays:       s.config.HistoryDays,
		MaxEntriesPerFeed: s.config.MaxEntriesPerFeed,
		StorageFile:       s.config.Path,
		AggregateTitle:    s.config.AggregateTitle,
	}
	if s.lastSaveErr != nil {
		status.LastSaveError = s.lastSaveErr.Error()
	}
	return status
}
