package db

import (
	"fmt"
	"strings"

	"feedhub/models"

	log "github.com/sirupsen/logrus"
)

// CreateFeed stores a new feed built from spec and returns its id. Initial
// entries are appended in the given order, so the last one ends up first.
// A failed save is logged but the feed stays in memory.
func (s *Store) CreateFeed(spec models.FeedSpec) (string, error) {
	if err := validateFeed(spec); err != nil {
		return "", err
	}

	feedID := strings.TrimSpace(spec.FeedID)
	if feedID == "" {
		feedID = s.newID()
	}

	language := spec.Language
	if language == "" {
		language = models.DefaultLanguage
	}

	feed := &models.Feed{
		FeedID:      feedID,
		Title:       spec.Title,
		Link:        spec.Link,
		Description: spec.Description,
		Language:    language,
		ImageURL:    spec.ImageURL,
		Entries:     []models.Entry{},
	}

	truncated := 0
	for _, entrySpec := range spec.Entries {
		entry := s.newEntry(entrySpec)
		if feed.HasGUID(entry.GUID) {
			return "", fmt.Errorf("%w: %s", ErrDuplicateGUID, entry.GUID)
		}
		truncated += feed.AppendEntry(entry, s.config.MaxEntriesPerFeed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.feeds[feedID]; exists {
		return "", fmt.Errorf("%w: %s", ErrDuplicateFeed, feedID)
	}

	s.feeds[feedID] = feed
	entriesAppended.Add(float64(len(spec.Entries)))
	entriesTruncated.Add(float64(truncated))
	s.updateGauges()

	log.WithFields(log.Fields{
		"feedId":  feedID,
		"title":   feed.Title,
		"entries": len(feed.Entries),
	}).Info("Created feed")

	_ = s.save()
	return feedID, nil
}

// DeleteFeed removes a feed and reports whether it existed.
func (s *Store) DeleteFeed(feedID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.feeds[feedID]; !ok {
		return false
	}

	delete(s.feeds, feedID)
	s.updateGauges()

	log.WithFields(log.Fields{
		"feedId": feedID,
	}).Info("Deleted feed")

	_ = s.save()
	return true
}

// AppendEntry adds an entry to the head of a feed. The boolean is false when
// the feed does not exist. The returned entry carries the generated guid.
func (s *Store) AppendEntry(feedID string, spec models.EntrySpec) (models.Entry, bool, error) {
	s.mu.Lock()

	feed, ok := s.feeds[feedID]
	if !ok {
		s.mu.Unlock()
		return models.Entry{}, false, nil
	}

	if err := validateEntry(spec); err != nil {
		s.mu.Unlock()
		return models.Entry{}, true, err
	}

	entry := s.newEntry(spec)
	if feed.HasGUID(entry.GUID) {
		s.mu.Unlock()
		return models.Entry{}, true, fmt.Errorf("%w: %s", ErrDuplicateGUID, entry.GUID)
	}

	truncated := feed.AppendEntry(entry, s.config.MaxEntriesPerFeed)
	entriesAppended.Inc()
	entriesTruncated.Add(float64(truncated))
	s.updateGauges()

	log.WithFields(log.Fields{
		"feedId":    feedID,
		"guid":      entry.GUID,
		"truncated": truncated,
	}).Info("Appended entry")

	_ = s.save()

	event := models.EntryEvent{
		FeedID:    feed.FeedID,
		FeedTitle: feed.Title,
		Entry:     entry,
		AddedAt:   s.now().UTC(),
	}
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		listener.EntryAdded(event)
	}

	return entry, true, nil
}

func (s *Store) newEntry(spec models.EntrySpec) models.Entry {
	guid := strings.TrimSpace(spec.GUID)
	if guid == "" {
		guid = s.newID()
	}
	return models.Entry{
		Title:       spec.Title,
		Link:        spec.Link,
		Description: spec.Description,
		PubDate:     spec.PubDate,
		GUID:        guid,
		ImageURL:    spec.ImageURL,
	}
}

func validateFeed(spec models.FeedSpec) error {
	for _, field := range []struct{ name, value string }{
		{"title", spec.Title},
		{"link", spec.Link},
		{"description", spec.Description},
	} {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidFeed, field.name)
		}
	}

	for i, entry := range spec.Entries {
		if err := validateEntry(entry); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return nil
}

func validateEntry(spec models.EntrySpec) error {
	for _, field := range []struct{ name, value string }{
		{"title", spec.Title},
		{"link", spec.Link},
		{"description", spec.Description},
		{"pubDate", spec.PubDate},
	} {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidEntry, field.name)
		}
	}
	return nil
}
