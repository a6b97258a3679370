package db

import (
	"feedhub/models"

	log "github.com/sirupsen/logrus"
)

// migrate brings decoded feeds up to the current invariants. Older files may
// carry null image urls, no language, entries without guid, or more entries
// than the configured bound.
func migrate(feeds map[string]*models.Feed, maxEntries int, newID func() string) map[string]*models.Feed {
	out := make(map[string]*models.Feed, len(feeds))

	for key, feed := range feeds {
		if feed == nil {
			log.WithFields(log.Fields{"feedId": key}).Warn("Skipping empty feed record")
			continue
		}

		if feed.FeedID != key {
			if feed.FeedID != "" {
				log.WithFields(log.Fields{
					"key":    key,
					"feedId": feed.FeedID,
				}).Warn("Feed id does not match its key, using the key")
			}
			feed.FeedID = key
		}

		if feed.Language == "" {
			feed.Language = models.DefaultLanguage
		}

		if feed.Entries == nil {
			feed.Entries = []models.Entry{}
		}

		for i := range feed.Entries {
			if feed.Entries[i].GUID == "" {
				feed.Entries[i].GUID = newID()
			}
		}

		if maxEntries > 0 && len(feed.Entries) > maxEntries {
			log.WithFields(log.Fields{
				"feedId":  key,
				"entries": len(feed.Entries),
				"max":     maxEntries,
			}).Warn("Truncating feed to the configured entry limit")
			feed.Entries = feed.Entries[:maxEntries]
		}

		out[key] = feed
	}

	return out
}
