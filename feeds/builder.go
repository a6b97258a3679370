package feeds

import (
	"fmt"
	"time"

	"feedhub/models"
)

// AggregateBuilder merges entries from several feeds into one synthetic feed
type AggregateBuilder struct {
	meta    Metadata
	entries []models.Entry
	now     func() time.Time
}

func NewAggregateBuilder(meta Metadata) *AggregateBuilder {
	return &AggregateBuilder{
		meta:    meta,
		entries: make([]models.Entry, 0),
		now:     time.Now,
	}
}

// AddFeed copies every entry of feed, prefixing titles with the feed title in
// brackets so readers can tell the sources apart.
func (b *AggregateBuilder) AddFeed(feed models.Feed) *AggregateBuilder {
	for _, entry := range feed.Entries {
		entry.Title = fmt.Sprintf("[%s] %s", feed.Title, entry.Title)
		b.entries = append(b.entries, entry)
	}
	return b
}

// Build returns the aggregate feed with entries sorted newest first.
func (b *AggregateBuilder) Build() models.Feed {
	entries := make([]models.Entry, len(b.entries))
	copy(entries, b.entries)
	SortByRecency(entries, b.now())

	language := b.meta.Language
	if language == "" {
		language = models.DefaultLanguage
	}

	return models.Feed{
		Title:       b.meta.Title,
		Link:        b.meta.Link,
		Description: b.meta.Description,
		Language:    language,
		Entries:     entries,
	}
}

// Aggregate merges feeds into one feed described by meta.
func Aggregate(meta Metadata, feeds []models.Feed) models.Feed {
	b := NewAggregateBuilder(meta)
	for _, feed := range feeds {
		b.AddFeed(feed)
	}
	return b.Build()
}
