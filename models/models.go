package models

import "time"

// DefaultLanguage is used for feeds created without a language.
const DefaultLanguage = "en-US"

// Entry is a single syndication item. Entries are never edited after they are
// appended; the store only drops them.
type Entry struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
	PubDate     string `json:"pubDate"`
	GUID        string `json:"guid"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Feed is a named, newest-first list of entries
type Feed struct {
	FeedID      string  `json:"feedId"`
	Title       string  `json:"title"`
	Link        string  `json:"link"`
	Description string  `json:"description"`
	Language    string  `json:"language"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Entries     []Entry `json:"entries"`
}

// AppendEntry puts entry at the head of the feed and truncates the tail so at
// most maxEntries remain. It returns how many entries were dropped.
// A maxEntries of zero or less leaves the feed unbounded.
func (f *Feed) AppendEntry(entry Entry, maxEntries int) int {
	entries := make([]Entry, 0, len(f.Entries)+1)
	entries = append(entries, entry)
	entries = append(entries, f.Entries...)

	dropped := 0
	if maxEntries > 0 && len(entries) > maxEntries {
		dropped = len(entries) - maxEntries
		entries = entries[:maxEntries]
	}
	f.Entries = entries
	return dropped
}

// HasGUID reports whether an entry with guid is already in the feed.
func (f *Feed) HasGUID(guid string) bool {
	for _, e := range f.Entries {
		if e.GUID == guid {
			return true
		}
	}
	return false
}

// Clone returns a deep copy that shares no memory with f.
func (f Feed) Clone() Feed {
	c := f
	c.Entries = make([]Entry, len(f.Entries))
	copy(c.Entries, f.Entries)
	return c
}

// EntrySpec holds what a caller supplies to append an entry.
// GUID is generated when empty.
type EntrySpec struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
	PubDate     string `json:"pubDate"`
	GUID        string `json:"guid,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// FeedSpec holds what a caller supplies to create a feed.
type FeedSpec struct {
	FeedID      string      `json:"feedId,omitempty"`
	Title       string      `json:"title"`
	Link        string      `json:"link"`
	Description string      `json:"description"`
	Language    string      `json:"language,omitempty"`
	ImageURL    string      `json:"imageUrl,omitempty"`
	Entries     []EntrySpec `json:"entries,omitempty"`
}

// EntryEvent fired when an entry is appended to a feed
type EntryEvent struct {
	FeedID    string    `json:"feedId"`
	FeedTitle string    `json:"feedTitle"`
	Entry     Entry     `json:"entry"`
	AddedAt   time.Time `json:"addedAt"`
}

// Status describes the store and the configuration it runs with.
type Status struct {
	Status            string `json:"status"`
	FeedsCount        int    `json:"feeds_count"`
	EntriesCount      int    `json:"entries_count"`
	HistoryDays       int    `json:"history_days"`
	MaxEntriesPerFeed int    `json:"max_entries_per_feed"`
	StorageFile       string `json:"storage_file"`
	AggregateTitle    string `json:"aggregate_title"`
	LastSaveError     string `json:"last_save_error,omitempty"`
}

type FeedListResponse struct {
	Count int    `json:"count"`
	Feeds []Feed `json:"feeds"`
}

type SearchResponse struct {
	Count int               `json:"count"`
	Query map[string]string `json:"query"`
	Feeds []Feed            `json:"feeds"`
}

type CreateFeedResponse struct {
	Message string `json:"message"`
	FeedID  string `json:"feedId"`
}

type AddEntryResponse struct {
	Message string `json:"message"`
	EntryID string `json:"entryId"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
