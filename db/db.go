// Package db is the feed store. It owns every feed and entry, mirrors them to a
// JSON file on each mutation and expires old entries in the background.
package db

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"feedhub/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Validation errors. All of them match ErrValidation with errors.Is.
var (
	ErrValidation    = errors.New("validation failed")
	ErrInvalidFeed   = fmt.Errorf("%w: invalid feed", ErrValidation)
	ErrInvalidEntry  = fmt.Errorf("%w: invalid entry", ErrValidation)
	ErrDuplicateGUID = fmt.Errorf("%w: duplicate entry guid", ErrValidation)
	ErrDuplicateFeed = fmt.Errorf("%w: duplicate feed id", ErrValidation)
)

// StoreConfig holds the values the store runs with
type StoreConfig struct {
	// Path of the JSON file the feeds are persisted to
	Path string

	// Entries not published within this many days are expired by Tidy
	HistoryDays int

	// Upper bound on entries kept per feed
	MaxEntriesPerFeed int

	// Title of the feed that combines all stored feeds
	AggregateTitle string
}

// Listener is notified about appended entries
type Listener interface {
	EntryAdded(event models.EntryEvent)
}

// Store holds all feeds behind a single lock. The lock is also held while the
// feeds are written to disk, so a save never sees a half-applied mutation.
type Store struct {
	mu          sync.RWMutex
	feeds       map[string]*models.Feed
	config      StoreConfig
	listener    Listener
	lastSaveErr error

	now   func() time.Time
	newID func() string
}

// NewStore creates a store and loads the feeds persisted at config.Path.
// A missing or unreadable file leaves the store empty.
func NewStore(config StoreConfig) *Store {
	s := &Store{
		feeds:  make(map[string]*models.Feed),
		config: config,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}

	s.mu.Lock()
	s.load()
	s.updateGauges()
	s.mu.Unlock()

	log.WithFields(log.Fields{
		"path":        config.Path,
		"feeds":       len(s.feeds),
		"historyDays": config.HistoryDays,
		"maxEntries":  config.MaxEntriesPerFeed,
	}).Info("Feed store ready")

	return s
}

// Config returns the configuration the store was created with.
func (s *Store) Config() StoreConfig {
	return s.config
}

// SetListener registers l to be told about appended entries. Pass nil to stop.
func (s *Store) SetListener(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = l
}

// updateGauges must be called with the lock held.
func (s *Store) updateGauges() {
	entries := 0
	for _, feed := range s.feeds {
		entries += len(feed.Entries)
	}
	feedsGauge.Set(float64(len(s.feeds)))
	entriesGauge.Set(float64(entries))
}
