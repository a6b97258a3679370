package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"feedhub/models"

	log "github.com/sirupsen/logrus"
)

// load replaces the in-memory feeds with the content of the storage file.
// Failures are logged and leave the store empty. Must be called with the lock held.
func (s *Store) load() {
	path := s.config.Path

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.WithFields(log.Fields{
			"path": path,
		}).Info("Storage file not found, starting with empty storage")
		s.feeds = make(map[string]*models.Feed)
		return
	}
	if err != nil {
		log.WithFields(log.Fields{
			"path":  path,
			"error": err,
		}).Error("Error reading storage file")
		s.feeds = make(map[string]*models.Feed)
		return
	}

	feeds, err := decodeFeeds(data)
	if err != nil {
		log.WithFields(log.Fields{
			"path":  path,
			"error": err,
		}).Error("Error parsing storage file, starting with empty storage")
		s.feeds = make(map[string]*models.Feed)
		return
	}

	s.feeds = migrate(feeds, s.config.MaxEntriesPerFeed, s.newID)
	log.WithFields(log.Fields{
		"path":  path,
		"feeds": len(s.feeds),
	}).Info("Loaded feeds from storage file")
}

// save writes every feed to the storage file. The error is logged and kept
// for Status; memory is never rolled back. Must be called with the lock held.
func (s *Store) save() error {
	data, err := encodeFeeds(s.feeds)
	if err == nil {
		err = writeFileAtomic(s.config.Path, data)
	}

	if err != nil {
		s.lastSaveErr = err
		storeSaves.WithLabelValues("error").Inc()
		log.WithFields(log.Fields{
			"path":  s.config.Path,
			"error": err,
		}).Error("Error saving feeds")
		return err
	}

	s.lastSaveErr = nil
	storeSaves.WithLabelValues("ok").Inc()
	log.WithFields(log.Fields{
		"path":  s.config.Path,
		"feeds": len(s.feeds),
	}).Debug("Saved feeds")
	return nil
}

func encodeFeeds(feeds map[string]*models.Feed) ([]byte, error) {
	data, err := json.MarshalIndent(feeds, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode feeds: %w", err)
	}
	return data, nil
}

func decodeFeeds(data []byte) (map[string]*models.Feed, error) {
	var feeds map[string]*models.Feed
	if err := json.Unmarshal(data, &feeds); err != nil {
		return nil, fmt.Errorf("decode feeds: %w", err)
	}
	return feeds, nil
}

// writeFileAtomic replaces path with data through a temporary file in the same
// directory, so readers never observe a partially written file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
