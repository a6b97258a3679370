package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"feedhub/db"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"
)

// Duration is a time.Duration read from a TOML string such as "24h"
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// TomlStore represents the [store] table
type TomlStore struct {
	Path              string `toml:"path"`
	HistoryDays       int    `toml:"history_days"`
	MaxEntriesPerFeed int    `toml:"max_entries_per_feed"`
	AggregateTitle    string `toml:"aggregate_title"`
}

// TomlTidy represents the [tidy] table
type TomlTidy struct {
	Interval      Duration `toml:"interval"`
	RetryInterval Duration `toml:"retry_interval"`
}

// TomlServer represents the [server] table
type TomlServer struct {
	Host            string   `toml:"host"`
	Port            int      `toml:"port"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// TomlConfig represents the top-level configuration
type TomlConfig struct {
	Store  TomlStore  `toml:"store"`
	Tidy   TomlTidy   `toml:"tidy"`
	Server TomlServer `toml:"server"`
}

// Default returns the configuration used when nothing else is given.
func Default() *TomlConfig {
	return &TomlConfig{
		Store: TomlStore{
			Path:              "feeds.json",
			HistoryDays:       30,
			MaxEntriesPerFeed: 100,
			AggregateTitle:    "All Feeds",
		},
		Tidy: TomlTidy{
			Interval:      Duration{24 * time.Hour},
			RetryInterval: Duration{time.Hour},
		},
		Server: TomlServer{
			Host:            "",
			Port:            5000,
			ShutdownTimeout: Duration{10 * time.Second},
		},
	}
}

// LoadConfig reads the file at path on top of the defaults. Keys missing from
// the file keep their default value.
func LoadConfig(path string) (*TomlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := Default()
	meta, err := toml.Decode(string(data), config)
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	for _, key := range meta.Undecoded() {
		log.WithFields(log.Fields{
			"path": path,
			"key":  key.String(),
		}).Warn("Unknown config key")
	}

	return config, nil
}

// Validate reports every invalid value at once.
func (c *TomlConfig) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Store.Path) == "" {
		errs = append(errs, errors.New("store.path must not be empty"))
	}
	if c.Store.HistoryDays <= 0 {
		errs = append(errs, fmt.Errorf("store.history_days must be positive, got %d", c.Store.HistoryDays))
	}
	if c.Store.MaxEntriesPerFeed <= 0 {
		errs = append(errs, fmt.Errorf("store.max_entries_per_feed must be positive, got %d", c.Store.MaxEntriesPerFeed))
	}
	if c.Tidy.Interval.Duration <= 0 {
		errs = append(errs, fmt.Errorf("tidy.interval must be positive, got %s", c.Tidy.Interval))
	}
	if c.Tidy.RetryInterval.Duration <= 0 {
		errs = append(errs, fmt.Errorf("tidy.retry_interval must be positive, got %s", c.Tidy.RetryInterval))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.ShutdownTimeout.Duration < 0 {
		errs = append(errs, fmt.Errorf("server.shutdown_timeout must not be negative, got %s", c.Server.ShutdownTimeout))
	}
	return errors.Join(errs...)
}

// StoreConfig maps the [store] table to the store's configuration.
func (c *TomlConfig) StoreConfig() db.StoreConfig {
	return db.StoreConfig{
		Path:              c.Store.Path,
		HistoryDays:       c.Store.HistoryDays,
		MaxEntriesPerFeed: c.Store.MaxEntriesPerFeed,
		AggregateTitle:    c.Store.AggregateTitle,
	}
}

// TidyConfig maps the [tidy] table to the retention loop's configuration.
func (c *TomlConfig) TidyConfig() db.TidyConfig {
	return db.TidyConfig{
		Interval:      c.Tidy.Interval.Duration,
		RetryInterval: c.Tidy.RetryInterval.Duration,
	}
}

// Address is the host:port the HTTP server listens on.
func (c *TomlConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
