package db

import (
	"context"
	"fmt"
	"time"

	"feedhub/dates"
	"feedhub/models"

	"github.com/cenkalti/backoff/v4"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// TidyConfig controls the background retention loop
type TidyConfig struct {
	// Time between two successful sweeps
	Interval time.Duration

	// Wait after the first failed sweep. Consecutive failures double the
	// wait, up to Interval.
	RetryInterval time.Duration
}

// newRetryBackOff returns the delays used after failed sweeps. It never gives
// up and is reset by the next successful sweep.
func newRetryBackOff(cfg TidyConfig) backoff.BackOff {
	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = cfg.RetryInterval
	retry.MaxInterval = max(cfg.Interval, cfg.RetryInterval)
	retry.Multiplier = 2
	retry.RandomizationFactor = 0
	retry.MaxElapsedTime = 0
	retry.Reset()
	return retry
}

// Tidy removes entries whose publication date is not strictly after
// now minus HistoryDays. Unparsable dates count as now and are kept.
// The storage file is written once when anything was removed.
func (s *Store) Tidy() (int, error) {
	start := time.Now()
	defer func() {
		tidyDuration.Observe(time.Since(start).Seconds())
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cutoff := now.AddDate(0, 0, -s.config.HistoryDays)

	removed := 0
	for _, feed := range s.feeds {
		kept := lo.Filter(feed.Entries, func(e models.Entry, _ int) bool {
			return dates.NormalizeAt(e.PubDate, now).After(cutoff)
		})
		if len(kept) == len(feed.Entries) {
			continue
		}
		removed += len(feed.Entries) - len(kept)
		feed.Entries = kept
	}

	if removed == 0 {
		log.WithFields(log.Fields{
			"cutoff": cutoff.Format(time.RFC3339),
		}).Debug("Nothing to tidy")
		return 0, nil
	}

	entriesExpired.Add(float64(removed))
	s.updateGauges()

	log.WithFields(log.Fields{
		"removed":     removed,
		"cutoff":      cutoff.Format(time.RFC3339),
		"historyDays": s.config.HistoryDays,
	}).Info("Removed expired entries")

	if err := s.save(); err != nil {
		return removed, fmt.Errorf("save after tidy: %w", err)
	}
	return removed, nil
}

// RunTidy sweeps immediately and then every cfg.Interval until ctx is done.
// A failed sweep is logged and retried with a growing delay, see TidyConfig.
func (s *Store) RunTidy(ctx context.Context, cfg TidyConfig) {
	retry := newRetryBackOff(cfg)

	timer := time.NewTimer(0)
	defer timer.Stop()

	log.WithFields(log.Fields{
		"interval":      cfg.Interval,
		"retryInterval": cfg.RetryInterval,
	}).Info("Starting retention loop")

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping retention loop")
			return
		case <-timer.C:
		}

		delay := cfg.Interval
		if err := s.tidyOnce(); err != nil {
			delay = retry.NextBackOff()
			log.WithFields(log.Fields{
				"error": err,
				"retry": delay,
			}).Error("Error tidying feeds")
		} else {
			retry.Reset()
		}

		timer.Reset(delay)
	}
}

// tidyOnce runs one sweep and turns a panic into an error so the loop survives.
func (s *Store) tidyOnce() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tidy panicked: %v", r)
		}
		if err != nil {
			tidyRuns.WithLabelValues("error").Inc()
		} else {
			tidyRuns.WithLabelValues("ok").Inc()
		}
	}()

	_, err = s.Tidy()
	return err
}
