package query

import (
	"strings"
	"time"

	"feedhub/dates"
	"feedhub/models"

	"github.com/samber/lo"
)

// TitleFilter keeps entries whose title contains Query, ignoring case
type TitleFilter struct {
	Query string
}

func (f *TitleFilter) ApplyFilter(entries []models.Entry) []models.Entry {
	q := strings.ToLower(f.Query)
	return lo.Filter(entries, func(e models.Entry, _ int) bool {
		return strings.Contains(strings.ToLower(e.Title), q)
	})
}

// DescriptionFilter keeps entries whose description contains Query, ignoring case
type DescriptionFilter struct {
	Query string
}

func (f *DescriptionFilter) ApplyFilter(entries []models.Entry) []models.Entry {
	q := strings.ToLower(f.Query)
	return lo.Filter(entries, func(e models.Entry, _ int) bool {
		return strings.Contains(strings.ToLower(e.Description), q)
	})
}

// FromDateFilter drops entries published before From
type FromDateFilter struct {
	From time.Time
}

func (f *FromDateFilter) ApplyFilter(entries []models.Entry) []models.Entry {
	now := time.Now()
	return lo.Filter(entries, func(e models.Entry, _ int) bool {
		return !dates.NormalizeAt(e.PubDate, now).Before(f.From)
	})
}

// ToDateFilter drops entries published after To
type ToDateFilter struct {
	To time.Time
}

func (f *ToDateFilter) ApplyFilter(entries []models.Entry) []models.Entry {
	now := time.Now()
	return lo.Filter(entries, func(e models.Entry, _ int) bool {
		return !dates.NormalizeAt(e.PubDate, now).After(f.To)
	})
}

// LimitFilter keeps the first Limit entries
type LimitFilter struct {
	Limit int
}

func (f *LimitFilter) ApplyFilter(entries []models.Entry) []models.Entry {
	if f.Limit < 0 || len(entries) <= f.Limit {
		return entries
	}
	return entries[:f.Limit]
}

var _ FilterStrategy = (*TitleFilter)(nil)
var _ FilterStrategy = (*DescriptionFilter)(nil)
var _ FilterStrategy = (*FromDateFilter)(nil)
var _ FilterStrategy = (*ToDateFilter)(nil)
var _ FilterStrategy = (*LimitFilter)(nil)
