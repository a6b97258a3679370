package query

import (
	"strconv"
	"strings"
	"time"

	"feedhub/dates"
	"feedhub/models"
)

// FilterStrategy narrows a list of entries
type FilterStrategy interface {
	// ApplyFilter returns the entries that pass, in their original order.
	// The input slice is not modified.
	ApplyFilter(entries []models.Entry) []models.Entry
}

// Criteria are the search parameters understood by the store. Unset fields
// apply no filtering.
type Criteria struct {
	Title        string
	Description  string
	FromDate     *time.Time
	ToDate       *time.Time
	Limit        *int
	IncludeEmpty bool
}

// Query parameter names.
const (
	ParamTitle        = "title"
	ParamDescription  = "description"
	ParamFromDate     = "from_date"
	ParamToDate       = "to_date"
	ParamLimit        = "limit"
	ParamIncludeEmpty = "include_empty"
)

// ParseCriteria builds Criteria from raw query parameters. Dates and limits
// that do not parse are left unset instead of failing the search.
func ParseCriteria(params map[string]string) Criteria {
	var c Criteria

	if v, ok := params[ParamTitle]; ok {
		c.Title = v
	}
	if v, ok := params[ParamDescription]; ok {
		c.Description = v
	}
	if v, ok := params[ParamFromDate]; ok {
		if t, ok := dates.ParseBound(v); ok {
			c.FromDate = &t
		}
	}
	if v, ok := params[ParamToDate]; ok {
		if t, ok := dates.ParseBound(v); ok {
			c.ToDate = &t
		}
	}
	if v, ok := params[ParamLimit]; ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 0 {
			c.Limit = &n
		}
	}
	c.IncludeEmpty = strings.EqualFold(params[ParamIncludeEmpty], "true")

	return c
}

// Strategies returns the filters for c in the order they must run:
// title, description, from date, to date, limit.
func (c Criteria) Strategies() []FilterStrategy {
	var strategies []FilterStrategy
	if c.Title != "" {
		strategies = append(strategies, &TitleFilter{Query: c.Title})
	}
	if c.Description != "" {
		strategies = append(strategies, &DescriptionFilter{Query: c.Description})
	}
	if c.FromDate != nil {
		strategies = append(strategies, &FromDateFilter{From: *c.FromDate})
	}
	if c.ToDate != nil {
		strategies = append(strategies, &ToDateFilter{To: *c.ToDate})
	}
	if c.Limit != nil {
		strategies = append(strategies, &LimitFilter{Limit: *c.Limit})
	}
	return strategies
}
