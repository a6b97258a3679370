package server

import (
	"feedhub/models"

	"github.com/samber/lo"
)

// Request bodies use pointers so an absent field can be told apart from an
// empty one.

type entryRequest struct {
	Title       *string `json:"title"`
	Link        *string `json:"link"`
	Description *string `json:"description"`
	PubDate     *string `json:"pubDate"`
	GUID        *string `json:"guid"`
	ImageURL    *string `json:"imageUrl"`
}

type feedRequest struct {
	FeedID      *string        `json:"feedId"`
	Title       *string        `json:"title"`
	Link        *string        `json:"link"`
	Description *string        `json:"description"`
	Language    *string        `json:"language"`
	ImageURL    *string        `json:"imageUrl"`
	Entries     []entryRequest `json:"entries"`
}

type field struct {
	name  string
	value *string
}

// firstMissing returns the name of the first absent field, or "" when all are set.
func firstMissing(fields ...field) string {
	missing, ok := lo.Find(fields, func(f field) bool {
		return f.value == nil
	})
	if !ok {
		return ""
	}
	return missing.name
}

func (r entryRequest) missingField() string {
	return firstMissing(
		field{"title", r.Title},
		field{"link", r.Link},
		field{"description", r.Description},
		field{"pubDate", r.PubDate},
	)
}

func (r feedRequest) missingField() string {
	return firstMissing(
		field{"title", r.Title},
		field{"link", r.Link},
		field{"description", r.Description},
	)
}

func (r entryRequest) spec() models.EntrySpec {
	return models.EntrySpec{
		Title:       lo.FromPtr(r.Title),
		Link:        lo.FromPtr(r.Link),
		Description: lo.FromPtr(r.Description),
		PubDate:     lo.FromPtr(r.PubDate),
		GUID:        lo.FromPtr(r.GUID),
		ImageURL:    lo.FromPtr(r.ImageURL),
	}
}

// spec converts the request into a feed spec. Initial entries with a missing
// field are skipped rather than rejected.
func (r feedRequest) spec() models.FeedSpec {
	complete := lo.Filter(r.Entries, func(e entryRequest, _ int) bool {
		return e.missingField() == ""
	})

	return models.FeedSpec{
		FeedID:      lo.FromPtr(r.FeedID),
		Title:       lo.FromPtr(r.Title),
		Link:        lo.FromPtr(r.Link),
		Description: lo.FromPtr(r.Description),
		Language:    lo.FromPtr(r.Language),
		ImageURL:    lo.FromPtr(r.ImageURL),
		Entries: lo.Map(complete, func(e entryRequest, _ int) models.EntrySpec {
			return e.spec()
		}),
	}
}
