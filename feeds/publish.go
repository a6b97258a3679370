package feeds

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
)

const (
	allFeedsDescription = "Combination of all available feeds"
	searchResultsTitle  = "Search Results"
)

// AllFeedsInfo describes the channel that republishes every stored feed.
func AllFeedsInfo(title, link string) Metadata {
	return Metadata{
		Title:       title,
		Link:        link,
		Description: allFeedsDescription,
	}
}

// SearchResultsInfo describes the channel that republishes a search. The
// parameters are listed in key order so the description is stable.
func SearchResultsInfo(link string, params map[string]string) Metadata {
	keys := lo.Keys(params)
	sort.Strings(keys)

	pairs := lo.Map(keys, func(k string, _ int) string {
		return fmt.Sprintf("%s=%s", k, params[k])
	})

	return Metadata{
		Title:       searchResultsTitle,
		Link:        link,
		Description: fmt.Sprintf("Feeds filtered by parameters: %s", strings.Join(pairs, ", ")),
	}
}
