package feeds

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"feedhub/models"
)

const (
	rssVersion    = "2.0"
	enclosureType = "image/jpeg"
	indent        = "  "
)

// ContentType is the media type RSS documents are served with.
const ContentType = "application/xml"

// NewDocument maps a feed onto the RSS element tree.
func NewDocument(feed models.Feed) Document {
	channel := Channel{
		Title:       feed.Title,
		Link:        feed.Link,
		Description: feed.Description,
		Language:    feed.Language,
		Items:       make([]Item, 0, len(feed.Entries)),
	}

	if feed.ImageURL != "" {
		channel.Image = &Image{
			URL:   feed.ImageURL,
			Title: feed.Title,
			Link:  feed.Link,
		}
	}

	for _, entry := range feed.Entries {
		item := Item{
			Title:       entry.Title,
			Link:        entry.Link,
			Description: entry.Description,
			PubDate:     entry.PubDate,
			GUID:        GUID{IsPermaLink: "false", Value: entry.GUID},
		}
		if entry.ImageURL != "" {
			item.Enclosure = &Enclosure{URL: entry.ImageURL, Type: enclosureType}
		}
		channel.Items = append(channel.Items, item)
	}

	return Document{Version: rssVersion, Channel: channel}
}

// Render serializes feed as an indented RSS 2.0 document. The output depends
// only on the feed value, so rendering the same feed twice gives the same bytes.
func Render(feed models.Feed) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", indent)
	if err := enc.Encode(NewDocument(feed)); err != nil {
		return nil, fmt.Errorf("encode rss: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode rss: %w", err)
	}
	buf.WriteByte('\n')

	return buf.Bytes(), nil
}
