// Package feeds renders feeds as RSS 2.0 documents and builds aggregate feeds
// out of several stored feeds.
package feeds

import "encoding/xml"

// Document is the root <rss> element
type Document struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Channel Channel  `xml:"channel"`
}

// Channel describes the feed and carries its items
type Channel struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Language    string `xml:"language"`
	Image       *Image `xml:"image,omitempty"`
	Items       []Item `xml:"item"`
}

type Image struct {
	URL   string `xml:"url"`
	Title string `xml:"title"`
	Link  string `xml:"link"`
}

// Item is one entry of the channel
type Item struct {
	Title       string     `xml:"title"`
	Link        string     `xml:"link"`
	Description string     `xml:"description"`
	PubDate     string     `xml:"pubDate"`
	GUID        GUID       `xml:"guid"`
	Enclosure   *Enclosure `xml:"enclosure,omitempty"`
}

type GUID struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// Enclosure references an entry image. The type is always image/jpeg.
type Enclosure struct {
	URL  string `xml:"url,attr"`
	Type string `xml:"type,attr"`
}

// Metadata describes the channel of a synthesized feed
type Metadata struct {
	Title       string
	Link        string
	Description string
	Language    string
}
