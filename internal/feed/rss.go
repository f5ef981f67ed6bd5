// Package feed builds the RSS 2.0 document for the site.
package feed

import (
	"bytes"
	"encoding/xml"
	"slices"
	"time"

	"git.home.luguber.info/inful/nortreport/internal/config"
	"git.home.luguber.info/inful/nortreport/internal/foundation/errors"
	"git.home.luguber.info/inful/nortreport/internal/links"
)

// DateLayout is the RFC-822 style date used for pubDate and lastBuildDate. Times are converted to UTC.
const DateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

// RSS is the document root.
type RSS struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Channel Channel  `xml:"channel"`
}

type Channel struct {
	Title         string `xml:"title"`
	Link          string `xml:"link"`
	Description   string `xml:"description"`
	LastBuildDate string `xml:"lastBuildDate"`
	Items         []Item `xml:"item"`
}

type Item struct {
	Title   string `xml:"title"`
	Link    string `xml:"link"`
	GUID    GUID   `xml:"guid"`
	PubDate string `xml:"pubDate"`
}

// GUID is always emitted with isPermaLink="false"; its value is the link's stable id,
// which is what feed readers use to de-duplicate across rebuilds.
type GUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// Select returns the top n entries by descending priority then most recent first.
// The input slice is not modified.
func Select(entries []links.Entry, n int) []links.Entry {
	sorted := slices.Clone(entries)
	links.SortForFeed(sorted)
	if n < len(sorted) {
		sorted = sorted[:max(n, 0)]
	}
	return sorted
}

// FormatDate renders t per DateLayout.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// New assembles the feed model. lastBuildDate is always buildTime.
func New(site config.SiteConfig, entries []links.Entry, buildTime time.Time) RSS {
	selected := Select(entries, site.RSSCount)
	items := make([]Item, 0, len(selected))
	for _, e := range selected {
		items = append(items, Item{
			Title:   e.Title,
			Link:    e.URL,
			GUID:    GUID{IsPermaLink: false, Value: e.ID},
			PubDate: FormatDate(e.AddedAt),
		})
	}
	return RSS{
		Version: "2.0",
		Channel: Channel{
			Title:         site.Title,
			Link:          site.BaseURL(),
			Description:   site.Title + " — latest curation",
			LastBuildDate: FormatDate(buildTime),
			Items:         items,
		},
	}
}

// Build renders rss.xml.
func Build(site config.SiteConfig, entries []links.Entry, buildTime time.Time) ([]byte, error) {
	doc := New(site, entries, buildTime)
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, errors.RenderError("encode rss").WithCause(err).Build()
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
