package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/nortreport/internal/config"
	"git.home.luguber.info/inful/nortreport/internal/links"
)

var buildTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func site(count int) config.SiteConfig {
	return config.SiteConfig{
		Title:    "NORT REPORT",
		SiteURL:  "https://example.com/",
		RSSCount: count,
		Location: time.UTC,
	}
}

func sample() []links.Entry {
	return []links.Entry{
		{ID: "old3", Title: "Older three", URL: "https://a.example", Priority: 3, AddedAt: buildTime.Add(-2 * time.Hour)},
		{ID: "five", Title: "Five", URL: "https://b.example", Priority: 5, AddedAt: buildTime.Add(-5 * time.Hour)},
		{ID: "new3", Title: "Newer three", URL: "https://c.example", Priority: 3, AddedAt: buildTime.Add(-time.Hour)},
	}
}

func TestSelect(t *testing.T) {
	in := sample()
	got := Select(in, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "five", got[0].ID)
	assert.Equal(t, "new3", got[1].ID)
	assert.Equal(t, "old3", in[0].ID, "input order must be untouched")

	assert.Len(t, Select(in, 30), 3)
	assert.Empty(t, Select(in, 0))
}

func TestBuildParsesAsRSS(t *testing.T) {
	out, err := Build(site(2), sample(), buildTime)
	require.NoError(t, err)

	parsed, err := gofeed.NewParser().ParseString(string(out))
	require.NoError(t, err)

	assert.Equal(t, "rss", parsed.FeedType)
	assert.Equal(t, "2.0", parsed.FeedVersion)
	assert.Equal(t, "NORT REPORT", parsed.Title)
	assert.Equal(t, "https://example.com", parsed.Link)
	require.Len(t, parsed.Items, 2)
	assert.Equal(t, "Five", parsed.Items[0].Title)
	assert.Equal(t, "five", parsed.Items[0].GUID)
	assert.Equal(t, "https://b.example", parsed.Items[0].Link)
	require.NotNil(t, parsed.Items[0].PublishedParsed)
	assert.True(t, buildTime.Add(-5*time.Hour).Equal(*parsed.Items[0].PublishedParsed))
	assert.Equal(t, "new3", parsed.Items[1].GUID)
}

func TestBuildShape(t *testing.T) {
	out, err := Build(site(30), sample(), buildTime)
	require.NoError(t, err)
	s := string(out)

	assert.True(t, strings.HasPrefix(s, `<?xml version="1.0" encoding="UTF-8"?>`+"\n"+`<rss version="2.0">`))
	assert.Contains(t, s, `<guid isPermaLink="false">five</guid>`)
	assert.Contains(t, s, "<pubDate>Sat, 01 Jun 2024 07:00:00 GMT</pubDate>")
	assert.Contains(t, s, "<lastBuildDate>Sat, 01 Jun 2024 12:00:00 GMT</lastBuildDate>")
	assert.Contains(t, s, "<description>NORT REPORT — latest curation</description>")
}

func TestBuildEscapes(t *testing.T) {
	entries := []links.Entry{{ID: "x", Title: "Q&A <live>", URL: "https://e.example/?a=1&b=2", AddedAt: buildTime}}
	out, err := Build(site(30), entries, buildTime)
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "<title>Q&amp;A &lt;live&gt;</title>")
	assert.Contains(t, s, "<link>https://e.example/?a=1&amp;b=2</link>")
}

func TestBuildDeterministic(t *testing.T) {
	a, err := Build(site(30), sample(), buildTime)
	require.NoError(t, err)
	b, err := Build(site(30), sample(), buildTime)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFormatDateConvertsToGMT(t *testing.T) {
	oslo := time.FixedZone("CEST", 2*60*60)
	assert.Equal(t, "Sat, 01 Jun 2024 08:00:00 GMT", FormatDate(time.Date(2024, 6, 1, 10, 0, 0, 0, oslo)))
}

func TestBuildNoLinks(t *testing.T) {
	out, err := Build(site(30), nil, buildTime)
	require.NoError(t, err)
	parsed, err := gofeed.NewParser().ParseString(string(out))
	require.NoError(t, err)
	assert.Empty(t, parsed.Items)
}
