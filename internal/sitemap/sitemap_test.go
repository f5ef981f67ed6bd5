package sitemap

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	out, err := Build("https://example.com", "archive/2024-06-01.html")
	require.NoError(t, err)

	var set URLSet
	require.NoError(t, xml.Unmarshal(out, &set))
	require.Len(t, set.URLs, 3)
	assert.Equal(t, "https://example.com/", set.URLs[0].Loc)
	assert.Equal(t, "https://example.com/archive/2024-06-01.html", set.URLs[1].Loc)
	assert.Equal(t, "https://example.com/rss.xml", set.URLs[2].Loc)
	assert.Contains(t, string(out), `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
}

func TestRobots(t *testing.T) {
	assert.Equal(t,
		"User-agent: *\nAllow: /\nSitemap: https://example.com/sitemap.xml\n",
		string(Robots("https://example.com")))
}
