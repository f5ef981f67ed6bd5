// Package sitemap emits the auxiliary discovery files: sitemap.xml and robots.txt.
package sitemap

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"git.home.luguber.info/inful/nortreport/internal/foundation/errors"
)

const namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// URLSet is the sitemap root.
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// URL is a single sitemap entry.
type URL struct {
	Loc string `xml:"loc"`
}

// Locations lists exactly the site root, the archive page built this run, and the feed.
func Locations(baseURL, archivePath string) []string {
	return []string{
		baseURL + "/",
		baseURL + "/" + archivePath,
		baseURL + "/rss.xml",
	}
}

// Build renders sitemap.xml for baseURL (no trailing slash).
func Build(baseURL, archivePath string) ([]byte, error) {
	set := URLSet{XMLNS: namespace}
	for _, loc := range Locations(baseURL, archivePath) {
		set.URLs = append(set.URLs, URL{Loc: loc})
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, errors.RenderError("encode sitemap").WithCause(err).Build()
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Robots renders robots.txt: allow everything and point at the sitemap.
func Robots(baseURL string) []byte {
	return fmt.Appendf(nil, "User-agent: *\nAllow: /\nSitemap: %s/sitemap.xml\n", baseURL)
}
