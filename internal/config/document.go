package config

import (
	"math"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the site section omits a value.
const (
	DefaultTitle    = "NORT REPORT"
	DefaultSiteURL  = "https://example.com"
	DefaultRSSCount = 30
	DefaultFooter   = "one page, no js"
)

// Document is the parsed links document: site settings plus raw link entries.
type Document struct {
	Site  SiteConfig
	Links []RawLink
	// Warnings collects recoverable problems found while resolving site settings.
	Warnings []string
}

// SiteConfig is immutable for the duration of one build.
type SiteConfig struct {
	Title    string
	SiteURL  string
	RSSCount int
	Location *time.Location
	// Footer is inline Markdown shown after the copyright line.
	Footer string
}

// BaseURL returns the site URL without trailing slashes.
func (s SiteConfig) BaseURL() string {
	return strings.TrimRight(s.SiteURL, "/")
}

// RawLink is a link entry exactly as written in the document.
type RawLink struct {
	ID       string     `yaml:"id"`
	Title    string     `yaml:"title"`
	URL      string     `yaml:"url"`
	Lane     string     `yaml:"lane"`
	Priority LenientInt `yaml:"priority"`
	Source   string     `yaml:"source"`
	AddedAt  string     `yaml:"added_at"`
}

// LenientInt accepts integers, floats (truncated toward zero) and numeric strings.
// Anything else leaves Value at 0 and Valid false. Set is false when the key is absent.
type LenientInt struct {
	Value int
	Raw   string
	Set   bool
	Valid bool
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *LenientInt) UnmarshalYAML(node *yaml.Node) error {
	*p = LenientInt{Set: true, Raw: node.Value}
	if node.Kind != yaml.ScalarNode {
		return nil
	}
	s := strings.TrimSpace(node.Value)
	if i, err := strconv.Atoi(s); err == nil {
		p.Value, p.Valid = i, true
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) &&
		f <= math.MaxInt32 && f >= math.MinInt32 {
		p.Value, p.Valid = int(f), true
	}
	return nil
}

// document mirrors the on-disk layout; pointers and LenientInt.Set distinguish unset from zero.
type document struct {
	Site  *siteSection `yaml:"site"`
	Links []RawLink    `yaml:"links"`
}

type siteSection struct {
	Title    string     `yaml:"title"`
	SiteURL  string     `yaml:"site_url"`
	RSSCount LenientInt `yaml:"rss_count"`
	Timezone string     `yaml:"timezone"`
	Footer   *string    `yaml:"footer"`
}
