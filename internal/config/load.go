package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/nortreport/internal/foundation/errors"
)

// Load reads and parses the links document at path. Any failure is fatal for the build.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.ConfigError("links document not found").WithContext("path", path).Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "links document unreadable").
			Fatal().WithContext("path", path).Build()
	}
	return Parse(data, path)
}

// Parse decodes a links document. source is only used for error context.
func Parse(data []byte, source string) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.ConfigError("links document is empty").WithContext("path", source).Build()
	}
	var raw document
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "links document malformed").
			Fatal().WithContext("path", source).Build()
	}
	doc := &Document{Links: raw.Links}
	doc.Site, doc.Warnings = resolveSite(raw.Site)
	return doc, nil
}

// resolveSite applies defaults. Problems with individual settings are warnings, never fatal.
func resolveSite(s *siteSection) (SiteConfig, []string) {
	if s == nil {
		s = &siteSection{}
	}
	var warnings []string
	site := SiteConfig{
		Title:    strings.TrimSpace(s.Title),
		SiteURL:  strings.TrimSpace(s.SiteURL),
		RSSCount: DefaultRSSCount,
		Location: time.Local,
		Footer:   DefaultFooter,
	}
	if site.Title == "" {
		site.Title = DefaultTitle
	}
	if site.SiteURL == "" {
		site.SiteURL = DefaultSiteURL
	} else if u, err := url.Parse(site.SiteURL); err != nil || !u.IsAbs() || u.Host == "" {
		warnings = append(warnings, fmt.Sprintf("site.site_url %q is not an absolute URL; feed and sitemap links may be wrong", site.SiteURL))
	}
	if n := s.RSSCount; n.Set {
		switch {
		case !n.Valid:
			warnings = append(warnings, fmt.Sprintf("site.rss_count %q is not a number; using %d", n.Raw, DefaultRSSCount))
		case n.Value < 0:
			warnings = append(warnings, fmt.Sprintf("site.rss_count %d is negative; using %d", n.Value, DefaultRSSCount))
		default:
			site.RSSCount = n.Value
		}
	}
	if tz := strings.TrimSpace(s.Timezone); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			site.Location = loc
		} else {
			warnings = append(warnings, fmt.Sprintf("site.timezone %q unknown; using local time", tz))
		}
	}
	if s.Footer != nil {
		site.Footer = strings.TrimSpace(*s.Footer)
	}
	return site, warnings
}
