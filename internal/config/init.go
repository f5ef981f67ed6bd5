package config

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/nortreport/internal/foundation/errors"
)

const exampleDocument = `# nortreport links document
site:
  title: NORT REPORT
  site_url: https://example.com
  rss_count: 30
  # timezone: Europe/Oslo
  footer: one page, no js

links:
  - title: Central bank holds rates steady
    url: https://example.com/markets/rates
    lane: markets-tech
    priority: 5
    source: Example Wire
    added_at: "2024-06-01T08:30:00Z"
  - title: Border talks resume
    url: https://example.com/world/talks
    lane: geopolitics
    priority: 3
  - title: Lead story of the day
    url: https://example.com/lead
    priority: 10
`

// Init writes an example links document to path.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ValidationError("links document already exists (use --force to overwrite)").
			WithContext("path", path).Build()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.FileSystemError("create directory for links document").WithCause(err).
				WithContext("path", dir).Build()
		}
	}
	if err := os.WriteFile(path, []byte(exampleDocument), 0o644); err != nil {
		return errors.FileSystemError("failed to write links document").WithCause(err).
			WithContext("path", path).Build()
	}
	return nil
}
