package links

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/nortreport/internal/config"
)

// Report counts what normalization kept, dropped and repaired. Output is unaffected;
// the counts only feed logs and metrics.
type Report struct {
	Input              int
	Kept               int
	MissingTitle       int
	MissingURL         int
	TimestampFallbacks int
	UnknownLane        int
	PriorityCoerced    int
}

// Dropped is the number of entries excluded for a missing title or URL.
func (r Report) Dropped() int { return r.MissingTitle + r.MissingURL }

// Normalize validates and canonicalises raw entries. Entries whose title or URL is
// empty after trimming are excluded. buildTime replaces missing or unparseable
// added_at values.
func Normalize(raw []config.RawLink, buildTime time.Time) ([]Entry, Report) {
	report := Report{Input: len(raw)}
	out := make([]Entry, 0, len(raw))
	for _, r := range raw {
		rawTitle := strings.TrimSpace(r.Title)
		title := norm.NFC.String(rawTitle)
		url := strings.TrimSpace(r.URL)
		if title == "" {
			report.MissingTitle++
			continue
		}
		if url == "" {
			report.MissingURL++
			continue
		}

		lane, known := ParseLane(r.Lane)
		if !known {
			report.UnknownLane++
		}
		if r.Priority.Set && !r.Priority.Valid {
			report.PriorityCoerced++
		}
		addedAt, ok := ParseTimestamp(r.AddedAt, buildTime)
		if !ok {
			report.TimestampFallbacks++
		}

		id := strings.TrimSpace(r.ID)
		if id == "" {
			// Hash the title as written so ids match feeds published before NFC folding.
			id = DeriveID(url, rawTitle)
		}

		out = append(out, Entry{
			ID:       id,
			Title:    title,
			URL:      url,
			Lane:     lane,
			Priority: r.Priority.Value,
			Source:   strings.TrimSpace(r.Source),
			AddedAt:  addedAt,
		})
	}
	report.Kept = len(out)
	return out, report
}
