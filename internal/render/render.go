package render

import (
	"bytes"
	_ "embed"
	"html/template"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"git.home.luguber.info/inful/nortreport/internal/config"
	"git.home.luguber.info/inful/nortreport/internal/foundation/errors"
	"git.home.luguber.info/inful/nortreport/internal/links"
)

//go:embed assets/site.css
var siteCSS string

//go:embed assets/page.html.tmpl
var pageTemplate string

const (
	archiveDateLayout  = "2006-01-02"
	generatedLayout    = "Mon Jan 02, 2006 — 03:04 PM MST"
	leadItemsInTopLane = 3
	// blockedHref replaces links whose scheme can run script; it is html/template's own marker.
	blockedHref = "#ZgotmplZ"
)

var scriptSchemes = []string{"javascript:", "vbscript:", "data:"}

var templates = template.Must(template.New("site").Parse(pageTemplate))

// Renderer turns normalized links into lane fragments and full pages for one site.
type Renderer struct {
	site   config.SiteConfig
	footer template.HTML
}

type laneData struct {
	Label string
	Top   bool
	// Lead is how many leading items get emphasis.
	Lead  int
	Items []laneItem
}

type laneItem struct {
	Title string
	URL   template.URL
}

type pageData struct {
	DocTitle string
	Heading  string
	Subtitle string
	CSS      template.CSS
	Columns  template.HTML
	Archive  bool
	Year     int
	Title    string
	Footer   template.HTML
}

// New prepares a Renderer, converting the footer Markdown once.
func New(site config.SiteConfig) (*Renderer, error) {
	footer, err := inlineMarkdown(site.Footer)
	if err != nil {
		return nil, errors.RenderError("render footer markdown").WithCause(err).Build()
	}
	if site.Location == nil {
		site.Location = time.Local
	}
	return &Renderer{site: site, footer: footer}, nil
}

// Lane renders one column: a heading and an ordered list of anchors with a
// separator between consecutive items. items must already be sorted.
func (r *Renderer) Lane(def links.LaneDef, items []links.Entry) (template.HTML, error) {
	var buf bytes.Buffer
	data := laneData{Label: def.Label, Top: def.Key == links.LaneTop, Items: make([]laneItem, 0, len(items))}
	for _, e := range items {
		data.Items = append(data.Items, laneItem{Title: e.Title, URL: href(e.URL)})
	}
	if data.Top {
		data.Lead = leadItemsInTopLane
	}
	if err := templates.ExecuteTemplate(&buf, "lane", data); err != nil {
		return "", errors.RenderError("render lane").WithCause(err).
			WithContext("lane", string(def.Key)).Build()
	}
	return template.HTML(buf.String()), nil //nolint:gosec // produced by html/template
}

// Columns partitions entries into the rendered lanes and concatenates their fragments.
// The result is shared by the front page and the archive snapshot.
func (r *Renderer) Columns(entries []links.Entry) (template.HTML, error) {
	lanes := links.Partition(entries)
	parts := make([]string, 0, len(links.Lanes))
	for _, def := range links.Lanes {
		frag, err := r.Lane(def, lanes[def.Key])
		if err != nil {
			return "", err
		}
		parts = append(parts, string(frag))
	}
	return template.HTML(strings.Join(parts, "\n")), nil //nolint:gosec // fragments are pre-escaped
}

// FrontPage composes index.html.
func (r *Renderer) FrontPage(columns template.HTML, now time.Time) ([]byte, error) {
	return r.page(pageData{
		DocTitle: r.site.Title,
		Heading:  r.site.Title,
		Columns:  columns,
		Year:     now.In(r.site.Location).Year(),
		Title:    r.site.Title,
		Footer:   r.footer,
	})
}

// ArchivePage composes the dated snapshot around columns rendered for the front page.
func (r *Renderer) ArchivePage(columns template.HTML, now time.Time) ([]byte, error) {
	date := ArchiveDate(now, r.site.Location)
	return r.page(pageData{
		DocTitle: r.site.Title + " — Archive " + date,
		Heading:  r.site.Title + " — archive " + date,
		Subtitle: "snapshot generated " + now.In(r.site.Location).Format(generatedLayout),
		Columns:  columns,
		Archive:  true,
	})
}

func (r *Renderer) page(data pageData) ([]byte, error) {
	data.CSS = template.CSS(siteCSS) //nolint:gosec // embedded asset
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "page", data); err != nil {
		return nil, errors.RenderError("render page").WithCause(err).Build()
	}
	return buf.Bytes(), nil
}

// ArchiveDate is the site-local calendar date of t.
func ArchiveDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(archiveDateLayout)
}

// ArchivePath is the output-relative path of the snapshot for t.
func ArchivePath(t time.Time, loc *time.Location) string {
	return "archive/" + ArchiveDate(t, loc) + ".html"
}

// href lets any scheme through except those a browser would execute. Browsers
// ignore whitespace and control characters inside a scheme, so those are
// stripped before matching.
func href(raw string) template.URL {
	folded := strings.Map(func(r rune) rune {
		if r <= ' ' {
			return -1
		}
		return r
	}, strings.ToLower(raw))
	for _, scheme := range scriptSchemes {
		if strings.HasPrefix(folded, scheme) {
			return blockedHref
		}
	}
	return template.URL(raw) //nolint:gosec // script schemes rejected above
}

// inlineMarkdown converts a short Markdown snippet and unwraps a single paragraph.
func inlineMarkdown(src string) (template.HTML, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	out := strings.TrimSpace(buf.String())
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") && strings.Count(out, "<p>") == 1 {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}
	return template.HTML(out), nil //nolint:gosec // goldmark omits raw HTML by default
}
