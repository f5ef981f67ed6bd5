package build

import (
	"html/template"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/nortreport/internal/config"
	"git.home.luguber.info/inful/nortreport/internal/feed"
	"git.home.luguber.info/inful/nortreport/internal/links"
	"git.home.luguber.info/inful/nortreport/internal/logfields"
	"git.home.luguber.info/inful/nortreport/internal/metrics"
	"git.home.luguber.info/inful/nortreport/internal/publish"
	"git.home.luguber.info/inful/nortreport/internal/render"
	"git.home.luguber.info/inful/nortreport/internal/sitemap"
)

// Artifact kinds, used as metric labels.
const (
	ArtifactIndex   = "index"
	ArtifactArchive = "archive"
	ArtifactRSS     = "rss"
	ArtifactSitemap = "sitemap"
	ArtifactRobots  = "robots"
)

// Output paths relative to the public directory.
const (
	IndexPath   = "index.html"
	RSSPath     = "rss.xml"
	SitemapPath = "sitemap.xml"
	RobotsPath  = "robots.txt"
)

// Generator renders and writes each artifact for one site.
type Generator struct {
	site      config.SiteConfig
	renderer  *render.Renderer
	writer    *publish.Writer
	recorder  metrics.Recorder
	logger    *slog.Logger
	artifacts map[string]publish.Result
}

// NewGenerator wires a renderer for site to writer.
func NewGenerator(site config.SiteConfig, writer *publish.Writer, recorder metrics.Recorder, logger *slog.Logger) (*Generator, error) {
	r, err := render.New(site)
	if err != nil {
		return nil, err
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		site:      site,
		renderer:  r,
		writer:    writer,
		recorder:  recorder,
		logger:    logger,
		artifacts: map[string]publish.Result{},
	}, nil
}

// Artifacts returns what was done to each path so far.
func (g *Generator) Artifacts() map[string]publish.Result { return g.artifacts }

// BuildFront writes index.html and returns the column HTML for reuse by the archive.
func (g *Generator) BuildFront(entries []links.Entry, now time.Time) (template.HTML, error) {
	columns, err := g.renderer.Columns(entries)
	if err != nil {
		return "", err
	}
	page, err := g.renderer.FrontPage(columns, now)
	if err != nil {
		return "", err
	}
	for lane, n := range laneCounts(entries) {
		g.recorder.SetLaneLinks(string(lane), n)
	}
	return columns, g.write(ArtifactIndex, IndexPath, page)
}

// BuildArchive writes today's snapshot around columns and returns its path.
// A second run on the same site-local date overwrites that day's file.
func (g *Generator) BuildArchive(columns template.HTML, now time.Time) (string, error) {
	page, err := g.renderer.ArchivePage(columns, now)
	if err != nil {
		return "", err
	}
	path := render.ArchivePath(now, g.site.Location)
	return path, g.write(ArtifactArchive, path, page)
}

// BuildRSS writes rss.xml.
func (g *Generator) BuildRSS(entries []links.Entry, now time.Time) error {
	doc, err := feed.Build(g.site, entries, now)
	if err != nil {
		return err
	}
	return g.write(ArtifactRSS, RSSPath, doc)
}

// BuildDiscovery writes sitemap.xml and robots.txt.
func (g *Generator) BuildDiscovery(archivePath string) error {
	base := g.site.BaseURL()
	sm, err := sitemap.Build(base, archivePath)
	if err != nil {
		return err
	}
	if err := g.write(ArtifactSitemap, SitemapPath, sm); err != nil {
		return err
	}
	return g.write(ArtifactRobots, RobotsPath, sitemap.Robots(base))
}

func (g *Generator) write(kind, rel string, data []byte) error {
	res, err := g.writer.WriteIfChanged(rel, data)
	if err != nil {
		return err
	}
	g.artifacts[rel] = res
	label := metrics.WriteWritten
	if res == publish.ResultUnchanged {
		label = metrics.WriteUnchanged
	}
	g.recorder.IncArtifactWrite(kind, label)
	g.logger.Debug("Artifact processed", logfields.Artifact(kind), logfields.Path(rel), slog.String("result", string(res)))
	return nil
}

// laneCounts counts entries per rendered lane; every lane is present.
func laneCounts(entries []links.Entry) map[links.Lane]int {
	counts := make(map[links.Lane]int, len(links.Lanes))
	for _, def := range links.Lanes {
		counts[def.Key] = 0
	}
	for _, e := range entries {
		if _, ok := counts[e.Lane]; ok {
			counts[e.Lane]++
		}
	}
	return counts
}
