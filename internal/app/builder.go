package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"chartspoint/internal/content"
)

// Recorder persists rendered pages between builds.
type Recorder interface {
	Record(ctx context.Context, path, title, html, buildID string) (bool, error)
	Stale(ctx context.Context, buildID string) ([]string, error)
}

// BuildReport summarises a static build.
type BuildReport struct {
	BuildID  string              `json:"buildId"`
	Pages    int                 `json:"pages"`
	Failed   int                 `json:"failed"`
	Changed  []string            `json:"changed,omitempty"`
	Stale    []string            `json:"stale,omitempty"`
	Warnings map[string][]string `json:"warnings,omitempty"`
	Duration time.Duration       `json:"duration"`
}

type buildJob struct {
	path   string
	render func(ctx context.Context) (Rendered, error)
}

// Builder renders every page of the site into a directory.
type Builder struct {
	site        *Site
	outDir      string
	siteURL     string
	staticPages []string
	concurrency int
	archive     Recorder
	logger      *zap.Logger
	newID       func() string
}

// NewBuilder prepares a build into cfg.OutputDir. archive may be nil.
func NewBuilder(site *Site, cfg Config, archive Recorder, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Builder{
		site:        site,
		outDir:      cfg.OutputDir,
		siteURL:     cfg.SiteURL,
		staticPages: cfg.StaticPages,
		concurrency: concurrency,
		archive:     archive,
		logger:      logger.Named("build"),
		newID:       uuid.NewString,
	}
}

// Build renders all pages. Individual page failures are logged and counted;
// only an unreachable article index or a cancelled context fails the build.
func (b *Builder) Build(ctx context.Context) (BuildReport, error) {
	start := time.Now()
	report := BuildReport{BuildID: b.newID(), Warnings: map[string][]string{}}
	log := b.logger.With(zap.String("build_id", report.BuildID))

	paths, err := b.site.RefreshPaths(ctx)
	if err != nil {
		return report, err
	}
	log.Info("article index loaded", zap.Int("articles", len(paths)))

	jobs := b.jobs(ctx, paths)

	var (
		mu      sync.Mutex
		entries []sitemapEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := job.render(gctx)
			if err == nil {
				err = b.write(out.Path, out.HTML)
			}
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.Error("page failed", zap.String("path", job.path), zap.Error(err))
				mu.Lock()
				report.Failed++
				mu.Unlock()
				return nil
			}

			changed := false
			if b.archive != nil {
				changed, err = b.archive.Record(gctx, out.Path, out.Title, string(out.HTML), report.BuildID)
				if err != nil {
					log.Warn("archive record failed", zap.String("path", out.Path), zap.Error(err))
				}
			}

			for _, w := range out.Warnings {
				log.Warn("missing internal link", zap.String("path", out.Path), zap.String("missing", w))
			}

			mu.Lock()
			defer mu.Unlock()
			report.Pages++
			if changed {
				report.Changed = append(report.Changed, out.Path)
			}
			if len(out.Warnings) > 0 {
				report.Warnings[out.Path] = out.Warnings
			}
			if out.Path != notFoundPath {
				entries = append(entries, sitemapEntry{Path: out.Path, Modified: out.Modified})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	sitemap, err := buildSitemap(b.siteURL, entries)
	if err != nil {
		return report, fmt.Errorf("sitemap: %w", err)
	}
	if err := b.write("/sitemap.xml", sitemap); err != nil {
		return report, err
	}
	if err := b.write("/robots.txt", robotsTxt(b.siteURL)); err != nil {
		return report, err
	}

	if b.archive != nil {
		stale, err := b.archive.Stale(ctx, report.BuildID)
		if err != nil {
			log.Warn("stale page lookup failed", zap.Error(err))
		}
		report.Stale = stale
	}

	sort.Strings(report.Changed)
	report.Duration = time.Since(start)
	log.Info("build finished",
		zap.Int("pages", report.Pages),
		zap.Int("failed", report.Failed),
		zap.Int("changed", len(report.Changed)),
		zap.Int("warnings", len(report.Warnings)),
		zap.Duration("duration", report.Duration),
	)
	return report, nil
}

const notFoundPath = "/404.html"

func (b *Builder) jobs(ctx context.Context, paths []content.ArticlePath) []buildJob {
	site := b.site
	jobs := []buildJob{
		{path: "/", render: site.Home},
		{path: notFoundPath, render: func(context.Context) (Rendered, error) { return site.NotFound() }},
	}

	for _, pillar := range content.PillarOrder {
		pillar := pillar
		jobs = append(jobs, buildJob{path: content.PillarURL(pillar), render: func(ctx context.Context) (Rendered, error) {
			return site.Pillar(ctx, string(pillar))
		}})
		for _, cluster := range content.ClustersByPillar(pillar) {
			cluster := cluster
			jobs = append(jobs, buildJob{path: content.ClusterURL(pillar, cluster), render: func(ctx context.Context) (Rendered, error) {
				return site.Cluster(ctx, string(pillar), cluster)
			}})
		}
	}

	for _, p := range paths {
		p := p
		jobs = append(jobs, buildJob{path: p.URL(), render: func(ctx context.Context) (Rendered, error) {
			return site.Article(ctx, p)
		}})
	}

	authors, err := site.cms.AllAuthors(ctx)
	if err != nil {
		b.logger.Warn("author pages skipped", zap.Error(err))
	}
	for _, a := range authors {
		a := a
		if a.Slug == "" {
			continue
		}
		jobs = append(jobs, buildJob{path: AuthorURL(a.Slug), render: func(ctx context.Context) (Rendered, error) {
			return site.Author(ctx, a.Slug)
		}})
	}

	for _, slug := range b.staticPages {
		slug := slug
		jobs = append(jobs, buildJob{path: "/" + slug + "/", render: func(ctx context.Context) (Rendered, error) {
			return site.StaticPage(ctx, slug)
		}})
	}
	return jobs
}

// write stores a page under outDir. Directory paths get an index.html.
func (b *Builder) write(urlPath string, data []byte) error {
	target, err := b.filePath(urlPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	return os.WriteFile(target, data, 0o644)
}

func (b *Builder) filePath(urlPath string) (string, error) {
	decoded, err := url.PathUnescape(urlPath)
	if err != nil {
		return "", fmt.Errorf("bad path %q: %w", urlPath, err)
	}
	for _, segment := range strings.Split(decoded, "/") {
		if segment == ".." {
			return "", errors.New("path escapes output directory: " + urlPath)
		}
	}
	clean := filepath.Clean("/" + filepath.FromSlash(decoded))
	if strings.HasSuffix(decoded, "/") {
		clean = filepath.Join(clean, "index.html")
	}
	return filepath.Join(b.outDir, clean), nil
}
