package linkgraph

import (
	"context"
	"encoding/json"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"chartspoint/internal/app"
	"chartspoint/internal/content"
	"chartspoint/internal/htmltext"
)

const maxClusterSample = 40

// Source yields rendered pages. *app.Archive satisfies it.
type Source interface {
	Pages(ctx context.Context, fn func(app.ArchivedPage) error) error
}

type ClusterMember struct {
	Path      string    `json:"path"`
	Outbound  int       `json:"outbound"`
	Inbound   int       `json:"inbound"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Cluster groups the articles of one editorial cluster.
type Cluster struct {
	ID            string          `json:"id"`
	Pillar        string          `json:"pillar"`
	Name          string          `json:"name"`
	Size          int             `json:"size"`
	Sample        []ClusterMember `json:"sample"`
	InternalLinks int             `json:"internal_links"`
	ExternalLinks int             `json:"external_links"`
	OldestUpdated time.Time       `json:"oldest_updated_at"`
	NewestUpdated time.Time       `json:"newest_updated_at"`
}

type ClusterLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

type Totals struct {
	Pages    int `json:"pages"`
	Links    int `json:"links"`
	Clusters int `json:"clusters"`
	Orphans  int `json:"orphans"`
}

type Graph struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Totals      Totals        `json:"totals"`
	Clusters    []Cluster     `json:"clusters"`
	Links       []ClusterLink `json:"links"`
	Orphans     []string      `json:"orphans"`
}

type pageRecord struct {
	path     content.ArticlePath
	updated  time.Time
	outbound int
	inbound  int
}

type clusterStats struct {
	pillar        content.PillarSlug
	cluster       string
	members       []ClusterMember
	internalLinks int
	externalLinks int
	oldest        time.Time
	newest        time.Time
}

type clusterPair struct {
	a string
	b string
}

// Exporter builds link graphs of the article pages of one site.
type Exporter struct {
	siteHost string
	now      func() time.Time
}

// NewExporter resolves absolute hrefs against siteURL; links to other hosts
// are ignored.
func NewExporter(siteURL string) *Exporter {
	host := ""
	if u, err := url.Parse(siteURL); err == nil {
		host = u.Host
	}
	return &Exporter{siteHost: host, now: time.Now}
}

// Export reads every page from src, links articles to the articles they
// reference and groups them by editorial cluster. The graph is written to
// outPath when it is non-empty.
func (e *Exporter) Export(ctx context.Context, src Source, outPath string) (Graph, error) {
	type page struct {
		path    content.ArticlePath
		html    string
		updated time.Time
	}

	var pages []page
	known := make(map[string]int)
	err := src.Pages(ctx, func(p app.ArchivedPage) error {
		path, ok := app.ParseArticlePath(p.Path)
		if !ok {
			return nil
		}
		if _, dup := known[path.URL()]; dup {
			return nil
		}
		known[path.URL()] = len(pages)
		pages = append(pages, page{path: path, html: p.HTML, updated: p.UpdatedAt})
		return nil
	})
	if err != nil {
		return Graph{}, err
	}

	records := make([]pageRecord, len(pages))
	var edges []Edge

	for i, p := range pages {
		records[i].path = p.path
		records[i].updated = p.updated

		source := p.path.URL()
		seen := make(map[string]struct{})
		for _, anchor := range htmltext.ExtractLinks(p.html) {
			target, ok := e.resolve(anchor.Href)
			if !ok || target == source {
				continue
			}
			j, ok := known[target]
			if !ok {
				continue
			}
			if _, ok := seen[target]; ok {
				continue
			}
			seen[target] = struct{}{}
			records[i].outbound++
			records[j].inbound++
			edges = append(edges, Edge{Source: source, Target: target})
		}
	}

	statsByCluster := make(map[string]*clusterStats)
	clusterOf := make(map[string]string, len(records))
	var orphans []string

	for _, record := range records {
		id := clusterID(record.path)
		clusterOf[record.path.URL()] = id

		stats := statsByCluster[id]
		if stats == nil {
			stats = &clusterStats{pillar: record.path.Pillar, cluster: record.path.Cluster}
			statsByCluster[id] = stats
		}
		stats.members = append(stats.members, ClusterMember{
			Path:      record.path.URL(),
			Outbound:  record.outbound,
			Inbound:   record.inbound,
			UpdatedAt: record.updated,
		})
		if !record.updated.IsZero() {
			if stats.oldest.IsZero() || record.updated.Before(stats.oldest) {
				stats.oldest = record.updated
			}
			if stats.newest.IsZero() || record.updated.After(stats.newest) {
				stats.newest = record.updated
			}
		}
		if record.inbound == 0 {
			orphans = append(orphans, record.path.URL())
		}
	}

	linkWeights := make(map[clusterPair]int)
	for _, edge := range edges {
		src, dst := clusterOf[edge.Source], clusterOf[edge.Target]
		if src == dst {
			statsByCluster[src].internalLinks++
			continue
		}
		pair := clusterPair{a: src, b: dst}
		if pair.a > pair.b {
			pair.a, pair.b = pair.b, pair.a
		}
		linkWeights[pair]++
		statsByCluster[src].externalLinks++
		statsByCluster[dst].externalLinks++
	}

	ids := make([]string, 0, len(statsByCluster))
	for id := range statsByCluster {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := statsByCluster[ids[i]], statsByCluster[ids[j]]
		if len(a.members) == len(b.members) {
			return ids[i] < ids[j]
		}
		return len(a.members) > len(b.members)
	})

	clusters := make([]Cluster, 0, len(ids))
	for _, id := range ids {
		stats := statsByCluster[id]
		sort.Slice(stats.members, func(i, j int) bool {
			if stats.members[i].Outbound == stats.members[j].Outbound {
				return stats.members[i].Path < stats.members[j].Path
			}
			return stats.members[i].Outbound > stats.members[j].Outbound
		})
		sample := make([]ClusterMember, min(len(stats.members), maxClusterSample))
		copy(sample, stats.members)

		clusters = append(clusters, Cluster{
			ID:            id,
			Pillar:        string(stats.pillar),
			Name:          content.ClusterName(stats.cluster),
			Size:          len(stats.members),
			Sample:        sample,
			InternalLinks: stats.internalLinks,
			ExternalLinks: stats.externalLinks,
			OldestUpdated: stats.oldest,
			NewestUpdated: stats.newest,
		})
	}

	links := make([]ClusterLink, 0, len(linkWeights))
	for pair, weight := range linkWeights {
		links = append(links, ClusterLink{Source: pair.a, Target: pair.b, Weight: weight})
	}
	sort.Slice(links, func(i, j int) bool {
		if links[i].Weight == links[j].Weight {
			if links[i].Source == links[j].Source {
				return links[i].Target < links[j].Target
			}
			return links[i].Source < links[j].Source
		}
		return links[i].Weight > links[j].Weight
	})

	sort.Strings(orphans)
	if orphans == nil {
		orphans = []string{}
	}

	g := Graph{
		GeneratedAt: e.now().UTC(),
		Totals: Totals{
			Pages:    len(records),
			Links:    len(edges),
			Clusters: len(clusters),
			Orphans:  len(orphans),
		},
		Clusters: clusters,
		Links:    links,
		Orphans:  orphans,
	}

	if outPath != "" {
		if err := write(outPath, g); err != nil {
			return Graph{}, err
		}
	}
	return g, nil
}

// resolve turns an href into a normalized article URL.
func (e *Exporter) resolve(href string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if u.Scheme != "" || u.Host != "" {
		if u.Host != e.siteHost {
			return "", false
		}
	} else if !strings.HasPrefix(u.Path, "/") {
		return "", false
	}
	path, ok := app.ParseArticlePath(u.EscapedPath())
	if !ok {
		return "", false
	}
	return path.URL(), true
}

func clusterID(p content.ArticlePath) string {
	return string(p.Pillar) + "/" + p.Cluster
}

// DirSource reads the index.html files of a static build output directory.
type DirSource struct {
	Dir string
}

// Pages walks the directory in lexical order.
func (d DirSource) Pages(ctx context.Context, fn func(app.ArchivedPage) error) error {
	return filepath.WalkDir(d.Dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() || entry.Name() != "index.html" {
			return nil
		}

		rel, err := filepath.Rel(d.Dir, filepath.Dir(path))
		if err != nil {
			return err
		}
		urlPath := "/"
		if rel != "." {
			urlPath = "/" + filepath.ToSlash(rel) + "/"
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		return fn(app.ArchivedPage{
			Path:        urlPath,
			HTML:        string(data),
			ContentHash: app.ContentHash(string(data)),
			UpdatedAt:   info.ModTime().UTC(),
		})
	})
}

func write(outPath string, g Graph) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	return os.WriteFile(outPath, data, 0o644)
}
