package app

import (
	"encoding/xml"
	"sort"
	"strings"
	"time"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	NS      string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapEntry is one page listed in sitemap.xml.
type sitemapEntry struct {
	Path     string
	Modified string
}

// buildSitemap renders entries sorted by path with absolute locations.
func buildSitemap(siteURL string, entries []sitemapEntry) ([]byte, error) {
	sorted := append([]sitemapEntry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	set := urlSet{NS: sitemapNS, URLs: make([]sitemapURL, 0, len(sorted))}
	base := strings.TrimSuffix(siteURL, "/")
	for _, e := range sorted {
		set.URLs = append(set.URLs, sitemapURL{Loc: base + e.Path, LastMod: lastMod(e.Modified)})
	}

	data, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), data...), nil
}

func lastMod(raw string) string {
	for _, layout := range []string{"2006-01-02T15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

func robotsTxt(siteURL string) []byte {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /search\n")
	b.WriteString("Disallow: /api/\n\n")
	b.WriteString("Sitemap: " + strings.TrimSuffix(siteURL, "/") + "/sitemap.xml\n")
	return []byte(b.String())
}
