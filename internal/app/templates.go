package app

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"chartspoint/internal/content"
	"chartspoint/internal/wordpress"
)

// templateFS contains the HTML templates bundled with the binary.
//
//go:embed templates/*
var templateFS embed.FS

// SiteName is the Arabic brand shown in the header and titles.
const SiteName = "تشارتس بوينت"

// page template names; each is parsed together with the layout and cards.
const (
	tmplHome     = "home"
	tmplPillar   = "pillar"
	tmplCluster  = "cluster"
	tmplArticle  = "article"
	tmplAuthor   = "author"
	tmplPage     = "page"
	tmplSearch   = "search"
	tmplNotFound = "notfound"
)

var pageTemplates = []string{tmplHome, tmplPillar, tmplCluster, tmplArticle, tmplAuthor, tmplPage, tmplSearch, tmplNotFound}

// Meta is the head and chrome data shared by every page.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	OGImage     string
	Robots      string
	Schema      template.JS
	Query       string
	Breadcrumbs []content.Breadcrumb
	// Section highlights the active pillar in the navigation.
	Section content.PillarSlug
}

type navItem struct {
	Label  string
	URL    string
	Active bool
}

type siteData struct {
	Name string
	Year int
	Nav  []navItem
}

type pageData struct {
	Site siteData
	Meta Meta
	View any
}

// Renderer executes the embedded page templates.
type Renderer struct {
	siteURL string
	now     func() time.Time
	pages   map[string]*template.Template
}

// NewRenderer parses every page template. siteURL prefixes canonical links.
func NewRenderer(siteURL string) (*Renderer, error) {
	r := &Renderer{
		siteURL: strings.TrimSuffix(siteURL, "/"),
		now:     time.Now,
		pages:   make(map[string]*template.Template, len(pageTemplates)),
	}

	for _, name := range pageTemplates {
		tmpl, err := template.New(name).Funcs(templateFuncs()).ParseFS(templateFS,
			"templates/layout.gohtml",
			"templates/cards.gohtml",
			"templates/"+name+".gohtml",
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render executes the named page inside the layout.
func (r *Renderer) Render(name string, meta Meta, view any) ([]byte, error) {
	tmpl, ok := r.pages[name]
	if !ok {
		return nil, fmt.Errorf("unknown template %q", name)
	}

	if meta.Title == "" {
		meta.Title = SiteName
	} else if !strings.Contains(meta.Title, SiteName) {
		meta.Title = meta.Title + " | " + SiteName
	}
	if strings.HasPrefix(meta.Canonical, "/") {
		meta.Canonical = r.siteURL + meta.Canonical
	}

	data := pageData{
		Site: siteData{Name: SiteName, Year: r.now().Year(), Nav: navigation(meta.Section)},
		Meta: meta,
		View: view,
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func navigation(active content.PillarSlug) []navItem {
	items := make([]navItem, 0, len(content.PillarOrder))
	for _, slug := range content.PillarOrder {
		items = append(items, navItem{
			Label:  content.Pillars[slug].NameAr,
			URL:    content.PillarURL(slug),
			Active: slug == active,
		})
	}
	return items
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"pillarURL":   content.PillarURL,
		"clusterURL":  content.ClusterURL,
		"pillarName":  func(p content.PillarSlug) string { return content.PillarName(string(p)) },
		"clusterName": content.ClusterName,
		"articleURL":  func(a wordpress.Article) string { return a.Path().URL() },
		"arabicDate":  arabicDate,
		// CMS-rendered markup is trusted.
		"safeHTML": func(s string) template.HTML { return template.HTML(s) },
	}
}

var arabicMonths = [...]string{
	"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو",
	"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
}

// arabicDate formats a WordPress timestamp as "2 مارس 2024". Unparseable
// input is returned unchanged.
func arabicDate(raw string) string {
	for _, layout := range []string{"2006-01-02T15:04:05", time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return fmt.Sprintf("%d %s %d", t.Day(), arabicMonths[t.Month()-1], t.Year())
		}
	}
	return raw
}
