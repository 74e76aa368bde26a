package app

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"chartspoint/internal/candlestick"
	"chartspoint/internal/content"
	"chartspoint/internal/htmltext"
	"chartspoint/internal/wordpress"
)

// ErrNotFound reports a path that has no page behind it.
var ErrNotFound = errors.New("page not found")

// RedirectError reports an article requested under a stale section path.
type RedirectError struct {
	Location string
}

func (e *RedirectError) Error() string {
	return "moved to " + e.Location
}

const (
	homeLatestCount = 12
	maxQueryRunes   = 128
)

// Rendered is a finished HTML page.
type Rendered struct {
	Path     string
	Title    string
	HTML     []byte
	Modified string
	Warnings []string
}

// Content is the subset of the CMS service the site renders from.
type Content interface {
	AllPosts(ctx context.Context, perPage, page int) (wordpress.Paginated[wordpress.Post], error)
	PostsByPillar(ctx context.Context, pillar content.PillarSlug, perPage, page int) (wordpress.Paginated[wordpress.Post], error)
	PostsByCluster(ctx context.Context, cluster string, perPage, page int) (wordpress.Paginated[wordpress.Post], error)
	SearchPosts(ctx context.Context, query string, perPage, page int) (wordpress.Paginated[wordpress.Post], error)
	PostBySlug(ctx context.Context, slug string) (*wordpress.Post, error)
	AllPostPaths(ctx context.Context) ([]content.ArticlePath, error)
	PageBySlug(ctx context.Context, slug string) (*wordpress.Page, error)
	CommentsByPost(ctx context.Context, postID, perPage, page int) (wordpress.Paginated[wordpress.Comment], error)
	RelatedPosts(ctx context.Context, postID int, cluster string, limit int) ([]wordpress.Post, error)
	AuthorBySlug(ctx context.Context, slug string) (*wordpress.Author, error)
	AllAuthors(ctx context.Context) ([]wordpress.AuthorSummary, error)
	ClearCache(key string)
}

// Site turns CMS content into rendered pages.
type Site struct {
	cms       Content
	renderer  *Renderer
	annotator candlestick.Annotator
	cmsURL    string
	logger    *zap.Logger

	mu       sync.RWMutex
	rewriter *LinkRewriter
}

// NewSite wires the CMS service to the renderer.
func NewSite(cms Content, renderer *Renderer, cfg Config, logger *zap.Logger) *Site {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Site{
		cms:       cms,
		renderer:  renderer,
		annotator: candlestick.Annotator{ShowLabel: true},
		cmsURL:    cfg.CMSBaseURL,
		logger:    logger.Named("site"),
		rewriter:  NewLinkRewriter(cfg.CMSBaseURL, nil),
	}
}

// RefreshPaths reloads the article index used for link rewriting and
// returns it.
func (s *Site) RefreshPaths(ctx context.Context) ([]content.ArticlePath, error) {
	paths, err := s.cms.AllPostPaths(ctx)
	if err != nil {
		return nil, fmt.Errorf("load article paths: %w", err)
	}
	s.mu.Lock()
	s.rewriter = NewLinkRewriter(s.cmsURL, paths)
	s.mu.Unlock()
	return paths, nil
}

func (s *Site) rewrite(fragment string) string {
	s.mu.RLock()
	lr := s.rewriter
	s.mu.RUnlock()
	return lr.Rewrite(fragment)
}

// ClearCache drops cached CMS responses.
func (s *Site) ClearCache() {
	s.cms.ClearCache("")
}

func articles(posts []wordpress.Post) []wordpress.Article {
	out := make([]wordpress.Article, 0, len(posts))
	for _, p := range posts {
		out = append(out, wordpress.TransformToArticle(p))
	}
	return out
}

type homeView struct {
	Intro   template.HTML
	Pillars []content.Pillar
	Latest  []wordpress.Article
}

// Home renders the landing page with the latest articles.
func (s *Site) Home(ctx context.Context) (Rendered, error) {
	latest, err := s.cms.AllPosts(ctx, homeLatestCount, 1)
	if err != nil {
		return Rendered{}, fmt.Errorf("home: %w", err)
	}

	pillars := make([]content.Pillar, 0, len(content.PillarOrder))
	for _, slug := range content.PillarOrder {
		pillars = append(pillars, content.Pillars[slug])
	}

	view := homeView{
		Intro:   template.HTML(homeIntroHTML()),
		Pillars: pillars,
		Latest:  articles(latest.Data),
	}
	meta := Meta{
		Description: "تعلم التحليل الفني للأسواق المالية باللغة العربية: الشموع اليابانية والمؤشرات والأدوات واستراتيجيات التداول.",
		Canonical:   "/",
	}
	return s.render("/", SiteName, tmplHome, meta, view)
}

type pillarView struct {
	Pillar   content.Pillar
	Clusters []content.Cluster
	Articles []wordpress.Article
}

// Pillar renders a pillar landing page.
func (s *Site) Pillar(ctx context.Context, slug string) (Rendered, error) {
	if !content.IsValidPillar(slug) {
		return Rendered{}, ErrNotFound
	}
	pillar := content.Pillars[content.PillarSlug(slug)]

	posts, err := s.cms.PostsByPillar(ctx, pillar.Slug, wordpress.DefaultPillarPerPage, 1)
	if err != nil {
		return Rendered{}, fmt.Errorf("pillar %s: %w", slug, err)
	}

	var clusters []content.Cluster
	for _, c := range content.ClustersByPillar(pillar.Slug) {
		if info, ok := content.ClusterInfo(c); ok {
			clusters = append(clusters, info)
		}
	}

	meta := Meta{
		Title:       pillar.NameAr,
		Description: pillar.Description,
		Canonical:   content.PillarURL(pillar.Slug),
		Breadcrumbs: content.Breadcrumbs(pillar.Slug, "", ""),
		Section:     pillar.Slug,
	}
	view := pillarView{Pillar: pillar, Clusters: clusters, Articles: articles(posts.Data)}
	return s.render(content.PillarURL(pillar.Slug), pillar.NameAr, tmplPillar, meta, view)
}

type clusterView struct {
	Pillar   content.Pillar
	Cluster  content.Cluster
	Articles []wordpress.Article
}

// Cluster renders a cluster hub.
func (s *Site) Cluster(ctx context.Context, pillarSlug, clusterSlug string) (Rendered, error) {
	pillar := content.PillarSlug(pillarSlug)
	if !content.IsValidCluster(pillar, clusterSlug) {
		return Rendered{}, ErrNotFound
	}
	cluster, _ := content.ClusterInfo(clusterSlug)

	posts, err := s.cms.PostsByCluster(ctx, clusterSlug, wordpress.DefaultClusterPerPage, 1)
	if err != nil {
		return Rendered{}, fmt.Errorf("cluster %s: %w", clusterSlug, err)
	}

	path := content.ClusterURL(pillar, clusterSlug)
	meta := Meta{
		Title:       cluster.NameAr,
		Description: cluster.NameAr + " - " + content.Pillars[pillar].NameAr,
		Canonical:   path,
		Breadcrumbs: content.Breadcrumbs(pillar, clusterSlug, ""),
		Section:     pillar,
	}
	view := clusterView{Pillar: content.Pillars[pillar], Cluster: cluster, Articles: articles(posts.Data)}
	return s.render(path, cluster.NameAr, tmplCluster, meta, view)
}

type articleView struct {
	Article  wordpress.Article
	Body     template.HTML
	TOC      []content.TOCItem
	Patterns []candlestick.Pattern
	Related  []wordpress.RelatedArticle
	Comments []wordpress.Comment
}

// Article renders a single article. A post found under a different section
// yields a RedirectError pointing at its canonical path.
func (s *Site) Article(ctx context.Context, path content.ArticlePath) (Rendered, error) {
	post, err := s.cms.PostBySlug(ctx, path.Slug)
	if err != nil {
		return Rendered{}, fmt.Errorf("article %s: %w", path.Slug, err)
	}
	if post == nil {
		return Rendered{}, ErrNotFound
	}

	article := wordpress.TransformToArticle(*post)
	if canonical := article.Path(); canonical.Pillar != path.Pillar || canonical.Cluster != path.Cluster {
		return Rendered{}, &RedirectError{Location: canonical.URL()}
	}

	body := s.rewrite(article.Content)
	body, flat := content.AnchorHeadings(body)
	body, patterns := s.annotator.Annotate(body)

	related := article.RelatedArticles
	if len(related) == 0 {
		posts, err := s.cms.RelatedPosts(ctx, article.ID, article.Cluster, wordpress.DefaultRelatedLimit)
		if err != nil {
			s.logger.Warn("related posts unavailable", zap.String("slug", article.Slug), zap.Error(err))
		}
		for _, p := range posts {
			related = append(related, wordpress.TransformToArticle(p).Related())
		}
	}

	comments, err := s.cms.CommentsByPost(ctx, article.ID, wordpress.DefaultCommentsPerPage, 1)
	if err != nil {
		s.logger.Warn("comments unavailable", zap.String("slug", article.Slug), zap.Error(err))
	}

	view := articleView{
		Article:  article,
		Body:     template.HTML(body),
		TOC:      content.NestTOC(flat),
		Patterns: patterns,
		Related:  related,
		Comments: comments.Data,
	}

	url := path.URL()
	meta := articleMeta(article, url)
	out, err := s.render(url, article.Title, tmplArticle, meta, view)
	if err != nil {
		return out, err
	}
	out.Modified = article.ModifiedDate
	out.Warnings = content.ValidateInternalLinks(path, articleLinks(article, body)).Missing
	return out, nil
}

func articleMeta(a wordpress.Article, url string) Meta {
	meta := Meta{
		Title:       firstNonEmpty(a.SEO.Title, a.Title),
		Description: firstNonEmpty(a.SEO.Description, a.Excerpt),
		Canonical:   firstNonEmpty(a.SEO.Canonical, url),
		OGImage:     a.SEO.OGImage,
		Robots:      strings.Join(a.SEO.Robots, ", "),
		Schema:      template.JS(a.SEO.Schema),
		Breadcrumbs: content.Breadcrumbs(a.Pillar, a.Cluster, a.Title),
		Section:     a.Pillar,
	}
	if meta.OGImage == "" && a.FeaturedImage != nil {
		meta.OGImage = a.FeaturedImage.URL
	}
	return meta
}

// articleLinks merges the editor-declared links with the anchors found in
// the rendered body.
func articleLinks(a wordpress.Article, body string) []content.Link {
	links := make([]content.Link, 0, len(a.InternalLinks))
	for _, l := range a.InternalLinks {
		links = append(links, content.Link{URL: l.URL, Type: l.Type})
	}
	for _, anchor := range htmltext.ExtractLinks(body) {
		links = append(links, content.Link{URL: anchor.Href})
	}
	return links
}

type authorView struct {
	Author   wordpress.Author
	Articles []wordpress.Article
}

// Author renders an author profile with their posts.
func (s *Site) Author(ctx context.Context, slug string) (Rendered, error) {
	author, err := s.cms.AuthorBySlug(ctx, slug)
	if err != nil {
		return Rendered{}, fmt.Errorf("author %s: %w", slug, err)
	}
	if author == nil {
		return Rendered{}, ErrNotFound
	}

	list := make([]wordpress.Article, 0, len(author.Posts))
	for _, p := range author.Posts {
		list = append(list, wordpress.TransformAuthorPostToArticle(p, *author))
	}

	path := AuthorURL(author.Slug)
	meta := Meta{
		Title:       author.Name,
		Description: author.Description,
		Canonical:   path,
		OGImage:     author.AvatarURL,
	}
	return s.render(path, author.Name, tmplAuthor, meta, authorView{Author: *author, Articles: list})
}

// AuthorURL returns the site path of an author profile.
func AuthorURL(slug string) string {
	return "/authors/" + slug + "/"
}

type staticView struct {
	Page wordpress.Page
	Body template.HTML
}

// StaticPage renders a CMS page such as /about/.
func (s *Site) StaticPage(ctx context.Context, slug string) (Rendered, error) {
	page, err := s.cms.PageBySlug(ctx, slug)
	if err != nil {
		return Rendered{}, fmt.Errorf("page %s: %w", slug, err)
	}
	if page == nil {
		return Rendered{}, ErrNotFound
	}

	title := firstNonEmpty(page.Title, SlugTitle(slug))
	path := "/" + slug + "/"
	meta := Meta{Title: title, Canonical: path}
	if seo := page.SEO; seo != nil {
		meta.Title = firstNonEmpty(seo.Title, title)
		meta.Description = seo.Description
		meta.Canonical = firstNonEmpty(seo.Canonical, path)
		meta.OGImage = seo.OGImage
		meta.Robots = strings.Join(seo.Robots, ", ")
		meta.Schema = template.JS(seo.Schema)
	}

	view := staticView{Page: *page, Body: template.HTML(s.rewrite(page.Content))}
	out, err := s.render(path, title, tmplPage, meta, view)
	out.Modified = page.Modified
	return out, err
}

type searchView struct {
	Query   string
	Total   int
	Results []wordpress.Article
}

// NormalizeQuery trims a search query and caps its length.
func NormalizeQuery(raw string) string {
	q := strings.TrimSpace(raw)
	if utf8.RuneCountInString(q) > maxQueryRunes {
		q = string([]rune(q)[:maxQueryRunes])
	}
	return q
}

// SearchArticles runs a full-text search. An empty query returns nothing.
func (s *Site) SearchArticles(ctx context.Context, query string) ([]wordpress.Article, error) {
	query = NormalizeQuery(query)
	if query == "" {
		return []wordpress.Article{}, nil
	}
	res, err := s.cms.SearchPosts(ctx, query, wordpress.DefaultSearchPerPage, 1)
	return articles(res.Data), err
}

// Search renders the search results page.
func (s *Site) Search(ctx context.Context, query string) (Rendered, error) {
	query = NormalizeQuery(query)
	results, err := s.SearchArticles(ctx, query)
	if err != nil {
		return Rendered{}, fmt.Errorf("search %q: %w", query, err)
	}

	meta := Meta{Title: "البحث", Robots: "noindex, follow", Query: query}
	view := searchView{Query: query, Total: len(results), Results: results}
	return s.render("/search", "البحث", tmplSearch, meta, view)
}

// NotFound renders the 404 page.
func (s *Site) NotFound() (Rendered, error) {
	meta := Meta{Title: "الصفحة غير موجودة", Robots: "noindex"}
	return s.render("/404.html", meta.Title, tmplNotFound, meta, nil)
}

func (s *Site) render(path, title, tmpl string, meta Meta, view any) (Rendered, error) {
	html, err := s.renderer.Render(tmpl, meta, view)
	if err != nil {
		return Rendered{}, err
	}
	return Rendered{Path: path, Title: title, HTML: html}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
