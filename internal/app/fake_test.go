package app

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"chartspoint/internal/content"
	"chartspoint/internal/wordpress"
)

var errCMSDown = errors.New("HTTP Error: 503 Service Unavailable")

// fakeContent is an in-memory CMS.
type fakeContent struct {
	mu       sync.Mutex
	posts    []wordpress.Post
	pages    map[string]*wordpress.Page
	authors  map[string]*wordpress.Author
	comments map[int][]wordpress.Comment
	failing  map[string]bool
	calls    map[string]int
	cleared  int
	gate     chan struct{}
}

func newFakeContent() *fakeContent {
	return &fakeContent{
		posts: []wordpress.Post{hammerPost(), rsiPost(), riskPost()},
		pages: map[string]*wordpress.Page{
			"about": {ID: 50, Slug: "about", Title: "من نحن", Content: `<p>فريق <a href="https://cms.chartspoint.com/rsi/">RSI</a></p>`, Modified: "2024-02-01T10:00:00"},
		},
		authors: map[string]*wordpress.Author{
			"sara": {
				Name: "سارة", Slug: "sara", Description: "محللة فنية",
				Posts: []wordpress.AuthorPost{{DatabaseID: 101, Title: "نموذج المطرقة", Slug: "hammer-pattern", Date: "2024-03-02T08:00:00", Categories: []wordpress.Category{{ID: 7, Slug: "patterns"}}}},
			},
		},
		comments: map[int][]wordpress.Comment{
			101: {{ID: 1, PostID: 101, AuthorName: "خالد", Date: "2024-03-05T09:00:00", Content: "<p>شكرا</p>"}},
		},
		failing: map[string]bool{},
		calls:   map[string]int{},
	}
}

func (f *fakeContent) fail(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[op] = true
}

func (f *fakeContent) enter(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	if f.failing[op] {
		return errCMSDown
	}
	return nil
}

// hold blocks PostBySlug until the returned channel is closed.
func (f *fakeContent) hold() chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate = make(chan struct{})
	return f.gate
}

func (f *fakeContent) wait(ctx context.Context) error {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeContent) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeContent) filter(keep func(wordpress.Article) bool) []wordpress.Post {
	var out []wordpress.Post
	for _, p := range f.posts {
		if keep(wordpress.TransformToArticle(p)) {
			out = append(out, p)
		}
	}
	return out
}

func page(posts []wordpress.Post) wordpress.Paginated[wordpress.Post] {
	if posts == nil {
		posts = []wordpress.Post{}
	}
	return wordpress.Paginated[wordpress.Post]{Data: posts, Pagination: wordpress.Pagination{TotalItems: len(posts), TotalPages: 1}}
}

func (f *fakeContent) AllPosts(_ context.Context, _, _ int) (wordpress.Paginated[wordpress.Post], error) {
	if err := f.enter("AllPosts"); err != nil {
		return page(nil), err
	}
	return page(f.posts), nil
}

func (f *fakeContent) PostsByPillar(_ context.Context, pillar content.PillarSlug, _, _ int) (wordpress.Paginated[wordpress.Post], error) {
	if err := f.enter("PostsByPillar"); err != nil {
		return page(nil), err
	}
	return page(f.filter(func(a wordpress.Article) bool { return a.Pillar == pillar })), nil
}

func (f *fakeContent) PostsByCluster(_ context.Context, cluster string, _, _ int) (wordpress.Paginated[wordpress.Post], error) {
	if err := f.enter("PostsByCluster"); err != nil {
		return page(nil), err
	}
	return page(f.filter(func(a wordpress.Article) bool { return a.Cluster == cluster })), nil
}

func (f *fakeContent) SearchPosts(_ context.Context, query string, _, _ int) (wordpress.Paginated[wordpress.Post], error) {
	if err := f.enter("SearchPosts"); err != nil {
		return page(nil), err
	}
	return page(f.filter(func(a wordpress.Article) bool { return query == "RSI" && a.Slug == "rsi" })), nil
}

func (f *fakeContent) PostBySlug(ctx context.Context, slug string) (*wordpress.Post, error) {
	if err := f.enter("PostBySlug"); err != nil {
		return nil, err
	}
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	for _, p := range f.posts {
		if p.Slug == slug {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeContent) AllPostPaths(_ context.Context) ([]content.ArticlePath, error) {
	if err := f.enter("AllPostPaths"); err != nil {
		return []content.ArticlePath{}, err
	}
	paths := make([]content.ArticlePath, 0, len(f.posts))
	for _, p := range f.posts {
		paths = append(paths, wordpress.TransformToArticle(p).Path())
	}
	return paths, nil
}

func (f *fakeContent) PageBySlug(_ context.Context, slug string) (*wordpress.Page, error) {
	if err := f.enter("PageBySlug"); err != nil {
		return nil, err
	}
	return f.pages[slug], nil
}

func (f *fakeContent) CommentsByPost(_ context.Context, postID, _, _ int) (wordpress.Paginated[wordpress.Comment], error) {
	if err := f.enter("CommentsByPost"); err != nil {
		return wordpress.Paginated[wordpress.Comment]{Data: []wordpress.Comment{}}, err
	}
	comments := f.comments[postID]
	if comments == nil {
		comments = []wordpress.Comment{}
	}
	return wordpress.Paginated[wordpress.Comment]{Data: comments}, nil
}

func (f *fakeContent) RelatedPosts(_ context.Context, postID int, cluster string, _ int) ([]wordpress.Post, error) {
	if err := f.enter("RelatedPosts"); err != nil {
		return []wordpress.Post{}, err
	}
	return f.filter(func(a wordpress.Article) bool { return a.Cluster == cluster && a.ID != postID }), nil
}

func (f *fakeContent) AuthorBySlug(_ context.Context, slug string) (*wordpress.Author, error) {
	if err := f.enter("AuthorBySlug"); err != nil {
		return nil, err
	}
	return f.authors[slug], nil
}

func (f *fakeContent) AllAuthors(_ context.Context) ([]wordpress.AuthorSummary, error) {
	if err := f.enter("AllAuthors"); err != nil {
		return []wordpress.AuthorSummary{}, err
	}
	out := make([]wordpress.AuthorSummary, 0, len(f.authors))
	for slug, a := range f.authors {
		out = append(out, wordpress.AuthorSummary{Slug: slug, Name: a.Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (f *fakeContent) ClearCache(string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared++
}

func hammerPost() wordpress.Post {
	return wordpress.Post{
		ID:       101,
		Slug:     "hammer-pattern",
		Title:    "نموذج المطرقة",
		Excerpt:  "<p>ملخص المطرقة</p>",
		Date:     "2024-03-02T08:00:00",
		Modified: "2024-03-04T08:00:00",
		Content: `<h2>ما هو نموذج المطرقة</h2><p>نص عن الشمعة.</p>` +
			`<h3>التأكيد</h3><p>راجع <a href="https://cms.chartspoint.com/rsi/">مؤشر RSI</a> و <a href="/basics/patterns/missing-article/">مقال مفقود</a>.</p>`,
		Author:     wordpress.EmbeddedAuthor{ID: 7, Name: "سارة", Slug: "sara"},
		Categories: []wordpress.Category{{ID: 2, Slug: "basics"}, {ID: 7, Slug: "patterns"}},
	}
}

func rsiPost() wordpress.Post {
	return wordpress.Post{
		ID:         102,
		Slug:       "rsi",
		Title:      "مؤشر القوة النسبية",
		Date:       "2024-01-10T08:00:00",
		Modified:   "2024-01-10T08:00:00",
		Content:    `<p>اقرأ <a href="/indicators/">المؤشرات</a> و <a href="/indicators/momentum/">الزخم</a> و <a href="/tactics/risk/">المخاطر</a>.</p>`,
		Author:     wordpress.EmbeddedAuthor{ID: 1, Name: wordpress.DefaultAuthorName},
		Categories: []wordpress.Category{{ID: 10, Slug: "momentum"}},
		SEO: &wordpress.SEO{
			Title:       "RSI | تشارتس بوينت",
			Description: "شرح مؤشر RSI",
			Robots:      []string{"index", "follow"},
			Schema:      `{"@type":"Article"}`,
		},
	}
}

func riskPost() wordpress.Post {
	return wordpress.Post{
		ID:         103,
		Slug:       "position-sizing",
		Title:      "حجم الصفقة",
		Date:       "2023-12-01T08:00:00",
		Modified:   "2023-12-01T08:00:00",
		Content:    `<p>محتوى</p>`,
		Categories: []wordpress.Category{{ID: 20, Slug: "risk"}},
	}
}

func newTestSite(t *testing.T, cms *fakeContent) *Site {
	t.Helper()
	renderer, err := NewRenderer("https://chartspoint.test")
	require.NoError(t, err)
	cfg := DefaultConfig()
	cfg.SiteURL = "https://chartspoint.test"
	return NewSite(cms, renderer, cfg, nil)
}
