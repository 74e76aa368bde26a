package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chartspoint/internal/content"
)

func TestHome(t *testing.T) {
	cms := newFakeContent()
	site := newTestSite(t, cms)

	out, err := site.Home(context.Background())
	require.NoError(t, err)

	html := string(out.HTML)
	assert.Equal(t, "/", out.Path)
	assert.Contains(t, html, `<html lang="ar" dir="rtl">`)
	assert.Contains(t, html, `<title>تشارتس بوينت</title>`)
	assert.Contains(t, html, `<link rel="canonical" href="https://chartspoint.test/">`)
	assert.Contains(t, html, "home-intro")
	for _, title := range []string{"نموذج المطرقة", "مؤشر القوة النسبية", "حجم الصفقة"} {
		assert.Contains(t, html, title)
	}
	assert.Contains(t, html, `href="/basics/patterns/hammer-pattern/"`)
	assert.Contains(t, html, "2 مارس 2024")

	cms.fail("AllPosts")
	_, err = site.Home(context.Background())
	assert.ErrorIs(t, err, errCMSDown)
}

func TestPillarAndCluster(t *testing.T) {
	site := newTestSite(t, newFakeContent())
	ctx := context.Background()

	out, err := site.Pillar(ctx, "basics")
	require.NoError(t, err)
	html := string(out.HTML)
	assert.Equal(t, "/basics/", out.Path)
	assert.Contains(t, html, "<h1>أساسيات التحليل الفني</h1>")
	assert.Contains(t, html, `<a href="/basics/patterns/">أنماط الشموع والرسوم</a>`)
	assert.Contains(t, html, "نموذج المطرقة")
	assert.NotContains(t, html, "مؤشر القوة النسبية")
	assert.Contains(t, html, `<a href="/basics/" aria-current="page">`)

	_, err = site.Pillar(ctx, "news")
	assert.ErrorIs(t, err, ErrNotFound)

	out, err = site.Cluster(ctx, "indicators", "momentum")
	require.NoError(t, err)
	assert.Equal(t, "/indicators/momentum/", out.Path)
	assert.Contains(t, string(out.HTML), "مؤشر القوة النسبية")
	assert.Contains(t, string(out.HTML), `<span aria-current="page">مؤشرات الزخم</span>`)

	_, err = site.Cluster(ctx, "basics", "momentum")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArticle(t *testing.T) {
	cms := newFakeContent()
	site := newTestSite(t, cms)
	ctx := context.Background()

	_, err := site.RefreshPaths(ctx)
	require.NoError(t, err)

	path := content.ArticlePath{Pillar: content.Basics, Cluster: "patterns", Slug: "hammer-pattern"}
	out, err := site.Article(ctx, path)
	require.NoError(t, err)

	html := string(out.HTML)
	assert.Equal(t, "/basics/patterns/hammer-pattern/", out.Path)
	assert.Equal(t, "2024-03-04T08:00:00", out.Modified)
	assert.Contains(t, html, `<title>نموذج المطرقة | تشارتس بوينت</title>`)
	assert.Contains(t, html, `<h2 id="ما-هو-نموذج-المطرقة">ما هو نموذج المطرقة</h2>`)
	assert.Contains(t, html, `محتويات المقال`)
	assert.Contains(t, html, `>ما هو نموذج المطرقة</a>`)
	assert.Contains(t, html, `data-pattern="hammer"`)
	assert.Contains(t, html, `<a href="/indicators/momentum/rsi/">مؤشر RSI</a>`)
	assert.Contains(t, html, `<span class="missing-link" data-href="/basics/patterns/missing-article/">`)
	assert.Contains(t, html, "خالد")
	assert.Contains(t, html, `<a href="/authors/sara/">سارة</a>`)
	assert.Equal(t, []string{content.MissingPillarLink, content.MissingClusterLink, content.MissingRiskLink}, out.Warnings)
	assert.Equal(t, 1, cms.count("RelatedPosts"))

	out, err = site.Article(ctx, content.ArticlePath{Pillar: content.Indicators, Cluster: "momentum", Slug: "rsi"})
	require.NoError(t, err)
	html = string(out.HTML)
	assert.Empty(t, out.Warnings)
	assert.Contains(t, html, `<title>RSI | تشارتس بوينت</title>`)
	assert.Contains(t, html, `<meta name="robots" content="index, follow">`)
	assert.Contains(t, html, `<script type="application/ld+json">{"@type":"Article"}</script>`)
	assert.Contains(t, html, "لا توجد تعليقات بعد.")
}

func TestArticleErrors(t *testing.T) {
	cms := newFakeContent()
	site := newTestSite(t, cms)
	ctx := context.Background()

	_, err := site.Article(ctx, content.ArticlePath{Pillar: content.Basics, Cluster: "patterns", Slug: "nope"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = site.Article(ctx, content.ArticlePath{Pillar: content.Basics, Cluster: "intro", Slug: "hammer-pattern"})
	var redirect *RedirectError
	require.True(t, errors.As(err, &redirect))
	assert.Equal(t, "/basics/patterns/hammer-pattern/", redirect.Location)

	cms.fail("CommentsByPost")
	cms.fail("RelatedPosts")
	out, err := site.Article(ctx, content.ArticlePath{Pillar: content.Basics, Cluster: "patterns", Slug: "hammer-pattern"})
	require.NoError(t, err, "comments and related posts degrade to empty sections")
	assert.Contains(t, string(out.HTML), "التعليقات (0)")

	cms.fail("PostBySlug")
	_, err = site.Article(ctx, content.ArticlePath{Pillar: content.Basics, Cluster: "patterns", Slug: "hammer-pattern"})
	assert.ErrorIs(t, err, errCMSDown)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestArticleKeepsCMSLinksWithoutIndex(t *testing.T) {
	site := newTestSite(t, newFakeContent())

	out, err := site.Article(context.Background(), content.ArticlePath{Pillar: content.Basics, Cluster: "patterns", Slug: "hammer-pattern"})
	require.NoError(t, err)
	assert.Contains(t, string(out.HTML), `href="https://cms.chartspoint.com/rsi/"`)
	assert.Contains(t, string(out.HTML), `<a href="/basics/patterns/missing-article/">`)
}

func TestAuthorAndStaticPage(t *testing.T) {
	site := newTestSite(t, newFakeContent())
	ctx := context.Background()
	_, err := site.RefreshPaths(ctx)
	require.NoError(t, err)

	out, err := site.Author(ctx, "sara")
	require.NoError(t, err)
	assert.Equal(t, "/authors/sara/", out.Path)
	assert.Contains(t, string(out.HTML), "<h1>سارة</h1>")
	assert.Contains(t, string(out.HTML), `href="/basics/patterns/hammer-pattern/"`)

	_, err = site.Author(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	out, err = site.StaticPage(ctx, "about")
	require.NoError(t, err)
	assert.Equal(t, "/about/", out.Path)
	assert.Equal(t, "2024-02-01T10:00:00", out.Modified)
	assert.Contains(t, string(out.HTML), "<h1>من نحن</h1>")
	assert.Contains(t, string(out.HTML), `<a href="/indicators/momentum/rsi/">RSI</a>`)

	_, err = site.StaticPage(ctx, "terms")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearch(t *testing.T) {
	cms := newFakeContent()
	site := newTestSite(t, cms)
	ctx := context.Background()

	out, err := site.Search(ctx, "  RSI ")
	require.NoError(t, err)
	html := string(out.HTML)
	assert.Contains(t, html, "1 نتيجة لـ «RSI»")
	assert.Contains(t, html, "مؤشر القوة النسبية")
	assert.Contains(t, html, `<meta name="robots" content="noindex, follow">`)
	assert.Contains(t, html, `value="RSI"`)

	out, err = site.Search(ctx, "   ")
	require.NoError(t, err)
	assert.Contains(t, string(out.HTML), "اكتب كلمة للبحث")
	assert.Equal(t, 1, cms.count("SearchPosts"))
}

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "شموع", NormalizeQuery("  شموع \n"))
	long := strings.Repeat("م", 200)
	assert.Equal(t, 128, len([]rune(NormalizeQuery(long))))
}

func TestNotFoundPage(t *testing.T) {
	site := newTestSite(t, newFakeContent())
	out, err := site.NotFound()
	require.NoError(t, err)
	assert.Contains(t, string(out.HTML), "الصفحة غير موجودة")
	assert.Contains(t, string(out.HTML), `<meta name="robots" content="noindex">`)
}
