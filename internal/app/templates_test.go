package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArabicDate(t *testing.T) {
	tests := map[string]string{
		"2024-03-02T08:00:00":       "2 مارس 2024",
		"2023-12-31T23:59:59+03:00": "31 ديسمبر 2023",
		"2024-01-05":                "5 يناير 2024",
		"yesterday":                 "yesterday",
		"":                          "",
	}
	for input, want := range tests {
		assert.Equal(t, want, arabicDate(input), input)
	}
}

func TestRenderTitleAndCanonical(t *testing.T) {
	r, err := NewRenderer("https://chartspoint.test/")
	require.NoError(t, err)
	r.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }

	html, err := r.Render(tmplNotFound, Meta{Title: "صفحة", Canonical: "/x/"}, nil)
	require.NoError(t, err)
	assert.Contains(t, string(html), "<title>صفحة | تشارتس بوينت</title>")
	assert.Contains(t, string(html), `<link rel="canonical" href="https://chartspoint.test/x/">`)
	assert.Contains(t, string(html), "2025 تشارتس بوينت")

	html, err = r.Render(tmplNotFound, Meta{Canonical: "https://elsewhere.test/y/"}, nil)
	require.NoError(t, err)
	assert.Contains(t, string(html), `href="https://elsewhere.test/y/"`)
	assert.NotContains(t, string(html), `<meta name="description"`)

	_, err = r.Render("missing", Meta{}, nil)
	assert.Error(t, err)
}

func TestBuildSitemap(t *testing.T) {
	data, err := buildSitemap("https://chartspoint.test/", []sitemapEntry{
		{Path: "/basics/", Modified: ""},
		{Path: "/", Modified: "2024-03-04T08:00:00"},
	})
	require.NoError(t, err)

	want := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url>
    <loc>https://chartspoint.test/</loc>
    <lastmod>2024-03-04</lastmod>
  </url>
  <url>
    <loc>https://chartspoint.test/basics/</loc>
  </url>
</urlset>`
	assert.Equal(t, want, string(data))
}
