package app

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"chartspoint/internal/content"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// memoryArchive mirrors Archive semantics in memory.
type memoryArchive struct {
	mu    sync.Mutex
	pages map[string]ArchivedPage
}

func newMemoryArchive() *memoryArchive {
	return &memoryArchive{pages: map[string]ArchivedPage{}}
}

func (m *memoryArchive) Record(_ context.Context, path, title, html, buildID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	hash := ContentHash(html)
	prev, ok := m.pages[path]
	m.pages[path] = ArchivedPage{Path: path, Title: title, HTML: html, ContentHash: hash, BuildID: buildID}
	return !ok || prev.ContentHash != hash, nil
}

func (m *memoryArchive) Stale(_ context.Context, buildID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stale []string
	for path, p := range m.pages {
		if p.BuildID != buildID {
			stale = append(stale, path)
		}
	}
	sort.Strings(stale)
	return stale, nil
}

func newTestBuilder(t *testing.T, cms *fakeContent, archive Recorder) (*Builder, string) {
	t.Helper()
	out := t.TempDir()
	cfg := DefaultConfig()
	cfg.SiteURL = "https://chartspoint.test"
	cfg.OutputDir = out
	cfg.Concurrency = 4
	return NewBuilder(newTestSite(t, cms), cfg, archive, nil), out
}

func TestBuildWritesSite(t *testing.T) {
	cms := newFakeContent()
	archive := newMemoryArchive()
	b, out := newTestBuilder(t, cms, archive)
	ids := []string{"build-1", "build-2"}
	b.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	report, err := b.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "build-1", report.BuildID)
	// home, 404, pillars, clusters, three articles, one author, about
	assert.Equal(t, 2+len(content.PillarOrder)+len(content.Clusters)+3+1+1, report.Pages)
	assert.Equal(t, 3, report.Failed, "contact, privacy-policy and terms do not exist")
	assert.Len(t, report.Changed, report.Pages)
	assert.Empty(t, report.Stale)

	wantWarnings := map[string][]string{
		"/basics/patterns/hammer-pattern/": {content.MissingPillarLink, content.MissingClusterLink, content.MissingRiskLink},
		"/tactics/risk/position-sizing/":   {content.MissingPillarLink, content.MissingClusterLink},
	}
	if diff := cmp.Diff(wantWarnings, report.Warnings); diff != "" {
		t.Errorf("warnings mismatch (-want +got):\n%s", diff)
	}

	for _, file := range []string{
		"index.html",
		"404.html",
		"basics/index.html",
		"basics/patterns/index.html",
		"basics/patterns/hammer-pattern/index.html",
		"indicators/momentum/rsi/index.html",
		"authors/sara/index.html",
		"about/index.html",
		"robots.txt",
		"sitemap.xml",
	} {
		assert.FileExists(t, filepath.Join(out, file))
	}
	assert.NoFileExists(t, filepath.Join(out, "terms", "index.html"))

	sitemap, err := os.ReadFile(filepath.Join(out, "sitemap.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(sitemap), "<loc>https://chartspoint.test/basics/patterns/hammer-pattern/</loc>\n    <lastmod>2024-03-04</lastmod>")
	assert.NotContains(t, string(sitemap), "404.html")

	robots, err := os.ReadFile(filepath.Join(out, "robots.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(robots), "Sitemap: https://chartspoint.test/sitemap.xml")

	report, err = b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "build-2", report.BuildID)
	assert.Empty(t, report.Changed, "identical content is not reported as changed")
}

func TestBuildReportsStalePages(t *testing.T) {
	cms := newFakeContent()
	archive := newMemoryArchive()
	archive.pages["/basics/patterns/removed/"] = ArchivedPage{Path: "/basics/patterns/removed/", BuildID: "old"}

	b, _ := newTestBuilder(t, cms, archive)
	report, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"/basics/patterns/removed/"}, report.Stale)
}

func TestBuildDegradesOnPageFailures(t *testing.T) {
	cms := newFakeContent()
	cms.fail("PostsByCluster")
	cms.fail("AllAuthors")

	b, out := newTestBuilder(t, cms, nil)
	report, err := b.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, len(content.Clusters)+3, report.Failed)
	assert.FileExists(t, filepath.Join(out, "basics/patterns/hammer-pattern/index.html"))
	assert.NoFileExists(t, filepath.Join(out, "authors/sara/index.html"))
}

func TestBuildFailsWithoutArticleIndex(t *testing.T) {
	cms := newFakeContent()
	cms.fail("AllPostPaths")

	b, _ := newTestBuilder(t, cms, nil)
	_, err := b.Build(context.Background())
	assert.ErrorIs(t, err, errCMSDown)
}

func TestBuildStopsOnCancel(t *testing.T) {
	b, _ := newTestBuilder(t, newFakeContent(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Build(ctx)
	assert.Error(t, err)
}

func TestFilePath(t *testing.T) {
	b := &Builder{outDir: "/out"}

	got, err := b.filePath("/basics/%D8%AF%D8%B9%D9%85/")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/out", "basics", "دعم", "index.html"), got)

	got, err = b.filePath("/sitemap.xml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/out", "sitemap.xml"), got)

	got, err = b.filePath("/tools/platforms/metatrader-5..review/")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/out", "tools", "platforms", "metatrader-5..review", "index.html"), got)

	for _, escape := range []string{"/../etc/passwd", "/basics/%2E%2E/%2E%2E/etc/", "/basics/../../x/"} {
		_, err = b.filePath(escape)
		assert.Error(t, err, escape)
	}
}
