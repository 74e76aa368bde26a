package content

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestAnchorHeadingsAssignsIDs(t *testing.T) {
	in := `<h2>ما هو التحليل الفني</h2><p>..</p><h3 class="x">الشموع <em>اليابانية</em></h3><h4>skip</h4>`

	out, toc := AnchorHeadings(in)

	want := []TOCItem{
		{ID: "ما-هو-التحليل-الفني", Text: "ما هو التحليل الفني", Level: 2},
		{ID: "الشموع-اليابانية", Text: "الشموع اليابانية", Level: 3},
	}
	if diff := cmp.Diff(want, toc); diff != "" {
		t.Fatalf("toc mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, out, `<h2 id="ما-هو-التحليل-الفني">`)
	assert.Contains(t, out, `<h3 id="الشموع-اليابانية" class="x">الشموع <em>اليابانية</em></h3>`)
	assert.Contains(t, out, `<h4>skip</h4>`)
}

func TestAnchorHeadingsKeepsExistingAndDeduplicates(t *testing.T) {
	in := `<h2 id="intro">Intro</h2><h2>Intro</h2><h2>Intro</h2><h3 id="intro">Again</h3>`

	out, toc := AnchorHeadings(in)

	ids := make([]string, len(toc))
	for i, item := range toc {
		ids[i] = item.ID
	}
	assert.Equal(t, []string{"intro", "intro-2", "intro-3", "intro-4"}, ids)
	assert.True(t, strings.HasPrefix(out, `<h2 id="intro">Intro</h2>`))
	assert.Contains(t, out, `<h3 id="intro-4">Again</h3>`)
}

func TestAnchorHeadingsSkipsEmptyHeadings(t *testing.T) {
	in := `<h2><img src="x.png"></h2>`
	out, toc := AnchorHeadings(in)
	assert.Equal(t, in, out)
	assert.Empty(t, toc)
}

func TestExtractTOCAndNest(t *testing.T) {
	flat := ExtractTOC(`<h3>Lead</h3><h2>A</h2><h3>A1</h3><h3>A2</h3><h2>B</h2>`)
	nested := NestTOC(flat)

	want := []TOCItem{
		{ID: "lead", Text: "Lead", Level: 3},
		{ID: "a", Text: "A", Level: 2, Children: []TOCItem{
			{ID: "a1", Text: "A1", Level: 3},
			{ID: "a2", Text: "A2", Level: 3},
		}},
		{ID: "b", Text: "B", Level: 2},
	}
	if diff := cmp.Diff(want, nested); diff != "" {
		t.Fatalf("NestTOC mismatch (-want +got):\n%s", diff)
	}
}
