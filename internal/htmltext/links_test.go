package htmltext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractLinks(t *testing.T) {
	fragment := `<p>اقرأ <a href="/basics/">الأساسيات</a> ثم <a class="x" href='/tactics/risk/?a=1&amp;b=2'>إدارة <b>المخاطر</b></a>.</p>` +
		`<a name="anchor">بدون رابط</a><a href="  ">فارغ</a><a href="https://example.com">`

	got := ExtractLinks(fragment)

	assert.Equal(t, []Anchor{
		{Href: "/basics/", Text: "الأساسيات"},
		{Href: "/tactics/risk/?a=1&b=2", Text: "إدارة المخاطر"},
		{Href: "https://example.com"},
	}, got)
	assert.Empty(t, ExtractLinks(""))
}
