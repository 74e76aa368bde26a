package htmltext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripTags(t *testing.T) {
	tests := map[string]string{
		"":                          "",
		"<p>Hello <b>world</b></p>": "Hello world",
		"<p>سطر أول</p>\n\n<p>سطر   ثان</p>": "سطر أول سطر ثان",
		"<p>A &amp; B</p>":            "A & B",
		"<style>p{}</style><p>نص</p>": "نص",
		"plain text":                  "plain text",
	}

	for input, want := range tests {
		assert.Equal(t, want, StripTags(input), "StripTags(%q)", input)
	}
}

func TestDecodeEntities(t *testing.T) {
	assert.Equal(t, `Tom & "Jerry"`, DecodeEntities("Tom &amp; &#8220;Jerry&#8221;"))
	assert.Equal(t, "a - b -- c", DecodeEntities("a &#8211; b &#8212; c"))
	assert.Equal(t, "it's", DecodeEntities("it&#8217;s"))
	assert.Equal(t, "<h1>", DecodeEntities("&lt;h1&gt;"))
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(""))
	assert.Equal(t, 3, WordCount("مرحبا، بالعالم. كيف؟"))
	assert.Equal(t, 4, WordCount("one,two;three:four"))
	assert.Equal(t, 2, WordCount("  spaced   out  "))
}

func TestReadingMinutes(t *testing.T) {
	assert.Equal(t, 0, ReadingMinutes(0))
	assert.Equal(t, 1, ReadingMinutes(1))
	assert.Equal(t, 1, ReadingMinutes(200))
	assert.Equal(t, 2, ReadingMinutes(201))
}
