// Package htmltext turns CMS-rendered HTML fragments into plain text, counts
// Arabic words and derives URL-safe anchors from headings.
package htmltext

import (
	"html"
	"regexp"
	"strings"

	xhtml "golang.org/x/net/html"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// StripTags returns the visible text of an HTML fragment with whitespace
// collapsed to single spaces. Script and style bodies are dropped.
func StripTags(fragment string) string {
	if fragment == "" {
		return ""
	}

	z := xhtml.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			return strings.TrimSpace(whitespaceRun.ReplaceAllString(b.String(), " "))
		case xhtml.StartTagToken:
			name, _ := z.TagName()
			if isRawText(string(name)) {
				skip++
			}
		case xhtml.EndTagToken:
			name, _ := z.TagName()
			if isRawText(string(name)) && skip > 0 {
				skip--
			}
		case xhtml.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func isRawText(tag string) bool {
	return tag == "script" || tag == "style"
}

// typographic entities are flattened to ASCII before the generic unescape
var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&#8211;", "-",
	"&#8212;", "--",
	"&#8216;", "'",
	"&#8217;", "'",
	"&#8220;", "\"",
	"&#8221;", "\"",
)

// DecodeEntities decodes the HTML entities WordPress emits in titles.
func DecodeEntities(text string) string {
	return html.UnescapeString(entityReplacer.Replace(text))
}

var wordSeparators = regexp.MustCompile(`[\s،.؟!,;:]+`)

// WordCount estimates the number of words in plain Arabic or Latin text.
func WordCount(text string) int {
	count := 0
	for _, word := range wordSeparators.Split(text, -1) {
		if word != "" {
			count++
		}
	}
	return count
}

// ReadingMinutes converts a word count to whole minutes at 200 words per minute.
func ReadingMinutes(words int) int {
	if words <= 0 {
		return 0
	}
	return (words + 199) / 200
}
