package htmltext

import (
	"strings"

	xhtml "golang.org/x/net/html"
)

// Anchor is an <a href> found in a fragment.
type Anchor struct {
	Href string
	Text string
}

// ExtractLinks returns every anchor with a non-empty href in document order.
func ExtractLinks(fragment string) []Anchor {
	var out []Anchor
	z := xhtml.NewTokenizer(strings.NewReader(fragment))

	var current *Anchor
	var text strings.Builder
	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			if current != nil {
				current.Text = strings.TrimSpace(whitespaceRun.ReplaceAllString(text.String(), " "))
				out = append(out, *current)
			}
			return out
		case xhtml.StartTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "a" || !hasAttr {
				continue
			}
			for {
				key, val, more := z.TagAttr()
				if string(key) == "href" {
					if href := strings.TrimSpace(string(val)); href != "" {
						current = &Anchor{Href: href}
						text.Reset()
					}
				}
				if !more {
					break
				}
			}
		case xhtml.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "a" && current != nil {
				current.Text = strings.TrimSpace(whitespaceRun.ReplaceAllString(text.String(), " "))
				out = append(out, *current)
				current = nil
			}
		case xhtml.TextToken:
			if current != nil {
				text.Write(z.Text())
			}
		}
	}
}
