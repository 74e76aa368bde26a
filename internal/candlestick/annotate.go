package candlestick

import (
	"regexp"

	"chartspoint/internal/htmltext"
)

var (
	annotatedHeading = regexp.MustCompile(`(?is)<h([23])(\s[^>]*)?>(.*?)</h[23]\s*>`)
	existingMarker   = regexp.MustCompile(`data-pattern="([a-z-]+)"`)
)

// Annotator injects pattern visuals after headings that name a pattern.
type Annotator struct {
	// ShowLabel adds the Arabic pattern name under each visual.
	ShowLabel bool
	// Repeat allows a pattern to be injected after every heading naming it
	// instead of only the first.
	Repeat bool
}

// Annotate returns fragment with visuals inserted and the patterns injected,
// in document order. Patterns that already have a data-pattern marker in the
// fragment are not injected again unless Repeat is set.
func (a Annotator) Annotate(fragment string) (string, []Pattern) {
	seen := make(map[Pattern]bool)
	if !a.Repeat {
		for _, m := range existingMarker.FindAllStringSubmatch(fragment, -1) {
			seen[Pattern(m[1])] = true
		}
	}

	var injected []Pattern
	out := annotatedHeading.ReplaceAllStringFunc(fragment, func(match string) string {
		sub := annotatedHeading.FindStringSubmatch(match)
		if len(sub) != 4 {
			return match
		}
		p, ok := DetectInHeading(htmltext.StripTags(sub[3]))
		if !ok || seen[p] {
			return match
		}
		visual := InlineHTML(p, a.ShowLabel)
		if visual == "" {
			return match
		}
		if !a.Repeat {
			seen[p] = true
		}
		injected = append(injected, p)
		return match + "\n" + visual
	})

	return out, injected
}
