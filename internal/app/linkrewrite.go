package app

import (
	"html"
	"regexp"
	"strings"

	"chartspoint/internal/content"
)

var (
	anchorElement = regexp.MustCompile(`(?is)<a(\s[^>]*)?>(.*?)</a\s*>`)
	hrefAttr      = regexp.MustCompile(`(?i)\shref\s*=\s*("([^"]*)"|'([^']*)')`)
)

// LinkRewriter maps CMS permalinks in article bodies onto site paths and
// flags internal links to articles that do not exist.
type LinkRewriter struct {
	cmsURL   string
	articles map[string]content.ArticlePath
	known    map[string]struct{}
}

// NewLinkRewriter indexes the known article paths by normalized slug.
// Rewritten links keep the path as the CMS reports it.
func NewLinkRewriter(cmsURL string, paths []content.ArticlePath) *LinkRewriter {
	lr := &LinkRewriter{
		cmsURL:   strings.TrimSuffix(cmsURL, "/"),
		articles: make(map[string]content.ArticlePath, len(paths)),
		known:    make(map[string]struct{}, len(paths)),
	}
	for _, p := range paths {
		key := p
		if normalized, ok := ParseArticlePath(p.URL()); ok {
			key = normalized
		}
		lr.articles[key.Slug] = p
		lr.known[key.URL()] = struct{}{}
	}
	return lr
}

// Rewrite returns fragment with CMS links pointed at the site and dead
// article links replaced by a span carrying the original target.
func (lr *LinkRewriter) Rewrite(fragment string) string {
	return anchorElement.ReplaceAllStringFunc(fragment, func(match string) string {
		sub := anchorElement.FindStringSubmatch(match)
		attrs, inner := sub[1], sub[2]

		loc := hrefAttr.FindStringSubmatchIndex(attrs)
		if loc == nil {
			return match
		}
		quote := attrs[loc[2]]
		href := html.UnescapeString(attrs[loc[2]+1 : loc[3]-1])

		target := lr.resolve(href)
		if lr.isBroken(target) {
			return `<span class="missing-link" data-href="` + html.EscapeString(target) + `">` + inner + `</span>`
		}
		if target == href {
			return match
		}

		attr := " href=" + string(quote) + html.EscapeString(target) + string(quote)
		return "<a" + attrs[:loc[0]] + attr + attrs[loc[1]:] + ">" + inner + "</a>"
	})
}

// resolve maps an absolute CMS URL onto the equivalent site path. Anything
// else is returned unchanged.
func (lr *LinkRewriter) resolve(href string) string {
	if lr.cmsURL == "" || !strings.HasPrefix(href, lr.cmsURL+"/") {
		return href
	}

	rest := strings.TrimPrefix(href, lr.cmsURL)
	suffix := ""
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest, suffix = rest[:i], rest[i:]
	}

	segments := strings.Split(strings.Trim(rest, "/"), "/")
	switch {
	case len(segments) == 2 && segments[0] == "category":
		slug := segments[1]
		if content.IsValidPillar(slug) {
			return content.PillarURL(content.PillarSlug(slug)) + suffix
		}
		if pillar, ok := content.PillarForCluster(slug); ok {
			return content.ClusterURL(pillar, slug) + suffix
		}
	case len(segments) == 1 && segments[0] != "":
		slug, err := NormalizeSlug(segments[0])
		if err != nil {
			break
		}
		if p, ok := lr.articles[slug]; ok {
			return p.URL() + suffix
		}
	}
	return href
}

func (lr *LinkRewriter) isBroken(href string) bool {
	if len(lr.known) == 0 {
		return false
	}
	p, ok := ParseArticlePath(href)
	if !ok {
		return false
	}
	_, exists := lr.known[p.URL()]
	return !exists
}
