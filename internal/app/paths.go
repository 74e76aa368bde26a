package app

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"chartspoint/internal/content"
	"chartspoint/internal/htmltext"
)

var hyphenRun = regexp.MustCompile(`-+`)

// NormalizeSlug turns a raw (possibly percent-encoded) path segment into the
// canonical slug. Arabic letters are kept; ASCII letters are lowercased.
func NormalizeSlug(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if decoded, err := url.PathUnescape(trimmed); err == nil {
		trimmed = decoded
	}
	if strings.ContainsAny(trimmed, "/\\?&:#'\"") || strings.Contains(trimmed, "..") {
		return "", errors.New("slug contains invalid path characters")
	}

	trimmed = htmltext.StripDiacritics(trimmed)

	var b strings.Builder
	b.Grow(len(trimmed))
	for _, r := range trimmed {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		case r == '-' || r == '_' || unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			// drop punctuation and symbols
		}
	}

	slug := strings.Trim(hyphenRun.ReplaceAllString(b.String(), "-"), "-")
	if slug == "" {
		return "", errors.New("empty slug")
	}
	return slug, nil
}

// SlugTitle converts a slug into a readable fallback title.
func SlugTitle(slug string) string {
	parts := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' })
	for i, part := range parts {
		r := []rune(part)
		r[0] = unicode.ToUpper(r[0])
		parts[i] = string(r)
	}
	return strings.Join(parts, " ")
}

// ParseArticlePath recognises /{pillar}/{cluster}/{slug}/ URLs. Query strings
// and fragments are ignored; the legacy pillar is accepted.
func ParseArticlePath(raw string) (content.ArticlePath, bool) {
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	segments := strings.Split(strings.Trim(raw, "/"), "/")
	if len(segments) != 3 {
		return content.ArticlePath{}, false
	}

	pillar := content.PillarSlug(segments[0])
	if !content.IsValidPillar(segments[0]) && pillar != content.LegacyPillar {
		return content.ArticlePath{}, false
	}

	cluster, err := NormalizeSlug(segments[1])
	if err != nil {
		return content.ArticlePath{}, false
	}
	slug, err := NormalizeSlug(segments[2])
	if err != nil {
		return content.ArticlePath{}, false
	}
	return content.ArticlePath{Pillar: pillar, Cluster: cluster, Slug: slug}, true
}
