package htmltext

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const tatweel = 'ـ'

// hamza and madda marks recompose into their letters under NFC and are kept
var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.Predicate(func(r rune) bool {
	return unicode.Is(unicode.Mn, r) && (r < 0x0653 || r > 0x0655)
})), norm.NFC)

// StripDiacritics removes combining marks (Arabic harakat, Latin accents) and
// the Arabic tatweel so that visually equal words compare equal.
func StripDiacritics(s string) string {
	stripped, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		stripped = s
	}
	return strings.Map(func(r rune) rune {
		if r == tatweel {
			return -1
		}
		return r
	}, stripped)
}

var (
	slugDisallowed = regexp.MustCompile(`[^\w\x{0600}-\x{06FF}-]`)
	slugDashes     = regexp.MustCompile(`-+`)
	slugSpaces     = regexp.MustCompile(`\s+`)
)

// Slugify builds an anchor id from heading text. Everything in the Arabic
// block is kept, harakat included, so ids match links authored in the CMS.
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugDisallowed.ReplaceAllString(s, "")
	s = slugDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
