package content

import (
	"fmt"
	"regexp"
	"strconv"

	"chartspoint/internal/htmltext"
)

// TOCItem is one heading in an article's table of contents.
type TOCItem struct {
	ID       string    `json:"id"`
	Text     string    `json:"text"`
	Level    int       `json:"level"`
	Children []TOCItem `json:"children,omitempty"`
}

var (
	headingPattern = regexp.MustCompile(`(?is)<h([23])(\s[^>]*)?>(.*?)</h[23]\s*>`)
	idAttrPattern  = regexp.MustCompile(`(?i)\sid\s*=\s*("([^"]*)"|'([^']*)')`)
)

// AnchorHeadings gives every h2/h3 heading a unique id attribute and returns
// the rewritten HTML together with the flat table of contents. Existing ids
// are kept unless they collide with an earlier heading.
func AnchorHeadings(fragment string) (string, []TOCItem) {
	var toc []TOCItem
	seen := make(map[string]int)

	out := headingPattern.ReplaceAllStringFunc(fragment, func(match string) string {
		sub := headingPattern.FindStringSubmatch(match)
		if len(sub) != 4 {
			return match
		}
		level, _ := strconv.Atoi(sub[1])
		attrs, inner := sub[2], sub[3]

		text := htmltext.StripTags(inner)
		if text == "" {
			return match
		}

		id := ""
		if m := idAttrPattern.FindStringSubmatch(attrs); m != nil {
			id = m[2] + m[3]
		}
		original := id
		if id == "" {
			id = htmltext.Slugify(text)
		}
		if id == "" {
			id = fmt.Sprintf("section-%d", len(toc)+1)
		}
		id = uniqueID(id, seen)

		toc = append(toc, TOCItem{ID: id, Text: text, Level: level})

		if id == original {
			return match
		}
		attrs = idAttrPattern.ReplaceAllString(attrs, "")
		return fmt.Sprintf(`<h%d id="%s"%s>%s</h%d>`, level, id, attrs, inner, level)
	})

	return out, toc
}

func uniqueID(id string, seen map[string]int) string {
	n := seen[id]
	seen[id] = n + 1
	if n == 0 {
		return id
	}
	candidate := fmt.Sprintf("%s-%d", id, n+1)
	for seen[candidate] > 0 {
		n++
		candidate = fmt.Sprintf("%s-%d", id, n+1)
	}
	seen[candidate] = 1
	return candidate
}

// ExtractTOC returns the h2/h3 headings of fragment with the ids that
// AnchorHeadings would assign.
func ExtractTOC(fragment string) []TOCItem {
	_, toc := AnchorHeadings(fragment)
	return toc
}

// NestTOC places each h3 under the closest preceding h2. Leading h3 headings
// with no parent stay at the top level.
func NestTOC(flat []TOCItem) []TOCItem {
	var nested []TOCItem
	for _, item := range flat {
		if item.Level == 3 && len(nested) > 0 && nested[len(nested)-1].Level == 2 {
			parent := &nested[len(nested)-1]
			parent.Children = append(parent.Children, item)
			continue
		}
		nested = append(nested, item)
	}
	return nested
}
