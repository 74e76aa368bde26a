package wordpress

import (
	"regexp"
	"strings"
)

func transformMedia(edge *gqlImageEdge, title string) *Media {
	if edge == nil || edge.Node == nil {
		return nil
	}
	node := edge.Node
	m := &Media{
		SourceURL: node.SourceURL,
		AltText:   node.AltText,
		MimeType:  defaultMediaMime,
		Width:     DefaultImageWidth,
		Height:    DefaultImageHeight,
	}
	if m.AltText == "" {
		m.AltText = title
	}
	if node.MediaDetails != nil {
		if node.MediaDetails.Width > 0 {
			m.Width = node.MediaDetails.Width
		}
		if node.MediaDetails.Height > 0 {
			m.Height = node.MediaDetails.Height
		}
	}
	return m
}

func transformEmbeddedAuthor(edge *gqlAuthorEdge) EmbeddedAuthor {
	a := EmbeddedAuthor{ID: DefaultAuthorID, Name: DefaultAuthorName}
	if edge == nil || edge.Node == nil {
		return a
	}
	node := edge.Node
	if node.DatabaseID != 0 {
		a.ID = node.DatabaseID
	}
	if node.Name != "" {
		a.Name = node.Name
	}
	a.Description = node.Description
	a.Slug = node.Slug
	if node.Avatar != nil {
		a.AvatarURL = node.Avatar.URL
	}
	return a
}

func transformTerms(terms gqlTerms) []Category {
	cats := make([]Category, 0, len(terms.Nodes))
	for _, t := range terms.Nodes {
		cats = append(cats, Category{
			ID:       t.DatabaseID,
			Name:     t.Name,
			Slug:     t.Slug,
			Taxonomy: categoryTaxonomy,
			Parent:   t.ParentDatabaseID,
		})
	}
	return cats
}

func transformTags(terms gqlTerms) []Tag {
	tags := make([]Tag, 0, len(terms.Nodes))
	for _, t := range terms.Nodes {
		tags = append(tags, Tag{ID: t.DatabaseID, Name: t.Name, Slug: t.Slug, Taxonomy: tagTaxonomy})
	}
	return tags
}

func transformACF(p gqlPost) *ACF {
	if p.ArticleMeta == nil && p.FAQ == nil && p.InternalLinks == nil && p.EEAT == nil {
		return nil
	}
	acf := &ACF{}
	if m := p.ArticleMeta; m != nil {
		acf.WordCount = m.WordCount
		acf.ReadingTime = m.ReadingTime
		acf.PrimaryKeyword = m.PrimaryKeyword
		acf.ExpertiseLevel = m.ExpertiseLevel
	}
	if p.FAQ != nil {
		acf.FAQItems = p.FAQ.FAQItems
	}
	if p.InternalLinks != nil {
		for _, l := range p.InternalLinks.Links {
			acf.InternalLinks = append(acf.InternalLinks, ACFLink{URL: l.URL, AnchorText: l.AnchorText, LinkType: l.LinkType})
		}
	}
	if e := p.EEAT; e != nil {
		acf.EEAT = &EEAT{
			AuthorExpertise:    e.AuthorExpertise,
			Credentials:        e.Credentials,
			ReviewProcess:      e.ReviewProcess,
			SourcesMethodology: e.SourceMethodology,
		}
	}
	return acf
}

var scriptWrapper = regexp.MustCompile(`(?is)^\s*<script[^>]*>(.*)</script>\s*$`)

// schemaJSON unwraps the JSON-LD document Rank Math returns inside a script tag.
func schemaJSON(raw string) string {
	if m := scriptWrapper.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(raw)
}

// transformSEO maps Rank Math fields. fallbackTitle fills empty titles and is
// empty for posts, whose SEO has no fallbacks.
func transformSEO(s *gqlSEO, fallbackTitle string) *SEO {
	if s == nil {
		return nil
	}
	seo := &SEO{
		Title:         s.Title,
		Description:   s.Description,
		Canonical:     s.CanonicalURL,
		OGTitle:       s.Title,
		OGDescription: s.Description,
		Robots:        s.Robots,
	}
	if seo.Title == "" {
		seo.Title = fallbackTitle
		seo.OGTitle = fallbackTitle
	}
	if s.OpenGraph != nil && s.OpenGraph.Image != nil {
		seo.OGImage = s.OpenGraph.Image.URL
	}
	if s.JSONLD != nil {
		seo.Schema = schemaJSON(s.JSONLD.Raw)
	}
	return seo
}

func (s *Service) transformPost(p gqlPost) Post {
	author := transformEmbeddedAuthor(p.Author)
	return Post{
		ID:            p.DatabaseID,
		Date:          p.Date,
		Modified:      p.Modified,
		Slug:          p.Slug,
		Status:        publishStatus,
		Type:          "post",
		Link:          s.cmsURL + "/" + p.Slug,
		Title:         p.Title,
		Content:       p.Content,
		Excerpt:       p.Excerpt,
		AuthorID:      author.ID,
		Author:        author,
		FeaturedMedia: transformMedia(p.FeaturedImage, p.Title),
		Categories:    transformTerms(p.Categories),
		Tags:          transformTags(p.Tags),
		ACF:           transformACF(p),
		SEO:           transformSEO(p.SEO, ""),
	}
}

func (s *Service) transformPosts(nodes []gqlPost) []Post {
	posts := make([]Post, 0, len(nodes))
	for _, n := range nodes {
		posts = append(posts, s.transformPost(n))
	}
	return posts
}

func (s *Service) transformCategory(c gqlCategory) Category {
	return Category{
		ID:          c.DatabaseID,
		Count:       c.Count,
		Description: c.Description,
		Link:        s.cmsURL + "/category/" + c.Slug,
		Name:        c.Name,
		Slug:        c.Slug,
		Taxonomy:    categoryTaxonomy,
		Parent:      c.ParentDatabaseID,
	}
}

func (s *Service) transformPage(p gqlPage) Page {
	return Page{
		ID:            p.DatabaseID,
		Date:          p.Date,
		Modified:      p.Modified,
		Slug:          p.Slug,
		Status:        publishStatus,
		Type:          "page",
		Link:          s.cmsURL + "/" + p.Slug,
		Title:         p.Title,
		Content:       p.Content,
		AuthorID:      DefaultAuthorID,
		CommentStatus: closedCommentStatus,
		FeaturedMedia: transformMedia(p.FeaturedImage, p.Title),
		SEO:           transformSEO(p.SEO, p.Title),
	}
}

func transformComment(c gqlComment, postID int) Comment {
	out := Comment{
		ID:         c.DatabaseID,
		PostID:     postID,
		Parent:     c.ParentDatabaseID,
		AuthorName: AnonymousCommenter,
		Date:       c.Date,
		Content:    c.Content,
		Status:     approvedStatus,
		Type:       "comment",
	}
	if c.Author != nil && c.Author.Node != nil {
		if c.Author.Node.Name != "" {
			out.AuthorName = c.Author.Node.Name
		}
		if c.Author.Node.Avatar != nil {
			out.AvatarURL = c.Author.Node.Avatar.URL
		}
	}
	return out
}

func transformAuthorPost(p gqlAuthorPost) AuthorPost {
	return AuthorPost{
		ID:            p.ID,
		DatabaseID:    p.DatabaseID,
		Title:         p.Title,
		Slug:          p.Slug,
		Excerpt:       p.Excerpt,
		Date:          p.Date,
		Categories:    transformTerms(p.Categories),
		FeaturedMedia: transformMedia(p.FeaturedImage, p.Title),
	}
}

func transformUser(u gqlUser) Author {
	a := Author{
		ID:          u.ID,
		DatabaseID:  u.DatabaseID,
		Name:        u.Name,
		Slug:        u.Slug,
		Description: u.Description,
		URL:         u.URL,
		Posts:       []AuthorPost{},
	}
	if u.Avatar != nil {
		a.AvatarURL = u.Avatar.URL
	}
	if u.Posts != nil {
		for _, p := range u.Posts.Nodes {
			a.Posts = append(a.Posts, transformAuthorPost(p))
		}
	}
	return a
}
