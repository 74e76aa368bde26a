package wordpress

import (
	"regexp"
	"slices"

	"chartspoint/internal/content"
	"chartspoint/internal/htmltext"
)

// Article is the view model every page template renders.
type Article struct {
	ID              int                `json:"id"`
	Title           string             `json:"title"`
	Slug            string             `json:"slug"`
	Pillar          content.PillarSlug `json:"pillar"`
	Cluster         string             `json:"cluster"`
	Excerpt         string             `json:"excerpt"`
	Content         string             `json:"content"`
	FeaturedImage   *Image             `json:"featuredImage,omitempty"`
	Author          ArticleAuthor      `json:"author"`
	PublishDate     string             `json:"publishDate"`
	ModifiedDate    string             `json:"modifiedDate"`
	WordCount       int                `json:"wordCount"`
	ReadingTime     int                `json:"readingTime"`
	ExpertiseLevel  string             `json:"expertiseLevel"`
	SEO             ArticleSEO         `json:"seo"`
	FAQs            []FAQ              `json:"faqs"`
	RelatedArticles []RelatedArticle   `json:"relatedArticles"`
	InternalLinks   []InternalLink     `json:"internalLinks"`
	EEAT            *ArticleEEAT       `json:"eeat,omitempty"`
}

// Image is an article's featured image.
type Image struct {
	URL    string `json:"url"`
	Alt    string `json:"alt"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ArticleAuthor is the byline of an article.
type ArticleAuthor struct {
	Name   string `json:"name"`
	Bio    string `json:"bio"`
	Avatar string `json:"avatar"`
	Slug   string `json:"slug"`
}

// ArticleSEO is the head metadata of an article.
type ArticleSEO struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Canonical   string   `json:"canonical"`
	OGImage     string   `json:"ogImage,omitempty"`
	Schema      string   `json:"schema,omitempty"`
	Robots      []string `json:"robots"`
	NoIndex     bool     `json:"noIndex"`
	NoFollow    bool     `json:"noFollow"`
}

// RelatedArticle is a card linking to another article.
type RelatedArticle struct {
	Title   string             `json:"title"`
	Slug    string             `json:"slug"`
	Pillar  content.PillarSlug `json:"pillar"`
	Cluster string             `json:"cluster"`
	Excerpt string             `json:"excerpt"`
	Image   string             `json:"image,omitempty"`
}

// InternalLink is an editor-declared link from the article.
type InternalLink struct {
	URL        string           `json:"url"`
	AnchorText string           `json:"anchorText"`
	Type       content.LinkType `json:"type"`
}

// ArticleEEAT is the trust box of an article.
type ArticleEEAT struct {
	AuthorExpertise string `json:"authorExpertise"`
	Credentials     string `json:"credentials"`
	ReviewProcess   string `json:"reviewProcess"`
	Sources         string `json:"sources"`
}

// Path returns where the article lives in the site tree.
func (a Article) Path() content.ArticlePath {
	return content.ArticlePath{Pillar: a.Pillar, Cluster: a.Cluster, Slug: a.Slug}
}

// Related returns the card form of the article.
func (a Article) Related() RelatedArticle {
	r := RelatedArticle{
		Title:   a.Title,
		Slug:    a.Slug,
		Pillar:  a.Pillar,
		Cluster: a.Cluster,
		Excerpt: a.Excerpt,
	}
	if a.FeaturedImage != nil {
		r.Image = a.FeaturedImage.URL
	}
	return r
}

// ResolveSection places a post in the site tree from its categories. The
// first category that is a known cluster decides both pillar and cluster; a
// pillar category seen before that sets the pillar alone.
func ResolveSection(categories []Category) (content.PillarSlug, string) {
	pillar, cluster := content.LegacyPillar, content.GeneralCluster
	for _, c := range categories {
		if info, ok := content.ClusterInfo(c.Slug); ok {
			return info.Pillar, info.Slug
		}
		if content.IsPillarCategory(c.ID) {
			pillar = content.PillarSlug(c.Slug)
		}
	}
	return pillar, cluster
}

var (
	h1Open  = regexp.MustCompile(`(?i)<h1`)
	h1Close = regexp.MustCompile(`(?i)</h1>`)
)

// demoteH1 keeps the page title the only h1.
func demoteH1(html string) string {
	return h1Close.ReplaceAllString(h1Open.ReplaceAllString(html, "<h2"), "</h2>")
}

func imageFromMedia(m *Media) *Image {
	if m == nil {
		return nil
	}
	return &Image{URL: m.SourceURL, Alt: m.AltText, Width: m.Width, Height: m.Height}
}

// TransformToArticle converts a post into the article view model.
func TransformToArticle(post Post) Article {
	pillar, cluster := ResolveSection(post.Categories)

	wordCount, readingTime, expertise := 0, 0, ""
	if post.ACF != nil {
		wordCount = post.ACF.WordCount
		readingTime = post.ACF.ReadingTime
		expertise = post.ACF.ExpertiseLevel
	}
	if wordCount == 0 {
		wordCount = htmltext.WordCount(htmltext.StripTags(post.Content))
	}
	if readingTime == 0 {
		readingTime = htmltext.ReadingMinutes(wordCount)
	}
	if expertise == "" {
		expertise = DefaultExpertise
	}

	authorName := post.Author.Name
	if authorName == "" {
		authorName = DefaultAuthorName
	}

	a := Article{
		ID:            post.ID,
		Title:         htmltext.DecodeEntities(post.Title),
		Slug:          post.Slug,
		Pillar:        pillar,
		Cluster:       cluster,
		Excerpt:       htmltext.StripTags(post.Excerpt),
		Content:       demoteH1(post.Content),
		FeaturedImage: imageFromMedia(post.FeaturedMedia),
		Author: ArticleAuthor{
			Name:   authorName,
			Bio:    post.Author.Description,
			Avatar: post.Author.AvatarURL,
			Slug:   post.Author.Slug,
		},
		PublishDate:     post.Date,
		ModifiedDate:    post.Modified,
		WordCount:       wordCount,
		ReadingTime:     readingTime,
		ExpertiseLevel:  expertise,
		SEO:             articleSEO(post.SEO),
		FAQs:            []FAQ{},
		RelatedArticles: []RelatedArticle{},
		InternalLinks:   []InternalLink{},
	}

	if acf := post.ACF; acf != nil {
		a.FAQs = append(a.FAQs, acf.FAQItems...)
		for _, l := range acf.InternalLinks {
			a.InternalLinks = append(a.InternalLinks, InternalLink{
				URL:        l.URL,
				AnchorText: l.AnchorText,
				Type:       content.LinkType(l.LinkType),
			})
		}
		if e := acf.EEAT; e != nil {
			a.EEAT = &ArticleEEAT{
				AuthorExpertise: e.AuthorExpertise,
				Credentials:     e.Credentials,
				ReviewProcess:   e.ReviewProcess,
				Sources:         e.SourcesMethodology,
			}
		}
	}

	return a
}

// articleSEO takes Rank Math values as they are, with no fallbacks.
func articleSEO(s *SEO) ArticleSEO {
	out := ArticleSEO{Robots: []string{}}
	if s == nil {
		return out
	}
	out.Title = s.Title
	out.Description = s.Description
	out.Canonical = s.Canonical
	out.OGImage = s.OGImage
	out.Schema = s.Schema
	if s.Robots != nil {
		out.Robots = s.Robots
	}
	out.NoIndex = slices.Contains(out.Robots, "noindex")
	out.NoFollow = slices.Contains(out.Robots, "nofollow")
	return out
}

// TransformAuthorPostToArticle builds a card-only article from an author
// listing entry; it has no body.
func TransformAuthorPostToArticle(post AuthorPost, author Author) Article {
	pillar, cluster := ResolveSection(post.Categories)
	return Article{
		ID:            post.DatabaseID,
		Title:         htmltext.DecodeEntities(post.Title),
		Slug:          post.Slug,
		Pillar:        pillar,
		Cluster:       cluster,
		Excerpt:       htmltext.StripTags(post.Excerpt),
		FeaturedImage: imageFromMedia(post.FeaturedMedia),
		Author: ArticleAuthor{
			Name:   author.Name,
			Bio:    author.Description,
			Avatar: author.AvatarURL,
			Slug:   author.Slug,
		},
		PublishDate:     post.Date,
		ModifiedDate:    post.Date,
		ReadingTime:     defaultReadingTime,
		ExpertiseLevel:  DefaultExpertise,
		SEO:             ArticleSEO{Robots: []string{}},
		FAQs:            []FAQ{},
		RelatedArticles: []RelatedArticle{},
		InternalLinks:   []InternalLink{},
	}
}
