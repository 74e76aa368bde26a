package wordpress

// Defaults applied when the CMS leaves a field empty.
const (
	DefaultAuthorID     = 1
	DefaultAuthorName   = "فريق تشارتس بوينت"
	AnonymousCommenter  = "مجهول"
	DefaultImageWidth   = 1200
	DefaultImageHeight  = 630
	DefaultCMSBaseURL   = "https://cms.chartspoint.com"
	DefaultExpertise    = "beginner"
	defaultReadingTime  = 5
	categoryTaxonomy    = "category"
	tagTaxonomy         = "post_tag"
	defaultMediaMime    = "image/jpeg"
	publishStatus       = "publish"
	approvedStatus      = "approved"
	closedCommentStatus = "closed"
)

// Post is a published post normalized from WPGraphQL.
type Post struct {
	ID            int            `json:"id"`
	Date          string         `json:"date"`
	Modified      string         `json:"modified"`
	Slug          string         `json:"slug"`
	Status        string         `json:"status"`
	Type          string         `json:"type"`
	Link          string         `json:"link"`
	Title         string         `json:"title"`
	Content       string         `json:"content"`
	Excerpt       string         `json:"excerpt"`
	AuthorID      int            `json:"author"`
	Author        EmbeddedAuthor `json:"embeddedAuthor"`
	FeaturedMedia *Media         `json:"featuredMedia,omitempty"`
	Categories    []Category     `json:"categories"`
	Tags          []Tag          `json:"tags"`
	ACF           *ACF           `json:"acf,omitempty"`
	SEO           *SEO           `json:"seo,omitempty"`
}

// EmbeddedAuthor is the author summary attached to a post.
type EmbeddedAuthor struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Slug        string `json:"slug"`
	AvatarURL   string `json:"avatar"`
}

// Media is a featured image.
type Media struct {
	SourceURL string `json:"sourceUrl"`
	AltText   string `json:"alt"`
	MimeType  string `json:"mimeType"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// Category is a WordPress category term.
type Category struct {
	ID          int    `json:"id"`
	Count       int    `json:"count"`
	Description string `json:"description"`
	Link        string `json:"link"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Taxonomy    string `json:"taxonomy"`
	Parent      int    `json:"parent"`
}

// Tag is a WordPress tag term.
type Tag struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Taxonomy string `json:"taxonomy"`
}

// Page is a static CMS page.
type Page struct {
	ID            int    `json:"id"`
	Date          string `json:"date"`
	Modified      string `json:"modified"`
	Slug          string `json:"slug"`
	Status        string `json:"status"`
	Type          string `json:"type"`
	Link          string `json:"link"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	Excerpt       string `json:"excerpt"`
	AuthorID      int    `json:"author"`
	CommentStatus string `json:"commentStatus"`
	FeaturedMedia *Media `json:"featuredMedia,omitempty"`
	SEO           *SEO   `json:"seo,omitempty"`
}

// Comment is an approved comment on a post.
type Comment struct {
	ID         int    `json:"id"`
	PostID     int    `json:"post"`
	Parent     int    `json:"parent"`
	AuthorName string `json:"authorName"`
	AvatarURL  string `json:"avatar"`
	Date       string `json:"date"`
	Content    string `json:"content"`
	Status     string `json:"status"`
	Type       string `json:"type"`
}

// Author is a CMS user with their published posts.
type Author struct {
	ID          string       `json:"id"`
	DatabaseID  int          `json:"databaseId"`
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	Description string       `json:"description"`
	URL         string       `json:"url,omitempty"`
	AvatarURL   string       `json:"avatar"`
	Posts       []AuthorPost `json:"posts"`
}

// AuthorSummary identifies an author for path generation.
type AuthorSummary struct {
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	DatabaseID int    `json:"databaseId"`
}

// AuthorPost is the abbreviated post listed on an author page.
type AuthorPost struct {
	ID            string     `json:"id"`
	DatabaseID    int        `json:"databaseId"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt"`
	Date          string     `json:"date"`
	Categories    []Category `json:"categories"`
	FeaturedMedia *Media     `json:"featuredMedia,omitempty"`
}

// FAQ is one question/answer pair.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ACFLink is an editor-declared internal link.
type ACFLink struct {
	URL        string `json:"url"`
	AnchorText string `json:"anchorText"`
	LinkType   string `json:"linkType"`
}

// EEAT carries the experience/expertise/authority/trust fields.
type EEAT struct {
	AuthorExpertise    string `json:"authorExpertise"`
	Credentials        string `json:"credentials"`
	ReviewProcess      string `json:"reviewProcess"`
	SourcesMethodology string `json:"sourcesMethodology"`
}

// ACF holds the custom fields a post may carry.
type ACF struct {
	WordCount      int       `json:"wordCount"`
	ReadingTime    int       `json:"readingTime"`
	PrimaryKeyword string    `json:"primaryKeyword"`
	ExpertiseLevel string    `json:"expertiseLevel"`
	FAQItems       []FAQ     `json:"faqItems"`
	InternalLinks  []ACFLink `json:"internalLinks"`
	EEAT           *EEAT     `json:"eeat,omitempty"`
}

// SEO is the Rank Math metadata of a post or page.
type SEO struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Canonical     string   `json:"canonical"`
	OGTitle       string   `json:"ogTitle"`
	OGDescription string   `json:"ogDescription"`
	OGImage       string   `json:"ogImage,omitempty"`
	Schema        string   `json:"schema,omitempty"`
	Robots        []string `json:"robots"`
}

// Pagination describes a page of a connection.
type Pagination struct {
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// Paginated is one page of results.
type Paginated[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

func emptyPage[T any]() Paginated[T] {
	return Paginated[T]{Data: []T{}}
}

func paginate[T any](items []T, hasNext bool, page int) Paginated[T] {
	totalPages := page
	if hasNext {
		totalPages = page + 1
	}
	return Paginated[T]{
		Data:       items,
		Pagination: Pagination{TotalItems: len(items), TotalPages: totalPages},
	}
}
