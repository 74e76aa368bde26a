package wordpress

// Wire shapes of WPGraphQL responses. Nullable objects are pointers; JSON
// null scalars decode to zero values.

type gqlAvatar struct {
	URL string `json:"url"`
}

type gqlAuthorNode struct {
	DatabaseID  int        `json:"databaseId"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	Avatar      *gqlAvatar `json:"avatar"`
}

type gqlAuthorEdge struct {
	Node *gqlAuthorNode `json:"node"`
}

type gqlMediaDetails struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type gqlImageNode struct {
	SourceURL    string           `json:"sourceUrl"`
	AltText      string           `json:"altText"`
	MediaDetails *gqlMediaDetails `json:"mediaDetails"`
}

type gqlImageEdge struct {
	Node *gqlImageNode `json:"node"`
}

type gqlTerm struct {
	DatabaseID       int    `json:"databaseId"`
	Slug             string `json:"slug"`
	Name             string `json:"name"`
	ParentDatabaseID int    `json:"parentDatabaseId"`
}

type gqlTerms struct {
	Nodes []gqlTerm `json:"nodes"`
}

type gqlArticleMeta struct {
	WordCount      int    `json:"wordCount"`
	ReadingTime    int    `json:"readingTime"`
	PrimaryKeyword string `json:"primaryKeyword"`
	ExpertiseLevel string `json:"expertiseLevel"`
}

type gqlFAQ struct {
	FAQItems []FAQ `json:"faqItems"`
}

type gqlInternalLink struct {
	URL        string `json:"url"`
	AnchorText string `json:"anchorText"`
	LinkType   string `json:"linkType"`
}

type gqlInternalLinks struct {
	Links []gqlInternalLink `json:"links"`
}

type gqlEEAT struct {
	AuthorExpertise   string `json:"authorExpertise"`
	Credentials       string `json:"credentials"`
	ReviewProcess     string `json:"reviewProcess"`
	SourceMethodology string `json:"sourceMethodology"`
}

type gqlSEO struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	CanonicalURL string   `json:"canonicalUrl"`
	Robots       []string `json:"robots"`
	OpenGraph    *struct {
		Image *struct {
			URL string `json:"url"`
		} `json:"image"`
	} `json:"openGraph"`
	JSONLD *struct {
		Raw string `json:"raw"`
	} `json:"jsonLd"`
}

type gqlPost struct {
	ID            string         `json:"id"`
	DatabaseID    int            `json:"databaseId"`
	Slug          string         `json:"slug"`
	Title         string         `json:"title"`
	Date          string         `json:"date"`
	Modified      string         `json:"modified"`
	Content       string         `json:"content"`
	Excerpt       string         `json:"excerpt"`
	Status        string         `json:"status"`
	Author        *gqlAuthorEdge `json:"author"`
	FeaturedImage *gqlImageEdge  `json:"featuredImage"`
	Categories    gqlTerms       `json:"categories"`
	Tags          gqlTerms       `json:"tags"`

	ArticleMeta   *gqlArticleMeta   `json:"acfArticleMeta"`
	FAQ           *gqlFAQ           `json:"acfFaq"`
	InternalLinks *gqlInternalLinks `json:"acfInternalLinks"`
	EEAT          *gqlEEAT          `json:"acfEeat"`
	SEO           *gqlSEO           `json:"seo"`
}

type gqlPageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type gqlPostConnection struct {
	PageInfo gqlPageInfo `json:"pageInfo"`
	Nodes    []gqlPost   `json:"nodes"`
}

type gqlPostsResponse struct {
	Posts gqlPostConnection `json:"posts"`
}

type gqlPostResponse struct {
	Post *gqlPost `json:"post"`
}

type gqlCategory struct {
	DatabaseID       int    `json:"databaseId"`
	Slug             string `json:"slug"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Count            int    `json:"count"`
	ParentDatabaseID int    `json:"parentDatabaseId"`
}

type gqlCategoriesResponse struct {
	Categories struct {
		Nodes []gqlCategory `json:"nodes"`
	} `json:"categories"`
}

type gqlCategoryResponse struct {
	Category *gqlCategory `json:"category"`
}

type gqlPage struct {
	ID            string        `json:"id"`
	DatabaseID    int           `json:"databaseId"`
	Slug          string        `json:"slug"`
	Title         string        `json:"title"`
	Content       string        `json:"content"`
	Date          string        `json:"date"`
	Modified      string        `json:"modified"`
	FeaturedImage *gqlImageEdge `json:"featuredImage"`
	SEO           *gqlSEO       `json:"seo"`
}

type gqlPageResponse struct {
	Page *gqlPage `json:"page"`
}

type gqlComment struct {
	DatabaseID       int            `json:"databaseId"`
	Content          string         `json:"content"`
	Date             string         `json:"date"`
	Author           *gqlAuthorEdge `json:"author"`
	ParentDatabaseID int            `json:"parentDatabaseId"`
}

type gqlCommentsResponse struct {
	Comments struct {
		PageInfo gqlPageInfo  `json:"pageInfo"`
		Nodes    []gqlComment `json:"nodes"`
	} `json:"comments"`
}

type gqlAuthorPost struct {
	ID            string        `json:"id"`
	DatabaseID    int           `json:"databaseId"`
	Title         string        `json:"title"`
	Slug          string        `json:"slug"`
	Excerpt       string        `json:"excerpt"`
	Date          string        `json:"date"`
	Categories    gqlTerms      `json:"categories"`
	FeaturedImage *gqlImageEdge `json:"featuredImage"`
}

type gqlUser struct {
	ID          string     `json:"id"`
	DatabaseID  int        `json:"databaseId"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	URL         string     `json:"url"`
	Avatar      *gqlAvatar `json:"avatar"`
	Posts       *struct {
		Nodes []gqlAuthorPost `json:"nodes"`
	} `json:"posts"`
}

type gqlUserResponse struct {
	User *gqlUser `json:"user"`
}

type gqlUsersResponse struct {
	Users struct {
		Nodes []gqlUser `json:"nodes"`
	} `json:"users"`
}
