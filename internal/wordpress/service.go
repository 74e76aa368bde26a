package wordpress

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"chartspoint/internal/content"
)

// Default page sizes of the service operations.
const (
	DefaultPerPage         = 100
	DefaultPillarPerPage   = 50
	DefaultClusterPerPage  = 20
	DefaultCommentsPerPage = 50
	DefaultSearchPerPage   = 10
	DefaultRelatedLimit    = 4
	pathsBatchSize         = 100
)

// ServiceConfig configures a Service.
type ServiceConfig struct {
	// CMSBaseURL prefixes post, page and category links.
	CMSBaseURL string
	Features   Features
	Logger     *zap.Logger
}

// Service exposes the CMS content operations. Every operation logs its
// failure and returns an empty result together with the error, so callers
// that only render can ignore the error.
type Service struct {
	client  *Client
	cmsURL  string
	queries queries
	logger  *zap.Logger
}

// NewService wraps client.
func NewService(client *Client, cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cmsURL := strings.TrimRight(cfg.CMSBaseURL, "/")
	if cmsURL == "" {
		cmsURL = DefaultCMSBaseURL
	}
	return &Service{
		client:  client,
		cmsURL:  cmsURL,
		queries: buildQueries(cfg.Features),
		logger:  logger.Named("wordpress"),
	}
}

// ClearCache drops one cached response, or all of them when key is empty.
func (s *Service) ClearCache(key string) {
	s.client.ClearCache(key)
}

func (s *Service) fetchPosts(ctx context.Context, query string, vars map[string]any, perPage, page int) (Paginated[Post], error) {
	vars["first"] = perPage
	vars["after"] = after(page, perPage)

	var resp gqlPostsResponse
	if err := s.client.Execute(ctx, query, vars, false, &resp); err != nil {
		return emptyPage[Post](), err
	}
	return paginate(s.transformPosts(resp.Posts.Nodes), resp.Posts.PageInfo.HasNextPage, page), nil
}

// AllPosts returns one page of published posts.
func (s *Service) AllPosts(ctx context.Context, perPage, page int) (Paginated[Post], error) {
	res, err := s.fetchPosts(ctx, s.queries.posts, map[string]any{}, perPage, page)
	if err != nil {
		s.logger.Error("error fetching all posts", zap.Error(err))
	}
	return res, err
}

// PostsByPillar returns posts filed under any cluster of pillar.
func (s *Service) PostsByPillar(ctx context.Context, pillar content.PillarSlug, perPage, page int) (Paginated[Post], error) {
	ids := content.ClusterCategoryIDsForPillar(pillar)
	if len(ids) == 0 {
		err := fmt.Errorf("no clusters found for pillar: %s", pillar)
		s.logger.Error("unknown pillar", zap.String("pillar", string(pillar)))
		return emptyPage[Post](), err
	}

	categoryIn := make([]string, 0, len(ids))
	for _, id := range ids {
		categoryIn = append(categoryIn, strconv.Itoa(id))
	}

	res, err := s.fetchPosts(ctx, s.queries.postsByCategories, map[string]any{"categoryIn": categoryIn}, perPage, page)
	if err != nil {
		s.logger.Error("error fetching posts for pillar", zap.String("pillar", string(pillar)), zap.Error(err))
	}
	return res, err
}

// PostsByCluster returns posts filed under cluster.
func (s *Service) PostsByCluster(ctx context.Context, cluster string, perPage, page int) (Paginated[Post], error) {
	id, ok := content.ClusterCategoryIDs[cluster]
	if !ok {
		err := fmt.Errorf("unknown cluster: %s", cluster)
		s.logger.Error("unknown cluster", zap.String("cluster", cluster))
		return emptyPage[Post](), err
	}

	res, err := s.fetchPosts(ctx, s.queries.postsByCategory, map[string]any{"categoryId": id}, perPage, page)
	if err != nil {
		s.logger.Error("error fetching posts for cluster", zap.String("cluster", cluster), zap.Error(err))
	}
	return res, err
}

// SearchPosts runs a full-text search over published posts.
func (s *Service) SearchPosts(ctx context.Context, query string, perPage, page int) (Paginated[Post], error) {
	res, err := s.fetchPosts(ctx, s.queries.search, map[string]any{"search": query}, perPage, page)
	if err != nil {
		s.logger.Error("error searching posts", zap.String("query", query), zap.Error(err))
	}
	return res, err
}

// PostBySlug returns the post with slug, or nil when it does not exist.
func (s *Service) PostBySlug(ctx context.Context, slug string) (*Post, error) {
	var resp gqlPostResponse
	if err := s.client.Execute(ctx, s.queries.postBySlug, map[string]any{"slug": slug}, false, &resp); err != nil {
		s.logger.Error("error fetching post", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}
	if resp.Post == nil {
		return nil, nil
	}
	post := s.transformPost(*resp.Post)
	return &post, nil
}

// AllPostPaths walks every published post and returns its site path. Any
// failure discards the partial result.
func (s *Service) AllPostPaths(ctx context.Context) ([]content.ArticlePath, error) {
	var paths []content.ArticlePath
	var cursor any

	for {
		var resp gqlPostsResponse
		vars := map[string]any{"first": pathsBatchSize, "after": cursor}
		if err := s.client.Execute(ctx, s.queries.posts, vars, false, &resp); err != nil {
			s.logger.Error("error fetching all post paths", zap.Error(err))
			return []content.ArticlePath{}, err
		}

		for _, node := range resp.Posts.Nodes {
			pillar, cluster := ResolveSection(transformTerms(node.Categories))
			paths = append(paths, content.ArticlePath{Pillar: pillar, Cluster: cluster, Slug: node.Slug})
		}

		info := resp.Posts.PageInfo
		if !info.HasNextPage || info.EndCursor == "" || info.EndCursor == cursor {
			break
		}
		cursor = info.EndCursor
	}

	if paths == nil {
		paths = []content.ArticlePath{}
	}
	return paths, nil
}

// AllCategories returns up to 100 categories.
func (s *Service) AllCategories(ctx context.Context) ([]Category, error) {
	var resp gqlCategoriesResponse
	if err := s.client.Execute(ctx, s.queries.categories, nil, false, &resp); err != nil {
		s.logger.Error("error fetching categories", zap.Error(err))
		return []Category{}, err
	}
	cats := make([]Category, 0, len(resp.Categories.Nodes))
	for _, c := range resp.Categories.Nodes {
		cats = append(cats, s.transformCategory(c))
	}
	return cats, nil
}

// CategoryBySlug returns the category with slug, or nil.
func (s *Service) CategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	var resp gqlCategoryResponse
	if err := s.client.Execute(ctx, s.queries.categoryBySlug, map[string]any{"slug": slug}, false, &resp); err != nil {
		s.logger.Error("error fetching category", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}
	if resp.Category == nil {
		return nil, nil
	}
	c := s.transformCategory(*resp.Category)
	return &c, nil
}

// ChildCategories returns the categories whose parent is parentID.
func (s *Service) ChildCategories(ctx context.Context, parentID int) ([]Category, error) {
	all, err := s.AllCategories(ctx)
	children := []Category{}
	for _, c := range all {
		if c.Parent == parentID {
			children = append(children, c)
		}
	}
	return children, err
}

// PillarCategories is a pillar category with its child clusters.
type PillarCategories struct {
	Pillar   Category   `json:"pillar"`
	Clusters []Category `json:"clusters"`
}

// CategoriesHierarchy groups the CMS categories by pillar. Pillars whose
// category is missing from the CMS are left out.
func (s *Service) CategoriesHierarchy(ctx context.Context) (map[content.PillarSlug]PillarCategories, error) {
	all, err := s.AllCategories(ctx)
	hierarchy := make(map[content.PillarSlug]PillarCategories)
	if err != nil {
		return hierarchy, err
	}

	for _, slug := range content.PillarOrder {
		pillarID := content.PillarCategoryIDs[slug]
		var entry *PillarCategories
		for _, c := range all {
			if c.ID == pillarID {
				entry = &PillarCategories{Pillar: c, Clusters: []Category{}}
				break
			}
		}
		if entry == nil {
			continue
		}
		for _, c := range all {
			if c.Parent == pillarID {
				entry.Clusters = append(entry.Clusters, c)
			}
		}
		hierarchy[slug] = *entry
	}
	return hierarchy, nil
}

// PageBySlug returns the static page at uri slug, or nil.
func (s *Service) PageBySlug(ctx context.Context, slug string) (*Page, error) {
	var resp gqlPageResponse
	if err := s.client.Execute(ctx, s.queries.pageBySlug, map[string]any{"slug": slug}, false, &resp); err != nil {
		s.logger.Error("error fetching page", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}
	if resp.Page == nil {
		return nil, nil
	}
	p := s.transformPage(*resp.Page)
	return &p, nil
}

// CommentsByPost returns approved comments of a post.
func (s *Service) CommentsByPost(ctx context.Context, postID, perPage, page int) (Paginated[Comment], error) {
	vars := map[string]any{
		"postId": strconv.Itoa(postID),
		"first":  perPage,
		"after":  after(page, perPage),
	}
	var resp gqlCommentsResponse
	if err := s.client.Execute(ctx, s.queries.comments, vars, false, &resp); err != nil {
		s.logger.Error("error fetching comments", zap.Int("post", postID), zap.Error(err))
		return emptyPage[Comment](), err
	}

	comments := make([]Comment, 0, len(resp.Comments.Nodes))
	for _, c := range resp.Comments.Nodes {
		comments = append(comments, transformComment(c, postID))
	}
	return paginate(comments, resp.Comments.PageInfo.HasNextPage, page), nil
}

// RelatedPosts returns up to limit other posts from the same cluster.
func (s *Service) RelatedPosts(ctx context.Context, postID int, cluster string, limit int) ([]Post, error) {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	res, err := s.PostsByCluster(ctx, cluster, limit+1, 1)
	related := make([]Post, 0, limit)
	for _, p := range res.Data {
		if p.ID == postID {
			continue
		}
		if len(related) == limit {
			break
		}
		related = append(related, p)
	}
	return related, err
}

// AuthorBySlug returns an author with up to 50 published posts, or nil.
func (s *Service) AuthorBySlug(ctx context.Context, slug string) (*Author, error) {
	var resp gqlUserResponse
	if err := s.client.Execute(ctx, s.queries.authorBySlug, map[string]any{"slug": slug}, false, &resp); err != nil {
		s.logger.Error("error fetching author", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}
	if resp.User == nil {
		return nil, nil
	}
	a := transformUser(*resp.User)
	return &a, nil
}

// AllAuthors lists up to 100 authors.
func (s *Service) AllAuthors(ctx context.Context) ([]AuthorSummary, error) {
	var resp gqlUsersResponse
	if err := s.client.Execute(ctx, s.queries.allAuthors, nil, false, &resp); err != nil {
		s.logger.Error("error fetching authors", zap.Error(err))
		return []AuthorSummary{}, err
	}
	authors := make([]AuthorSummary, 0, len(resp.Users.Nodes))
	for _, u := range resp.Users.Nodes {
		authors = append(authors, AuthorSummary{Slug: u.Slug, Name: u.Name, DatabaseID: u.DatabaseID})
	}
	return authors, nil
}
