package app

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"chartspoint/internal/content"
	"chartspoint/internal/wordpress"
)

type ctxKey int8

const ctxKeyLogger ctxKey = iota

// LoggerFrom returns the request-scoped logger stored by the server.
func LoggerFrom(ctx context.Context) *zap.SugaredLogger {
	if l, ok := ctx.Value(ctxKeyLogger).(*zap.SugaredLogger); ok {
		return l
	}
	return zap.NewNop().Sugar()
}

// Server is the live preview of the site: the same pages the builder
// writes, rendered on request.
type Server struct {
	site        *Site
	cfg         Config
	logger      *zap.Logger
	router      chi.Router
	renderGroup singleflight.Group
}

// NewServer constructs an HTTP handler serving the site.
func NewServer(site *Site, cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{site: site, cfg: cfg, logger: logger.Named("server")}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(pageTimeout(cfg.RequestTimeout)))

	r.Get("/healthz", s.handleHealth)
	r.Get("/robots.txt", s.handleRobots)
	r.Get("/sitemap.xml", s.handleSitemap)
	r.Get("/search", s.handleSearch)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/search", s.apiSearch)
		r.Post("/cache/clear", s.apiClearCache)
	})

	r.Get("/", s.page(func(r *http.Request) (Rendered, error) {
		return s.site.Home(r.Context())
	}))
	r.Get("/authors/{author}/", s.page(func(r *http.Request) (Rendered, error) {
		return s.site.Author(r.Context(), param(r, "author"))
	}))
	r.Get("/{pillar}/", s.page(func(r *http.Request) (Rendered, error) {
		slug := param(r, "pillar")
		if content.IsValidPillar(slug) {
			return s.site.Pillar(r.Context(), slug)
		}
		return s.site.StaticPage(r.Context(), slug)
	}))
	r.Get("/{pillar}/{cluster}/", s.page(func(r *http.Request) (Rendered, error) {
		return s.site.Cluster(r.Context(), param(r, "pillar"), param(r, "cluster"))
	}))
	r.Get("/{pillar}/{cluster}/{slug}/", s.page(func(r *http.Request) (Rendered, error) {
		return s.site.Article(r.Context(), content.ArticlePath{
			Pillar:  content.PillarSlug(param(r, "pillar")),
			Cluster: param(r, "cluster"),
			Slug:    param(r, "slug"),
		})
	}))
	r.NotFound(s.handleNotFound)

	s.router = r
	return s
}

// ServeHTTP satisfies http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// pageTimeout leaves room for the several CMS queries an article needs.
func pageTimeout(request time.Duration) time.Duration {
	if request <= 0 {
		request = 30 * time.Second
	}
	return 2 * request
}

// WriteTimeout is the http.Server write deadline matching the page timeout.
func WriteTimeout(request time.Duration) time.Duration {
	return pageTimeout(request) + 5*time.Second
}

func param(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

// requestLogger stores a request-scoped sugared logger in the context and
// logs every completed request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sugar := s.logger.Sugar().With("request_id", middleware.GetReqID(r.Context()))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), ctxKeyLogger, sugar)))

		sugar.Infow("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

// page renders through a singleflight group so concurrent requests for the
// same path share one CMS round trip.
func (s *Server) page(fn func(r *http.Request) (Rendered, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// The shared render must not fail because the first caller went away.
		ch := s.renderGroup.DoChan(r.URL.Path, func() (any, error) {
			ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), pageTimeout(s.cfg.RequestTimeout))
			defer cancel()
			return fn(r.WithContext(ctx))
		})

		var (
			result any
			err    error
		)
		select {
		case <-r.Context().Done():
			return
		case res := <-ch:
			result, err = res.Val, res.Err
		}
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		out := result.(Rendered)
		for _, warning := range out.Warnings {
			LoggerFrom(r.Context()).Debugw("missing internal link", "path", out.Path, "missing", warning)
		}
		writeHTML(w, http.StatusOK, out.HTML)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var redirect *RedirectError
	switch {
	case errors.Is(err, ErrNotFound):
		s.renderNotFound(w, r)
	case errors.As(err, &redirect):
		http.Redirect(w, r, redirect.Location, http.StatusMovedPermanently)
	default:
		LoggerFrom(r.Context()).Errorw("render page", "path", r.URL.Path, "error", err)
		http.Error(w, "content temporarily unavailable", http.StatusBadGateway)
	}
}

func (s *Server) renderNotFound(w http.ResponseWriter, r *http.Request) {
	out, err := s.site.NotFound()
	if err != nil {
		LoggerFrom(r.Context()).Errorw("render not found page", "error", err)
		http.NotFound(w, r)
		return
	}
	writeHTML(w, http.StatusNotFound, out.HTML)
}

// handleNotFound redirects extensionless paths to their trailing-slash form
// before giving up.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	p := r.URL.Path
	if r.Method == http.MethodGet && !strings.HasSuffix(p, "/") && path.Ext(p) == "" {
		target := p + "/"
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusMovedPermanently)
		return
	}
	s.renderNotFound(w, r)
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRobots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(robotsTxt(s.cfg.SiteURL))
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	paths, err := s.site.RefreshPaths(r.Context())
	if err != nil {
		LoggerFrom(r.Context()).Errorw("sitemap paths", "error", err)
		http.Error(w, "content temporarily unavailable", http.StatusBadGateway)
		return
	}

	entries := []sitemapEntry{{Path: "/"}}
	for _, pillar := range content.PillarOrder {
		entries = append(entries, sitemapEntry{Path: content.PillarURL(pillar)})
		for _, cluster := range content.ClustersByPillar(pillar) {
			entries = append(entries, sitemapEntry{Path: content.ClusterURL(pillar, cluster)})
		}
	}
	for _, p := range paths {
		entries = append(entries, sitemapEntry{Path: p.URL()})
	}
	for _, slug := range s.cfg.StaticPages {
		entries = append(entries, sitemapEntry{Path: "/" + slug + "/"})
	}

	data, err := buildSitemap(s.cfg.SiteURL, entries)
	if err != nil {
		LoggerFrom(r.Context()).Errorw("sitemap", "error", err)
		http.Error(w, "sitemap unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(data)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	out, err := s.site.Search(r.Context(), r.FormValue("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeHTML(w, http.StatusOK, out.HTML)
}

// articleResponse is the JSON payload of one search hit.
type articleResponse struct {
	ID          int                `json:"id"`
	Title       string             `json:"title"`
	Slug        string             `json:"slug"`
	Pillar      content.PillarSlug `json:"pillar"`
	Cluster     string             `json:"cluster"`
	Excerpt     string             `json:"excerpt"`
	URL         string             `json:"url"`
	Image       *wordpress.Image   `json:"image,omitempty"`
	PublishDate string             `json:"publishDate"`
	ReadingTime int                `json:"readingTime"`
}

func newArticleResponse(a wordpress.Article) *articleResponse {
	return &articleResponse{
		ID:          a.ID,
		Title:       a.Title,
		Slug:        a.Slug,
		Pillar:      a.Pillar,
		Cluster:     a.Cluster,
		Excerpt:     a.Excerpt,
		URL:         a.Path().URL(),
		Image:       a.FeaturedImage,
		PublishDate: a.PublishDate,
		ReadingTime: a.ReadingTime,
	}
}

func (rd *articleResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func (s *Server) apiSearch(w http.ResponseWriter, r *http.Request) {
	query := NormalizeQuery(r.URL.Query().Get("q"))
	if query == "" {
		s.renderJSON(w, r, ErrInvalidRequest(errors.New("missing query parameter q")))
		return
	}

	results, err := s.site.SearchArticles(r.Context(), query)
	if err != nil {
		s.renderJSON(w, r, ErrUpstream(err))
		return
	}

	list := make([]render.Renderer, 0, len(results))
	for _, a := range results {
		list = append(list, newArticleResponse(a))
	}
	if err := render.RenderList(w, r, list); err != nil {
		s.renderJSON(w, r, ErrRender(err))
	}
}

type statusResponse struct {
	Status   string `json:"status"`
	Articles int    `json:"articles"`
}

func (rd *statusResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func (s *Server) apiClearCache(w http.ResponseWriter, r *http.Request) {
	s.site.ClearCache()
	paths, err := s.site.RefreshPaths(r.Context())
	if err != nil {
		s.renderJSON(w, r, ErrUpstream(err))
		return
	}
	LoggerFrom(r.Context()).Infow("cms cache cleared", "articles", len(paths))
	s.renderJSON(w, r, &statusResponse{Status: "cleared", Articles: len(paths)})
}

func (s *Server) renderJSON(w http.ResponseWriter, r *http.Request, v render.Renderer) {
	if err := render.Render(w, r, v); err != nil {
		LoggerFrom(r.Context()).Errorw("render json", "error", err)
	}
}

// ErrResponse renderer type for API errors.
type ErrResponse struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	StatusText string `json:"status"`
	ErrorText  string `json:"error,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrUpstream(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadGateway,
		StatusText:     "CMS unavailable.",
		ErrorText:      err.Error(),
	}
}

func ErrRender(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusUnprocessableEntity,
		StatusText:     "Error rendering response.",
		ErrorText:      err.Error(),
	}
}
