// Package api exposes the article index, the page checker and the helper
// endpoints over HTTP.
package api

import (
	"context"
	"net/http"

	"github.com/frijal/ArtikelHub/internal/article"
	"github.com/frijal/ArtikelHub/internal/catalog"
	"github.com/frijal/ArtikelHub/internal/clientinfo"
	"github.com/frijal/ArtikelHub/internal/pagecheck"
	"github.com/frijal/ArtikelHub/internal/render"
	"github.com/frijal/ArtikelHub/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// IndexSource yields the current index snapshot.
type IndexSource interface {
	LoadIndex(ctx context.Context) (*article.Index, error)
}

// CheckStore keeps page-check history.
type CheckStore interface {
	SavePageCheck(ctx context.Context, r *storage.PageCheckRecord) error
	ListPageChecks(ctx context.Context, url string, limit int) ([]storage.PageCheckRecord, error)
	GetPageCheck(ctx context.Context, id string) (*storage.PageCheckRecord, error)
}

// Options wires the server. Only Index is required; a nil component
// disables its routes.
type Options struct {
	Index     IndexSource
	Renderer  *render.Renderer
	Checker   *pagecheck.Checker
	Checks    CheckStore
	Locator   *clientinfo.Locator
	Catalog   *catalog.Client
	SiteURL   string
	SiteTitle string
	Log       *zap.Logger
}

type Server struct {
	index     IndexSource
	renderer  *render.Renderer
	checker   *pagecheck.Checker
	checks    CheckStore
	locator   *clientinfo.Locator
	catalog   *catalog.Client
	siteURL   string
	siteTitle string
	log       *zap.Logger
}

func NewServer(opts Options) *Server {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.SiteTitle == "" {
		opts.SiteTitle = "Frijal"
	}
	return &Server{
		index:     opts.Index,
		renderer:  opts.Renderer,
		checker:   opts.Checker,
		checks:    opts.Checks,
		locator:   opts.Locator,
		catalog:   opts.Catalog,
		siteURL:   opts.SiteURL,
		siteTitle: opts.SiteTitle,
		log:       opts.Log,
	}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/sitemap.xml", s.sitemap)
	r.GET("/rss.xml", s.rss)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/articles", s.listArticles)
		v1.GET("/articles/:file/nav", s.navigate)
		v1.GET("/articles/:file/related", s.related)
		v1.GET("/hero", s.hero)
		v1.GET("/categories", s.categories)
		v1.GET("/archive", s.archive)
		v1.GET("/sections", s.sections)
		v1.GET("/toc", s.toc)
		v1.GET("/sidebar", s.sidebar)
		v1.GET("/search", s.search)

		if s.locator != nil {
			v1.GET("/client-info", s.clientInfo)
		}
		if s.catalog != nil {
			v1.GET("/catalog/:section", s.catalogSection)
			v1.GET("/catalog-search", s.catalogSearch)
			v1.GET("/catalog-detail", s.catalogDetail)
		}
		if s.checker != nil {
			v1.GET("/page-check", s.pageCheckJSON)
		}
		if s.checks != nil {
			v1.GET("/page-checks", s.pageCheckHistory)
			v1.GET("/page-checks/:id", s.pageCheckByID)
		}
	}

	if s.renderer != nil {
		r.SetHTMLTemplate(s.renderer.Templates())
		r.GET("/", s.gridPage)
		r.GET("/kategori/:slug", s.categoryPage)
		if s.checker != nil {
			r.GET("/tools/page-check", s.pageCheckPage)
		}
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    data,
	})
}

func fail(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"code":    code,
		"message": message,
	})
}

// loadIndex answers 502 itself when the index cannot be read.
func (s *Server) loadIndex(c *gin.Context) (*article.Index, bool) {
	ix, err := s.index.LoadIndex(c.Request.Context())
	if err != nil {
		s.log.Error("load index failed", zap.Error(err))
		fail(c, http.StatusBadGateway, "index_unavailable", "gagal memuat data artikel")
		return nil, false
	}
	return ix, true
}
