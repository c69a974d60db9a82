package api

import (
	"net/http"
	"time"

	"github.com/frijal/ArtikelHub/internal/article"
	"github.com/frijal/ArtikelHub/internal/render"
	"github.com/frijal/ArtikelHub/internal/sitegen"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (s *Server) gridData(ix *article.Index, q article.Query) render.GridData {
	data := render.GridData{
		SiteTitle:  s.siteTitle,
		Page:       ix.Query(q),
		Query:      q,
		Categories: ix.Categories(),
		Archive:    ix.Archive(),
		Sidebar:    ix.Random(DefaultSidebarSize, nil),
	}
	unfiltered := q.Text == "" && (q.Category == "" || q.Category == "all") && q.Year == 0 && q.Month == 0
	if unfiltered && data.Page.Page == 1 {
		if h, found := ix.Hero(); found {
			data.Hero = &h
		}
	}
	return data
}

func (s *Server) gridPage(c *gin.Context) {
	q := parseQuery(c)
	ix, err := s.index.LoadIndex(c.Request.Context())
	if err != nil {
		s.log.Error("load index failed", zap.Error(err))
		c.HTML(http.StatusBadGateway, render.GridTemplate, render.GridData{SiteTitle: s.siteTitle, Query: q, Error: err.Error()})
		return
	}
	c.HTML(http.StatusOK, render.GridTemplate, s.gridData(ix, q))
}

func (s *Server) categoryPage(c *gin.Context) {
	q := parseQuery(c)
	ix, err := s.index.LoadIndex(c.Request.Context())
	if err != nil {
		s.log.Error("load index failed", zap.Error(err))
		c.HTML(http.StatusBadGateway, render.GridTemplate, render.GridData{SiteTitle: s.siteTitle, Query: q, Error: err.Error()})
		return
	}
	name, found := ix.CategoryBySlug(c.Param("slug"))
	if !found {
		data := s.gridData(ix, q)
		data.Page = article.Paginate(nil, 1, q.PageSize)
		data.Hero = nil
		data.Error = "kategori tidak ditemukan"
		c.HTML(http.StatusNotFound, render.GridTemplate, data)
		return
	}
	q.Category = name
	c.HTML(http.StatusOK, render.GridTemplate, s.gridData(ix, q))
}

func (s *Server) sitemap(c *gin.Context) {
	ix, good := s.loadIndex(c)
	if !good {
		return
	}
	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Status(http.StatusOK)
	if err := sitegen.WriteSitemap(c.Writer, ix, s.siteURL); err != nil {
		s.log.Warn("write sitemap", zap.Error(err))
	}
}

func (s *Server) rss(c *gin.Context) {
	ix, good := s.loadIndex(c)
	if !good {
		return
	}
	ch := sitegen.Channel{
		Title:       s.siteTitle,
		Link:        s.siteURL + "/",
		Description: "Artikel terbaru dari " + s.siteTitle,
	}
	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.Status(http.StatusOK)
	if err := sitegen.WriteRSS(c.Writer, ix, ch, s.siteURL, sitegen.DefaultFeedSize, time.Now()); err != nil {
		s.log.Warn("write rss", zap.Error(err))
	}
}
