package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/frijal/ArtikelHub/internal/article"
	"github.com/gin-gonic/gin"
)

const DefaultSidebarSize = 10

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return def
	}
	return v
}

// parseQuery reads q, category, year, month, page and pageSize. Out of
// range months are ignored.
func parseQuery(c *gin.Context) article.Query {
	q := article.Query{
		Text:     c.Query("q"),
		Category: c.Query("category"),
		Year:     queryInt(c, "year", 0),
		Month:    queryInt(c, "month", 0),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "pageSize", article.DefaultPageSize),
	}
	if q.Month < 0 || q.Month > 12 {
		q.Month = 0
	}
	return q
}

func (s *Server) listArticles(c *gin.Context) {
	ix, good := s.loadIndex(c)
	if !good {
		return
	}
	ok(c, ix.Query(parseQuery(c)))
}

func (s *Server) hero(c *gin.Context) {
	ix, good := s.loadIndex(c)
	if !good {
		return
	}
	h, found := ix.Hero()
	if !found {
		fail(c, http.StatusNotFound, "not_found", "belum ada artikel")
		return
	}
	ok(c, h)
}

func (s *Server) categories(c *gin.Context) {
	ix, good := s.loadIndex(c)
	if !good {
		return
	}
	ok(c, ix.Categories())
}

func (s *Server) archive(c *gin.Context) {
	ix, good := s.loadIndex(c)
	if !good {
		return
	}
	ok(c, ix.Archive())
}

func (s *Server) sections(c *gin.Context) {
	ix, good := s.loadIndex(c)
	if !good {
		return
	}
	ok(c, ix.Sections(queryInt(c, "latest", article.DefaultLatest)))
}

func (s *Server) toc(c *gin.Context) {
	ix, good := s.loadIndex(c)
	if !good {
		return
	}
	ok(c, ix.TOC())
}

func (s *Server) sidebar(c *gin.Context) {
	ix, good := s.loadIndex(c)
	if !good {
		return
	}
	n := queryInt(c, "n", DefaultSidebarSize)
	if n <= 0 || n > article.MaxPageSize {
		n = DefaultSidebarSize
	}
	ok(c, ix.Random(n, nil))
}

func (s *Server) search(c *gin.Context) {
	ix, good := s.loadIndex(c)
	if !good {
		return
	}
	hits := ix.Search(c.Query("q"), queryInt(c, "limit", article.DefaultSearchLimit))
	if hits == nil {
		hits = []article.SearchHit{}
	}
	ok(c, hits)
}

func (s *Server) navigate(c *gin.Context) {
	ix, good := s.loadIndex(c)
	if !good {
		return
	}
	nav, found := ix.Navigate(article.FilenameFromPath(c.Param("file")))
	if !found {
		fail(c, http.StatusNotFound, "not_found", "artikel tidak ditemukan")
		return
	}
	ok(c, nav)
}

func (s *Server) related(c *gin.Context) {
	ix, good := s.loadIndex(c)
	if !good {
		return
	}
	var read []string
	for _, r := range strings.Split(c.Query("read"), ",") {
		if r = strings.TrimSpace(r); r != "" {
			read = append(read, article.FilenameFromPath(r))
		}
	}
	list, found := ix.Related(article.FilenameFromPath(c.Param("file")), read, nil)
	if !found {
		fail(c, http.StatusNotFound, "not_found", "artikel tidak ditemukan")
		return
	}
	ok(c, list)
}
