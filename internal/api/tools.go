package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/frijal/ArtikelHub/internal/catalog"
	"github.com/frijal/ArtikelHub/internal/metrics"
	"github.com/frijal/ArtikelHub/internal/pagecheck"
	"github.com/frijal/ArtikelHub/internal/render"
	"github.com/frijal/ArtikelHub/internal/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

func (s *Server) clientInfo(c *gin.Context) {
	ok(c, s.locator.Describe(c.Request.Context(), c.Request.UserAgent(), c.ClientIP()))
}

func (s *Server) catalogSection(c *gin.Context) {
	resp, err := s.catalog.Section(c.Request.Context(), c.Param("section"), queryInt(c, "page", 1))
	if errors.Is(err, catalog.ErrUnknownSection) {
		fail(c, http.StatusNotFound, "not_found", "unknown section")
		return
	}
	ok(c, resp)
}

func (s *Server) catalogSearch(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		fail(c, http.StatusBadRequest, "bad_request", "q is required")
		return
	}
	ok(c, s.catalog.Search(c.Request.Context(), q))
}

func (s *Server) catalogDetail(c *gin.Context) {
	p := strings.TrimSpace(c.Query("path"))
	if p == "" {
		fail(c, http.StatusBadRequest, "bad_request", "path is required")
		return
	}
	ok(c, s.catalog.Detail(c.Request.Context(), p))
}

// runCheck checks raw, counts the verdict and stores the report when a
// history store is configured.
func (s *Server) runCheck(c *gin.Context, raw string) (*pagecheck.Report, error) {
	rep, err := s.checker.Check(c.Request.Context(), raw)
	if err != nil {
		metrics.IncPageCheck("failed")
		return nil, err
	}
	metrics.IncPageCheck(rep.StatusText)
	if s.checks != nil {
		data, _ := json.Marshal(rep)
		rec := &storage.PageCheckRecord{
			ID:        rep.ID,
			URL:       rep.URL,
			FinalURL:  rep.FinalURL,
			Status:    rep.Status,
			Ratio:     rep.Ratio.Ratio,
			Verdict:   rep.StatusText,
			Report:    datatypes.JSON(data),
			CheckedAt: rep.CheckedAt,
		}
		if err := s.checks.SavePageCheck(c.Request.Context(), rec); err != nil {
			s.log.Warn("save page check", zap.Error(err))
		}
	}
	return rep, nil
}

func checkErrorMessage(err error) string {
	switch {
	case errors.Is(err, pagecheck.ErrInvalidURL):
		return "Invalid URL. Please include a domain, for example https://example.com/page"
	case errors.Is(err, pagecheck.ErrEmptyResponse):
		return "Could not fetch the page (empty response)."
	default:
		return "Could not fetch the page: " + err.Error()
	}
}

func (s *Server) pageCheckPage(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("url"))
	data := render.ReportData{URL: raw}
	if raw == "" {
		c.HTML(http.StatusOK, render.ReportTemplate, data)
		return
	}
	rep, err := s.runCheck(c, raw)
	if err != nil {
		data.Error = checkErrorMessage(err)
		c.HTML(http.StatusOK, render.ReportTemplate, data)
		return
	}
	data.Report = rep
	c.HTML(http.StatusOK, render.ReportTemplate, data)
}

func (s *Server) pageCheckJSON(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("url"))
	if raw == "" {
		fail(c, http.StatusBadRequest, "bad_request", "url is required")
		return
	}
	rep, err := s.runCheck(c, raw)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, pagecheck.ErrInvalidURL) {
			status = http.StatusBadRequest
		}
		fail(c, status, "page_check_failed", checkErrorMessage(err))
		return
	}
	ok(c, rep)
}

func (s *Server) pageCheckHistory(c *gin.Context) {
	list, err := s.checks.ListPageChecks(c.Request.Context(), c.Query("url"), queryInt(c, "limit", 20))
	if err != nil {
		s.log.Error("list page checks", zap.Error(err))
		fail(c, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	ok(c, list)
}

func (s *Server) pageCheckByID(c *gin.Context) {
	rec, err := s.checks.GetPageCheck(c.Request.Context(), c.Param("id"))
	if errors.Is(err, storage.ErrNotFound) {
		fail(c, http.StatusNotFound, "not_found", "page check not found")
		return
	}
	if err != nil {
		s.log.Error("get page check", zap.Error(err))
		fail(c, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	ok(c, rec)
}
