package pagecheck

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
)

const (
	UserAgent    = "ArtikelHub-PageCheck/1.0"
	FetchTimeout = 15 * time.Second
	MaxRedirects = 5
)

var errTooManyRedirects = fmt.Errorf("stopped after %d redirects", MaxRedirects)

// CollyFetcher fetches with a fresh colly collector per call.
type CollyFetcher struct {
	UserAgent string
	Timeout   time.Duration
}

func NewCollyFetcher() *CollyFetcher {
	return &CollyFetcher{UserAgent: UserAgent, Timeout: FetchTimeout}
}

// Fetch returns the final response whatever its status; transport errors
// and redirect loops are errors.
func (f *CollyFetcher) Fetch(ctx context.Context, target string) (*Page, error) {
	c := colly.NewCollector(
		colly.UserAgent(f.UserAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(f.Timeout)
	c.ParseHTTPErrorResponse = true
	c.SetRedirectHandler(func(req *http.Request, via []*http.Request) error {
		if len(via) >= MaxRedirects {
			return errTooManyRedirects
		}
		return nil
	})

	page := &Page{}
	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})
	c.OnResponse(func(r *colly.Response) {
		page.Status = r.StatusCode
		page.Body = r.Body
		page.FinalURL = r.Request.URL.String()
	})

	if err := c.Visit(target); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(page.Body) == 0 {
		return nil, ErrEmptyResponse
	}
	return page, nil
}
