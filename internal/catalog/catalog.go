// Package catalog proxies the third-party streaming catalog API used by the
// video pages, with per-request caching and placeholder data on failure.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/frijal/ArtikelHub/internal/metrics"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://zeldvorik.ru/apiv3/api.php"
	CacheTTL       = 10 * time.Minute
	FallbackSize   = 6

	clientTimeout = 15 * time.Second
	maxBodyBytes  = 4 << 20
)

// Listing sections.
const (
	Trending         = "trending"
	IndonesianMovies = "indonesian-movies"
	IndonesianDrama  = "indonesian-drama"
	KDrama           = "kdrama"
	Anime            = "anime"
	ShortTV          = "short-tv"

	actionSearch = "search"
	actionDetail = "detail"
)

var Sections = []string{Trending, IndonesianMovies, IndonesianDrama, KDrama, Anime, ShortTV}

var ErrUnknownSection = errors.New("catalog: unknown section")

// IsSection reports whether s is a listing section.
func IsSection(s string) bool {
	for _, v := range Sections {
		if v == s {
			return true
		}
	}
	return false
}

// Item is one poster card.
type Item struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Poster     string  `json:"poster"`
	Rating     float64 `json:"rating"`
	Year       string  `json:"year"`
	Type       string  `json:"type"`
	Genre      string  `json:"genre"`
	DetailPath string  `json:"detailPath"`
}

// Response is the API envelope. Detail answers carry their fields (title,
// poster, seasons, ...) at the top level; those are kept in Extra and
// written back next to the envelope fields.
type Response struct {
	Success  bool            `json:"success"`
	Items    []Item          `json:"items"`
	Page     int             `json:"page"`
	HasMore  bool            `json:"hasMore"`
	Data     json.RawMessage `json:"data,omitempty"`
	Fallback bool            `json:"fallback,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// envelope has Response's fields without its methods.
type envelope Response

var envelopeKeys = []string{"success", "items", "page", "hasMore", "data", "fallback"}

func (r *Response) UnmarshalJSON(b []byte) error {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return err
	}
	for _, k := range envelopeKeys {
		delete(all, k)
	}
	*r = Response(env)
	r.Extra = nil
	if len(all) > 0 {
		r.Extra = all
	}
	if r.Items == nil {
		r.Items = []Item{}
	}
	return nil
}

func (r Response) MarshalJSON() ([]byte, error) {
	if r.Items == nil {
		r.Items = []Item{}
	}
	base, err := json.Marshal(envelope(r))
	if err != nil || len(r.Extra) == 0 {
		return base, err
	}
	merged := make(map[string]json.RawMessage, len(r.Extra)+len(envelopeKeys))
	for k, v := range r.Extra {
		merged[k] = v
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// Cache is an optional shared cache (Redis) in front of the in-process one.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration)
}

type memEntry struct {
	resp    *Response
	expires time.Time
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
	Shared  Cache
	Log     *zap.Logger
	now     func() time.Time

	mu  sync.RWMutex
	mem map[string]memEntry
}

func NewClient(baseURL string, shared Cache, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: clientTimeout},
		Shared:  shared,
		Log:     log,
		now:     time.Now,
		mem:     make(map[string]memEntry),
	}
}

// Section lists one page of a section.
func (c *Client) Section(ctx context.Context, section string, page int) (*Response, error) {
	if !IsSection(section) {
		return nil, ErrUnknownSection
	}
	if page < 1 {
		page = 1
	}
	return c.fetch(ctx, section, url.Values{"page": {strconv.Itoa(page)}}), nil
}

func (c *Client) Search(ctx context.Context, q string) *Response {
	return c.fetch(ctx, actionSearch, url.Values{"q": {strings.TrimSpace(q)}})
}

func (c *Client) Detail(ctx context.Context, detailPath string) *Response {
	return c.fetch(ctx, actionDetail, url.Values{"detailPath": {detailPath}})
}

// fetch never fails: errors are logged and answered with placeholders,
// which are not cached.
func (c *Client) fetch(ctx context.Context, action string, params url.Values) *Response {
	key := action + "?" + params.Encode()

	if resp, ok := c.memGet(key); ok {
		return resp
	}
	if c.Shared != nil {
		if data, ok := c.Shared.Get(ctx, key); ok {
			var resp Response
			if err := json.Unmarshal(data, &resp); err == nil {
				c.memSet(key, &resp)
				return &resp
			}
		}
	}

	resp, raw, err := c.request(ctx, action, params)
	if err != nil {
		c.Log.Warn("catalog request failed, serving fallback", zap.String("action", action), zap.Error(err))
		metrics.IncCatalogFallback(action)
		page, _ := strconv.Atoi(params.Get("page"))
		return Fallback(action, page)
	}
	c.memSet(key, resp)
	if c.Shared != nil {
		c.Shared.Set(ctx, key, raw, CacheTTL)
	}
	return resp
}

func (c *Client) request(ctx context.Context, action string, params url.Values) (*Response, []byte, error) {
	q := url.Values{"action": {action}}
	for k, v := range params {
		q[k] = v
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, err
	}
	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, nil, fmt.Errorf("decode: %w", err)
	}
	return &out, body, nil
}

func (c *Client) memGet(key string) (*Response, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.mem[key]
	if !ok || c.now().After(e.expires) {
		return nil, false
	}
	return e.resp, true
}

func (c *Client) memSet(key string, resp *Response) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mem[key] = memEntry{resp: resp, expires: c.now().Add(CacheTTL)}
}
