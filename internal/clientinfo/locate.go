package clientinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultLookupURL = "https://ipapi.co"
	CacheTTL         = time.Hour

	lookupTimeout  = 5 * time.Second
	lookupMaxBytes = 64 << 10
)

// Cache is the byte cache lookups are kept in.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration)
}

// Location is the ipapi.co answer.
type Location struct {
	IP          string `json:"ip"`
	City        string `json:"city"`
	Region      string `json:"region"`
	CountryName string `json:"country_name"`
	CountryCode string `json:"country_code"`
	Flag        string `json:"flag"`
}

// Label renders "ip (city, region, country) flag".
func (l *Location) Label() string {
	return strings.TrimSpace(fmt.Sprintf("%s (%s, %s, %s) %s", l.IP, l.City, l.Region, l.CountryName, l.Flag))
}

// Locator looks addresses up on ipapi.co.
type Locator struct {
	BaseURL string
	Client  *http.Client
	Cache   Cache
	Log     *zap.Logger
}

func NewLocator(cache Cache, log *zap.Logger) *Locator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Locator{
		BaseURL: DefaultLookupURL,
		Client:  &http.Client{Timeout: lookupTimeout},
		Cache:   cache,
		Log:     log,
	}
}

// Lookup resolves ip; an empty or private ip asks about the server's own
// address.
func (l *Locator) Lookup(ctx context.Context, ip string) (*Location, error) {
	if parsed := net.ParseIP(ip); parsed == nil || parsed.IsLoopback() || parsed.IsPrivate() {
		ip = ""
	}
	key := "self"
	if ip != "" {
		key = ip
	}
	if l.Cache != nil {
		if data, ok := l.Cache.Get(ctx, key); ok {
			var loc Location
			if err := json.Unmarshal(data, &loc); err == nil {
				return &loc, nil
			}
		}
	}

	url := strings.TrimRight(l.BaseURL, "/") + "/json/"
	if ip != "" {
		url = strings.TrimRight(l.BaseURL, "/") + "/" + ip + "/json/"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "ArtikelHub/1.0")
	client := l.Client
	if client == nil {
		client = &http.Client{Timeout: lookupTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ip lookup: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ip lookup: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, lookupMaxBytes))
	if err != nil {
		return nil, fmt.Errorf("ip lookup: read body: %w", err)
	}

	var out struct {
		Location
		Error  bool   `json:"error"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("ip lookup: decode: %w", err)
	}
	if out.Error {
		return nil, fmt.Errorf("ip lookup: %s", out.Reason)
	}
	loc := out.Location
	if loc.CountryCode == "" {
		loc.CountryCode = "??"
	}
	loc.Flag = FlagEmoji(loc.CountryCode)

	if l.Cache != nil {
		if data, err := json.Marshal(loc); err == nil {
			l.Cache.Set(ctx, key, data, CacheTTL)
		}
	}
	l.Log.Debug("ip lookup", zap.String("ip", loc.IP), zap.String("country", loc.CountryCode))
	return &loc, nil
}

// Info is the footer widget payload.
type Info struct {
	Browser  Browser   `json:"browser"`
	OS       string    `json:"os"`
	Location *Location `json:"location,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Describe combines the User-Agent and the location lookup. A failed
// lookup still returns browser and OS.
func (l *Locator) Describe(ctx context.Context, ua, ip string) Info {
	info := Info{Browser: DetectBrowser(ua), OS: DetectOS(ua)}
	loc, err := l.Lookup(ctx, ip)
	if err != nil {
		l.Log.Warn("ip lookup failed", zap.Error(err))
		info.Error = "Gagal memuat info IP."
		return info
	}
	info.Location = loc
	return info
}
