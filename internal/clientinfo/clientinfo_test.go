package clientinfo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/frijal/ArtikelHub/internal/storage"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	uaFirefox = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"
	uaEdge    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36 Edg/124.0.2478.51"
	uaChrome  = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.6367.82 Mobile Safari/537.36"
	uaSafari  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1"
	uaMac     = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_4) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15"
)

func TestDetectBrowser(t *testing.T) {
	assert.Equal(t, Browser{"Firefox", "128.0"}, DetectBrowser(uaFirefox))
	assert.Equal(t, Browser{"Edge", "124.0.2478.51"}, DetectBrowser(uaEdge))
	assert.Equal(t, Browser{"Chrome", "124.0.6367.82"}, DetectBrowser(uaChrome))
	assert.Equal(t, Browser{"Safari", "17.4"}, DetectBrowser(uaSafari))
	assert.Equal(t, Browser{Unknown, "N/A"}, DetectBrowser("curl/8.0"))
	assert.Equal(t, "Firefox 128.0", DetectBrowser(uaFirefox).String())
}

func TestDetectOS(t *testing.T) {
	assert.Equal(t, "Linux", DetectOS(uaFirefox))
	assert.Equal(t, "Windows", DetectOS(uaEdge))
	assert.Equal(t, "Android", DetectOS(uaChrome))
	assert.Equal(t, "iOS", DetectOS(uaSafari))
	assert.Equal(t, "macOS", DetectOS(uaMac))
	assert.Equal(t, Unknown, DetectOS("curl/8.0"))
}

func TestFlagEmoji(t *testing.T) {
	assert.Equal(t, "🇮🇩", FlagEmoji("id"))
	assert.Equal(t, "🇺🇸", FlagEmoji("US"))
	assert.Equal(t, "", FlagEmoji("??"))
	assert.Equal(t, "", FlagEmoji("IDN"))
}

func newLocator(t *testing.T, handler http.HandlerFunc) (*Locator, *miniredis.Miniredis) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	l := NewLocator(storage.NewRedisCache(rdb, "ipinfo:"), nil)
	l.BaseURL = srv.URL
	l.Client = srv.Client()
	return l, mr
}

func TestLookupCachesResult(t *testing.T) {
	var hits atomic.Int32
	l, mr := newLocator(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/203.0.113.9/json/", r.URL.Path)
		_, _ = w.Write([]byte(`{"ip":"203.0.113.9","city":"Jakarta","region":"DKI Jakarta","country_name":"Indonesia","country_code":"ID"}`))
	})

	loc, err := l.Lookup(context.Background(), "203.0.113.9")
	require.NoError(t, err)
	assert.Equal(t, "🇮🇩", loc.Flag)
	assert.Equal(t, "203.0.113.9 (Jakarta, DKI Jakarta, Indonesia) 🇮🇩", loc.Label())
	assert.True(t, mr.Exists("ipinfo:203.0.113.9"))
	assert.Equal(t, CacheTTL, mr.TTL("ipinfo:203.0.113.9"))

	_, err = l.Lookup(context.Background(), "203.0.113.9")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestLookupPrivateAddressAsksAboutSelf(t *testing.T) {
	l, _ := newLocator(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/json/", r.URL.Path)
		_, _ = w.Write([]byte(`{"ip":"198.51.100.1"}`))
	})
	loc, err := l.Lookup(context.Background(), "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "??", loc.CountryCode)
	assert.Equal(t, "", loc.Flag)
}

func TestDescribeKeepsAgentOnLookupError(t *testing.T) {
	l, _ := newLocator(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":true,"reason":"RateLimited"}`))
	})
	info := l.Describe(context.Background(), uaFirefox, "203.0.113.9")
	assert.Equal(t, "Firefox", info.Browser.Name)
	assert.Equal(t, "Linux", info.OS)
	assert.Nil(t, info.Location)
	assert.Equal(t, "Gagal memuat info IP.", info.Error)
}
