package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppPort string

	PostgresDSN string
	RedisAddr   string

	CronSpec string

	// IndexPath is artikel.json on disk or an http(s) URL serving it.
	IndexPath  string
	ArticleDir string
	SiteURL    string
	SiteTZ     string
	WebRoot    string

	BasicAuthUser string
	BasicAuthPass string

	CategoriesFile string
	MarkersFile    string

	OpenAIKey string
	GeminiKey string

	TelegramToken  string
	TelegramChatID int64

	CatalogBaseURL string

	LogLevel string
}

func Load() *Config {
	cfg := &Config{
		AppPort:        getEnv("APP_PORT", "9000"),
		PostgresDSN:    getEnv("POSTGRES_DSN", ""),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		CronSpec:       getEnv("CRON_SPEC", "*/30 * * * *"),
		IndexPath:      getEnv("INDEX_PATH", "artikel.json"),
		ArticleDir:     getEnv("ARTICLE_DIR", "artikel"),
		SiteURL:        getEnv("SITE_URL", "https://frijal.pages.dev"),
		SiteTZ:         getEnv("SITE_TZ", "Asia/Jakarta"),
		WebRoot:        getEnv("WEB_ROOT", ""),
		BasicAuthUser:  getEnv("APP_BASIC_USER", ""),
		BasicAuthPass:  getEnv("APP_BASIC_PASS", ""),
		CategoriesFile: getEnv("CATEGORIES_FILE", ""),
		MarkersFile:    getEnv("MARKERS_FILE", ""),
		OpenAIKey:      getEnv("OPENAI_API_KEY", ""),
		GeminiKey:      getEnv("GEMINI_API_KEY", ""),
		TelegramToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID: getEnvInt64("TELEGRAM_CHAT_ID", 0),
		CatalogBaseURL: getEnv("CATALOG_BASE_URL", "https://zeldvorik.ru/apiv3/api.php"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	return cfg
}

// Location resolves SiteTZ, falling back to WIB (UTC+7).
func (c *Config) Location() *time.Location {
	if loc, err := time.LoadLocation(c.SiteTZ); err == nil {
		return loc
	}
	return time.FixedZone("WIB", 7*3600)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}
