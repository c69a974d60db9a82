package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/frijal/ArtikelHub/internal/api"
	"github.com/frijal/ArtikelHub/internal/article"
	"github.com/frijal/ArtikelHub/internal/catalog"
	"github.com/frijal/ArtikelHub/internal/categorize"
	"github.com/frijal/ArtikelHub/internal/clientinfo"
	"github.com/frijal/ArtikelHub/internal/collector"
	"github.com/frijal/ArtikelHub/internal/config"
	"github.com/frijal/ArtikelHub/internal/logging"
	"github.com/frijal/ArtikelHub/internal/notify"
	"github.com/frijal/ArtikelHub/internal/pagecheck"
	"github.com/frijal/ArtikelHub/internal/processor"
	"github.com/frijal/ArtikelHub/internal/render"
	"github.com/frijal/ArtikelHub/internal/scheduler"
	"github.com/frijal/ArtikelHub/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()
	log.Info("config loaded", zap.String("port", cfg.AppPort), zap.String("cron", cfg.CronSpec), zap.String("index", cfg.IndexPath))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc := cfg.Location()
	cats, err := categorize.Load(cfg.CategoriesFile)
	if err != nil {
		log.Fatal("load categories failed", zap.Error(err))
	}
	markers, err := pagecheck.LoadMarkers(cfg.MarkersFile)
	if err != nil {
		log.Fatal("load page-check markers failed", zap.Error(err))
	}
	renderer, err := render.New(loc)
	if err != nil {
		log.Fatal("parse templates failed", zap.Error(err))
	}

	opts := api.Options{
		Renderer: renderer,
		Checker:  pagecheck.NewChecker(pagecheck.NewCollyFetcher(), markers, log.Named("pagecheck")),
		SiteURL:  cfg.SiteURL,
		Log:      log.Named("api"),
	}

	var rdb *redis.Client
	// With Postgres the index is synced into the database, otherwise
	// artikel.json is served straight from disk.
	if cfg.PostgresDSN != "" {
		store, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr, loc, log.Named("storage"))
		if err != nil {
			log.Fatal("init store failed", zap.Error(err))
		}
		opts.Index = store
		opts.Checks = store
		rdb = store.Redis

		s := newScheduler(cfg, store, cats, log)
		s.Start()
		defer s.Stop()
		if !isRemote(cfg.IndexPath) {
			if err := scheduler.WatchFile(ctx, cfg.IndexPath, s.Trigger, log.Named("watch")); err != nil {
				log.Warn("index watcher disabled", zap.Error(err))
			}
		}
	} else {
		if isRemote(cfg.IndexPath) {
			log.Fatal("a remote INDEX_PATH needs POSTGRES_DSN")
		}
		rdb = storage.NewRedis(cfg.RedisAddr, log)
		src := storage.NewFileSource(cfg.IndexPath, loc)
		opts.Index = src
		if err := scheduler.WatchFile(ctx, cfg.IndexPath, src.Invalidate, log.Named("watch")); err != nil {
			log.Warn("index watcher disabled", zap.Error(err))
		}
	}

	opts.Locator = clientinfo.NewLocator(storage.NewRedisCache(rdb, "ipinfo:"), log.Named("clientinfo"))
	opts.Catalog = catalog.NewClient(cfg.CatalogBaseURL, storage.NewRedisCache(rdb, "catalog:"), log.Named("catalog"))

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), api.RequestLogger(log.Named("http")), api.Metrics())
	// /health stays open for probes.
	if cfg.BasicAuthUser != "" && cfg.BasicAuthPass != "" {
		r.Use(api.BasicAuth(cfg.BasicAuthUser, cfg.BasicAuthPass))
	}

	api.NewServer(opts).RegisterRoutes(r)

	if cfg.WebRoot != "" {
		assetsDir := filepath.Join(cfg.WebRoot, "assets")
		indexFile := filepath.Join(cfg.WebRoot, "index.html")
		r.Static("/assets", assetsDir)
		r.NoRoute(func(c *gin.Context) {
			if c.Request.Method != http.MethodGet {
				c.Status(http.StatusNotFound)
				return
			}
			c.File(indexFile)
		})
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("starting api server", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server exit", zap.Error(err))
	}
}

func newScheduler(cfg *config.Config, store *storage.Store, cats *categorize.Set, log *zap.Logger) *scheduler.Scheduler {
	loc := cfg.Location()
	fetchers := []collector.Fetcher{
		&collector.IndexFetcher{Location: cfg.IndexPath, Loc: loc},
	}
	if st, err := os.Stat(cfg.ArticleDir); err == nil && st.IsDir() {
		fetchers = append(fetchers, &collector.DirFetcher{Dir: cfg.ArticleDir, SiteURL: cfg.SiteURL, Loc: loc, Log: log.Named("collector")})
	}

	p := processor.NewSimpleProcessor(cats, loc)
	s, err := scheduler.New(cfg.CronSpec, fetchers, p, store, log.Named("scheduler"))
	if err != nil {
		log.Fatal("init scheduler failed", zap.Error(err))
	}
	if n, err := notify.New(cfg.TelegramToken, "", cfg.TelegramChatID, cfg.SiteURL, log.Named("notify")); err == nil {
		s.OnSync(announceNew(n, log))
	} else if !errors.Is(err, notify.ErrNotConfigured) {
		log.Warn("telegram disabled", zap.Error(err))
	}
	return s
}

// announceNew remembers the slugs of the previous sync and announces the
// ones that appear later. The first sync only seeds the set.
func announceNew(n *notify.Announcer, log *zap.Logger) func(context.Context, *scheduler.Report) {
	var seen map[string]bool
	return func(ctx context.Context, rep *scheduler.Report) {
		current := make(map[string]bool, len(rep.Articles))
		var fresh []processor.ProcessedArticle
		for _, a := range rep.Articles {
			current[a.Slug] = true
			if seen != nil && !seen[a.Slug] {
				fresh = append(fresh, a)
			}
		}
		seen = current
		if len(fresh) == 0 {
			return
		}
		list := make([]article.Article, 0, len(fresh))
		for _, a := range fresh {
			list = append(list, a.Article)
		}
		if _, err := n.Announce(ctx, list); err != nil {
			log.Warn("announce failed", zap.Error(err))
		}
	}
}

func isRemote(p string) bool {
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}
