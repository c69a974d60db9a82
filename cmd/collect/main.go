package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frijal/ArtikelHub/internal/categorize"
	"github.com/frijal/ArtikelHub/internal/collector"
	"github.com/frijal/ArtikelHub/internal/config"
	"github.com/frijal/ArtikelHub/internal/logging"
	"github.com/frijal/ArtikelHub/internal/processor"
	"github.com/frijal/ArtikelHub/internal/scheduler"
	"github.com/frijal/ArtikelHub/internal/storage"
	"go.uber.org/zap"
)

// Runs one sync of artikel.json (and the article directory, if present)
// into Postgres, then exits.
func main() {
	cfg := config.Load()
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if cfg.PostgresDSN == "" {
		log.Fatal("POSTGRES_DSN is required")
	}
	loc := cfg.Location()

	store, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr, loc, log.Named("storage"))
	if err != nil {
		log.Fatal("init store failed", zap.Error(err))
	}
	cats, err := categorize.Load(cfg.CategoriesFile)
	if err != nil {
		log.Fatal("load categories failed", zap.Error(err))
	}

	fetchers := []collector.Fetcher{
		&collector.IndexFetcher{Location: cfg.IndexPath, Loc: loc},
	}
	if st, err := os.Stat(cfg.ArticleDir); err == nil && st.IsDir() {
		fetchers = append(fetchers, &collector.DirFetcher{Dir: cfg.ArticleDir, SiteURL: cfg.SiteURL, Loc: loc, Log: log.Named("collector")})
	}

	s, err := scheduler.New("", fetchers, processor.NewSimpleProcessor(cats, loc), store, log.Named("scheduler"))
	if err != nil {
		log.Fatal("init scheduler failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	rep, err := s.RunOnce(ctx)
	if err != nil {
		log.Fatal("sync failed", zap.Error(err))
	}
	log.Info("sync done", zap.Int("saved", rep.Saved), zap.Any("fetched", rep.Fetched), zap.Duration("took", rep.Duration))
}
