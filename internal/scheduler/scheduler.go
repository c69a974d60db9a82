// Package scheduler runs the periodic index sync: every fetcher is
// collected, the results are merged and processed once, and the store is
// replaced with the new snapshot.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/frijal/ArtikelHub/internal/collector"
	"github.com/frijal/ArtikelHub/internal/metrics"
	"github.com/frijal/ArtikelHub/internal/processor"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// StartupDelay postpones the first run so it does not compete with the
// first page loads.
const StartupDelay = 15 * time.Second

var (
	ErrNoItems = errors.New("scheduler: fetchers returned no articles")
	ErrBusy    = errors.New("scheduler: sync already running")
)

// Processor turns collected items into stored articles.
type Processor interface {
	Process(items []collector.Item) []processor.ProcessedArticle
}

// Saver replaces the stored snapshot.
type Saver interface {
	SaveArticles(ctx context.Context, items []processor.ProcessedArticle) error
}

// Report summarises one sync.
type Report struct {
	Fetched  map[string]int
	Saved    int
	Articles []processor.ProcessedArticle
	Duration time.Duration
}

type Scheduler struct {
	cron      *cron.Cron
	fetchers  []collector.Fetcher
	processor Processor
	store     Saver
	log       *zap.Logger

	running sync.Mutex
	hooks   []func(context.Context, *Report)
}

func New(spec string, fetchers []collector.Fetcher, p Processor, store Saver, log *zap.Logger) (*Scheduler, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Scheduler{
		cron:      cron.New(),
		fetchers:  fetchers,
		processor: p,
		store:     store,
		log:       log,
	}
	if spec != "" {
		if _, err := s.cron.AddFunc(spec, s.scheduled); err != nil {
			return nil, fmt.Errorf("cron spec %q: %w", spec, err)
		}
	}
	return s, nil
}

// OnSync registers a hook called after every successful save.
func (s *Scheduler) OnSync(fn func(context.Context, *Report)) {
	s.hooks = append(s.hooks, fn)
}

// Cron exposes the underlying cron for extra jobs.
func (s *Scheduler) Cron() *cron.Cron {
	return s.cron
}

func (s *Scheduler) Start() {
	s.cron.Start()
	time.AfterFunc(StartupDelay, s.scheduled)
}

// Stop stops the cron and returns a context done when running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// Trigger runs a sync in the background unless one is already running.
func (s *Scheduler) Trigger() {
	go s.scheduled()
}

func (s *Scheduler) scheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if _, err := s.RunOnce(ctx); err != nil && !errors.Is(err, ErrBusy) {
		s.log.Error("sync failed", zap.Error(err))
	}
}

// RunOnce collects every fetcher concurrently and merges their items in
// registration order, so earlier fetchers win duplicate slugs. When any
// fetcher fails nothing is saved and the previous snapshot stays.
func (s *Scheduler) RunOnce(ctx context.Context) (*Report, error) {
	if !s.running.TryLock() {
		return nil, ErrBusy
	}
	defer s.running.Unlock()

	start := time.Now()
	s.log.Info("sync started", zap.Int("fetchers", len(s.fetchers)))

	results := make([][]collector.Item, len(s.fetchers))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range s.fetchers {
		g.Go(func() error {
			name := f.Name()
			items, err := f.Fetch(gctx)
			if err != nil {
				metrics.IncSyncRun(name, metrics.ResultFailure)
				return fmt.Errorf("fetch %s: %w", name, err)
			}
			if len(items) == 0 {
				metrics.IncSyncRun(name, metrics.ResultEmpty)
				s.log.Warn("fetcher returned nothing", zap.String("fetcher", name))
			} else {
				metrics.IncSyncRun(name, metrics.ResultSuccess)
			}
			s.log.Debug("fetched", zap.String("fetcher", name), zap.Int("items", len(items)))
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := &Report{Fetched: make(map[string]int, len(s.fetchers))}
	var merged []collector.Item
	for i, items := range results {
		rep.Fetched[s.fetchers[i].Name()] = len(items)
		merged = append(merged, items...)
	}
	if len(merged) == 0 {
		return rep, ErrNoItems
	}

	processed := s.processor.Process(merged)
	if err := s.store.SaveArticles(ctx, processed); err != nil {
		return rep, fmt.Errorf("save: %w", err)
	}
	rep.Saved = len(processed)
	rep.Articles = processed
	rep.Duration = time.Since(start)
	metrics.ObserveSync(rep.Duration, rep.Saved)

	for _, h := range s.hooks {
		h(ctx, rep)
	}
	s.log.Info("sync done",
		zap.Int("fetched", len(merged)),
		zap.Int("saved", rep.Saved),
		zap.Duration("took", rep.Duration))
	return rep, nil
}
