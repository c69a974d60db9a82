package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/frijal/ArtikelHub/internal/article"
	"github.com/frijal/ArtikelHub/internal/processor"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// IndexCacheKey holds the whole serialized index.
	IndexCacheKey = "artikel:index"
	indexCacheTTL = 5 * time.Minute
	saveBatchSize = 200
)

// ErrNotFound is returned by lookups that match nothing.
var ErrNotFound = errors.New("storage: not found")

// ArticleRecord mirrors one artikel.json tuple.
type ArticleRecord struct {
	ID          string         `gorm:"primaryKey;size:40" json:"id"`
	Slug        string         `gorm:"size:512;uniqueIndex" json:"slug"`
	Title       string         `gorm:"size:512" json:"title"`
	Image       string         `gorm:"size:1024" json:"image"`
	Category    string         `gorm:"size:128;index" json:"category"`
	Description string         `gorm:"size:600" json:"description"`
	RawDate     string         `gorm:"size:64" json:"date"`
	PublishedAt *time.Time     `gorm:"index" json:"publishedAt"`
	Position    int            `gorm:"index" json:"position"`
	Source      string         `gorm:"size:64;index" json:"source"`
	Tuple       datatypes.JSON `gorm:"type:jsonb" json:"tuple"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (ArticleRecord) TableName() string {
	return "articles"
}

type Store struct {
	DB    *gorm.DB
	Redis *redis.Client
	loc   *time.Location
	log   *zap.Logger
}

// NewStore opens Postgres and, when redisAddr is set, Redis.
func NewStore(dsn, redisAddr string, loc *time.Location, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&ArticleRecord{}, &PageCheckRecord{}); err != nil {
		return nil, err
	}

	return &Store{DB: db, Redis: NewRedis(redisAddr, log), loc: loc, log: log}, nil
}

// NewRedis connects to addr, or returns nil when addr is empty. A failed
// ping is logged but the client is still returned.
func NewRedis(addr string, log *zap.Logger) *redis.Client {
	if addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil && log != nil {
		log.Warn("redis ping failed", zap.String("addr", addr), zap.Error(err))
	}
	return rdb
}

// toValidUTF8 keeps Postgres from rejecting invalid byte sequences.
func toValidUTF8(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}

// truncateRunesDB keeps values inside their varchar limits.
func truncateRunesDB(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	s = strings.TrimSpace(s)
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit])
}

func recordFrom(it processor.ProcessedArticle) ArticleRecord {
	a := it.Article
	a.Title = truncateRunesDB(toValidUTF8(a.Title), 512)
	a.Description = truncateRunesDB(toValidUTF8(a.Description), 600)
	tuple, _ := json.Marshal(a.Tuple())

	r := ArticleRecord{
		ID:          it.ID,
		Slug:        a.Slug,
		Title:       a.Title,
		Image:       truncateRunesDB(a.Image, 1024),
		Category:    truncateRunesDB(toValidUTF8(a.Category), 128),
		Description: a.Description,
		RawDate:     truncateRunesDB(a.RawDate, 64),
		Position:    it.Position,
		Source:      it.Source,
		Tuple:       datatypes.JSON(tuple),
	}
	if a.Dated() {
		t := a.Published
		r.PublishedAt = &t
	}
	return r
}

// SaveArticles replaces the mirrored index with items: rows are upserted by
// slug and slugs no longer present are removed. The index cache is
// dropped afterwards.
func (s *Store) SaveArticles(ctx context.Context, items []processor.ProcessedArticle) error {
	if len(items) == 0 {
		return nil
	}
	records := make([]ArticleRecord, 0, len(items))
	slugs := make([]string, 0, len(items))
	for _, it := range items {
		records = append(records, recordFrom(it))
		slugs = append(slugs, it.Slug)
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return writeSnapshot(tx, records, slugs)
	})
	if err != nil {
		return err
	}

	s.InvalidateIndex(ctx)
	return nil
}

// writeSnapshot upserts records by slug in batches of saveBatchSize and
// deletes every row whose slug is not in slugs.
func writeSnapshot(tx *gorm.DB, records []ArticleRecord, slugs []string) error {
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "image", "category", "description", "raw_date",
			"published_at", "position", "source", "tuple", "updated_at",
		}),
	}).CreateInBatches(records, saveBatchSize).Error
	if err != nil {
		return fmt.Errorf("upsert articles: %w", err)
	}
	if err := tx.Where("slug NOT IN ?", slugs).Delete(&ArticleRecord{}).Error; err != nil {
		return fmt.Errorf("prune articles: %w", err)
	}
	return nil
}

// LoadIndex returns the index from the Redis blob cache, falling back to
// the database and refilling the cache.
func (s *Store) LoadIndex(ctx context.Context) (*article.Index, error) {
	if data, ok := getBlob(ctx, s.Redis, IndexCacheKey); ok {
		if ix, err := article.ParseIn(data, s.loc); err == nil {
			return ix, nil
		}
	}

	var rows []ArticleRecord
	if err := s.DB.WithContext(ctx).Order("position ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	ix := IndexFromRecords(rows, s.loc)

	if s.Redis != nil && ix.Len() > 0 {
		if data, err := article.Marshal(ix); err == nil {
			setBlob(ctx, s.Redis, IndexCacheKey, data, indexCacheTTL)
		}
	}
	return ix, nil
}

// InvalidateIndex drops the cached index blob.
func (s *Store) InvalidateIndex(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, IndexCacheKey).Err(); err != nil {
		s.log.Warn("drop index cache", zap.Error(err))
	}
}

// IndexFromRecords rebuilds the grouped index. Rows must be ordered by
// position; categories appear in the order of their first row.
func IndexFromRecords(rows []ArticleRecord, loc *time.Location) *article.Index {
	var groups []article.Group
	pos := make(map[string]int)
	for _, r := range rows {
		a := article.Article{
			Title:       r.Title,
			Slug:        r.Slug,
			Image:       r.Image,
			RawDate:     r.RawDate,
			Description: r.Description,
			Category:    r.Category,
		}
		if r.PublishedAt != nil {
			a.Published = *r.PublishedAt
		} else if t, ok := article.ParseDate(r.RawDate, loc); ok {
			a.Published = t
		}
		i, ok := pos[r.Category]
		if !ok {
			i = len(groups)
			pos[r.Category] = i
			groups = append(groups, article.Group{Name: r.Category})
		}
		groups[i].Articles = append(groups[i].Articles, a)
	}
	return article.New(groups, loc)
}

func getBlob(ctx context.Context, rdb *redis.Client, key string) ([]byte, bool) {
	if rdb == nil {
		return nil, false
	}
	bs, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return bs, true
}

func setBlob(ctx context.Context, rdb *redis.Client, key string, data []byte, ttl time.Duration) {
	if rdb == nil {
		return
	}
	_ = rdb.Set(ctx, key, data, ttl).Err()
}
