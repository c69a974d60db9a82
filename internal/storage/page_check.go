package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PageCheckRecord is one stored page-check report.
type PageCheckRecord struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	URL       string         `gorm:"size:1024;index" json:"url"`
	FinalURL  string         `gorm:"size:1024" json:"finalUrl"`
	Status    int            `json:"status"`
	Ratio     float64        `json:"ratio"`
	Verdict   string         `gorm:"size:64;index" json:"verdict"`
	Report    datatypes.JSON `gorm:"type:jsonb" json:"report"`
	CheckedAt time.Time      `gorm:"index" json:"checkedAt"`
}

func (PageCheckRecord) TableName() string {
	return "page_checks"
}

// SavePageCheck stores a report; CheckedAt defaults to now.
func (s *Store) SavePageCheck(ctx context.Context, r *PageCheckRecord) error {
	if r.CheckedAt.IsZero() {
		r.CheckedAt = time.Now()
	}
	return s.DB.WithContext(ctx).Save(r).Error
}

// ListPageChecks returns the newest reports, optionally for one URL.
func (s *Store) ListPageChecks(ctx context.Context, url string, limit int) ([]PageCheckRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	var list []PageCheckRecord
	db := s.DB.WithContext(ctx).Order("checked_at DESC").Limit(limit)
	if url != "" {
		db = db.Where("url = ?", url)
	}
	err := db.Find(&list).Error
	return list, err
}

// GetPageCheck loads one report by id.
func (s *Store) GetPageCheck(ctx context.Context, id string) (*PageCheckRecord, error) {
	var rec PageCheckRecord
	silent := s.DB.Session(&gorm.Session{Logger: s.DB.Logger.LogMode(logger.Silent)})
	err := silent.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
