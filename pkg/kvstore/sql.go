package kvstore

import (
	"context"
	"errors"

	"github.com/angelmondragon/polly-storefront/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQL stores values in the kv_entries table.
type SQL struct {
	db *gorm.DB
}

func NewSQL(db *gorm.DB) *SQL {
	return &SQL{db: db}
}

func (s *SQL) Get(ctx context.Context, key string) (string, error) {
	var entry models.KVEntry
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return entry.Value, nil
}

func (s *SQL) Set(ctx context.Context, key, value string) error {
	entry := models.KVEntry{Key: key, Value: value}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
}

func (s *SQL) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("key = ?", key).Delete(&models.KVEntry{}).Error
}
