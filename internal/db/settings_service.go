package db

import (
	"context"
	"errors"

	"gorm.io/gorm/clause"

	"github.com/balkashynov/vibetrack/internal/models"
)

var errEmptyKey = errors.New("settings: empty key")

// Settings is a key/value view over the settings table
type Settings struct {
	store *Store
}

// Settings returns the key/value store sharing this database
func (s *Store) Settings() *Settings {
	return &Settings{store: s}
}

// Get returns the value stored under key, or models.ErrNotFound
func (kv *Settings) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errEmptyKey
	}
	var setting models.Setting
	if err := kv.store.conn(ctx).Where(&models.Setting{Key: key}).First(&setting).Error; err != nil {
		return nil, notFound(err)
	}
	return setting.Value, nil
}

// Put creates or replaces the value under key
func (kv *Settings) Put(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return errEmptyKey
	}
	setting := models.Setting{Key: key, Value: value}
	return kv.store.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}

// Delete removes key; a missing key is not an error
func (kv *Settings) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errEmptyKey
	}
	return kv.store.conn(ctx).Where(&models.Setting{Key: key}).Delete(&models.Setting{}).Error
}
