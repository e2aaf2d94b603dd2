package storage

import (
	"errors"
	"fmt"

	"github.com/smartbytes/menuboard/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore 基于 storage_entries 表的 Store 实现。
// OnChange 不为空时，每次成功写入/删除后同步回调一次。
type GormStore struct {
	db       *gorm.DB
	OnChange ChangeFunc
}

// NewGormStore 构造 GormStore
func NewGormStore(gdb *gorm.DB) *GormStore {
	return &GormStore{db: gdb}
}

// Get 返回指定键的值
func (s *GormStore) Get(clientID, key string) (string, bool, error) {
	var entry db.StorageEntry
	err := s.db.Where("client_id = ? AND key = ?", clientID, key).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get storage entry: %w", err)
	}
	return entry.Value, true, nil
}

// Set 幂等写入：若 (client_id, key) 已存在则更新 value，否则创建
func (s *GormStore) Set(clientID, key, value string) error {
	entry := db.StorageEntry{
		ClientID: clientID,
		Key:      key,
		Value:    value,
	}

	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "client_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error; err != nil {
		return fmt.Errorf("set storage entry: %w", err)
	}

	if s.OnChange != nil {
		s.OnChange(clientID, key, value)
	}
	return nil
}

// Delete 删除指定键
func (s *GormStore) Delete(clientID, key string) error {
	if err := s.db.Where("client_id = ? AND key = ?", clientID, key).
		Delete(&db.StorageEntry{}).Error; err != nil {
		return fmt.Errorf("delete storage entry: %w", err)
	}

	if s.OnChange != nil {
		s.OnChange(clientID, key, "")
	}
	return nil
}
