package db

import "gorm.io/gorm"

// StorageEntry 表示某个客户端的一条键值记录，对应浏览器端 localStorage 的一个键。
// ClientID + Key 采用唯一索引，保证同一客户端同一键只有一行；Value 存 JSON 编码后的文本。
type StorageEntry struct {
	gorm.Model
	ClientID string `gorm:"index;index:idx_storage_client_key,unique;not null"`
	Key      string `gorm:"index:idx_storage_client_key,unique;not null"`
	Value    string
}

// TableName 指定表名
func (StorageEntry) TableName() string {
	return "storage_entries"
}
