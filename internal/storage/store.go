// Package storage 提供按客户端隔离的键值存储，语义上对应浏览器端的 localStorage：
// 键是固定字符串，值是 JSON 编码后的文本，写入即覆盖。
package storage

// ChangeFunc 在某个键被写入或删除后被调用，用于驱动跨标签页同步。
// 删除时 value 为空字符串。
type ChangeFunc func(clientID, key, value string)

// Store 定义键值存储后端。实现必须保证同一客户端同一键的读写串行一致。
type Store interface {
	// Get 返回指定键的值；第二个返回值表示键是否存在。
	Get(clientID, key string) (string, bool, error)
	// Set 覆盖写入指定键。
	Set(clientID, key, value string) error
	// Delete 删除指定键；键不存在时不视为错误。
	Delete(clientID, key string) error
}
