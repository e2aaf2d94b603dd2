package storage

import "sync"

// MemoryStore 是 Store 的内存实现，主要用于测试。
type MemoryStore struct {
	mu       sync.RWMutex
	data     map[string]map[string]string
	OnChange ChangeFunc
}

// NewMemoryStore 构造 MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]string)}
}

// Get 返回指定键的值
func (s *MemoryStore) Get(clientID, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values, ok := s.data[clientID]
	if !ok {
		return "", false, nil
	}
	value, ok := values[key]
	return value, ok, nil
}

// Set 覆盖写入指定键
func (s *MemoryStore) Set(clientID, key, value string) error {
	s.mu.Lock()
	if s.data[clientID] == nil {
		s.data[clientID] = make(map[string]string)
	}
	s.data[clientID][key] = value
	s.mu.Unlock()

	if s.OnChange != nil {
		s.OnChange(clientID, key, value)
	}
	return nil
}

// Delete 删除指定键
func (s *MemoryStore) Delete(clientID, key string) error {
	s.mu.Lock()
	if values := s.data[clientID]; values != nil {
		delete(values, key)
	}
	s.mu.Unlock()

	if s.OnChange != nil {
		s.OnChange(clientID, key, "")
	}
	return nil
}
