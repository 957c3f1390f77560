// internal/storage/store.go
package storage

import (
	"errors"
	"sync"
)

// 存储桶名称，各记录类型拥有独立的ID命名空间
const (
	BucketContent  = "content"
	BucketProfiles = "profiles"
	BucketScripts  = "scripts"
	BucketSlides   = "slides"
)

// ErrKeyNotFound 键不存在
var ErrKeyNotFound = errors.New("存储键不存在")

// Store 按桶+键寻址的存储抽象
// 核心流水线只依赖这个接口，便于测试时替换为内存实现
type Store interface {
	// Put 原子性地写入整条记录（整体替换，不做局部合并）
	Put(bucket, key string, data []byte) error

	// Get 读取记录内容，键不存在时返回 ErrKeyNotFound
	Get(bucket, key string) ([]byte, error)

	// Exists 检查记录是否存在
	Exists(bucket, key string) bool

	// Delete 删除记录
	Delete(bucket, key string) error
}

// MemoryStore 内存实现，用于测试
type MemoryStore struct {
	mu      sync.RWMutex
	buckets map[string]map[string][]byte
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		buckets: make(map[string]map[string][]byte),
	}
}

func (m *MemoryStore) Put(bucket, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, exists := m.buckets[bucket]
	if !exists {
		b = make(map[string][]byte)
		m.buckets[bucket] = b
	}

	// 复制数据，避免调用方后续修改影响存储内容
	stored := make([]byte, len(data))
	copy(stored, data)
	b[key] = stored

	return nil
}

func (m *MemoryStore) Get(bucket, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, exists := m.buckets[bucket]
	if !exists {
		return nil, ErrKeyNotFound
	}

	data, exists := b[key]
	if !exists {
		return nil, ErrKeyNotFound
	}

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MemoryStore) Exists(bucket, key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, exists := m.buckets[bucket]
	if !exists {
		return false
	}
	_, exists = b[key]
	return exists
}

func (m *MemoryStore) Delete(bucket, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, exists := m.buckets[bucket]
	if !exists {
		return ErrKeyNotFound
	}
	if _, exists := b[key]; !exists {
		return ErrKeyNotFound
	}

	delete(b, key)
	return nil
}
