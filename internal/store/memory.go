package store

import (
	"context"
	"strconv"
	"sync"
)

// MemoryStore 内存存储，用于测试和一次性运行
type MemoryStore struct {
	mu          sync.Mutex
	collections []*MemoryCollection
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) AddCollection(_ context.Context, typeName string) (Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := &MemoryCollection{
		id:       strconv.Itoa(len(s.collections) + 1),
		typeName: typeName,
	}
	s.collections = append(s.collections, c)
	return c, nil
}

// Collections 按创建顺序返回所有集合
func (s *MemoryStore) Collections() []*MemoryCollection {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*MemoryCollection, len(s.collections))
	copy(out, s.collections)
	return out
}

// MemoryCollection 内存集合
type MemoryCollection struct {
	mu       sync.Mutex
	id       string
	typeName string
	nodes    []Record
}

func (c *MemoryCollection) ID() string       { return c.id }
func (c *MemoryCollection) TypeName() string { return c.typeName }

func (c *MemoryCollection) AddNode(_ context.Context, record Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nodes = append(c.nodes, record)
	return nil
}

// Nodes 按写入顺序返回记录
func (c *MemoryCollection) Nodes() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Record, len(c.nodes))
	copy(out, c.nodes)
	return out
}
