package host

import (
	"context"
	"sync"

	"etsy_source/internal/store"
)

// LoadFunc 数据源加载回调，拿到可写存储后执行一次完整同步
type LoadFunc func(ctx context.Context, st store.Store) error

// API 数据源插件可用的宿主接口
type API interface {
	LoadSource(fn LoadFunc)
}

// Host 保存已注册的数据源，按注册顺序执行
type Host struct {
	mu      sync.Mutex
	sources []LoadFunc
}

func New() *Host {
	return &Host{}
}

func (h *Host) LoadSource(fn LoadFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sources = append(h.sources, fn)
}

// Sources 已注册的回调数量
func (h *Host) Sources() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sources)
}

// Load 依次执行所有回调，遇到第一个错误即返回
func (h *Host) Load(ctx context.Context, st store.Store) error {
	h.mu.Lock()
	sources := make([]LoadFunc, len(h.sources))
	copy(sources, h.sources)
	h.mu.Unlock()

	for _, fn := range sources {
		if err := fn(ctx, st); err != nil {
			return err
		}
	}
	return nil
}
