package task

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"etsy_source/internal/store"
)

// ErrSyncRunning 已有同步在执行
var ErrSyncRunning = errors.New("sync already running")

// Loader 执行一次完整加载 (host.Host)
type Loader interface {
	Load(ctx context.Context, st store.Store) error
}

// SyncStatus 最近一次同步状态
type SyncStatus struct {
	Running    bool      `json:"running"`
	Runs       int       `json:"runs"`
	StartedAt  time.Time `json:"started_at,omitempty"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// ==================== SyncTask 同步任务 ====================

// SyncTask 数据源同步任务
// 同一时刻只允许一次同步：定时触发与手动触发共用一把锁
type SyncTask struct {
	loader  Loader
	store   store.Store
	cron    *cron.Cron
	timeout time.Duration
	logger  *zap.Logger

	// Stop 时取消，所有同步都从它派生
	baseCtx context.Context
	cancel  context.CancelFunc

	runMu sync.Mutex

	mu     sync.RWMutex
	status SyncStatus
}

func NewSyncTask(loader Loader, st store.Store, logger *zap.Logger) *SyncTask {
	if logger == nil {
		logger = zap.NewNop()
	}
	baseCtx, cancel := context.WithCancel(context.Background())
	return &SyncTask{
		loader:  loader,
		store:   st,
		cron:    cron.New(cron.WithSeconds()),
		timeout: time.Hour,
		logger:  logger.With(zap.String("component", "sync_task")),
		baseCtx: baseCtx,
		cancel:  cancel,
	}
}

// SetTimeout 单次同步超时，<= 0 表示不限制
func (t *SyncTask) SetTimeout(d time.Duration) {
	t.timeout = d
}

// Start 按 cron 表达式 (秒级，6 段) 定时同步；spec 为空时不调度
func (t *SyncTask) Start(spec string) error {
	if spec == "" {
		return nil
	}
	_, err := t.cron.AddFunc(spec, func() {
		if err := t.SyncNow(t.baseCtx); errors.Is(err, ErrSyncRunning) {
			t.logger.Info("跳过定时同步，上一次仍在执行")
		}
	})
	if err != nil {
		return err
	}
	t.cron.Start()
	t.logger.Info("定时同步已启动", zap.String("spec", spec))
	return nil
}

// Stop 停止调度，取消正在执行的同步并等待其退出
func (t *SyncTask) Stop() {
	t.cancel()
	ctx := t.cron.Stop()
	<-ctx.Done()
	t.runMu.Lock()
	defer t.runMu.Unlock()
}

// SyncNow 同步执行一次
func (t *SyncTask) SyncNow(ctx context.Context) error {
	if !t.runMu.TryLock() {
		return ErrSyncRunning
	}
	defer t.runMu.Unlock()
	return t.run(ctx)
}

// Trigger 后台执行一次，立即返回
func (t *SyncTask) Trigger() error {
	if !t.runMu.TryLock() {
		return ErrSyncRunning
	}
	t.markStarted()
	go func() {
		defer t.runMu.Unlock()
		_ = t.execute(t.baseCtx)
	}()
	return nil
}

// Status 最近一次同步状态
func (t *SyncTask) Status() SyncStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

func (t *SyncTask) run(ctx context.Context) error {
	t.markStarted()
	return t.execute(ctx)
}

func (t *SyncTask) markStarted() {
	t.mu.Lock()
	t.status.Running = true
	t.status.StartedAt = time.Now()
	t.mu.Unlock()
}

func (t *SyncTask) execute(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(t.baseCtx, cancel)
	defer stop()

	if t.timeout > 0 {
		var timeoutCancel context.CancelFunc
		ctx, timeoutCancel = context.WithTimeout(ctx, t.timeout)
		defer timeoutCancel()
	}

	err := t.loader.Load(ctx, t.store)

	t.mu.Lock()
	t.status.Running = false
	t.status.Runs++
	t.status.FinishedAt = time.Now()
	t.status.Error = ""
	if err != nil {
		t.status.Error = err.Error()
	}
	elapsed := t.status.FinishedAt.Sub(t.status.StartedAt)
	t.mu.Unlock()

	if err != nil {
		t.logger.Error("同步失败", zap.Error(err), zap.Duration("elapsed", elapsed))
		return err
	}
	t.logger.Info("同步完成", zap.Duration("elapsed", elapsed))
	return nil
}
