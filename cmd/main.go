package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"etsy_source/internal/config"
	"etsy_source/internal/controller"
	"etsy_source/internal/host"
	"etsy_source/internal/middleware"
	"etsy_source/internal/model"
	"etsy_source/internal/repository"
	"etsy_source/internal/router"
	"etsy_source/internal/service"
	"etsy_source/internal/store"
	"etsy_source/internal/task"
	"etsy_source/pkg/database"
	"etsy_source/pkg/logger"
	"etsy_source/pkg/utils"
)

// @title Etsy Source API
// @version 1.0
// @description Etsy 商品同步服务: 手动/定时同步与同步结果查询
// @host localhost:8080
// @BasePath /api
func main() {
	cfg := config.Load()
	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("运行失败", zap.Error(err))
		stop()
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *zap.Logger {
	if cfg.LogFormat != "" {
		return logger.New(&logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stdout})
	}
	return logger.NewForEnvironment(cfg.Env, cfg.LogLevel)
}

// run 按 RUN_MODE 执行
func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	deps, err := initDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.Close()

	switch cfg.RunMode {
	case "", "once":
		return deps.Host.Load(ctx, deps.Store)
	case "server":
		return startServer(ctx, cfg, deps, log)
	default:
		return fmt.Errorf("unknown RUN_MODE: %s", cfg.RunMode)
	}
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB     *gorm.DB
	Repo   repository.CollectionRepository // 仅 db 存储
	Store  store.Store
	Host   *host.Host
	Source *service.EtsySource
}

// Close 释放存储资源 (kafka writer 等)
func (d *Dependencies) Close() {
	if c, ok := d.Store.(io.Closer); ok {
		_ = c.Close()
	}
	if d.DB != nil {
		if sqlDB, err := d.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// initDependencies 初始化所有依赖
func initDependencies(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{Host: host.New()}

	// -------- 数据库 (仅 db 存储) --------
	if cfg.StoreDriver == "" || cfg.StoreDriver == "db" {
		db, err := database.Open(database.Config{
			Driver: cfg.DBDriver,
			DSN:    cfg.DatabaseURL,
			Debug:  cfg.HTTPDebug,
		}, log, &model.Collection{}, &model.Node{})
		if err != nil {
			return nil, err
		}
		deps.DB = db
		deps.Repo = repository.NewCollectionRepository(db)
	}

	// -------- 存储 --------
	st, err := store.New(ctx, store.Config{
		Driver: cfg.StoreDriver,
		S3:     cfg.S3,
		Kafka:  cfg.Kafka,
	}, deps.DB, log)
	if err != nil {
		deps.Close()
		return nil, err
	}
	deps.Store = st

	// -------- 数据源 --------
	source, err := service.NewEtsySource(deps.Host, service.SourceOptions{
		ShopID:   cfg.ShopID,
		Token:    cfg.Token,
		TypeName: cfg.TypeName,
		LQIP:     cfg.LQIP,
		ProxyURL: cfg.ProxyURL,
		Debug:    cfg.HTTPDebug,
	}, log)
	if err != nil {
		deps.Close()
		return nil, err
	}
	if cfg.LQIPCacheTTL > 0 {
		source.SetThumbnailCache(utils.NewCache(cfg.LQIPCacheTTL))
	}
	deps.Source = source

	return deps, nil
}

// ==================== 服务启动 ====================

// startServer 启动只读接口与定时同步，ctx 结束时优雅关闭
func startServer(ctx context.Context, cfg *config.Config, deps *Dependencies, log *zap.Logger) error {
	syncTask := task.NewSyncTask(deps.Host, deps.Store, log)
	if err := syncTask.Start(cfg.SyncCron); err != nil {
		return fmt.Errorf("SYNC_CRON 无效: %w", err)
	}
	defer syncTask.Stop()

	routerDeps := router.Deps{
		Logger:       log,
		SyncCtl:      controller.NewSyncController(syncTask),
		Limiter:      middleware.NewCooldownLimiter(),
		SyncCooldown: cfg.SyncCooldown,
	}
	if deps.Repo != nil {
		routerDeps.CollectionCtl = controller.NewCollectionController(deps.Repo)
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router.New(routerDeps),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("正在关闭服务...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("服务强制关闭: %w", err)
	}
	log.Info("服务已退出")
	return nil
}
