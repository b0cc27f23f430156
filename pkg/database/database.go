package database

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrUnknownDriver 不支持的数据库驱动
var ErrUnknownDriver = errors.New("unknown database driver")

// Config 数据库配置
type Config struct {
	Driver string // postgres | sqlite
	DSN    string
	Debug  bool // 打印所有 SQL
}

// Open 打开数据库连接并自动建表
// models: 需要自动建表/迁移的结构体指针
func Open(cfg Config, log *zap.Logger, models ...interface{}) (*gorm.DB, error) {
	if cfg.Driver == "" {
		cfg.Driver = "sqlite"
	}
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	level := logger.Warn
	if cfg.Debug {
		level = logger.Info
	}

	// 有 zap 时 SQL 日志走应用日志管道
	var gormLog logger.Interface = logger.Default.LogMode(level)
	if log != nil {
		gormLog = NewGormLogger(log, level)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}

	// 获取底层的 sqlDB 对象，用于设置连接池参数
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 SQL DB 失败: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// sqlite 单写者
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("自动建表出错: %w", err)
		}
	}

	if log != nil {
		log.Info("数据库连接成功", zap.String("driver", cfg.Driver))
	}
	return db, nil
}

func dialectorFor(cfg Config) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "postgres":
		return postgres.Open(cfg.DSN), nil
	case "sqlite":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "file:etsy_source.db"
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.Driver)
	}
}
