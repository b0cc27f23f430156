package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"etsy_source/internal/repository"
)

// ==================== 接口定义 ====================

// Record 写入内容存储的一条记录
type Record map[string]any

// Store 内容存储，每次同步创建一个新集合
type Store interface {
	AddCollection(ctx context.Context, typeName string) (Collection, error)
}

// Collection 可写集合
type Collection interface {
	ID() string
	TypeName() string
	AddNode(ctx context.Context, record Record) error
}

// ErrUnknownDriver 不支持的存储类型
var ErrUnknownDriver = errors.New("unknown store driver")

// ==================== 配置 ====================

// Config 存储配置
type Config struct {
	Driver string // memory | db | s3 | kafka
	S3     S3Config
	Kafka  KafkaConfig
}

// ==================== 工厂方法 ====================

// New 按 Driver 创建存储；db 仅在 Driver=db 时使用
func New(ctx context.Context, cfg Config, db *gorm.DB, log *zap.Logger) (Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	switch strings.ToLower(cfg.Driver) {
	case "memory":
		return NewMemoryStore(), nil
	case "", "db":
		if db == nil {
			return nil, errors.New("db store requires a database connection")
		}
		return NewDBStore(repository.NewCollectionRepository(db), log), nil
	case "s3":
		return NewS3Store(ctx, cfg.S3, log)
	case "kafka":
		return NewKafkaStore(cfg.Kafka, log)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.Driver)
	}
}

// ==================== 辅助函数 ====================

// recordString 读取记录中的字符串字段
func recordString(r Record, key string) string {
	if s, ok := r[key].(string); ok {
		return s
	}
	return ""
}
