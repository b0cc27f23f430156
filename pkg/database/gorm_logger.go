package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// defaultSlowThreshold 超过该耗时的 SQL 以 Warn 记录
const defaultSlowThreshold = 200 * time.Millisecond

// GormLogger 将 gorm 日志写入 zap
type GormLogger struct {
	log           *zap.Logger
	level         logger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger 创建 zap 版 gorm logger
func NewGormLogger(log *zap.Logger, level logger.LogLevel) *GormLogger {
	return &GormLogger{
		log:           log.Named("gorm"),
		level:         level,
		slowThreshold: defaultSlowThreshold,
	}
}

func (l *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *GormLogger) Info(_ context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Info {
		l.log.Sugar().Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(_ context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Warn {
		l.log.Sugar().Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(_ context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Error {
		l.log.Sugar().Errorf(msg, data...)
	}
}

// Trace 记录每条 SQL: 出错 Error，慢查询 Warn，其余 Debug (仅 Info 级别)
// 记录不存在不视为错误
func (l *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}

	switch {
	case err != nil && l.level >= logger.Error:
		if errors.Is(err, logger.ErrRecordNotFound) {
			return
		}
		l.log.Error("SQL 执行失败", append(fields, zap.Error(err))...)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= logger.Warn:
		l.log.Warn(fmt.Sprintf("慢查询 >= %v", l.slowThreshold), fields...)
	case l.level >= logger.Info:
		l.log.Debug("SQL", fields...)
	}
}
