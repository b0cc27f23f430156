package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== CooldownLimiter 同步冷却 ====================

// CooldownLimiter 手动同步冷却
// 防止频繁触发同步导致 Etsy API 限流
type CooldownLimiter struct {
	locks sync.Map // key -> *lockEntry
	now   func() time.Time
}

type lockEntry struct {
	lastTime time.Time
	mu       sync.Mutex
}

func NewCooldownLimiter() *CooldownLimiter {
	return &CooldownLimiter{now: time.Now}
}

// CheckResult 检查结果
type CheckResult struct {
	Allowed    bool
	RetryAfter time.Duration // 剩余冷却时间
}

// Check 允许时同时记录执行时间
// interval <= 0 表示不限流
func (r *CooldownLimiter) Check(key string, interval time.Duration) CheckResult {
	if interval <= 0 {
		return CheckResult{Allowed: true}
	}

	actual, _ := r.locks.LoadOrStore(key, &lockEntry{})
	entry := actual.(*lockEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := r.now()
	if !entry.lastTime.IsZero() {
		if elapsed := now.Sub(entry.lastTime); elapsed < interval {
			return CheckResult{Allowed: false, RetryAfter: interval - elapsed}
		}
	}

	entry.lastTime = now
	return CheckResult{Allowed: true}
}

// Reset 清除冷却 (同步失败时允许立即重试)
func (r *CooldownLimiter) Reset(key string) {
	r.locks.Delete(key)
}

// ==================== 中间件 ====================

// SyncCooldown 同步冷却中间件
// 后续处理返回 4xx/5xx (如同步进行中) 时释放冷却
//
//	router.POST("/api/sync", middleware.SyncCooldown(limiter, "sync:etsy", 5*time.Minute), ctl.Trigger)
func SyncCooldown(limiter *CooldownLimiter, key string, interval time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := limiter.Check(key, interval)
		if !result.Allowed {
			retryAfter := int(result.RetryAfter.Seconds())
			c.Header("Retry-After", fmt.Sprint(retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    429,
				"message": formatRetryMessage(result.RetryAfter),
				"data": gin.H{
					"retry_after": retryAfter,
				},
			})
			c.Abort()
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			limiter.Reset(key)
		}
	}
}

// formatRetryMessage 格式化重试提示信息
func formatRetryMessage(d time.Duration) string {
	seconds := int(d.Seconds())

	if seconds < 60 {
		return fmt.Sprintf("同步冷却中，请 %d 秒后重试", seconds)
	}

	minutes := seconds / 60
	remainingSeconds := seconds % 60

	if remainingSeconds == 0 {
		return fmt.Sprintf("同步冷却中，请 %d 分钟后重试", minutes)
	}

	return fmt.Sprintf("同步冷却中，请 %d 分 %d 秒后重试", minutes, remainingSeconds)
}
