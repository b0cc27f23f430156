package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"etsy_source/internal/task"
)

// SyncTrigger 同步任务 (task.SyncTask)
type SyncTrigger interface {
	Trigger() error
	Status() task.SyncStatus
}

// SyncController 同步控制器
type SyncController struct {
	task SyncTrigger
}

func NewSyncController(t SyncTrigger) *SyncController {
	return &SyncController{task: t}
}

// Trigger 手动触发一次同步 (后台执行)
// @Summary 手动触发同步
// @Description 后台执行一次完整的 Etsy 同步，受冷却时间限制
// @Tags Sync (同步)
// @Produce json
// @Success 202 {object} map[string]interface{} "同步已触发"
// @Failure 409 {object} map[string]interface{} "同步进行中"
// @Failure 429 {object} map[string]interface{} "冷却中，data.retry_after 为剩余秒数"
// @Failure 500 {object} map[string]interface{} "触发失败"
// @Router /sync [post]
func (c *SyncController) Trigger(ctx *gin.Context) {
	if err := c.task.Trigger(); err != nil {
		if errors.Is(err, task.ErrSyncRunning) {
			ctx.JSON(http.StatusConflict, gin.H{"code": 409, "message": "同步进行中"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}

	ctx.JSON(http.StatusAccepted, gin.H{
		"code":    0,
		"message": "同步已触发",
	})
}

// Status 最近一次同步状态
// @Summary 获取同步状态
// @Tags Sync (同步)
// @Produce json
// @Success 200 {object} map[string]interface{} "data: SyncStatus"
// @Router /sync [get]
func (c *SyncController) Status(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"code": 0, "data": c.task.Status()})
}

// Health 健康检查
// @Summary 健康检查
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string "status: ok"
// @Router /health [get]
func Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
