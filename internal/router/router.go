package router

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"etsy_source/internal/controller"
	"etsy_source/internal/middleware"
)

// syncCooldownKey 手动同步冷却 key
const syncCooldownKey = "sync:etsy"

// Deps 路由依赖
type Deps struct {
	Logger        *zap.Logger
	SyncCtl       *controller.SyncController
	CollectionCtl *controller.CollectionController // 为 nil 时不注册只读接口 (非 db 存储)
	Limiter       *middleware.CooldownLimiter
	SyncCooldown  time.Duration
}

// New 创建 gin 引擎并注册所有路由
func New(deps Deps) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	limiter := deps.Limiter
	if limiter == nil {
		limiter = middleware.NewCooldownLimiter()
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestLogger(log), middleware.Recovery(log))

	// Swagger 文档: http://localhost:8080/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		// GET /api/health
		api.GET("/health", controller.Health)

		// 同步
		if deps.SyncCtl != nil {
			api.GET("/sync", deps.SyncCtl.Status)
			api.POST("/sync",
				middleware.SyncCooldown(limiter, syncCooldownKey, deps.SyncCooldown),
				deps.SyncCtl.Trigger,
			)
		}

		// 同步结果
		if deps.CollectionCtl != nil {
			collections := api.Group("/collections")
			{
				collections.GET("", deps.CollectionCtl.List)
				collections.GET("/:id/nodes", deps.CollectionCtl.Nodes)
				collections.GET("/:id/nodes/:slug", deps.CollectionCtl.NodeBySlug)
			}
		}
	}

	return r
}
