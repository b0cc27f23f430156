package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"etsy_source/internal/model"
	"etsy_source/internal/repository"
)

// CollectionController 同步结果只读接口
type CollectionController struct {
	repo repository.CollectionRepository
}

func NewCollectionController(repo repository.CollectionRepository) *CollectionController {
	return &CollectionController{repo: repo}
}

// List 集合列表
// @Summary 获取同步集合列表
// @Description 分页查询历次同步生成的集合，可按类型名筛选
// @Tags Collection (同步结果)
// @Produce json
// @Param type_name query string false "类型名 (如 EtsyProduct)"
// @Param page query int false "页码 (默认1)"
// @Param page_size query int false "每页数量 (默认20，最大100)"
// @Success 200 {object} map[string]interface{} "data: {list, total}"
// @Failure 500 {object} map[string]interface{} "查询失败"
// @Router /collections [get]
func (c *CollectionController) List(ctx *gin.Context) {
	filter := repository.CollectionFilter{
		TypeName: ctx.Query("type_name"),
		Page:     queryInt(ctx, "page", 1),
		PageSize: queryInt(ctx, "page_size", 20),
	}

	list, total, err := c.repo.ListCollections(ctx.Request.Context(), filter)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": gin.H{"list": list, "total": total},
	})
}

// Nodes 集合内记录 (分页)，id 为集合 uuid 或 latest
// @Summary 获取集合内商品记录
// @Tags Collection (同步结果)
// @Produce json
// @Param id path string true "集合 UUID 或 latest"
// @Param page query int false "页码 (默认1)"
// @Param page_size query int false "每页数量 (默认20，最大100)"
// @Success 200 {object} map[string]interface{} "data: {collection, list, total, page, page_size}"
// @Failure 404 {object} map[string]interface{} "集合不存在"
// @Failure 500 {object} map[string]interface{} "查询失败"
// @Router /collections/{id}/nodes [get]
func (c *CollectionController) Nodes(ctx *gin.Context) {
	col, ok := c.findCollection(ctx)
	if !ok {
		return
	}

	page := queryInt(ctx, "page", 1)
	pageSize := queryInt(ctx, "page_size", 20)
	nodes, total, err := c.repo.ListNodes(ctx.Request.Context(), col.ID, page, pageSize)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": gin.H{
			"collection": col,
			"list":       nodes,
			"total":      total,
			"page":       page,
			"page_size":  pageSize,
		},
	})
}

// NodeBySlug 按 slug 查询单条记录
// @Summary 按 slug 获取商品记录
// @Tags Collection (同步结果)
// @Produce json
// @Param id path string true "集合 UUID 或 latest"
// @Param slug path string true "商品 slug"
// @Success 200 {object} map[string]interface{} "data: Node"
// @Failure 404 {object} map[string]interface{} "集合或记录不存在"
// @Failure 500 {object} map[string]interface{} "查询失败"
// @Router /collections/{id}/nodes/{slug} [get]
func (c *CollectionController) NodeBySlug(ctx *gin.Context) {
	col, ok := c.findCollection(ctx)
	if !ok {
		return
	}

	node, err := c.repo.GetNodeBySlug(ctx.Request.Context(), col.ID, ctx.Param("slug"))
	if err != nil {
		respondLookupError(ctx, err, "记录不存在")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"code": 0, "data": node})
}

func (c *CollectionController) findCollection(ctx *gin.Context) (*model.Collection, bool) {
	id := ctx.Param("id")

	var (
		col *model.Collection
		err error
	)
	if id == "latest" {
		col, err = c.repo.LatestCollection(ctx.Request.Context(), ctx.Query("type_name"))
	} else {
		col, err = c.repo.GetCollectionByUUID(ctx.Request.Context(), id)
	}
	if err != nil {
		respondLookupError(ctx, err, "集合不存在")
		return nil, false
	}
	return col, true
}

// ==================== 辅助函数 ====================

func respondLookupError(ctx *gin.Context, err error, notFound string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"code": 404, "message": notFound})
		return
	}
	ctx.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
}

func queryInt(ctx *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(ctx.Query(key))
	if err != nil || v < 1 {
		return def
	}
	return v
}
