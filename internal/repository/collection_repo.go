package repository

import (
	"context"

	"gorm.io/gorm"

	"etsy_source/internal/model"
)

// ==================== 接口定义 ====================

// CollectionRepository 集合/记录仓储接口
type CollectionRepository interface {
	// 集合
	CreateCollection(ctx context.Context, c *model.Collection) error
	GetCollectionByUUID(ctx context.Context, uuid string) (*model.Collection, error)
	ListCollections(ctx context.Context, filter CollectionFilter) ([]model.Collection, int64, error)
	LatestCollection(ctx context.Context, typeName string) (*model.Collection, error)

	// 记录
	AddNode(ctx context.Context, node *model.Node) error
	ListNodes(ctx context.Context, collectionID int64, page, pageSize int) ([]model.Node, int64, error)
	GetNodeBySlug(ctx context.Context, collectionID int64, slug string) (*model.Node, error)

	// 事务
	WithTx(tx *gorm.DB) CollectionRepository
	Transaction(ctx context.Context, fn func(txRepo CollectionRepository) error) error
}

// ==================== 过滤条件 ====================

// CollectionFilter 集合过滤条件
type CollectionFilter struct {
	TypeName string
	Page     int
	PageSize int
}

// ==================== 仓储实现 ====================

type collectionRepo struct {
	db *gorm.DB
}

// NewCollectionRepository 创建集合仓储
func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &collectionRepo{db: db}
}

func (r *collectionRepo) CreateCollection(ctx context.Context, c *model.Collection) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *collectionRepo) GetCollectionByUUID(ctx context.Context, uuid string) (*model.Collection, error) {
	var c model.Collection
	err := r.db.WithContext(ctx).Where("uuid = ?", uuid).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *collectionRepo) ListCollections(ctx context.Context, filter CollectionFilter) ([]model.Collection, int64, error) {
	var list []model.Collection
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Collection{})
	if filter.TypeName != "" {
		query = query.Where("type_name = ?", filter.TypeName)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	err := query.Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *collectionRepo) LatestCollection(ctx context.Context, typeName string) (*model.Collection, error) {
	var c model.Collection
	query := r.db.WithContext(ctx)
	if typeName != "" {
		query = query.Where("type_name = ?", typeName)
	}
	if err := query.Order("id DESC").First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// AddNode 写入记录并累加集合计数
func (r *collectionRepo) AddNode(ctx context.Context, node *model.Node) error {
	return r.Transaction(ctx, func(txRepo CollectionRepository) error {
		tx := txRepo.(*collectionRepo).db
		if err := tx.Create(node).Error; err != nil {
			return err
		}
		return tx.Model(&model.Collection{}).
			Where("id = ?", node.CollectionID).
			UpdateColumn("node_count", gorm.Expr("node_count + ?", 1)).Error
	})
}

func (r *collectionRepo) ListNodes(ctx context.Context, collectionID int64, page, pageSize int) ([]model.Node, int64, error) {
	var nodes []model.Node
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Node{}).Where("collection_id = ?", collectionID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize = normalizePage(page, pageSize)
	err := query.Order("position ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&nodes).Error
	if err != nil {
		return nil, 0, err
	}

	return nodes, total, nil
}

// GetNodeBySlug slug 不保证唯一，取位置最靠前的一条
func (r *collectionRepo) GetNodeBySlug(ctx context.Context, collectionID int64, slug string) (*model.Node, error) {
	var node model.Node
	err := r.db.WithContext(ctx).
		Where("collection_id = ? AND slug = ?", collectionID, slug).
		Order("position ASC").
		First(&node).Error
	if err != nil {
		return nil, err
	}
	return &node, nil
}

func (r *collectionRepo) WithTx(tx *gorm.DB) CollectionRepository {
	return &collectionRepo{db: tx}
}

func (r *collectionRepo) Transaction(ctx context.Context, fn func(txRepo CollectionRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

// ==================== 辅助函数 ====================

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
