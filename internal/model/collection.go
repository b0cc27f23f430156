package model

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Collection 一次同步产生的一组记录
// 每次同步都新建，不复用旧集合
type Collection struct {
	BaseModel
	UUID      string `gorm:"size:36;uniqueIndex;not null" json:"uuid"`
	TypeName  string `gorm:"size:100;index;not null" json:"type_name"` // EtsyProduct
	NodeCount int    `gorm:"default:0" json:"node_count"`

	Nodes []Node `gorm:"foreignKey:CollectionID" json:"-"`
}

func (Collection) TableName() string {
	return "collections"
}

func (c *Collection) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == "" {
		c.UUID = uuid.New().String()
	}
	return nil
}

// Node 集合中的一条记录 (一个商品)
type Node struct {
	BaseModel
	CollectionID int64 `gorm:"uniqueIndex:idx_collection_position;not null" json:"collection_id"`
	Position     int   `gorm:"uniqueIndex:idx_collection_position" json:"position"` // 在 API 页中的顺序，从 0 开始

	// --- 冗余字段，便于查询 ---
	ListingID int64  `gorm:"index" json:"listing_id"`
	Slug      string `gorm:"size:255;index" json:"slug"`
	Title     string `gorm:"size:255" json:"title"`

	// 完整记录: 规范化字段 + images + slug
	Data datatypes.JSON `gorm:"type:jsonb" json:"data"`
}

func (Node) TableName() string {
	return "nodes"
}
