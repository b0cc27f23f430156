package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"etsy_source/internal/model"
	"etsy_source/internal/repository"
)

// DBStore 数据库存储 (collections + nodes 两张表)
type DBStore struct {
	repo   repository.CollectionRepository
	logger *zap.Logger
}

func NewDBStore(repo repository.CollectionRepository, logger *zap.Logger) *DBStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DBStore{repo: repo, logger: logger.With(zap.String("component", "db_store"))}
}

func (s *DBStore) AddCollection(ctx context.Context, typeName string) (Collection, error) {
	c := &model.Collection{TypeName: typeName}
	if err := s.repo.CreateCollection(ctx, c); err != nil {
		return nil, fmt.Errorf("创建集合失败: %w", err)
	}
	s.logger.Debug("集合已创建", zap.String("uuid", c.UUID), zap.String("type", typeName))
	return &dbCollection{repo: s.repo, model: c}, nil
}

type dbCollection struct {
	repo  repository.CollectionRepository
	model *model.Collection

	mu   sync.Mutex
	next int
}

func (c *dbCollection) ID() string       { return c.model.UUID }
func (c *dbCollection) TypeName() string { return c.model.TypeName }

func (c *dbCollection) AddNode(ctx context.Context, record Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("序列化记录失败: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	node := &model.Node{
		CollectionID: c.model.ID,
		Position:     c.next,
		ListingID:    listingID(record["listingId"]),
		Slug:         recordString(record, "slug"),
		Title:        recordString(record, "title"),
		Data:         datatypes.JSON(data),
	}
	if err := c.repo.AddNode(ctx, node); err != nil {
		return fmt.Errorf("写入记录失败: %w", err)
	}
	c.next++
	return nil
}

// listingID 兼容 json.Number / float64 / 字符串
func listingID(v any) int64 {
	switch id := v.(type) {
	case json.Number:
		n, _ := id.Int64()
		return n
	case float64:
		return int64(id)
	case int64:
		return id
	case int:
		return int64(id)
	case string:
		n, _ := strconv.ParseInt(id, 10, 64)
		return n
	}
	return 0
}
