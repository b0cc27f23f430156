package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaConfig 消息总线配置
type KafkaConfig struct {
	Brokers string // 逗号分隔
	Topic   string
}

// messageWriter kafka.Writer 的最小子集
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaStore 每条记录发布为一条消息
// key = slug, headers: type-name / collection-id
type KafkaStore struct {
	writer messageWriter
	logger *zap.Logger
}

func NewKafkaStore(cfg KafkaConfig, logger *zap.Logger) (*KafkaStore, error) {
	brokers := splitBrokers(cfg.Brokers)
	if len(brokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS 未配置")
	}
	topic := cfg.Topic
	if topic == "" {
		topic = "etsy-products"
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	return newKafkaStore(writer, logger), nil
}

func newKafkaStore(writer messageWriter, logger *zap.Logger) *KafkaStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaStore{writer: writer, logger: logger.With(zap.String("component", "kafka_store"))}
}

func (s *KafkaStore) AddCollection(_ context.Context, typeName string) (Collection, error) {
	return &kafkaCollection{store: s, id: uuid.New().String(), typeName: typeName}, nil
}

// Close 关闭底层 writer，刷新未发送的消息
func (s *KafkaStore) Close() error {
	return s.writer.Close()
}

type kafkaCollection struct {
	store    *KafkaStore
	id       string
	typeName string
}

func (c *kafkaCollection) ID() string       { return c.id }
func (c *kafkaCollection) TypeName() string { return c.typeName }

func (c *kafkaCollection) AddNode(ctx context.Context, record Record) error {
	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("序列化记录失败: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(recordString(record, "slug")),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type-name", Value: []byte(c.typeName)},
			{Key: "collection-id", Value: []byte(c.id)},
		},
	}
	if err := c.store.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("发送消息失败: %w", err)
	}
	return nil
}

func splitBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
