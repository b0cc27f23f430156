package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// S3Config 对象存储配置 (兼容 S3 协议的服务均可，如 COS/MinIO)
type S3Config struct {
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string // 自定义端点，设置后使用 path-style
	BasePath  string // 基础路径前缀
}

// objectPutter s3.Client 的最小子集，便于测试替换
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store 每条记录写成一个 JSON 对象
// key: <base>/<typeName>/<collectionID>/<position>.json
type S3Store struct {
	client   objectPutter
	bucket   string
	basePath string
	logger   *zap.Logger
}

func NewS3Store(ctx context.Context, cfg S3Config, logger *zap.Logger) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("S3_BUCKET 未配置")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("加载AWS配置失败: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Store(client, cfg.Bucket, cfg.BasePath, logger), nil
}

func newS3Store(client objectPutter, bucket, basePath string, logger *zap.Logger) *S3Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &S3Store{
		client:   client,
		bucket:   bucket,
		basePath: strings.Trim(basePath, "/"),
		logger:   logger.With(zap.String("component", "s3_store")),
	}
}

func (s *S3Store) AddCollection(_ context.Context, typeName string) (Collection, error) {
	return &s3Collection{
		store:    s,
		id:       uuid.New().String(),
		typeName: typeName,
	}, nil
}

func (s *S3Store) objectKey(typeName, collectionID string, position int) string {
	key := fmt.Sprintf("%s/%s/%d.json", typeName, collectionID, position)
	if s.basePath != "" {
		return s.basePath + "/" + key
	}
	return key
}

type s3Collection struct {
	store    *S3Store
	id       string
	typeName string

	mu   sync.Mutex
	next int
}

func (c *s3Collection) ID() string       { return c.id }
func (c *s3Collection) TypeName() string { return c.typeName }

func (c *s3Collection) AddNode(ctx context.Context, record Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("序列化记录失败: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := c.store.objectKey(c.typeName, c.id, c.next)
	_, err = c.store.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.store.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("上传S3失败 %s: %w", key, err)
	}

	c.store.logger.Debug("记录已上传", zap.String("key", key))
	c.next++
	return nil
}
