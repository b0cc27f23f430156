package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"etsy_source/internal/host"
	"etsy_source/internal/store"
	"etsy_source/pkg/etsy"
	"etsy_source/pkg/utils"
)

// lqipKeyPrefix 只为这一尺寸的图片生成占位图
const lqipKeyPrefix = "url_570xN"

// ==================== 配置 ====================

// SourceOptions 数据源配置，同步过程中不可变
type SourceOptions struct {
	ShopID   string
	Token    string
	TypeName string // 集合类型名前缀，默认 Etsy
	LQIP     bool   // 是否生成低清占位图

	BaseURL  string // 为空时使用 etsy.BaseURL
	ProxyURL string
	Debug    bool
}

func DefaultSourceOptions() SourceOptions {
	return SourceOptions{TypeName: "Etsy"}
}

// ConfigurationError 缺少必填配置
type ConfigurationError struct {
	Option string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("Missing %s option.", e.Option)
}

// ==================== EtsySource ====================

// EtsySource Etsy 数据源
// 注册到宿主后，每次加载执行一次完整同步: 商品 -> 图片 -> 占位图 -> slug -> 写入
type EtsySource struct {
	opts     SourceOptions
	client   *etsy.Client
	images   *resty.Client
	cache    *utils.Cache
	progress io.Writer
	logger   *zap.Logger
}

// NewEtsySource 校验配置并向宿主注册加载回调
func NewEtsySource(api host.API, opts SourceOptions, logger *zap.Logger) (*EtsySource, error) {
	if opts.ShopID == "" {
		return nil, &ConfigurationError{Option: "shopId"}
	}
	if opts.Token == "" {
		return nil, &ConfigurationError{Option: "token"}
	}
	if opts.TypeName == "" {
		opts.TypeName = DefaultSourceOptions().TypeName
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &EtsySource{
		opts:     opts,
		client:   etsy.NewClient(utils.NewHTTPClient(opts.ProxyURL, opts.Debug), opts.BaseURL, opts.Token, logger),
		images:   utils.NewHTTPClient(opts.ProxyURL, opts.Debug),
		progress: os.Stdout,
		logger:   logger.With(zap.String("component", "etsy_source")),
	}

	api.LoadSource(func(ctx context.Context, st store.Store) error {
		s.logger.Info("Loading data from Etsy")
		return s.getProducts(ctx, st)
	})

	return s, nil
}

// SetProgressWriter 占位图进度输出位置，nil 表示不输出
func (s *EtsySource) SetProgressWriter(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	s.progress = w
}

// SetThumbnailCache 跨同步复用占位图 (server 模式)
func (s *EtsySource) SetThumbnailCache(c *utils.Cache) {
	s.cache = c
}

// TypeName 本数据源写入的集合类型名，例如 EtsyProduct
func (s *EtsySource) TypeName() string {
	return s.createTypeName("Product")
}

func (s *EtsySource) createTypeName(name string) string {
	return utils.PascalCase(s.opts.TypeName + " " + name)
}

// ==================== 同步流程 ====================

func (s *EtsySource) getProducts(ctx context.Context, st store.Store) error {
	listings, err := s.client.ActiveListings(ctx, s.opts.ShopID)
	if err != nil {
		return err
	}

	products, err := st.AddCollection(ctx, s.TypeName())
	if err != nil {
		return fmt.Errorf("add collection: %w", err)
	}

	results := listings.Results()
	s.logger.Info("Loading product images",
		zap.Int("listings", len(results)),
		zap.Int64("count", listings.Count()),
		zap.Bool("lqip", s.opts.LQIP),
	)

	generated := 0
	for _, item := range results {
		fields := normalizeListing(item)

		imageResp, err := s.client.ListingImages(ctx, fields["listingId"])
		if err != nil {
			return err
		}
		images := imageResp.Results()

		if s.opts.LQIP {
			n, err := s.addPlaceholders(ctx, images, generated)
			if err != nil {
				return err
			}
			generated += n
		}

		record := store.Record{}
		for k, v := range fields {
			record[k] = v
		}
		record["images"] = images
		record["slug"] = utils.StringToSlug(titleOf(fields))

		if err := products.AddNode(ctx, record); err != nil {
			return fmt.Errorf("add node: %w", err)
		}
	}

	if generated > 0 {
		fmt.Fprintln(s.progress)
	}
	s.logger.Info("Etsy sync finished",
		zap.String("collection", products.ID()),
		zap.Int("nodes", len(results)),
	)
	return nil
}

// addPlaceholders 为 url_570xN 开头的字段生成 lqip，返回生成数量
// 同一图片有多个匹配字段时按 key 排序处理，最后一个的结果生效
func (s *EtsySource) addPlaceholders(ctx context.Context, images []any, done int) (int, error) {
	n := 0
	for _, img := range images {
		m, ok := img.(map[string]any)
		if !ok {
			continue
		}
		keys := make([]string, 0, 1)
		for key := range m {
			if strings.HasPrefix(key, lqipKeyPrefix) {
				keys = append(keys, key)
			}
		}
		sort.Strings(keys)

		for _, key := range keys {
			url, ok := m[key].(string)
			if !ok || url == "" {
				continue
			}

			uri, err := s.placeholder(ctx, url)
			if err != nil {
				return n, fmt.Errorf("lqip %s: %w", url, err)
			}
			m["lqip"] = uri
			n++
			fmt.Fprintf(s.progress, "\rGenerating image placeholders: %d", done+n)
		}
	}
	return n, nil
}

func (s *EtsySource) placeholder(ctx context.Context, url string) (string, error) {
	if uri, ok := s.cache.Get(url); ok {
		return uri, nil
	}
	uri, err := utils.LQIP(ctx, s.images, url)
	if err != nil {
		return "", err
	}
	s.cache.Set(url, uri)
	return uri, nil
}

// ==================== 辅助函数 ====================

func normalizeListing(item any) map[string]any {
	if m, ok := item.(map[string]any); ok {
		return utils.NormalizeFields(m)
	}
	return map[string]any{}
}

func titleOf(fields map[string]any) string {
	if t, ok := fields["title"].(string); ok {
		return t
	}
	return ""
}
