package etsy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// BaseURL Etsy Open API v2 固定入口
const BaseURL = "https://openapi.etsy.com/v2"

// Client Etsy v2 客户端
// 鉴权方式：query string 携带 api_key
// 每次调用只发一次请求，不重试
type Client struct {
	http    *resty.Client
	baseURL string
	token   string
	logger  *zap.Logger
}

// NewClient 创建客户端
// httpClient 由调用方构建 (代理、调试开关等)，这里只负责绑定 baseURL
func NewClient(httpClient *resty.Client, baseURL, token string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	httpClient.SetBaseURL(baseURL)

	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		token:   token,
		logger:  logger.With(zap.String("component", "etsy")),
	}
}

// Fetch 发起一次 GET 请求
//   - 拿不到响应: *TransportError
//   - 401/403: 不报错，Data 替换为 fallback (nil 时为空数组)
//   - 其他非 2xx: *APIError
func (c *Client) Fetch(ctx context.Context, path string, params map[string]string, fallback any) (*Response, error) {
	if fallback == nil {
		fallback = []any{}
	}
	reqURL := c.baseURL + path

	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("api_key", c.token)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}

	resp, err := req.Get(path)
	if err != nil {
		return nil, newTransportError(err, reqURL)
	}

	res := &Response{
		StatusCode: resp.StatusCode(),
		URL:        reqURL,
		Header:     resp.Header(),
	}

	if resp.IsSuccess() {
		data, err := decodeBody(resp.Body())
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", reqURL, err)
		}
		res.Data = data
		return res, nil
	}

	status := resp.StatusCode()
	if s, ok := bodyStatus(resp.Body()); ok {
		status = s
	}

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		c.logger.Warn(fmt.Sprintf("Error: Status %d - %s", status, reqURL))
		res.Data = fallback
		return res, nil
	}

	return nil, &APIError{Status: status, URL: reqURL}
}

// decodeBody 解析为动态 JSON 结构，数字保留为 json.Number
func decodeBody(body []byte) (any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var data any
	if err := dec.Decode(&data); err != nil {
		return nil, err
	}
	return data, nil
}
