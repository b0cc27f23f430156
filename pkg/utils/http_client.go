package utils

import (
	"github.com/go-resty/resty/v2"
)

// NewHTTPClient 创建 Resty 客户端
// 不设置超时、不设置重试：每次调用只发一次请求，超时沿用默认值
// proxyURL 为空时直连
func NewHTTPClient(proxyURL string, debug bool) *resty.Client {
	client := resty.New().
		SetDebug(debug).
		SetHeader("User-Agent", "Etsy-Source-Go/1.0")

	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}

	return client
}
