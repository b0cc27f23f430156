package etsy

import (
	"encoding/json"
	"net/http"
)

// ==========================================
// 响应: Etsy v2 返回的原始 JSON 数据
// ==========================================

// Response 一次 Fetch 的结果
// Data 是动态 JSON 结构: nil | bool | json.Number | string | []any | map[string]any
type Response struct {
	StatusCode int
	URL        string
	Header     http.Header
	Data       any
}

// Results 取出 v2 列表接口的 results 数组
// Data 不是对象 (例如 401/403 的空数组兜底) 时返回空数组
func (r *Response) Results() []any {
	if r == nil {
		return []any{}
	}
	obj, ok := r.Data.(map[string]any)
	if !ok {
		return []any{}
	}
	results, ok := obj["results"].([]any)
	if !ok {
		return []any{}
	}
	return results
}

// Count v2 列表接口返回的总数，没有时为 0
func (r *Response) Count() int64 {
	if r == nil {
		return 0
	}
	obj, ok := r.Data.(map[string]any)
	if !ok {
		return 0
	}
	n, ok := obj["count"].(json.Number)
	if !ok {
		return 0
	}
	v, _ := n.Int64()
	return v
}

// errorBody 错误响应中应用层状态码位于 data.status
type errorBody struct {
	Data struct {
		Status json.Number `json:"status"`
	} `json:"data"`
}

func bodyStatus(body []byte) (int, bool) {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return 0, false
	}
	if eb.Data.Status == "" {
		return 0, false
	}
	s, err := eb.Data.Status.Int64()
	if err != nil {
		return 0, false
	}
	return int(s), true
}
