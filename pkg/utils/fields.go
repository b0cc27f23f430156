package utils

import (
	"strings"

	"github.com/iancoleman/strcase"
)

// linkPrefix 以 _ 开头的字段是链接/嵌入元数据 (_links, _embedded ...)，整体丢弃
const linkPrefix = "_"

// NormalizeFields 递归规范化字段名
// 跳过 _ 前缀的 key，其余转为 lowerCamel，值递归处理
func NormalizeFields(fields map[string]any) map[string]any {
	res := make(map[string]any, len(fields))

	for key, value := range fields {
		if strings.HasPrefix(key, linkPrefix) {
			continue
		}
		res[CamelCase(key)] = NormalizeValue(value)
	}

	return res
}

// NormalizeValue 处理单个值: nil 保持 nil，数组逐个处理，对象递归，其余原样返回
func NormalizeValue(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = NormalizeValue(item)
		}
		return out
	case map[string]any:
		return NormalizeFields(v)
	default:
		return v
	}
}

// CamelCase listing_id -> listingId, url_570xN -> url570XN, HTMLBody -> htmlBody
// 含大写时先按驼峰/缩写边界切词再整体转小写，缩写不会被并进下一个词
func CamelCase(s string) string {
	if strings.ToLower(s) != s {
		s = strings.ToLower(splitCamelWords(s))
	}
	return strcase.ToLowerCamel(s)
}

// splitCamelWords 在 aB 与 ABc 边界插入 _: fooBar -> foo_Bar, HTMLBody -> HTML_Body
func splitCamelWords(s string) string {
	out := make([]byte, 0, len(s)+4)
	var lastLower, lastUpper, lastLastUpper bool

	for i := 0; i < len(s); i++ {
		ch := s[i]
		isUpper := ch >= 'A' && ch <= 'Z'
		isLower := ch >= 'a' && ch <= 'z'

		switch {
		case lastLower && isUpper:
			out = append(out, '_', ch)
			lastLower, lastLastUpper, lastUpper = false, lastUpper, true
		case lastUpper && lastLastUpper && isLower:
			prev := out[len(out)-1]
			out[len(out)-1] = '_'
			out = append(out, prev, ch)
			lastLower, lastLastUpper, lastUpper = true, lastUpper, false
		default:
			out = append(out, ch)
			lastLower, lastLastUpper, lastUpper = isLower, lastUpper, isUpper
		}
	}

	return string(out)
}

// PascalCase "Etsy Product" -> EtsyProduct
func PascalCase(s string) string {
	return strcase.ToCamel(s)
}
