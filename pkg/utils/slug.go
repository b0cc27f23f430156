package utils

import (
	"html"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// 重音字符 / 标点 -> ASCII，一对一
var slugTable = buildSlugTable(
	"àáäâèéëêìíïîòóöôùúüûñç·/_,:;",
	"aaaaeeeeiiiioooouuuunc------",
)

func buildSlugTable(from, to string) map[rune]rune {
	src, dst := []rune(from), []rune(to)
	table := make(map[rune]rune, len(src))
	for i, r := range src {
		table[r] = dst[i]
	}
	return table
}

func transliterate(r rune) rune {
	if t, ok := slugTable[r]; ok {
		return t
	}
	return r
}

func isSlugRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' || r == '-'
}

// StringToSlug 标题 -> URL 安全的 slug
// 结果只包含 [a-z0-9-]，重复执行结果不变
func StringToSlug(str string) string {
	str = html.UnescapeString(str)
	str = strings.TrimSpace(str)
	str = strings.ToLower(str)

	// 转写 + 去掉非法字符，单次遍历
	t := transform.Chain(
		runes.Map(transliterate),
		runes.Remove(runes.Predicate(func(r rune) bool { return !isSlugRune(r) })),
	)
	str, _, _ = transform.String(t, str)

	// 空白 -> "-"，连续 "-" 合并
	var b strings.Builder
	b.Grow(len(str))
	prevDash := false
	for _, r := range str {
		if unicode.IsSpace(r) || r == '-' {
			if !prevDash {
				b.WriteByte('-')
			}
			prevDash = true
			continue
		}
		b.WriteRune(r)
		prevDash = false
	}

	return b.String()
}
