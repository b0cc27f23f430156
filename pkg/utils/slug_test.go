package utils

import (
	"math/rand"
	"regexp"
	"testing"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]*$`)

func TestStringToSlug(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "重音与标点", title: "  Café — Ñandú, Vol. 2!  ", want: "cafe-nandu-vol-2"},
		{name: "普通标题", title: "Handmade Ceramic Mug", want: "handmade-ceramic-mug"},
		{name: "HTML 实体", title: "Salt &amp; Pepper &quot;Set&quot;", want: "salt-pepper-set"},
		{name: "数字实体", title: "Caf&#233; Mug", want: "cafe-mug"},
		{name: "分隔符", title: "a/b_c:d;e·f", want: "a-b-c-d-e-f"},
		{name: "连续空白与横线", title: "a  -  b\t\nc", want: "a-bc"},
		{name: "全部转写表", title: "àáäâèéëêìíïîòóöôùúüûñç", want: "aaaaeeeeiiiioooouuuunc"},
		{name: "大写重音", title: "ÀÉÎÖÜ", want: "aeiou"},
		{name: "表外字符被移除", title: "Ørsted Ångström", want: "rsted-ngstrom"},
		{name: "空标题", title: "", want: ""},
		{name: "只有符号", title: "!!! ???", want: "-"},
		{name: "emoji", title: "🎉 Party 🎉", want: "-party-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StringToSlug(tt.title)
			if got != tt.want {
				t.Errorf("StringToSlug(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestStringToSlug_Properties(t *testing.T) {
	pool := []rune("aZ09 -_/,:;·!?.&;#àÉñÇü—–\t\n漢字🎉")
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 2000; i++ {
		n := rng.Intn(24)
		buf := make([]rune, n)
		for j := range buf {
			buf[j] = pool[rng.Intn(len(pool))]
		}
		title := string(buf)

		slug := StringToSlug(title)
		if !slugPattern.MatchString(slug) {
			t.Fatalf("StringToSlug(%q) = %q, contains invalid characters", title, slug)
		}
		if again := StringToSlug(slug); again != slug {
			t.Fatalf("not idempotent: %q -> %q -> %q", title, slug, again)
		}
	}
}
