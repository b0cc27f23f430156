package utils

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestNormalizeFields_DropsLinks(t *testing.T) {
	in := map[string]any{
		"_links":     map[string]any{"self": "https://openapi.etsy.com/v2/listings/42"},
		"listing_id": json.Number("42"),
		"title":      "Hi",
	}

	got := NormalizeFields(in)
	want := map[string]any{"listingId": json.Number("42"), "title": "Hi"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeFields() = %v, want %v", got, want)
	}
}

func TestNormalizeFields_Nested(t *testing.T) {
	var in map[string]any
	raw := `{
		"listing_id": 1,
		"num_favorers": 3,
		"is_supply": false,
		"sku": null,
		"tags": ["mug", "ceramic"],
		"price": {"currency_code": "USD", "_embedded": {"x": 1}},
		"main_image": [{"url_570xN": "a", "_links": {}}, [{"image_id": 7, "_meta": 1}]]
	}`
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got := NormalizeFields(in)

	if got["sku"] != nil {
		t.Errorf("sku = %v, want nil", got["sku"])
	}
	if _, ok := got["sku"]; !ok {
		t.Error("sku key should be kept with nil value")
	}
	if got["isSupply"] != false {
		t.Errorf("isSupply = %v, want false", got["isSupply"])
	}
	if !reflect.DeepEqual(got["tags"], []any{"mug", "ceramic"}) {
		t.Errorf("tags = %v", got["tags"])
	}

	price := got["price"].(map[string]any)
	if !reflect.DeepEqual(price, map[string]any{"currencyCode": "USD"}) {
		t.Errorf("price = %v", price)
	}

	images := got["mainImage"].([]any)
	first := images[0].(map[string]any)
	if !reflect.DeepEqual(first, map[string]any{"url570XN": "a"}) {
		t.Errorf("mainImage[0] = %v", first)
	}
	inner := images[1].([]any)[0].(map[string]any)
	if !reflect.DeepEqual(inner, map[string]any{"imageId": float64(7)}) {
		t.Errorf("mainImage[1][0] = %v", inner)
	}
}

func TestNormalizeValue_Scalars(t *testing.T) {
	tests := []any{nil, true, "text", json.Number("1.5"), float64(3)}
	for _, v := range tests {
		if got := NormalizeValue(v); !reflect.DeepEqual(got, v) {
			t.Errorf("NormalizeValue(%v) = %v", v, got)
		}
	}
}

// 任意深度都不能出现 _ 前缀的 key
func TestNormalizeFields_NoLinkKeysAtAnyDepth(t *testing.T) {
	in := buildNested(6)
	assertNoLinkKeys(t, NormalizeFields(in), "$")
}

func buildNested(depth int) map[string]any {
	m := map[string]any{
		"_links":    map[string]any{"self": "x"},
		"_embedded": []any{map[string]any{"_x": 1}},
		"plain_key": "v",
	}
	if depth == 0 {
		return m
	}
	m["child_obj"] = buildNested(depth - 1)
	m["child_list"] = []any{buildNested(depth - 1), []any{buildNested(depth - 1)}, "s", nil}
	return m
}

func assertNoLinkKeys(t *testing.T, v any, path string) {
	t.Helper()
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			if strings.HasPrefix(k, "_") {
				t.Fatalf("found link key %q at %s", k, path)
			}
			assertNoLinkKeys(t, child, path+"."+k)
		}
	case []any:
		for _, child := range val {
			assertNoLinkKeys(t, child, path+"[]")
		}
	}
}

func TestCamelCase(t *testing.T) {
	tests := map[string]string{
		"listing_id":           "listingId",
		"title":                "title",
		"url_570xN":            "url570XN",
		"url_fullxfull":        "urlFullxfull",
		"creation_tsz":         "creationTsz",
		"has_variations":       "hasVariations",
		"non_taxable":          "nonTaxable",
		"item_dimensions_unit": "itemDimensionsUnit",
		"HTMLBody":             "htmlBody",
		"listingId":            "listingId",
		"fooBARBaz":            "fooBarBaz",
		"ShopName":             "shopName",
		"URL":                  "url",
	}
	for in, want := range tests {
		if got := CamelCase(in); got != want {
			t.Errorf("CamelCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSplitCamelWords(t *testing.T) {
	tests := map[string]string{
		"fooBar":    "foo_Bar",
		"HTMLBody":  "HTML_Body",
		"url_570xN": "url_570x_N",
		"plain":     "plain",
	}
	for in, want := range tests {
		if got := splitCamelWords(in); got != want {
			t.Errorf("splitCamelWords(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPascalCase(t *testing.T) {
	if got := PascalCase("Etsy Product"); got != "EtsyProduct" {
		t.Errorf("PascalCase = %q, want EtsyProduct", got)
	}
	if got := PascalCase("my shop Product"); got != "MyShopProduct" {
		t.Errorf("PascalCase = %q, want MyShopProduct", got)
	}
}
