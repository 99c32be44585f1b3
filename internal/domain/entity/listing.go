package entity

import (
	"strconv"
	"strings"

	"github.com/ysmood/gson"
)

// RawListing 内嵌状态中的一条房源原始数据。
// 结构完全由目标站点决定,任何字段都可能缺失或类型不同,所以保持无类型的形式,
// 通过 gson 按路径读取。
type RawListing map[string]any

// Get 按路径取节点,路径元素为 string(对象键) 或 int(数组下标)
func (r RawListing) Get(path ...any) (gson.JSON, bool) {
	for _, p := range path {
		// gson 对负下标会直接 Index 越界
		if i, ok := p.(int); ok && i < 0 {
			return gson.New(nil), false
		}
	}
	return gson.New(map[string]any(r)).Gets(path...)
}

// Lookup 按路径读取字段的原始值。
// 第二个返回值表示该字段是否存在,存在但值为 null 时返回 (nil, true)。
func (r RawListing) Lookup(path ...any) (any, bool) {
	node, ok := r.Get(path...)
	if !ok {
		return nil, false
	}
	return node.Val(), true
}

// String 返回非空字符串字段
func (r RawListing) String(path ...any) (string, bool) {
	node, ok := r.Get(path...)
	if !ok {
		return "", false
	}
	if _, isStr := node.Val().(string); !isStr || node.Str() == "" {
		return "", false
	}
	return node.Str(), true
}

// Number 返回数值字段,数字形式的字符串也被接受
func (r RawListing) Number(path ...any) (float64, bool) {
	node, ok := r.Get(path...)
	if !ok {
		return 0, false
	}
	switch v := node.Val().(type) {
	case float64, int:
		return node.Num(), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Slice 返回数组字段
func (r RawListing) Slice(path ...any) ([]any, bool) {
	node, ok := r.Get(path...)
	if !ok {
		return nil, false
	}
	arr, ok := node.Val().([]any)
	return arr, ok
}

// FormatValue 按目标站点前端模板字符串的规则渲染任意值:
// 缺失为 "undefined", null 为 "null", 数字取最短十进制表示。
func FormatValue(v any, present bool) string {
	if !present {
		return "undefined"
	}
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return FormatNumber(x)
	case int:
		return strconv.Itoa(x)
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			if e != nil {
				parts[i] = FormatValue(e, true)
			}
		}
		return strings.Join(parts, ",")
	default:
		return "[object Object]"
	}
}

func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Listings 把内嵌状态中的数组转换为 RawListing,非对象元素会被跳过
func Listings(items []any) []RawListing {
	listings := make([]RawListing, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			listings = append(listings, RawListing(m))
		}
	}
	return listings
}
