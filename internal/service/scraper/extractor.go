package service

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/LouYuanbo1/listingcrawler/internal/domain/entity"
	"github.com/LouYuanbo1/listingcrawler/internal/infra/crawler/chrome"
	"github.com/LouYuanbo1/listingcrawler/internal/infra/crawler/types"
)

// extract 等待内嵌状态脚本出现并解析出房源列表
func (s *scraperService) extract(ctx context.Context, browser chrome.ChromeCrawler) ([]entity.RawListing, error) {
	el, err := browser.WaitFor(ctx, s.cfg.Site.StateSelector, s.cfg.StateWaitTimeout())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrMissingState, err)
	}
	return ParseEmbeddedState([]byte(el.Text))
}

// ParseEmbeddedState 在内嵌状态的顶层键中寻找房源列表块,结构为
// {"b":{"data":{"data":[{"title":...,"slug":...}, ...]}}}。
// 有多个候选时取条目最多的一个,数量相同取键名最小的一个,与键的顺序无关。
// 只找到空的列表块时返回空结果,表示站点已经没有更多房源。
func ParseEmbeddedState(raw []byte) ([]entity.RawListing, error) {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrMalformedState, err)
	}
	state, ok := decoded.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value is not an object", types.ErrMalformedState)
	}

	keys := make([]string, 0, len(state))
	for key := range state {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	var (
		best       []any
		sawEmpty   bool
		sawInvalid bool
		haveBlock  bool
	)
	// 键已排序,只有严格更多时才替换,数量相同保留键名较小的
	for _, key := range keys {
		items, ok := listingBlock(state[key])
		if !ok {
			continue
		}
		if len(items) == 0 {
			sawEmpty = true
			continue
		}
		if !validEntries(items) {
			sawInvalid = true
			continue
		}
		if !haveBlock || len(items) > len(best) {
			best, haveBlock = items, true
		}
	}

	if !haveBlock {
		// 存在非空但不合格的房源块时不能当作空页,否则批量抓取会提前停止
		if sawEmpty && !sawInvalid {
			return []entity.RawListing{}, nil
		}
		return nil, types.ErrNoValidBlock
	}
	return entity.Listings(best), nil
}

// listingBlock 判断值是否为 {b:{data:{data:[...]}}} 结构
func listingBlock(v any) ([]any, bool) {
	listing := entity.RawListing{"block": v}
	return listing.Slice("block", "b", "data", "data")
}

func validEntries(items []any) bool {
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok || !truthy(entry["title"]) || !truthy(entry["slug"]) {
			return false
		}
	}
	return true
}

// truthy 与站点前端的真值判断一致
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0
	default:
		return true
	}
}
