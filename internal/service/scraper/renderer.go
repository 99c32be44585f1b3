package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/LouYuanbo1/listingcrawler/internal/config"
	"github.com/LouYuanbo1/listingcrawler/internal/infra/crawler/chrome"
	"github.com/LouYuanbo1/listingcrawler/internal/infra/crawler/types"
)

// BuildListingURL 拼出列表页URL。
// 参数顺序和写法(包括未编码的冒号和预编码的 locations)是站点约定,
// 所以直接拼接而不是用 url.Values。
func BuildListingURL(cfg *config.Config, page, operationID int) string {
	site := cfg.Site
	var b strings.Builder
	b.WriteString(site.BaseURL)
	b.WriteString(site.SearchPath)
	b.WriteString("?page=")
	b.WriteString(strconv.Itoa(page))
	b.WriteString("&pageSize=")
	b.WriteString(strconv.Itoa(site.PageSize))
	b.WriteString("&sort=")
	b.WriteString(site.Sort)
	b.WriteString("&in:operationId=")
	b.WriteString(strconv.Itoa(operationID))
	b.WriteString("&in:eStageId=")
	b.WriteString(site.StageIDs)
	b.WriteString("&locations=")
	b.WriteString(site.Locations)
	b.WriteString("&landingPath=")
	b.WriteString(site.LandingPath)
	b.WriteString("&filterCount=")
	b.WriteString(strconv.Itoa(site.FilterCount))
	b.WriteString("&viewMode=")
	b.WriteString(site.ViewMode)
	return b.String()
}

// render 导航到指定页,失败时错误一定包含 types.ErrNavigation
func (s *scraperService) render(ctx context.Context, browser chrome.ChromeCrawler, page, operationID int) error {
	url := BuildListingURL(s.cfg, page, operationID)
	if err := browser.Navigate(ctx, url, s.cfg.NavigationTimeout()); err != nil {
		if errors.Is(err, types.ErrNavigation) {
			return fmt.Errorf("render page %d: %w", page, err)
		}
		return fmt.Errorf("render page %d: %w: %w", page, types.ErrNavigation, err)
	}
	return nil
}
