// Package collector 提供不执行JavaScript的"静态"驱动:
// 目标站点服务端渲染时已经把内嵌状态写进HTML,直接抓取即可。
package collector

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LouYuanbo1/listingcrawler/internal/config"
	"github.com/LouYuanbo1/listingcrawler/internal/infra/crawler/chrome"
	"github.com/LouYuanbo1/listingcrawler/internal/infra/crawler/types"
	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

type collyCrawler struct {
	colly  *colly.Collector
	logger *slog.Logger
	url    string
	doc    *goquery.Document
}

func InitCollyCrawler(cfg *config.Config, logger *slog.Logger) chrome.ChromeCrawler {
	var opts []colly.CollectorOption
	opts = append(opts,
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
	)
	if cfg.Browser.UserAgent != "" {
		opts = append(opts, colly.UserAgent(cfg.Browser.UserAgent))
	}
	logger.Debug("static collector initialized", slog.String("driver", config.DriverStatic))
	return &collyCrawler{
		colly:  colly.NewCollector(opts...),
		logger: logger,
	}
}

func (cc *collyCrawler) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %s: %w", types.ErrNavigation, url, err)
	}
	cc.doc, cc.url = nil, url

	c := cc.colly.Clone()
	c.SetRequestTimeout(timeout)

	var body []byte
	var respErr error
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		respErr = fmt.Errorf("status %d: %w", r.StatusCode, err)
	})

	if err := c.Visit(url); err != nil {
		if respErr != nil {
			err = respErr
		}
		return fmt.Errorf("%w: %s: %w", types.ErrNavigation, url, err)
	}
	if respErr != nil {
		return fmt.Errorf("%w: %s: %w", types.ErrNavigation, url, respErr)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: 解析HTML失败 %s: %w", types.ErrNavigation, url, err)
	}
	cc.doc = doc
	return nil
}

// WaitFor 静态文档不会再变化,元素不存在时立即失败
func (cc *collyCrawler) WaitFor(ctx context.Context, selector string, timeout time.Duration) (*chrome.Element, error) {
	if cc.doc == nil {
		return nil, fmt.Errorf("%w: %s: no document loaded", types.ErrElementNotFound, selector)
	}
	sel := cc.doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil, fmt.Errorf("%w: %s on %s", types.ErrElementNotFound, selector, cc.url)
	}
	return &chrome.Element{Selector: selector, Text: sel.Text()}, nil
}

func (cc *collyCrawler) Close() error {
	cc.doc = nil
	return nil
}
