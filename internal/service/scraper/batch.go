package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/LouYuanbo1/listingcrawler/internal/domain/entity"
	"github.com/LouYuanbo1/listingcrawler/internal/domain/model"
	"github.com/LouYuanbo1/listingcrawler/internal/infra/crawler/chrome"
	"github.com/LouYuanbo1/listingcrawler/internal/infra/crawler/types"
	"github.com/LouYuanbo1/listingcrawler/internal/infra/logging"
	"github.com/LouYuanbo1/listingcrawler/param"
)

// ScrapeRange 一个浏览器、一个标签页,按顺序处理每一页。
// 某页返回零条房源时停止后续页; 单页出错只记录在 Pages 中。
// 上下文在两页之间被取消时,返回已经抓到的部分结果和取消原因。
func (s *scraperService) ScrapeRange(ctx context.Context, params *param.ScrapeRange) (*model.BatchResult, error) {
	if params == nil {
		params = &param.ScrapeRange{}
	}
	result := &model.BatchResult{
		Properties: []model.Property{},
		Pages:      []model.PageOutcome{},
	}
	logger := s.loggerFrom(ctx).With(
		slog.Int("start_page", params.StartPage),
		slog.Int("end_page", params.EndPage))

	if params.StartPage > params.EndPage {
		logger.Info("页码范围为空,跳过抓取")
		return result, nil
	}

	release, err := s.acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("wait for browser slot: %w", err)
	}
	defer release()

	logger.Info("启动浏览器")
	browser, err := s.launch(ctx)
	if err != nil {
		if !errors.Is(err, types.ErrLaunch) {
			err = fmt.Errorf("%w: %w", types.ErrLaunch, err)
		}
		logger.Error("浏览器启动失败", logging.Err(err))
		return nil, err
	}
	defer s.closeBrowser(logger, browser)

	operationID := s.operationID(params.OperationID)
	opts := NormalizeOptionsFrom(s.cfg)
	started := time.Now()

	for page := params.StartPage; page <= params.EndPage; page++ {
		if err := ctx.Err(); err != nil {
			logger.Warn("抓取被取消", slog.Int("next_page", page), logging.Err(err))
			return result, fmt.Errorf("scrape cancelled before page %d: %w", page, err)
		}

		pageLogger := logger.With(slog.Int("page", page))
		listings, err := s.scrapePage(ctx, browser, page, operationID)
		if err != nil {
			pageLogger.Error("页面处理失败", logging.Err(err))
			result.Pages = append(result.Pages, model.PageOutcome{
				Page:   page,
				Status: model.PageFailed,
				Error:  err.Error(),
				Err:    err,
			})
			continue
		}

		if len(listings) == 0 {
			pageLogger.Info("没有更多房源,提前结束")
			result.Pages = append(result.Pages, model.PageOutcome{Page: page, Status: model.PageEmpty})
			break
		}

		result.Properties = append(result.Properties, NormalizeListings(listings, opts)...)
		result.Pages = append(result.Pages, model.PageOutcome{
			Page:   page,
			Status: model.PageOK,
			Count:  len(listings),
		})
		pageLogger.Info("页面处理完成", slog.Int("count", len(listings)))
	}

	logger.Info("批量抓取完成",
		slog.Int("properties", len(result.Properties)),
		slog.Int("failed_pages", len(result.FailedPages())),
		slog.Duration("elapsed", time.Since(started)))
	return result, nil
}

func (s *scraperService) scrapePage(ctx context.Context, browser chrome.ChromeCrawler, page, operationID int) ([]entity.RawListing, error) {
	if err := s.render(ctx, browser, page, operationID); err != nil {
		return nil, err
	}
	listings, err := s.extract(ctx, browser)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", page, err)
	}
	return listings, nil
}
