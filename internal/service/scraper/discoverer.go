package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/LouYuanbo1/listingcrawler/internal/infra/crawler/chrome"
	"github.com/LouYuanbo1/listingcrawler/internal/infra/logging"
	"github.com/LouYuanbo1/listingcrawler/param"
)

// 分页标题形如 "Página 1 de 775"
var pageCountPattern = regexp.MustCompile(`(?i)de\s+(\d+)`)

// ParsePageCount 从分页标题中解析总页数,只接受正整数
func ParsePageCount(caption string) (int, bool) {
	m := pageCountPattern.FindStringSubmatch(caption)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func (s *scraperService) CheckMaxPages(ctx context.Context, params *param.MaxPages) int {
	logger := s.loggerFrom(ctx).With(slog.String("mode", "checkMaxPages"))
	fallback := s.cfg.Site.FallbackMaxPages

	requested := 0
	if params != nil {
		requested = params.OperationID
	}

	maxPages, err := s.discover(ctx, logger, s.operationID(requested))
	if err != nil {
		logger.Warn("无法读取总页数,使用默认值",
			slog.Int("fallback", fallback),
			logging.Err(err))
		return fallback
	}
	logger.Info("读取总页数成功", slog.Int("max_pages", maxPages))
	return maxPages
}

func (s *scraperService) discover(ctx context.Context, logger *slog.Logger, operationID int) (int, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("wait for browser slot: %w", err)
	}
	defer release()

	browser, err := s.launch(ctx)
	if err != nil {
		return 0, err
	}
	defer s.closeBrowser(logger, browser)

	if err := s.render(ctx, browser, 0, operationID); err != nil {
		return 0, err
	}
	caption, err := s.readCaption(ctx, browser)
	if err != nil {
		return 0, err
	}
	n, ok := ParsePageCount(caption)
	if !ok {
		return 0, fmt.Errorf("unexpected paginator caption %q", caption)
	}
	return n, nil
}

func (s *scraperService) readCaption(ctx context.Context, browser chrome.ChromeCrawler) (string, error) {
	el, err := browser.WaitFor(ctx, s.cfg.Site.PaginatorSelector, s.cfg.PaginatorWaitTimeout())
	if err != nil {
		return "", fmt.Errorf("paginator caption: %w", err)
	}
	return strings.TrimSpace(el.Text), nil
}
