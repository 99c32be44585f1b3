package service

import (
	"context"
	"log/slog"

	"github.com/LouYuanbo1/listingcrawler/internal/config"
	"github.com/LouYuanbo1/listingcrawler/internal/contextkeys"
	"github.com/LouYuanbo1/listingcrawler/internal/domain/model"
	"github.com/LouYuanbo1/listingcrawler/internal/infra/crawler/chrome"
	"github.com/LouYuanbo1/listingcrawler/internal/infra/logging"
	"github.com/LouYuanbo1/listingcrawler/param"
	"golang.org/x/sync/semaphore"
)

type ScraperService interface {
	// ScrapeRange 按页码顺序抓取 [StartPage, EndPage],单页失败不影响其它页,
	// 只有浏览器启动失败才返回错误
	ScrapeRange(ctx context.Context, params *param.ScrapeRange) (*model.BatchResult, error)
	// CheckMaxPages 读取总页数,任何失败都返回配置中的回退值
	CheckMaxPages(ctx context.Context, params *param.MaxPages) int
}

type scraperService struct {
	cfg    *config.Config
	launch chrome.Launcher
	logger *slog.Logger
	// 为 nil 时不限制同时运行的浏览器数量
	browsers *semaphore.Weighted
}

func InitScraperService(cfg *config.Config, launch chrome.Launcher, logger *slog.Logger) ScraperService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	var browsers *semaphore.Weighted
	if n := cfg.Limits.MaxConcurrentBrowsers; n > 0 {
		browsers = semaphore.NewWeighted(int64(n))
	}
	return &scraperService{
		cfg:      cfg,
		launch:   launch,
		logger:   logger,
		browsers: browsers,
	}
}

// acquire 等待一个浏览器名额,等待期间上下文取消则返回错误
func (s *scraperService) acquire(ctx context.Context) (func(), error) {
	if s.browsers == nil {
		return func() {}, nil
	}
	if err := s.browsers.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { s.browsers.Release(1) }, nil
}

func (s *scraperService) loggerFrom(ctx context.Context) *slog.Logger {
	logger, ok := contextkeys.LookupLogger(ctx)
	if !ok {
		logger = s.logger
	}
	return logger.With(slog.String("component", "scraper"))
}

// operationID 只有开启 thread_operation_id 时才使用调用方传入的值
func (s *scraperService) operationID(requested int) int {
	if s.cfg.Site.ThreadOperationID && requested > 0 {
		return requested
	}
	return s.cfg.Site.OperationID
}

func (s *scraperService) closeBrowser(logger *slog.Logger, browser chrome.ChromeCrawler) {
	if err := browser.Close(); err != nil {
		logger.Warn("关闭浏览器失败", logging.Err(err))
		return
	}
	logger.Debug("浏览器已关闭")
}
