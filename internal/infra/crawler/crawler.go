package crawler

import (
	"context"
	"log/slog"

	"github.com/LouYuanbo1/listingcrawler/internal/config"
	"github.com/LouYuanbo1/listingcrawler/internal/infra/crawler/chrome"
	"github.com/LouYuanbo1/listingcrawler/internal/infra/crawler/collector"
)

// NewLauncher 按配置的驱动返回浏览器启动函数,每次调用都会启动一个独立的实例
func NewLauncher(cfg *config.Config, logger *slog.Logger) chrome.Launcher {
	switch cfg.Browser.Driver {
	case config.DriverChromedp:
		return func(ctx context.Context) (chrome.ChromeCrawler, error) {
			return chrome.InitChromedpCrawler(ctx, cfg, logger)
		}
	case config.DriverStatic:
		return func(ctx context.Context) (chrome.ChromeCrawler, error) {
			return collector.InitCollyCrawler(cfg, logger), nil
		}
	default:
		return func(ctx context.Context) (chrome.ChromeCrawler, error) {
			return chrome.InitRodCrawler(ctx, cfg, logger)
		}
	}
}
