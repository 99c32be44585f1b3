package chrome

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/LouYuanbo1/listingcrawler/internal/config"
	"github.com/LouYuanbo1/listingcrawler/internal/infra/crawler/options"
	"github.com/LouYuanbo1/listingcrawler/internal/infra/crawler/types"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

type rodCrawler struct {
	launcher  *launcher.Launcher
	browser   *rod.Browser
	page      *rod.Page
	logger    *slog.Logger
	closeOnce sync.Once
	closeErr  error
}

func InitRodCrawler(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ChromeCrawler, error) {
	l := options.CreateLauncher(false,
		options.WithBin(cfg.Browser.Bin),
		options.WithUserDataDir(cfg.Browser.UserDataDir),
		options.WithHeadless(cfg.Browser.Headless),
		options.WithNoSandbox(cfg.Browser.NoSandbox),
		options.WithLeakless(cfg.Browser.Leakless),
		options.WithUserAgent(cfg.Browser.UserAgent),
		options.WithArgs(cfg.Browser.LaunchArgs...),
	).Context(ctx)

	controlURL, err := l.Launch()
	if err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: 启动浏览器失败: %w", types.ErrLaunch, err)
	}
	logger.Debug("browser launched", slog.String("driver", config.DriverRod), slog.String("control_url", controlURL))

	browser := rod.New().ControlURL(controlURL).Trace(cfg.Browser.Trace)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("%w: 连接浏览器失败: %w", types.ErrLaunch, err)
	}

	var page *rod.Page
	if cfg.Browser.Stealth {
		page, err = stealth.Page(browser)
	} else {
		page, err = browser.Page(proto.TargetCreateTarget{})
	}
	if err == nil && cfg.Browser.UserAgent != "" {
		err = page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: cfg.Browser.UserAgent})
	}
	if err != nil {
		_ = browser.Close()
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("%w: 创建页面失败: %w", types.ErrLaunch, err)
	}

	return &rodCrawler{
		launcher: l,
		browser:  browser,
		page:     page,
		logger:   logger,
	}, nil
}

func (rc *rodCrawler) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	page := rc.page.Context(ctx).Timeout(timeout)
	defer page.CancelTimeout()

	// 只等待 DOMContentLoaded,不等待网络空闲,内嵌状态由 WaitFor 兜底
	wait := page.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("%w: %s: %w", types.ErrNavigation, url, err)
	}
	wait()
	if err := page.GetContext().Err(); err != nil {
		return fmt.Errorf("%w: 等待DOM就绪超时 %s: %w", types.ErrNavigation, url, err)
	}
	return nil
}

func (rc *rodCrawler) WaitFor(ctx context.Context, selector string, timeout time.Duration) (*Element, error) {
	page := rc.page.Context(ctx).Timeout(timeout)
	defer page.CancelTimeout()

	el, err := page.Element(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", types.ErrElementNotFound, selector, err)
	}
	text, err := el.Property("textContent")
	if err != nil {
		return nil, fmt.Errorf("读取元素文本失败 %s: %w", selector, err)
	}
	return &Element{Selector: selector, Text: text.Str()}, nil
}

func (rc *rodCrawler) Close() error {
	rc.closeOnce.Do(func() {
		rc.closeErr = rc.browser.Close()
		rc.launcher.Kill()
		rc.launcher.Cleanup()
		rc.logger.Debug("browser closed", slog.String("driver", config.DriverRod))
	})
	return rc.closeErr
}
