package chrome

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/LouYuanbo1/listingcrawler/internal/config"
	"github.com/LouYuanbo1/listingcrawler/internal/infra/crawler/types"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

type chromedpCrawler struct {
	allocCtx    context.Context
	allocCtxFuc context.CancelFunc
	pageCtx     context.Context
	pageCtxFuc  context.CancelFunc
	logger      *slog.Logger
	closeOnce   sync.Once
}

func InitChromedpCrawler(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ChromeCrawler, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Browser.Headless),
		chromedp.Flag("no-sandbox", cfg.Browser.NoSandbox),
	)
	for _, arg := range cfg.Browser.LaunchArgs {
		opts = append(opts, chromedp.Flag(arg, true))
	}
	if cfg.Browser.Bin != "" {
		opts = append(opts, chromedp.ExecPath(cfg.Browser.Bin))
	}
	if cfg.Browser.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(cfg.Browser.UserDataDir))
	}
	if cfg.Browser.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.Browser.UserAgent))
	}

	// 浏览器生命周期不跟随调用方的取消信号,由 Close 统一回收
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.WithoutCancel(ctx), opts...)
	var ctxOpts []chromedp.ContextOption
	if cfg.Browser.Trace {
		ctxOpts = append(ctxOpts, chromedp.WithDebugf(func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...), slog.String("driver", config.DriverChromedp))
		}))
	}
	pageCtx, cancelPage := chromedp.NewContext(allocCtx, ctxOpts...)

	// 第一次 Run 才会真正启动浏览器进程
	if err := chromedp.Run(pageCtx, network.Enable()); err != nil {
		cancelPage()
		cancelAlloc()
		return nil, fmt.Errorf("%w: 启动浏览器失败: %w", types.ErrLaunch, err)
	}
	logger.Debug("browser launched", slog.String("driver", config.DriverChromedp))

	return &chromedpCrawler{
		allocCtx:    allocCtx,
		allocCtxFuc: cancelAlloc,
		pageCtx:     pageCtx,
		pageCtxFuc:  cancelPage,
		logger:      logger,
	}, nil
}

// runWithin 在页面上下文中执行动作,同时受调用方ctx与超时约束
func (cc *chromedpCrawler) runWithin(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(cc.pageCtx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

// Navigate chromedp.Navigate 会等待页面 load 事件,比 DOMContentLoaded 稍晚
func (cc *chromedpCrawler) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	if err := cc.runWithin(ctx, timeout, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("%w: %s: %w", types.ErrNavigation, url, err)
	}
	return nil
}

func (cc *chromedpCrawler) WaitFor(ctx context.Context, selector string, timeout time.Duration) (*Element, error) {
	var text string
	err := cc.runWithin(ctx, timeout,
		chromedp.WaitReady(selector, chromedp.ByQuery),
		chromedp.TextContent(selector, &text, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", types.ErrElementNotFound, selector, err)
	}
	return &Element{Selector: selector, Text: text}, nil
}

func (cc *chromedpCrawler) Close() error {
	var err error
	cc.closeOnce.Do(func() {
		// 先尝试优雅关闭浏览器,再取消上下文回收进程
		err = chromedp.Cancel(cc.pageCtx)
		cc.pageCtxFuc()
		cc.allocCtxFuc()
		cc.logger.Debug("browser closed", slog.String("driver", config.DriverChromedp))
	})
	return err
}
