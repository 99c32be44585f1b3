package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/LouYuanbo1/listingcrawler/internal/config"
	"github.com/LouYuanbo1/listingcrawler/internal/infra/crawler"
	"github.com/LouYuanbo1/listingcrawler/internal/infra/logging"
	"github.com/LouYuanbo1/listingcrawler/internal/server"
	service "github.com/LouYuanbo1/listingcrawler/internal/service/scraper"
	"golang.org/x/sync/errgroup"
)

type App struct {
	cfg       *config.Config
	apiServer *server.Server
	logger    *slog.Logger
	// 关闭 Fluent 连接
	logCloser io.Closer
}

func NewApp(cfg *config.Config) (*App, error) {
	baseLogger, logCloser, err := logging.InitLogger(cfg, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}

	launcher := crawler.NewLauncher(cfg, baseLogger.With(slog.String("component", "browser")))
	scraper := service.InitScraperService(cfg, launcher, baseLogger)
	handlers := server.NewScrapeHandlers(scraper)

	appLogger := baseLogger.With(slog.String("component", "app"))
	appLogger.Info("应用初始化完成",
		slog.String("driver", cfg.Browser.Driver),
		slog.Int("max_concurrent_browsers", cfg.Limits.MaxConcurrentBrowsers))

	return &App{
		cfg:       cfg,
		apiServer: server.NewServer(cfg.Server.Port, handlers, baseLogger),
		logger:    appLogger,
		logCloser: logCloser,
	}, nil
}

// Run 运行HTTP服务直到 ctx 被取消或服务出错,然后在 shutdown_seconds 内优雅关闭
func (a *App) Run(ctx context.Context) error {
	defer func() {
		if err := a.logCloser.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: 关闭日志连接失败: %v\n", err)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.apiServer.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Warn("收到退出信号,开始关闭")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout())
		defer cancel()
		if err := a.apiServer.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("关闭HTTP服务失败: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		a.logger.Error("应用异常退出", logging.Err(err))
		return err
	}
	a.logger.Info("应用已退出")
	return nil
}
