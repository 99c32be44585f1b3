package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/LouYuanbo1/listingcrawler/internal/config"
	"github.com/LouYuanbo1/listingcrawler/internal/contextkeys"
	"github.com/LouYuanbo1/listingcrawler/internal/infra/crawler"
	"github.com/LouYuanbo1/listingcrawler/internal/infra/logging"
	"github.com/LouYuanbo1/listingcrawler/param"

	service "github.com/LouYuanbo1/listingcrawler/internal/service/scraper"
)

//go:embed appconfig/appconfig.json
var appConfig []byte

// 命令行单次运行,结果以与 HTTP 接口相同的 JSON 格式输出到标准输出,日志输出到标准错误
//
//	scrape -start 0 -end 3
//	scrape -mode checkMaxPages
func main() {
	var (
		mode        = flag.String("mode", "", `"checkMaxPages" 只查询总页数`)
		startPage   = flag.Int("start", 0, "起始页(包含)")
		endPage     = flag.Int("end", 0, "结束页(包含)")
		operationID = flag.Int("operation", 1, "operationId")
		driver      = flag.String("driver", "", "覆盖配置中的浏览器驱动: rod / chromedp / static")
		envFile     = flag.String("env", "", ".env 文件路径")
	)
	flag.Parse()

	appcfg, err := config.ParseConfig(appConfig)
	if err != nil {
		log.Fatalf("解析配置失败: %v", err)
	}
	if *envFile != "" {
		err = appcfg.ApplyEnv(*envFile)
	} else {
		err = appcfg.ApplyEnv()
	}
	if err != nil {
		log.Fatalf("读取环境变量失败: %v", err)
	}
	if *driver != "" {
		appcfg.Browser.Driver = *driver
		if err := appcfg.Validate(); err != nil {
			log.Fatalf("配置无效: %v", err)
		}
	}

	logger, logCloser, err := logging.InitLogger(appcfg, os.Stderr)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = contextkeys.ContextWithLogger(ctx, logger.With(slog.String("component", "cli")))

	launcher := crawler.NewLauncher(appcfg, logger.With(slog.String("component", "browser")))
	scraper := service.InitScraperService(appcfg, launcher, logger)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if *mode == "checkMaxPages" {
		maxPages := scraper.CheckMaxPages(ctx, &param.MaxPages{OperationID: *operationID})
		encoder.Encode(map[string]any{"success": true, "maxPages": maxPages})
		return
	}

	result, err := scraper.ScrapeRange(ctx, &param.ScrapeRange{
		StartPage:   *startPage,
		EndPage:     *endPage,
		OperationID: *operationID,
	})
	if err != nil {
		encoder.Encode(map[string]any{"success": false, "error": err.Error()})
		stop()
		logCloser.Close()
		os.Exit(1)
	}
	encoder.Encode(map[string]any{"success": true, "data": result.Properties, "pages": result.Pages})
}
