package main

import (
	"context"
	_ "embed"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/LouYuanbo1/listingcrawler/internal"
	"github.com/LouYuanbo1/listingcrawler/internal/config"
)

//go:embed appconfig/appconfig.json
var appConfig []byte

func main() {
	appcfg, err := config.ParseConfig(appConfig)
	if err != nil {
		log.Fatalf("解析配置失败: %v", err)
	}
	// 环境变量和 .env 覆盖嵌入的配置
	if err := appcfg.ApplyEnv(); err != nil {
		log.Fatalf("读取环境变量失败: %v", err)
	}

	app, err := internal.NewApp(appcfg)
	if err != nil {
		log.Fatalf("初始化应用失败: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("应用运行失败: %v", err)
	}
}
