package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	DriverRod      = "rod"
	DriverChromedp = "chromedp"
	DriverStatic   = "static"
)

// Default 返回与目标站点约定一致的默认配置
func Default() *Config {
	var cfg Config
	cfg.AppName = "listingcrawler"

	cfg.Server.Port = "3000"
	cfg.Server.ShutdownSeconds = 10

	cfg.Log.Level = "info"
	cfg.Log.Color = true

	cfg.FluentBit.Port = 24224
	cfg.FluentBit.Level = "info"

	cfg.Browser.Driver = DriverRod
	cfg.Browser.Headless = true
	cfg.Browser.NoSandbox = true
	cfg.Browser.Leakless = true
	cfg.Browser.Stealth = true
	cfg.Browser.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"
	cfg.Browser.LaunchArgs = []string{
		"disable-setuid-sandbox",
		"disable-dev-shm-usage",
		"disable-accelerated-2d-canvas",
		"no-first-run",
		"no-zygote",
		"disable-gpu",
		"single-process",
	}

	cfg.Site.BaseURL = "https://www.remax.com.ar"
	cfg.Site.SearchPath = "/listings/buy"
	cfg.Site.ListingPath = "/listings/"
	cfg.Site.PageSize = 24
	cfg.Site.Sort = "-createdAt"
	cfg.Site.OperationID = 1
	cfg.Site.StageIDs = "0,1,2,3,4"
	cfg.Site.Locations = "in:CF@%3Cb%3ECapital%3C%2Fb%3E%20%3Cb%3EFederal%3C%2Fb%3E::::::"
	cfg.Site.ViewMode = "listViewMode"
	cfg.Site.StateSelector = "script#ng-state"
	cfg.Site.PaginatorSelector = ".p-container-paginator p"
	cfg.Site.FallbackMaxPages = 775

	cfg.Timeouts.NavigationSeconds = 90
	cfg.Timeouts.StateWaitSeconds = 30
	cfg.Timeouts.PaginatorWaitSeconds = 10

	cfg.Limits.MaxConcurrentBrowsers = 2
	return &cfg
}

// ParseConfig 在默认配置之上解析JSON配置,未出现的字段保留默认值
func ParseConfig(byteConfig []byte) (*Config, error) {
	cfg := Default()
	if len(strings.TrimSpace(string(byteConfig))) > 0 {
		if err := json.Unmarshal(byteConfig, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if cfg.Browser.UserDataDir != "" {
		absPath, err := filepath.Abs(cfg.Browser.UserDataDir)
		if err != nil {
			return nil, err
		}
		cfg.Browser.UserDataDir = absPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Browser.Driver {
	case DriverRod, DriverChromedp, DriverStatic:
	default:
		return fmt.Errorf("unknown browser driver %q", c.Browser.Driver)
	}
	if c.Site.BaseURL == "" {
		return fmt.Errorf("site.base_url is required")
	}
	if c.Site.FallbackMaxPages <= 0 {
		return fmt.Errorf("site.fallback_max_pages must be positive, got %d", c.Site.FallbackMaxPages)
	}
	if c.Timeouts.NavigationSeconds <= 0 || c.Timeouts.StateWaitSeconds <= 0 || c.Timeouts.PaginatorWaitSeconds <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.Limits.MaxConcurrentBrowsers < 0 {
		return fmt.Errorf("limits.max_concurrent_browsers must not be negative")
	}
	return nil
}
