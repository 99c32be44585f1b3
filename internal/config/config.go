package config

import "time"

type Config struct {
	AppName string `json:"app_name"`

	Server struct {
		Port string `json:"port"`
		// 关闭服务时等待正在处理的请求的秒数
		ShutdownSeconds int `json:"shutdown_seconds"`
	} `json:"server"`

	Log struct {
		Level string `json:"level"`
		JSON  bool   `json:"json"`
		Color bool   `json:"color"`
	} `json:"log"`

	FluentBit struct {
		Enabled   bool   `json:"enabled"`
		Host      string `json:"host"`
		Port      int    `json:"port"`
		Level     string `json:"level"`
		TagPrefix string `json:"tag_prefix"`
	} `json:"fluentbit"`

	// Browser 浏览器驱动配置, Driver 可选 rod / chromedp / static
	Browser struct {
		Driver      string   `json:"driver"`
		Bin         string   `json:"bin"`
		UserDataDir string   `json:"user_data_dir"`
		Headless    bool     `json:"headless"`
		NoSandbox   bool     `json:"no_sandbox"`
		Leakless    bool     `json:"leakless"`
		Stealth     bool     `json:"stealth"`
		Trace       bool     `json:"trace"`
		UserAgent   string   `json:"user_agent"`
		LaunchArgs  []string `json:"launch_args"`
	} `json:"browser"`

	// Site 目标站点的URL模板与选择器,这些值是与目标站点之间的约定,不要随意修改
	Site struct {
		BaseURL           string `json:"base_url"`
		SearchPath        string `json:"search_path"`
		ListingPath       string `json:"listing_path"`
		PageSize          int    `json:"page_size"`
		Sort              string `json:"sort"`
		OperationID       int    `json:"operation_id"`
		StageIDs          string `json:"stage_ids"`
		Locations         string `json:"locations"`
		LandingPath       string `json:"landing_path"`
		FilterCount       int    `json:"filter_count"`
		ViewMode          string `json:"view_mode"`
		StateSelector     string `json:"state_selector"`
		PaginatorSelector string `json:"paginator_selector"`
		FallbackMaxPages  int    `json:"fallback_max_pages"`
		ThreadOperationID bool   `json:"thread_operation_id"`
	} `json:"site"`

	Timeouts struct {
		NavigationSeconds    int `json:"navigation_seconds"`
		StateWaitSeconds     int `json:"state_wait_seconds"`
		PaginatorWaitSeconds int `json:"paginator_wait_seconds"`
	} `json:"timeouts"`

	Normalize struct {
		CleanMissingArea bool `json:"clean_missing_area"`
	} `json:"normalize"`

	Limits struct {
		MaxConcurrentBrowsers int `json:"max_concurrent_browsers"`
	} `json:"limits"`
}

func (c *Config) NavigationTimeout() time.Duration {
	return time.Duration(c.Timeouts.NavigationSeconds) * time.Second
}

func (c *Config) StateWaitTimeout() time.Duration {
	return time.Duration(c.Timeouts.StateWaitSeconds) * time.Second
}

func (c *Config) PaginatorWaitTimeout() time.Duration {
	return time.Duration(c.Timeouts.PaginatorWaitSeconds) * time.Second
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownSeconds) * time.Second
}
