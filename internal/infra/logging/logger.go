package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/LouYuanbo1/listingcrawler/internal/config"
	"github.com/lmittmann/tint"
)

// ConsoleOptions 控制台日志的输出格式
type ConsoleOptions struct {
	// Writer 默认为 os.Stdout
	Writer    io.Writer
	Level     slog.Leveler
	AddSource bool
	JSON      bool
	Color     bool
}

func NewConsoleHandler(opts ConsoleOptions) slog.Handler {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{
		AddSource: opts.AddSource,
		Level:     opts.Level,
	}

	switch {
	case opts.JSON:
		return slog.NewJSONHandler(opts.Writer, handlerOpts)
	case opts.Color:
		return tint.NewHandler(opts.Writer, &tint.Options{
			Level:      opts.Level,
			AddSource:  opts.AddSource,
			TimeFormat: "2006-01-02 15:04:05",
		})
	default:
		return slog.NewTextHandler(opts.Writer, handlerOpts)
	}
}

// InitLogger 按配置组装应用日志器: 控制台 + 可选的 Fluent Bit。
// 返回的 io.Closer 负责关闭 Fluent 连接,应在应用退出时调用。
func InitLogger(cfg *config.Config, w io.Writer) (*slog.Logger, io.Closer, error) {
	handlers := []slog.Handler{
		NewConsoleHandler(ConsoleOptions{
			Writer: w,
			Level:  ParseLevel(cfg.Log.Level),
			JSON:   cfg.Log.JSON,
			Color:  cfg.Log.Color,
		}),
	}

	var closer io.Closer = nopCloser{}
	if cfg.FluentBit.Enabled {
		tagPrefix := cfg.FluentBit.TagPrefix
		if tagPrefix == "" {
			tagPrefix = cfg.AppName
		}
		client, err := NewFluentClient(cfg.FluentBit.Host, cfg.FluentBit.Port, tagPrefix)
		if err != nil {
			return nil, nil, err
		}
		handlers = append(handlers, NewFluentHandler(client, ParseLevel(cfg.FluentBit.Level)))
		closer = client
	}

	logger := slog.New(NewMultiHandler(handlers...)).With(slog.String("service_name", cfg.AppName))
	logger.Info("日志系统初始化完成",
		slog.Int("active_handlers", len(handlers)),
		slog.Bool("fluent_enabled", cfg.FluentBit.Enabled))
	return logger, closer, nil
}

// ParseLevel 解析日志级别,无法识别时回退到 info
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("未知的日志级别 %q, 使用 info", levelStr)
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Err 统一错误字段的写法
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}
