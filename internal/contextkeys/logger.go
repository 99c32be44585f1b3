package contextkeys

import (
	"context"
	"log/slog"
)

type loggerKeyType struct{}

var loggerKey = loggerKeyType{}

// ContextWithLogger 把请求级别的日志器放入上下文
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext 取出上下文中的日志器,没有时返回丢弃所有输出的日志器
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := LookupLogger(ctx); ok {
		return logger
	}
	return slog.New(slog.DiscardHandler)
}

func LookupLogger(ctx context.Context) (*slog.Logger, bool) {
	logger, ok := ctx.Value(loggerKey).(*slog.Logger)
	return logger, ok && logger != nil
}
