package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/LouYuanbo1/listingcrawler/internal/contextkeys"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// LoggerMiddleware 为每个请求生成 trace_id (或沿用 X-Trace-ID),
// 把带 trace_id 的日志器放入上下文,并记录请求的开始和结束
func LoggerMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get("X-Trace-ID")
			if traceID == "" {
				traceID = uuid.New().String()
			}

			coreLogger := logger.With(slog.String("trace_id", traceID))
			httpLogger := coreLogger.With(
				slog.String("http_method", r.Method),
				slog.String("http_path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			ctx := contextkeys.ContextWithLogger(r.Context(), coreLogger)
			ctx = contextkeys.ContextWithTraceID(ctx, traceID)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Header().Set("X-Trace-ID", traceID)
			startTime := time.Now()

			httpLogger.Info("请求开始")
			next.ServeHTTP(ww, r.WithContext(ctx))
			httpLogger.Info("请求结束",
				slog.Int("status_code", ww.Status()),
				slog.Int("bytes_written", ww.BytesWritten()),
				slog.Int64("duration_ms", time.Since(startTime).Milliseconds()))
		})
	}
}
