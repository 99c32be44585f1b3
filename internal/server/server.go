package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewRouter 组装路由和中间件
func NewRouter(handlers *ScrapeHandlers, baseLogger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/healthz", HandleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/scrape", handlers.HandleScrape)
	})
	return r
}

func NewServer(port string, handlers *ScrapeHandlers, baseLogger *slog.Logger) *Server {
	logger := baseLogger.With(slog.String("component", "http"))
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + port,
			Handler:           NewRouter(handlers, baseLogger),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start 阻塞直到服务关闭,正常关闭时返回 nil
func (s *Server) Start() error {
	s.logger.Info("HTTP服务启动", slog.String("address", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop 停止接收新请求并等待正在处理的请求结束,ctx 到期后强制关闭
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("HTTP服务关闭中")
	return s.httpServer.Shutdown(ctx)
}
