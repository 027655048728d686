package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xxz807/finbank/internal/ledger/api"
	"github.com/xxz807/finbank/internal/platform/config"
)

// Server 封装 HTTP 服务
type Server struct {
	engine *gin.Engine
	logger *zap.Logger
	server *http.Server
}

// NewServer 初始化 HTTP Server (包含网关逻辑)
func NewServer(logger *zap.Logger, cfg config.ServerConfig, ledgerHandler *api.LedgerHandler) *Server {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// ==========================================
	// 网关中间件
	// ==========================================
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))
	r.Use(cors(cfg.CORS.AllowedOrigins))

	// ==========================================
	// 路由
	// ==========================================
	apiGroup := r.Group("/api")
	{
		ledgerHandler.RegisterRoutes(apiGroup)

		apiGroup.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "UP"})
		})
	}

	return &Server{
		engine: r,
		logger: logger,
		server: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler 暴露 gin engine，主要供测试使用
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run 阻塞直到服务停止，优雅停机时返回 http.ErrServerClosed
func (s *Server) Run() error {
	s.logger.Info("FinBank server started", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown 优雅停机
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// requestLogger 每个请求记录一行日志，debug 级别下额外记录请求体和查询参数
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		if logger.Core().Enabled(zapcore.DebugLevel) && c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err == nil {
				c.Request.Body = io.NopCloser(bytes.NewReader(body))
				logger.Debug("Request payload",
					zap.ByteString("body", body),
					zap.String("query", query),
				)
			}
		}

		c.Next()

		logger.Info("HTTP Request",
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.Duration("cost", time.Since(start)),
		)
	}
}

// cors 单一白名单策略，"*" 表示允许任意来源
func cors(allowed []string) gin.HandlerFunc {
	allowAll := false
	origins := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			allowAll = true
		}
		origins[o] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			_, known := origins[origin]
			switch {
			case allowAll:
				c.Header("Access-Control-Allow-Origin", "*")
			case known:
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
			case c.Request.Method == http.MethodOptions:
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
