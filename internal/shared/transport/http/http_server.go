package http

import (
	"context"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"

	"AncientWarfare/internal/shared/transport"
	"AncientWarfare/internal/shared/transport/http/middleware"
	"AncientWarfare/modules/kit/logx"
)

type Server struct {
	engine *gin.Engine
	srv    *nethttp.Server
}

// Option 调整底层 net/http.Server。
type Option func(*nethttp.Server)

func WithReadTimeout(d time.Duration) Option {
	return func(s *nethttp.Server) { s.ReadTimeout = d }
}

func WithIdleTimeout(d time.Duration) Option {
	return func(s *nethttp.Server) { s.IdleTimeout = d }
}

// NewHttpServer 挂好访问日志、recovery、CORS、/healthz 和统一格式的 404。
// 访问日志在最外层，panic 的请求也会记一条。不设 WriteTimeout：观战 ws 长连接复用同一个
// server，读写超时由 ws 层维护。
func NewHttpServer(addr string, logger logx.Logger, opts ...Option) *Server {
	engine := gin.New()
	engine.Use(middleware.AccessLog(logger), middleware.Recovery(logger), middleware.Cors())
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(nethttp.StatusOK, gin.H{"status": "ok"})
	})
	engine.NoRoute(func(c *gin.Context) {
		transport.SetBizCode(c.Request.Context(), transport.NotFound)
		c.JSON(nethttp.StatusNotFound, transport.Response{Code: transport.NotFound, Msg: "接口不存在"})
	})

	srv := &nethttp.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	for _, o := range opts {
		o(srv)
	}
	return &Server{engine: engine, srv: srv}
}

// Start 阻塞；Shutdown 后返回 net/http.ErrServerClosed。
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) Handler() nethttp.Handler {
	return s.engine
}
