// Package server exposes the claim risk service over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/baditaflorin/l"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"yashubustudio/claimrisk/claimrisk"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
	shutdownTimeout = 10 * time.Second
)

// Server routes HTTP requests to a claimrisk.Service.
type Server struct {
	svc     *claimrisk.Service
	cfg     claimrisk.ServerConfig
	logger  l.Logger
	metrics *Metrics
	limiter *rate.Limiter
	reg     *prometheus.Registry
	engine  *gin.Engine
}

// New builds the router. The service's observer is set to the server's metrics.
func New(svc *claimrisk.Service, cfg claimrisk.ServerConfig, logger l.Logger) *Server {
	reg := prometheus.NewRegistry()
	s := &Server{
		svc:     svc,
		cfg:     cfg,
		logger:  logger,
		metrics: NewMetrics(reg),
		reg:     reg,
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	svc.SetObserver(s.metrics)
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestID(), s.accessLog())

	r.GET("/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{})))

	v1 := r.Group("/v1")
	v1.GET("/options", s.handleOptions)
	v1.GET("/summary", s.handleSummary)
	v1.GET("/stats", s.handleStats)
	v1.GET("/docs", s.handleDocs)
	v1.POST("/predict", s.rateLimit(), s.handlePredict)
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logInfo("HTTP server listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logInfo("HTTP server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logInfo("HTTP request",
			"request_id", c.GetString(requestIDKey),
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed", time.Since(start).String())
	}
}

func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter != nil && !s.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Error: "Too many prediction requests",
				Code:  "RATE_LIMITED",
			})
			return
		}
		c.Next()
	}
}

func (s *Server) logInfo(msg string, kv ...any) {
	if s.logger != nil {
		s.logger.Info(msg, kv...)
	}
}

func (s *Server) logWarn(msg string, kv ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, kv...)
	}
}
