package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"

	auditHTTP "github.com/riskforge/compliance/internal/audit/http"
	complianceHTTP "github.com/riskforge/compliance/internal/compliance/http"
	"github.com/riskforge/compliance/internal/metrics"
)

// ServerConfig carries everything the API server needs to assemble its
// router. Optional middleware (metrics, CORS, rate limiting) is skipped when
// the corresponding field is unset.
type ServerConfig struct {
	Host    string
	Port    int
	GinMode string

	Logger *slog.Logger

	ComplianceHandler *complianceHTTP.ComplianceHandler
	AuditHandler      *auditHTTP.AuditHandler

	MeterProvider    metric.MeterProvider
	MetricsNamespace string

	RateLimitEnabled        bool
	RateLimitRequestsPerSec float64
	RateLimitBurst          int

	CORSEnabled      bool
	CORSAllowOrigins string
}

// Server represents the API HTTP server.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates the API server and wires all routes.
func NewServer(cfg ServerConfig) *Server {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(cfg.Logger))

	if cfg.MeterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(cfg.MeterProvider, cfg.MetricsNamespace))
	}

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, cfg.Logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.RateLimitEnabled {
		router.Use(RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, cfg.Logger))
	}

	router.GET("/health", healthHandler)
	router.GET("/ready", healthHandler)

	v1 := router.Group("/v1")
	{
		compliance := v1.Group("/compliance")
		{
			compliance.POST("/check", cfg.ComplianceHandler.CheckHandler)
			compliance.POST("/rules", cfg.ComplianceHandler.RegisterRulesHandler)
			compliance.GET("/retention", cfg.ComplianceHandler.RetentionHandler)
		}

		audit := v1.Group("/audit")
		{
			audit.GET("/records", cfg.AuditHandler.ListHandler)
			audit.GET("/report", cfg.AuditHandler.ReportHandler)
		}
	}

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: cfg.Logger,
	}
}

// healthHandler reports liveness. The compliance core keeps rules in memory
// and treats the audit store as non-blocking, so readiness equals liveness.
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the API HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the API HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
