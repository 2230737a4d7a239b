// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	auditHTTP "github.com/riskforge/compliance/internal/audit/http"
	auditRepository "github.com/riskforge/compliance/internal/audit/repository"
	auditUsecase "github.com/riskforge/compliance/internal/audit/usecase"
	complianceHTTP "github.com/riskforge/compliance/internal/compliance/http"
	complianceService "github.com/riskforge/compliance/internal/compliance/service"
	"github.com/riskforge/compliance/internal/config"
	cryptoDomain "github.com/riskforge/compliance/internal/crypto/domain"
	cryptoService "github.com/riskforge/compliance/internal/crypto/service"
	"github.com/riskforge/compliance/internal/database"
	"github.com/riskforge/compliance/internal/http"
	"github.com/riskforge/compliance/internal/metrics"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger  *slog.Logger
	db      *sql.DB
	secrets *cryptoDomain.Secrets

	// Crypto
	cipher cryptoService.Cipher
	signer cryptoService.Signer

	// Metrics
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Repositories
	auditRepo auditUsecase.AuditRecordRepository

	// Services and Use Cases
	auditTrail auditUsecase.AuditTrail
	registry   *complianceService.RuleRegistry
	policy     complianceService.ResidencyPolicy
	classifier complianceService.Classifier

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	dbInit              sync.Once
	secretsInit         sync.Once
	cipherInit          sync.Once
	signerInit          sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	auditRepoInit       sync.Once
	auditTrailInit      sync.Once
	registryInit        sync.Once
	policyInit          sync.Once
	classifierInit      sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection for the audit store.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := c.initDB()
		if err != nil {
			c.initErrors["db"] = err
			return
		}
		c.db = db
	})
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// Secrets returns the process-wide cryptographic secrets, loaded fail-fast
// from the environment on first access.
func (c *Container) Secrets() (*cryptoDomain.Secrets, error) {
	c.secretsInit.Do(func() {
		secrets, err := cryptoDomain.LoadSecretsFromEnv()
		if err != nil {
			c.initErrors["secrets"] = err
			return
		}
		c.secrets = secrets
	})
	if storedErr, exists := c.initErrors["secrets"]; exists {
		return nil, storedErr
	}
	return c.secrets, nil
}

// Cipher returns the tenant-scoped authenticated cipher.
func (c *Container) Cipher() (cryptoService.Cipher, error) {
	c.cipherInit.Do(func() {
		cipher, err := c.initCipher()
		if err != nil {
			c.initErrors["cipher"] = err
			return
		}
		c.cipher = cipher
	})
	if storedErr, exists := c.initErrors["cipher"]; exists {
		return nil, storedErr
	}
	return c.cipher, nil
}

// Signer returns the audit record integrity signer.
func (c *Container) Signer() (cryptoService.Signer, error) {
	c.signerInit.Do(func() {
		signer, err := c.initSigner()
		if err != nil {
			c.initErrors["signer"] = err
			return
		}
		c.signer = signer
	})
	if storedErr, exists := c.initErrors["signer"]; exists {
		return nil, storedErr
	}
	return c.signer, nil
}

// MetricsProvider returns the OpenTelemetry metrics provider, nil when
// metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
			return
		}
		c.metricsProvider = provider
	})
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder, a no-op
// implementation when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		bm, err := c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		c.businessMetrics = bm
	})
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// AuditRepository returns the audit record repository instance.
func (c *Container) AuditRepository() (auditUsecase.AuditRecordRepository, error) {
	c.auditRepoInit.Do(func() {
		repo, err := c.initAuditRepository()
		if err != nil {
			c.initErrors["auditRepo"] = err
			return
		}
		c.auditRepo = repo
	})
	if storedErr, exists := c.initErrors["auditRepo"]; exists {
		return nil, storedErr
	}
	return c.auditRepo, nil
}

// AuditTrail returns the audit trail use case instance.
func (c *Container) AuditTrail() (auditUsecase.AuditTrail, error) {
	c.auditTrailInit.Do(func() {
		trail, err := c.initAuditTrail()
		if err != nil {
			c.initErrors["auditTrail"] = err
			return
		}
		c.auditTrail = trail
	})
	if storedErr, exists := c.initErrors["auditTrail"]; exists {
		return nil, storedErr
	}
	return c.auditTrail, nil
}

// RuleRegistry returns the residency rule registry seeded with the built-in
// global rules.
func (c *Container) RuleRegistry() *complianceService.RuleRegistry {
	c.registryInit.Do(func() {
		c.registry = complianceService.NewRuleRegistry()
	})
	return c.registry
}

// ResidencyPolicy returns the residency policy instance.
func (c *Container) ResidencyPolicy() (complianceService.ResidencyPolicy, error) {
	c.policyInit.Do(func() {
		policy, err := c.initResidencyPolicy()
		if err != nil {
			c.initErrors["policy"] = err
			return
		}
		c.policy = policy
	})
	if storedErr, exists := c.initErrors["policy"]; exists {
		return nil, storedErr
	}
	return c.policy, nil
}

// Classifier returns the data classifier instance.
func (c *Container) Classifier() (complianceService.Classifier, error) {
	c.classifierInit.Do(func() {
		classifier, err := c.initClassifier()
		if err != nil {
			c.initErrors["classifier"] = err
			return
		}
		c.classifier = classifier
	})
	if storedErr, exists := c.initErrors["classifier"]; exists {
		return nil, storedErr
	}
	return c.classifier, nil
}

// HTTPServer returns the API HTTP server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		c.httpServer = server
	})
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics HTTP server instance, nil when metrics
// are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		server, err := c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		c.metricsServer = server
	})
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	// Zero the secrets last so everything holding derived keys is already down.
	if c.secrets != nil {
		c.secrets.Close()
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initCipher creates the tenant cipher from the master secret.
func (c *Container) initCipher() (cryptoService.Cipher, error) {
	secrets, err := c.Secrets()
	if err != nil {
		return nil, fmt.Errorf("failed to get secrets for cipher: %w", err)
	}
	return cryptoService.NewTenantCipher(secrets.MasterSecret)
}

// initSigner creates the integrity signer from the signing secret.
func (c *Container) initSigner() (cryptoService.Signer, error) {
	secrets, err := c.Secrets()
	if err != nil {
		return nil, fmt.Errorf("failed to get secrets for signer: %w", err)
	}
	return cryptoService.NewIntegritySigner(secrets.SigningSecret)
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}
	return metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
}

// initAuditRepository creates the audit record repository instance.
func (c *Container) initAuditRepository() (auditUsecase.AuditRecordRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for audit repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return auditRepository.NewMySQLAuditRecordRepository(db), nil
	case "postgres":
		return auditRepository.NewPostgreSQLAuditRecordRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAuditTrail creates the audit trail use case with all its dependencies.
func (c *Container) initAuditTrail() (auditUsecase.AuditTrail, error) {
	repo, err := c.AuditRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit repository for audit trail: %w", err)
	}

	cipher, err := c.Cipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get cipher for audit trail: %w", err)
	}

	signer, err := c.Signer()
	if err != nil {
		return nil, fmt.Errorf("failed to get signer for audit trail: %w", err)
	}

	bm, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for audit trail: %w", err)
	}

	trail := auditUsecase.NewAuditTrail(repo, cipher, signer, c.Logger())

	return auditUsecase.NewAuditTrailWithMetrics(trail, bm), nil
}

// initResidencyPolicy creates the residency policy with its metrics decorator.
func (c *Container) initResidencyPolicy() (complianceService.ResidencyPolicy, error) {
	bm, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for residency policy: %w", err)
	}

	policy := complianceService.NewResidencyPolicy(c.RuleRegistry())

	return complianceService.NewResidencyPolicyWithMetrics(policy, bm), nil
}

// initClassifier creates the data classifier with its metrics decorator.
func (c *Container) initClassifier() (complianceService.Classifier, error) {
	bm, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for classifier: %w", err)
	}

	classifier := complianceService.NewKeywordClassifier()

	return complianceService.NewClassifierWithMetrics(classifier, bm), nil
}

// initHTTPServer creates the API HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	classifier, err := c.Classifier()
	if err != nil {
		return nil, fmt.Errorf("failed to get classifier for http server: %w", err)
	}

	policy, err := c.ResidencyPolicy()
	if err != nil {
		return nil, fmt.Errorf("failed to get residency policy for http server: %w", err)
	}

	trail, err := c.AuditTrail()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit trail for http server: %w", err)
	}

	serverConfig := http.ServerConfig{
		Host:              c.config.ServerHost,
		Port:              c.config.ServerPort,
		GinMode:           c.config.GetGinMode(),
		Logger:            logger,
		ComplianceHandler: complianceHTTP.NewComplianceHandler(classifier, policy, trail, logger),
		AuditHandler:      auditHTTP.NewAuditHandler(trail, logger),
		MetricsNamespace:  c.config.MetricsNamespace,

		RateLimitEnabled:        c.config.RateLimitEnabled,
		RateLimitRequestsPerSec: c.config.RateLimitRequestsPerSec,
		RateLimitBurst:          c.config.RateLimitBurst,

		CORSEnabled:      c.config.CORSEnabled,
		CORSAllowOrigins: c.config.CORSAllowOrigins,
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}
	if provider != nil {
		serverConfig.MeterProvider = provider.MeterProvider()
	}

	return http.NewServer(serverConfig), nil
}

// initMetricsServer creates the metrics HTTP server.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}

	return http.NewMetricsServer(
		c.config.ServerHost,
		c.config.MetricsPort,
		c.Logger(),
		provider,
	), nil
}
