package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/buddyike18/project-dine-backend/internal/analytics"
	"github.com/buddyike18/project-dine-backend/internal/caching"
	"github.com/buddyike18/project-dine-backend/internal/config"
	"github.com/buddyike18/project-dine-backend/internal/events"
	"github.com/buddyike18/project-dine-backend/internal/handlers"
	"github.com/buddyike18/project-dine-backend/internal/identity"
	"github.com/buddyike18/project-dine-backend/internal/jobs"
	"github.com/buddyike18/project-dine-backend/internal/jobs/background"
	"github.com/buddyike18/project-dine-backend/internal/middleware"
	"github.com/buddyike18/project-dine-backend/internal/services"
	"github.com/buddyike18/project-dine-backend/internal/telemetry"
	"github.com/buddyike18/project-dine-backend/pkg/database"
)

const (
	version         = "1.0.0"
	serviceName     = "project-dine-backend"
	shutdownTimeout = 10 * time.Second
)

func logLevel(raw string) log.Lvl {
	switch strings.ToLower(raw) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	level := logLevel(cfg.LogLevel)
	log.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Tracing
	shutdownTracing, err := telemetry.Setup(ctx, serviceName, cfg.OTelEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	// Database
	pool, err := database.NewPool(ctx, cfg.DatabaseURL, database.PoolOptions{MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, pool); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	probes := map[string]handlers.Probe{"database": pool.Ping}

	// Report cache
	var cache caching.ReportCache = caching.NoopReportCache{}
	if cfg.RedisAddr != "" {
		client, err := caching.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("Failed to configure Redis: %v", err)
		}
		defer client.Close()
		cache = caching.NewRedisReportCache(client)
		probes["redis"] = cache.Ping
	}

	// Domain events
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.RabbitMQURL != "" {
		amqpPublisher, err := events.DialAMQP(cfg.RabbitMQURL, cfg.EventsExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		publisher = amqpPublisher
		probes["events"] = func(context.Context) error { return amqpPublisher.Ping() }
	}
	defer publisher.Close()

	// Services
	exec := services.NewExecutor(pool, nil)
	effects := services.NewEffects(cache, publisher)
	orderSvc := services.NewOrderService(exec, effects)
	checkSvc := services.NewCheckService(exec, effects)
	inventorySvc := services.NewInventoryService(exec, effects)
	analyticsSvc := analytics.NewAnalyticsService(pool, cache, cfg.ReportCacheTTL)

	var receiptSvc services.ReceiptService
	if cfg.MinioEndpoint != "" {
		minioClient, err := services.NewMinioClient(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
		if err != nil {
			log.Fatalf("Failed to initialize MinIO client: %v", err)
		}
		receiptSvc = services.NewReceiptService(exec, minioClient, cfg.ReceiptsBucket)
		if err := receiptSvc.EnsureBucket(ctx); err != nil {
			log.Warnf("Receipts bucket unavailable: %v", err)
		}
		probes["storage"] = func(ctx context.Context) error {
			_, err := minioClient.BucketExists(ctx, cfg.ReceiptsBucket)
			return err
		}
	}

	// Identity
	opts := identity.Options{Issuer: cfg.JWTIssuer, Audience: cfg.JWTAudience}
	var verifier identity.Verifier
	if cfg.JWKSURL != "" {
		jwksVerifier, err := identity.NewJWKSVerifier(cfg.JWKSURL, opts)
		if err != nil {
			log.Fatalf("Failed to load JWKS: %v", err)
		}
		defer jwksVerifier.Close()
		verifier = jwksVerifier
	} else {
		verifier = identity.NewHMACVerifier(cfg.JWTSecret, opts)
	}

	// Background jobs
	alerts := jobs.NewInventoryAlertService(inventorySvc, publisher, 0)
	scheduler, err := background.NewJobScheduler(alerts, cfg.LowStockInterval)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()

	// Handlers
	orderHandlers := handlers.NewOrderHandlers(orderSvc)
	checkHandlers := handlers.NewCheckHandlers(checkSvc, receiptSvc)
	inventoryHandlers := handlers.NewInventoryHandlers(inventorySvc)
	reportHandlers := handlers.NewReportHandlers(analyticsSvc)
	healthHandlers := handlers.NewHealthHandlers(version, probes, "database")

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(level)

	// Global middleware
	e.Use(echoMiddleware.RequestIDWithConfig(echoMiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			fields := log.JSON{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"request_id": v.RequestID,
			}
			if v.Error != nil {
				fields["error"] = v.Error.Error()
			}
			c.Logger().Infoj(fields)
			return nil
		},
	}))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)

	versionMiddleware := middleware.NewVersionMiddleware()
	v1 := versionMiddleware.VersionRoute(e, "v1", middleware.Authenticate(verifier))

	v1.GET("/orders", orderHandlers.ListOrders)
	v1.POST("/orders", orderHandlers.PlaceOrder)
	v1.GET("/orders/:id", orderHandlers.GetOrder)
	v1.PUT("/orders/:id/lines", orderHandlers.ReplaceOrderContents)
	v1.PATCH("/orders/:id/status", orderHandlers.UpdateStatus)
	v1.PATCH("/orders/:id/priority", orderHandlers.UpdatePriority)
	v1.PATCH("/orders/:id/staff", orderHandlers.AssignStaff)

	v1.GET("/checks", checkHandlers.ListChecks)
	v1.POST("/checks", checkHandlers.OpenCheck)
	v1.GET("/checks/:id", checkHandlers.GetCheck)
	v1.POST("/checks/:id/split", checkHandlers.SplitCheck)
	v1.POST("/checks/:id/payments", checkHandlers.RecordPayment)
	v1.POST("/checks/:id/settle", checkHandlers.SettleCheck)
	v1.POST("/checks/:id/receipt", checkHandlers.GenerateReceipt)

	v1.GET("/inventory", inventoryHandlers.ListItems)
	v1.POST("/inventory", inventoryHandlers.CreateItem)
	v1.GET("/inventory/low-stock", inventoryHandlers.ListLowStock)
	v1.PUT("/inventory/bulk", inventoryHandlers.BulkUpdate)
	v1.GET("/inventory/:id", inventoryHandlers.GetItem)

	v1.GET("/reports/sales", reportHandlers.SalesSummary)
	v1.GET("/reports/payments", reportHandlers.PaymentsByMethod)

	go func() {
		log.Infof("Dine server v%s starting on port %s", version, cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP shutdown: %v", err)
	}
	if err := scheduler.Stop(); err != nil {
		log.Errorf("Scheduler shutdown: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Errorf("Tracing shutdown: %v", err)
	}
}
