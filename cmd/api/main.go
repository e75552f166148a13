package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	_ "github.com/rafabene/dermacheck-backend/docs"
	"github.com/rafabene/dermacheck-backend/internal/domain/ports"
	httphandlers "github.com/rafabene/dermacheck-backend/internal/handlers/http"
	"github.com/rafabene/dermacheck-backend/internal/handlers/middleware"
	"github.com/rafabene/dermacheck-backend/internal/infrastructure/catalog"
	"github.com/rafabene/dermacheck-backend/internal/infrastructure/config"
	"github.com/rafabene/dermacheck-backend/internal/infrastructure/i18n"
	"github.com/rafabene/dermacheck-backend/internal/infrastructure/inference"
	"github.com/rafabene/dermacheck-backend/internal/infrastructure/logging"
	"github.com/rafabene/dermacheck-backend/internal/infrastructure/messaging"
	"github.com/rafabene/dermacheck-backend/internal/infrastructure/metrics"
	"github.com/rafabene/dermacheck-backend/internal/infrastructure/persistence/gormstore"
	"github.com/rafabene/dermacheck-backend/internal/infrastructure/ratelimit"
	"github.com/rafabene/dermacheck-backend/internal/infrastructure/security"
	"github.com/rafabene/dermacheck-backend/internal/infrastructure/tracing"
	"github.com/rafabene/dermacheck-backend/internal/services"
)

// @title           DermaCheck API
// @version         1.0
// @description     Classificação de doenças de pele, histórico de predições e administração.
// @host            localhost:5000
// @BasePath        /
func main() {
	// Carregar configurações
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Inicializar logger
	logger, err := logging.New(cfg.Logging.Driver, cfg.Logging.Level)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	logger.Info("starting dermacheck backend",
		"env", cfg.Env,
		"version", "dev",
	)

	ctx := context.Background()

	// Tracing (no-op sem endpoint OTLP)
	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing.Endpoint, cfg.Tracing.ServiceName, cfg.Env)
	if err != nil {
		logger.Warn("tracing disabled", "error", err)
		shutdownTracing = func(context.Context) error { return nil }
	}

	// Conectar ao banco de dados
	db, err := gormstore.NewDatabaseConnection(&cfg.Database, cfg.IsProduction(), logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		log.Fatal(err)
	}
	if err := gormstore.Migrate(db); err != nil {
		logger.Error("failed to migrate database", "error", err)
		log.Fatal(err)
	}

	// Inicializar i18n
	i18nService, err := i18n.NewService(cfg.I18n.LocalesDir, cfg.I18n.DefaultLanguage)
	if err != nil {
		logger.Warn("using embedded translations", "locales_dir", cfg.I18n.LocalesDir, "error", err)
		i18nService, err = i18n.NewEmbeddedService(cfg.I18n.DefaultLanguage)
		if err != nil {
			logger.Error("failed to initialize i18n", "error", err)
			log.Fatal(err)
		}
	}
	logger.Info("i18n initialized",
		"default_language", i18nService.GetDefaultLanguage(),
		"supported_languages", i18nService.GetSupportedLanguages(),
	)

	// Modelo e índice de classes: falhas deixam a classificação indisponível
	adapter := newInferenceAdapter(ctx, cfg, logger)
	diseases := catalog.New(cfg.Storage.DatasetDir, "/static/dataset", adapter.Labels())

	// Segurança
	sessions, err := security.NewJWTSessionManager(cfg.Session.Secret, cfg.Session.TTL, cfg.Session.RememberTTL)
	if err != nil {
		logger.Error("failed to initialize sessions", "error", err)
		log.Fatal(err)
	}
	hasher := security.NewBcryptHasher(cfg.Session.BcryptCost)

	// Infraestrutura opcional
	events, closeEvents := newEventPublisher(cfg, logger)
	loginLimiter, predictLimiter := newRateLimiters(ctx, cfg, logger)
	registry := metrics.New()

	// Inicializar repositories
	userRepo := gormstore.NewUserRepository(db)
	predictionRepo := gormstore.NewPredictionRepository(db)
	uow := gormstore.NewUnitOfWork(db)

	// Inicializar services
	uploadDir := ""
	if cfg.Storage.PersistUpload {
		uploadDir = cfg.Storage.UploadDir
	}
	authService := services.NewAuthService(userRepo, hasher, sessions, events, logger)
	userService := services.NewUserService(userRepo, predictionRepo, hasher, uow, logger)
	predictionService := services.NewPredictionService(adapter, predictionRepo, registry, events, logger, uploadDir)
	reportService := services.NewReportService(userRepo, predictionRepo, logger, cfg.Server.Location())

	// Setup Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router, err := httphandlers.NewRouter(httphandlers.RouterConfig{
		BaseURL:        cfg.Server.BaseURL,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		TemplatesDir:   cfg.Server.TemplatesDir,
		StaticDir:      cfg.Storage.StaticDir,
		Logger:         logger,
		I18n:           i18nService,
		Auth:           middleware.NewAuthMiddleware(authService, cfg.Session.CookieName, logger),
		Metrics:        registry,
		LoginLimiter:   loginLimiter,
		PredictLimiter: predictLimiter,
		Pages:          httphandlers.NewPageHandler(predictionService, diseases, cfg.Env),
		AuthHandler: httphandlers.NewAuthHandler(authService, httphandlers.SessionCookie{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.Secure,
		}, logger),
		Predictions: httphandlers.NewPredictionHandler(predictionService, cfg.Storage.MaxUploadBytes()),
		Diseases:    httphandlers.NewDiseaseHandler(diseases),
		Profile:     httphandlers.NewProfileHandler(userService, predictionService),
		Admin:       httphandlers.NewAdminHandler(userService, predictionService, reportService),
	})
	if err != nil {
		logger.Error("failed to build router", "error", err)
		log.Fatal(err)
	}

	// HTTP Server
	srv := &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Info("server starting",
			"host", cfg.Server.Host,
			"port", cfg.Server.Port,
			"model_loaded", adapter.Available(),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			log.Fatal(err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	if err := closeEvents(); err != nil {
		logger.Warn("failed to close event publisher", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("failed to flush traces", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("server exited")
}

// newInferenceAdapter carrega o índice de classes e confere o model server
func newInferenceAdapter(ctx context.Context, cfg *config.Config, logger ports.Logger) *inference.Adapter {
	labels, err := inference.LoadLabelIndex(cfg.Model.ClassIndicesPath)
	if err != nil {
		logger.Warn("label index not loaded, classification disabled", "path", cfg.Model.ClassIndicesPath, "error", err)
	}

	var classifier ports.Classifier
	httpClassifier, err := inference.LoadClassifier(ctx, cfg.Model.Path, cfg.Model.ServerURL, cfg.Model.StatusURL, cfg.Model.Timeout)
	if err != nil {
		logger.Warn("model not loaded, classification disabled", "model_path", cfg.Model.Path, "error", err)
	} else {
		classifier = httpClassifier
	}

	adapter := inference.NewAdapter(classifier, labels)
	logger.Info("inference initialized", "available", adapter.Available(), "labels", len(adapter.Labels()))
	return adapter
}

// newEventPublisher usa RabbitMQ quando AMQP_URL está definido; senão descarta os eventos
func newEventPublisher(cfg *config.Config, logger ports.Logger) (ports.EventPublisher, func() error) {
	if cfg.AMQP.URL == "" {
		return messaging.NoopPublisher{}, func() error { return nil }
	}

	publisher, err := messaging.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
	if err != nil {
		logger.Warn("rabbitmq unavailable, events disabled", "error", err)
		return messaging.NoopPublisher{}, func() error { return nil }
	}

	logger.Info("event publisher initialized", "exchange", cfg.AMQP.Exchange)
	return publisher, publisher.Close
}

// newRateLimiters usa Redis quando REDIS_URL está definido; senão limita em memória
func newRateLimiters(ctx context.Context, cfg *config.Config, logger ports.Logger) (login, predict ports.RateLimiter) {
	if cfg.Redis.URL != "" {
		client, err := ratelimit.NewRedisClient(ctx, cfg.Redis.URL)
		if err == nil {
			logger.Info("rate limiting with redis")
			return ratelimit.NewRedisLimiter(client, "login", cfg.RateLimit.LoginPerMinute, time.Minute),
				ratelimit.NewRedisLimiter(client, "predict", cfg.RateLimit.PredictPerMinute, time.Minute)
		}
		logger.Warn("redis unavailable, using in-memory rate limiting", "error", err)
	}

	return ratelimit.NewMemoryLimiter(cfg.RateLimit.LoginPerMinute, time.Minute),
		ratelimit.NewMemoryLimiter(cfg.RateLimit.PredictPerMinute, time.Minute)
}
