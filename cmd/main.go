package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shenikar/civicflow/internal/chatbot"
	"github.com/shenikar/civicflow/internal/config"
	v1 "github.com/shenikar/civicflow/internal/handler/http/v1"
	"github.com/shenikar/civicflow/internal/notify"
	"github.com/shenikar/civicflow/internal/repository"
	"github.com/shenikar/civicflow/internal/service"
	"github.com/shenikar/civicflow/pkg/logger"
	"github.com/shenikar/civicflow/pkg/postgres"
	redisclient "github.com/shenikar/civicflow/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/civicflow/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title CivicFlow API
// @version 1.0
// @description Municipal complaint intake, status tracking and notification API.
// @host localhost:5000
// @BasePath /api

// newNotifier выбирает транспорт писем по NOTIFIER
func newNotifier(ctx context.Context, cfg *config.Config, log *logrus.Logger) (notify.Notifier, error) {
	switch cfg.Notifier {
	case config.NotifierSES:
		return notify.NewSESNotifier(ctx, cfg.AWSRegion, cfg.SESFrom)
	case config.NotifierLog:
		log.Warn("NOTIFIER=log: status emails are written to the log instead of being sent")
		return notify.NewLogNotifier(log), nil
	default:
		return notify.NewSMTPNotifier(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			UseTLS:   cfg.SMTPUseTLS,
		}), nil
	}
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запуск миграций
	log.Info("Running database migrations...")
	if err := postgres.Migrate(cfg.MigrationsPath, cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}
	log.Info("Database migrations applied successfully")

	// Подключение к PostgreSQL
	dbpool, err := postgres.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbpool.Close()
	log.Info("Successfully connected to PostgreSQL")

	// Транспорт писем
	notifier, err := newNotifier(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize notifier: %v", err)
	}

	// Очередь уведомлений нужна только в режиме async
	var (
		publisher notify.Publisher
		worker    *notify.Worker
	)
	if cfg.NotifyMode == config.NotifyModeAsync {
		redisClient, err := redisclient.NewRedisClient(ctx, redisclient.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Info("Successfully connected to Redis")

		publisher = notify.NewRedisPublisher(redisClient)
		worker = notify.NewWorker(redisClient, notifier, log, cfg.NotifyTimeout)
		worker.Start(ctx)
	}

	// Инициализация репозиториев
	complaintRepo := repository.NewComplaintRepository(dbpool)

	// Инициализация сервисов
	complaintService, err := service.NewComplaintService(complaintRepo, notifier, publisher, log, service.Options{
		NotifyMode:    cfg.NotifyMode,
		NotifyTimeout: cfg.NotifyTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to initialize complaint service: %v", err)
	}
	log.WithField("notify_mode", cfg.NotifyMode).WithField("notifier", cfg.Notifier).Info("Complaint service ready")

	// Инициализация хэндлеров
	handler := v1.NewHandler(complaintService, chatbot.New(complaintService, log), log, cfg)

	// Настройка Gin роутера
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		v1.RequestIDMiddleware(),
		v1.LoggingMiddleware(log),
		v1.MetricsMiddleware(),
		v1.CORSMiddleware(cfg.AllowedOrigins),
	)
	router.MaxMultipartMemory = cfg.MaxUploadBytes()

	api := router.Group("/api")
	handler.RegisterRoutes(api)

	// Фото обращений, метрики и Swagger UI
	router.Static(v1.UploadsRoute, cfg.UploadDir)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	// Останавливаем воркер после сервера, чтобы не потерять письма последних запросов
	cancel()
	if worker != nil {
		worker.Wait()
	}

	log.Info("Server gracefully stopped")
}
