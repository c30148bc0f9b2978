package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ethereal/backend/internal/api/handler"
	"ethereal/backend/internal/api/middleware"
	"ethereal/backend/internal/auth"
	"ethereal/backend/internal/authhub"
	"ethereal/backend/internal/complaint"
	"ethereal/backend/internal/config"
	"ethereal/backend/internal/localization"
	"ethereal/backend/internal/logging"
	"ethereal/backend/internal/storage"
	"ethereal/backend/internal/telegram"
	"ethereal/backend/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		logger.Fatal("failed to connect PostgreSQL", zap.Error(err))
	}

	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set: sessions are not revocable and auth events stay in-process")
		return db, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable, continuing without it", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		_ = rdb.Close()
		return db, nil
	}
	return db, rdb
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger config depends on cfg, so this one goes to stderr directly
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Development(), cfg.LogLevel)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting Ethereal Nexus backend", zap.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, rdb := setupDependencies(ctx, cfg, logger)
	s := storage.NewStorageService(db, rdb, logger)
	if err := s.Migrate(); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	logger.Info("database ready, migrations complete", zap.Bool("redis", rdb != nil))

	hub := authhub.NewManagerService(s, logger)
	go hub.Run(ctx)

	authService := auth.NewService(s, hub, cfg.JWTSecret, logger)
	complaints := complaint.NewService(s, logger, cfg.PseudonymSalt)

	localizer, err := localization.Default()
	if err != nil {
		logger.Fatal("failed to load locales", zap.Error(err))
	}
	templates, err := web.Templates()
	if err != nil {
		logger.Fatal("failed to parse templates", zap.Error(err))
	}

	if cfg.TelegramBotToken != "" {
		bot, err := telegram.NewBotService(cfg.TelegramBotToken, complaints, localizer, logger)
		if err != nil {
			logger.Error("telegram bot disabled", zap.Error(err))
		} else {
			go bot.Run(ctx)
		}
	} else {
		logger.Info("TELEGRAM_BOT_TOKEN not set, tracking bot disabled")
	}

	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}

	h := handler.NewHandler(complaints, authService, hub, s, localizer, templates, logger)
	h.SecureCookies = !cfg.Development()
	r := handler.NewRouter(h, handler.RouterOptions{
		Limiter:        middleware.NewRedisLimiter(rdb, config.TrackRateWindow, logger),
		TrackRateLimit: cfg.TrackRateLimit,
	})

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	<-hub.Done()
	if rdb != nil {
		_ = rdb.Close()
	}
}
