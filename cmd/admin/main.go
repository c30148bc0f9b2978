package main

import (
	"fmt"
	"os"

	"ethereal/backend/internal/auth"
	"ethereal/backend/internal/complaint"
	"ethereal/backend/internal/config"
	"ethereal/backend/internal/logging"
	"ethereal/backend/internal/storage"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	root := newRootCmd(openPostgres)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// openPostgres connects with the server's settings. No redis needed for admin CLI.
func openPostgres() (*app, error) {
	cfg := config.LoadDatabase()
	logger, err := logging.New(cfg.Development(), cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return newApp(db, logger), nil
}

func newApp(db *gorm.DB, logger *zap.Logger) *app {
	s := storage.NewStorageService(db, nil, logger)
	return &app{
		store:      s,
		auth:       auth.NewService(s, nil, "", logger),
		complaints: complaint.NewService(s, logger, ""),
		logger:     logger,
	}
}
