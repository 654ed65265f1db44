package main

import (
	"os"

	"infco/internal/config"
	"infco/internal/db"
	"infco/internal/logger"
	"infco/migrations"

	"go.uber.org/zap"
)

// Usage: migrate [up|down]. Defaults to up.
func main() {
	cfg := config.Load()
	log := logger.New(cfg)
	defer func() { _ = log.Sync() }()

	direction := db.Up
	if len(os.Args) > 1 {
		direction = db.Direction(os.Args[1])
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}
	defer database.Close()

	if err := db.Migrate(database.DB, migrations.FS, direction); err != nil {
		log.Fatal("migration failed", zap.String("direction", string(direction)), zap.Error(err))
	}
	log.Info("migrations applied", zap.String("direction", string(direction)))
}
