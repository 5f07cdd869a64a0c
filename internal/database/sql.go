package database

import (
	"fmt"

	"api/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func InitDB(config models.DatabaseConfiguration) *gorm.DB {
	var db *gorm.DB
	var err error

	switch config.Type {
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(config.Name), &gorm.Config{})
	default:
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
			config.Host, config.User, config.Password, config.Name, config.Port, sslMode(config),
		)
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	if err != nil {
		zap.L().Fatal("Failed to connect to database", zap.Error(err))
	}

	if err = db.AutoMigrate(&models.User{}); err != nil {
		zap.L().Fatal("Failed to run migrations", zap.Error(err))
	}

	return db
}

func sslMode(config models.DatabaseConfiguration) string {
	if config.SSLMode == "" {
		return "disable"
	}
	return config.SSLMode
}
