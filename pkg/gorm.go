package pkg

import (
	"fmt"

	"github.com/SAP-F-2025/learning-trails-service/internal/config"
	"github.com/SAP-F-2025/learning-trails-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDatabase connects to PostgreSQL and migrates the learning schema
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Info
	if cfg.IsProduction() {
		logLevel = logger.Error
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates every table the service owns
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Trail{},
		&models.Module{},
		&models.Quiz{},
		&models.Question{},
		&models.ContentItem{},
		&models.Class{},
		&models.ClassStudent{},
		&models.UserProgress{},
		&models.QuizAttempt{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
