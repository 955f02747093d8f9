package database

import (
	"fmt"

	"github.com/MaggieNush/milk-bar/internal/model"
	"github.com/MaggieNush/milk-bar/pkg/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

// InitDB initializes the database connection with configuration and runs migrations
func InitDB(cfg *config.Config) error {
	logLevel := logger.Error
	if cfg.Server.Env == "development" {
		logLevel = logger.Info
	}

	pgConfig := postgres.Config{
		DSN:                  cfg.Database.GetDSN(),
		PreferSimpleProtocol: true, // Disables implicit prepared statement usage
	}

	var err error
	db, err = gorm.Open(postgres.New(pgConfig), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	// Set connection pool settings from config
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// Run migrations
	if err := db.AutoMigrate(
		&model.Product{},
		&model.Client{},
		&model.Supplier{},
		&model.Delivery{},
		&model.Sale{},
		&model.SaleItem{},
	); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return db
}
