package db

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/glocalvision/codebridge/pkg/config"
)

// Config holds database connection configuration
type Config struct {
	// URL is the database connection URL (defaults to the assembled
	// application DSN from the environment)
	URL string
}

// Connect establishes a database connection.
// If no URL is provided, it is assembled from DB_USER/PASSWD/DB_NAME/HOST/PORT.
func Connect(cfg Config) (*gorm.DB, error) {
	dbURL := cfg.URL
	if dbURL == "" {
		appCfg := config.Get()
		if err := appCfg.ValidateDatabase(); err != nil {
			return nil, err
		}
		dbURL = appCfg.DatabaseURL()
	}

	// Default to silent logging unless BRIDGE_LOG_LEVEL=debug is set
	logMode := logger.Silent
	if os.Getenv("BRIDGE_LOG_LEVEL") == "debug" {
		logMode = logger.Info
	}

	db, err := gorm.Open(
		postgres.New(postgres.Config{
			DSN:                  dbURL,
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logMode),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// URL returns the application database URL assembled from the environment.
func URL() string {
	return config.Get().DatabaseURL()
}
