package database

import (
	"fmt"
	"log"

	"chronicles/backend/internal/logger"
	"chronicles/backend/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	DB      *gorm.DB
	Manager *TxManager
)

// Connect initializes the database connection and runs migrations.
func Connect(driver, dsn string) {
	var err error

	DB, err = Open(driver, dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	logger.Log.WithField("driver", driver).Info("Database connection established.")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	logger.Log.Info("Database migrated successfully.")

	Manager = NewTxManager(DB)
}

// Open opens a GORM handle for the given driver name (postgres, mysql or sqlite).
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite", "":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	return gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Gorm(logger.Log),
		TranslateError: true,
	})
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Post{}, &models.Follow{})
}
