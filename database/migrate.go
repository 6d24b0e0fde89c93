package database

import (
	"fmt"

	"easybuk_backend/internal/config"
	"easybuk_backend/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var gormDB *gorm.DB

// ConnectGorm opens the configured database once and reuses the handle.
func ConnectGorm() (*gorm.DB, error) {
	if gormDB != nil {
		return gormDB, nil
	}

	cfg := config.GetConfig()

	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.Database.DSN)
	case "postgres", "":
		dialector = postgres.Open(cfg.Database.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	gormDB = db
	return db, nil
}

// AutoMigrate runs schema migration for every model.
func AutoMigrate() error {
	db, err := ConnectGorm()
	if err != nil {
		return err
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.ServiceProvider{},
		&models.Admin{},
		&models.Booking{},
		&models.PaymentTransaction{},
		&models.Dispute{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	return nil
}
