package database

import (
	"fmt"

	"chatline_backend/internal/config"
	"chatline_backend/internal/models"
	chatmodels "chatline_backend/internal/models/chat"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var gormDB *gorm.DB

// ConnectGorm opens (or reuses) the GORM connection using the configured DSN.
func ConnectGorm() (*gorm.DB, error) {
	if gormDB != nil {
		return gormDB, nil
	}

	cfg := config.GetConfig()
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	gormDB = db
	return db, nil
}

// Migrate applies the schema to the given handle. AutoMigrate is
// additive, so running it on every boot is safe.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Upload{},
		&chatmodels.ChatRoom{},
		&chatmodels.GroupParticipant{},
		&chatmodels.Message{},
		&chatmodels.MessageStatus{},
		&chatmodels.ChatRequest{},
	)
}

// AutoMigrate connects with the configured DSN and applies the schema.
func AutoMigrate() error {
	db, err := ConnectGorm()
	if err != nil {
		return err
	}
	return Migrate(db)
}
