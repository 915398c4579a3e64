package database

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gokalpayaz/order-api/internal/types"
)

// NewDatabase opens the sqlite database at path and migrates the schema
func NewDatabase(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&types.Customer{},
		&types.Asset{},
		&types.Order{},
	); err != nil {
		return nil, err
	}

	return db, nil
}
