package auth

import (
	"errors"

	"gorm.io/gorm"

	"github.com/gokalpayaz/order-api/internal/types"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

func (d *Database) GetCustomerByUsername(username string) (*types.Customer, error) {
	var customer types.Customer
	if err := d.db.Where("username = ?", username).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

func (d *Database) GetCustomerByID(id uint) (*types.Customer, error) {
	var customer types.Customer
	if err := d.db.Where("id = ?", id).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}
