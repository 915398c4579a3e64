package assets

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

func (d *Database) GetAssetByCustomerAndName(customerID uint, name string) (*types.Asset, error) {
	var asset types.Asset
	if err := d.db.Where("customer_id = ? AND name = ?", customerID, name).First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &asset, nil
}

func (d *Database) CreateAsset(asset *types.Asset) error {
	return d.db.Create(asset).Error
}

func (d *Database) SaveAsset(asset *types.Asset) error {
	return d.db.Save(asset).Error
}

func (d *Database) ListAssetsByCustomer(customerID uint) ([]types.Asset, error) {
	var assets []types.Asset
	if err := d.db.Where("customer_id = ?", customerID).Order("name ASC").Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
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
