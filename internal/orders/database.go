package orders

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/gokalpayaz/order-api/internal/types"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

// Transaction runs fn inside a single database transaction. Every asset
// mutation and order write of one lifecycle operation goes through this so
// a failure partway leaves no partial state.
func (d *Database) Transaction(fn func(tx *gorm.DB) error) error {
	return d.db.Transaction(fn)
}

func (d *Database) CreateOrder(order *types.Order) error {
	return d.db.Create(order).Error
}

func (d *Database) SaveOrder(order *types.Order) error {
	return d.db.Save(order).Error
}

// GetPendingOrderByID looks up a PENDING order by id. A canceled or matched
// order is indistinguishable from a missing one: both return nil.
func (d *Database) GetPendingOrderByID(orderID uint) (*types.Order, error) {
	var order types.Order
	if err := d.db.Where("id = ? AND status = ?", orderID, types.StatusPending).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetOrdersByCustomerAndRange returns the customer's orders with created_at
// inside [start, end], ascending by creation time.
func (d *Database) GetOrdersByCustomerAndRange(customerID uint, start, end time.Time) ([]types.Order, error) {
	var orders []types.Order
	err := d.db.
		Where("customer_id = ? AND created_at >= ? AND created_at <= ?", customerID, start, end).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
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
