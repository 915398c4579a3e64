package assets

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gokalpayaz/order-api/internal/types"
	"github.com/gokalpayaz/order-api/pkg/apperrors"
)

// Ledger applies the reservation and settlement mutations to a customer's
// asset quantity pairs. Callers run it against a transaction handle so that
// every mutation of one order operation commits or rolls back together.
type Ledger struct {
	db *Database
}

// NewLedger creates a ledger bound to the given (usually transactional)
// database handle.
func NewLedger(gormDB *gorm.DB) *Ledger {
	return &Ledger{db: NewDatabase(gormDB)}
}

// Find returns the customer's asset for the symbol, or nil when absent.
func (l *Ledger) Find(customerID uint, name string) (*types.Asset, error) {
	return l.db.GetAssetByCustomerAndName(customerID, name)
}

// MustFind returns the customer's asset for the symbol, failing with a
// not-found error when it does not exist. Used for the reserve currency,
// which provisioning guarantees for every customer.
func (l *Ledger) MustFind(customerID uint, name string) (*types.Asset, error) {
	asset, err := l.db.GetAssetByCustomerAndName(customerID, name)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, apperrors.NotFound(name + " asset was not found for the customer")
	}
	return asset, nil
}

// GetOrCreate returns the customer's asset for the symbol, creating and
// persisting a zero-balance one when the customer acquires a new symbol.
func (l *Ledger) GetOrCreate(customerID uint, name string) (*types.Asset, error) {
	asset, err := l.db.GetAssetByCustomerAndName(customerID, name)
	if err != nil {
		return nil, err
	}
	if asset != nil {
		return asset, nil
	}

	asset = &types.Asset{
		CustomerID: customerID,
		Name:       name,
		Size:       decimal.Zero,
		UsableSize: decimal.Zero,
	}
	if err := l.db.CreateAsset(asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// Reserve moves amount out of the asset's usable size to back a pending
// order. Size is untouched until settlement.
func (l *Ledger) Reserve(asset *types.Asset, amount decimal.Decimal) error {
	if asset.UsableSize.LessThan(amount) {
		return apperrors.ErrInsufficientBalance
	}
	asset.UsableSize = asset.UsableSize.Sub(amount)
	return l.db.SaveAsset(asset)
}

// Release returns a previously reserved amount to the asset's usable size
// without touching size. Used on cancellation.
func (l *Ledger) Release(asset *types.Asset, amount decimal.Decimal) error {
	asset.UsableSize = asset.UsableSize.Add(amount)
	return l.db.SaveAsset(asset)
}

// SettleBuy finalizes a matched buy: the reserved cost leaves the reserve
// asset's size, and the purchased quantity is granted as immediately usable.
func (l *Ledger) SettleBuy(target, reserve *types.Asset, quantity, cost decimal.Decimal) error {
	reserve.Size = reserve.Size.Sub(cost)
	if err := l.db.SaveAsset(reserve); err != nil {
		return err
	}

	target.Size = target.Size.Add(quantity)
	target.UsableSize = target.UsableSize.Add(quantity)
	return l.db.SaveAsset(target)
}

// SettleSell finalizes a matched sell: the reserved quantity leaves the
// target asset's size (its usable size was reduced at reservation time),
// and the proceeds are granted to the reserve asset as immediately usable.
func (l *Ledger) SettleSell(target, reserve *types.Asset, quantity, proceeds decimal.Decimal) error {
	target.Size = target.Size.Sub(quantity)
	if err := l.db.SaveAsset(target); err != nil {
		return err
	}

	reserve.Size = reserve.Size.Add(proceeds)
	reserve.UsableSize = reserve.UsableSize.Add(proceeds)
	return l.db.SaveAsset(reserve)
}
