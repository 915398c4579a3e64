package orders

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gokalpayaz/order-api/internal/assets"
	"github.com/gokalpayaz/order-api/internal/types"
	"github.com/gokalpayaz/order-api/pkg/apperrors"
)

// Service drives the order lifecycle: PENDING at creation, then exactly one
// transition to CANCELED or MATCHED. Each operation applies its asset ledger
// mutations and the order write in one transaction.
type Service struct {
	db *Database
}

// NewService creates a new order service with the given database connection
func NewService(gormDB *gorm.DB) *Service {
	return &Service{
		db: NewDatabase(gormDB),
	}
}

// Create places a new order for the customer. A BUY reserves price*size of
// the reserve currency and lazily creates the target asset; a SELL reserves
// the traded quantity against the customer's existing holding. The order is
// persisted as PENDING.
func (s *Service) Create(customerID uint, assetName string, side types.OrderSide, size, price decimal.Decimal) (*types.Order, error) {
	var created *types.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		txDB := NewDatabase(tx)
		ledger := assets.NewLedger(tx)

		deposit, err := ledger.MustFind(customerID, types.ReserveCurrency)
		if err != nil {
			return err
		}

		var target *types.Asset

		switch side {
		case types.SideBuy:
			cost := price.Mul(size)
			if deposit.UsableSize.LessThan(cost) {
				return apperrors.InsufficientBalance("Insufficient TRY funds to place the order")
			}
			if err := ledger.Reserve(deposit, cost); err != nil {
				return err
			}
			target, err = ledger.GetOrCreate(customerID, assetName)
			if err != nil {
				return err
			}

		case types.SideSell:
			target, err = ledger.Find(customerID, assetName)
			if err != nil {
				return err
			}
			if target == nil {
				return apperrors.NotFound("Insufficient stocks to place the order")
			}
			if target.Size.LessThan(size) {
				return apperrors.InsufficientBalance("Insufficient stocks to place the order")
			}
			// Reserve enforces the usable-size bound on top of the size
			// check above, so pending sells can never over-commit stock.
			if err := ledger.Reserve(target, size); err != nil {
				return apperrors.InsufficientBalance("Insufficient stocks to place the order")
			}

		default:
			return apperrors.InvalidArgument("Invalid Order Side")
		}

		order := &types.Order{
			CustomerID: customerID,
			AssetID:    target.ID,
			AssetName:  target.Name,
			Side:       side,
			Size:       size,
			Price:      price,
			Status:     types.StatusPending,
			CreatedAt:  time.Now(),
		}
		if err := txDB.CreateOrder(order); err != nil {
			return err
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Uint("order_id", created.ID).
		Uint("customer_id", created.CustomerID).
		Str("side", string(created.Side)).
		Str("asset", created.AssetName).
		Str("size", created.Size.String()).
		Str("price", created.Price.String()).
		Msg("order created")

	return created, nil
}

// Cancel transitions a PENDING order to CANCELED and returns the reserved
// funds (BUY) or stock (SELL) to the owner's usable balance.
func (s *Service) Cancel(orderID uint) (*types.Order, error) {
	var canceled *types.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		txDB := NewDatabase(tx)
		ledger := assets.NewLedger(tx)

		order, err := txDB.GetPendingOrderByID(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperrors.NotFound("No eligible order found")
		}

		deposit, err := ledger.MustFind(order.CustomerID, types.ReserveCurrency)
		if err != nil {
			return err
		}

		if order.Side == types.SideBuy {
			if err := ledger.Release(deposit, order.Size.Mul(order.Price)); err != nil {
				return err
			}
		} else {
			target, err := ledger.MustFind(order.CustomerID, order.AssetName)
			if err != nil {
				return err
			}
			if err := ledger.Release(target, order.Size); err != nil {
				return err
			}
		}

		order.Status = types.StatusCanceled
		if err := txDB.SaveOrder(order); err != nil {
			return err
		}

		canceled = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Uint("order_id", canceled.ID).
		Str("side", string(canceled.Side)).
		Str("asset", canceled.AssetName).
		Msg("order canceled")

	return canceled, nil
}

// Match transitions a PENDING order to MATCHED and settles the reservation:
// a BUY finalizes the reserve-currency spend and grants the purchased
// quantity, a SELL finalizes the stock disposal and grants the proceeds.
func (s *Service) Match(orderID uint) (*types.Order, error) {
	var matched *types.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		txDB := NewDatabase(tx)
		ledger := assets.NewLedger(tx)

		order, err := txDB.GetPendingOrderByID(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperrors.NotFound("No eligible order found")
		}

		deposit, err := ledger.MustFind(order.CustomerID, types.ReserveCurrency)
		if err != nil {
			return err
		}
		target, err := ledger.MustFind(order.CustomerID, order.AssetName)
		if err != nil {
			return err
		}

		value := order.Size.Mul(order.Price)

		if order.Side == types.SideBuy {
			if err := ledger.SettleBuy(target, deposit, order.Size, value); err != nil {
				return err
			}
		} else {
			if err := ledger.SettleSell(target, deposit, order.Size, value); err != nil {
				return err
			}
		}

		order.Status = types.StatusMatched
		if err := txDB.SaveOrder(order); err != nil {
			return err
		}

		matched = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Uint("order_id", matched.ID).
		Str("side", string(matched.Side)).
		Str("asset", matched.AssetName).
		Msg("order matched")

	return matched, nil
}

// List returns the customer's orders created inside [start, end], ascending
// by creation time.
func (s *Service) List(customerID uint, start, end time.Time) ([]types.Order, error) {
	if start.After(end) {
		return nil, apperrors.InvalidArgument("Start time must be before end time")
	}
	return s.db.GetOrdersByCustomerAndRange(customerID, start, end)
}

// GetPendingOrder looks up a PENDING order by id; returns nil when the
// order is missing or no longer pending. Used by the boundary layer to
// authorize cancellation against the order's owner.
func (s *Service) GetPendingOrder(orderID uint) (*types.Order, error) {
	return s.db.GetPendingOrderByID(orderID)
}

// GetCustomerByID resolves a customer by id; returns nil when absent.
func (s *Service) GetCustomerByID(id uint) (*types.Customer, error) {
	return s.db.GetCustomerByID(id)
}
