package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReserveCurrency is the asset symbol every order is priced and funded in.
// Each customer is provisioned with exactly one asset carrying this symbol.
const ReserveCurrency = "TRY"

type OrderSide string

const (
	SideBuy  OrderSide = "BUY"
	SideSell OrderSide = "SELL"
)

type OrderStatus string

const (
	StatusPending  OrderStatus = "PENDING"
	StatusCanceled OrderStatus = "CANCELED"
	StatusMatched  OrderStatus = "MATCHED"
)

// Customer roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Customer struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Username  string    `gorm:"uniqueIndex" json:"username"`
	Password  string    `json:"-"` // bcrypt hash
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// Asset holds a customer's quantity pair for one symbol. Size is what the
// customer owns; UsableSize excludes amounts reserved by pending orders,
// so 0 <= UsableSize <= Size must hold at all times.
type Asset struct {
	ID         uint            `gorm:"primarykey" json:"id"`
	CustomerID uint            `gorm:"index:idx_customer_asset,unique" json:"customer_id"`
	Name       string          `gorm:"index:idx_customer_asset,unique" json:"name"`
	Size       decimal.Decimal `gorm:"type:decimal(32,16)" json:"size"`
	UsableSize decimal.Decimal `gorm:"type:decimal(32,16)" json:"usable_size"`
	CreatedAt  time.Time       `json:"-"`
	UpdatedAt  time.Time       `json:"-"`
}

// Order is one buy or sell intent against the reserve currency. Size is the
// quantity of the traded (non-reserve) asset, Price the per-unit price in
// the reserve currency. PENDING is the sole initial status; CANCELED and
// MATCHED are terminal.
type Order struct {
	ID         uint            `gorm:"primarykey" json:"id"`
	CustomerID uint            `gorm:"index" json:"customer_id"`
	AssetID    uint            `json:"asset_id"`
	AssetName  string          `json:"asset_name"`
	Side       OrderSide       `json:"side"`
	Size       decimal.Decimal `gorm:"type:decimal(32,16)" json:"size"`
	Price      decimal.Decimal `gorm:"type:decimal(32,16)" json:"price"`
	Status     OrderStatus     `gorm:"index" json:"status"`
	CreatedAt  time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time       `json:"-"`
}
