package assets

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gokalpayaz/order-api/internal/types"
	"github.com/gokalpayaz/order-api/pkg/apperrors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.AutoMigrate(&types.Customer{}, &types.Asset{}, &types.Order{}); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

func seedAsset(t *testing.T, db *gorm.DB, customerID uint, name string, size, usable int64) *types.Asset {
	t.Helper()

	asset := &types.Asset{
		CustomerID: customerID,
		Name:       name,
		Size:       decimal.NewFromInt(size),
		UsableSize: decimal.NewFromInt(usable),
	}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("seed asset: %v", err)
	}
	return asset
}

func reloadAsset(t *testing.T, db *gorm.DB, id uint) *types.Asset {
	t.Helper()

	var asset types.Asset
	if err := db.First(&asset, id).Error; err != nil {
		t.Fatalf("reload asset: %v", err)
	}
	return &asset
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want int64) {
	t.Helper()
	if !got.Equal(decimal.NewFromInt(want)) {
		t.Errorf("%s = %s, want %d", name, got, want)
	}
}

func assertInvariant(t *testing.T, a *types.Asset) {
	t.Helper()
	if a.UsableSize.IsNegative() || a.UsableSize.GreaterThan(a.Size) {
		t.Errorf("invariant violated for %s: usable=%s size=%s", a.Name, a.UsableSize, a.Size)
	}
}

func TestGetOrCreate(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)

	created, err := ledger.GetOrCreate(1, "AAPL")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if !created.Size.IsZero() || !created.UsableSize.IsZero() {
		t.Errorf("new asset should start at zero, got size=%s usable=%s", created.Size, created.UsableSize)
	}

	again, err := ledger.GetOrCreate(1, "AAPL")
	if err != nil {
		t.Fatalf("GetOrCreate second call: %v", err)
	}
	if again.ID != created.ID {
		t.Errorf("GetOrCreate returned a different asset: %d vs %d", again.ID, created.ID)
	}
}

func TestMustFindMissing(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)

	_, err := ledger.MustFind(1, types.ReserveCurrency)
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("MustFind on missing asset: got %v, want ErrNotFound", err)
	}
}

func TestReserveAndRelease(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	asset := seedAsset(t, db, 1, types.ReserveCurrency, 1000, 1000)

	if err := ledger.Reserve(asset, decimal.NewFromInt(300)); err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	stored := reloadAsset(t, db, asset.ID)
	assertDecimal(t, "usable after reserve", stored.UsableSize, 700)
	assertDecimal(t, "size after reserve", stored.Size, 1000)
	assertInvariant(t, stored)

	if err := ledger.Release(stored, decimal.NewFromInt(300)); err != nil {
		t.Fatalf("Release: %v", err)
	}

	stored = reloadAsset(t, db, asset.ID)
	assertDecimal(t, "usable after release", stored.UsableSize, 1000)
	assertDecimal(t, "size after release", stored.Size, 1000)
	assertInvariant(t, stored)
}

func TestReserveInsufficient(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	asset := seedAsset(t, db, 1, types.ReserveCurrency, 1000, 100)

	err := ledger.Reserve(asset, decimal.NewFromInt(101))
	if !errors.Is(err, apperrors.ErrInsufficientBalance) {
		t.Fatalf("Reserve over usable: got %v, want ErrInsufficientBalance", err)
	}

	stored := reloadAsset(t, db, asset.ID)
	assertDecimal(t, "usable after failed reserve", stored.UsableSize, 100)
	assertDecimal(t, "size after failed reserve", stored.Size, 1000)
}

func TestSettleBuy(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	// 50 already reserved for the pending buy
	reserve := seedAsset(t, db, 1, types.ReserveCurrency, 1000, 950)
	target := seedAsset(t, db, 1, "AAPL", 0, 0)

	if err := ledger.SettleBuy(target, reserve, decimal.NewFromInt(10), decimal.NewFromInt(50)); err != nil {
		t.Fatalf("SettleBuy: %v", err)
	}

	reserve = reloadAsset(t, db, reserve.ID)
	target = reloadAsset(t, db, target.ID)
	assertDecimal(t, "reserve size", reserve.Size, 950)
	assertDecimal(t, "reserve usable", reserve.UsableSize, 950)
	assertDecimal(t, "target size", target.Size, 10)
	assertDecimal(t, "target usable", target.UsableSize, 10)
	assertInvariant(t, reserve)
	assertInvariant(t, target)
}

func TestSettleSell(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	reserve := seedAsset(t, db, 1, types.ReserveCurrency, 1000, 1000)
	// 10 already reserved for the pending sell
	target := seedAsset(t, db, 1, "AAPL", 100, 90)

	if err := ledger.SettleSell(target, reserve, decimal.NewFromInt(10), decimal.NewFromInt(50)); err != nil {
		t.Fatalf("SettleSell: %v", err)
	}

	reserve = reloadAsset(t, db, reserve.ID)
	target = reloadAsset(t, db, target.ID)
	assertDecimal(t, "target size", target.Size, 90)
	assertDecimal(t, "target usable", target.UsableSize, 90)
	assertDecimal(t, "reserve size", reserve.Size, 1050)
	assertDecimal(t, "reserve usable", reserve.UsableSize, 1050)
	assertInvariant(t, reserve)
	assertInvariant(t, target)
}

func TestListAssetsByCustomer(t *testing.T) {
	db := newTestDB(t)
	service := NewService(db)
	seedAsset(t, db, 1, types.ReserveCurrency, 1000, 1000)
	seedAsset(t, db, 1, "AAPL", 5, 5)
	seedAsset(t, db, 2, "AAPL", 7, 7)

	listed, err := service.ListAssets(1)
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("ListAssets returned %d assets, want 2", len(listed))
	}
	// Ordered by symbol
	if listed[0].Name != "AAPL" || listed[1].Name != types.ReserveCurrency {
		t.Errorf("unexpected asset order: %s, %s", listed[0].Name, listed[1].Name)
	}
}
