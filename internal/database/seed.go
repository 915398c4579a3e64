package database

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gokalpayaz/order-api/internal/types"
)

// Seed provisions sample accounts into an empty database: an admin, a user
// with a funded reserve-currency asset and an AAPL holding, and one
// historical matched order. Does nothing when customers already exist.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&types.Customer{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	adminPassword, err := bcrypt.GenerateFromPassword([]byte("adminPassword"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user1Password, err := bcrypt.GenerateFromPassword([]byte("user1password"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		admin := &types.Customer{
			Username: "admin",
			Password: string(adminPassword),
			Role:     types.RoleAdmin,
		}
		user1 := &types.Customer{
			Username: "user1",
			Password: string(user1Password),
			Role:     types.RoleUser,
		}
		if err := tx.Create(admin).Error; err != nil {
			return err
		}
		if err := tx.Create(user1).Error; err != nil {
			return err
		}

		tryAsset := &types.Asset{
			CustomerID: user1.ID,
			Name:       types.ReserveCurrency,
			Size:       decimal.NewFromInt(1000),
			UsableSize: decimal.NewFromInt(1000),
		}
		appleAsset := &types.Asset{
			CustomerID: user1.ID,
			Name:       "AAPL",
			Size:       decimal.RequireFromString("3.21"),
			UsableSize: decimal.RequireFromString("3.21"),
		}
		if err := tx.Create(tryAsset).Error; err != nil {
			return err
		}
		if err := tx.Create(appleAsset).Error; err != nil {
			return err
		}

		buyOrder := &types.Order{
			CustomerID: user1.ID,
			AssetID:    appleAsset.ID,
			AssetName:  appleAsset.Name,
			Side:       types.SideBuy,
			Size:       decimal.RequireFromString("3.21"),
			Price:      decimal.NewFromInt(250),
			Status:     types.StatusMatched,
			CreatedAt:  time.Now().Add(-5 * 24 * time.Hour),
		}
		if err := tx.Create(buyOrder).Error; err != nil {
			return err
		}

		log.Info().Msg("sample data seeded")
		return nil
	})
}
