package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"token-dashboard.backend/internal/infrastructure/models"
)

// AutoMigrate creates or extends the users, custody_wallets and transactions tables.
// It never drops columns.
func AutoMigrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.CustodyWallet{},
		&models.Transaction{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
