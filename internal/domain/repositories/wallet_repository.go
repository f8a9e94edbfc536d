package repositories

import (
	"context"

	"github.com/google/uuid"
	"token-dashboard.backend/internal/domain/entities"
)

// CustodyWalletRepository defines custody wallet data operations
type CustodyWalletRepository interface {
	Create(ctx context.Context, wallet *entities.CustodyWallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.CustodyWallet, error)
	// ListByUserID returns the user's wallets, newest first
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.CustodyWallet, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
