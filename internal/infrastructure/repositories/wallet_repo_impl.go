package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"token-dashboard.backend/internal/domain/entities"
	domainerrors "token-dashboard.backend/internal/domain/errors"
	"token-dashboard.backend/internal/infrastructure/models"
)

// CustodyWalletRepository implements custody wallet data operations
type CustodyWalletRepository struct {
	db *gorm.DB
}

// NewCustodyWalletRepository creates a new custody wallet repository
func NewCustodyWalletRepository(db *gorm.DB) *CustodyWalletRepository {
	return &CustodyWalletRepository{db: db}
}

// Create creates a new custody wallet
func (r *CustodyWalletRepository) Create(ctx context.Context, wallet *entities.CustodyWallet) error {
	m := &models.CustodyWallet{
		ID:         wallet.ID,
		UserID:     wallet.UserID,
		Address:    wallet.Address,
		PrivateKey: wallet.PrivateKey,
		CreatedAt:  wallet.CreatedAt,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

// GetByID gets a custody wallet by ID
func (r *CustodyWalletRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.CustodyWallet, error) {
	var m models.CustodyWallet
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// ListByUserID lists a user's wallets, newest first. Ids are UUIDv7, so they break created_at ties.
func (r *CustodyWalletRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.CustodyWallet, error) {
	var ms []models.CustodyWallet
	if err := GetDB(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	wallets := make([]*entities.CustodyWallet, 0, len(ms))
	for i := range ms {
		wallets = append(wallets, r.toEntity(&ms[i]))
	}
	return wallets, nil
}

// Delete hard deletes a custody wallet
func (r *CustodyWalletRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Delete(&models.CustodyWallet{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *CustodyWalletRepository) toEntity(m *models.CustodyWallet) *entities.CustodyWallet {
	return &entities.CustodyWallet{
		ID:         m.ID,
		UserID:     m.UserID,
		Address:    m.Address,
		PrivateKey: m.PrivateKey,
		CreatedAt:  m.CreatedAt,
	}
}
