package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"token-dashboard.backend/internal/domain/entities"
	"token-dashboard.backend/internal/infrastructure/models"
)

// TransactionRepository implements the transfer ledger
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create appends a ledger row
func (r *TransactionRepository) Create(ctx context.Context, tx *entities.Transaction) error {
	m := &models.Transaction{
		ID:          tx.ID,
		FromAddress: tx.From,
		ToAddress:   tx.To,
		Amount:      tx.Amount,
		TxHash:      tx.TxHash,
		Status:      string(tx.Status),
		Type:        string(tx.Type),
		UserID:      tx.UserID,
		CreatedAt:   tx.CreatedAt,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

// ListByUserAndType returns the newest rows of one type for a user
func (r *TransactionRepository) ListByUserAndType(ctx context.Context, userID uuid.UUID, txType entities.TransactionType, limit int) ([]*entities.Transaction, error) {
	var ms []models.Transaction
	query := GetDB(ctx, r.db).
		Where("user_id = ? AND type = ?", userID, string(txType)).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}

	txs := make([]*entities.Transaction, 0, len(ms))
	for i := range ms {
		txs = append(txs, r.toEntity(&ms[i]))
	}
	return txs, nil
}

func (r *TransactionRepository) toEntity(m *models.Transaction) *entities.Transaction {
	return &entities.Transaction{
		ID:        m.ID,
		From:      m.FromAddress,
		To:        m.ToAddress,
		Amount:    m.Amount,
		TxHash:    m.TxHash,
		Status:    entities.TransactionStatus(m.Status),
		Type:      entities.TransactionType(m.Type),
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
	}
}
