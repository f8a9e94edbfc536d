package repositories

import (
	"context"

	"github.com/google/uuid"
	"token-dashboard.backend/internal/domain/entities"
)

// TransactionRepository is the append-only transfer ledger
type TransactionRepository interface {
	Create(ctx context.Context, tx *entities.Transaction) error
	// ListByUserAndType returns at most limit rows, newest first
	ListByUserAndType(ctx context.Context, userID uuid.UUID, txType entities.TransactionType, limit int) ([]*entities.Transaction, error)
}
