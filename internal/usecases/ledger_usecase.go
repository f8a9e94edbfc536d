package usecases

import (
	"context"

	"github.com/google/uuid"
	"token-dashboard.backend/internal/domain/entities"
	domainerrors "token-dashboard.backend/internal/domain/errors"
	"token-dashboard.backend/internal/domain/repositories"
)

// HistoryLimit caps every history response
const HistoryLimit = 50

// LedgerUsecase reads recorded transfers
type LedgerUsecase struct {
	txRepo repositories.TransactionRepository
}

// NewLedgerUsecase creates a new ledger usecase
func NewLedgerUsecase(txRepo repositories.TransactionRepository) *LedgerUsecase {
	return &LedgerUsecase{txRepo: txRepo}
}

// History returns the newest rows of one type for the user
func (u *LedgerUsecase) History(ctx context.Context, userID uuid.UUID, txType entities.TransactionType) ([]*entities.Transaction, error) {
	if !txType.Valid() {
		return nil, domainerrors.BadRequest("Invalid transaction type")
	}
	txs, err := u.txRepo.ListByUserAndType(ctx, userID, txType, HistoryLimit)
	if err != nil {
		return nil, err
	}
	if len(txs) > HistoryLimit {
		txs = txs[:HistoryLimit]
	}
	return txs, nil
}
