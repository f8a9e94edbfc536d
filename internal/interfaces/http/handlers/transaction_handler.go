package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"token-dashboard.backend/internal/domain/entities"
	"token-dashboard.backend/internal/interfaces/http/response"
)

type ledgerService interface {
	History(ctx context.Context, userID uuid.UUID, txType entities.TransactionType) ([]*entities.Transaction, error)
}

// TransactionHandler serves ledger history
type TransactionHandler struct {
	ledgerUsecase ledgerService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(ledgerUsecase ledgerService) *TransactionHandler {
	return &TransactionHandler{ledgerUsecase: ledgerUsecase}
}

// History lists browser-signed transfers
// GET /api/transaction/history
func (h *TransactionHandler) History(c *gin.Context) {
	h.list(c, entities.TransactionTypeUser, "Failed to fetch user transactions")
}

// AdminHistory lists treasury transfers
// GET /api/transaction/admin-history
func (h *TransactionHandler) AdminHistory(c *gin.Context) {
	h.list(c, entities.TransactionTypeAdmin, "Failed to fetch admin transactions")
}

// CustodyHistory lists custody wallet transfers
// GET /api/transaction/custody-history
func (h *TransactionHandler) CustodyHistory(c *gin.Context) {
	h.list(c, entities.TransactionTypeCustody, "Failed to fetch custody transactions")
}

func (h *TransactionHandler) list(c *gin.Context, txType entities.TransactionType, fallback string) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	txs, err := h.ledgerUsecase.History(c.Request.Context(), userID, txType)
	if err != nil {
		fail(c, err, fallback)
		return
	}
	if txs == nil {
		txs = []*entities.Transaction{}
	}

	response.Success(c, http.StatusOK, gin.H{"transactions": txs})
}
