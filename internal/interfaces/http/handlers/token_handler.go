package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"token-dashboard.backend/internal/domain/entities"
	domainerrors "token-dashboard.backend/internal/domain/errors"
	"token-dashboard.backend/internal/interfaces/http/response"
)

type tokenService interface {
	Balance(ctx context.Context, address string) (*entities.TokenBalance, error)
	TreasuryBalance(ctx context.Context) (*entities.TokenBalance, error)
}

type tokenTransferService interface {
	SendFromTreasury(ctx context.Context, userID uuid.UUID, input *entities.SendTokenInput) (*entities.TransferResult, error)
	RecordUserTransfer(ctx context.Context, userID uuid.UUID, input *entities.RecordUserTransferInput) (*entities.Transaction, error)
}

// TokenHandler handles token balance and transfer endpoints
type TokenHandler struct {
	tokenUsecase    tokenService
	transferUsecase tokenTransferService
}

// NewTokenHandler creates a new token handler
func NewTokenHandler(tokenUsecase tokenService, transferUsecase tokenTransferService) *TokenHandler {
	return &TokenHandler{
		tokenUsecase:    tokenUsecase,
		transferUsecase: transferUsecase,
	}
}

// Balance reads the token balance of ?address=
// GET /api/token/balance
func (h *TokenHandler) Balance(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	balance, err := h.tokenUsecase.Balance(c.Request.Context(), c.Query("address"))
	if err != nil {
		fail(c, err, "Failed to check balance")
		return
	}

	response.Success(c, http.StatusOK, balance)
}

// Treasury reads the admin wallet balance
// GET /api/token/treasury
func (h *TokenHandler) Treasury(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	balance, err := h.tokenUsecase.TreasuryBalance(c.Request.Context())
	if err != nil {
		fail(c, err, "Failed to check balance")
		return
	}

	response.Success(c, http.StatusOK, balance)
}

// Send transfers tokens from the treasury
// POST /api/token/send
func (h *TokenHandler) Send(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var input entities.SendTokenInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(invalidBody))
		return
	}

	result, err := h.transferUsecase.SendFromTreasury(c.Request.Context(), userID, &input)
	if err != nil {
		fail(c, err, "Failed to send tokens")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":     "Tokens sent successfully",
		"txHash":      result.TxHash,
		"explorerUrl": result.ExplorerURL,
	})
}

// SendUser records a transfer signed by the user's browser wallet
// POST /api/token/send-user
func (h *TokenHandler) SendUser(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var input entities.RecordUserTransferInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(invalidBody))
		return
	}

	row, err := h.transferUsecase.RecordUserTransfer(c.Request.Context(), userID, &input)
	if err != nil {
		fail(c, err, "Failed to process transaction")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Transaction logged successfully",
		"txHash":  row.TxHash,
	})
}
