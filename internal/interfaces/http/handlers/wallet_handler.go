package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"token-dashboard.backend/internal/domain/entities"
	domainerrors "token-dashboard.backend/internal/domain/errors"
	"token-dashboard.backend/internal/interfaces/http/response"
)

type custodyWalletService interface {
	Generate(ctx context.Context, userID uuid.UUID) (*entities.CustodyWallet, error)
	List(ctx context.Context, userID uuid.UUID, withBalance bool) ([]*entities.WalletSummary, error)
	Delete(ctx context.Context, caller *uuid.UUID, input *entities.DeleteWalletInput) error
	LinkConnectedWallet(ctx context.Context, userID uuid.UUID, address string) (*entities.User, error)
}

type walletTransferService interface {
	SendFromCustodyWallet(ctx context.Context, caller *uuid.UUID, input *entities.SendFromWalletInput) (*entities.TransferResult, error)
}

// WalletHandler handles custody wallet endpoints
type WalletHandler struct {
	walletUsecase   custodyWalletService
	transferUsecase walletTransferService
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(walletUsecase custodyWalletService, transferUsecase walletTransferService) *WalletHandler {
	return &WalletHandler{
		walletUsecase:   walletUsecase,
		transferUsecase: transferUsecase,
	}
}

// List returns the caller's custody wallets
// GET /api/wallet/list?withBalance=true
func (h *WalletHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	withBalance, _ := strconv.ParseBool(c.Query("withBalance"))

	wallets, err := h.walletUsecase.List(c.Request.Context(), userID, withBalance)
	if err != nil {
		fail(c, err, "Failed to fetch wallets")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"wallets": wallets})
}

// Generate creates a custody wallet
// POST /api/wallet/generate
func (h *WalletHandler) Generate(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	wallet, err := h.walletUsecase.Generate(c.Request.Context(), userID)
	if err != nil {
		fail(c, err, "Failed to generate wallet")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message": "Wallet created successfully",
		"wallet": gin.H{
			"id":        wallet.ID,
			"address":   wallet.Address,
			"createdAt": wallet.CreatedAt,
		},
	})
}

// Link stores the browser wallet address on the account
// POST /api/wallet/link
func (h *WalletHandler) Link(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var input entities.LinkWalletInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(invalidBody))
		return
	}

	user, err := h.walletUsecase.LinkConnectedWallet(c.Request.Context(), userID, input.WalletAddress)
	if err != nil {
		fail(c, err, "Failed to link wallet")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Wallet linked successfully",
		"user":    user,
	})
}

// Delete removes a custody wallet after checking the supplied private key
// DELETE /api/wallet/delete
func (h *WalletHandler) Delete(c *gin.Context) {
	var input entities.DeleteWalletInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(invalidBody))
		return
	}

	if err := h.walletUsecase.Delete(c.Request.Context(), optionalUser(c), &input); err != nil {
		fail(c, err, "Delete failed")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"success": true})
}

// Send transfers tokens from a custody wallet
// POST /api/wallet/send
func (h *WalletHandler) Send(c *gin.Context) {
	var input entities.SendFromWalletInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(invalidBody))
		return
	}

	result, err := h.transferUsecase.SendFromCustodyWallet(c.Request.Context(), optionalUser(c), &input)
	if err != nil {
		fail(c, err, "Failed to send tokens")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"txHash": result.TxHash})
}
