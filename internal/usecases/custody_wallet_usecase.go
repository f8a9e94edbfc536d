package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"token-dashboard.backend/internal/domain/entities"
	domainerrors "token-dashboard.backend/internal/domain/errors"
	"token-dashboard.backend/internal/domain/repositories"
	"token-dashboard.backend/internal/infrastructure/blockchain"
	"token-dashboard.backend/pkg/logger"
	"token-dashboard.backend/pkg/units"
	"token-dashboard.backend/pkg/utils"
)

var generateWalletKey = blockchain.GenerateKey

const balanceUnavailable = "Failed to fetch balance"

// WalletPolicy controls how custody wallets are read and guarded
type WalletPolicy struct {
	TokenDecimals      int
	BalanceConcurrency int
	// EnforceOwnership requires the session user to own a wallet before delete or send.
	EnforceOwnership bool
}

// CustodyWalletUsecase manages server-generated wallets
type CustodyWalletUsecase struct {
	walletRepo repositories.CustodyWalletRepository
	userRepo   repositories.UserRepository
	uow        repositories.UnitOfWork
	chain      TokenChain
	policy     WalletPolicy
}

// NewCustodyWalletUsecase creates a new custody wallet usecase
func NewCustodyWalletUsecase(
	walletRepo repositories.CustodyWalletRepository,
	userRepo repositories.UserRepository,
	uow repositories.UnitOfWork,
	chain TokenChain,
	policy WalletPolicy,
) *CustodyWalletUsecase {
	if policy.BalanceConcurrency <= 0 {
		policy.BalanceConcurrency = 1
	}
	return &CustodyWalletUsecase{
		walletRepo: walletRepo,
		userRepo:   userRepo,
		uow:        uow,
		chain:      chain,
		policy:     policy,
	}
}

// Generate creates and stores a new key pair for the user
func (u *CustodyWalletUsecase) Generate(ctx context.Context, userID uuid.UUID) (*entities.CustodyWallet, error) {
	key, err := generateWalletKey()
	if err != nil {
		return nil, err
	}

	wallet := &entities.CustodyWallet{
		ID:         utils.NewID(),
		UserID:     userID,
		Address:    key.Address,
		PrivateKey: blockchain.EncodeStoredKey(key.PrivateKeyHex),
		CreatedAt:  time.Now().UTC(),
	}
	if err := u.walletRepo.Create(ctx, wallet); err != nil {
		return nil, err
	}

	logger.Info(ctx, "Custody wallet created",
		zap.String("wallet_id", wallet.ID.String()),
		zap.String("address", wallet.Address),
	)
	return wallet, nil
}

// List returns the user's wallets newest first. With balances, one failed read
// marks only that wallet.
func (u *CustodyWalletUsecase) List(ctx context.Context, userID uuid.UUID, withBalance bool) ([]*entities.WalletSummary, error) {
	wallets, err := u.walletRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*entities.WalletSummary, len(wallets))
	for i, w := range wallets {
		summaries[i] = &entities.WalletSummary{
			ID:        w.ID,
			Address:   w.Address,
			CreatedAt: w.CreatedAt,
		}
	}
	if !withBalance || len(wallets) == 0 {
		return summaries, nil
	}

	var g errgroup.Group
	g.SetLimit(u.policy.BalanceConcurrency)
	for i := range summaries {
		summary := summaries[i]
		g.Go(func() error {
			balance, err := u.chain.BalanceOf(ctx, common.HexToAddress(summary.Address))
			if err != nil {
				logger.Warn(ctx, "Balance read failed",
					zap.String("address", summary.Address),
					zap.Error(err),
				)
				summary.BalanceError = balanceUnavailable
				return nil
			}
			formatted := units.FormatUnits(balance, u.policy.TokenDecimals)
			summary.Balance = &formatted
			return nil
		})
	}
	_ = g.Wait()

	return summaries, nil
}

// Delete removes a wallet once the caller proves possession of its key.
// caller is nil for unauthenticated requests.
func (u *CustodyWalletUsecase) Delete(ctx context.Context, caller *uuid.UUID, input *entities.DeleteWalletInput) error {
	if strings.TrimSpace(input.WalletID) == "" || strings.TrimSpace(input.PrivateKey) == "" {
		return domainerrors.BadRequest("Missing required fields")
	}
	if u.policy.EnforceOwnership && caller == nil {
		return domainerrors.Unauthorized("Not authenticated")
	}

	walletID, err := utils.ParseID(input.WalletID)
	if err != nil {
		return domainerrors.NotFound("Wallet not found")
	}

	return u.uow.Do(ctx, func(txCtx context.Context) error {
		wallet, err := loadOwnedWallet(txCtx, u.walletRepo, u.policy.EnforceOwnership, caller, walletID)
		if err != nil {
			return err
		}

		derived, err := blockchain.AddressFromPrivateKeyHex(input.PrivateKey)
		if err != nil || !blockchain.SameAddress(derived, wallet.Address) {
			return domainerrors.Forbidden("Invalid private key")
		}

		if err := u.walletRepo.Delete(txCtx, wallet.ID); err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.NotFound("Wallet not found")
			}
			return err
		}

		logger.Info(txCtx, "Custody wallet deleted", zap.String("wallet_id", wallet.ID.String()))
		return nil
	})
}

// LinkConnectedWallet records the browser wallet address for the user
func (u *CustodyWalletUsecase) LinkConnectedWallet(ctx context.Context, userID uuid.UUID, address string) (*entities.User, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, domainerrors.BadRequest("Wallet address is required")
	}
	if !blockchain.IsHexAddress(address) {
		return nil, domainerrors.BadRequest("Invalid Ethereum address")
	}

	checksummed := common.HexToAddress(address).Hex()
	if err := u.userRepo.UpdateConnectedWallet(ctx, userID, checksummed); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("User not found")
		}
		return nil, err
	}
	return u.userRepo.GetByID(ctx, userID)
}

// loadOwnedWallet fetches a wallet and applies the ownership rule. A wallet
// owned by someone else is reported as missing.
func loadOwnedWallet(ctx context.Context, repo repositories.CustodyWalletRepository, enforce bool, caller *uuid.UUID, walletID uuid.UUID) (*entities.CustodyWallet, error) {
	wallet, err := repo.GetByID(ctx, walletID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("Wallet not found")
		}
		return nil, err
	}
	if enforce && (caller == nil || wallet.UserID != *caller) {
		return nil, domainerrors.NotFound("Wallet not found")
	}
	return wallet, nil
}
