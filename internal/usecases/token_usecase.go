package usecases

import (
	"context"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"token-dashboard.backend/internal/domain/entities"
	domainerrors "token-dashboard.backend/internal/domain/errors"
	"token-dashboard.backend/internal/infrastructure/blockchain"
	"token-dashboard.backend/pkg/logger"
	"token-dashboard.backend/pkg/units"
)

// TokenUsecase serves token balance reads
type TokenUsecase struct {
	chain    TokenChain
	treasury *blockchain.Signer
	decimals int
}

// NewTokenUsecase creates a new token usecase
func NewTokenUsecase(chain TokenChain, treasury *blockchain.Signer, decimals int) *TokenUsecase {
	return &TokenUsecase{chain: chain, treasury: treasury, decimals: decimals}
}

// Balance returns the formatted token balance of address
func (u *TokenUsecase) Balance(ctx context.Context, address string) (*entities.TokenBalance, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, domainerrors.BadRequest("Address parameter is required")
	}
	if !blockchain.IsHexAddress(address) {
		return nil, domainerrors.BadRequest("Invalid Ethereum address")
	}
	return u.read(ctx, common.HexToAddress(address))
}

// TreasuryBalance returns the admin wallet balance
func (u *TokenUsecase) TreasuryBalance(ctx context.Context) (*entities.TokenBalance, error) {
	if u.treasury == nil {
		return nil, domainerrors.InternalError(errors.New("treasury key not configured"))
	}
	return u.read(ctx, u.treasury.Address)
}

func (u *TokenUsecase) read(ctx context.Context, owner common.Address) (*entities.TokenBalance, error) {
	balance, err := u.chain.BalanceOf(ctx, owner)
	if err != nil {
		logger.Error(ctx, "Balance read failed", zap.String("address", owner.Hex()), zap.Error(err))
		return nil, domainerrors.ChainFailure("Failed to check balance", err)
	}
	md, err := u.chain.Metadata(ctx)
	if err != nil {
		logger.Error(ctx, "Token metadata read failed", zap.Error(err))
		return nil, domainerrors.ChainFailure("Failed to check balance", err)
	}

	return &entities.TokenBalance{
		Address: owner.Hex(),
		Balance: units.FormatUnits(balance, u.decimals),
		Symbol:  md.Symbol,
		Name:    md.Name,
	}, nil
}
