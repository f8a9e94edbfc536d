package usecases

import (
	"context"
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"token-dashboard.backend/internal/infrastructure/blockchain"
)

// TokenChain is the slice of the ERC-20 client the usecases depend on
type TokenChain interface {
	BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error)
	Metadata(ctx context.Context) (*blockchain.TokenMetadata, error)
	Transfer(ctx context.Context, key *ecdsa.PrivateKey, to common.Address, amount *big.Int) (*types.Transaction, error)
	WaitConfirmed(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

var _ TokenChain = (*blockchain.ERC20Client)(nil)
