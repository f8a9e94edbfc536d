package usecases_test

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"token-dashboard.backend/internal/domain/entities"
	"token-dashboard.backend/internal/infrastructure/blockchain"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) UpdateConnectedWallet(ctx context.Context, id uuid.UUID, address string) error {
	args := m.Called(ctx, id, address)
	return args.Error(0)
}

// Mock CustodyWalletRepository
type MockCustodyWalletRepository struct {
	mock.Mock
}

func (m *MockCustodyWalletRepository) Create(ctx context.Context, wallet *entities.CustodyWallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

func (m *MockCustodyWalletRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.CustodyWallet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CustodyWallet), args.Error(1)
}

func (m *MockCustodyWalletRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.CustodyWallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.CustodyWallet), args.Error(1)
}

func (m *MockCustodyWalletRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *entities.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListByUserAndType(ctx context.Context, userID uuid.UUID, txType entities.TransactionType, limit int) ([]*entities.Transaction, error) {
	args := m.Called(ctx, userID, txType, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Transaction), args.Error(1)
}

// Mock TokenChain
type MockTokenChain struct {
	mock.Mock
}

func (m *MockTokenChain) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockTokenChain) Metadata(ctx context.Context) (*blockchain.TokenMetadata, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blockchain.TokenMetadata), args.Error(1)
}

func (m *MockTokenChain) Transfer(ctx context.Context, key *ecdsa.PrivateKey, to common.Address, amount *big.Int) (*types.Transaction, error) {
	args := m.Called(ctx, key, to, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Transaction), args.Error(1)
}

func (m *MockTokenChain) WaitConfirmed(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Receipt), args.Error(1)
}

// Mock SessionRevoker
type MockSessionRevoker struct {
	mock.Mock
}

func (m *MockSessionRevoker) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	args := m.Called(ctx, tokenID, expiresAt)
	return args.Error(0)
}

// Hardhat development accounts #0 and #1
const (
	walletKeyHex    = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	walletAddress   = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	treasuryKeyHex  = "0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"
	treasuryAddress = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	recipient       = "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"
)

func ether(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad test amount " + s)
	}
	return v
}
