package blockchain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

var (
	ErrInvalidTokenAddress = errors.New("invalid token contract address")
	ErrTransferReverted    = errors.New("transfer reverted")
	ErrNoBackend           = errors.New("chain backend not available")
)

var (
	performTransfer = func(client *ethclient.Client, token common.Address, parsedABI abi.ABI, auth *bind.TransactOpts, to common.Address, amount *big.Int) (*types.Transaction, error) {
		if client == nil {
			return nil, ErrNoBackend
		}
		contract := bind.NewBoundContract(token, parsedABI, client, client, client)
		return contract.Transact(auth, "transfer", to, amount)
	}
	waitMined = func(ctx context.Context, client *ethclient.Client, tx *types.Transaction) (*types.Receipt, error) {
		if client == nil {
			return nil, ErrNoBackend
		}
		return bind.WaitMined(ctx, client, tx)
	}
	newKeyedTransactor = bind.NewKeyedTransactorWithChainID
)

// TokenMetadata holds the immutable ERC-20 descriptors
type TokenMetadata struct {
	Name     string
	Symbol   string
	Decimals uint8
}

// ERC20Client reads and moves one ERC-20 token
type ERC20Client struct {
	evm   *EVMClient
	token common.Address

	mu       sync.Mutex
	metadata *TokenMetadata
}

// NewERC20Client binds the token contract at tokenAddress
func NewERC20Client(evm *EVMClient, tokenAddress string) (*ERC20Client, error) {
	if !common.IsHexAddress(tokenAddress) {
		return nil, ErrInvalidTokenAddress
	}
	return &ERC20Client{
		evm:   evm,
		token: common.HexToAddress(tokenAddress),
	}, nil
}

// TokenAddress returns the bound contract address
func (c *ERC20Client) TokenAddress() common.Address {
	return c.token
}

// BalanceOf returns the base-unit balance of owner
func (c *ERC20Client) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	return callTypedView[*big.Int](ctx, c.evm, c.token, "balanceOf", owner)
}

// Metadata returns name, symbol and decimals. A successful read is cached.
// The lock only guards the cache, so a slow read never blocks other callers.
func (c *ERC20Client) Metadata(ctx context.Context) (*TokenMetadata, error) {
	c.mu.Lock()
	cached := c.metadata
	c.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	name, err := callTypedView[string](ctx, c.evm, c.token, "name")
	if err != nil {
		return nil, err
	}
	symbol, err := callTypedView[string](ctx, c.evm, c.token, "symbol")
	if err != nil {
		return nil, err
	}
	decimals, err := callTypedView[uint8](ctx, c.evm, c.token, "decimals")
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.metadata == nil {
		c.metadata = &TokenMetadata{Name: name, Symbol: symbol, Decimals: decimals}
	}
	return c.metadata, nil
}

// Transfer signs and submits transfer(to, amount) from the key's address.
// It returns once the node accepted the transaction.
func (c *ERC20Client) Transfer(ctx context.Context, key *ecdsa.PrivateKey, to common.Address, amount *big.Int) (*types.Transaction, error) {
	auth, err := newKeyedTransactor(key, c.evm.ChainID())
	if err != nil {
		return nil, err
	}
	auth.Context = ctx

	tx, err := performTransfer(c.evm.Backend(), c.token, ERC20ABI, auth, to, amount)
	if err != nil {
		return nil, withRevertReason(err)
	}
	return tx, nil
}

// WaitConfirmed blocks until tx is mined or ctx ends. A mined but failed
// transaction returns ErrTransferReverted along with its receipt.
func (c *ERC20Client) WaitConfirmed(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := waitMined(ctx, c.evm.Backend(), tx)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: %s", ErrTransferReverted, tx.Hash().Hex())
	}
	return receipt, nil
}

func callTypedView[T any](ctx context.Context, client *EVMClient, token common.Address, method string, args ...interface{}) (T, error) {
	var zero T

	data, err := ERC20ABI.Pack(method, args...)
	if err != nil {
		return zero, err
	}
	out, err := client.CallView(ctx, token, data)
	if err != nil {
		return zero, err
	}
	vals, err := ERC20ABI.Unpack(method, out)
	if err != nil || len(vals) == 0 {
		return zero, fmt.Errorf("failed to decode %s", method)
	}
	value, ok := vals[0].(T)
	if !ok {
		return zero, fmt.Errorf("invalid %s return type", method)
	}
	return value, nil
}
