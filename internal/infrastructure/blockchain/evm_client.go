package blockchain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

var (
	dialEVMClient    = ethclient.DialContext
	getClientChainID = func(ctx context.Context, client *ethclient.Client) (*big.Int, error) {
		return client.ChainID(ctx)
	}
)

// EVMClient wraps a JSON-RPC connection to one EVM chain
type EVMClient struct {
	client  *ethclient.Client
	chainID *big.Int
	// testCallView allows deterministic unit tests without network sockets.
	testCallView func(ctx context.Context, to common.Address, data []byte) ([]byte, error)
}

// NewEVMClient dials rpcURL and resolves the chain id
func NewEVMClient(ctx context.Context, rpcURL string) (*EVMClient, error) {
	client, err := dialEVMClient(ctx, rpcURL)
	if err != nil {
		return nil, err
	}

	chainID, err := getClientChainID(ctx, client)
	if err != nil {
		client.Close()
		return nil, err
	}

	return &EVMClient{
		client:  client,
		chainID: chainID,
	}, nil
}

// NewEVMClientWithCallView creates a client that answers reads through callViewFn.
// Used by tests that have no RPC endpoint.
func NewEVMClientWithCallView(chainID *big.Int, callViewFn func(ctx context.Context, to common.Address, data []byte) ([]byte, error)) *EVMClient {
	if chainID == nil {
		chainID = big.NewInt(1)
	}
	return &EVMClient{
		chainID:      chainID,
		testCallView: callViewFn,
	}
}

// ChainID returns the chain ID
func (c *EVMClient) ChainID() *big.Int {
	return c.chainID
}

// Backend returns the underlying client, nil for injected clients
func (c *EVMClient) Backend() *ethclient.Client {
	return c.client
}

// CallView executes a read-only contract call against the latest block
func (c *EVMClient) CallView(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	if c.testCallView != nil {
		return c.testCallView(ctx, to, data)
	}
	msg := ethereum.CallMsg{
		To:   &to,
		Data: data,
	}
	return c.client.CallContract(ctx, msg, nil)
}

// Close closes the client connection
func (c *EVMClient) Close() {
	if c.client != nil {
		c.client.Close()
	}
}
