// Package wallet reads chain state for donor wallets over JSON-RPC.
package wallet

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/2HgO/chainrelief-go/config"
	"github.com/2HgO/chainrelief-go/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/params"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var weiPerEther = decimal.NewFromBigInt(big.NewInt(params.Ether), 0)

type Provider interface {
	ChainID(ctx context.Context) (int64, error)
	Balance(ctx context.Context, address string) (*big.Int, error)
	IsSupportedChain(chainID int64) bool
	DefaultChainID() int64
	Close()
}

func NewProvider(cfg *config.Config, log *zap.Logger) Provider {
	return &ethProvider{config: cfg, log: log}
}

type ethProvider struct {
	config *config.Config
	log    *zap.Logger

	mu     sync.Mutex
	client *ethclient.Client
}

func (e *ethProvider) dial(ctx context.Context) (*ethclient.Client, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client != nil {
		return e.client, nil
	}
	if e.config.Network.RPCURL == "" {
		return nil, errors.NewFailedDependencyError("no RPC endpoint configured for wallet lookups")
	}
	client, err := ethclient.DialContext(ctx, e.config.Network.RPCURL)
	if err != nil {
		e.log.Error("dialing RPC endpoint", zap.Error(err))
		return nil, errors.NewFailedDependencyError("could not reach RPC endpoint")
	}
	e.client = client
	return client, nil
}

func (e *ethProvider) ChainID(ctx context.Context) (int64, error) {
	client, err := e.dial(ctx)
	if err != nil {
		return 0, err
	}
	id, err := client.ChainID(ctx)
	if err != nil {
		return 0, errors.NewFailedDependencyError(fmt.Sprintf("reading chain id: %v", err))
	}
	return id.Int64(), nil
}

// Balance returns the address balance in wei.
func (e *ethProvider) Balance(ctx context.Context, address string) (*big.Int, error) {
	if !common.IsHexAddress(address) {
		return nil, errors.NewValidationError(fmt.Sprintf("%s is not a valid wallet address", address))
	}
	client, err := e.dial(ctx)
	if err != nil {
		return nil, err
	}
	balance, err := client.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return nil, errors.NewFailedDependencyError(fmt.Sprintf("reading balance: %v", err))
	}
	return balance, nil
}

func (e *ethProvider) IsSupportedChain(chainID int64) bool {
	return e.config.IsSupportedChain(chainID)
}

func (e *ethProvider) DefaultChainID() int64 {
	return e.config.Network.DefaultChainID
}

func (e *ethProvider) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client != nil {
		e.client.Close()
		e.client = nil
	}
}

// ToEther converts a wei amount to ether.
func ToEther(wei *big.Int) decimal.Decimal {
	if wei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(wei, 0).Div(weiPerEther)
}
