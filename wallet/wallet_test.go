package wallet

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2HgO/chainrelief-go/config"
	"github.com/2HgO/chainrelief-go/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func rpcServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		var result string
		switch req.Method {
		case "eth_chainId":
			result = "0x89"
		case "eth_getBalance":
			result = "0x1bc16d674ec80000"
		default:
			t.Errorf("unexpected method %s", req.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": result})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(rpcURL string) *config.Config {
	return &config.Config{Network: config.NetworkConfig{
		DefaultChainID:  1,
		SupportedChains: []int64{1, 137, 56, 43114},
		RPCURL:          rpcURL,
	}}
}

func TestProvider_ChainAndBalance(t *testing.T) {
	srv := rpcServer(t)
	p := NewProvider(testConfig(srv.URL), zap.NewNop())
	defer p.Close()

	id, err := p.ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(137), id)
	assert.True(t, p.IsSupportedChain(id))
	assert.False(t, p.IsSupportedChain(10))
	assert.Equal(t, int64(1), p.DefaultChainID())

	balance, err := p.Balance(context.Background(), "0x742d35Cc6634C0532925a3b844Bc454e4438f44e")
	require.NoError(t, err)
	assert.Equal(t, 0, balance.Cmp(big.NewInt(2000000000000000000)))
	assert.Equal(t, "2", ToEther(balance).String())
}

func TestProvider_InvalidAddress(t *testing.T) {
	p := NewProvider(testConfig("http://127.0.0.1:1"), zap.NewNop())

	_, err := p.Balance(context.Background(), "not-an-address")
	assert.True(t, errors.IsType(err, errors.ErrValidation))
}

func TestProvider_NoRPCConfigured(t *testing.T) {
	p := NewProvider(testConfig(""), zap.NewNop())

	_, err := p.ChainID(context.Background())
	assert.True(t, errors.IsType(err, errors.ErrFailedDependency))
}

func TestProvider_TestnetChains(t *testing.T) {
	cfg := testConfig("")
	p := NewProvider(cfg, zap.NewNop())
	assert.False(t, p.IsSupportedChain(11155111))

	cfg.Features.EnableTestnet = true
	assert.True(t, p.IsSupportedChain(11155111))
	assert.True(t, p.IsSupportedChain(43113))
}

func TestToEther(t *testing.T) {
	assert.True(t, ToEther(nil).IsZero())
	assert.Equal(t, "0.5", ToEther(big.NewInt(500000000000000000)).String())
}
