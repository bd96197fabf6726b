package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/2HgO/chainrelief-go/config"
	"github.com/2HgO/chainrelief-go/errors"
	"github.com/2HgO/chainrelief-go/models"
	"github.com/2HgO/chainrelief-go/services"
	"github.com/2HgO/chainrelief-go/wallet"
	"github.com/madflojo/tasks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := zap.NewNop()
	cfg := &config.Config{
		SideShift:              config.SideShiftConfig{FallbackEnabled: true},
		Features:               config.FeatureFlags{EnableAnalytics: true},
		CommissionRate:         0.005,
		Quote:                  config.QuoteConfig{TTL: 5 * time.Minute, SweepInterval: time.Minute},
		SettlementPollInterval: time.Second,
		VerificationBaseURL:    "https://chainrelief.vercel.app/verify",
	}

	client := services.NewSideShiftClient(cfg)
	prices := services.NewPriceEstimator(nil, log)
	assets := services.NewAssetService(cfg, client, log)
	quotes := services.NewQuoteService(cfg, client, prices, log)
	swaps := services.NewSwapService(cfg, client, prices, quotes, log)
	campaigns := services.NewCampaignService(models.Campaigns)
	metrics := services.NewMetricsService(cfg, prices, campaigns, log)
	scheduler := tasks.New()
	t.Cleanup(scheduler.Stop)
	schedulerService, err := services.NewSchedulerService(cfg, scheduler, quotes, swaps, log)
	require.NoError(t, err)
	donations := services.NewDonationService(cfg, prices, quotes, swaps, metrics, campaigns, schedulerService, log)
	mw := NewMiddlewareHandler(log)

	mux := http.NewServeMux()
	for _, h := range []Handler{
		NewAssetHandler(assets, mw, log),
		NewCampaignHandler(campaigns, donations, mw, log),
		NewQuoteHandler(quotes, mw, log),
		NewSwapHandler(swaps, mw, log),
		NewDonationHandler(donations, mw, log),
		NewMetricsHandler(metrics, mw, log),
		NewWalletHandler(wallet.NewProvider(cfg, log), mw, log),
	} {
		h.ServeHttp(mux)
	}

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type envelope[T any] struct {
	Status string `json:"status"`
	Data   T      `json:"data"`
}

func do[T any](t *testing.T, method, url, body string, wantStatus int) T {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.Equal(t, wantStatus, res.StatusCode, string(raw))

	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func TestDonationFlow(t *testing.T) {
	srv := newTestServer(t)
	api := srv.URL + "/api/v1"

	quote := do[envelope[models.QuoteResult]](t, http.MethodPost, api+"/quotes",
		`{"deposit_asset":"eth-mainnet","deposit_network":"ethereum","settle_asset":"usdc-ethereum","settle_network":"ethereum","deposit_amount":"1"}`,
		http.StatusCreated)
	assert.Equal(t, "successful", quote.Status)
	assert.Equal(t, models.SourceSimulated, quote.Data.Source)
	require.NotNil(t, quote.Data.Quote)
	quoteID := quote.Data.Quote.ID

	fetched := do[envelope[models.Quote]](t, http.MethodGet, api+"/quotes/"+quoteID, "", http.StatusOK)
	assert.Equal(t, quoteID, fetched.Data.ID)

	donation := do[envelope[models.Donation]](t, http.MethodPost, api+"/donations",
		`{"campaign_id":"hurricane-relief-2024","asset_id":"ETH","amount":"1","recipient_address":"0x742d35Cc6634C0532925a3b844Bc454e4438f44e"}`,
		http.StatusCreated)
	assert.Equal(t, models.DonationPending, donation.Data.Status)

	confirmed := do[envelope[models.Donation]](t, http.MethodPost, api+"/donations/"+donation.Data.ID+"/confirm",
		`{"quote_id":"`+quoteID+`"}`, http.StatusOK)
	assert.Equal(t, models.DonationCompleted, confirmed.Data.Status)
	require.NotNil(t, confirmed.Data.Settlement)

	replay := do[errors.AppError](t, http.MethodPost, api+"/swaps",
		`{"quote_id":"`+quoteID+`","recipient_address":"0x742d35Cc6634C0532925a3b844Bc454e4438f44e"}`, http.StatusConflict)
	assert.Equal(t, errors.ErrQuoteConsumed, replay.Type)

	settlement := do[envelope[models.Settlement]](t, http.MethodGet, api+"/swaps/"+quoteID, "", http.StatusOK)
	assert.Equal(t, models.SettlementCompleted, settlement.Data.Status)

	metrics := do[envelope[map[string]any]](t, http.MethodGet, api+"/metrics", "", http.StatusOK)
	assert.EqualValues(t, 1, metrics.Data["total_donations"])
	assert.EqualValues(t, 3, metrics.Data["active_campaigns"])
	analytics, ok := metrics.Data["analytics"].(map[string]any)
	require.True(t, ok)
	topAssets, ok := analytics["top_assets"].([]any)
	require.True(t, ok)
	require.Len(t, topAssets, 1)
	assert.Equal(t, "ETH", topAssets[0].(map[string]any)["asset"])

	receipt := do[envelope[map[string]any]](t, http.MethodGet, api+"/donations/"+donation.Data.ID+"/receipt", "", http.StatusOK)
	assert.Equal(t, "receipt_"+donation.Data.ID, receipt.Data["receipt_id"])

	stats := do[envelope[map[string]any]](t, http.MethodGet, api+"/campaigns/hurricane-relief-2024/stats", "", http.StatusOK)
	assert.EqualValues(t, 1, stats.Data["total_donations"])

	list := do[envelope[[]models.Donation]](t, http.MethodGet, api+"/donations?campaign_id=flood-relief-europe", "", http.StatusOK)
	assert.Empty(t, list.Data)
}

func TestValidationErrors(t *testing.T) {
	srv := newTestServer(t)
	api := srv.URL + "/api/v1"

	bad := do[errors.AppError](t, http.MethodPost, api+"/donations",
		`{"campaign_id":"hurricane-relief-2024","asset_id":"ETH","amount":"1","recipient_address":"0x12"}`, http.StatusBadRequest)
	assert.Equal(t, errors.ErrValidation, bad.Type)
	assert.Equal(t, "recipient_address must be at least 10 characters long", bad.Message)

	zero := do[errors.AppError](t, http.MethodPost, api+"/quotes",
		`{"deposit_asset":"eth-mainnet","deposit_network":"ethereum","settle_asset":"usdc-ethereum","settle_network":"ethereum","deposit_amount":"0"}`,
		http.StatusBadRequest)
	assert.Equal(t, errors.ErrValidation, zero.Type)

	missing := do[errors.AppError](t, http.MethodGet, api+"/donations/unknown", "", http.StatusNotFound)
	assert.Equal(t, errors.ErrNotFound, missing.Type)

	format := do[errors.AppError](t, http.MethodGet, api+"/donations/export?format=xml", "", http.StatusBadRequest)
	assert.Equal(t, errors.ErrValidation, format.Type)

	walletErr := do[errors.AppError](t, http.MethodGet, api+"/wallets/0x742d35Cc6634C0532925a3b844Bc454e4438f44e", "", http.StatusFailedDependency)
	assert.Equal(t, errors.ErrFailedDependency, walletErr.Type)
}

func TestCatalogEndpoints(t *testing.T) {
	srv := newTestServer(t)
	api := srv.URL + "/api/v1"

	assets := do[envelope[[]models.Asset]](t, http.MethodGet, api+"/assets?network=ethereum", "", http.StatusOK)
	assert.Len(t, assets.Data, 4)

	asset := do[envelope[models.Asset]](t, http.MethodGet, api+"/assets/btc-mainnet", "", http.StatusOK)
	assert.Equal(t, "BTC", asset.Data.Symbol)

	campaigns := do[envelope[[]models.Campaign]](t, http.MethodGet, api+"/campaigns", "", http.StatusOK)
	assert.Len(t, campaigns.Data, 3)

	rates := do[envelope[map[string]string]](t, http.MethodGet, api+"/rates", "", http.StatusOK)
	assert.Equal(t, "3200", rates.Data["ETH-USDC"])
}

func TestExportCSV(t *testing.T) {
	srv := newTestServer(t)
	api := srv.URL + "/api/v1"

	do[envelope[models.Donation]](t, http.MethodPost, api+"/donations",
		`{"campaign_id":"flood-relief-europe","asset_id":"usdc-ethereum","amount":"25","recipient_address":"0x742d35Cc6634C0532925a3b844Bc454e4438f44e"}`,
		http.StatusCreated)

	res, err := http.Get(api + "/donations/export?format=csv")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/csv", res.Header.Get("Content-Type"))

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "id,campaign_id,amount"))
	assert.Contains(t, lines[1], "flood-relief-europe,25,usdc-ethereum,25,pending")
}

func TestPreviewQuoteUsesClientID(t *testing.T) {
	srv := newTestServer(t)
	body := `{"deposit_asset":"eth-mainnet","deposit_network":"ethereum","settle_asset":"usdc-ethereum","settle_network":"ethereum","deposit_amount":"2"}`

	var sequences []uint64
	for i := 0; i < 2; i++ {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/quotes/preview", strings.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("X-Client-ID", "donate-form")

		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, res.StatusCode)

		var out envelope[models.QuoteResult]
		require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
		res.Body.Close()

		assert.False(t, out.Data.Superseded)
		assert.Equal(t, "6368", out.Data.Quote.SettleAmount.String())
		sequences = append(sequences, out.Data.Quote.Sequence)
	}
	assert.Greater(t, sequences[1], sequences[0])
}

func TestFetchWallet(t *testing.T) {
	node := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		result := "0xde0b6b3a7640000"
		if req.Method == "eth_chainId" {
			result = "0xaa36a7"
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": result})
	}))
	t.Cleanup(node.Close)

	log := zap.NewNop()
	cfg := &config.Config{
		Network:  config.NetworkConfig{DefaultChainID: 1, SupportedChains: []int64{1, 137}, RPCURL: node.URL},
		Features: config.FeatureFlags{EnableTestnet: true},
	}
	provider := wallet.NewProvider(cfg, log)
	t.Cleanup(provider.Close)

	mux := http.NewServeMux()
	NewWalletHandler(provider, NewMiddlewareHandler(log), log).ServeHttp(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	res := do[envelope[map[string]any]](t, http.MethodGet, srv.URL+"/api/v1/wallets/0x742d35Cc6634C0532925a3b844Bc454e4438f44e", "", http.StatusOK)
	assert.EqualValues(t, 11155111, res.Data["chain_id"])
	assert.Equal(t, true, res.Data["supported_chain"])
	assert.EqualValues(t, 1, res.Data["default_chain_id"])
	assert.Equal(t, false, res.Data["on_default_chain"])
	assert.Equal(t, "1", res.Data["balance"])
}
