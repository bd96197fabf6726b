package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/2HgO/chainrelief-go/config"
	"github.com/2HgO/chainrelief-go/models"
	"github.com/2HgO/chainrelief-go/sideshift"
	"github.com/madflojo/tasks"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func mockConfig() *config.Config {
	return &config.Config{
		SideShift: config.SideShiftConfig{
			BaseURL:         "http://127.0.0.1:0",
			EnableRealAPI:   false,
			FallbackEnabled: true,
			Timeout:         2 * time.Second,
		},
		CommissionRate:         0.005,
		Quote:                  config.QuoteConfig{TTL: 5 * time.Minute, SweepInterval: time.Hour},
		SettlementPollInterval: 10 * time.Millisecond,
		VerificationBaseURL:    "https://chainrelief.vercel.app/verify",
	}
}

func liveConfig(baseURL string) *config.Config {
	cfg := mockConfig()
	cfg.SideShift.BaseURL = baseURL
	cfg.SideShift.APIKey = "test-key"
	cfg.SideShift.EnableRealAPI = true
	return cfg
}

// fakeProvider imitates the swap provider API.
type fakeProvider struct {
	*httptest.Server

	quoteFails  atomic.Bool
	shiftFails  atomic.Bool
	shiftStatus atomic.Value
	quotes      atomic.Int32
	// blockQuote, when set, holds the first quote request until it is closed.
	blockQuote chan struct{}
	arrived    chan struct{}
}

func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()
	p := &fakeProvider{}
	p.shiftStatus.Store("waiting")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /coins", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"coin":"ETH","name":"Ethereum","networks":["ethereum","arbitrum"]},
			{"coin":"USDC","name":"USD Coin","networks":["ethereum"],"tokenDetails":{"ethereum":{"contractAddress":"0xa0b8","decimals":6}}}
		]`))
	})
	mux.HandleFunc("POST /quotes", func(w http.ResponseWriter, r *http.Request) {
		n := p.quotes.Add(1)
		if n == 1 && p.blockQuote != nil {
			close(p.arrived)
			<-p.blockQuote
		}
		if p.quoteFails.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":{"message":"provider down"}}`))
			return
		}
		var req sideshift.QuoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":             fmt.Sprintf("live-%d", n),
			"depositCoin":    req.DepositCoin,
			"settleCoin":     req.SettleCoin,
			"depositNetwork": req.DepositNetwork,
			"settleNetwork":  req.SettleNetwork,
			"depositAmount":  req.DepositAmount,
			"settleAmount":   "3184",
			"rate":           "3184",
			"depositAddress": "0xprovider",
			"expiresAt":      time.Now().Add(15 * time.Minute).UTC().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("POST /shift", func(w http.ResponseWriter, r *http.Request) {
		if p.shiftFails.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"message":"shift rejected"}}`))
			return
		}
		var req sideshift.ShiftRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(map[string]any{
			"id":          "shift-" + req.QuoteID,
			"quoteId":     req.QuoteID,
			"status":      p.shiftStatus.Load().(string),
			"depositHash": "0xdeposit",
		})
	})
	mux.HandleFunc("GET /shifts/{id}", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id":         r.PathValue("id"),
			"status":     p.shiftStatus.Load().(string),
			"settleHash": "0xsettle",
		})
	})

	p.Server = httptest.NewServer(mux)
	t.Cleanup(p.Close)
	return p
}

type testServices struct {
	config    *config.Config
	clock     *fakeClock
	prices    PriceEstimator
	quotes    QuoteService
	swaps     SwapService
	metrics   MetricsService
	campaigns CampaignService
	scheduler SchedulerService
	donations DonationService
}

func newTestServices(t *testing.T, cfg *config.Config, campaigns ...models.Campaign) *testServices {
	t.Helper()
	log := zap.NewNop()
	clock := newFakeClock()
	if len(campaigns) == 0 {
		campaigns = models.Campaigns
	}

	client := NewSideShiftClient(cfg)
	ts := &testServices{config: cfg, clock: clock}
	ts.prices = NewPriceEstimator(nil, log)
	ts.quotes = NewQuoteService(cfg, client, ts.prices, log)
	ts.quotes.(*quoteService).now = clock.Now
	ts.swaps = NewSwapService(cfg, client, ts.prices, ts.quotes, log)
	ts.swaps.(*swapService).now = clock.Now
	ts.campaigns = NewCampaignService(campaigns)
	ts.metrics = NewMetricsService(cfg, ts.prices, ts.campaigns, log)

	scheduler := tasks.New()
	t.Cleanup(scheduler.Stop)
	var err error
	ts.scheduler, err = NewSchedulerService(cfg, scheduler, ts.quotes, ts.swaps, log)
	require.NoError(t, err)

	ts.donations = NewDonationService(cfg, ts.prices, ts.quotes, ts.swaps, ts.metrics, ts.campaigns, ts.scheduler, log)
	ts.donations.(*donationService).now = clock.Now
	return ts
}
