package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/2HgO/chainrelief-go/config"
	"github.com/2HgO/chainrelief-go/errors"
	"github.com/2HgO/chainrelief-go/models"
	"github.com/2HgO/chainrelief-go/sideshift"
	"github.com/2HgO/chainrelief-go/types/requests"
	"github.com/2HgO/chainrelief-go/types/responses"
	"github.com/lucsky/cuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultQuoteTTL         = 5 * time.Minute
	estimatedSettlementTime = "2-5 minutes"
	liveModeDisabled        = "live mode disabled"
)

var defaultNetworkFee = decimal.RequireFromString("0.001")

// networkFees is keyed by deposit asset id.
var networkFees = map[string]decimal.Decimal{
	"eth-mainnet":    decimal.RequireFromString("0.005"),
	"btc-mainnet":    decimal.RequireFromString("0.0001"),
	"usdc-ethereum":  decimal.NewFromInt(5),
	"usdt-ethereum":  decimal.NewFromInt(5),
	"dai-ethereum":   decimal.RequireFromString("0.01"),
	"matic-polygon":  decimal.RequireFromString("0.1"),
	"bnb-bsc":        decimal.RequireFromString("0.001"),
	"avax-avalanche": decimal.RequireFromString("0.01"),
}

type QuoteService interface {
	RequestQuote(ctx context.Context, req *requests.CreateQuoteRequest) (*models.QuoteResult, error)
	PreviewQuote(ctx context.Context, clientID string, req *requests.CreateQuoteRequest) (*models.QuoteResult, error)
	GetQuote(ctx context.Context, req *requests.FetchQuoteRequest) (*models.Quote, error)
	ExchangeRates() responses.ExchangeRatesResponseData
	SweepExpired() int
}

func NewQuoteService(cfg *config.Config, client *sideshift.Client, prices PriceEstimator, log *zap.Logger) QuoteService {
	return &quoteService{
		service: service{
			config: cfg,
			client: client,
			prices: prices,
			log:    log,
			now:    time.Now,
		},
		issued:  make(map[string]*models.Quote),
		preview: make(map[string]uint64),
	}
}

type quoteService struct {
	service

	sequence atomic.Uint64

	mu      sync.RWMutex
	issued  map[string]*models.Quote
	preview map[string]uint64
}

func (q *quoteService) ttl() time.Duration {
	if q.config.Quote.TTL > 0 {
		return q.config.Quote.TTL
	}
	return defaultQuoteTTL
}

func (q *quoteService) commission() decimal.Decimal {
	return decimal.NewFromFloat(q.config.CommissionRate)
}

func validateQuoteRequest(req *requests.CreateQuoteRequest) error {
	switch {
	case req == nil:
		return errors.NewValidationError("quote request is required")
	case strings.TrimSpace(req.DepositAsset) == "":
		return errors.NewValidationError("deposit_asset is required")
	case strings.TrimSpace(req.DepositNetwork) == "":
		return errors.NewValidationError("deposit_network is required")
	case strings.TrimSpace(req.SettleAsset) == "":
		return errors.NewValidationError("settle_asset is required")
	case strings.TrimSpace(req.SettleNetwork) == "":
		return errors.NewValidationError("settle_network is required")
	case !req.DepositAmount.IsPositive():
		return errors.NewValidationError("deposit_amount must be greater than 0")
	}
	return nil
}

func (q *quoteService) RequestQuote(ctx context.Context, req *requests.CreateQuoteRequest) (*models.QuoteResult, error) {
	return q.issue(ctx, req, q.sequence.Add(1))
}

// PreviewQuote behaves like RequestQuote but marks a response as superseded when
// the same client issued a newer preview while this one was in flight.
func (q *quoteService) PreviewQuote(ctx context.Context, clientID string, req *requests.CreateQuoteRequest) (*models.QuoteResult, error) {
	seq := q.sequence.Add(1)

	q.mu.Lock()
	q.preview[clientID] = seq
	q.mu.Unlock()

	result, err := q.issue(ctx, req, seq)
	if err != nil {
		return nil, err
	}

	q.mu.RLock()
	result.Superseded = q.preview[clientID] != seq
	q.mu.RUnlock()
	return result, nil
}

func (q *quoteService) issue(ctx context.Context, req *requests.CreateQuoteRequest, seq uint64) (*models.QuoteResult, error) {
	if err := validateQuoteRequest(req); err != nil {
		return nil, err
	}

	var result *models.QuoteResult
	if q.config.LiveMode() {
		quote, err := q.liveQuote(ctx, req)
		switch {
		case err == nil:
			result = &models.QuoteResult{Source: models.SourceLive, Quote: quote}
		case !q.config.SideShift.FallbackEnabled:
			return nil, errors.NewQuoteError("swap provider could not issue a quote", err)
		default:
			q.log.Warn("swap provider quote failed, using simulated quote",
				zap.String("deposit_asset", req.DepositAsset),
				zap.String("settle_asset", req.SettleAsset),
				zap.Error(err),
			)
			result = &models.QuoteResult{Source: models.SourceSimulated, FallbackReason: err.Error(), Quote: q.mockQuote(req)}
		}
	} else {
		result = &models.QuoteResult{Source: models.SourceSimulated, FallbackReason: liveModeDisabled, Quote: q.mockQuote(req)}
	}

	result.Quote.Sequence = seq

	q.mu.Lock()
	q.issued[result.Quote.ID] = result.Quote
	q.mu.Unlock()

	return result, nil
}

// providerCoin turns "usdc-ethereum" or "USDC" into the provider's coin code.
func providerCoin(assetID string) string {
	coin, _, _ := strings.Cut(assetID, "-")
	return strings.ToLower(coin)
}

func (q *quoteService) liveQuote(ctx context.Context, req *requests.CreateQuoteRequest) (*models.Quote, error) {
	res, err := q.client.RequestQuote(ctx, &sideshift.QuoteRequest{
		DepositCoin:    providerCoin(req.DepositAsset),
		DepositNetwork: strings.ToLower(req.DepositNetwork),
		SettleCoin:     providerCoin(req.SettleAsset),
		SettleNetwork:  strings.ToLower(req.SettleNetwork),
		DepositAmount:  req.DepositAmount.String(),
	})
	if err != nil {
		return nil, err
	}

	now := q.now()
	quote := &models.Quote{
		ID:                      res.ID,
		DepositAsset:            req.DepositAsset,
		DepositNetwork:          req.DepositNetwork,
		SettleAsset:             req.SettleAsset,
		SettleNetwork:           req.SettleNetwork,
		DepositAmount:           res.DepositAmount,
		SettleAmount:            res.SettleAmount,
		Rate:                    res.Rate,
		DepositAddress:          res.DepositAddress,
		Memo:                    res.Memo,
		EstimatedSettlementTime: estimatedSettlementTime,
		CreatedAt:               now,
		ExpiresAt:               now.Add(q.ttl()),
	}
	if quote.DepositAmount.IsZero() {
		quote.DepositAmount = req.DepositAmount
	}
	if res.CreatedAt != nil {
		quote.CreatedAt = *res.CreatedAt
	}
	if res.ExpiresAt != nil {
		quote.ExpiresAt = *res.ExpiresAt
	}
	if !quote.ExpiresAt.After(quote.CreatedAt) {
		return nil, fmt.Errorf("provider quote %s expires at %s, before it was created", res.ID, quote.ExpiresAt)
	}
	if res.Fee != nil {
		quote.Fee = *res.Fee
	} else {
		quote.Fee = quote.DepositAmount.Mul(q.commission())
	}
	if res.NetworkFee != nil {
		quote.NetworkFee = *res.NetworkFee
	}
	return quote, nil
}

func (q *quoteService) mockQuote(req *requests.CreateQuoteRequest) *models.Quote {
	depositRate, _ := q.prices.USDRate(req.DepositAsset)
	settleRate, _ := q.prices.USDRate(req.SettleAsset)
	rate := depositRate
	if !settleRate.IsZero() {
		rate = depositRate.Div(settleRate)
	}

	commission := q.commission()
	places := int32(8)
	if q.prices.IsStablecoin(req.SettleAsset) {
		places = 6
	}
	settleAmount := req.DepositAmount.Mul(rate).Mul(decimal.NewFromInt(1).Sub(commission)).Truncate(places)

	networkFee, ok := networkFees[strings.ToLower(req.DepositAsset)]
	if !ok {
		networkFee = defaultNetworkFee
	}

	now := q.now()
	return &models.Quote{
		ID:                      "quote_" + cuid.New(),
		DepositAsset:            req.DepositAsset,
		DepositNetwork:          req.DepositNetwork,
		SettleAsset:             req.SettleAsset,
		SettleNetwork:           req.SettleNetwork,
		DepositAmount:           req.DepositAmount,
		SettleAmount:            settleAmount,
		Rate:                    rate,
		Fee:                     req.DepositAmount.Mul(commission),
		NetworkFee:              networkFee,
		DepositAddress:          q.depositAddress(req),
		EstimatedSettlementTime: estimatedSettlementTime,
		CreatedAt:               now,
		ExpiresAt:               now.Add(q.ttl()),
	}
}

func (q *quoteService) depositAddress(req *requests.CreateQuoteRequest) string {
	prefix := "0x"
	if strings.EqualFold(req.DepositNetwork, "bitcoin") || q.prices.Symbol(req.DepositAsset) == "BTC" {
		prefix = "1"
	}
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		panic(errors.NewFatalError(err))
	}
	return prefix + hex.EncodeToString(buf)
}

func (q *quoteService) GetQuote(ctx context.Context, req *requests.FetchQuoteRequest) (*models.Quote, error) {
	q.mu.RLock()
	quote, ok := q.issued[req.QuoteID]
	q.mu.RUnlock()
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("quote %s not found", req.QuoteID))
	}
	if quote.Expired(q.now()) {
		return nil, errors.NewQuoteExpiredError(req.QuoteID)
	}
	cp := *quote
	return &cp, nil
}

// SweepExpired drops every quote past its expiry and reports how many were removed.
func (q *quoteService) SweepExpired() int {
	now := q.now()
	q.mu.Lock()
	defer q.mu.Unlock()

	removed := 0
	for id, quote := range q.issued {
		if quote.Expired(now) {
			delete(q.issued, id)
			removed++
		}
	}
	return removed
}

func (q *quoteService) ExchangeRates() responses.ExchangeRatesResponseData {
	rates := q.prices.Rates()
	anchor, ok := rates["USDC"]
	if !ok || anchor.IsZero() {
		anchor = decimal.NewFromInt(1)
	}
	out := make(responses.ExchangeRatesResponseData, len(rates))
	for symbol, rate := range rates {
		if symbol == "USDC" {
			continue
		}
		out[symbol+"-USDC"] = rate.Div(anchor)
	}
	return out
}
