package services

import (
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultRates is the USD-per-unit table used when no live pricing is available.
var DefaultRates = map[string]decimal.Decimal{
	"ETH":   decimal.NewFromInt(3200),
	"BTC":   decimal.NewFromInt(65000),
	"USDC":  decimal.NewFromInt(1),
	"USDT":  decimal.NewFromInt(1),
	"DAI":   decimal.NewFromInt(1),
	"MATIC": decimal.RequireFromString("0.85"),
	"BNB":   decimal.NewFromInt(580),
	"AVAX":  decimal.NewFromInt(35),
}

// knownSymbols is checked in order when an identifier only contains a symbol.
var knownSymbols = []string{"ETH", "BTC", "USDC", "USDT", "DAI", "MATIC", "BNB", "AVAX"}

var stablecoins = map[string]bool{"USDC": true, "USDT": true, "DAI": true}

type PriceEstimator interface {
	EstimateUSDValue(assetID string, amount decimal.Decimal) decimal.Decimal
	USDRate(assetID string) (decimal.Decimal, bool)
	Symbol(assetID string) string
	IsStablecoin(assetID string) bool
	Rates() map[string]decimal.Decimal
}

func NewPriceEstimator(rates map[string]decimal.Decimal, log *zap.Logger) PriceEstimator {
	if rates == nil {
		rates = DefaultRates
	}
	table := make(map[string]decimal.Decimal, len(rates))
	for k, v := range rates {
		table[k] = v
	}
	return &priceEstimator{
		service: service{log: log},
		rates:   table,
	}
}

type priceEstimator struct {
	service
	rates map[string]decimal.Decimal
}

// Symbol resolves an asset identifier such as "eth", "ETH" or "usdc-ethereum"
// to a key of the rate table. Precedence: exact key, upper-cased key, the segment
// before the first "-", then the first known symbol contained in that segment and
// finally in the whole identifier, so "usdc-ethereum" is USDC rather than ETH and
// "wbtc-ethereum" is BTC. It returns "" when nothing matches.
func (p *priceEstimator) Symbol(assetID string) string {
	if _, ok := p.rates[assetID]; ok {
		return assetID
	}
	upper := strings.ToUpper(strings.TrimSpace(assetID))
	if _, ok := p.rates[upper]; ok {
		return upper
	}
	head, _, _ := strings.Cut(upper, "-")
	if _, ok := p.rates[head]; ok {
		return head
	}
	for _, candidate := range []string{head, upper} {
		for _, symbol := range knownSymbols {
			if strings.Contains(candidate, symbol) {
				if _, ok := p.rates[symbol]; ok {
					return symbol
				}
			}
		}
	}
	return ""
}

func (p *priceEstimator) USDRate(assetID string) (decimal.Decimal, bool) {
	symbol := p.Symbol(assetID)
	if symbol == "" {
		return decimal.NewFromInt(1), false
	}
	return p.rates[symbol], true
}

func (p *priceEstimator) IsStablecoin(assetID string) bool {
	return stablecoins[p.Symbol(assetID)]
}

// EstimateUSDValue never fails; unknown assets are valued at 1 USD per unit.
func (p *priceEstimator) EstimateUSDValue(assetID string, amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	rate, ok := p.USDRate(assetID)
	if !ok {
		p.log.Warn("no USD rate for asset, assuming 1.0", zap.String("asset", assetID))
	}
	return amount.Mul(rate)
}

func (p *priceEstimator) Rates() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(p.rates))
	for k, v := range p.rates {
		out[k] = v
	}
	return out
}
