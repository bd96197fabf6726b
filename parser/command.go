package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var quotePattern = regexp.MustCompile(`^(\d+\.?\d*)\s+([A-Z0-9]+)\s+TO\s+([A-Z0-9]+)$`)

// QuoteCommand is a parsed "<amount> <asset> to <asset>" request.
type QuoteCommand struct {
	Amount       decimal.Decimal
	DepositAsset string
	SettleAsset  string
}

// ParseQuoteCommand parses commands such as "quote 1 ETH to USDC" or "0.5 btc to usdc".
// Asset symbols are returned upper-cased.
func ParseQuoteCommand(command string) (*QuoteCommand, error) {
	command = strings.Join(strings.Fields(strings.ToUpper(command)), " ")
	command = strings.TrimPrefix(command, "QUOTE ")

	matches := quotePattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, fmt.Errorf("invalid quote command format. Expected: '<amount> <asset> to <asset>' (e.g. '1 ETH to USDC')")
	}

	amount, err := decimal.NewFromString(matches[1])
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", matches[1], err)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be greater than zero")
	}
	if matches[2] == matches[3] {
		return nil, fmt.Errorf("deposit and settle asset must differ")
	}

	return &QuoteCommand{
		Amount:       amount,
		DepositAsset: NormalizeSymbol(matches[2]),
		SettleAsset:  NormalizeSymbol(matches[3]),
	}, nil
}

var aliases = map[string]string{
	"WBTC": "BTC",
	"WETH": "ETH",
	"POL":  "MATIC",
}

// NormalizeSymbol upper-cases symbol and resolves wrapped or renamed tickers.
func NormalizeSymbol(symbol string) string {
	symbol = strings.TrimSpace(strings.ToUpper(symbol))
	if normalized, ok := aliases[symbol]; ok {
		return normalized
	}
	return symbol
}
