package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ApproximateAmount floors amount to the display precision of its currency.
func ApproximateAmount(currency string, amount decimal.Decimal) decimal.Decimal {
	switch strings.ToUpper(currency) {
	case "BTC":
		return amount.RoundFloor(8)
	case "ETH":
		return amount.RoundFloor(6)
	case "BNB":
		return amount.RoundFloor(5)
	case "MATIC", "AVAX":
		return amount.RoundFloor(4)
	default:
		return amount.RoundFloor(2)
	}
}
