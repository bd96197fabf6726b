package responses

import "github.com/shopspring/decimal"

type ExchangeRatesResponseData map[string]decimal.Decimal
