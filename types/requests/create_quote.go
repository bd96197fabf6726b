package requests

import "github.com/shopspring/decimal"

type CreateQuoteRequest struct {
	DepositAsset   string          `json:"deposit_asset" validate:"required"`
	DepositNetwork string          `json:"deposit_network" validate:"required"`
	SettleAsset    string          `json:"settle_asset" validate:"required"`
	SettleNetwork  string          `json:"settle_network" validate:"required"`
	DepositAmount  decimal.Decimal `json:"deposit_amount" validate:"gt=0"`
	ClientID       string          `json:"-" header:"X-Client-ID"`
}
