package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type SettlementStatus string

const (
	SettlementPending   SettlementStatus = "pending"
	SettlementCompleted SettlementStatus = "completed"
	SettlementFailed    SettlementStatus = "failed"
)

func (s SettlementStatus) Terminal() bool {
	return s == SettlementCompleted || s == SettlementFailed
}

type Settlement struct {
	ID               string           `json:"id"`
	QuoteID          string           `json:"quote_id"`
	Status           SettlementStatus `json:"status"`
	TransactionID    string           `json:"transaction_id"`
	DepositHash      string           `json:"deposit_hash,omitempty"`
	SettleHash       string           `json:"settle_hash,omitempty"`
	DepositAddress   string           `json:"deposit_address,omitempty"`
	RecipientAddress string           `json:"recipient_address"`
	DepositAmount    decimal.Decimal  `json:"deposit_amount"`
	SettleAmount     decimal.Decimal  `json:"settle_amount"`
	DepositAsset     string           `json:"deposit_asset"`
	SettleAsset      string           `json:"settle_asset"`
	Rate             decimal.Decimal  `json:"rate"`
	Fee              decimal.Decimal  `json:"fee"`
	NetworkFee       decimal.Decimal  `json:"network_fee"`
	USDValue         decimal.Decimal  `json:"usd_value"`
	Source           Source           `json:"source"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	EstimatedArrival time.Time        `json:"estimated_arrival"`
}

type SettlementResult struct {
	Source         Source      `json:"source"`
	FallbackReason string      `json:"fallback_reason,omitempty"`
	Settlement     *Settlement `json:"settlement"`
}

func (r *SettlementResult) IsLive() bool {
	return r.Source == SourceLive
}
