package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Source tells whether a record came from the swap provider or was synthesized locally.
type Source string

const (
	SourceLive      Source = "live"
	SourceSimulated Source = "simulated"
)

type Quote struct {
	ID                      string          `json:"id"`
	Sequence                uint64          `json:"sequence"`
	DepositAsset            string          `json:"deposit_asset"`
	DepositNetwork          string          `json:"deposit_network"`
	SettleAsset             string          `json:"settle_asset"`
	SettleNetwork           string          `json:"settle_network"`
	DepositAmount           decimal.Decimal `json:"deposit_amount"`
	SettleAmount            decimal.Decimal `json:"settle_amount"`
	Rate                    decimal.Decimal `json:"rate"`
	Fee                     decimal.Decimal `json:"fee"`
	NetworkFee              decimal.Decimal `json:"network_fee"`
	DepositAddress          string          `json:"deposit_address"`
	Memo                    *string         `json:"memo,omitempty"`
	EstimatedSettlementTime string          `json:"estimated_settlement_time"`
	CreatedAt               time.Time       `json:"created_at"`
	ExpiresAt               time.Time       `json:"expires_at"`
}

// Expired reports whether the quote can no longer be executed at instant t.
func (q *Quote) Expired(t time.Time) bool {
	return !t.Before(q.ExpiresAt)
}

// TimeRemaining is the time-to-live left at instant t, never negative.
func (q *Quote) TimeRemaining(t time.Time) time.Duration {
	if q.Expired(t) {
		return 0
	}
	return q.ExpiresAt.Sub(t)
}

// QuoteResult tags a quote with where it came from so provider outages are not
// mistaken for normal operation.
type QuoteResult struct {
	Source         Source `json:"source"`
	FallbackReason string `json:"fallback_reason,omitempty"`
	Superseded     bool   `json:"superseded,omitempty"`
	Quote          *Quote `json:"quote"`
}

func (r *QuoteResult) IsLive() bool {
	return r.Source == SourceLive
}
