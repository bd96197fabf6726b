package sideshift

import (
	"time"

	"github.com/shopspring/decimal"
)

// TokenDetails holds per-network contract information for a coin.
type TokenDetails struct {
	ContractAddress string `json:"contractAddress"`
	Decimals        int    `json:"decimals"`
}

type Coin struct {
	ID              string                  `json:"id,omitempty"`
	Coin            string                  `json:"coin"`
	Name            string                  `json:"name"`
	Symbol          string                  `json:"symbol,omitempty"`
	Network         string                  `json:"network,omitempty"`
	Networks        []string                `json:"networks,omitempty"`
	Decimals        int                     `json:"decimals,omitempty"`
	Type            string                  `json:"type,omitempty"`
	ContractAddress string                  `json:"contractAddress,omitempty"`
	TokenDetails    map[string]TokenDetails `json:"tokenDetails,omitempty"`
}

type QuoteRequest struct {
	DepositCoin    string `json:"depositCoin"`
	DepositNetwork string `json:"depositNetwork"`
	SettleCoin     string `json:"settleCoin"`
	SettleNetwork  string `json:"settleNetwork"`
	DepositAmount  string `json:"depositAmount"`
	AffiliateID    string `json:"affiliateId,omitempty"`
}

type Quote struct {
	ID             string           `json:"id"`
	CreatedAt      *time.Time       `json:"createdAt,omitempty"`
	DepositCoin    string           `json:"depositCoin"`
	SettleCoin     string           `json:"settleCoin"`
	DepositNetwork string           `json:"depositNetwork"`
	SettleNetwork  string           `json:"settleNetwork"`
	ExpiresAt      *time.Time       `json:"expiresAt,omitempty"`
	DepositAmount  decimal.Decimal  `json:"depositAmount"`
	SettleAmount   decimal.Decimal  `json:"settleAmount"`
	Rate           decimal.Decimal  `json:"rate"`
	Fee            *decimal.Decimal `json:"fee,omitempty"`
	NetworkFee     *decimal.Decimal `json:"networkFee,omitempty"`
	DepositAddress string           `json:"depositAddress,omitempty"`
	Memo           *string          `json:"memo,omitempty"`
	AffiliateID    string           `json:"affiliateId,omitempty"`
}

type ShiftRequest struct {
	QuoteID     string `json:"quoteId"`
	ToAddress   string `json:"toAddress"`
	AffiliateID string `json:"affiliateId,omitempty"`
}

type Shift struct {
	ID             string           `json:"id"`
	Status         string           `json:"status"`
	QuoteID        string           `json:"quoteId,omitempty"`
	DepositAddress string           `json:"depositAddress,omitempty"`
	SettleAddress  string           `json:"settleAddress,omitempty"`
	DepositHash    string           `json:"depositHash,omitempty"`
	SettleHash     string           `json:"settleHash,omitempty"`
	DepositAmount  *decimal.Decimal `json:"depositAmount,omitempty"`
	SettleAmount   *decimal.Decimal `json:"settleAmount,omitempty"`
	CreatedAt      *time.Time       `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time       `json:"updatedAt,omitempty"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}
