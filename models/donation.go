package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DonationStatus string

const (
	DonationPending   DonationStatus = "pending"
	DonationCompleted DonationStatus = "completed"
	DonationFailed    DonationStatus = "failed"
)

type Donation struct {
	ID               string          `json:"id"`
	CampaignID       string          `json:"campaign_id"`
	AssetID          string          `json:"asset_id"`
	Amount           decimal.Decimal `json:"amount"`
	RecipientAddress string          `json:"recipient_address"`
	Quote            *Quote          `json:"quote,omitempty"`
	Status           DonationStatus  `json:"status"`
	TransactionHash  *string         `json:"transaction_hash"`
	Settlement       *Settlement     `json:"settlement,omitempty"`
	Impact           Impact          `json:"impact"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
