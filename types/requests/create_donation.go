package requests

import "github.com/shopspring/decimal"

type CreateDonationRequest struct {
	CampaignID       string          `json:"campaign_id" validate:"required"`
	AssetID          string          `json:"asset_id" validate:"required"`
	Amount           decimal.Decimal `json:"amount" validate:"gt=0"`
	RecipientAddress string          `json:"recipient_address" validate:"required,min=10"`
	QuoteID          string          `json:"quote_id,omitempty"`
}

type CreateDonationBatchRequest struct {
	Donations []CreateDonationRequest `json:"donations" validate:"required,min=1"`
}
