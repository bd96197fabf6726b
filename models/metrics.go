package models

import "github.com/shopspring/decimal"

type Metrics struct {
	TotalDonations  int64           `json:"total_donations"`
	TotalAmountUSD  decimal.Decimal `json:"total_amount_usd"`
	SuccessfulSwaps int64           `json:"successful_swaps"`
	LivesImpacted   int64           `json:"lives_impacted"`
	ActiveCampaigns int             `json:"active_campaigns"`
	ResponseTimeMS  int64           `json:"response_time_ms"`
}
