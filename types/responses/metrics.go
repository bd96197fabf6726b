package responses

import (
	"github.com/2HgO/chainrelief-go/models"
	"github.com/shopspring/decimal"
)

type MetricsResponseData struct {
	models.Metrics
	TotalAmountDisplay  string                 `json:"total_amount_display"`
	AverageDonationUSD  string                 `json:"average_donation_display"`
	SuccessfulSwapsText string                 `json:"successful_swaps_display"`
	Analytics           *AnalyticsResponseData `json:"analytics,omitempty"`
}

// AnalyticsResponseData is only populated when features.enable_analytics is on.
type AnalyticsResponseData struct {
	TopAssets           []AssetShareResponseData          `json:"top_assets"`
	CampaignPerformance []CampaignPerformanceResponseData `json:"campaign_performance"`
}

type AssetShareResponseData struct {
	Asset      string          `json:"asset"`
	AmountUSD  decimal.Decimal `json:"amount_usd"`
	Donations  int64           `json:"donations"`
	Percentage decimal.Decimal `json:"percentage"`
}

type CampaignPerformanceResponseData struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Raised      decimal.Decimal `json:"raised"`
	Target      decimal.Decimal `json:"target"`
	Donors      int64           `json:"donors"`
	AvgDonation decimal.Decimal `json:"avg_donation"`
}
