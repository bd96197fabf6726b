package responses

import (
	"time"

	"github.com/2HgO/chainrelief-go/errors"
	"github.com/2HgO/chainrelief-go/models"
	"github.com/shopspring/decimal"
)

type DonationStatsResponseData struct {
	TotalDonations      int             `json:"total_donations"`
	TotalAmountUSD      decimal.Decimal `json:"total_amount_usd"`
	SuccessfulDonations int             `json:"successful_donations"`
	PendingDonations    int             `json:"pending_donations"`
	FailedDonations     int             `json:"failed_donations"`
	SuccessRate         decimal.Decimal `json:"success_rate"`
}

type CampaignStatsResponseData struct {
	CampaignID      string          `json:"campaign_id"`
	TotalDonations  int             `json:"total_donations"`
	TotalAmountUSD  decimal.Decimal `json:"total_amount_usd"`
	LivesImpacted   int64           `json:"lives_impacted"`
	MealsProvided   int64           `json:"meals_provided"`
	AverageDonation decimal.Decimal `json:"average_donation"`
	Progress        decimal.Decimal `json:"progress"`
}

type FraudCheckResponseData struct {
	DonationID string   `json:"donation_id"`
	IsValid    bool     `json:"is_valid"`
	Warnings   []string `json:"warnings"`
}

type BatchItemResponseData struct {
	Index    int              `json:"index"`
	Success  bool             `json:"success"`
	Donation *models.Donation `json:"donation,omitempty"`
	Error    *errors.AppError `json:"error,omitempty"`
}

type ReceiptResponseData struct {
	ReceiptID       string           `json:"receipt_id"`
	Donation        *models.Donation `json:"donation"`
	Timestamp       time.Time        `json:"timestamp"`
	BlockchainHash  *string          `json:"blockchain_hash"`
	Impact          models.Impact    `json:"impact"`
	TaxDeductible   bool             `json:"tax_deductible"`
	VerificationURL string           `json:"verification_url"`
}
