package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/2HgO/chainrelief-go/config"
	"github.com/2HgO/chainrelief-go/errors"
	"github.com/2HgO/chainrelief-go/models"
	"github.com/2HgO/chainrelief-go/types/requests"
	"github.com/2HgO/chainrelief-go/types/responses"
	"github.com/2HgO/chainrelief-go/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	largeDonationUSD     = 100000
	rapidDonationWindow  = time.Minute
	rapidDonationLimit   = 5
	stablecoinAnchor     = "USDC"
	defaultVerifyBaseURL = "https://chainrelief.vercel.app/verify"
)

type DonationService interface {
	CreateDonation(ctx context.Context, req *requests.CreateDonationRequest) (*models.Donation, error)
	UpdateDonationStatus(id string, status models.DonationStatus, settlement *models.Settlement) (*models.Donation, error)
	ConfirmDonation(ctx context.Context, req *requests.ConfirmDonationRequest) (*models.Donation, error)
	GetDonation(ctx context.Context, req *requests.FetchDonationRequest) (*models.Donation, error)
	ListDonations(ctx context.Context, req *requests.FetchDonationsRequest) ([]*models.Donation, error)
	DonationStats(ctx context.Context) *responses.DonationStatsResponseData
	CampaignStats(ctx context.Context, req *requests.FetchCampaignRequest) (*responses.CampaignStatsResponseData, error)
	CheckFraud(ctx context.Context, req *requests.FetchDonationRequest) (*responses.FraudCheckResponseData, error)
	ProcessBatch(ctx context.Context, req *requests.CreateDonationBatchRequest) []responses.BatchItemResponseData
	GenerateReceipt(ctx context.Context, req *requests.FetchDonationRequest) (*responses.ReceiptResponseData, error)
	ExportDonations(ctx context.Context, req *requests.ExportDonationsRequest) ([]byte, error)
}

func NewDonationService(
	cfg *config.Config,
	prices PriceEstimator,
	quotes QuoteService,
	swaps SwapService,
	metrics MetricsService,
	campaigns CampaignService,
	scheduler SchedulerService,
	log *zap.Logger,
) DonationService {
	return &donationService{
		service: service{
			config:    cfg,
			prices:    prices,
			quotes:    quotes,
			swaps:     swaps,
			metrics:   metrics,
			campaigns: campaigns,
			scheduler: scheduler,
			log:       log,
			now:       time.Now,
		},
		byID:       make(map[string]*models.Donation),
		confirming: make(map[string]bool),
	}
}

type donationService struct {
	service

	mu         sync.RWMutex
	donations  []*models.Donation
	byID       map[string]*models.Donation
	confirming map[string]bool
}

// impactFor prefers the quoted settle amount when the quote settles into the
// stablecoin anchor, otherwise it falls back to the price table.
func (d *donationService) impactFor(quote *models.Quote, assetID string, amount decimal.Decimal) models.Impact {
	if quote != nil && d.prices.Symbol(quote.SettleAsset) == stablecoinAnchor {
		return models.NewImpact(quote.SettleAmount)
	}
	return models.NewImpact(d.prices.EstimateUSDValue(assetID, amount))
}

// quoteCovers reports a ValidationError unless quote deposits exactly the donated asset and amount.
func (d *donationService) quoteCovers(quote *models.Quote, assetID string, amount decimal.Decimal) error {
	quoted, donated := d.prices.Symbol(quote.DepositAsset), d.prices.Symbol(assetID)
	if quoted == "" || donated == "" {
		quoted, donated = providerCoin(quote.DepositAsset), providerCoin(assetID)
	}
	if quoted != donated {
		return errors.NewValidationError(fmt.Sprintf("quote %s deposits %s, donation is in %s", quote.ID, quote.DepositAsset, assetID))
	}
	if !quote.DepositAmount.Equal(amount) {
		return errors.NewValidationError(fmt.Sprintf("quote %s deposits %s, donation amount is %s", quote.ID, quote.DepositAmount, amount))
	}
	return nil
}

func (d *donationService) CreateDonation(ctx context.Context, req *requests.CreateDonationRequest) (*models.Donation, error) {
	if req == nil {
		return nil, errors.NewValidationError("donation request is required")
	}
	if err := utils.Validator.Validate(req); err != nil {
		return nil, errors.HandleBindError(err)
	}
	if _, err := d.campaigns.GetCampaign(&requests.FetchCampaignRequest{CampaignID: req.CampaignID}); err != nil {
		return nil, err
	}

	var quote *models.Quote
	if req.QuoteID != "" {
		q, err := d.quotes.GetQuote(ctx, &requests.FetchQuoteRequest{QuoteID: req.QuoteID})
		if err != nil {
			return nil, err
		}
		if err := d.quoteCovers(q, req.AssetID, req.Amount); err != nil {
			return nil, err
		}
		quote = q
	}

	now := d.now()
	donation := &models.Donation{
		ID:               uuid.NewString(),
		CampaignID:       req.CampaignID,
		AssetID:          req.AssetID,
		Amount:           req.Amount,
		RecipientAddress: req.RecipientAddress,
		Quote:            quote,
		Status:           models.DonationPending,
		Impact:           d.impactFor(quote, req.AssetID, req.Amount),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	d.mu.Lock()
	d.donations = append(d.donations, donation)
	d.byID[donation.ID] = donation
	cp := *donation
	d.mu.Unlock()

	d.log.Info("donation created",
		zap.String("donation_id", donation.ID),
		zap.String("campaign_id", donation.CampaignID),
		zap.String("usd_value", donation.Impact.USDValue.String()),
	)
	return &cp, nil
}

func (d *donationService) UpdateDonationStatus(id string, status models.DonationStatus, settlement *models.Settlement) (*models.Donation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	donation, ok := d.byID[id]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("donation %s not found", id))
	}
	donation.Status = status
	donation.UpdatedAt = d.now()
	if settlement != nil {
		donation.Settlement = settlement
		txID := settlement.TransactionID
		donation.TransactionHash = &txID
	}
	cp := *donation
	return &cp, nil
}

// ConfirmDonation executes the swap for a pending donation and settles its status.
func (d *donationService) ConfirmDonation(ctx context.Context, req *requests.ConfirmDonationRequest) (*models.Donation, error) {
	start := time.Now()

	d.mu.Lock()
	donation, ok := d.byID[req.DonationID]
	switch {
	case !ok:
		d.mu.Unlock()
		return nil, errors.NewNotFoundError(fmt.Sprintf("donation %s not found", req.DonationID))
	case donation.Status != models.DonationPending || donation.Settlement != nil:
		d.mu.Unlock()
		return nil, errors.NewValidationError(fmt.Sprintf("donation %s has already been submitted", req.DonationID))
	case d.confirming[req.DonationID]:
		d.mu.Unlock()
		return nil, errors.NewValidationError(fmt.Sprintf("donation %s is already being confirmed", req.DonationID))
	}
	d.confirming[req.DonationID] = true
	recipient := donation.RecipientAddress
	assetID, amount := donation.AssetID, donation.Amount
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		delete(d.confirming, req.DonationID)
		d.mu.Unlock()
	}()

	quote, err := d.quotes.GetQuote(ctx, &requests.FetchQuoteRequest{QuoteID: req.QuoteID})
	if err != nil {
		return nil, err
	}
	if err := d.quoteCovers(quote, assetID, amount); err != nil {
		return nil, err
	}

	// a rejected swap leaves the donation pending; the quote id is released for a retry
	result, err := d.swaps.ExecuteSwap(ctx, quote, recipient)
	if err != nil {
		if errors.IsType(err, errors.ErrSwapExecution) {
			d.log.Warn("swap rejected, donation stays pending",
				zap.String("donation_id", req.DonationID),
				zap.String("quote_id", quote.ID),
				zap.Error(err),
			)
		}
		return nil, err
	}

	d.mu.Lock()
	donation.Quote = quote
	donation.Impact = d.impactFor(quote, donation.AssetID, donation.Amount)
	d.mu.Unlock()

	settlement := result.Settlement
	var updated *models.Donation
	switch settlement.Status {
	case models.SettlementCompleted:
		updated, err = d.UpdateDonationStatus(req.DonationID, models.DonationCompleted, settlement)
		if err == nil {
			d.metrics.RecordCompletedDonation(updated)
		}
	case models.SettlementFailed:
		updated, err = d.UpdateDonationStatus(req.DonationID, models.DonationFailed, settlement)
	default:
		updated, err = d.UpdateDonationStatus(req.DonationID, models.DonationPending, settlement)
		if err == nil {
			d.scheduler.WatchSettlement(settlement.ID, d.settle(req.DonationID))
		}
	}
	if err != nil {
		return nil, err
	}

	d.metrics.TrackPerformance(OperationDonationProcessing, time.Since(start))
	return updated, nil
}

// settle completes a donation once its polled settlement is terminal.
func (d *donationService) settle(donationID string) func(*models.Settlement) {
	return func(settlement *models.Settlement) {
		status := models.DonationFailed
		if settlement.Status == models.SettlementCompleted {
			status = models.DonationCompleted
		}
		donation, err := d.UpdateDonationStatus(donationID, status, settlement)
		if err != nil {
			d.log.Error("settling donation", zap.String("donation_id", donationID), zap.Error(err))
			return
		}
		if status == models.DonationCompleted {
			d.metrics.RecordCompletedDonation(donation)
		}
	}
}

func (d *donationService) GetDonation(ctx context.Context, req *requests.FetchDonationRequest) (*models.Donation, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	donation, ok := d.byID[req.DonationID]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("donation %s not found", req.DonationID))
	}
	cp := *donation
	return &cp, nil
}

func (d *donationService) ListDonations(ctx context.Context, req *requests.FetchDonationsRequest) ([]*models.Donation, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]*models.Donation, 0, len(d.donations))
	for _, donation := range d.donations {
		if req != nil && req.CampaignID != "" && donation.CampaignID != req.CampaignID {
			continue
		}
		cp := *donation
		out = append(out, &cp)
	}
	return out, nil
}

func (d *donationService) DonationStats(ctx context.Context) *responses.DonationStatsResponseData {
	d.mu.RLock()
	defer d.mu.RUnlock()

	stats := &responses.DonationStatsResponseData{
		TotalDonations: len(d.donations),
		TotalAmountUSD: decimal.Zero,
		SuccessRate:    decimal.Zero,
	}
	for _, donation := range d.donations {
		stats.TotalAmountUSD = stats.TotalAmountUSD.Add(donation.Impact.USDValue)
		switch donation.Status {
		case models.DonationCompleted:
			stats.SuccessfulDonations++
		case models.DonationPending:
			stats.PendingDonations++
		case models.DonationFailed:
			stats.FailedDonations++
		}
	}
	if stats.TotalDonations > 0 {
		stats.SuccessRate = decimal.NewFromInt(int64(stats.SuccessfulDonations)).
			Div(decimal.NewFromInt(int64(stats.TotalDonations))).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	return stats
}

func (d *donationService) CampaignStats(ctx context.Context, req *requests.FetchCampaignRequest) (*responses.CampaignStatsResponseData, error) {
	campaign, err := d.campaigns.GetCampaign(req)
	if err != nil {
		return nil, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	stats := &responses.CampaignStatsResponseData{
		CampaignID:      campaign.ID,
		TotalAmountUSD:  decimal.Zero,
		AverageDonation: decimal.Zero,
		Progress:        campaign.Progress(),
	}
	for _, donation := range d.donations {
		if donation.CampaignID != campaign.ID {
			continue
		}
		stats.TotalDonations++
		stats.TotalAmountUSD = stats.TotalAmountUSD.Add(donation.Impact.USDValue)
		stats.LivesImpacted += donation.Impact.LivesImpacted
		stats.MealsProvided += donation.Impact.MealsProvided
	}
	if stats.TotalDonations > 0 {
		stats.AverageDonation = stats.TotalAmountUSD.Div(decimal.NewFromInt(int64(stats.TotalDonations))).Round(2)
	}
	return stats, nil
}

func (d *donationService) CheckFraud(ctx context.Context, req *requests.FetchDonationRequest) (*responses.FraudCheckResponseData, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	donation, ok := d.byID[req.DonationID]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("donation %s not found", req.DonationID))
	}

	warnings := []string{}
	if donation.Impact.USDValue.GreaterThan(decimal.NewFromInt(largeDonationUSD)) {
		warnings = append(warnings, "Large donation detected - manual review recommended")
	}

	now := d.now()
	recent := 0
	for _, other := range d.donations {
		if other.RecipientAddress == donation.RecipientAddress && now.Sub(other.CreatedAt) < rapidDonationWindow {
			recent++
		}
	}
	if recent > rapidDonationLimit {
		warnings = append(warnings, "Rapid successive donations detected")
	}

	return &responses.FraudCheckResponseData{
		DonationID: donation.ID,
		IsValid:    len(warnings) == 0,
		Warnings:   warnings,
	}, nil
}

func (d *donationService) ProcessBatch(ctx context.Context, req *requests.CreateDonationBatchRequest) []responses.BatchItemResponseData {
	results := make([]responses.BatchItemResponseData, 0, len(req.Donations))
	for i := range req.Donations {
		donation, err := d.CreateDonation(ctx, &req.Donations[i])
		if err != nil {
			appErr := errors.AsAppError(err)
			results = append(results, responses.BatchItemResponseData{Index: i, Error: &appErr})
			continue
		}
		results = append(results, responses.BatchItemResponseData{Index: i, Success: true, Donation: donation})
	}
	return results
}

func (d *donationService) GenerateReceipt(ctx context.Context, req *requests.FetchDonationRequest) (*responses.ReceiptResponseData, error) {
	donation, err := d.GetDonation(ctx, req)
	if err != nil {
		return nil, err
	}

	taxDeductible := false
	if campaign, err := d.campaigns.GetCampaign(&requests.FetchCampaignRequest{CampaignID: donation.CampaignID}); err == nil {
		taxDeductible = campaign.TaxDeductible
	}

	base := defaultVerifyBaseURL
	if d.config != nil && d.config.VerificationBaseURL != "" {
		base = d.config.VerificationBaseURL
	}

	return &responses.ReceiptResponseData{
		ReceiptID:       "receipt_" + donation.ID,
		Donation:        donation,
		Timestamp:       donation.CreatedAt.UTC(),
		BlockchainHash:  donation.TransactionHash,
		Impact:          donation.Impact,
		TaxDeductible:   taxDeductible,
		VerificationURL: strings.TrimSuffix(base, "/") + "/" + donation.ID,
	}, nil
}

type donationExport struct {
	ID              string          `json:"id"`
	CampaignID      string          `json:"campaign_id"`
	Amount          decimal.Decimal `json:"amount"`
	Asset           string          `json:"asset"`
	USDValue        decimal.Decimal `json:"usd_value"`
	Status          string          `json:"status"`
	Timestamp       string          `json:"timestamp"`
	TransactionHash string          `json:"transaction_hash"`
}

func (d *donationService) ExportDonations(ctx context.Context, req *requests.ExportDonationsRequest) ([]byte, error) {
	d.mu.RLock()
	rows := make([]donationExport, 0, len(d.donations))
	for _, donation := range d.donations {
		row := donationExport{
			ID:         donation.ID,
			CampaignID: donation.CampaignID,
			Amount:     donation.Amount,
			Asset:      donation.AssetID,
			USDValue:   donation.Impact.USDValue,
			Status:     string(donation.Status),
			Timestamp:  donation.CreatedAt.UTC().Format(time.RFC3339),
		}
		if donation.TransactionHash != nil {
			row.TransactionHash = *donation.TransactionHash
		}
		rows = append(rows, row)
	}
	d.mu.RUnlock()

	switch req.Format {
	case "", "json":
		return json.MarshalIndent(rows, "", "  ")
	case "csv":
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.Write([]string{"id", "campaign_id", "amount", "asset", "usd_value", "status", "timestamp", "transaction_hash"}); err != nil {
			return nil, err
		}
		for _, row := range rows {
			record := []string{row.ID, row.CampaignID, row.Amount.String(), row.Asset, row.USDValue.String(), row.Status, row.Timestamp, row.TransactionHash}
			if err := w.Write(record); err != nil {
				return nil, err
			}
		}
		w.Flush()
		return buf.Bytes(), w.Error()
	default:
		return nil, errors.NewValidationError(fmt.Sprintf("unsupported export format %q", req.Format))
	}
}
