package services

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/2HgO/chainrelief-go/config"
	"github.com/2HgO/chainrelief-go/models"
	"github.com/2HgO/chainrelief-go/types/responses"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const OperationDonationProcessing = "donation_processing"

type MetricsService interface {
	RecordCompletedDonation(donation *models.Donation)
	TrackPerformance(operation string, duration time.Duration)
	Snapshot() *responses.MetricsResponseData
}

func NewMetricsService(cfg *config.Config, prices PriceEstimator, campaigns CampaignService, log *zap.Logger) MetricsService {
	return &metricsService{
		service:    service{config: cfg, prices: prices, campaigns: campaigns, log: log},
		printer:    message.NewPrinter(language.English),
		byAsset:    make(map[string]*tally),
		byCampaign: make(map[string]*tally),
	}
}

type tally struct {
	count int64
	usd   decimal.Decimal
}

func (t *tally) add(usd decimal.Decimal) {
	t.count++
	t.usd = t.usd.Add(usd)
}

type metricsService struct {
	service

	printer *message.Printer

	mu              sync.Mutex
	totalDonations  int64
	totalAmountUSD  decimal.Decimal
	successfulSwaps int64
	livesImpacted   int64
	responseTime    time.Duration
	byAsset         map[string]*tally
	byCampaign      map[string]*tally
}

func (m *metricsService) analyticsEnabled() bool {
	return m.config != nil && m.config.Features.EnableAnalytics
}

func (m *metricsService) assetSymbol(assetID string) string {
	if m.prices != nil {
		if symbol := m.prices.Symbol(assetID); symbol != "" {
			return symbol
		}
	}
	return strings.ToUpper(providerCoin(assetID))
}

func bump(tallies map[string]*tally, key string, usd decimal.Decimal) {
	t, ok := tallies[key]
	if !ok {
		t = &tally{}
		tallies[key] = t
	}
	t.add(usd)
}

// RecordCompletedDonation folds a completed donation into every counter at once.
func (m *metricsService) RecordCompletedDonation(donation *models.Donation) {
	if donation == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalDonations++
	m.totalAmountUSD = m.totalAmountUSD.Add(donation.Impact.USDValue)
	m.successfulSwaps++
	m.livesImpacted += donation.Impact.LivesImpacted
	bump(m.byAsset, m.assetSymbol(donation.AssetID), donation.Impact.USDValue)
	bump(m.byCampaign, donation.CampaignID, donation.Impact.USDValue)
}

func (m *metricsService) TrackPerformance(operation string, duration time.Duration) {
	m.log.Debug("performance", zap.String("operation", operation), zap.Duration("duration", duration))
	if operation != OperationDonationProcessing {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.responseTime == 0 {
		m.responseTime = duration
		return
	}
	m.responseTime = (m.responseTime + duration) / 2
}

func (m *metricsService) Snapshot() *responses.MetricsResponseData {
	m.mu.Lock()
	metrics := models.Metrics{
		TotalDonations:  m.totalDonations,
		TotalAmountUSD:  m.totalAmountUSD,
		SuccessfulSwaps: m.successfulSwaps,
		LivesImpacted:   m.livesImpacted,
		ResponseTimeMS:  m.responseTime.Milliseconds(),
	}
	var analytics *responses.AnalyticsResponseData
	if m.analyticsEnabled() {
		analytics = m.analytics(metrics.TotalAmountUSD)
	}
	m.mu.Unlock()

	if m.campaigns != nil {
		metrics.ActiveCampaigns = len(m.campaigns.ListCampaigns())
	}

	average := decimal.Zero
	if metrics.TotalDonations > 0 {
		average = metrics.TotalAmountUSD.Div(decimal.NewFromInt(metrics.TotalDonations))
	}

	return &responses.MetricsResponseData{
		Metrics:             metrics,
		TotalAmountDisplay:  m.printer.Sprintf("$%.2f", metrics.TotalAmountUSD.InexactFloat64()),
		AverageDonationUSD:  m.printer.Sprintf("$%.2f", average.InexactFloat64()),
		SuccessfulSwapsText: m.printer.Sprintf("%d", metrics.SuccessfulSwaps),
		Analytics:           analytics,
	}
}

// analytics must be called with m.mu held.
func (m *metricsService) analytics(totalUSD decimal.Decimal) *responses.AnalyticsResponseData {
	out := &responses.AnalyticsResponseData{
		TopAssets:           make([]responses.AssetShareResponseData, 0, len(m.byAsset)),
		CampaignPerformance: []responses.CampaignPerformanceResponseData{},
	}

	for symbol, t := range m.byAsset {
		share := decimal.Zero
		if totalUSD.IsPositive() {
			share = t.usd.Div(totalUSD).Mul(decimal.NewFromInt(100)).Round(2)
		}
		out.TopAssets = append(out.TopAssets, responses.AssetShareResponseData{
			Asset:      symbol,
			AmountUSD:  t.usd,
			Donations:  t.count,
			Percentage: share,
		})
	}
	sort.Slice(out.TopAssets, func(i, j int) bool {
		a, b := out.TopAssets[i], out.TopAssets[j]
		if !a.AmountUSD.Equal(b.AmountUSD) {
			return a.AmountUSD.GreaterThan(b.AmountUSD)
		}
		return a.Asset < b.Asset
	})

	if m.campaigns == nil {
		return out
	}
	for _, campaign := range m.campaigns.ListCampaigns() {
		perf := responses.CampaignPerformanceResponseData{
			ID:          campaign.ID,
			Name:        campaign.Title,
			Raised:      campaign.Raised,
			Target:      campaign.Target,
			AvgDonation: decimal.Zero,
		}
		if t, ok := m.byCampaign[campaign.ID]; ok {
			perf.Raised = perf.Raised.Add(t.usd)
			perf.Donors = t.count
			perf.AvgDonation = t.usd.Div(decimal.NewFromInt(t.count)).Round(2)
		}
		out.CampaignPerformance = append(out.CampaignPerformance, perf)
	}
	return out
}
