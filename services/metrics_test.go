package services

import (
	"sync"
	"testing"
	"time"

	"github.com/2HgO/chainrelief-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMetrics_RecordCompletedDonation(t *testing.T) {
	m := NewMetricsService(nil, nil, NewCampaignService(models.Campaigns), zap.NewNop())

	m.RecordCompletedDonation(&models.Donation{Impact: models.NewImpact(dec("12345.5"))})
	m.RecordCompletedDonation(&models.Donation{Impact: models.NewImpact(dec("250"))})

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.TotalDonations)
	assert.Equal(t, int64(2), snap.SuccessfulSwaps)
	assert.Equal(t, int64(125), snap.LivesImpacted)
	assert.True(t, snap.TotalAmountUSD.Equal(dec("12595.5")))
	assert.Equal(t, 3, snap.ActiveCampaigns)
	assert.Equal(t, "$12,595.50", snap.TotalAmountDisplay)
	assert.Equal(t, "$6,297.75", snap.AverageDonationUSD)
}

func TestMetrics_ConcurrentRecording(t *testing.T) {
	m := NewMetricsService(nil, nil, nil, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordCompletedDonation(&models.Donation{Impact: models.NewImpact(dec("100"))})
		}()
	}
	wg.Wait()

	snap := m.Snapshot()
	assert.Equal(t, int64(100), snap.TotalDonations)
	assert.Equal(t, int64(100), snap.LivesImpacted)
	assert.True(t, snap.TotalAmountUSD.Equal(dec("10000")))
}

func TestMetrics_TrackPerformance(t *testing.T) {
	m := NewMetricsService(nil, nil, nil, zap.NewNop())

	m.TrackPerformance("quote_lookup", time.Second)
	assert.Equal(t, int64(0), m.Snapshot().ResponseTimeMS)

	m.TrackPerformance(OperationDonationProcessing, 100*time.Millisecond)
	assert.Equal(t, int64(100), m.Snapshot().ResponseTimeMS)

	m.TrackPerformance(OperationDonationProcessing, 300*time.Millisecond)
	assert.Equal(t, int64(200), m.Snapshot().ResponseTimeMS)
}

func TestMetrics_SnapshotIsACopy(t *testing.T) {
	m := NewMetricsService(nil, nil, nil, zap.NewNop())
	snap := m.Snapshot()
	snap.TotalDonations = 99

	assert.Equal(t, int64(0), m.Snapshot().TotalDonations)
	assert.Equal(t, "$0.00", m.Snapshot().TotalAmountDisplay)
}

func TestMetrics_Analytics(t *testing.T) {
	cfg := mockConfig()
	cfg.Features.EnableAnalytics = true
	m := NewMetricsService(cfg, NewPriceEstimator(nil, zap.NewNop()), NewCampaignService(models.Campaigns), zap.NewNop())

	m.RecordCompletedDonation(&models.Donation{CampaignID: "hurricane-relief-2024", AssetID: "usdc-ethereum", Impact: models.NewImpact(dec("300"))})
	m.RecordCompletedDonation(&models.Donation{CampaignID: "hurricane-relief-2024", AssetID: "ETH", Impact: models.NewImpact(dec("600"))})
	m.RecordCompletedDonation(&models.Donation{CampaignID: "flood-relief-europe", AssetID: "eth-mainnet", Impact: models.NewImpact(dec("100"))})

	analytics := m.Snapshot().Analytics
	require.NotNil(t, analytics)

	require.Len(t, analytics.TopAssets, 2)
	assert.Equal(t, "ETH", analytics.TopAssets[0].Asset)
	assert.Equal(t, int64(2), analytics.TopAssets[0].Donations)
	assert.True(t, analytics.TopAssets[0].AmountUSD.Equal(dec("700")))
	assert.True(t, analytics.TopAssets[0].Percentage.Equal(dec("70")))
	assert.Equal(t, "USDC", analytics.TopAssets[1].Asset)
	assert.True(t, analytics.TopAssets[1].Percentage.Equal(dec("30")))

	require.Len(t, analytics.CampaignPerformance, len(models.Campaigns))
	hurricane := analytics.CampaignPerformance[0]
	assert.Equal(t, "hurricane-relief-2024", hurricane.ID)
	assert.Equal(t, int64(2), hurricane.Donors)
	assert.True(t, hurricane.Raised.Equal(models.Campaigns[0].Raised.Add(dec("900"))))
	assert.True(t, hurricane.AvgDonation.Equal(dec("450")))
	for _, perf := range analytics.CampaignPerformance {
		if perf.ID == "earthquake-response-asia" {
			assert.Zero(t, perf.Donors)
			assert.True(t, perf.AvgDonation.IsZero())
		}
	}
}

func TestMetrics_AnalyticsDisabled(t *testing.T) {
	cfg := mockConfig()
	cfg.Features.EnableAnalytics = false
	m := NewMetricsService(cfg, NewPriceEstimator(nil, zap.NewNop()), NewCampaignService(models.Campaigns), zap.NewNop())

	m.RecordCompletedDonation(&models.Donation{CampaignID: "hurricane-relief-2024", AssetID: "ETH", Impact: models.NewImpact(dec("600"))})
	assert.Nil(t, m.Snapshot().Analytics)
}
