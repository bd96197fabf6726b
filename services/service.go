package services

import (
	"time"

	"github.com/2HgO/chainrelief-go/config"
	"github.com/2HgO/chainrelief-go/sideshift"
	"go.uber.org/zap"
)

type service struct {
	config    *config.Config
	client    *sideshift.Client
	prices    PriceEstimator
	quotes    QuoteService
	swaps     SwapService
	metrics   MetricsService
	campaigns CampaignService
	scheduler SchedulerService
	log       *zap.Logger
	now       func() time.Time
}

// NewSideShiftClient builds the provider client from configuration.
func NewSideShiftClient(cfg *config.Config) *sideshift.Client {
	secret := cfg.SideShift.Secret
	if secret == "" {
		secret = cfg.SideShift.APIKey
	}
	return sideshift.NewClient(
		cfg.SideShift.BaseURL,
		secret,
		cfg.SideShift.AffiliateID,
		sideshift.WithUserIP(cfg.SideShift.UserIP),
		sideshift.WithTimeout(cfg.SideShift.Timeout),
	)
}
