package handlers

import (
	"net/http"

	"github.com/2HgO/chainrelief-go/services"
	"github.com/2HgO/chainrelief-go/wallet"
	"go.uber.org/zap"
)

type handler struct {
	assetService    services.AssetService
	campaignService services.CampaignService
	quoteService    services.QuoteService
	swapService     services.SwapService
	donationService services.DonationService
	metricsService  services.MetricsService
	walletProvider  wallet.Provider
	middlewares     MiddleWareHandler

	log *zap.Logger
}

type Handler interface {
	ServeHttp(*http.ServeMux)
}
