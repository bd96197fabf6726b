package handlers

import (
	"net/http"

	"github.com/2HgO/chainrelief-go/errors"
	"github.com/2HgO/chainrelief-go/services"
	"github.com/2HgO/chainrelief-go/types/requests"
	"github.com/2HgO/chainrelief-go/types/responses"
	"github.com/2HgO/chainrelief-go/utils"
	"go.uber.org/zap"
)

type CampaignHandler interface {
	ListCampaigns(w http.ResponseWriter, r *http.Request)
	GetCampaign(w http.ResponseWriter, r *http.Request)
	GetCampaignStats(w http.ResponseWriter, r *http.Request)

	ServeHttp(*http.ServeMux)
}

func NewCampaignHandler(campaignService services.CampaignService, donationService services.DonationService, middlewares MiddleWareHandler, log *zap.Logger) CampaignHandler {
	return &campaignHandler{
		handler: handler{campaignService: campaignService, donationService: donationService, middlewares: middlewares, log: log},
	}
}

type campaignHandler struct {
	handler
}

func (c *campaignHandler) ServeHttp(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/campaigns", c.middlewares.Attach(c.ListCampaigns))
	mux.HandleFunc("GET /api/v1/campaigns/{campaign_id}", c.middlewares.Attach(c.GetCampaign))
	mux.HandleFunc("GET /api/v1/campaigns/{campaign_id}/stats", c.middlewares.Attach(c.GetCampaignStats))
}

func (c *campaignHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, 200, responses.Successful(c.campaignService.ListCampaigns()))
}

func (c *campaignHandler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	req := utils.Bind[requests.FetchCampaignRequest](r)

	res, err := c.campaignService.GetCampaign(req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, responses.Successful(res))
}

func (c *campaignHandler) GetCampaignStats(w http.ResponseWriter, r *http.Request) {
	req := utils.Bind[requests.FetchCampaignRequest](r)

	res, err := c.donationService.CampaignStats(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, responses.Successful(res))
}
