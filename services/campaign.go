package services

import (
	"fmt"

	"github.com/2HgO/chainrelief-go/errors"
	"github.com/2HgO/chainrelief-go/models"
	"github.com/2HgO/chainrelief-go/types/requests"
)

type CampaignService interface {
	ListCampaigns() []models.Campaign
	GetCampaign(req *requests.FetchCampaignRequest) (*models.Campaign, error)
}

func NewCampaignService(campaigns []models.Campaign) CampaignService {
	return &campaignService{campaigns: campaigns}
}

type campaignService struct {
	campaigns []models.Campaign
}

func (c *campaignService) ListCampaigns() []models.Campaign {
	out := make([]models.Campaign, len(c.campaigns))
	copy(out, c.campaigns)
	return out
}

func (c *campaignService) GetCampaign(req *requests.FetchCampaignRequest) (*models.Campaign, error) {
	for _, campaign := range c.campaigns {
		if campaign.ID == req.CampaignID {
			return &campaign, nil
		}
	}
	return nil, errors.NewNotFoundError(fmt.Sprintf("campaign %s not found", req.CampaignID))
}
