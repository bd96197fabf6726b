package requests

type FetchCampaignRequest struct {
	CampaignID string `uri:"campaign_id" validate:"required"`
}
