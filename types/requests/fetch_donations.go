package requests

type FetchDonationRequest struct {
	DonationID string `uri:"donation_id" validate:"required"`
}

type FetchDonationsRequest struct {
	CampaignID string `query:"campaign_id"`
}

type ExportDonationsRequest struct {
	Format string `query:"format" default:"json" validate:"oneof=json csv"`
}
