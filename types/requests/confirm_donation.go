package requests

type ConfirmDonationRequest struct {
	DonationID string `uri:"donation_id" validate:"required"`
	QuoteID    string `json:"quote_id" validate:"required"`
}
