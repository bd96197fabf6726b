package requests

type ExecuteSwapRequest struct {
	QuoteID          string `json:"quote_id" validate:"required"`
	RecipientAddress string `json:"recipient_address" validate:"required,min=10"`
}
