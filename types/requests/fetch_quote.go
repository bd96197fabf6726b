package requests

type FetchQuoteRequest struct {
	QuoteID string `uri:"quote_id" validate:"required"`
}
