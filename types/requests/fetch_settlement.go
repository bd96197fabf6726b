package requests

type FetchSettlementRequest struct {
	SettlementID string `uri:"settlement_id" validate:"required"`
}
