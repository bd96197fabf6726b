package requests

type FetchWalletRequest struct {
	Address string `uri:"address" validate:"required"`
}
