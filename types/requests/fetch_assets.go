package requests

type FetchAssetsRequest struct {
	Network string `query:"network"`
	Symbol  string `query:"symbol"`
}

type FetchAssetRequest struct {
	AssetID string `uri:"asset_id" validate:"required"`
}
