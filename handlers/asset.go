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

type AssetHandler interface {
	ListAssets(w http.ResponseWriter, r *http.Request)
	GetAsset(w http.ResponseWriter, r *http.Request)

	ServeHttp(*http.ServeMux)
}

func NewAssetHandler(assetService services.AssetService, middlewares MiddleWareHandler, log *zap.Logger) AssetHandler {
	return &assetHandler{
		handler: handler{assetService: assetService, middlewares: middlewares, log: log},
	}
}

type assetHandler struct {
	handler
}

func (a *assetHandler) ServeHttp(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/assets", a.middlewares.Attach(a.ListAssets))
	mux.HandleFunc("GET /api/v1/assets/{asset_id}", a.middlewares.Attach(a.GetAsset))
}

func (a *assetHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	req := utils.Bind[requests.FetchAssetsRequest](r)

	res, err := a.assetService.ListAssets(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, responses.Successful(res))
}

func (a *assetHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	req := utils.Bind[requests.FetchAssetRequest](r)

	res, err := a.assetService.GetAsset(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, responses.Successful(res))
}
