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

type SwapHandler interface {
	ExecuteSwap(w http.ResponseWriter, r *http.Request)
	FetchSettlement(w http.ResponseWriter, r *http.Request)

	ServeHttp(*http.ServeMux)
}

func NewSwapHandler(swapService services.SwapService, middlewares MiddleWareHandler, log *zap.Logger) SwapHandler {
	return &swapHandler{
		handler: handler{swapService: swapService, middlewares: middlewares, log: log},
	}
}

type swapHandler struct {
	handler
}

func (s *swapHandler) ServeHttp(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/swaps", s.middlewares.Attach(s.ExecuteSwap))
	mux.HandleFunc("GET /api/v1/swaps/{settlement_id}", s.middlewares.Attach(s.FetchSettlement))
}

func (s *swapHandler) ExecuteSwap(w http.ResponseWriter, r *http.Request) {
	req := utils.Bind[requests.ExecuteSwapRequest](r)

	res, err := s.swapService.ExecuteQuote(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 201, responses.Successful(res))
}

func (s *swapHandler) FetchSettlement(w http.ResponseWriter, r *http.Request) {
	req := utils.Bind[requests.FetchSettlementRequest](r)

	res, err := s.swapService.GetOrderStatus(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, responses.Successful(res))
}
