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

type QuoteHandler interface {
	CreateQuote(w http.ResponseWriter, r *http.Request)
	PreviewQuote(w http.ResponseWriter, r *http.Request)
	FetchQuote(w http.ResponseWriter, r *http.Request)
	ExchangeRates(w http.ResponseWriter, r *http.Request)

	ServeHttp(*http.ServeMux)
}

func NewQuoteHandler(quoteService services.QuoteService, middlewares MiddleWareHandler, log *zap.Logger) QuoteHandler {
	return &quoteHandler{
		handler: handler{quoteService: quoteService, middlewares: middlewares, log: log},
	}
}

type quoteHandler struct {
	handler
}

func (q *quoteHandler) ServeHttp(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/quotes", q.middlewares.Attach(q.CreateQuote))
	mux.HandleFunc("POST /api/v1/quotes/preview", q.middlewares.Attach(q.PreviewQuote))
	mux.HandleFunc("GET /api/v1/quotes/{quote_id}", q.middlewares.Attach(q.FetchQuote))
	mux.HandleFunc("GET /api/v1/rates", q.middlewares.Attach(q.ExchangeRates))
}

func (q *quoteHandler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	req := utils.Bind[requests.CreateQuoteRequest](r)

	res, err := q.quoteService.RequestQuote(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 201, responses.Successful(res))
}

// PreviewQuote keys superseded detection on X-Client-ID, or the caller IP without one.
func (q *quoteHandler) PreviewQuote(w http.ResponseWriter, r *http.Request) {
	req := utils.Bind[requests.CreateQuoteRequest](r)
	clientID := req.ClientID
	if clientID == "" {
		clientID = utils.ClientIP(r)
	}

	res, err := q.quoteService.PreviewQuote(r.Context(), clientID, req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, responses.Successful(res))
}

func (q *quoteHandler) FetchQuote(w http.ResponseWriter, r *http.Request) {
	req := utils.Bind[requests.FetchQuoteRequest](r)

	res, err := q.quoteService.GetQuote(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, responses.Successful(res))
}

func (q *quoteHandler) ExchangeRates(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, 200, responses.Successful(q.quoteService.ExchangeRates()))
}
