package handlers

import (
	"net/http"

	"github.com/2HgO/chainrelief-go/services"
	"github.com/2HgO/chainrelief-go/types/responses"
	"github.com/2HgO/chainrelief-go/utils"
	"go.uber.org/zap"
)

type MetricsHandler interface {
	FetchMetrics(w http.ResponseWriter, r *http.Request)

	ServeHttp(*http.ServeMux)
}

func NewMetricsHandler(metricsService services.MetricsService, middlewares MiddleWareHandler, log *zap.Logger) MetricsHandler {
	return &metricsHandler{
		handler: handler{metricsService: metricsService, middlewares: middlewares, log: log},
	}
}

type metricsHandler struct {
	handler
}

func (m *metricsHandler) ServeHttp(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/metrics", m.middlewares.Attach(m.FetchMetrics))
}

func (m *metricsHandler) FetchMetrics(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, 200, responses.Successful(m.metricsService.Snapshot()))
}
