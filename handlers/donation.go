package handlers

import (
	"fmt"
	"net/http"

	"github.com/2HgO/chainrelief-go/errors"
	"github.com/2HgO/chainrelief-go/services"
	"github.com/2HgO/chainrelief-go/types/requests"
	"github.com/2HgO/chainrelief-go/types/responses"
	"github.com/2HgO/chainrelief-go/utils"
	"go.uber.org/zap"
)

type DonationHandler interface {
	CreateDonation(w http.ResponseWriter, r *http.Request)
	CreateDonationBatch(w http.ResponseWriter, r *http.Request)
	FetchDonations(w http.ResponseWriter, r *http.Request)
	FetchDonation(w http.ResponseWriter, r *http.Request)
	ConfirmDonation(w http.ResponseWriter, r *http.Request)
	DonationStats(w http.ResponseWriter, r *http.Request)
	ExportDonations(w http.ResponseWriter, r *http.Request)
	DonationReceipt(w http.ResponseWriter, r *http.Request)
	FraudCheck(w http.ResponseWriter, r *http.Request)

	ServeHttp(*http.ServeMux)
}

func NewDonationHandler(donationService services.DonationService, middlewares MiddleWareHandler, log *zap.Logger) DonationHandler {
	return &donationHandler{
		handler: handler{donationService: donationService, middlewares: middlewares, log: log},
	}
}

type donationHandler struct {
	handler
}

func (d *donationHandler) ServeHttp(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/donations", d.middlewares.Attach(d.CreateDonation))
	mux.HandleFunc("POST /api/v1/donations/batch", d.middlewares.Attach(d.CreateDonationBatch))
	mux.HandleFunc("GET /api/v1/donations", d.middlewares.Attach(d.FetchDonations))
	mux.HandleFunc("GET /api/v1/donations/stats", d.middlewares.Attach(d.DonationStats))
	mux.HandleFunc("GET /api/v1/donations/export", d.middlewares.Attach(d.ExportDonations))
	mux.HandleFunc("GET /api/v1/donations/{donation_id}", d.middlewares.Attach(d.FetchDonation))
	mux.HandleFunc("POST /api/v1/donations/{donation_id}/confirm", d.middlewares.Attach(d.ConfirmDonation))
	mux.HandleFunc("GET /api/v1/donations/{donation_id}/receipt", d.middlewares.Attach(d.DonationReceipt))
	mux.HandleFunc("GET /api/v1/donations/{donation_id}/fraud-check", d.middlewares.Attach(d.FraudCheck))
}

func (d *donationHandler) CreateDonation(w http.ResponseWriter, r *http.Request) {
	req := utils.Bind[requests.CreateDonationRequest](r)

	res, err := d.donationService.CreateDonation(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 201, responses.Successful(res))
}

func (d *donationHandler) CreateDonationBatch(w http.ResponseWriter, r *http.Request) {
	req := utils.Bind[requests.CreateDonationBatchRequest](r)

	res := d.donationService.ProcessBatch(r.Context(), req)

	utils.JSON(w, 200, responses.Successful(res))
}

func (d *donationHandler) FetchDonations(w http.ResponseWriter, r *http.Request) {
	req := utils.Bind[requests.FetchDonationsRequest](r)

	res, err := d.donationService.ListDonations(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, responses.Successful(res))
}

func (d *donationHandler) FetchDonation(w http.ResponseWriter, r *http.Request) {
	req := utils.Bind[requests.FetchDonationRequest](r)

	res, err := d.donationService.GetDonation(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, responses.Successful(res))
}

func (d *donationHandler) ConfirmDonation(w http.ResponseWriter, r *http.Request) {
	req := utils.Bind[requests.ConfirmDonationRequest](r)

	res, err := d.donationService.ConfirmDonation(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, responses.Successful(res))
}

func (d *donationHandler) DonationStats(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, 200, responses.Successful(d.donationService.DonationStats(r.Context())))
}

func (d *donationHandler) ExportDonations(w http.ResponseWriter, r *http.Request) {
	req := utils.Bind[requests.ExportDonationsRequest](r)

	res, err := d.donationService.ExportDonations(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	contentType := "application/json"
	if req.Format == "csv" {
		contentType = "text/csv"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=donations.%s", req.Format))
	w.WriteHeader(200)
	w.Write(res)
}

func (d *donationHandler) DonationReceipt(w http.ResponseWriter, r *http.Request) {
	req := utils.Bind[requests.FetchDonationRequest](r)

	res, err := d.donationService.GenerateReceipt(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, responses.Successful(res))
}

func (d *donationHandler) FraudCheck(w http.ResponseWriter, r *http.Request) {
	req := utils.Bind[requests.FetchDonationRequest](r)

	res, err := d.donationService.CheckFraud(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, responses.Successful(res))
}
